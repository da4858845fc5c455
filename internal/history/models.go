package history

import "time"

// Run is one recorded conversion run.
type Run struct {
	ID         string    `json:"id"`
	Origin     string    `json:"origin"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Files      int       `json:"files"`
	Converted  int       `json:"converted"`
	Failed     int       `json:"failed"`
	Cancelled  int       `json:"cancelled"`
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// FileOutcome is the final result for one file of a run.
type FileOutcome struct {
	RunID         string        `json:"runId"`
	SourcePath    string        `json:"source"`
	OutputPath    string        `json:"output,omitempty"`
	Status        string        `json:"status"`
	FailureKind   string        `json:"failureKind,omitempty"`
	ErrorMessage  string        `json:"error,omitempty"`
	Findings      int           `json:"findings"`
	FindingErrors int           `json:"findingErrors"`
	Duration      time.Duration `json:"durationNs"`
}

// Origins of a run.
const (
	OriginCLI   = "cli"
	OriginWatch = "watch"
)

package validation

import (
	"fmt"
	"sync"
)

// Severity ranks a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "information"
)

// Finding is a single validation observation made while decoding.
type Finding struct {
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	TemplateID string   `json:"templateId,omitempty"`
	Path       string   `json:"path,omitempty"`
	Reference  string   `json:"reference,omitempty"`
}

// IsError reports whether the finding has error severity.
func (f Finding) IsError() bool {
	return f.Severity == SeverityError
}

// String returns a single-line description suitable for logs.
func (f Finding) String() string {
	s := string(f.Severity) + ": " + f.Message
	if f.TemplateID != "" {
		s += " (template " + f.TemplateID + ")"
	}
	return s
}

// Ledger collects findings for one conversion. Each in-flight conversion
// owns its own ledger; a ledger is never shared between files.
type Ledger struct {
	mu       sync.Mutex
	armed    bool
	findings []Finding
}

// NewLedger returns an armed, empty ledger.
func NewLedger() *Ledger {
	l := &Ledger{}
	l.Init()
	return l
}

// Init clears previous findings and arms the ledger.
func (l *Ledger) Init() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.findings = l.findings[:0]
	l.armed = true
}

// Clear discards all findings. The armed state is unchanged.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.findings = nil
}

// Disarm makes the ledger drop every subsequent finding. Used when
// validation is skipped for a run.
func (l *Ledger) Disarm() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.armed = false
}

// Armed reports whether findings are being recorded.
func (l *Ledger) Armed() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.armed
}

// Add records f when the ledger is armed.
func (l *Ledger) Add(f Finding) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.armed {
		return
	}
	l.findings = append(l.findings, f)
}

// Errorf records an error finding against templateID.
func (l *Ledger) Errorf(templateID string, ref Reference, format string, args ...any) {
	l.Add(Finding{
		Severity:   SeverityError,
		Message:    fmt.Sprintf(format, args...),
		TemplateID: templateID,
		Reference:  ref.String(),
	})
}

// Warnf records a warning finding against templateID.
func (l *Ledger) Warnf(templateID string, ref Reference, format string, args ...any) {
	l.Add(Finding{
		Severity:   SeverityWarning,
		Message:    fmt.Sprintf(format, args...),
		TemplateID: templateID,
		Reference:  ref.String(),
	})
}

// Findings returns a copy of the recorded findings in arrival order.
func (l *Ledger) Findings() []Finding {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Finding, len(l.findings))
	copy(out, l.findings)
	return out
}

// Len returns the number of recorded findings.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.findings)
}

// ErrorCount returns the number of error findings.
func (l *Ledger) ErrorCount() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	count := 0
	for _, f := range l.findings {
		if f.IsError() {
			count++
		}
	}
	return count
}

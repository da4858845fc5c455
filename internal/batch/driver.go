package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"qrdaconv/internal/config"
	"qrdaconv/internal/convert"
	"qrdaconv/internal/decode"
	"qrdaconv/internal/logging"
	"qrdaconv/internal/services"
)

// State is the driver's lifecycle position.
type State int32

const (
	StateIdle State = iota
	StateResolvingPaths
	StateDispatching
	StateWaitingForCompletion
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolvingPaths:
		return "resolving_paths"
	case StateDispatching:
		return "dispatching"
	case StateWaitingForCompletion:
		return "waiting_for_completion"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Status is the outcome of one file.
type Status string

const (
	StatusConverted Status = "converted"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Record describes what happened to one input file.
type Record struct {
	Source       string
	Output       string
	FindingsPath string
	Findings     int
	Errors       int
	Status       Status
	Err          error
	Duration     time.Duration
}

// Kind returns the failure classification, empty on success.
func (r Record) Kind() string {
	return services.FailureKind(r.Err)
}

// Summary aggregates a run.
type Summary struct {
	RunID     string
	Started   time.Time
	Finished  time.Time
	Records   []Record
	Missing   []string
	Usage     []error
	Converted int
	Failed    int
	Cancelled int
}

// FailedUnder reports whether the run should exit non-zero under policy.
func (s *Summary) FailedUnder(policy string) bool {
	switch policy {
	case config.FailOnNever:
		return false
	case config.FailOnAll:
		return s.Converted == 0
	default:
		return s.Failed+s.Cancelled > 0 || len(s.Missing) > 0 || len(s.Usage) > 0 || len(s.Records) == 0
	}
}

// FileConverter converts one file. *convert.Converter satisfies it.
type FileConverter interface {
	ConvertFile(ctx context.Context, path string, opts decode.Options) (convert.Result, error)
}

// OutputNamer is implemented by converters that can name an input's output
// before converting it. *convert.Converter satisfies it.
type OutputNamer interface {
	OutputPath(input string) string
}

// Driver converts batches of files with a bounded worker pool.
type Driver struct {
	conv     FileConverter
	parallel int
	logger   *slog.Logger
	state    atomic.Int32
}

// New builds a driver. maxParallel values below one run files one at a time.
func New(conv FileConverter, maxParallel int, logger *slog.Logger) *Driver {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Driver{
		conv:     conv,
		parallel: maxParallel,
		logger:   logging.NewComponentLogger(logger, "batch"),
	}
}

// State returns the current lifecycle state. A driver stays in StateDone
// after a run until the next run starts.
func (d *Driver) State() State {
	return State(d.state.Load())
}

func (d *Driver) setState(s State) {
	d.state.Store(int32(s))
}

// Run resolves args and converts every resolved file. It returns an error
// only when the run itself cannot proceed; per-file failures are records in
// the summary.
func (d *Driver) Run(ctx context.Context, args []string, opts decode.Options) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString(), Started: time.Now()}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, d.logger)

	d.setState(StateResolvingPaths)
	res := Resolve(args, d.logger)
	summary.Missing = res.Missing
	summary.Usage = res.Usage
	if len(res.Files) == 0 {
		summary.Finished = time.Now()
		d.setState(StateDone)
		logger.Warn("no input files resolved",
			logging.String(logging.FieldEventType, "batch_empty"),
			logging.Int("arguments", len(args)),
		)
		return summary, nil
	}

	summary.Records = d.dispatch(ctx, logger, res.Files, opts)
	for _, rec := range summary.Records {
		switch rec.Status {
		case StatusConverted:
			summary.Converted++
		case StatusCancelled:
			summary.Cancelled++
		default:
			summary.Failed++
		}
	}
	summary.Finished = time.Now()
	d.setState(StateDone)

	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("files", len(summary.Records)),
		logging.Int("converted", summary.Converted),
		logging.Int("failed", summary.Failed),
		logging.Int("cancelled", summary.Cancelled),
		logging.Duration("duration", summary.Finished.Sub(summary.Started)),
	)
	return summary, nil
}

func (d *Driver) dispatch(ctx context.Context, logger *slog.Logger, files []string, opts decode.Options) []Record {
	records := make([]Record, len(files))
	workers := min(d.parallel, len(files))

	d.setState(StateDispatching)
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.Int("files", len(files)),
		logging.Int("workers", workers),
	)

	clashes := d.outputClashes(files)

	var g errgroup.Group
	g.SetLimit(workers)
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			records[i] = cancelledRecord(file, err)
			continue
		}
		if clashes[i] != "" {
			records[i] = clashRecord(file, clashes[i])
			logging.WarnWithContext(logging.WithContext(services.WithSource(ctx, file), d.logger),
				"output path already claimed in this run", "output_clash",
				logging.String("claimed_by", clashes[i]),
				logging.String(logging.FieldImpact, "file not converted"),
				logging.String(logging.FieldErrorHint, "convert these inputs in separate runs or without output.dir"),
			)
			continue
		}
		g.Go(func() error {
			records[i] = d.convertOne(ctx, file, opts)
			return nil
		})
	}

	d.setState(StateWaitingForCompletion)
	_ = g.Wait()
	return records
}

func (d *Driver) convertOne(ctx context.Context, file string, opts decode.Options) (rec Record) {
	rec = Record{Source: file}
	started := time.Now()
	logger := logging.WithContext(services.WithSource(ctx, file), d.logger)

	defer func() {
		if r := recover(); r != nil {
			rec.Status = StatusFailed
			rec.Err = services.Wrap(services.ErrInternal, "convert", "panic", fmt.Sprint(r), nil)
			rec.Duration = time.Since(started)
			logging.ErrorWithContext(logger, "conversion panicked", "convert_panic",
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())),
			)
		}
	}()

	if err := ctx.Err(); err != nil {
		return cancelledRecord(file, err)
	}

	result, err := d.conv.ConvertFile(ctx, file, opts)
	rec.Duration = time.Since(started)
	if err != nil {
		rec.Status = StatusFailed
		if services.FailureKind(err) == "cancelled" {
			rec.Status = StatusCancelled
		}
		rec.Err = err
		logging.ErrorWithContext(logger, "conversion failed", "convert_failure",
			logging.String("failure_kind", services.FailureKind(err)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "no output written for this file"),
		)
		return rec
	}

	rec.Status = StatusConverted
	rec.Output = result.Output
	rec.FindingsPath = result.FindingsPath
	rec.Findings = len(result.Findings)
	rec.Errors = result.ErrorCount()
	return rec
}

// outputClashes returns, per file, the earlier file whose output path it
// shares, or "" when its output is its own. Files are in resolution order so
// the first claimant wins.
func (d *Driver) outputClashes(files []string) []string {
	clashes := make([]string, len(files))
	namer, ok := d.conv.(OutputNamer)
	if !ok {
		return clashes
	}
	claimed := make(map[string]string, len(files))
	for i, file := range files {
		out := namer.OutputPath(file)
		if first, taken := claimed[out]; taken {
			clashes[i] = first
			continue
		}
		claimed[out] = file
	}
	return clashes
}

func clashRecord(file, first string) Record {
	return Record{
		Source: file,
		Status: StatusFailed,
		Err:    services.Wrap(services.ErrUsage, "batch", "dispatch", "output path is shared with "+first, nil),
	}
}

func cancelledRecord(file string, err error) Record {
	return Record{
		Source: file,
		Status: StatusCancelled,
		Err:    services.Wrap(services.ErrCancelled, "batch", "dispatch", "file not started", err),
	}
}

package testsupport

import (
	"path/filepath"
	"testing"

	"qrdaconv/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// History is disabled and the API binds an ephemeral port unless options
// say otherwise.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "history", "history.db")
	cfgVal.Paths.LockPath = filepath.Join(base, "watch.lock")
	cfgVal.History.Enabled = false
	cfgVal.API.Bind = "127.0.0.1:0"
	cfgVal.Watch.DebounceMS = 20

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithHistory enables the run history store.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
	}
}

// WithOutputDir routes outputs into a directory under the test base.
func WithOutputDir(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Dir = filepath.Join(b.baseDir, name)
	}
}

// WithParallel sets batch.max_parallel.
func WithParallel(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.MaxParallel = n
	}
}

// WithFailOn sets batch.fail_on.
func WithFailOn(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.FailOn = policy
	}
}

// WithSkipDefaults disables default value injection.
func WithSkipDefaults() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.SkipDefaults = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"qrdaconv/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "qrdaconv", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "qrdaconv", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Batch.MaxParallel != 4 || cfg.Batch.FailOn != config.FailOnAny {
		t.Fatalf("unexpected batch defaults: %+v", cfg.Batch)
	}
	if cfg.TemplateID.Element != "templateId" || cfg.TemplateID.Attribute != "root" {
		t.Fatalf("unexpected template id rule: %+v", cfg.TemplateID)
	}
	if cfg.Output.Dir != "" || cfg.Output.Suffix != ".qpp.json" {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.API.Bind != "127.0.0.1:7488" {
		t.Fatalf("unexpected api bind: %q", cfg.API.Bind)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Paths.HistoryDB)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "qrdaconv.toml")

	type payload struct {
		Batch struct {
			MaxParallel int    `toml:"max_parallel"`
			FailOn      string `toml:"fail_on"`
		} `toml:"batch"`
		Output struct {
			Dir string `toml:"dir"`
		} `toml:"output"`
		Logging struct {
			Level              string            `toml:"level"`
			ComponentOverrides map[string]string `toml:"component_overrides"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Batch.MaxParallel = 9
	custom.Batch.FailOn = " ALL "
	custom.Output.Dir = filepath.Join(tempDir, "out")
	custom.Logging.Level = "DEBUG"
	custom.Logging.ComponentOverrides = map[string]string{" Decode ": "Warn"}

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom path to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Batch.MaxParallel != 9 || cfg.Batch.FailOn != config.FailOnAll {
		t.Fatalf("unexpected batch: %+v", cfg.Batch)
	}
	if cfg.Output.Dir != filepath.Join(tempDir, "out") {
		t.Fatalf("unexpected output dir %q", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected level lower-cased, got %q", cfg.Logging.Level)
	}
	if got := cfg.Logging.ComponentOverrides["decode"]; got != "warn" {
		t.Fatalf("expected normalized override, got %v", cfg.Logging.ComponentOverrides)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "qrdaconv.toml")
	if err := os.WriteFile(configPath, []byte("[batch]\nmax_parallel = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QRDACONV_MAX_PARALLEL", "7")
	t.Setenv("QRDACONV_SKIP_DEFAULTS", "true")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Batch.MaxParallel != 7 {
		t.Fatalf("expected env to win, got %d", cfg.Batch.MaxParallel)
	}
	if !cfg.Conversion.SkipDefaults {
		t.Fatal("expected skip_defaults from env")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "qrdaconv.toml")
	if err := os.WriteFile(configPath, []byte("[batch]\nworkers = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to fail parsing")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"parallel", func(c *config.Config) { c.Batch.MaxParallel = 0 }, "batch.max_parallel"},
		{"fail_on", func(c *config.Config) { c.Batch.FailOn = "some" }, "batch.fail_on"},
		{"element", func(c *config.Config) { c.TemplateID.Element = "a/b" }, "template_id.element"},
		{"suffix", func(c *config.Config) { c.Output.Suffix = "json" }, "output.suffix"},
		{"same suffix", func(c *config.Config) { c.Output.FindingsSuffix = c.Output.Suffix }, "must differ"},
		{"xml suffix", func(c *config.Config) { c.Output.Suffix = ".XML" }, "must not be .xml"},
		{"bind", func(c *config.Config) { c.API.Bind = "localhost" }, "api.bind"},
		{"pattern", func(c *config.Config) { c.Watch.Pattern = "[" }, "watch.pattern"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"override", func(c *config.Config) { c.Logging.ComponentOverrides = map[string]string{"decode": "loud"} }, "component_overrides.decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSampleConfigLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte(config.SampleConfig()), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Batch.MaxParallel != config.Default().Batch.MaxParallel {
		t.Fatalf("sample and defaults disagree on max_parallel: %d", cfg.Batch.MaxParallel)
	}
}

func TestExpandPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/x/y")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("unexpected expansion %q", got)
	}
}

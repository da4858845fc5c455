package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file locations owned by qrdaconv itself.
type Paths struct {
	LogDir    string `toml:"log_dir" env:"QRDACONV_LOG_DIR"`
	HistoryDB string `toml:"history_db" env:"QRDACONV_HISTORY_DB"`
	LockPath  string `toml:"lock_path" env:"QRDACONV_LOCK_PATH"`
}

// Batch controls the parallel driver.
type Batch struct {
	MaxParallel int    `toml:"max_parallel" env:"QRDACONV_MAX_PARALLEL"`
	FailOn      string `toml:"fail_on" env:"QRDACONV_FAIL_ON"`
}

// Conversion holds the per-run switches shared by every file.
type Conversion struct {
	SkipValidation bool `toml:"skip_validation" env:"QRDACONV_SKIP_VALIDATION"`
	SkipDefaults   bool `toml:"skip_defaults" env:"QRDACONV_SKIP_DEFAULTS"`
}

// TemplateID describes how template ids are read from an element.
type TemplateID struct {
	Element          string `toml:"element"`
	Attribute        string `toml:"attribute"`
	IncludeExtension bool   `toml:"include_extension" env:"QRDACONV_TEMPLATE_INCLUDE_EXTENSION"`
	ExtensionAttr    string `toml:"extension_attribute"`
}

// Output controls where converted documents land.
type Output struct {
	// Dir receives every output when set; empty writes next to the input.
	Dir            string `toml:"dir" env:"QRDACONV_OUTPUT_DIR"`
	Suffix         string `toml:"suffix"`
	WriteFindings  bool   `toml:"write_findings" env:"QRDACONV_WRITE_FINDINGS"`
	FindingsSuffix string `toml:"findings_suffix"`
}

// History controls the run history store.
type History struct {
	Enabled  bool `toml:"enabled" env:"QRDACONV_HISTORY"`
	KeepRuns int  `toml:"keep_runs"`
}

// API contains the HTTP boundary settings.
type API struct {
	Bind               string `toml:"bind" env:"QRDACONV_API_BIND"`
	MaxBodyBytes       int64  `toml:"max_body_bytes"`
	ReadTimeoutSeconds int    `toml:"read_timeout_seconds"`
}

// Watch contains directory watcher settings.
type Watch struct {
	Pattern    string `toml:"pattern"`
	DebounceMS int    `toml:"debounce_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format             string            `toml:"format" env:"QRDACONV_LOG_FORMAT"`
	Level              string            `toml:"level" env:"QRDACONV_LOG_LEVEL"`
	RetentionDays      int               `toml:"retention_days"`
	ComponentOverrides map[string]string `toml:"component_overrides"`
}

// Config encapsulates all configuration values for qrdaconv.
//
// Configuration sections by subsystem:
//   - Paths: log directory, history database, watcher lock
//   - Batch: parallelism and exit policy
//   - Conversion: validation and default-injection switches
//   - TemplateID: the template id extraction rule
//   - Output: output directory and file suffixes
//   - History: run history retention
//   - API: HTTP boundary bind address and limits
//   - Watch: directory watcher pattern and debounce
//   - Logging: log format, level, and per-component overrides
type Config struct {
	Paths      Paths      `toml:"paths"`
	Batch      Batch      `toml:"batch"`
	Conversion Conversion `toml:"conversion"`
	TemplateID TemplateID `toml:"template_id"`
	Output     Output     `toml:"output"`
	History    History    `toml:"history"`
	API        API        `toml:"api"`
	Watch      Watch      `toml:"watch"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/qrdaconv/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has environment overrides applied and all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnv overlays QRDACONV_* variables. Having none set is not an error.
func applyEnv(cfg *Config) error {
	err := envdecode.Decode(cfg)
	if err == nil || errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil
	}
	return fmt.Errorf("environment overrides: %w", err)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("qrdaconv.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories qrdaconv writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.History.Enabled && c.Paths.HistoryDB != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.HistoryDB))
	}
	if c.Output.Dir != "" {
		dirs = append(dirs, c.Output.Dir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

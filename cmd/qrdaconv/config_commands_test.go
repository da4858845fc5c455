package main

import (
	"os"
	"path/filepath"
	"testing"

	"qrdaconv/internal/config"
	"qrdaconv/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"config", "validate"}, configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, configPath)

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if err := os.WriteFile(target, []byte("# edited\n"), 0o644); err != nil {
		t.Fatalf("edit config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if got := testsupport.ReadFile(t, target); got != "# edited\n" {
		t.Fatalf("refused init changed the file: %q", got)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
	if got := testsupport.ReadFile(t, target); got != config.SampleConfig() {
		t.Fatal("--overwrite did not restore the sample")
	}
}

func TestConfigInitStdoutWritesNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, _, err := runCLI(t, []string{"config", "init", "--stdout"}, "")
	if err != nil {
		t.Fatalf("config init --stdout: %v", err)
	}
	if out != config.SampleConfig() {
		t.Fatalf("expected the sample on stdout, got %q", out)
	}
	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if _, err := os.Stat(defaultPath); !os.IsNotExist(err) {
		t.Fatalf("expected no file at %s, stat err=%v", defaultPath, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--stdout", "--path", filepath.Join(t.TempDir(), "c.toml")}, ""); err == nil {
		t.Fatal("expected --stdout and --path to conflict")
	}
}

func TestConfigShowPrintsEffectiveValues(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithParallel(3))
	configPath := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"config", "show"}, configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "max_parallel = 3")
	requireContains(t, out, "[logging]")
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[batch]\nfail_on = \"sometimes\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, path); err == nil {
		t.Fatal("expected validation error")
	}
}

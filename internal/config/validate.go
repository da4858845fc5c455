package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateTemplateID(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.MaxParallel < 1 {
		return errors.New("batch.max_parallel must be at least 1")
	}
	switch c.Batch.FailOn {
	case FailOnAny, FailOnAll, FailOnNever:
		return nil
	default:
		return fmt.Errorf("batch.fail_on must be one of any, all, never (got %q)", c.Batch.FailOn)
	}
}

func (c *Config) validateTemplateID() error {
	if strings.ContainsAny(c.TemplateID.Element, " /:") {
		return fmt.Errorf("template_id.element must be a bare element name (got %q)", c.TemplateID.Element)
	}
	if c.TemplateID.Attribute == c.TemplateID.ExtensionAttr {
		return errors.New("template_id.attribute and template_id.extension_attribute must differ")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if !strings.HasPrefix(c.Output.Suffix, ".") {
		return fmt.Errorf("output.suffix must start with a dot (got %q)", c.Output.Suffix)
	}
	if !strings.HasPrefix(c.Output.FindingsSuffix, ".") {
		return fmt.Errorf("output.findings_suffix must start with a dot (got %q)", c.Output.FindingsSuffix)
	}
	if strings.EqualFold(c.Output.Suffix, c.Output.FindingsSuffix) {
		return errors.New("output.suffix and output.findings_suffix must differ")
	}
	if strings.EqualFold(c.Output.Suffix, ".xml") {
		return errors.New("output.suffix must not be .xml")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if !strings.Contains(c.API.Bind, ":") {
		return fmt.Errorf("api.bind must be host:port (got %q)", c.API.Bind)
	}
	return nil
}

func (c *Config) validateWatch() error {
	if _, err := filepath.Match(c.Watch.Pattern, "probe.xml"); err != nil {
		return fmt.Errorf("watch.pattern: %w", err)
	}
	if c.Watch.DebounceMS < 0 {
		return errors.New("watch.debounce_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	if !validLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	for component, level := range c.Logging.ComponentOverrides {
		if !validLevel(level) {
			return fmt.Errorf("logging.component_overrides.%s: %q is not a known level", component, level)
		}
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}

func validLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

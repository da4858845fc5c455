package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBatch()
	c.normalizeTemplateID()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeWatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockPath) == "" {
		c.Paths.LockPath = defaultLockPath
	}
	if c.Paths.LockPath, err = expandPath(c.Paths.LockPath); err != nil {
		return fmt.Errorf("paths.lock_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeBatch() {
	c.Batch.FailOn = strings.ToLower(strings.TrimSpace(c.Batch.FailOn))
	if c.Batch.FailOn == "" {
		c.Batch.FailOn = defaultFailOn
	}
}

func (c *Config) normalizeTemplateID() {
	c.TemplateID.Element = strings.TrimSpace(c.TemplateID.Element)
	if c.TemplateID.Element == "" {
		c.TemplateID.Element = defaultTemplateElement
	}
	c.TemplateID.Attribute = strings.TrimSpace(c.TemplateID.Attribute)
	if c.TemplateID.Attribute == "" {
		c.TemplateID.Attribute = defaultTemplateAttr
	}
	c.TemplateID.ExtensionAttr = strings.TrimSpace(c.TemplateID.ExtensionAttr)
	if c.TemplateID.ExtensionAttr == "" {
		c.TemplateID.ExtensionAttr = defaultExtensionAttr
	}
}

func (c *Config) normalizeOutput() error {
	var err error
	if c.Output.Dir, err = expandPath(strings.TrimSpace(c.Output.Dir)); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	c.Output.Suffix = strings.TrimSpace(c.Output.Suffix)
	if c.Output.Suffix == "" {
		c.Output.Suffix = defaultOutputSuffix
	}
	c.Output.FindingsSuffix = strings.TrimSpace(c.Output.FindingsSuffix)
	if c.Output.FindingsSuffix == "" {
		c.Output.FindingsSuffix = defaultFindingsSuffix
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	if c.API.MaxBodyBytes <= 0 {
		c.API.MaxBodyBytes = defaultAPIMaxBodyBytes
	}
	if c.API.ReadTimeoutSeconds <= 0 {
		c.API.ReadTimeoutSeconds = defaultAPIReadTimeout
	}
}

func (c *Config) normalizeWatch() {
	c.Watch.Pattern = strings.TrimSpace(c.Watch.Pattern)
	if c.Watch.Pattern == "" {
		c.Watch.Pattern = defaultWatchPattern
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if len(c.Logging.ComponentOverrides) > 0 {
		normalized := make(map[string]string, len(c.Logging.ComponentOverrides))
		for component, level := range c.Logging.ComponentOverrides {
			key := strings.ToLower(strings.TrimSpace(component))
			value := strings.ToLower(strings.TrimSpace(level))
			if key == "" || value == "" {
				continue
			}
			normalized[key] = value
		}
		c.Logging.ComponentOverrides = normalized
	}
}

package config

const (
	defaultLogDir           = "~/.local/share/qrdaconv/logs"
	defaultHistoryDB        = "~/.local/share/qrdaconv/history.db"
	defaultLockPath         = "~/.local/share/qrdaconv/watch.lock"
	defaultMaxParallel      = 4
	defaultFailOn           = FailOnAny
	defaultTemplateElement  = "templateId"
	defaultTemplateAttr     = "root"
	defaultExtensionAttr    = "extension"
	defaultOutputSuffix     = ".qpp.json"
	defaultFindingsSuffix   = ".err.json"
	defaultAPIBind          = "127.0.0.1:7488"
	defaultAPIMaxBodyBytes  = 10 << 20
	defaultAPIReadTimeout   = 30
	defaultWatchPattern     = "*.xml"
	defaultWatchDebounceMS  = 500
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	defaultHistoryKeepRuns  = 200
)

// Fail policies for batch.fail_on.
const (
	FailOnAny   = "any"
	FailOnAll   = "all"
	FailOnNever = "never"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
			LockPath:  defaultLockPath,
		},
		Batch: Batch{
			MaxParallel: defaultMaxParallel,
			FailOn:      defaultFailOn,
		},
		TemplateID: TemplateID{
			Element:       defaultTemplateElement,
			Attribute:     defaultTemplateAttr,
			ExtensionAttr: defaultExtensionAttr,
		},
		Output: Output{
			Suffix:         defaultOutputSuffix,
			WriteFindings:  true,
			FindingsSuffix: defaultFindingsSuffix,
		},
		History: History{
			Enabled:  true,
			KeepRuns: defaultHistoryKeepRuns,
		},
		API: API{
			Bind:               defaultAPIBind,
			MaxBodyBytes:       defaultAPIMaxBodyBytes,
			ReadTimeoutSeconds: defaultAPIReadTimeout,
		},
		Watch: Watch{
			Pattern:    defaultWatchPattern,
			DebounceMS: defaultWatchDebounceMS,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

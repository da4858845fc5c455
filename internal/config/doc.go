// Package config loads, normalizes, and validates qrdaconv configuration.
//
// Values come from three layers applied in order: compiled defaults, an
// optional TOML file, and QRDACONV_* environment overrides. Load returns a
// config whose paths are absolute and whose enums are lower-cased.
package config

package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/beevik/etree"

	"qrdaconv/internal/config"
	"qrdaconv/internal/decode"
	"qrdaconv/internal/encode"
	"qrdaconv/internal/fileutil"
	"qrdaconv/internal/jsonwrap"
	"qrdaconv/internal/logging"
	"qrdaconv/internal/node"
	"qrdaconv/internal/registry"
	"qrdaconv/internal/services"
	"qrdaconv/internal/validation"
)

// Result describes one converted file.
type Result struct {
	Source       string
	Output       string
	FindingsPath string
	Findings     []validation.Finding
	Duration     time.Duration
}

// ErrorCount returns the number of error findings.
func (r Result) ErrorCount() int {
	count := 0
	for _, f := range r.Findings {
		if f.IsError() {
			count++
		}
	}
	return count
}

// Document is an in-memory conversion used by the HTTP boundary.
type Document struct {
	QPP      *jsonwrap.Wrapper    `json:"qpp"`
	Findings []validation.Finding `json:"findings"`
}

// Report is the content of a findings file.
type Report struct {
	Source   string               `json:"source"`
	Findings []validation.Finding `json:"findings"`
}

// Converter converts documents with a fixed registry and configuration.
type Converter struct {
	decoder *decode.Engine
	encoder *encode.Engine
	output  config.Output
	opts    decode.Options
	logger  *slog.Logger
}

// New builds a converter from cfg. A nil logger discards output.
func New(cfg *config.Config, reg *registry.Registry, logger *slog.Logger) *Converter {
	rule := decode.TemplateRule{
		Element:            cfg.TemplateID.Element,
		Attribute:          cfg.TemplateID.Attribute,
		IncludeExtension:   cfg.TemplateID.IncludeExtension,
		ExtensionAttribute: cfg.TemplateID.ExtensionAttr,
	}
	return &Converter{
		decoder: decode.NewEngine(reg, rule, logger),
		encoder: encode.NewEngine(reg, logger),
		output:  cfg.Output,
		opts: decode.Options{
			SkipValidation: cfg.Conversion.SkipValidation,
			SkipDefaults:   cfg.Conversion.SkipDefaults,
		},
		logger: logging.NewComponentLogger(logger, "convert"),
	}
}

// Options returns the per-run switches taken from the configuration.
func (c *Converter) Options() decode.Options {
	return c.opts
}

// OutputPath returns where ConvertFile writes the JSON for input.
func (c *Converter) OutputPath(input string) string {
	return OutputPath(input, c.output)
}

// ConvertFile converts the document at path and writes the JSON output (and
// the findings report when enabled). Nothing is written when decoding or
// encoding fails.
func (c *Converter) ConvertFile(ctx context.Context, path string, opts decode.Options) (Result, error) {
	started := time.Now()
	result := Result{Source: path}
	ctx = services.WithSource(ctx, path)
	logger := logging.WithContext(ctx, c.logger)

	if err := ctx.Err(); err != nil {
		return result, services.Wrap(services.ErrCancelled, "convert", "start", path, err)
	}

	placeholder, findings, err := c.decodeFile(ctx, path, opts)
	if err != nil {
		return result, err
	}
	result.Findings = findings

	var buf bytes.Buffer
	if err := c.encoder.Encode(placeholder.Children(), &buf); err != nil {
		return result, fmt.Errorf("%s: %w", path, err)
	}

	output := OutputPath(path, c.output)
	if err := fileutil.WriteFileAtomic(output, buf.Bytes(), 0o644); err != nil {
		return result, services.Wrap(services.ErrIO, "write", "output", output, err)
	}
	result.Output = output

	reportPath, err := c.writeReport(path, findings)
	if err != nil {
		return result, err
	}
	result.FindingsPath = reportPath
	result.Duration = time.Since(started)

	logger.Info("document converted",
		logging.String(logging.FieldEventType, "convert_complete"),
		logging.String("output_file", output),
		logging.Int("findings", len(findings)),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

// Inspect decodes the document at path without encoding or writing it.
func (c *Converter) Inspect(ctx context.Context, path string, opts decode.Options) (*node.Node, []validation.Finding, error) {
	return c.decodeFile(services.WithSource(ctx, path), path, opts)
}

// ConvertBytes converts an in-memory document. Nothing touches the disk.
func (c *Converter) ConvertBytes(ctx context.Context, data []byte, opts decode.Options) (*Document, error) {
	root, err := decode.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	placeholder, findings, err := c.decodeRoot(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	qpp, err := c.encoder.Build(placeholder.Children())
	if err != nil {
		return nil, err
	}
	if findings == nil {
		findings = []validation.Finding{}
	}
	return &Document{QPP: qpp, Findings: findings}, nil
}

func (c *Converter) decodeFile(ctx context.Context, path string, opts decode.Options) (*node.Node, []validation.Finding, error) {
	root, err := decode.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	placeholder, findings, err := c.decodeRoot(ctx, root, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return placeholder, findings, nil
}

func (c *Converter) decodeRoot(ctx context.Context, root *etree.Element, opts decode.Options) (*node.Node, []validation.Finding, error) {
	session := decode.NewSession(opts)
	placeholder, err := c.decoder.Decode(ctx, root, session)
	if err != nil {
		return nil, nil, err
	}
	return placeholder, session.Ledger().Findings(), nil
}

// writeReport writes or clears the findings report for source. It returns
// the report path when one was written.
func (c *Converter) writeReport(source string, findings []validation.Finding) (string, error) {
	if !c.output.WriteFindings {
		return "", nil
	}
	path := FindingsPath(source, c.output)
	if len(findings) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", services.Wrap(services.ErrIO, "write", "remove stale findings", path, err)
		}
		return "", nil
	}
	data, err := json.MarshalIndent(Report{Source: source, Findings: findings}, "", "  ")
	if err != nil {
		return "", services.Wrap(services.ErrEncode, "write", "render findings", path, err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", services.Wrap(services.ErrIO, "write", "findings", path, err)
	}
	return path, nil
}

package decode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beevik/etree"

	"qrdaconv/internal/logging"
	"qrdaconv/internal/node"
	"qrdaconv/internal/registry"
	"qrdaconv/internal/services"
	"qrdaconv/internal/validation"
)

// Engine decodes documents with a fixed registry and template rule. It holds
// no per-document state and is safe for concurrent use.
type Engine struct {
	registry *registry.Registry
	rule     TemplateRule
	logger   *slog.Logger
}

// NewEngine builds an engine. A nil logger discards output.
func NewEngine(reg *registry.Registry, rule TemplateRule, logger *slog.Logger) *Engine {
	if rule.Element == "" || rule.Attribute == "" {
		def := DefaultRule()
		if rule.Element == "" {
			rule.Element = def.Element
		}
		if rule.Attribute == "" {
			rule.Attribute = def.Attribute
		}
	}
	return &Engine{
		registry: reg,
		rule:     rule,
		logger:   logging.NewComponentLogger(logger, "decode"),
	}
}

// Rule returns the template rule the engine dispatches with.
func (e *Engine) Rule() TemplateRule {
	return e.rule
}

// Decode walks root and returns a synthetic placeholder node whose children
// are the nodes decoded from the document. The context is consulted once
// before decoding starts; a running decode is never interrupted.
func (e *Engine) Decode(ctx context.Context, root *etree.Element, session *Session) (*node.Node, error) {
	if root == nil {
		return nil, services.Wrap(services.ErrDecode, "decode", "walk", "", errNoRoot)
	}
	if err := ctx.Err(); err != nil {
		return nil, services.Wrap(services.ErrCancelled, "decode", "walk", "", err)
	}
	if session == nil {
		session = NewSession(Options{})
	}
	p := &pass{
		engine:  e,
		session: session,
		logger:  logging.WithContext(ctx, e.logger),
	}
	placeholder := node.New("")
	if err := p.Descend(root, placeholder); err != nil {
		return nil, err
	}
	p.logger.Debug("document decoded",
		logging.Int("nodes", p.nodes),
		logging.Int("findings", session.Ledger().Len()),
	)
	return placeholder, nil
}

// pass is the DecodeScope for one Decode call.
type pass struct {
	engine  *Engine
	session *Session
	logger  *slog.Logger
	nodes   int
}

func (p *pass) Ledger() *validation.Ledger { return p.session.Ledger() }

func (p *pass) FillDefaults() bool { return p.session.FillDefaults() }

func (p *pass) TemplateIDs(el *etree.Element) []string {
	return p.engine.rule.Candidates(el)
}

// Descend decodes el under parent. Structural elements are walked through
// without creating a node.
func (p *pass) Descend(el *etree.Element, parent *node.Node) error {
	ids := p.TemplateIDs(el)
	if len(ids) == 0 {
		return p.descendChildren(el, parent)
	}

	id, decoder := p.resolve(ids)
	n := node.New(id)
	parent.AddChild(n)
	p.nodes++

	result, err := decoder.Decode(el, n, p)
	if err != nil {
		if errors.Is(err, services.ErrDecode) {
			return err
		}
		return services.Wrap(services.ErrDecode, "decode", "template "+id, fmt.Sprintf("element %s", el.GetPath()), err)
	}
	if result == registry.TreeFinished {
		return nil
	}
	return p.descendChildren(el, n)
}

func (p *pass) descendChildren(el *etree.Element, parent *node.Node) error {
	for _, child := range el.ChildElements() {
		if err := p.Descend(child, parent); err != nil {
			return err
		}
	}
	return nil
}

// resolve picks the first registered candidate, falling back to the default
// decoder for the first candidate.
func (p *pass) resolve(ids []string) (string, registry.Decoder) {
	for _, id := range ids {
		if decoder, ok := p.engine.registry.Decoder(id); ok {
			return id, decoder
		}
	}
	decoder, _ := p.engine.registry.Decoder(ids[0])
	p.logger.Debug("no decoder registered; keeping raw attributes",
		logging.String(logging.FieldTemplateID, ids[0]),
	)
	return ids[0], decoder
}

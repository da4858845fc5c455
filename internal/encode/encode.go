// Package encode serializes a decoded Node graph to QPP JSON.
package encode

import (
	"errors"
	"io"
	"log/slog"

	"qrdaconv/internal/jsonwrap"
	"qrdaconv/internal/logging"
	"qrdaconv/internal/node"
	"qrdaconv/internal/registry"
	"qrdaconv/internal/services"
)

// Engine encodes node graphs with a fixed registry. It is safe for
// concurrent use.
type Engine struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// NewEngine builds an engine. A nil logger discards output.
func NewEngine(reg *registry.Registry, logger *slog.Logger) *Engine {
	return &Engine{registry: reg, logger: logging.NewComponentLogger(logger, "encode")}
}

// Build encodes nodes into a single object fragment. Synthetic nodes
// contribute their children to the same fragment.
func (e *Engine) Build(nodes []*node.Node) (*jsonwrap.Wrapper, error) {
	out := jsonwrap.NewObject()
	p := &pass{engine: e}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := p.EncodeChild(out, n); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Encode writes nodes to w as indented JSON. Nothing reaches w unless the
// whole graph encodes, and the document is delivered in a single Write.
func (e *Engine) Encode(nodes []*node.Node, w io.Writer) error {
	out, err := e.Build(nodes)
	if err != nil {
		return err
	}
	data, err := out.Indent()
	if err != nil {
		return services.Wrap(services.ErrEncode, "encode", "render json", "", err)
	}
	if _, err := w.Write(data); err != nil {
		return services.Wrap(services.ErrEncode, "encode", "write json", "", err)
	}
	return nil
}

type pass struct {
	engine *Engine
}

// EncodeChild encodes child into w with the encoder registered for its
// template id.
func (p *pass) EncodeChild(w *jsonwrap.Wrapper, child *node.Node) error {
	if child.IsSynthetic() {
		for _, grandchild := range child.Children() {
			if err := p.EncodeChild(w, grandchild); err != nil {
				return err
			}
		}
		return nil
	}
	encoder, found := p.engine.registry.Encoder(child.TemplateID())
	if !found {
		p.engine.logger.Debug("no encoder registered; copying values",
			logging.String(logging.FieldTemplateID, child.TemplateID()),
		)
	}
	if err := encoder.Encode(w, child, p); err != nil {
		if errors.Is(err, services.ErrEncode) {
			return err
		}
		return services.Wrap(services.ErrEncode, "encode", "template "+child.TemplateID(), "", err)
	}
	return nil
}

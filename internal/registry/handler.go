package registry

import (
	"github.com/beevik/etree"

	"qrdaconv/internal/jsonwrap"
	"qrdaconv/internal/node"
	"qrdaconv/internal/validation"
)

// DecodeResult tells the decode engine whether to keep descending below the
// element a decoder just handled.
type DecodeResult int

const (
	// TreeContinue asks the engine to decode the element's children and
	// attach them under the new node.
	TreeContinue DecodeResult = iota
	// TreeFinished means the decoder consumed the subtree itself.
	TreeFinished
)

func (r DecodeResult) String() string {
	switch r {
	case TreeContinue:
		return "continue"
	case TreeFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// DecodeScope is the view of the running conversion handed to decoders.
type DecodeScope interface {
	// Ledger collects validation findings for this conversion.
	Ledger() *validation.Ledger
	// FillDefaults reports whether missing required values should be
	// injected.
	FillDefaults() bool
	// TemplateIDs returns the candidate template ids carried by el.
	TemplateIDs(el *etree.Element) []string
	// Descend decodes el with the registered handlers and attaches the
	// result under parent. Decoders returning TreeFinished use it to recurse
	// into nested structures they know about.
	Descend(el *etree.Element, parent *node.Node) error
}

// Decoder turns one template-bearing element into values on n.
type Decoder interface {
	Decode(el *etree.Element, n *node.Node, scope DecodeScope) (DecodeResult, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(el *etree.Element, n *node.Node, scope DecodeScope) (DecodeResult, error)

// Decode calls f.
func (f DecoderFunc) Decode(el *etree.Element, n *node.Node, scope DecodeScope) (DecodeResult, error) {
	return f(el, n, scope)
}

// EncodeScope is the view of the running encode pass handed to encoders.
type EncodeScope interface {
	// EncodeChild encodes child into w with the encoder registered for its
	// template id.
	EncodeChild(w *jsonwrap.Wrapper, child *node.Node) error
}

// Encoder writes the JSON fragment for one node. Encoders own the shape of
// their fragment and decide which children to recurse into.
type Encoder interface {
	Encode(w *jsonwrap.Wrapper, n *node.Node, scope EncodeScope) error
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(w *jsonwrap.Wrapper, n *node.Node, scope EncodeScope) error

// Encode calls f.
func (f EncoderFunc) Encode(w *jsonwrap.Wrapper, n *node.Node, scope EncodeScope) error {
	return f(w, n, scope)
}

// DecoderFactory produces a decoder instance for one element.
type DecoderFactory func() Decoder

// EncoderFactory produces an encoder instance for one node.
type EncoderFactory func() Encoder

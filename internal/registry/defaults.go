package registry

import (
	"github.com/beevik/etree"

	"qrdaconv/internal/jsonwrap"
	"qrdaconv/internal/node"
)

// DefaultDecoder handles template ids nobody registered. It keeps the
// element's attributes as opaque values and lets the engine continue into
// the children, so known sections nested below still decode.
type DefaultDecoder struct{}

// Decode copies el's attributes onto n.
func (DefaultDecoder) Decode(el *etree.Element, n *node.Node, _ DecodeScope) (DecodeResult, error) {
	for _, attr := range el.Attr {
		n.PutValue(attr.FullKey(), attr.Value)
	}
	return TreeContinue, nil
}

// DefaultEncoder copies a node's values verbatim as JSON strings. It does
// not descend into children.
type DefaultEncoder struct{}

// Encode writes n's values into w.
func (DefaultEncoder) Encode(w *jsonwrap.Wrapper, n *node.Node, _ EncodeScope) error {
	var err error
	n.EachValue(func(key, value string) {
		if err == nil {
			err = w.PutString(key, value)
		}
	})
	return err
}

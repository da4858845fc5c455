package handlers

import (
	"strings"

	"github.com/beevik/etree"

	"qrdaconv/internal/decode"
	"qrdaconv/internal/jsonwrap"
	"qrdaconv/internal/node"
	"qrdaconv/internal/registry"
	"qrdaconv/internal/validation"
)

const performedValuePath = "./component/observation/value"

// iaMeasureDecoder reads an improvement activity attestation.
type iaMeasureDecoder struct{}

func (iaMeasureDecoder) Decode(el *etree.Element, n *node.Node, scope registry.DecodeScope) (registry.DecodeResult, error) {
	if !decode.CopyAttr(el, measureReferenceIDPath, "extension", n, measureIDKey) {
		reportError(scope, el, n, validation.RefMeasureIDs, "improvement activity id is missing from reference/externalDocument/id")
	}

	raw, ok := decode.AttrAt(el, performedValuePath, "code")
	if !ok {
		raw, ok = decode.AttrAt(el, performedValuePath, "value")
	}
	switch {
	case !ok:
		reportError(scope, el, n, validation.RefMeasureIDs, "improvement activity %s has no performed value", n.ValueOr(measureIDKey, "(unknown)"))
	case isYes(raw):
		n.PutValue(performedKey, "true")
	case isNo(raw):
		n.PutValue(performedKey, "false")
	default:
		reportError(scope, el, n, validation.RefMeasureIDs, "improvement activity performed value %q is not Y or N", raw)
	}
	return registry.TreeFinished, nil
}

func isYes(v string) bool {
	switch strings.ToUpper(v) {
	case "Y", "YES", "TRUE":
		return true
	}
	return false
}

func isNo(v string) bool {
	switch strings.ToUpper(v) {
	case "N", "NO", "FALSE":
		return true
	}
	return false
}

type iaMeasureEncoder struct{}

func (iaMeasureEncoder) Encode(w *jsonwrap.Wrapper, n *node.Node, _ registry.EncodeScope) error {
	if id, ok := n.Value(measureIDKey); ok {
		if err := w.PutString(measureIDKey, id); err != nil {
			return err
		}
	}
	if performed, ok := n.Value(performedKey); ok {
		return w.PutBoolean("value", performed)
	}
	return nil
}

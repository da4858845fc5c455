package handlers

import (
	"strconv"

	"github.com/beevik/etree"

	"qrdaconv/internal/decode"
	"qrdaconv/internal/jsonwrap"
	"qrdaconv/internal/node"
	"qrdaconv/internal/registry"
	"qrdaconv/internal/validation"
)

// proportionDecoder handles an ACI numerator/denominator measure. Only the
// numerator and denominator components become children; the performance
// rate is derived by QPP and ignored.
type proportionDecoder struct{}

func (proportionDecoder) Decode(el *etree.Element, n *node.Node, scope registry.DecodeScope) (registry.DecodeResult, error) {
	if !decode.CopyAttr(el, measureReferenceIDPath, "extension", n, measureIDKey) {
		reportError(scope, el, n, validation.RefMeasureIDs, "ACI measure id is missing from reference/externalDocument/id")
	}
	for _, component := range el.SelectElements("component") {
		for _, child := range component.ChildElements() {
			if !decode.HasTemplate(scope, child, ACINumeratorID) && !decode.HasTemplate(scope, child, ACIDenominatorID) {
				continue
			}
			if err := scope.Descend(child, n); err != nil {
				return registry.TreeFinished, err
			}
		}
	}
	if len(n.ChildrenWith(ACINumeratorID)) == 0 {
		reportError(scope, el, n, validation.RefMeasureIDs, "ACI measure %s has no numerator", n.ValueOr(measureIDKey, "(unknown)"))
	}
	if len(n.ChildrenWith(ACIDenominatorID)) == 0 {
		reportError(scope, el, n, validation.RefMeasureIDs, "ACI measure %s has no denominator", n.ValueOr(measureIDKey, "(unknown)"))
	}
	return registry.TreeFinished, nil
}

type proportionEncoder struct{}

func (proportionEncoder) Encode(w *jsonwrap.Wrapper, n *node.Node, scope registry.EncodeScope) error {
	if id, ok := n.Value(measureIDKey); ok {
		if err := w.PutString(measureIDKey, id); err != nil {
			return err
		}
	}
	value, err := w.Object("value")
	if err != nil {
		return err
	}
	for _, child := range n.Children() {
		if err := scope.EncodeChild(value, child); err != nil {
			return err
		}
	}
	return nil
}

// countHolderDecoder handles numerator and denominator observations, which
// carry their count in a nested aggregate count entry.
type countHolderDecoder struct{}

func (countHolderDecoder) Decode(el *etree.Element, n *node.Node, scope registry.DecodeScope) (registry.DecodeResult, error) {
	for _, rel := range el.SelectElements("entryRelationship") {
		for _, child := range rel.ChildElements() {
			if err := scope.Descend(child, n); err != nil {
				return registry.TreeFinished, err
			}
		}
	}
	if len(n.ChildrenWith(AggregateCountID)) == 0 {
		reportError(scope, el, n, validation.RefMeasureIDs, "aggregate count is missing")
	}
	return registry.TreeFinished, nil
}

// countHolderEncoder writes the aggregate count under field. A missing or
// rejected count was already reported while decoding, so the field is left
// out and the rest of the document still encodes.
type countHolderEncoder struct {
	field string
}

func (e countHolderEncoder) Encode(w *jsonwrap.Wrapper, n *node.Node, _ registry.EncodeScope) error {
	counts := n.ChildrenWith(AggregateCountID)
	if len(counts) == 0 {
		return nil
	}
	count, ok := counts[0].Value(aggregateCountKey)
	if !ok {
		return nil
	}
	return w.PutInteger(e.field, count)
}

// aggregateCountDecoder reads a non-negative integer count.
type aggregateCountDecoder struct{}

func (aggregateCountDecoder) Decode(el *etree.Element, n *node.Node, scope registry.DecodeScope) (registry.DecodeResult, error) {
	raw, ok := decode.AttrAt(el, "./value", "value")
	if !ok {
		reportError(scope, el, n, validation.RefMeasureIDs, "aggregate count value is missing")
		return registry.TreeFinished, nil
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		reportError(scope, el, n, validation.RefMeasureIDs, "aggregate count %q is not a non-negative integer", raw)
		return registry.TreeFinished, nil
	}
	n.PutValue(aggregateCountKey, strconv.Itoa(count))
	return registry.TreeFinished, nil
}

type aggregateCountEncoder struct{}

func (aggregateCountEncoder) Encode(w *jsonwrap.Wrapper, n *node.Node, _ registry.EncodeScope) error {
	if count, ok := n.Value(aggregateCountKey); ok {
		return w.PutInteger(aggregateCountKey, count)
	}
	return nil
}

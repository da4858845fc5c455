package handlers

import (
	"github.com/beevik/etree"

	"qrdaconv/internal/decode"
	"qrdaconv/internal/jsonwrap"
	"qrdaconv/internal/node"
	"qrdaconv/internal/registry"
)

// sectionDecoder labels a measure section with its QPP category. The
// measures below it are decoded by the engine.
type sectionDecoder struct {
	category string
}

func (d sectionDecoder) Decode(_ *etree.Element, n *node.Node, scope registry.DecodeScope) (registry.DecodeResult, error) {
	n.PutValue(categoryKey, d.category)
	decode.InjectDefault(scope, n, submissionMethodKey, defaultSubmissionMethod)
	return registry.TreeContinue, nil
}

// sectionEncoder writes a measurement set holding every measure node of
// measureID found below the section.
type sectionEncoder struct {
	measureID string
}

func (e sectionEncoder) Encode(w *jsonwrap.Wrapper, n *node.Node, scope registry.EncodeScope) error {
	for _, key := range []string{categoryKey, submissionMethodKey} {
		if value, ok := n.Value(key); ok {
			if err := w.PutString(key, value); err != nil {
				return err
			}
		}
	}
	measurements, err := w.List("measurements")
	if err != nil {
		return err
	}
	for _, measure := range collect(n, e.measureID) {
		item := jsonwrap.NewObject()
		if err := scope.EncodeChild(item, measure); err != nil {
			return err
		}
		if err := measurements.Append(item); err != nil {
			return err
		}
	}
	return nil
}

package handlers

import (
	"github.com/beevik/etree"

	"qrdaconv/internal/decode"
	"qrdaconv/internal/jsonwrap"
	"qrdaconv/internal/node"
	"qrdaconv/internal/registry"
	"qrdaconv/internal/validation"
)

// reportingParametersDecoder reads the performance period.
type reportingParametersDecoder struct{}

func (reportingParametersDecoder) Decode(el *etree.Element, n *node.Node, scope registry.DecodeScope) (registry.DecodeResult, error) {
	start, okStart := periodBound(el, "./effectiveTime/low")
	end, okEnd := periodBound(el, "./effectiveTime/high")
	if okStart {
		n.PutValue(performanceStartKey, start)
	} else {
		reportError(scope, el, n, validation.RefReportingParametersAct, "performance period start is missing or not a YYYYMMDD date")
	}
	if okEnd {
		n.PutValue(performanceEndKey, end)
	} else {
		reportError(scope, el, n, validation.RefReportingParametersAct, "performance period end is missing or not a YYYYMMDD date")
	}
	if okStart && okEnd && end < start {
		reportError(scope, el, n, validation.RefReportingParametersAct, "performance period ends (%s) before it starts (%s)", end, start)
	}
	return registry.TreeFinished, nil
}

func periodBound(el *etree.Element, path string) (string, bool) {
	raw, ok := decode.AttrAt(el, path, "value")
	if !ok {
		return "", false
	}
	return qrdaDate(raw)
}

type reportingParametersEncoder struct{}

func (reportingParametersEncoder) Encode(w *jsonwrap.Wrapper, n *node.Node, _ registry.EncodeScope) error {
	for _, key := range []string{performanceStartKey, performanceEndKey} {
		if value, ok := n.Value(key); ok {
			if err := w.PutString(key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"qrdaconv/internal/node"
	"qrdaconv/internal/registry"
	"qrdaconv/internal/validation"
)

func reportError(scope registry.DecodeScope, el *etree.Element, n *node.Node, ref validation.Reference, format string, args ...any) {
	report(scope, validation.SeverityError, el, n, ref, format, args...)
}

func reportWarning(scope registry.DecodeScope, el *etree.Element, n *node.Node, ref validation.Reference, format string, args ...any) {
	report(scope, validation.SeverityWarning, el, n, ref, format, args...)
}

func report(scope registry.DecodeScope, severity validation.Severity, el *etree.Element, n *node.Node, ref validation.Reference, format string, args ...any) {
	if scope == nil {
		return
	}
	f := validation.Finding{
		Severity:   severity,
		Message:    fmt.Sprintf(format, args...),
		TemplateID: n.TemplateID(),
		Reference:  ref.String(),
	}
	if el != nil {
		f.Path = el.GetPath()
	}
	scope.Ledger().Add(f)
}

// qrdaDate converts an HL7 TS value (YYYYMMDD with optional time) to
// YYYY-MM-DD.
func qrdaDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if len(value) < 8 {
		return "", false
	}
	t, err := time.Parse("20060102", value[:8])
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// collect returns the descendants of n carrying one of ids, in document
// order, without looking inside a match.
func collect(n *node.Node, ids ...string) []*node.Node {
	var out []*node.Node
	for _, child := range n.Children() {
		if matches(child.TemplateID(), ids) {
			out = append(out, child)
			continue
		}
		out = append(out, collect(child, ids...)...)
	}
	return out
}

func matches(id string, ids []string) bool {
	for _, candidate := range ids {
		if id == candidate {
			return true
		}
	}
	return false
}

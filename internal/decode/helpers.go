package decode

import (
	"strings"

	"github.com/beevik/etree"

	"qrdaconv/internal/node"
	"qrdaconv/internal/registry"
)

// AttrAt returns attribute attr of the first element matching path below el.
// Path uses etree's syntax, for example "./reference/externalDocument/id".
// An empty path reads the attribute from el itself.
func AttrAt(el *etree.Element, path, attr string) (string, bool) {
	target := el
	if path != "" {
		target = Find(el, path)
	}
	if target == nil {
		return "", false
	}
	a := target.SelectAttr(attr)
	if a == nil {
		return "", false
	}
	value := strings.TrimSpace(a.Value)
	return value, value != ""
}

// TextAt returns the trimmed text of the first element matching path.
func TextAt(el *etree.Element, path string) (string, bool) {
	target := Find(el, path)
	if target == nil {
		return "", false
	}
	text := strings.TrimSpace(target.Text())
	return text, text != ""
}

// CopyAttr stores the attribute found by AttrAt on n under key and reports
// whether a value was present.
func CopyAttr(el *etree.Element, path, attr string, n *node.Node, key string) bool {
	value, ok := AttrAt(el, path, attr)
	if ok {
		n.PutValue(key, value)
	}
	return ok
}

// InjectDefault sets key to value on n when the key is missing and the
// scope allows defaults. It reports whether a value was injected.
func InjectDefault(scope registry.DecodeScope, n *node.Node, key, value string) bool {
	if scope == nil || !scope.FillDefaults() || n.HasValue(key) {
		return false
	}
	n.PutValue(key, value)
	return true
}

// HasTemplate reports whether el carries id among its candidates.
func HasTemplate(scope registry.DecodeScope, el *etree.Element, id string) bool {
	for _, candidate := range scope.TemplateIDs(el) {
		if candidate == id {
			return true
		}
	}
	return false
}

// Find returns the first element matching path below el, or nil. Unlike
// etree's FindElement it does not panic on a malformed path.
func Find(el *etree.Element, path string) *etree.Element {
	compiled, err := etree.CompilePath(path)
	if err != nil {
		return nil
	}
	return el.FindElementPath(compiled)
}

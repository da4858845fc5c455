package decode

import (
	"strings"

	"github.com/beevik/etree"
)

// TemplateRule says where template ids live on an element. The candidates
// for an element are read from its direct children named Element, in
// document order.
type TemplateRule struct {
	Element   string
	Attribute string
	// IncludeExtension adds "root:extension" ahead of the bare root for
	// children that carry ExtensionAttribute, so version-specific handlers
	// can be registered next to generic ones.
	IncludeExtension   bool
	ExtensionAttribute string
}

// DefaultRule matches <templateId root="..."/> children.
func DefaultRule() TemplateRule {
	return TemplateRule{Element: "templateId", Attribute: "root", ExtensionAttribute: "extension"}
}

// Candidates returns the template ids el carries, without duplicates.
func (r TemplateRule) Candidates(el *etree.Element) []string {
	if el == nil {
		return nil
	}
	var ids []string
	seen := map[string]struct{}{}
	add := func(id string) {
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, child := range el.ChildElements() {
		if child.Tag != r.Element {
			continue
		}
		root := strings.TrimSpace(child.SelectAttrValue(r.Attribute, ""))
		if root == "" {
			continue
		}
		if r.IncludeExtension && r.ExtensionAttribute != "" {
			if ext := strings.TrimSpace(child.SelectAttrValue(r.ExtensionAttribute, "")); ext != "" {
				add(root + ":" + ext)
			}
		}
		add(root)
	}
	return ids
}

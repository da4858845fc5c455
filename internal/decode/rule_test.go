package decode_test

import (
	"errors"
	"reflect"
	"testing"

	"qrdaconv/internal/decode"
	"qrdaconv/internal/services"
)

func TestTemplateRuleCandidates(t *testing.T) {
	el := mustParse(t, `<organizer>
		<templateId root="2.16.840.1.113883.10.20.24.3.98"/>
		<templateId root="2.16.840.1.113883.10.20.27.3.28" extension="2016-09-01"/>
		<templateId root="2.16.840.1.113883.10.20.24.3.98"/>
		<templateId/>
		<id root="not-a-template"/>
		<component><templateId root="nested"/></component>
	</organizer>`)

	got := decode.DefaultRule().Candidates(el)
	want := []string{"2.16.840.1.113883.10.20.24.3.98", "2.16.840.1.113883.10.20.27.3.28"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}

	rule := decode.DefaultRule()
	rule.IncludeExtension = true
	got = rule.Candidates(el)
	want = []string{
		"2.16.840.1.113883.10.20.24.3.98",
		"2.16.840.1.113883.10.20.27.3.28:2016-09-01",
		"2.16.840.1.113883.10.20.27.3.28",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("candidates with extension = %v, want %v", got, want)
	}
}

func TestCustomTemplateRule(t *testing.T) {
	el := mustParse(t, `<section><code oid="9.9"/><templateId root="ignored"/></section>`)
	rule := decode.TemplateRule{Element: "code", Attribute: "oid"}
	if got := rule.Candidates(el); !reflect.DeepEqual(got, []string{"9.9"}) {
		t.Fatalf("unexpected candidates %v", got)
	}
}

func TestParseFailsFastOnMalformedXML(t *testing.T) {
	for _, doc := range []string{`<a><b></a>`, ``, `not xml at all`} {
		if _, err := decode.ParseBytes([]byte(doc)); !errors.Is(err, services.ErrDecode) {
			t.Fatalf("ParseBytes(%q) = %v, want decode failure", doc, err)
		}
	}
}

func TestAttrAndTextHelpers(t *testing.T) {
	el := mustParse(t, `<organizer>
		<reference><externalDocument><id root="x" extension=" ACI-PEA-1 "/><text>Patient Access</text></externalDocument></reference>
	</organizer>`)

	if v, ok := decode.AttrAt(el, "./reference/externalDocument/id", "extension"); !ok || v != "ACI-PEA-1" {
		t.Fatalf("AttrAt = %q %v", v, ok)
	}
	if _, ok := decode.AttrAt(el, "./missing/id", "extension"); ok {
		t.Fatal("expected missing path to report false")
	}
	if _, ok := decode.AttrAt(el, "[", "extension"); ok {
		t.Fatal("expected malformed path to report false")
	}
	if v, ok := decode.TextAt(el, ".//text"); !ok || v != "Patient Access" {
		t.Fatalf("TextAt = %q %v", v, ok)
	}
}

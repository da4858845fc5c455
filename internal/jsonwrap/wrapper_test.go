package jsonwrap_test

import (
	"errors"
	"strings"
	"testing"

	"qrdaconv/internal/jsonwrap"
)

func TestObjectKeepsKeyOrder(t *testing.T) {
	w := jsonwrap.NewObject()
	_ = w.PutString("z", "last-added-first")
	if err := w.PutInteger("a", " 42 "); err != nil {
		t.Fatalf("PutInteger: %v", err)
	}
	if err := w.PutBoolean("flag", "Y"); err != nil {
		t.Fatalf("PutBoolean: %v", err)
	}

	raw, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"z":"last-added-first","a":42,"flag":true}`
	if string(raw) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", raw, want)
	}
}

func TestNestedFragments(t *testing.T) {
	root := jsonwrap.NewObject()
	sets, err := root.List("measurementSets")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	set := jsonwrap.NewObject()
	_ = set.PutString("category", "aci")
	value, err := set.Object("value")
	if err != nil {
		t.Fatalf("Object: %v", err)
	}
	_ = value.PutInteger("numerator", "600")
	_ = sets.Append(set)

	again, err := root.List("measurementSets")
	if err != nil || again != sets {
		t.Fatalf("expected existing list to be returned, err=%v", err)
	}

	raw, err := root.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"measurementSets":[{"category":"aci","value":{"numerator":600}}]}`
	if string(raw) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", raw, want)
	}
}

func TestInvalidValuesAreRejected(t *testing.T) {
	w := jsonwrap.NewObject()
	cases := []struct {
		name string
		put  func() error
	}{
		{"integer", func() error { return w.PutInteger("n", "six hundred") }},
		{"float", func() error { return w.PutFloat("f", "abc") }},
		{"boolean", func() error { return w.PutBoolean("b", "maybe") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.put(); !errors.Is(err, jsonwrap.ErrInvalidValue) {
				t.Fatalf("expected ErrInvalidValue, got %v", err)
			}
		})
	}
	if w.Len() != 0 {
		t.Fatalf("invalid values should not be stored, got %d keys", w.Len())
	}
}

func TestKindMismatch(t *testing.T) {
	list := jsonwrap.NewList()
	if err := list.PutString("k", "v"); !errors.Is(err, jsonwrap.ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
	obj := jsonwrap.NewObject()
	if err := obj.Append("v"); !errors.Is(err, jsonwrap.ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
	_ = obj.PutString("s", "text")
	if _, err := obj.Object("s"); !errors.Is(err, jsonwrap.ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind for non-object field, got %v", err)
	}
}

func TestIndentEndsWithNewline(t *testing.T) {
	w := jsonwrap.NewObject()
	_ = w.PutString("k", "v")
	out, err := w.Indent()
	if err != nil {
		t.Fatalf("Indent: %v", err)
	}
	if !strings.HasSuffix(string(out), "}\n") || !strings.Contains(string(out), `  "k": "v"`) {
		t.Fatalf("unexpected indented output %q", out)
	}
}

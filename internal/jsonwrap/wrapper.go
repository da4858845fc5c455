// Package jsonwrap builds ordered JSON fragments for encoders.
package jsonwrap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrInvalidValue marks a value that cannot be represented in the requested
// JSON type.
var ErrInvalidValue = errors.New("invalid json value")

// ErrWrongKind is returned when an object operation is used on a list or the
// other way around.
var ErrWrongKind = errors.New("wrong json fragment kind")

// Wrapper is either a JSON object with ordered keys or a JSON array.
type Wrapper struct {
	object *orderedmap.OrderedMap[string, any]
	list   []any
	isList bool
}

// NewObject returns an empty object fragment.
func NewObject() *Wrapper {
	return &Wrapper{object: orderedmap.New[string, any]()}
}

// NewList returns an empty array fragment.
func NewList() *Wrapper {
	return &Wrapper{isList: true, list: []any{}}
}

// IsList reports whether the fragment is an array.
func (w *Wrapper) IsList() bool {
	return w.isList
}

// Len returns the number of keys or elements.
func (w *Wrapper) Len() int {
	if w.isList {
		return len(w.list)
	}
	return w.object.Len()
}

// Get returns the value stored under name in an object fragment.
func (w *Wrapper) Get(name string) (any, bool) {
	if w.isList {
		return nil, false
	}
	return w.object.Get(name)
}

// Object returns the nested object under name, creating it when absent.
func (w *Wrapper) Object(name string) (*Wrapper, error) {
	if w.isList {
		return nil, fmt.Errorf("%w: object field %q on a list", ErrWrongKind, name)
	}
	if existing, ok := w.object.Get(name); ok {
		if child, ok := existing.(*Wrapper); ok && !child.isList {
			return child, nil
		}
		return nil, fmt.Errorf("%w: field %q is not an object", ErrWrongKind, name)
	}
	child := NewObject()
	w.object.Set(name, child)
	return child, nil
}

// List returns the nested array under name, creating it when absent.
func (w *Wrapper) List(name string) (*Wrapper, error) {
	if w.isList {
		return nil, fmt.Errorf("%w: list field %q on a list", ErrWrongKind, name)
	}
	if existing, ok := w.object.Get(name); ok {
		if child, ok := existing.(*Wrapper); ok && child.isList {
			return child, nil
		}
		return nil, fmt.Errorf("%w: field %q is not a list", ErrWrongKind, name)
	}
	child := NewList()
	w.object.Set(name, child)
	return child, nil
}

// PutString stores a string field.
func (w *Wrapper) PutString(name, value string) error {
	return w.put(name, value)
}

// PutInteger parses value as a base-10 integer and stores it.
func (w *Wrapper) PutInteger(name, value string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidValue, name, value)
	}
	return w.put(name, n)
}

// PutFloat parses value as a float and stores it.
func (w *Wrapper) PutFloat(name, value string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidValue, name, value)
	}
	return w.put(name, f)
}

// PutBoolean stores value as a boolean. "Y" and "N" are accepted alongside
// the forms strconv understands.
func (w *Wrapper) PutBoolean(name, value string) error {
	b, err := parseBool(value)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidValue, name, value)
	}
	return w.put(name, b)
}

// PutObject stores a nested fragment under name.
func (w *Wrapper) PutObject(name string, child *Wrapper) error {
	return w.put(name, child)
}

// Append adds a value to an array fragment. Accepted values are strings,
// numbers, booleans, and *Wrapper.
func (w *Wrapper) Append(value any) error {
	if !w.isList {
		return fmt.Errorf("%w: append on an object", ErrWrongKind)
	}
	w.list = append(w.list, value)
	return nil
}

func (w *Wrapper) put(name string, value any) error {
	if w.isList {
		return fmt.Errorf("%w: field %q on a list", ErrWrongKind, name)
	}
	w.object.Set(name, value)
	return nil
}

// MarshalJSON renders the fragment with object keys in insertion order.
func (w *Wrapper) MarshalJSON() ([]byte, error) {
	if w.isList {
		return json.Marshal(w.list)
	}
	return w.object.MarshalJSON()
}

// Indent renders the fragment as two-space indented JSON followed by a newline.
func (w *Wrapper) Indent() ([]byte, error) {
	raw, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "Y", "YES":
		return true, nil
	case "N", "NO":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(value))
}

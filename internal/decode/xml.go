package decode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"

	"qrdaconv/internal/services"
)

var errNoRoot = errors.New("document has no root element")

// ParseBytes parses a complete XML document and returns its root element.
func ParseBytes(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, services.Wrap(services.ErrDecode, "parse", "read xml", "malformed XML", err)
	}
	return rootOf(doc)
}

// ParseReader parses an XML document from r.
func ParseReader(r io.Reader) (*etree.Element, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, services.Wrap(services.ErrDecode, "parse", "read xml", "malformed XML", err)
	}
	return rootOf(doc)
}

// ParseFile reads and parses the XML document at path.
func ParseFile(path string) (*etree.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "parse", "read file", path, err)
	}
	root, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

func rootOf(doc *etree.Document) (*etree.Element, error) {
	root := doc.Root()
	if root == nil {
		return nil, services.Wrap(services.ErrDecode, "parse", "read xml", "", errNoRoot)
	}
	return root, nil
}

package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicate marks a second registration of the same template id and role.
var ErrDuplicate = errors.New("duplicate handler registration")

// Role distinguishes the two handler kinds a template id can map to.
type Role int

const (
	RoleDecoder Role = iota
	RoleEncoder
)

func (r Role) String() string {
	if r == RoleEncoder {
		return "encoder"
	}
	return "decoder"
}

// Entry describes one registration.
type Entry struct {
	TemplateID string
	Role       Role
}

// Builder collects registrations at process start. It is not safe for
// concurrent use; call Build once registration is complete.
type Builder struct {
	decoders map[string]DecoderFactory
	encoders map[string]EncoderFactory
	errs     []error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		decoders: make(map[string]DecoderFactory),
		encoders: make(map[string]EncoderFactory),
	}
}

// RegisterDecoder maps templateID to a decoder factory.
func (b *Builder) RegisterDecoder(templateID string, factory DecoderFactory) *Builder {
	id := strings.TrimSpace(templateID)
	switch {
	case id == "":
		b.errs = append(b.errs, errors.New("register decoder: empty template id"))
	case factory == nil:
		b.errs = append(b.errs, fmt.Errorf("register decoder %s: nil factory", id))
	default:
		if _, exists := b.decoders[id]; exists {
			b.errs = append(b.errs, fmt.Errorf("%w: decoder %s", ErrDuplicate, id))
			return b
		}
		b.decoders[id] = factory
	}
	return b
}

// RegisterEncoder maps templateID to an encoder factory.
func (b *Builder) RegisterEncoder(templateID string, factory EncoderFactory) *Builder {
	id := strings.TrimSpace(templateID)
	switch {
	case id == "":
		b.errs = append(b.errs, errors.New("register encoder: empty template id"))
	case factory == nil:
		b.errs = append(b.errs, fmt.Errorf("register encoder %s: nil factory", id))
	default:
		if _, exists := b.encoders[id]; exists {
			b.errs = append(b.errs, fmt.Errorf("%w: encoder %s", ErrDuplicate, id))
			return b
		}
		b.encoders[id] = factory
	}
	return b
}

// Build freezes the registrations. The returned Registry is read-only and
// safe for concurrent lookups without locking.
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	r := &Registry{
		decoders: make(map[string]DecoderFactory, len(b.decoders)),
		encoders: make(map[string]EncoderFactory, len(b.encoders)),
	}
	for id, f := range b.decoders {
		r.decoders[id] = f
	}
	for id, f := range b.encoders {
		r.encoders[id] = f
	}
	return r, nil
}

// MustBuild is Build for static registration tables; it panics on error.
func (b *Builder) MustBuild() *Registry {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}

// Registry maps template ids to handlers.
type Registry struct {
	decoders map[string]DecoderFactory
	encoders map[string]EncoderFactory
}

// Decoder returns a decoder for templateID. Unknown ids yield the default
// decoder and false.
func (r *Registry) Decoder(templateID string) (Decoder, bool) {
	if f, ok := r.decoders[templateID]; ok {
		return f(), true
	}
	return DefaultDecoder{}, false
}

// Encoder returns an encoder for templateID. Unknown ids yield the default
// encoder and false.
func (r *Registry) Encoder(templateID string) (Encoder, bool) {
	if f, ok := r.encoders[templateID]; ok {
		return f(), true
	}
	return DefaultEncoder{}, false
}

// HasDecoder reports whether templateID has a registered decoder.
func (r *Registry) HasDecoder(templateID string) bool {
	_, ok := r.decoders[templateID]
	return ok
}

// HasEncoder reports whether templateID has a registered encoder.
func (r *Registry) HasEncoder(templateID string) bool {
	_, ok := r.encoders[templateID]
	return ok
}

// Entries lists every registration ordered by template id then role.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.decoders)+len(r.encoders))
	for id := range r.decoders {
		entries = append(entries, Entry{TemplateID: id, Role: RoleDecoder})
	}
	for id := range r.encoders {
		entries = append(entries, Entry{TemplateID: id, Role: RoleEncoder})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TemplateID != entries[j].TemplateID {
			return entries[i].TemplateID < entries[j].TemplateID
		}
		return entries[i].Role < entries[j].Role
	})
	return entries
}

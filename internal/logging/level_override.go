package logging

import (
	"context"
	"log/slog"
	"strings"
)

// levelOverrideHandler filters records below level before delegating. The
// wrapped handler must already accept the most verbose level in use. When a
// component attribute with an entry in components is attached, that entry
// becomes the level for the derived handler.
type levelOverrideHandler struct {
	next       slog.Handler
	level      slog.Level
	components ComponentLevels
}

func (h *levelOverrideHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level && h.next.Enabled(ctx, level)
}

func (h *levelOverrideHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.level {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h *levelOverrideHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	level := h.level
	for _, attr := range attrs {
		if attr.Key != FieldComponent {
			continue
		}
		if override, ok := h.components[strings.ToLower(attr.Value.String())]; ok {
			level = override
		}
	}
	return &levelOverrideHandler{next: h.next.WithAttrs(attrs), level: level, components: h.components}
}

func (h *levelOverrideHandler) WithGroup(name string) slog.Handler {
	return &levelOverrideHandler{next: h.next.WithGroup(name), level: h.level, components: h.components}
}

// WithLevelOverride returns a logger filtering at level. An existing override
// on logger is replaced rather than stacked, so a component can be more
// verbose than the global level.
func WithLevelOverride(logger *slog.Logger, level slog.Level) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	next := logger.Handler()
	var components ComponentLevels
	if existing, ok := next.(*levelOverrideHandler); ok {
		next = existing.next
		components = existing.components
	}
	return slog.New(&levelOverrideHandler{next: next, level: level, components: components})
}

// ComponentLevels maps component names to their minimum log level.
type ComponentLevels map[string]slog.Level

// ParseComponentLevels converts the logging.component_overrides table.
func ParseComponentLevels(raw map[string]string) ComponentLevels {
	levels := make(ComponentLevels, len(raw))
	for component, level := range raw {
		name := strings.ToLower(strings.TrimSpace(component))
		if name == "" {
			continue
		}
		levels[name] = parseLevel(level)
	}
	return levels
}

// Floor returns the most verbose override, if any.
func (c ComponentLevels) Floor() (slog.Level, bool) {
	var floor slog.Level
	found := false
	for _, level := range c {
		if !found || level < floor {
			floor = level
			found = true
		}
	}
	return floor, found
}

// Logger returns a component logger honoring any override for component.
func (c ComponentLevels) Logger(base *slog.Logger, component string) *slog.Logger {
	logger := base
	if level, ok := c[strings.ToLower(component)]; ok {
		logger = WithLevelOverride(base, level)
	}
	return NewComponentLogger(logger, component)
}

package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// jsonRewrites renames and reformats the built-in slog keys in JSON log
// lines. The call site goes under "caller" so it never reads as the
// document being converted.
var jsonRewrites = map[string]func(slog.Value) slog.Attr{
	slog.TimeKey: func(v slog.Value) slog.Attr {
		if v.Kind() != slog.KindTime {
			return slog.Attr{Key: "ts", Value: v}
		}
		return slog.String("ts", v.Time().UTC().Format(time.RFC3339Nano))
	},
	slog.LevelKey: func(v slog.Value) slog.Attr {
		return slog.String(slog.LevelKey, strings.ToLower(v.String()))
	},
	slog.SourceKey: func(v slog.Value) slog.Attr {
		src, ok := v.Any().(*slog.Source)
		if !ok || src == nil {
			return slog.Attr{Key: "caller", Value: v}
		}
		return slog.String("caller", filepath.Base(src.File)+":"+strconv.Itoa(src.Line))
	},
}

// replaceJSONAttr rewrites top-level built-in keys and drops empty string
// fields at any depth.
func replaceJSONAttr(groups []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindString && attr.Value.String() == "" {
		return slog.Attr{}
	}
	if len(groups) > 0 {
		return attr
	}
	if rewrite, ok := jsonRewrites[attr.Key]; ok {
		return rewrite(attr.Value)
	}
	return attr
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: replaceJSONAttr,
	})
}

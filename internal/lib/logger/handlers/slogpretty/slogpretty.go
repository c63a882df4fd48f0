package slogpretty

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
)

// PrettyHandler is a human-readable slog handler for local development.
// Production runs use the plain JSON handler instead.
type PrettyHandler struct {
	opts  *slog.HandlerOptions
	attrs []slog.Attr
	out   io.Writer
	mu    *sync.Mutex
}

func NewPrettyHandler(out io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{opts: opts, out: out, mu: &sync.Mutex{}}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch r.Level {
	case slog.LevelDebug:
		level = color.MagentaString(level)
	case slog.LevelInfo:
		level = color.BlueString(level)
	case slog.LevelWarn:
		level = color.YellowString(level)
	case slog.LevelError:
		level = color.RedString(level)
	}
	fields := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.Any()
		return true
	})
	var fieldsJSON []byte
	if len(fields) > 0 {
		var err error
		fieldsJSON, err = json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return err
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out,
		r.Time.Format("[15:04:05.000]")+" "+level+" "+
			color.CyanString(r.Message)+" "+
			color.WhiteString(string(fieldsJSON))+"\n",
	)
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyHandler{
		opts:  h.opts,
		attrs: append(h.attrs, attrs...),
		out:   h.out,
		mu:    h.mu,
	}
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return h.WithAttrs([]slog.Attr{slog.String("group", name)})
}

package main

import (
	"context"
	"io"
	"log/slog"
)

// splitHandler writes error records to one stream and everything else to
// another, both in text format.
type splitHandler struct {
	out slog.Handler
	err slog.Handler
}

func newSplitHandler(out, errOut io.Writer, level slog.Leveler) *splitHandler {
	opts := &slog.HandlerOptions{Level: level}
	return &splitHandler{
		out: slog.NewTextHandler(out, opts),
		err: slog.NewTextHandler(errOut, opts),
	}
}

func (h *splitHandler) pick(l slog.Level) slog.Handler {
	if l >= slog.LevelError {
		return h.err
	}
	return h.out
}

func (h *splitHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.pick(l).Enabled(ctx, l)
}

func (h *splitHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.pick(r.Level).Handle(ctx, r)
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{out: h.out.WithAttrs(attrs), err: h.err.WithAttrs(attrs)}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{out: h.out.WithGroup(name), err: h.err.WithGroup(name)}
}

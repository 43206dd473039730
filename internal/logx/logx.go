// Package logx sets up the process-wide slog logger: one line per record,
// level label first, coloured when the output is a terminal.
package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// UserLevel is the level shared by every handler made here. Change it with
// SetLevel.
var UserLevel = new(slog.LevelVar)

// SetLevel parses one of debug, info, warn or error (any case) into UserLevel.
func SetLevel(name string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	UserLevel.Set(l)
	return nil
}

// Init installs a logger writing to w as the slog default and returns it.
func Init(w io.Writer, opts ...termenv.OutputOption) *slog.Logger {
	l := slog.New(NewHandler(w, opts...))
	slog.SetDefault(l)
	return l
}

// Handler writes records as
//
//	LEVEL message key=value key=value
//
// Values containing spaces or quotes are quoted.
type Handler struct {
	out    *termenv.Output
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	attrs  string
}

// NewHandler returns a handler gated by UserLevel. Colours follow the
// terminal profile detected for w unless opts override it.
func NewHandler(w io.Writer, opts ...termenv.OutputOption) *Handler {
	return &Handler{out: termenv.NewOutput(w, opts...), mu: &sync.Mutex{}, w: w}
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= UserLevel.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.levelLabel(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	sb.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, h.prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&sb, h.prefix, a)
	}
	h2 := *h
	h2.attrs = sb.String()
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(sb, prefix, ga)
		}
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(prefix)
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	s := a.Value.String()
	if s == "" || strings.ContainsAny(s, " \t\"=") || !strconv.CanBackquote(s) {
		s = strconv.Quote(s)
	}
	sb.WriteString(s)
}

func (h *Handler) levelLabel(l slog.Level) string {
	s := h.out.String(fmt.Sprintf("%-5s", l.String()))
	switch {
	case l >= slog.LevelError:
		s = s.Foreground(termenv.ANSIRed).Bold()
	case l >= slog.LevelWarn:
		s = s.Foreground(termenv.ANSIYellow)
	case l >= slog.LevelInfo:
		s = s.Foreground(termenv.ANSIGreen)
	default:
		s = s.Faint()
	}
	return s.String()
}

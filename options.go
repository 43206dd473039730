package meshpack

import (
	"fmt"
	"log/slog"
)

type options struct {
	maxVertices int
	logger      *slog.Logger
	source      string
}

func defaultOptions() options {
	return options{
		maxVertices: MaxFaceVertices,
		logger:      slog.Default(),
	}
}

// Option configures a single Load or Parse call.
type Option func(*options) error

// WithMaxPolygonVertices caps the number of corners accepted per face. n must
// be between 3 and MaxFaceVertices. Faces above the cap are rejected with
// PolygonTooLarge.
func WithMaxPolygonVertices(n int) Option {
	return func(o *options) error {
		if n < 3 || n > MaxFaceVertices {
			return fmt.Errorf("max polygon vertices must be in [3, %d], got %d", MaxFaceVertices, n)
		}
		o.maxVertices = n
		return nil
	}
}

// WithLogger sets the logger used for diagnostics. A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
		return nil
	}
}

// WithSource names the input in log output and on the returned Mesh. Load
// sets it to the file path.
func WithSource(name string) Option {
	return func(o *options) error {
		o.source = name
		return nil
	}
}

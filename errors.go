package meshpack

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a mesh could not be built.
type ErrorKind int

const (
	FileNotFound ErrorKind = iota + 1
	MalformedDirective
	UnrecognizedFaceToken
	PolygonTooSmall
	PolygonTooLarge
	IndexOutOfRange
)

var (
	ErrFileNotFound          = errors.New("obj file not found")
	ErrMalformedDirective    = errors.New("malformed directive")
	ErrUnrecognizedFaceToken = errors.New("unrecognized face token")
	ErrPolygonTooSmall       = errors.New("face has fewer than 3 vertices")
	ErrPolygonTooLarge       = errors.New("face has too many vertices")
	ErrIndexOutOfRange       = errors.New("face index out of range")
)

var kindErrors = map[ErrorKind]error{
	FileNotFound:          ErrFileNotFound,
	MalformedDirective:    ErrMalformedDirective,
	UnrecognizedFaceToken: ErrUnrecognizedFaceToken,
	PolygonTooSmall:       ErrPolygonTooSmall,
	PolygonTooLarge:       ErrPolygonTooLarge,
	IndexOutOfRange:       ErrIndexOutOfRange,
}

func (k ErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "FileNotFound"
	case MalformedDirective:
		return "MalformedDirective"
	case UnrecognizedFaceToken:
		return "UnrecognizedFaceToken"
	case PolygonTooSmall:
		return "PolygonTooSmall"
	case PolygonTooLarge:
		return "PolygonTooLarge"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError reports the first malformed line of an OBJ file. Line is 1-based
// and Text is the raw line as read.
type ParseError struct {
	Kind ErrorKind
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Kind.String()
	if sentinel, ok := kindErrors[e.Kind]; ok {
		msg = sentinel.Error()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return fmt.Sprintf("line %d: %s (%q)", e.Line, msg, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind, so callers can write
// errors.Is(err, meshpack.ErrIndexOutOfRange).
func (e *ParseError) Is(target error) bool {
	return target == kindErrors[e.Kind]
}

// KindOf returns the ErrorKind carried by err, or 0 if err did not come from
// the loader.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, ErrFileNotFound) {
		return FileNotFound
	}
	return 0
}

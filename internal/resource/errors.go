package resource

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch matches every *FetchError via errors.Is.
	ErrFetch = errors.New("resource: fetch failed")
	// ErrParse matches every *ParseError via errors.Is.
	ErrParse = errors.New("resource: parse failed")
)

// FetchError reports that the document text could not be retrieved from its
// source location: the source was unreachable, answered with a non-success
// status, or the read itself failed.
type FetchError struct {
	// Location is the configured source location the fetch was attempted against.
	Location string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching resources from %q: %v", e.Location, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// ParseError reports that the retrieved text is not a resource document:
// either the YAML itself is malformed or a value has the wrong shape.
type ParseError struct {
	// Path is the dotted location of the offending value, e.g.
	// "actions.mine.items.wood". Empty when the whole document is at fault.
	Path string
	// Line is the 1-based source line of the offending value; 0 when unknown.
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("parsing resources at %s (line %d): %v", e.Path, e.Line, e.Err)
	case e.Path != "":
		return fmt.Sprintf("parsing resources at %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("parsing resources: %v", e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

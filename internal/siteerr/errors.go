// Package siteerr defines the closed set of build error and warning kinds.
//
// Fatal problems are reported as *Error values that unwrap to one of the Err*
// sentinels, so callers test them with errors.Is. Non-fatal problems travel on
// a separate channel as *Warning values handed to a Reporter.
package siteerr

import (
	"errors"
	"fmt"
)

// Fatal kinds.
var (
	ErrAmbiguousID         = errors.New("ambiguous reference id")
	ErrAmbiguousRef        = errors.New("ambiguous reference")
	ErrUndefinedRef        = errors.New("undefined reference")
	ErrUndefinedAttr       = errors.New("undefined attribute")
	ErrUndefinedContent    = errors.New("no 'content' or 'order' specified")
	ErrUndefinedReflinkKey = errors.New("site reflink without required key")
	ErrDateFormat          = errors.New("date format error (should be YYYY-MM-DD)")
	ErrUndefinedKey        = errors.New("undefined sort key")
	ErrNoIndex             = errors.New("no index file in content directory")
	ErrWrongType           = errors.New("wrong type for key")
	ErrSortKeyType         = errors.New("incomparable sort key values")
	ErrUndefinedLayout     = errors.New("layout template not found")
	ErrValidator           = errors.New("layout validator failed")
	ErrBadLinkSpec         = errors.New("link specification needs 'ref' or 'url'")
)

// Warning kinds.
var (
	WarnNoFrontMatter      = errors.New("no yaml front matter - ignored")
	WarnUndefinedRefMD     = errors.New("undefined reference in markdown")
	WarnUndefinedTagLayout = errors.New("tags found but no 'tag' layout")
	WarnUndefinedAnchor    = errors.New("undefined anchor reference")
)

// Error is a fatal build error. Kind is one of the Err* sentinels.
type Error struct {
	Kind  error
	Value string
	File  string
	// Other names the conflicting source for ambiguity errors.
	Other string
	Err   error
}

// New returns an *Error of the given kind.
func New(kind error, value, file string) *Error {
	return &Error{Kind: kind, Value: value, File: file}
}

// Conflict returns an ambiguity error naming both sources.
func Conflict(kind error, value, file, other string) *Error {
	return &Error{Kind: kind, Value: value, File: file, Other: other}
}

// Wrap returns an *Error of the given kind carrying cause.
func Wrap(kind error, value, file string, cause error) *Error {
	return &Error{Kind: kind, Value: value, File: file, Err: cause}
}

func (e *Error) Error() string {
	s := format(e.Kind, e.Value, e.File)
	if e.Other != "" {
		s += fmt.Sprintf(" (conflicts with %s)", e.Other)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Warning is a non-fatal problem tied to a file.
type Warning struct {
	Kind  error
	Value string
	File  string
}

// NewWarning returns a *Warning of the given kind.
func NewWarning(kind error, value, file string) *Warning {
	return &Warning{Kind: kind, Value: value, File: file}
}

func (w *Warning) String() string {
	return format(w.Kind, w.Value, w.File)
}

// Is reports whether the warning has the given kind.
func (w *Warning) Is(kind error) bool {
	return w.Kind == kind
}

func format(kind error, value, file string) string {
	s := ""
	if file != "" {
		s = "in " + file + ": "
	}
	s += kind.Error()
	if value != "" {
		s += ": '" + value + "'"
	}
	return s
}

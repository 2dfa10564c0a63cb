// FILE: lixenwraith/conftree/errors.go
package conftree

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	// ErrConfigNotFound is returned when a configuration file does not exist
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrParse marks a fatal syntax error; no tree is produced
	ErrParse = errors.New("parse error")
	// ErrDuplicateSection marks a repeated sibling section whose body was skipped
	ErrDuplicateSection = errors.New("duplicate section")
	// ErrPathNotFound is returned when a path does not resolve to an entry
	ErrPathNotFound = errors.New("path not found")
	// ErrConversion is returned when a raw value cannot be converted to the requested type
	ErrConversion = errors.New("conversion failed")
	// ErrInvalidName is returned for names that would not parse back as the same entry
	ErrInvalidName = errors.New("invalid entry name")
	// ErrInvalidValue is returned for values that span more than one line
	ErrInvalidValue = errors.New("invalid entry value")
)

// ParseError reports a malformed line. It aborts the whole load.
type ParseError struct {
	File   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s, line %d: %s", e.File, e.Line, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// DuplicateSectionError reports a repeated sibling section. The parser keeps the
// first occurrence and skips the duplicate's body.
type DuplicateSectionError struct {
	File string
	Name string
	Line int
}

func (e *DuplicateSectionError) Error() string {
	return fmt.Sprintf("section %q already defined in %s (line %d skipped)", e.Name, e.File, e.Line)
}

func (e *DuplicateSectionError) Is(target error) bool { return target == ErrDuplicateSection }

// PathNotFoundError reports a path that does not resolve.
// Component is the first missing section name when an intermediate step failed.
type PathNotFoundError struct {
	File      string
	Path      string
	Component string
}

func (e *PathNotFoundError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("path element %s (%s) not found in %s", e.Component, e.Path, e.File)
	}
	if e.Path == "" {
		return fmt.Sprintf("empty path not found in %s", e.File)
	}
	return fmt.Sprintf("key %s not found in %s", e.Path, e.File)
}

func (e *PathNotFoundError) Is(target error) bool { return target == ErrPathNotFound }

// ConversionError reports a raw value that could not be parsed as Target.
type ConversionError struct {
	Path   string
	Raw    string
	Target string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot convert %q to %s for path %s: %v", e.Raw, e.Target, e.Path, e.Err)
	}
	return fmt.Sprintf("cannot convert %q to %s for path %s", e.Raw, e.Target, e.Path)
}

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

func (e *ConversionError) Unwrap() error { return e.Err }

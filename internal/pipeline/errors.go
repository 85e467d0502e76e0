package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies why a conversion run stopped.
type Kind string

const (
	KindDiscovery Kind = "discovery"
	KindParse     Kind = "parse"
	KindSchema    Kind = "schema"
	KindWrite     Kind = "write"
)

// Sentinels for errors.Is checks against a *ConvertError.
var (
	ErrDiscovery = errors.New("discovery error")
	ErrParse     = errors.New("parse error")
	ErrSchema    = errors.New("schema error")
	ErrWrite     = errors.New("write error")
)

var kindSentinels = map[Kind]error{
	KindDiscovery: ErrDiscovery,
	KindParse:     ErrParse,
	KindSchema:    ErrSchema,
	KindWrite:     ErrWrite,
}

// ConvertError reports which branch and test a run failed on.
type ConvertError struct {
	Kind   Kind
	Branch string // empty when the source root itself failed
	Test   string // empty for branch-level failures
	Err    error
}

func (e *ConvertError) Error() string {
	switch {
	case e.Test != "":
		return fmt.Sprintf("%s error in %s/%s: %v", e.Kind, e.Branch, e.Test, e.Err)
	case e.Branch != "":
		return fmt.Sprintf("%s error in branch %s: %v", e.Kind, e.Branch, e.Err)
	default:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
}

func (e *ConvertError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *ConvertError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// IsDataError reports whether the input reports themselves are malformed,
// as opposed to the run being unable to read or write files.
func (e *ConvertError) IsDataError() bool {
	return e.Kind == KindParse || e.Kind == KindSchema
}

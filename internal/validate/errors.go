// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"errors"
	"fmt"
)

// Kind classifies the check that stopped a validation run.
type Kind string

const (
	KindMissingField  Kind = "missing_field"
	KindMismatch      Kind = "mismatch"
	KindMissingFile   Kind = "missing_file"
	KindParse         Kind = "parse"
	KindContentSafety Kind = "content_safety"
	KindIO            Kind = "io"
)

// Error is the first violation found by a validation run. Its message is the
// single line reported to the user.
type Error struct {
	Kind Kind

	// File is the repository-relative path of the file that failed, if any.
	File string

	msg string
	err error
}

func (e *Error) Error() string { return e.msg }

// Unwrap returns the underlying parser or I/O error, if any.
func (e *Error) Unwrap() error { return e.err }

func newError(kind Kind, file string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, File: file, msg: fmt.Sprintf(format, args...), err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return ""
}

// SuccessMessage is printed when every check passes.
const SuccessMessage = "Success: Repository validation passed."

// Message returns the one-line report for the result of a run.
func Message(err error) string {
	if err == nil {
		return SuccessMessage
	}
	return "Error: " + err.Error()
}

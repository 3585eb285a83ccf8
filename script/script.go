// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package script reads and writes a bracketed symbolic-expression text format.
//
// A script is a sequence of expressions. An expression is either an atom or
// a list of expressions enclosed in '[' and ']'. Atoms are bare words,
// double-quoted strings or parenthesized tuples such as (1.0, 2.0, 3.0).
//
// A ';' starts a comment running to the end of the line. '<' at the start
// of a token opens a block comment closed by '>'; quoted text inside a
// block comment may contain '<' and '>'.
//
//	; window settings
//	[window
//		[title "Image Viewer"]
//		[size (1280, 720)]
//		[scale 1.50000000]
//	]
package script

import (
	"errors"
	"fmt"
	"strings"
)

// Syntax errors.
var (
	ErrUnterminatedString  = errors.New("unterminated string")
	ErrUnterminatedTuple   = errors.New("unterminated tuple")
	ErrUnterminatedComment = errors.New("unterminated block comment")
	ErrUnterminatedList    = errors.New("unterminated list")
	ErrUnexpectedBracket   = errors.New("unexpected closing bracket")
)

// Value errors.
var (
	ErrNotAtom      = errors.New("expression is not an atom")
	ErrNotTuple     = errors.New("atom is not a tuple")
	ErrInvalidValue = errors.New("invalid atom value")
	ErrNoExpression = errors.New("no expression")
)

// Writer errors.
var (
	ErrQuoteInString  = errors.New("string contains a double quote")
	ErrInvalidComment = errors.New("comment would terminate early")
	ErrUnbalanced     = errors.New("expression ended but not begun")
	ErrClosed         = errors.New("writer is closed")
)

// Error describes a script failure.
//
// Line is 1-based, zero when the location is unknown.
type Error struct {
	Err error

	Message string
	Path    string
	Context string
	Line    int
}

// Error implements error.
func (e *Error) Error() string {
	var sb strings.Builder

	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(":")
	}

	if e.Line > 0 {
		fmt.Fprintf(&sb, "%d:", e.Line)
	}

	if sb.Len() > 0 {
		sb.WriteString(" ")
	}

	sb.WriteString(e.Message)

	if e.Context != "" {
		fmt.Fprintf(&sb, " near %q", e.Context)
	}

	return sb.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

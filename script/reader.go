// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/siderolabs/gen/optional"
	"go.uber.org/zap"
)

// The loaded text is wrapped into one implicit top-level list.
const (
	wrapPrefix = "[\n"
	wrapSuffix = "\n]\n"
)

const contextWidth = 40

// source is the text shared by all Expression views of a Reader.
type source struct {
	text string
	path string

	// ends maps the start of every expression to the position after it
	ends map[int]int

	// position of the implicit closing bracket
	closePos int

	// number of lines in the unwrapped text
	lines int

	// set by Unload, invalidates every Expression view
	released bool
}

// Reader holds a loaded script.
//
// The whole script is validated when loaded, so navigating the loaded
// expressions never fails. Reader is not safe for concurrent use with Load/Unload.
type Reader struct {
	src  *source
	path optional.Optional[string]
	opt  Options
}

// NewReader creates an empty Reader.
func NewReader(opts ...OptionFunc) (*Reader, error) {
	opt, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Reader{opt: opt}, nil
}

// Load creates a Reader with the script from the file at path.
func Load(path string, opts ...OptionFunc) (*Reader, error) {
	r, err := NewReader(opts...)
	if err != nil {
		return nil, err
	}

	if err = r.Load(path); err != nil {
		return nil, err
	}

	return r, nil
}

// Parse creates a Reader with the script text.
func Parse(text string, opts ...OptionFunc) (*Reader, error) {
	r, err := NewReader(opts...)
	if err != nil {
		return nil, err
	}

	if err = r.Parse(text); err != nil {
		return nil, err
	}

	return r, nil
}

// Load replaces the current script with the contents of the file at path.
func (r *Reader) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{
			Err:     err,
			Message: fmt.Sprintf("failed to read script: %s", err),
			Path:    path,
		}
	}

	if err = r.load(string(data), path); err != nil {
		return err
	}

	r.path = optional.Some(path)

	r.opt.Logger.Debug("loaded script", zap.String("path", path), zap.Int("size", len(data)))

	return nil
}

// Parse replaces the current script with text.
func (r *Reader) Parse(text string) error {
	return r.load(text, "")
}

func (r *Reader) load(text, path string) error {
	r.Unload()

	src := &source{
		text:  wrapPrefix + text + wrapSuffix,
		path:  path,
		ends:  map[int]int{},
		lines: strings.Count(text, "\n") + 1,
	}

	src.closePos = len(src.text) - len(wrapSuffix) + 1

	end, err := src.span(0)
	if err != nil {
		r.opt.Logger.Debug("rejected malformed script", zap.String("path", path), zap.Error(err))

		return err
	}

	if end != src.closePos+1 {
		return src.errorAt(end-1, ErrUnexpectedBracket, "unexpected ']'")
	}

	r.src = src

	return nil
}

// Unload drops the script, invalidating all Expression views.
func (r *Reader) Unload() {
	if r.src != nil {
		r.src.released = true
		r.src = nil
	}

	r.path = optional.None[string]()
}

// Path returns the file the script was loaded from.
func (r *Reader) Path() optional.Optional[string] {
	return r.path
}

// Root returns the implicit list holding all top-level expressions.
func (r *Reader) Root() Expression {
	if r.src == nil {
		return Expression{}
	}

	return Expression{src: r.src}
}

// First returns the first top-level expression.
func (r *Reader) First() Expression {
	return r.Root().First()
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}

	return false
}

// isDelimiter reports whether c ends a bare word.
func isDelimiter(c byte) bool {
	switch c {
	case '[', ']', ';', '"':
		return true
	}

	return isSpace(c)
}

// skip returns the position of the next token at or after pos.
func (s *source) skip(pos int) (int, error) {
	text := s.text

	for pos < len(text) {
		c := text[pos]

		switch {
		case isSpace(c):
			pos++
		case c == ';':
			i := strings.IndexByte(text[pos:], '\n')
			if i < 0 {
				return len(text), nil
			}

			pos += i + 1
		case c == '<':
			end, ok := blockCommentEnd(text, pos)
			if !ok {
				return pos, s.errorAt(pos, ErrUnterminatedComment, "block comment is never closed")
			}

			pos = end
		default:
			return pos, nil
		}
	}

	return pos, nil
}

// blockCommentEnd finds the '>' closing the block comment at pos; '"' toggles quoted text.
func blockCommentEnd(text string, pos int) (int, bool) {
	quoted := false

	for i := pos + 1; i < len(text); i++ {
		switch text[i] {
		case '"':
			quoted = !quoted
		case '>':
			if !quoted {
				return i + 1, true
			}
		}
	}

	return len(text), false
}

// span validates the expression at pos and returns the position after it.
func (s *source) span(pos int) (int, error) {
	text := s.text

	var end int

	switch text[pos] {
	case '"':
		i := strings.IndexByte(text[pos+1:], '"')
		if i < 0 {
			return 0, s.errorAt(pos, ErrUnterminatedString, "quoted string is never closed")
		}

		end = pos + 1 + i + 1
	case '(':
		i := strings.IndexAny(text[pos+1:], ")\n[]")
		if i < 0 || text[pos+1+i] != ')' {
			return 0, s.errorAt(pos, ErrUnterminatedTuple, "tuple is never closed")
		}

		end = pos + 1 + i + 1
	case '[':
		p, err := s.skip(pos + 1)

		for {
			if err != nil {
				return 0, err
			}

			if p >= len(text) {
				return 0, s.errorAt(pos, ErrUnterminatedList, "list is never closed")
			}

			if text[p] == ']' {
				// only the implicit top-level list may take the implicit bracket
				if p == s.closePos && pos != 0 {
					return 0, s.errorAt(pos, ErrUnterminatedList, "list is never closed")
				}

				end = p + 1

				break
			}

			var next int

			if next, err = s.span(p); err != nil {
				return 0, err
			}

			p, err = s.skip(next)
		}
	case ']':
		return 0, s.errorAt(pos, ErrUnexpectedBracket, "unexpected ']'")
	default:
		end = pos + 1

		for end < len(text) && !isDelimiter(text[end]) {
			end++
		}
	}

	s.ends[pos] = end

	return end, nil
}

// line returns the 1-based line of pos in the unwrapped text.
func (s *source) line(pos int) int {
	pos = min(pos, len(s.text))

	return min(max(strings.Count(s.text[:pos], "\n"), 1), s.lines)
}

// context returns a short snippet of the source around pos.
func (s *source) context(pos int) string {
	pos = min(pos, len(s.text))

	start := strings.LastIndexByte(s.text[:pos], '\n') + 1
	end := len(s.text)

	if i := strings.IndexByte(s.text[pos:], '\n'); i >= 0 {
		end = pos + i
	}

	start = max(start, pos-contextWidth/2)
	end = min(end, start+contextWidth)

	return strings.TrimSpace(s.text[start:end])
}

func (s *source) errorAt(pos int, err error, format string, args ...any) *Error {
	return &Error{
		Err:     err,
		Message: fmt.Sprintf(format, args...),
		Path:    s.path,
		Line:    s.line(pos),
		Context: s.context(pos),
	}
}

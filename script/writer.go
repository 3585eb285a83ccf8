// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package script

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	chunkfile "github.com/siderolabs/go-chunkfile"
	"github.com/siderolabs/go-chunkfile/internal/atomicfile"
)

// Writer emits script text.
//
// The first write failure is sticky: every later call returns it.
// Indentation and line breaks are cosmetic and never change the meaning of the script.
type Writer struct {
	w   io.Writer
	buf *bytes.Buffer
	err error

	path string
	opt  Options

	depth     int
	indent    int
	line      int
	lineStart bool
	closed    bool
}

// NewWriter creates a Writer emitting to w.
func NewWriter(w io.Writer, opts ...OptionFunc) (*Writer, error) {
	opt, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Writer{
		w:         w,
		opt:       opt,
		line:      1,
		lineStart: true,
	}, nil
}

// Create creates a Writer for the file at path.
//
// The file is replaced atomically when the Writer is closed without errors.
func Create(path string, opts ...OptionFunc) (*Writer, error) {
	buf := &bytes.Buffer{}

	w, err := NewWriter(buf, opts...)
	if err != nil {
		return nil, err
	}

	w.buf = buf
	w.path = path

	return w, nil
}

func (w *Writer) fail(err error, format string, args ...any) error {
	return &Error{
		Err:     err,
		Message: fmt.Sprintf(format, args...),
		Path:    w.path,
		Line:    w.line,
	}
}

// emit writes s, prefixed by the indentation when at the start of a line.
func (w *Writer) emit(s string) error {
	if w.err != nil {
		return w.err
	}

	if w.closed {
		return w.fail(ErrClosed, "write to closed script writer")
	}

	if w.lineStart && s != "\n" {
		s = strings.Repeat(w.opt.Indent, w.indent) + s
	}

	if _, err := io.WriteString(w.w, s); err != nil {
		w.err = w.fail(err, "failed to write script: %s", err)

		return w.err
	}

	w.line += strings.Count(s, "\n")
	w.lineStart = strings.HasSuffix(s, "\n")

	return nil
}

// BeginExpression opens a list.
func (w *Writer) BeginExpression() error {
	if err := w.emit("[ "); err != nil {
		return err
	}

	w.depth++

	return nil
}

// EndExpression closes the innermost open list.
func (w *Writer) EndExpression() error {
	if w.depth == 0 {
		return w.fail(ErrUnbalanced, "expression ended but not begun")
	}

	if err := w.emit("] "); err != nil {
		return err
	}

	w.depth--

	return nil
}

// Depth returns the number of open lists.
func (w *Writer) Depth() int {
	return w.depth
}

// isTuple reports whether s reads back as a single tuple atom.
func isTuple(s string) bool {
	return len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && !strings.ContainsAny(s[1:len(s)-1], "()[]\"\n")
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}

	if isTuple(s) {
		return false
	}

	if s[0] == '<' || s[0] == '(' {
		return true
	}

	for i := range len(s) {
		if isDelimiter(s[i]) {
			return true
		}
	}

	return false
}

// WriteAtomString writes a string atom, quoting it if needed.
func (w *Writer) WriteAtomString(s string) error {
	if strings.ContainsRune(s, '"') {
		return w.fail(ErrQuoteInString, "string atom %q contains a double quote", s)
	}

	if needsQuotes(s) {
		return w.emit(`"` + s + `" `)
	}

	return w.emit(s + " ")
}

// WriteAtomBool writes true or false.
func (w *Writer) WriteAtomBool(v bool) error {
	return w.emit(strconv.FormatBool(v) + " ")
}

// WriteAtomInt writes a signed integer.
func (w *Writer) WriteAtomInt(v int) error {
	return w.emit(strconv.Itoa(v) + " ")
}

// WriteAtomUint writes an unsigned integer.
func (w *Writer) WriteAtomUint(v uint) error {
	return w.emit(strconv.FormatUint(uint64(v), 10) + " ")
}

// formatFloat always prints 8 decimal digits.
func formatFloat(v float64, bitSize int) string {
	return strconv.FormatFloat(v, 'f', 8, bitSize)
}

// WriteAtomFloat writes a float32.
func (w *Writer) WriteAtomFloat(v float32) error {
	return w.emit(formatFloat(float64(v), 32) + " ")
}

// WriteAtomDouble writes a float64.
func (w *Writer) WriteAtomDouble(v float64) error {
	return w.emit(formatFloat(v, 64) + " ")
}

func (w *Writer) writeFloats(v ...float32) error {
	parts := make([]string, len(v))

	for i := range v {
		parts[i] = formatFloat(float64(v[i]), 32)
	}

	return w.emit("(" + strings.Join(parts, ", ") + ") ")
}

// WriteAtomVec2 writes a (x, y) tuple.
func (w *Writer) WriteAtomVec2(v chunkfile.Vec2) error {
	return w.writeFloats(v.X, v.Y)
}

// WriteAtomVec3 writes a (x, y, z) tuple.
func (w *Writer) WriteAtomVec3(v chunkfile.Vec3) error {
	return w.writeFloats(v.X, v.Y, v.Z)
}

// WriteAtomVec4 writes a (x, y, z, w) tuple.
func (w *Writer) WriteAtomVec4(v chunkfile.Vec4) error {
	return w.writeFloats(v.X, v.Y, v.Z, v.W)
}

// WriteAtomQuat writes a (x, y, z, w) tuple.
func (w *Writer) WriteAtomQuat(q chunkfile.Quat) error {
	return w.writeFloats(q.X, q.Y, q.Z, q.W)
}

// WriteAtomMat2 writes the matrix elements as one tuple.
func (w *Writer) WriteAtomMat2(m chunkfile.Mat2) error {
	return w.writeFloats(m[:]...)
}

// WriteAtomMat4 writes the matrix elements as one tuple.
func (w *Writer) WriteAtomMat4(m chunkfile.Mat4) error {
	return w.writeFloats(m[:]...)
}

// WriteAtomColourF writes a (r, g, b, a) tuple of floats.
func (w *Writer) WriteAtomColourF(c chunkfile.ColourF) error {
	return w.writeFloats(c.R, c.G, c.B, c.A)
}

// WriteAtomColour writes a (r, g, b, a) tuple of 8-bit components.
func (w *Writer) WriteAtomColour(c chunkfile.Colour) error {
	return w.emit(fmt.Sprintf("(%d, %d, %d, %d) ", c.R, c.G, c.B, c.A))
}

// WriteComment writes a ';' comment for every line of text.
func (w *Writer) WriteComment(text string) error {
	for _, line := range strings.Split(text, "\n") {
		if !w.lineStart {
			if err := w.emit("\n"); err != nil {
				return err
			}
		}

		if err := w.emit("; " + line + "\n"); err != nil {
			return err
		}
	}

	return nil
}

// WriteCommentBegin opens a block comment.
func (w *Writer) WriteCommentBegin() error {
	return w.emit("<\n")
}

// WriteCommentLine writes one line into an open block comment.
//
// A '>' is only allowed inside double-quoted text.
func (w *Writer) WriteCommentLine(text string) error {
	if strings.ContainsRune(text, '\n') {
		return w.fail(ErrInvalidComment, "comment line contains a line break")
	}

	if _, closes := blockCommentEnd("<"+text, 0); closes || strings.Count(text, `"`)%2 != 0 {
		return w.fail(ErrInvalidComment, "comment line %q would close the comment", text)
	}

	return w.emit(text + "\n")
}

// WriteCommentEnd closes a block comment.
func (w *Writer) WriteCommentEnd() error {
	return w.emit(">\n")
}

// Indent increases the indentation of the following lines.
func (w *Writer) Indent() {
	w.indent++
}

// Dedent decreases the indentation of the following lines.
func (w *Writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// NewLine ends the current line.
func (w *Writer) NewLine() error {
	return w.emit("\n")
}

// Close finishes the script.
//
// For writers created with Create, the file is written only if every
// expression was ended and no write failed.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	if w.depth > 0 {
		w.opt.Logger.Warn("closing script writer with open expressions", zap.String("path", w.path), zap.Int("depth", w.depth))

		return w.fail(ErrUnbalanced, "%d expressions not ended", w.depth)
	}

	if !w.lineStart {
		if err := w.emit("\n"); err != nil {
			return err
		}
	}

	if w.err != nil {
		return w.err
	}

	w.closed = true

	if w.buf == nil {
		return nil
	}

	if err := atomicfile.WriteFile(w.path, w.buf.Bytes(), w.opt.FileMode); err != nil {
		return w.fail(err, "failed to commit script: %s", err)
	}

	w.opt.Logger.Debug("committed script", zap.String("path", w.path), zap.Int("size", w.buf.Len()))

	return nil
}

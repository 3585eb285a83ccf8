// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package script

import (
	"strconv"
	"strings"

	chunkfile "github.com/siderolabs/go-chunkfile"
)

// Expression is a view of one atom or list in a loaded script.
//
// The zero value and the position after the last element of a list are invalid.
// Views become invalid once the Reader is unloaded.
type Expression struct {
	src *source
	pos int
}

// Valid reports whether the expression refers to an atom or a list.
func (e Expression) Valid() bool {
	if e.src == nil || e.src.released || e.pos < 0 || e.pos >= len(e.src.text) {
		return false
	}

	_, ok := e.src.ends[e.pos]

	return ok
}

// IsList reports whether the expression is a list.
func (e Expression) IsList() bool {
	return e.Valid() && e.src.text[e.pos] == '['
}

// IsAtom reports whether the expression is an atom.
func (e Expression) IsAtom() bool {
	return e.Valid() && e.src.text[e.pos] != '['
}

func (e Expression) end() int {
	return e.src.ends[e.pos]
}

// First returns the first element of a list.
func (e Expression) First() Expression {
	if !e.IsList() {
		return Expression{}
	}

	// skip can't fail, comments were validated on load
	pos, _ := e.src.skip(e.pos + 1)

	return Expression{src: e.src, pos: pos}
}

// Next returns the following sibling.
func (e Expression) Next() Expression {
	if !e.Valid() {
		return Expression{}
	}

	pos, _ := e.src.skip(e.end())

	return Expression{src: e.src, pos: pos}
}

// Item returns the n-th element of a list.
func (e Expression) Item(n int) Expression {
	c := e.First()

	for ; n > 0 && c.Valid(); n-- {
		c = c.Next()
	}

	return c
}

// Item0 returns the first element of a list.
func (e Expression) Item0() Expression { return e.Item(0) }

// Item1 returns the second element of a list.
func (e Expression) Item1() Expression { return e.Item(1) }

// Item2 returns the third element of a list.
func (e Expression) Item2() Expression { return e.Item(2) }

// Item3 returns the fourth element of a list.
func (e Expression) Item3() Expression { return e.Item(3) }

// Count returns the number of elements of a list.
func (e Expression) Count() int {
	n := 0

	for c := e.First(); c.Valid(); c = c.Next() {
		n++
	}

	return n
}

// Find returns the first list among e and its following siblings whose first element is the atom name.
func (e Expression) Find(name string) Expression {
	for ; e.Valid(); e = e.Next() {
		if !e.IsList() {
			continue
		}

		if s, err := e.Item0().AtomString(); err == nil && s == name {
			return e
		}
	}

	return Expression{}
}

// Line returns the 1-based line the expression starts on.
func (e Expression) Line() int {
	if !e.Valid() {
		return 0
	}

	return e.src.line(e.pos)
}

// Text returns the source text of the expression, including quotes and brackets.
func (e Expression) Text() string {
	if !e.Valid() {
		return ""
	}

	return e.src.text[e.pos:e.end()]
}

func (e Expression) errorf(err error, format string, args ...any) error {
	if !e.Valid() {
		return &Error{Err: ErrNoExpression, Message: "no expression"}
	}

	return e.src.errorAt(e.pos, err, format, args...)
}

// atom returns the atom text without surrounding quotes.
func (e Expression) atom() (string, error) {
	if !e.Valid() {
		return "", e.errorf(ErrNoExpression, "")
	}

	if e.IsList() {
		return "", e.errorf(ErrNotAtom, "expected an atom, got a list")
	}

	text := e.Text()

	if text[0] == '"' {
		text = text[1 : len(text)-1]
	}

	return text, nil
}

// AtomString returns the atom text; quotes of a quoted string are removed.
func (e Expression) AtomString() (string, error) {
	return e.atom()
}

// AtomBool parses the atom as a boolean.
//
// Besides the strconv.ParseBool forms, yes/no and on/off are accepted in any case.
func (e Expression) AtomBool() (bool, error) {
	text, err := e.atom()
	if err != nil {
		return false, err
	}

	switch strings.ToLower(text) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}

	v, err := strconv.ParseBool(text)
	if err != nil {
		return false, e.errorf(ErrInvalidValue, "expected a boolean, got %q", text)
	}

	return v, nil
}

// AtomInt parses the atom as a signed integer.
func (e Expression) AtomInt() (int, error) {
	text, err := e.atom()
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseInt(text, 0, strconv.IntSize)
	if err != nil {
		return 0, e.errorf(ErrInvalidValue, "expected an integer, got %q", text)
	}

	return int(v), nil
}

// AtomUint parses the atom as an unsigned integer.
func (e Expression) AtomUint() (uint, error) {
	text, err := e.atom()
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseUint(text, 0, strconv.IntSize)
	if err != nil {
		return 0, e.errorf(ErrInvalidValue, "expected an unsigned integer, got %q", text)
	}

	return uint(v), nil
}

// AtomFloat parses the atom as a float32.
func (e Expression) AtomFloat() (float32, error) {
	text, err := e.atom()
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return 0, e.errorf(ErrInvalidValue, "expected a number, got %q", text)
	}

	return float32(v), nil
}

// AtomDouble parses the atom as a float64.
func (e Expression) AtomDouble() (float64, error) {
	text, err := e.atom()
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, e.errorf(ErrInvalidValue, "expected a number, got %q", text)
	}

	return v, nil
}

// tuple splits a tuple atom into exactly n components.
func (e Expression) tuple(kind string, n int) ([]string, error) {
	text, err := e.atom()
	if err != nil {
		return nil, err
	}

	if len(text) < 2 || text[0] != '(' || text[len(text)-1] != ')' {
		return nil, e.errorf(ErrNotTuple, "expected a %s tuple, got %q", kind, text)
	}

	parts := strings.Split(text[1:len(text)-1], ",")
	if len(parts) != n {
		return nil, e.errorf(ErrInvalidValue, "expected a %s tuple of %d components, got %d", kind, n, len(parts))
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts, nil
}

func (e Expression) floats(kind string, out []float32) error {
	parts, err := e.tuple(kind, len(out))
	if err != nil {
		return err
	}

	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return e.errorf(ErrInvalidValue, "invalid %s component %d: %q", kind, i, part)
		}

		out[i] = float32(v)
	}

	return nil
}

// AtomVec2 parses a (x, y) tuple.
func (e Expression) AtomVec2() (chunkfile.Vec2, error) {
	var v [2]float32

	err := e.floats("vec2", v[:])

	return chunkfile.Vec2{X: v[0], Y: v[1]}, err
}

// AtomVec3 parses a (x, y, z) tuple.
func (e Expression) AtomVec3() (chunkfile.Vec3, error) {
	var v [3]float32

	err := e.floats("vec3", v[:])

	return chunkfile.Vec3{X: v[0], Y: v[1], Z: v[2]}, err
}

// AtomVec4 parses a (x, y, z, w) tuple.
func (e Expression) AtomVec4() (chunkfile.Vec4, error) {
	var v [4]float32

	err := e.floats("vec4", v[:])

	return chunkfile.Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3]}, err
}

// AtomQuat parses a (x, y, z, w) tuple.
func (e Expression) AtomQuat() (chunkfile.Quat, error) {
	var v [4]float32

	err := e.floats("quaternion", v[:])

	return chunkfile.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}, err
}

// AtomMat2 parses a tuple of 4 matrix elements.
func (e Expression) AtomMat2() (chunkfile.Mat2, error) {
	var m chunkfile.Mat2

	err := e.floats("mat2", m[:])

	return m, err
}

// AtomMat4 parses a tuple of 16 matrix elements.
func (e Expression) AtomMat4() (chunkfile.Mat4, error) {
	var m chunkfile.Mat4

	err := e.floats("mat4", m[:])

	return m, err
}

// AtomColourF parses a (r, g, b, a) tuple of floats.
func (e Expression) AtomColourF() (chunkfile.ColourF, error) {
	var v [4]float32

	err := e.floats("colour", v[:])

	return chunkfile.ColourF{R: v[0], G: v[1], B: v[2], A: v[3]}, err
}

// AtomColour parses a (r, g, b, a) tuple of 8-bit components.
func (e Expression) AtomColour() (chunkfile.Colour, error) {
	parts, err := e.tuple("colour", 4)
	if err != nil {
		return chunkfile.Colour{}, err
	}

	var c [4]uint8

	for i, part := range parts {
		v, err := strconv.ParseUint(part, 0, 8)
		if err != nil {
			return chunkfile.Colour{}, e.errorf(ErrInvalidValue, "invalid colour component %d: %q", i, part)
		}

		c[i] = uint8(v)
	}

	return chunkfile.Colour{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package script_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/siderolabs/gen/xtesting/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	chunkfile "github.com/siderolabs/go-chunkfile"
	"github.com/siderolabs/go-chunkfile/script"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	var sb strings.Builder

	w := must.Value(script.NewWriter(&sb, script.WithLogger(zaptest.NewLogger(t))))(t)

	require.NoError(t, w.WriteComment("generated"))
	require.NoError(t, w.BeginExpression())
	require.NoError(t, w.WriteAtomString("object"))
	require.NoError(t, w.WriteAtomString("Sky Box"))
	require.NoError(t, w.WriteAtomFloat(0.75))
	require.NoError(t, w.WriteAtomVec3(chunkfile.Vec3{X: 1, Y: -2.5, Z: 1000}))
	require.NoError(t, w.NewLine())
	w.Indent()
	require.NoError(t, w.BeginExpression())
	require.NoError(t, w.WriteAtomString("children"))
	require.NoError(t, w.WriteAtomInt(-42))
	require.NoError(t, w.WriteAtomUint(7))
	require.NoError(t, w.WriteAtomBool(true))
	require.NoError(t, w.WriteAtomColour(chunkfile.Colour{R: 255, G: 128, B: 0, A: 255}))
	require.NoError(t, w.WriteAtomQuat(chunkfile.Quat{W: 1}))
	require.NoError(t, w.WriteAtomDouble(0.125))
	require.NoError(t, w.EndExpression())
	w.Dedent()
	require.NoError(t, w.NewLine())
	require.NoError(t, w.EndExpression())
	require.NoError(t, w.Close())

	assert.Equal(t, 0, w.Depth())

	r := must.Value(script.Parse(sb.String()))(t)

	require.Equal(t, 1, r.Root().Count())

	object := r.First()
	require.Equal(t, 5, object.Count())

	assert.Equal(t, "object", must.Value(object.Item0().AtomString())(t))
	assert.Equal(t, "Sky Box", must.Value(object.Item1().AtomString())(t))
	assert.Equal(t, float32(0.75), must.Value(object.Item2().AtomFloat())(t))
	assert.Equal(t, chunkfile.Vec3{X: 1, Y: -2.5, Z: 1000}, must.Value(object.Item3().AtomVec3())(t))

	children := object.Item(4)
	require.True(t, children.IsList())
	assert.Equal(t, 3, children.Line())

	e := children.Item1()
	assert.Equal(t, -42, must.Value(e.AtomInt())(t))

	e = e.Next()
	assert.Equal(t, uint(7), must.Value(e.AtomUint())(t))

	e = e.Next()
	assert.True(t, must.Value(e.AtomBool())(t))

	e = e.Next()
	assert.Equal(t, chunkfile.Colour{R: 255, G: 128, B: 0, A: 255}, must.Value(e.AtomColour())(t))

	e = e.Next()
	assert.Equal(t, chunkfile.Quat{W: 1}, must.Value(e.AtomQuat())(t))

	e = e.Next()
	assert.Equal(t, 0.125, must.Value(e.AtomDouble())(t))

	assert.False(t, e.Next().Valid())
}

func TestWriterFormatting(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		name string

		write    func(w *script.Writer) error
		expected string
	}{
		{
			name:     "bare word",
			write:    func(w *script.Writer) error { return w.WriteAtomString("word") },
			expected: "word \n",
		},
		{
			name:     "space",
			write:    func(w *script.Writer) error { return w.WriteAtomString("two words") },
			expected: "\"two words\" \n",
		},
		{
			name:     "empty",
			write:    func(w *script.Writer) error { return w.WriteAtomString("") },
			expected: "\"\" \n",
		},
		{
			name:     "tuple",
			write:    func(w *script.Writer) error { return w.WriteAtomString("(1, 2)") },
			expected: "(1, 2) \n",
		},
		{
			name:     "open parenthesis",
			write:    func(w *script.Writer) error { return w.WriteAtomString("(open") },
			expected: "\"(open\" \n",
		},
		{
			name:     "comment start",
			write:    func(w *script.Writer) error { return w.WriteAtomString("<tag") },
			expected: "\"<tag\" \n",
		},
		{
			name:     "delimiters",
			write:    func(w *script.Writer) error { return w.WriteAtomString("a;b[c]") },
			expected: "\"a;b[c]\" \n",
		},
		{
			name:     "float",
			write:    func(w *script.Writer) error { return w.WriteAtomFloat(1) },
			expected: "1.00000000 \n",
		},
		{
			name:     "double",
			write:    func(w *script.Writer) error { return w.WriteAtomDouble(-0.25) },
			expected: "-0.25000000 \n",
		},
		{
			name:     "vec2",
			write:    func(w *script.Writer) error { return w.WriteAtomVec2(chunkfile.Vec2{X: 0.5, Y: 2}) },
			expected: "(0.50000000, 2.00000000) \n",
		},
		{
			name:     "mat2",
			write:    func(w *script.Writer) error { return w.WriteAtomMat2(chunkfile.Mat2{1, 0, 0, 1}) },
			expected: "(1.00000000, 0.00000000, 0.00000000, 1.00000000) \n",
		},
		{
			name: "nested",
			write: func(w *script.Writer) error {
				err := errors.Join(w.BeginExpression(), w.WriteAtomString("root"), w.NewLine())

				w.Indent()

				err = errors.Join(err, w.BeginExpression(), w.WriteAtomString("child"), w.EndExpression(), w.NewLine())

				w.Dedent()

				return errors.Join(err, w.EndExpression())
			},
			expected: "[ root \n\t[ child ] \n] \n",
		},
		{
			name: "line comments",
			write: func(w *script.Writer) error {
				return errors.Join(
					w.WriteAtomString("a"),
					w.WriteComment("first\nsecond"),
					w.WriteAtomString("b"),
				)
			},
			expected: "a \n; first\n; second\nb \n",
		},
		{
			name: "block comment",
			write: func(w *script.Writer) error {
				return errors.Join(
					w.WriteCommentBegin(),
					w.WriteCommentLine(`keys: "<" and ">"`),
					w.WriteCommentEnd(),
				)
			},
			expected: "<\nkeys: \"<\" and \">\"\n>\n",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			var sb strings.Builder

			w := must.Value(script.NewWriter(&sb))(t)

			require.NoError(t, test.write(w))
			require.NoError(t, w.Close())

			assert.Equal(t, test.expected, sb.String())

			_, err := script.Parse(sb.String())
			require.NoError(t, err)
		})
	}
}

func TestWriterIndent(t *testing.T) {
	t.Parallel()

	var sb strings.Builder

	w := must.Value(script.NewWriter(&sb, script.WithIndent("  ")))(t)

	require.NoError(t, w.BeginExpression())
	require.NoError(t, w.WriteAtomString("root"))
	require.NoError(t, w.NewLine())
	w.Indent()
	require.NoError(t, w.BeginExpression())
	require.NoError(t, w.WriteAtomString("child"))
	require.NoError(t, w.EndExpression())
	require.NoError(t, w.NewLine())
	w.Dedent()
	w.Dedent()
	require.NoError(t, w.EndExpression())
	require.NoError(t, w.Close())

	assert.Equal(t, "[ root \n  [ child ] \n] \n", sb.String())
}

var errDiskFull = errors.New("disk full")

type failingWriter struct {
	left int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if len(p) > f.left {
		n := f.left
		f.left = 0

		return n, errDiskFull
	}

	f.left -= len(p)

	return len(p), nil
}

func TestWriterErrors(t *testing.T) {
	t.Parallel()

	t.Run("end without begin", func(t *testing.T) {
		t.Parallel()

		w := must.Value(script.NewWriter(&strings.Builder{}))(t)

		require.ErrorIs(t, w.EndExpression(), script.ErrUnbalanced)
	})

	t.Run("unterminated", func(t *testing.T) {
		t.Parallel()

		w := must.Value(script.NewWriter(&strings.Builder{}))(t)

		require.NoError(t, w.BeginExpression())
		require.ErrorIs(t, w.Close(), script.ErrUnbalanced)
	})

	t.Run("quote in string", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder

		w := must.Value(script.NewWriter(&sb))(t)

		require.ErrorIs(t, w.WriteAtomString(`say "hi"`), script.ErrQuoteInString)
		assert.Empty(t, sb.String())
	})

	t.Run("comment", func(t *testing.T) {
		t.Parallel()

		w := must.Value(script.NewWriter(&strings.Builder{}))(t)

		require.NoError(t, w.WriteCommentBegin())
		require.ErrorIs(t, w.WriteCommentLine("a > b"), script.ErrInvalidComment)
		require.ErrorIs(t, w.WriteCommentLine(`unbalanced "`), script.ErrInvalidComment)
		require.ErrorIs(t, w.WriteCommentLine("two\nlines"), script.ErrInvalidComment)
	})

	t.Run("write failure", func(t *testing.T) {
		t.Parallel()

		w := must.Value(script.NewWriter(&failingWriter{left: 6}))(t)

		require.NoError(t, w.BeginExpression())
		require.NoError(t, w.WriteAtomString("a"))

		err := w.WriteAtomString("longer")
		require.ErrorIs(t, err, errDiskFull)

		var scriptErr *script.Error

		require.True(t, errors.As(err, &scriptErr))
		assert.Equal(t, 1, scriptErr.Line)

		require.ErrorIs(t, w.EndExpression(), errDiskFull)
	})

	t.Run("closed", func(t *testing.T) {
		t.Parallel()

		w := must.Value(script.NewWriter(&strings.Builder{}))(t)

		require.NoError(t, w.Close())
		require.NoError(t, w.Close())
		require.ErrorIs(t, w.WriteAtomInt(1), script.ErrClosed)
	})
}

func TestWriterCreate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "keys.script")

	w := must.Value(script.Create(path, script.WithFileMode(0o600), script.WithLogger(zaptest.NewLogger(t))))(t)

	require.NoError(t, w.BeginExpression())
	require.NoError(t, w.WriteAtomString("quit"))
	require.NoError(t, w.WriteAtomString("Ctrl Q"))
	require.NoError(t, w.EndExpression())

	assert.NoFileExists(t, path)

	require.NoError(t, w.Close())

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	r := must.Value(script.Load(path))(t)
	assert.Equal(t, "Ctrl Q", must.Value(r.First().Find("quit").Item1().AtomString())(t))

	broken := filepath.Join(dir, "broken.script")

	w = must.Value(script.Create(broken))(t)

	require.NoError(t, w.BeginExpression())
	require.Error(t, w.Close())

	assert.NoFileExists(t, broken)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	_, err := script.NewWriter(&strings.Builder{}, script.WithIndent(""))
	require.Error(t, err)

	_, err = script.NewWriter(&strings.Builder{}, script.WithIndent("x"))
	require.Error(t, err)

	_, err = script.NewReader(script.WithLogger(nil))
	require.Error(t, err)

	_, err = script.Create("unused", script.WithFileMode(os.ModeSymlink))
	require.Error(t, err)
}

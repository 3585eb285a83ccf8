// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package chunkfile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/siderolabs/gen/optional"
	"github.com/siderolabs/gen/xslices"
	"go.uber.org/zap"

	"github.com/siderolabs/go-chunkfile/internal/atomicfile"
)

var zeroPad [MaxAlignment]byte

// frame is a chunk which was begun but not yet ended.
type frame struct {
	id         ID
	chunkStart int64
	dataStart  int64
}

// Writer builds a tree of nested chunks in a file, an io.WriteSeeker or a fixed memory buffer.
//
// BeginChunk and EndChunk calls must nest like brackets. Raw data can only be
// written while the innermost open chunk is a data chunk.
//
// Writer is not safe for concurrent use.
type Writer struct {
	// byte order of the output, resolved when the destination is opened
	order binary.ByteOrder

	// stream destination, file is set when the Writer created the file itself
	ws   io.WriteSeeker
	file *atomicfile.File

	// memory destination
	buf []byte

	// chunks begun but not ended, innermost last
	stack []frame

	opt Options

	// position of the stream destination when opened
	base int64

	// write offset relative to the start of the destination
	pos int64

	// fatal error which closed the Writer, returned by later Close calls
	err error

	bufMode   bool
	open      bool
	swap      bool
	container bool
}

// NewWriter creates a Writer without a destination.
//
// One of Open, OpenFile or OpenBuffer should be called before writing chunks.
func NewWriter(opts ...OptionFunc) (*Writer, error) {
	opt, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Writer{opt: opt}, nil
}

// CreateFile creates a Writer which writes to the file at path.
func CreateFile(path string, opts ...OptionFunc) (*Writer, error) {
	w, err := NewWriter(opts...)
	if err != nil {
		return nil, err
	}

	if err = w.OpenFile(path); err != nil {
		return nil, err
	}

	return w, nil
}

// NewBufferWriter creates a Writer which writes to buf.
//
// buf should be large enough for the whole output, see EstimateBufferSize.
func NewBufferWriter(buf []byte, opts ...OptionFunc) (*Writer, error) {
	w, err := NewWriter(opts...)
	if err != nil {
		return nil, err
	}

	if err = w.OpenBuffer(buf); err != nil {
		return nil, err
	}

	return w, nil
}

// OpenFile creates (or truncates) the file at path and makes it the destination.
func (w *Writer) OpenFile(path string) error {
	if w.open {
		return ErrAlreadyOpen
	}

	f, err := atomicfile.Create(path, w.opt.FileMode, w.opt.AtomicWrite)
	if err != nil {
		return fmt.Errorf("failed to create chunk file: %w", err)
	}

	w.reset()
	w.ws = f
	w.file = f

	w.opt.Logger.Debug("opened chunk file", zap.String("path", path), zap.Stringer("endianness", w.opt.Endianness))

	return nil
}

// Open makes ws the destination.
//
// Offsets and alignment are relative to the current position of ws.
func (w *Writer) Open(ws io.WriteSeeker) error {
	if w.open {
		return ErrAlreadyOpen
	}

	base, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("failed to get destination offset: %w", err)
	}

	w.reset()
	w.ws = ws
	w.base = base

	return nil
}

// OpenBuffer makes buf the destination.
func (w *Writer) OpenBuffer(buf []byte) error {
	if w.open {
		return ErrAlreadyOpen
	}

	w.reset()
	w.buf = buf
	w.bufMode = true

	return nil
}

func (w *Writer) reset() {
	endianness := w.opt.Endianness.resolve()

	w.order = endianness.ByteOrder()
	w.swap = endianness != HostEndianness()

	w.ws = nil
	w.file = nil
	w.buf = nil
	w.bufMode = false
	w.stack = nil
	w.base = 0
	w.pos = 0
	w.err = nil
	w.container = true
	w.open = true
}

// NeedsSwap reports whether the output byte order differs from the host.
func (w *Writer) NeedsSwap() bool {
	return w.swap
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.pos
}

// Depth returns the number of open chunks.
func (w *Writer) Depth() int {
	return len(w.stack)
}

// Path returns the destination file path if the Writer writes to a file it created.
func (w *Writer) Path() optional.Optional[string] {
	if w.file == nil {
		return optional.None[string]()
	}

	return optional.Some(w.file.Path())
}

// Bytes returns the written part of the destination buffer.
//
// Bytes returns nil for stream destinations.
func (w *Writer) Bytes() []byte {
	if !w.bufMode {
		return nil
	}

	return w.buf[:w.pos]
}

// BeginChunk starts a new chunk.
//
// Container IDs are always 4-byte aligned, the alignment argument only applies to data chunks.
func (w *Writer) BeginChunk(id ID, alignment Alignment) error {
	if !w.open {
		return ErrNotOpen
	}

	if !w.container {
		return fmt.Errorf("%w: %s inside %s", ErrNestedInDataChunk, id, w.stack[len(w.stack)-1].id)
	}

	if !id.Valid() {
		return fmt.Errorf("%w: 0x%08X", ErrInvalidID, uint32(id))
	}

	if !alignment.Valid() {
		return fmt.Errorf("%w: %d", ErrUnsupportedAlignment, alignment)
	}

	if id.IsContainer() {
		alignment = Align4
	}

	var header [headerSize]byte

	w.order.PutUint32(header[0:4], uint32(id)|alignment.shift()<<alignShiftPos)

	chunkStart := w.pos
	prolog := padding(chunkStart+headerSize, int64(alignment))

	if err := w.reserve(headerSize + prolog); err != nil {
		return err
	}

	if err := w.writeRaw(header[:]); err != nil {
		return err
	}

	if err := w.writeRaw(zeroPad[:prolog]); err != nil {
		return err
	}

	w.stack = append(w.stack, frame{
		id:         id,
		chunkStart: chunkStart,
		dataStart:  w.pos,
	})

	w.container = id.IsContainer()

	return nil
}

// EndChunk ends the innermost open chunk and patches its size field.
func (w *Writer) EndChunk() error {
	if !w.open {
		return ErrNotOpen
	}

	if len(w.stack) == 0 {
		return ErrChunkNotStarted
	}

	f := w.stack[len(w.stack)-1]
	epilog := padding(w.pos, 4)

	if err := w.reserve(epilog); err != nil {
		return err
	}

	if err := w.patch(f.chunkStart+4, uint32(w.pos-f.dataStart)); err != nil {
		return err
	}

	if err := w.writeRaw(zeroPad[:epilog]); err != nil {
		return err
	}

	w.stack = w.stack[:len(w.stack)-1]
	w.container = true

	return nil
}

// WriteDataChunk writes a complete data chunk holding payload.
func (w *Writer) WriteDataChunk(id ID, alignment Alignment, payload []byte) error {
	if err := w.BeginChunk(id, alignment); err != nil {
		return err
	}

	if _, err := w.WriteBytes(payload); err != nil {
		return err
	}

	return w.EndChunk()
}

// Close finishes writing.
//
// Close fails if some chunks were not ended; for file destinations the
// partially written file is removed in that case. Once a Writer was closed
// by an error, Close keeps returning that error.
func (w *Writer) Close() error {
	if !w.open {
		return w.err
	}

	if len(w.stack) > 0 {
		ids := xslices.Map(w.stack, func(f frame) string { return f.id.String() })

		w.opt.Logger.Warn("closing chunk writer with unterminated chunks", zap.Strings("chunks", ids))

		return w.abort(fmt.Errorf("%w: %d still open", ErrUnterminatedChunks, len(ids)))
	}

	w.open = false

	if w.file != nil {
		if err := w.file.Commit(); err != nil {
			w.err = err

			return err
		}

		w.opt.Logger.Debug("closed chunk file", zap.String("path", w.file.Path()), zap.Int64("size", w.pos))
	}

	return nil
}

// abort drops the destination after a fatal error and returns err.
func (w *Writer) abort(err error) error {
	w.open = false
	w.stack = nil
	w.err = err

	if w.file != nil {
		if abortErr := w.file.Abort(); abortErr != nil {
			w.opt.Logger.Error("failed to remove aborted chunk file", zap.String("path", w.file.Path()), zap.Error(abortErr))
		}
	}

	return err
}

// reserve checks that n more bytes fit into the destination buffer.
func (w *Writer) reserve(n int64) error {
	if !w.bufMode {
		return nil
	}

	if end := w.pos + n; end > int64(len(w.buf)) {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverflow, end, len(w.buf))
	}

	return nil
}

// write is the checked primitive behind all typed writes.
func (w *Writer) write(p []byte) (int, error) {
	if !w.open {
		return 0, ErrNotOpen
	}

	if w.container {
		return 0, ErrWriteToContainer
	}

	if err := w.writeRaw(p); err != nil {
		return 0, err
	}

	return len(p), nil
}

func (w *Writer) writeRaw(p []byte) error {
	if len(p) == 0 {
		return nil
	}

	if w.bufMode {
		if err := w.reserve(int64(len(p))); err != nil {
			return err
		}

		copy(w.buf[w.pos:], p)
		w.pos += int64(len(p))

		return nil
	}

	n, err := w.ws.Write(p)
	w.pos += int64(n)

	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}

	if err != nil {
		return w.abort(fmt.Errorf("%w: wrote %d of %d bytes: %w", ErrShortWrite, n, len(p), err))
	}

	return nil
}

// patch overwrites a 4-byte value at off and returns to the current position.
func (w *Writer) patch(off int64, v uint32) error {
	var b [4]byte

	w.order.PutUint32(b[:], v)

	if w.bufMode {
		copy(w.buf[off:], b[:])

		return nil
	}

	if _, err := w.ws.Seek(w.base+off, io.SeekStart); err != nil {
		return w.abort(fmt.Errorf("failed to seek to chunk size: %w", err))
	}

	if n, err := w.ws.Write(b[:]); err != nil || n != len(b) {
		if err == nil {
			err = io.ErrShortWrite
		}

		return w.abort(fmt.Errorf("%w: failed to patch chunk size: %w", ErrShortWrite, err))
	}

	if _, err := w.ws.Seek(w.base+w.pos, io.SeekStart); err != nil {
		return w.abort(fmt.Errorf("failed to seek back to write offset: %w", err))
	}

	return nil
}

// PayloadSize describes a chunk for EstimateBufferSize.
type PayloadSize struct {
	Size      int
	Alignment Alignment
}

// EstimateBufferSize returns the worst-case number of bytes needed to write the chunks.
//
// Containers should be listed with zero Size, their sub-chunks listed separately.
func EstimateBufferSize(chunks ...PayloadSize) int {
	total := 0

	for _, c := range chunks {
		alignment := c.Alignment
		if !alignment.Valid() {
			alignment = Align4
		}

		total += headerSize + c.Size + int(alignment) - 4 + 3
	}

	return total
}

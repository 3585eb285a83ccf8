// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package chunkfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"unsafe"

	"github.com/siderolabs/gen/optional"
	"go.uber.org/zap"
)

// arena is the backing buffer shared by all Chunk views of a Reader.
type arena struct {
	order binary.ByteOrder
	data  []byte

	// set by Unload, invalidates every Chunk view into the arena
	released bool
}

// Reader provides navigation over chunks in a byte buffer without copying or parsing it upfront.
//
// Navigation never fails: malformed or truncated data yields invalid
// Chunk views, nil data and zero sizes.
//
// Reader is not safe for concurrent use with Load/Unload.
type Reader struct {
	arena *arena
	path  optional.Optional[string]
	opt   Options
	owned bool
}

// NewReader creates an empty Reader.
func NewReader(opts ...OptionFunc) (*Reader, error) {
	opt, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Reader{opt: opt}, nil
}

// Load creates a Reader with the contents of the file at path.
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

// Load reads the file at path into a buffer owned by the Reader.
//
// The buffer is aligned to MaxAlignment, so every data chunk payload is
// aligned in memory as requested when it was written.
func (r *Reader) Load(path string) error {
	r.Unload()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open chunk file: %w", err)
	}

	defer f.Close() //nolint:errcheck

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat chunk file: %w", err)
	}

	if st.Size() > math.MaxInt32 {
		return fmt.Errorf("chunk file is too large: %d bytes", st.Size())
	}

	data := AlignedBytes(int(st.Size()), MaxAlignment)

	if _, err = io.ReadFull(f, data); err != nil {
		return fmt.Errorf("failed to read chunk file: %w", err)
	}

	r.attach(data, true)
	r.path = optional.Some(path)

	r.opt.Logger.Debug("loaded chunk file", zap.String("path", path), zap.Int("size", len(data)))

	return nil
}

// LoadBytes makes the Reader navigate data without copying it.
//
// data must not be modified while the Reader or any Chunk derived from it is in use.
// Payloads are aligned relative to the start of data; use AlignedBytes to
// also get aligned memory addresses.
func (r *Reader) LoadBytes(data []byte) {
	r.Unload()
	r.attach(data, false)
}

func (r *Reader) attach(data []byte, owned bool) {
	r.arena = &arena{
		data:  data,
		order: r.opt.Endianness.ByteOrder(),
	}
	r.owned = owned
}

// Unload releases the buffer, all Chunk views derived from it become invalid.
func (r *Reader) Unload() {
	if r.arena == nil {
		return
	}

	r.arena.released = true
	r.arena = nil
	r.owned = false
	r.path = optional.None[string]()
}

// Owned reports whether the Reader allocated the buffer itself.
func (r *Reader) Owned() bool {
	return r.owned
}

// Path returns the path of the loaded file, if loaded from a file.
func (r *Reader) Path() optional.Optional[string] {
	return r.path
}

// Size returns the size of the loaded buffer.
func (r *Reader) Size() int {
	if r.arena == nil {
		return 0
	}

	return len(r.arena.data)
}

// Bytes returns the loaded buffer.
func (r *Reader) Bytes() []byte {
	if r.arena == nil {
		return nil
	}

	return r.arena.data
}

// First returns the first top-level chunk.
//
// The whole buffer is an implicit container, so siblings of the returned
// chunk are iterated up to the end of the buffer.
func (r *Reader) First() Chunk {
	if r.arena == nil {
		return Chunk{}
	}

	return Chunk{
		a:    r.arena,
		off:  0,
		last: len(r.arena.data),
	}
}

// AlignedBytes allocates a zeroed slice of size bytes whose first byte is aligned in memory.
func AlignedBytes(size int, alignment Alignment) []byte {
	align := int(alignment)

	raw := make([]byte, size+align)
	off := int(padding(int64(uintptr(unsafe.Pointer(unsafe.SliceData(raw)))), int64(align)))

	return raw[off : off+size : off+size]
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package chunkfile

import (
	"bytes"
	"encoding/binary"
)

// ItemReader reads back-to-back typed items from a data chunk payload.
//
// Reading past the end of the payload returns zero values and does not advance.
type ItemReader struct {
	order binary.ByteOrder
	data  []byte
	cur   int
}

// Reset moves the cursor back to the start of the payload.
func (ir *ItemReader) Reset() {
	ir.cur = 0
}

// Current returns the unread part of the payload.
func (ir *ItemReader) Current() []byte {
	return ir.data[ir.cur:]
}

// Offset returns the cursor position within the payload.
func (ir *ItemReader) Offset() int {
	return ir.cur
}

// Remaining returns the number of unread bytes.
func (ir *ItemReader) Remaining() int {
	return len(ir.data) - ir.cur
}

func readItem[T Scalar](ir *ItemReader) T {
	n := sizeOf[T]()

	if ir.Remaining() < n {
		var zero T

		return zero
	}

	v := getScalar[T](ir.order, ir.data[ir.cur:])
	ir.cur += n

	return v
}

// Int8 reads an int8.
func (ir *ItemReader) Int8() int8 { return readItem[int8](ir) }

// Uint8 reads a uint8.
func (ir *ItemReader) Uint8() uint8 { return readItem[uint8](ir) }

// Int16 reads an int16.
func (ir *ItemReader) Int16() int16 { return readItem[int16](ir) }

// Uint16 reads a uint16.
func (ir *ItemReader) Uint16() uint16 { return readItem[uint16](ir) }

// Int32 reads an int32.
func (ir *ItemReader) Int32() int32 { return readItem[int32](ir) }

// Uint32 reads a uint32.
func (ir *ItemReader) Uint32() uint32 { return readItem[uint32](ir) }

// Int64 reads an int64.
func (ir *ItemReader) Int64() int64 { return readItem[int64](ir) }

// Uint64 reads a uint64.
func (ir *ItemReader) Uint64() uint64 { return readItem[uint64](ir) }

// Float32 reads a float32.
func (ir *ItemReader) Float32() float32 { return readItem[float32](ir) }

// Float64 reads a float64.
func (ir *ItemReader) Float64() float64 { return readItem[float64](ir) }

// Bool reads a single byte bool.
func (ir *ItemReader) Bool() bool { return readItem[uint8](ir) != 0 }

// POD decodes an aggregate into v, it reports false if not enough data is left.
func (ir *ItemReader) POD(v PODDecoder) bool {
	n := v.Size()

	if ir.Remaining() < n {
		return false
	}

	v.Decode(ir.order, ir.data[ir.cur:])
	ir.cur += n

	return true
}

// CString reads a zero-terminated string and skips the terminator.
//
// If there is no terminator, the rest of the payload is returned.
func (ir *ItemReader) CString() string {
	rest := ir.Current()

	idx := bytes.IndexByte(rest, 0)
	if idx == -1 {
		ir.cur = len(ir.data)

		return string(rest)
	}

	ir.cur += idx + 1

	return string(rest[:idx])
}

// Bytes returns the next n raw bytes, or nil if fewer are left.
func (ir *ItemReader) Bytes(n int) []byte {
	if n < 0 || ir.Remaining() < n {
		return nil
	}

	b := ir.data[ir.cur : ir.cur+n : ir.cur+n]
	ir.cur += n

	return b
}

// ReadItems reads n consecutive scalars, it returns nil if fewer are left.
func ReadItems[T Scalar](ir *ItemReader, n int) []T {
	size := sizeOf[T]()

	if n <= 0 || ir.Remaining() < size*n {
		return nil
	}

	out := make([]T, n)

	for i := range out {
		out[i] = getScalar[T](ir.order, ir.data[ir.cur:])
		ir.cur += size
	}

	return out
}

// ReadPODs reads n consecutive aggregates, it returns nil if fewer are left.
func ReadPODs[T any, P interface {
	*T
	PODDecoder
}](ir *ItemReader, n int) []T {
	var zero T

	size := P(&zero).Size()

	if n <= 0 || ir.Remaining() < size*n {
		return nil
	}

	out := make([]T, n)

	for i := range out {
		P(&out[i]).Decode(ir.order, ir.data[ir.cur:])
		ir.cur += size
	}

	return out
}

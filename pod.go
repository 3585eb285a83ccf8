// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package chunkfile

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Scalar is a fixed-size primitive value.
type Scalar interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

// POD is a fixed-size aggregate which encodes itself field by field.
//
// Every scalar field is encoded with the requested byte order on its own,
// the aggregate is never byte-swapped as a single blob.
type POD interface {
	// Size returns the encoded size in bytes.
	Size() int
	// Encode writes the value into b, len(b) >= Size().
	Encode(order binary.ByteOrder, b []byte)
}

// PODDecoder is a POD which can be decoded in place.
type PODDecoder interface {
	POD
	// Decode reads the value from b, len(b) >= Size().
	Decode(order binary.ByteOrder, b []byte)
}

func sizeOf[T Scalar]() int {
	var v T

	return int(unsafe.Sizeof(v))
}

func putScalar[T Scalar](order binary.ByteOrder, b []byte, v T) {
	switch x := any(v).(type) {
	case int8:
		b[0] = byte(x)
	case uint8:
		b[0] = x
	case int16:
		order.PutUint16(b, uint16(x))
	case uint16:
		order.PutUint16(b, x)
	case int32:
		order.PutUint32(b, uint32(x))
	case uint32:
		order.PutUint32(b, x)
	case int64:
		order.PutUint64(b, uint64(x))
	case uint64:
		order.PutUint64(b, x)
	case float32:
		order.PutUint32(b, math.Float32bits(x))
	case float64:
		order.PutUint64(b, math.Float64bits(x))
	}
}

func getScalar[T Scalar](order binary.ByteOrder, b []byte) T {
	var v T

	switch p := any(&v).(type) {
	case *int8:
		*p = int8(b[0])
	case *uint8:
		*p = b[0]
	case *int16:
		*p = int16(order.Uint16(b))
	case *uint16:
		*p = order.Uint16(b)
	case *int32:
		*p = int32(order.Uint32(b))
	case *uint32:
		*p = order.Uint32(b)
	case *int64:
		*p = int64(order.Uint64(b))
	case *uint64:
		*p = order.Uint64(b)
	case *float32:
		*p = math.Float32frombits(order.Uint32(b))
	case *float64:
		*p = math.Float64frombits(order.Uint64(b))
	}

	return v
}

// putFields encodes consecutive same-typed fields of an aggregate.
func putFields[T Scalar](order binary.ByteOrder, b []byte, fields ...T) {
	n := sizeOf[T]()

	for i, f := range fields {
		putScalar(order, b[i*n:], f)
	}
}

// getFields decodes consecutive same-typed fields of an aggregate.
func getFields[T Scalar](order binary.ByteOrder, b []byte, fields ...*T) {
	n := sizeOf[T]()

	for i, f := range fields {
		*f = getScalar[T](order, b[i*n:])
	}
}

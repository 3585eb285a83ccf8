// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package chunkfile implements a generic chunked binary file format.
//
// A file is a sequence of chunks. Every chunk starts with an 8-byte header
// at a 4-byte aligned offset:
//
//	uint32 header   // bit 31: container, bits 30-28: alignment shift, bits 27-0: chunk ID
//	uint32 dataSize // payload size, excluding header and padding
//	[prolog pad]    // aligns payload to 4 << shift bytes
//	payload         // nested chunks for containers, raw typed values for data chunks
//	[epilog pad]    // re-aligns the next header to 4 bytes
//
// The file itself is an implicit container spanning the whole buffer.
package chunkfile

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

const (
	headerSize = 8

	containerBit   = 0x80000000
	alignShiftMask = 0x70000000
	alignShiftPos  = 28
	idMask         = 0x0FFFFFFF
)

// Endianness selects the byte order of the written data.
type Endianness int

// Endianness values.
const (
	// Native is the byte order of the host.
	Native Endianness = iota
	Little
	Big
)

// String implements fmt.Stringer.
func (e Endianness) String() string {
	switch e {
	case Native:
		return "native"
	case Little:
		return "little"
	case Big:
		return "big"
	default:
		return fmt.Sprintf("Endianness(%d)", int(e))
	}
}

// HostEndianness returns the byte order of the machine the code runs on.
func HostEndianness() Endianness {
	var b [2]byte

	binary.NativeEndian.PutUint16(b[:], 1)

	if b[0] == 1 {
		return Little
	}

	return Big
}

// resolve maps Native to the host byte order.
func (e Endianness) resolve() Endianness {
	if e == Native {
		return HostEndianness()
	}

	return e
}

// ByteOrder returns the encoding/binary byte order for e.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e.resolve() == Big {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// Alignment is the payload alignment of a data chunk in bytes.
type Alignment uint32

// Supported alignments.
const (
	Align4   Alignment = 4
	Align8   Alignment = 8
	Align16  Alignment = 16
	Align32  Alignment = 32
	Align64  Alignment = 64
	Align128 Alignment = 128
	Align256 Alignment = 256
	Align512 Alignment = 512

	// MaxAlignment is the largest alignment the 3-bit shift can express.
	MaxAlignment = Align512
)

// Valid reports whether a is a power of two in [4, 512].
func (a Alignment) Valid() bool {
	return a >= Align4 && a <= MaxAlignment && a&(a-1) == 0
}

// shift returns the 3-bit encoded form, alignment = 4 << shift.
func (a Alignment) shift() uint32 {
	return uint32(bits.TrailingZeros32(uint32(a)) - 2)
}

func alignmentFromHeader(header uint32) Alignment {
	return Alignment(4 << ((header & alignShiftMask) >> alignShiftPos))
}

// padding returns the number of bytes needed to move off to the next multiple of align.
func padding(off int64, align int64) int64 {
	return (align - off%align) % align
}

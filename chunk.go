// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package chunkfile

// Chunk is a read-only view of a chunk inside a Reader buffer.
//
// The zero value is an invalid Chunk.
type Chunk struct {
	a *arena

	// offset of the chunk header
	off int
	// one past the end of the parent container, siblings never go past it
	last int
}

// Valid reports whether the view points to a chunk header within its parent.
func (c Chunk) Valid() bool {
	return c.a != nil &&
		!c.a.released &&
		c.off >= 0 &&
		c.off+headerSize <= c.last &&
		c.last <= len(c.a.data)
}

func (c Chunk) header() uint32 {
	return c.a.order.Uint32(c.a.data[c.off:])
}

// Offset returns the offset of the chunk header in the buffer.
func (c Chunk) Offset() int {
	return c.off
}

// ID returns the chunk ID as passed to BeginChunk.
func (c Chunk) ID() ID {
	if !c.Valid() {
		return IDInvalid
	}

	return ID(c.header() &^ alignShiftMask)
}

// IsContainer reports whether the chunk holds sub-chunks.
func (c Chunk) IsContainer() bool {
	return c.Valid() && c.header()&containerBit != 0
}

// IsDataOnly reports whether the chunk holds raw data.
func (c Chunk) IsDataOnly() bool {
	return c.Valid() && c.header()&containerBit == 0
}

// Alignment returns the payload alignment.
func (c Chunk) Alignment() Alignment {
	if !c.IsDataOnly() {
		return Align4
	}

	return alignmentFromHeader(c.header())
}

// DataSize returns the payload size without padding.
func (c Chunk) DataSize() int {
	if !c.Valid() {
		return 0
	}

	return int(c.a.order.Uint32(c.a.data[c.off+4:]))
}

// prolog returns the padding between the header and the payload.
func (c Chunk) prolog() int {
	return int(padding(int64(c.off+headerSize), int64(c.Alignment())))
}

// DataSizeRaw returns the span from the end of the header to the next chunk header.
func (c Chunk) DataSizeRaw() int {
	if !c.Valid() {
		return 0
	}

	prolog := c.prolog()
	size := c.DataSize()
	end := c.off + headerSize + prolog + size

	return prolog + size + int(padding(int64(end), 4))
}

// Data returns the payload.
//
// Data returns nil for invalid or truncated chunks.
func (c Chunk) Data() []byte {
	if !c.Valid() {
		return nil
	}

	start := c.off + headerSize + c.prolog()
	end := start + c.DataSize()

	if end > c.last {
		return nil
	}

	return c.a.data[start:end:end]
}

// First returns the first sub-chunk of a container.
func (c Chunk) First() Chunk {
	if !c.IsContainer() {
		return Chunk{}
	}

	return Chunk{
		a:    c.a,
		off:  c.off + headerSize,
		last: min(c.off+headerSize+c.DataSizeRaw(), c.last),
	}
}

// Next returns the following sibling.
//
// The returned Chunk is invalid after the last sibling.
func (c Chunk) Next() Chunk {
	if !c.Valid() {
		return Chunk{}
	}

	return Chunk{
		a:    c.a,
		off:  c.off + headerSize + c.DataSizeRaw(),
		last: c.last,
	}
}

// Find returns the first chunk with the given ID among c and its following siblings.
func (c Chunk) Find(id ID) Chunk {
	for ; c.Valid(); c = c.Next() {
		if c.ID() == id {
			return c
		}
	}

	return Chunk{}
}

// Items returns a cursor over the payload of a data chunk.
func (c Chunk) Items() *ItemReader {
	if !c.IsDataOnly() {
		return &ItemReader{order: Native.ByteOrder()}
	}

	return &ItemReader{
		data:  c.Data(),
		order: c.a.order,
	}
}

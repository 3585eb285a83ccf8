// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package chunkfile

import "errors"

// Writer errors.
var (
	ErrNotOpen              = errors.New("writer has no open destination")
	ErrAlreadyOpen          = errors.New("writer is already open")
	ErrChunkNotStarted      = errors.New("chunk ended but not started")
	ErrUnterminatedChunks   = errors.New("chunks not all ended")
	ErrWriteToContainer     = errors.New("cannot write data into a container chunk")
	ErrNestedInDataChunk    = errors.New("cannot begin a chunk inside a data chunk")
	ErrUnsupportedAlignment = errors.New("unsupported alignment")
	ErrInvalidID            = errors.New("invalid chunk id")
	ErrBufferOverflow       = errors.New("destination buffer too small")
	ErrShortWrite           = errors.New("short write")
)

// ErrInvalidEndianness is returned by options for unknown byte orders.
var ErrInvalidEndianness = errors.New("invalid endianness")

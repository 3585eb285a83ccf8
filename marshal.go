// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package chunkfile

// Typed writes. Each returns the number of bytes written, which is always the
// encoded size of the value.

func writeScalar[T Scalar](w *Writer, v T) (int, error) {
	var b [8]byte

	n := sizeOf[T]()
	putScalar(w.order, b[:n], v)

	return w.write(b[:n])
}

// WriteInt8 writes a single int8.
func (w *Writer) WriteInt8(v int8) (int, error) { return writeScalar(w, v) }

// WriteUint8 writes a single uint8.
func (w *Writer) WriteUint8(v uint8) (int, error) { return writeScalar(w, v) }

// WriteInt16 writes a single int16.
func (w *Writer) WriteInt16(v int16) (int, error) { return writeScalar(w, v) }

// WriteUint16 writes a single uint16.
func (w *Writer) WriteUint16(v uint16) (int, error) { return writeScalar(w, v) }

// WriteInt32 writes a single int32.
func (w *Writer) WriteInt32(v int32) (int, error) { return writeScalar(w, v) }

// WriteUint32 writes a single uint32.
func (w *Writer) WriteUint32(v uint32) (int, error) { return writeScalar(w, v) }

// WriteInt64 writes a single int64.
func (w *Writer) WriteInt64(v int64) (int, error) { return writeScalar(w, v) }

// WriteUint64 writes a single uint64.
func (w *Writer) WriteUint64(v uint64) (int, error) { return writeScalar(w, v) }

// WriteFloat32 writes a single float32.
func (w *Writer) WriteFloat32(v float32) (int, error) { return writeScalar(w, v) }

// WriteFloat64 writes a single float64.
func (w *Writer) WriteFloat64(v float64) (int, error) { return writeScalar(w, v) }

// WriteBool writes a bool as a single byte.
func (w *Writer) WriteBool(v bool) (int, error) {
	var b uint8
	if v {
		b = 1
	}

	return writeScalar(w, b)
}

// WritePOD writes a fixed-size aggregate.
func (w *Writer) WritePOD(v POD) (int, error) {
	b := make([]byte, v.Size())
	v.Encode(w.order, b)

	return w.write(b)
}

// WriteBytes writes raw bytes without any byte order conversion.
func (w *Writer) WriteBytes(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	return w.write(p)
}

// WriteString writes s followed by a zero terminator.
func (w *Writer) WriteString(s string) (int, error) {
	b := make([]byte, len(s)+1)
	copy(b, s)

	return w.write(b)
}

// WriteScalars writes a slice of scalars as one contiguous block.
//
// Empty slices are a no-op.
func WriteScalars[T Scalar](w *Writer, s []T) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}

	n := sizeOf[T]()
	b := make([]byte, n*len(s))

	putFields(w.order, b, s...)

	return w.write(b)
}

// WritePODs writes a slice of aggregates as one contiguous block.
//
// Empty slices are a no-op.
func WritePODs[T POD](w *Writer, s []T) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}

	n := s[0].Size()
	b := make([]byte, n*len(s))

	for i, v := range s {
		v.Encode(w.order, b[i*n:])
	}

	return w.write(b)
}

// WriteLayout writes data holding records of heterogeneous host-native fields.
//
// layout describes one record: "1", "2", "4" and "8" are raw fields of that many
// bytes, "f" and "d" are float32 and float64, "v2", "v3", "v4" are float vectors,
// "q" is a quaternion, "m2" and "m4" are float matrices. data should contain one
// or more whole records. If the layout is malformed or does not match len(data),
// nothing is written and 0 is returned.
func (w *Writer) WriteLayout(data []byte, layout string) (int, error) {
	fields, ok := parseLayout(layout)
	if !ok || len(data) == 0 {
		return 0, nil
	}

	recordSize := 0
	for _, f := range fields {
		recordSize += f
	}

	if len(data)%recordSize != 0 {
		return 0, nil
	}

	if !w.swap {
		return w.write(data)
	}

	b := make([]byte, len(data))
	copy(b, data)

	for off := 0; off < len(b); {
		for _, f := range fields {
			reverse(b[off : off+f])

			off += f
		}
	}

	return w.write(b)
}

// parseLayout expands a layout string into field widths.
func parseLayout(layout string) (fields []int, ok bool) {
	repeat := func(width, count int) {
		for range count {
			fields = append(fields, width)
		}
	}

	for i := 0; i < len(layout); i++ {
		switch c := layout[i]; c {
		case '1', '2', '4', '8':
			fields = append(fields, int(c-'0'))
		case 'f':
			repeat(4, 1)
		case 'd':
			repeat(8, 1)
		case 'q':
			repeat(4, 4)
		case 'v', 'm':
			if i+1 >= len(layout) {
				return nil, false
			}

			i++

			switch n := layout[i]; {
			case c == 'v' && n >= '2' && n <= '4':
				repeat(4, int(n-'0'))
			case c == 'm' && n == '2':
				repeat(4, 4)
			case c == 'm' && n == '4':
				repeat(4, 16)
			default:
				return nil, false
			}
		default:
			return nil, false
		}
	}

	return fields, len(fields) > 0
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

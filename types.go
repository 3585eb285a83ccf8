// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package chunkfile

import "encoding/binary"

// Vec2 is a 2-component float vector.
type Vec2 struct {
	X, Y float32
}

// Size implements POD.
func (Vec2) Size() int { return 8 }

// Encode implements POD.
func (v Vec2) Encode(order binary.ByteOrder, b []byte) { putFields(order, b, v.X, v.Y) }

// Decode implements PODDecoder.
func (v *Vec2) Decode(order binary.ByteOrder, b []byte) { getFields(order, b, &v.X, &v.Y) }

// Vec3 is a 3-component float vector.
type Vec3 struct {
	X, Y, Z float32
}

// Size implements POD.
func (Vec3) Size() int { return 12 }

// Encode implements POD.
func (v Vec3) Encode(order binary.ByteOrder, b []byte) { putFields(order, b, v.X, v.Y, v.Z) }

// Decode implements PODDecoder.
func (v *Vec3) Decode(order binary.ByteOrder, b []byte) { getFields(order, b, &v.X, &v.Y, &v.Z) }

// Vec4 is a 4-component float vector.
type Vec4 struct {
	X, Y, Z, W float32
}

// Size implements POD.
func (Vec4) Size() int { return 16 }

// Encode implements POD.
func (v Vec4) Encode(order binary.ByteOrder, b []byte) { putFields(order, b, v.X, v.Y, v.Z, v.W) }

// Decode implements PODDecoder.
func (v *Vec4) Decode(order binary.ByteOrder, b []byte) {
	getFields(order, b, &v.X, &v.Y, &v.Z, &v.W)
}

// Quat is a rotation quaternion, W is the real part.
type Quat struct {
	X, Y, Z, W float32
}

// Size implements POD.
func (Quat) Size() int { return 16 }

// Encode implements POD.
func (q Quat) Encode(order binary.ByteOrder, b []byte) { putFields(order, b, q.X, q.Y, q.Z, q.W) }

// Decode implements PODDecoder.
func (q *Quat) Decode(order binary.ByteOrder, b []byte) {
	getFields(order, b, &q.X, &q.Y, &q.Z, &q.W)
}

// Mat2 is a column-major 2x2 matrix.
type Mat2 [4]float32

// Size implements POD.
func (Mat2) Size() int { return 16 }

// Encode implements POD.
func (m Mat2) Encode(order binary.ByteOrder, b []byte) { putFields(order, b, m[:]...) }

// Decode implements PODDecoder.
func (m *Mat2) Decode(order binary.ByteOrder, b []byte) {
	getFields(order, b, &m[0], &m[1], &m[2], &m[3])
}

// Mat4 is a column-major 4x4 matrix.
type Mat4 [16]float32

// Size implements POD.
func (Mat4) Size() int { return 64 }

// Encode implements POD.
func (m Mat4) Encode(order binary.ByteOrder, b []byte) { putFields(order, b, m[:]...) }

// Decode implements PODDecoder.
func (m *Mat4) Decode(order binary.ByteOrder, b []byte) {
	for i := range m {
		m[i] = getScalar[float32](order, b[i*4:])
	}
}

// Colour is an 8-bit per channel RGBA colour.
type Colour struct {
	R, G, B, A uint8
}

// Size implements POD.
func (Colour) Size() int { return 4 }

// Encode implements POD.
func (c Colour) Encode(order binary.ByteOrder, b []byte) { putFields(order, b, c.R, c.G, c.B, c.A) }

// Decode implements PODDecoder.
func (c *Colour) Decode(order binary.ByteOrder, b []byte) {
	getFields(order, b, &c.R, &c.G, &c.B, &c.A)
}

// ColourF is a floating point RGBA colour.
type ColourF struct {
	R, G, B, A float32
}

// Size implements POD.
func (ColourF) Size() int { return 16 }

// Encode implements POD.
func (c ColourF) Encode(order binary.ByteOrder, b []byte) { putFields(order, b, c.R, c.G, c.B, c.A) }

// Decode implements PODDecoder.
func (c *ColourF) Decode(order binary.ByteOrder, b []byte) {
	getFields(order, b, &c.R, &c.G, &c.B, &c.A)
}

// Edge is a pair of vertex indices.
type Edge [2]int32

// Size implements POD.
func (Edge) Size() int { return 8 }

// Encode implements POD.
func (e Edge) Encode(order binary.ByteOrder, b []byte) { putFields(order, b, e[:]...) }

// Decode implements PODDecoder.
func (e *Edge) Decode(order binary.ByteOrder, b []byte) { getFields(order, b, &e[0], &e[1]) }

// Tri is a triangle as three vertex indices.
type Tri [3]int32

// Size implements POD.
func (Tri) Size() int { return 12 }

// Encode implements POD.
func (t Tri) Encode(order binary.ByteOrder, b []byte) { putFields(order, b, t[:]...) }

// Decode implements PODDecoder.
func (t *Tri) Decode(order binary.ByteOrder, b []byte) { getFields(order, b, &t[0], &t[1], &t[2]) }

// Quad is a quad as four vertex indices.
type Quad [4]int32

// Size implements POD.
func (Quad) Size() int { return 16 }

// Encode implements POD.
func (q Quad) Encode(order binary.ByteOrder, b []byte) { putFields(order, b, q[:]...) }

// Decode implements PODDecoder.
func (q *Quad) Decode(order binary.ByteOrder, b []byte) {
	getFields(order, b, &q[0], &q[1], &q[2], &q[3])
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center Vec3
	Radius float32
}

// Size implements POD.
func (Sphere) Size() int { return 16 }

// Encode implements POD.
func (s Sphere) Encode(order binary.ByteOrder, b []byte) {
	putFields(order, b, s.Center.X, s.Center.Y, s.Center.Z, s.Radius)
}

// Decode implements PODDecoder.
func (s *Sphere) Decode(order binary.ByteOrder, b []byte) {
	getFields(order, b, &s.Center.X, &s.Center.Y, &s.Center.Z, &s.Radius)
}

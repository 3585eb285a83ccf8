// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package chunkfile

import "fmt"

// ID identifies a chunk.
//
// The top bit marks container chunks, bits 27-24 hold the major system,
// bits 23-0 are local to the system. Bits 30-28 are reserved for the
// alignment shift and are never part of an ID. Zero is invalid.
type ID uint32

// System is the major system nibble of an ID.
type System uint8

// Major systems.
const (
	SystemCore      System = 0x0
	SystemScene     System = 0x1
	SystemRendering System = 0x2
	SystemGameplay  System = 0x3
	SystemPhysics   System = 0x4
	SystemAI        System = 0x5
	SystemUI        System = 0x6
	SystemSound     System = 0x7
	SystemCamera    System = 0x8
	SystemProductA  System = 0xA
	SystemProductB  System = 0xB
	SystemProductC  System = 0xC
	SystemProductD  System = 0xD
	SystemProductE  System = 0xE
	SystemGeneric   System = 0xF
)

var systemNames = map[System]string{
	SystemCore:      "core",
	SystemScene:     "scene",
	SystemRendering: "rendering",
	SystemGameplay:  "gameplay",
	SystemPhysics:   "physics",
	SystemAI:        "ai",
	SystemUI:        "ui",
	SystemSound:     "sound",
	SystemCamera:    "camera",
	SystemProductA:  "product-a",
	SystemProductB:  "product-b",
	SystemProductC:  "product-c",
	SystemProductD:  "product-d",
	SystemProductE:  "product-e",
	SystemGeneric:   "generic",
}

// String implements fmt.Stringer.
func (s System) String() string {
	if name, ok := systemNames[s]; ok {
		return name
	}

	return fmt.Sprintf("system-%X", uint8(s))
}

const (
	systemShift = 24
	localMask   = 0x00FFFFFF
)

// MakeID builds an ID from its parts.
func MakeID(system System, local uint32, container bool) ID {
	id := ID(uint32(system&0xF)<<systemShift | local&localMask)

	if container {
		id |= containerBit
	}

	return id
}

// IsContainer reports whether chunks with this ID hold sub-chunks.
func (id ID) IsContainer() bool {
	return id&containerBit != 0
}

// System returns the major system of the ID.
func (id ID) System() System {
	return System((id & idMask) >> systemShift)
}

// Local returns the system-local part of the ID.
func (id ID) Local() uint32 {
	return uint32(id) & localMask
}

// Valid reports whether the ID may be used for a chunk.
func (id ID) Valid() bool {
	return id&idMask != 0 && id&alignShiftMask == 0
}

// String implements fmt.Stringer.
func (id ID) String() string {
	kind := "data"
	if id.IsContainer() {
		kind = "container"
	}

	return fmt.Sprintf("0x%08X(%s/%s)", uint32(id), id.System(), kind)
}

// Core system IDs.
const (
	IDInvalid ID = 0

	IDCoreFile      ID = 0x80000001
	IDCoreHeader    ID = 0x80000002
	IDCoreVersion   ID = 0x00000010
	IDCoreName      ID = 0x00000011
	IDCoreTimestamp ID = 0x00000012
	IDCoreString    ID = 0x00001000
	IDCoreBlob      ID = 0x00001001
	IDCoreStringSet ID = 0x80001000
)

// Scene IDs.
const (
	IDSceneContainer ID = 0x81000001
	IDSceneObject    ID = 0x81000002
	IDSceneName      ID = 0x01000010
	IDSceneTransform ID = 0x01000011
	IDSceneBounds    ID = 0x01000012
)

// Rendering IDs.
const (
	IDRenderingMesh      ID = 0x82000001
	IDRenderingVertices  ID = 0x02000010
	IDRenderingNormals   ID = 0x02000011
	IDRenderingUVs       ID = 0x02000012
	IDRenderingTriangles ID = 0x02000013
	IDRenderingEdges     ID = 0x02000014
	IDRenderingMaterial  ID = 0x82000002
	IDRenderingColour    ID = 0x02000020
	IDRenderingImage     ID = 0x82000003
	IDRenderingPixels    ID = 0x02000030
)

// Physics IDs.
const (
	IDPhysicsBody   ID = 0x84000001
	IDPhysicsSphere ID = 0x04000010
	IDPhysicsMass   ID = 0x04000011
)

// Camera IDs.
const (
	IDCamera           ID = 0x88000001
	IDCameraProjection ID = 0x08000010
	IDCameraView       ID = 0x08000011
)

// Generic IDs.
const (
	IDGenericContainer ID = 0x8F000001
	IDGenericData      ID = 0x0F000001
)

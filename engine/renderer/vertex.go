package renderer

import (
	"fmt"
	"unsafe"
)

// ScalarType identifies the underlying numeric type of one vertex attribute.
type ScalarType uint8

const (
	ScalarInt32 ScalarType = iota
	ScalarFloat32
)

// Size returns the byte size of a single scalar of this type.
func (s ScalarType) Size() uint16 {
	switch s {
	case ScalarInt32, ScalarFloat32:
		return 4
	}
	return 0
}

// VertexAttribute describes how one shader input slot maps onto the raw
// bytes of a vertex. A slice of these plus a stride fully describes a
// vertex layout. Attributes are bound against the geometry buffer at
// binding index 0.
type VertexAttribute struct {
	Slot         uint16
	ElementCount uint16
	Type         ScalarType
	Offset       uint16
}

// ValidateLayout checks that the attribute slots are unique and that no
// attribute extent overlaps another or runs past the vertex stride.
func ValidateLayout(stride uint32, attributes []VertexAttribute) error {
	if len(attributes) == 0 {
		return fmt.Errorf("vertex layout must have at least one attribute")
	}
	slots := make(map[uint16]bool, len(attributes))
	for _, a := range attributes {
		if slots[a.Slot] {
			return fmt.Errorf("vertex layout has duplicate slot %d", a.Slot)
		}
		slots[a.Slot] = true

		end := uint32(a.Offset) + uint32(a.ElementCount)*uint32(a.Type.Size())
		if a.ElementCount == 0 {
			return fmt.Errorf("vertex attribute at slot %d has no elements", a.Slot)
		}
		if end > stride {
			return fmt.Errorf("vertex attribute at slot %d ends at byte %d, past the stride of %d", a.Slot, end, stride)
		}
		for _, b := range attributes {
			if a.Slot == b.Slot {
				continue
			}
			bEnd := uint32(b.Offset) + uint32(b.ElementCount)*uint32(b.Type.Size())
			if uint32(a.Offset) < bEnd && end > uint32(b.Offset) {
				return fmt.Errorf("vertex attributes at slots %d and %d overlap", a.Slot, b.Slot)
			}
		}
	}
	return nil
}

// BlockVertex3D is the vertex shape produced for chunk geometry: an
// integer block-space position, a texture coordinate whose third component
// selects the texture-array layer, and the index of the face normal.
type BlockVertex3D struct {
	Position [3]int32
	TexCoord [3]float32
	Normal   float32
}

// BlockVertexLayout returns the attribute layout matching the memory
// layout of BlockVertex3D.
func BlockVertexLayout() []VertexAttribute {
	var v BlockVertex3D
	return []VertexAttribute{
		{Slot: 0, ElementCount: 3, Type: ScalarInt32, Offset: uint16(unsafe.Offsetof(v.Position))},
		{Slot: 1, ElementCount: 3, Type: ScalarFloat32, Offset: uint16(unsafe.Offsetof(v.TexCoord))},
		{Slot: 2, ElementCount: 1, Type: ScalarFloat32, Offset: uint16(unsafe.Offsetof(v.Normal))},
	}
}

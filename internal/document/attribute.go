package document

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Attribute is a typed vertex attribute buffer. Exactly one of the data
// slices is populated, selected by Semantic.
type Attribute struct {
	Semantic Semantic
	Vec2     [][2]float32 // TexCoord0, TexCoord1
	Vec3     [][3]float32 // Position, Normal
	Vec4     [][4]float32 // Weights0
	Joints   [][4]uint16  // Joints0
}

// Len returns the vertex count of the attribute.
func (a *Attribute) Len() int {
	switch {
	case a.Vec2 != nil:
		return len(a.Vec2)
	case a.Vec3 != nil:
		return len(a.Vec3)
	case a.Vec4 != nil:
		return len(a.Vec4)
	case a.Joints != nil:
		return len(a.Joints)
	}
	return 0
}

// Gather builds a new attribute holding pick[i]-th element at position i.
// Used to rebuild buffers after vertices are collapsed or reordered.
func (a *Attribute) Gather(pick []int) Attribute {
	out := Attribute{Semantic: a.Semantic}
	switch {
	case a.Vec2 != nil:
		out.Vec2 = make([][2]float32, len(pick))
		for i, p := range pick {
			out.Vec2[i] = a.Vec2[p]
		}
	case a.Vec3 != nil:
		out.Vec3 = make([][3]float32, len(pick))
		for i, p := range pick {
			out.Vec3[i] = a.Vec3[p]
		}
	case a.Vec4 != nil:
		out.Vec4 = make([][4]float32, len(pick))
		for i, p := range pick {
			out.Vec4[i] = a.Vec4[p]
		}
	case a.Joints != nil:
		out.Joints = make([][4]uint16, len(pick))
		for i, p := range pick {
			out.Joints[i] = a.Joints[p]
		}
	}
	return out
}

// ReadAttribute decodes a primitive attribute into its typed form.
// The second return is false when the primitive lacks the attribute.
func ReadAttribute(doc *gltf.Document, prim *gltf.Primitive, sem Semantic) (Attribute, bool, error) {
	acc, err := accessorFor(doc, prim, sem)
	if err != nil {
		if _, ok := prim.Attributes[sem.Name()]; !ok {
			return Attribute{}, false, nil
		}
		return Attribute{}, false, err
	}

	attr := Attribute{Semantic: sem}
	switch sem {
	case Position:
		attr.Vec3, err = modeler.ReadPosition(doc, acc, nil)
	case Normal:
		attr.Vec3, err = modeler.ReadNormal(doc, acc, nil)
	case TexCoord0, TexCoord1:
		attr.Vec2, err = modeler.ReadTextureCoord(doc, acc, nil)
	case Weights0:
		attr.Vec4, err = modeler.ReadWeights(doc, acc, nil)
	case Joints0:
		attr.Joints, err = modeler.ReadJoints(doc, acc, nil)
	default:
		return Attribute{}, false, fmt.Errorf("unsupported semantic %s", sem.Name())
	}
	if err != nil {
		return Attribute{}, false, fmt.Errorf("reading %s: %w", sem.Name(), err)
	}
	return attr, true, nil
}

// WriteAttribute encodes the attribute into a fresh accessor and points
// the primitive at it. Superseded accessors are left for the prune stage.
func WriteAttribute(doc *gltf.Document, prim *gltf.Primitive, attr Attribute) error {
	var idx uint32
	switch attr.Semantic {
	case Position:
		idx = modeler.WritePosition(doc, attr.Vec3)
	case Normal:
		idx = modeler.WriteNormal(doc, attr.Vec3)
	case TexCoord0, TexCoord1:
		idx = modeler.WriteTextureCoord(doc, attr.Vec2)
	case Weights0:
		idx = modeler.WriteWeights(doc, attr.Vec4)
	case Joints0:
		idx = modeler.WriteJoints(doc, attr.Joints)
	default:
		return fmt.Errorf("unsupported semantic %s", attr.Semantic.Name())
	}
	if prim.Attributes == nil {
		prim.Attributes = make(gltf.Attribute)
	}
	prim.Attributes[attr.Semantic.Name()] = idx
	return nil
}

// ReadPrimitiveIndices decodes a primitive's index buffer. The second
// return is false for non-indexed primitives.
func ReadPrimitiveIndices(doc *gltf.Document, prim *gltf.Primitive) ([]uint32, bool, error) {
	if prim.Indices == nil {
		return nil, false, nil
	}
	if int(*prim.Indices) >= len(doc.Accessors) {
		return nil, false, fmt.Errorf("primitive references missing index accessor %d", *prim.Indices)
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return nil, false, fmt.Errorf("reading indices: %w", err)
	}
	return indices, true, nil
}

// WritePrimitiveIndices encodes a rebuilt index buffer into a fresh
// accessor and points the primitive at it.
func WritePrimitiveIndices(doc *gltf.Document, prim *gltf.Primitive, indices []uint32) {
	prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
}

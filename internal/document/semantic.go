package document

import "github.com/qmuntal/gltf"

// Semantic identifies a supported vertex attribute. The transform engine
// dispatches on this enum instead of raw attribute-name strings so the
// hot paths stay free of string comparisons.
type Semantic uint8

const (
	Position Semantic = iota
	Normal
	TexCoord0
	TexCoord1
	Weights0
	Joints0
)

// Semantics lists every supported semantic in canonical order.
var Semantics = []Semantic{Position, Normal, TexCoord0, TexCoord1, Weights0, Joints0}

// Name returns the glTF attribute name for the semantic.
func (s Semantic) Name() string {
	switch s {
	case Position:
		return gltf.POSITION
	case Normal:
		return gltf.NORMAL
	case TexCoord0:
		return gltf.TEXCOORD_0
	case TexCoord1:
		return gltf.TEXCOORD_1
	case Weights0:
		return gltf.WEIGHTS_0
	case Joints0:
		return gltf.JOINTS_0
	}
	return "UNKNOWN"
}

// ParseSemantic maps a glTF attribute name onto the enum.
func ParseSemantic(name string) (Semantic, bool) {
	switch name {
	case gltf.POSITION:
		return Position, true
	case gltf.NORMAL:
		return Normal, true
	case gltf.TEXCOORD_0:
		return TexCoord0, true
	case gltf.TEXCOORD_1:
		return TexCoord1, true
	case gltf.WEIGHTS_0:
		return Weights0, true
	case gltf.JOINTS_0:
		return Joints0, true
	}
	return 0, false
}

// ListSemantics splits a primitive's attributes into supported semantics
// and the names of attributes the engine does not understand.
func ListSemantics(prim *gltf.Primitive) (supported []Semantic, unknown []string) {
	for _, sem := range Semantics {
		if _, ok := prim.Attributes[sem.Name()]; ok {
			supported = append(supported, sem)
		}
	}
	for name := range prim.Attributes {
		if _, ok := ParseSemantic(name); !ok {
			unknown = append(unknown, name)
		}
	}
	return supported, unknown
}

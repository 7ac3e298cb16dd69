// Package document wraps the glTF scene-document library with the typed
// accessor contracts the transform engine is built on.
package document

import (
	"bytes"
	"fmt"

	"github.com/qmuntal/gltf"
)

// ReadBinary parses a GLB container into a scene document.
func ReadBinary(data []byte) (*gltf.Document, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("parsing glb container: %w", err)
	}
	return doc, nil
}

// WriteBinary serializes the document back into a GLB container.
func WriteBinary(doc *gltf.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding glb container: %w", err)
	}
	return buf.Bytes(), nil
}

// HasSkins reports whether the document contains at least one skin.
func HasSkins(doc *gltf.Document) bool {
	return len(doc.Skins) > 0
}

// SkinnedMeshes returns the set of mesh indices instantiated by a node
// that also carries a skin. Primitives of these meshes own vertex weights
// and must never be re-indexed.
func SkinnedMeshes(doc *gltf.Document) map[int]bool {
	skinned := make(map[int]bool)
	for _, node := range doc.Nodes {
		if node == nil || node.Mesh == nil || node.Skin == nil {
			continue
		}
		skinned[int(*node.Mesh)] = true
	}
	return skinned
}

// VertexCount returns the vertex count of a primitive, taken from its
// POSITION accessor, or from any attribute when POSITION is absent.
func VertexCount(doc *gltf.Document, prim *gltf.Primitive) (int, error) {
	if acc, err := accessorFor(doc, prim, Position); err == nil {
		return int(acc.Count), nil
	}
	for _, idx := range prim.Attributes {
		if int(idx) < len(doc.Accessors) {
			return int(doc.Accessors[idx].Count), nil
		}
	}
	return 0, fmt.Errorf("primitive has no vertex attributes")
}

// ValidateIndices asserts the core index-buffer invariant: every index
// refers to an existing vertex. A violation is a defect in an upstream
// transform, not bad user input.
func ValidateIndices(indices []uint32, vertexCount int) error {
	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return fmt.Errorf("index %d at position %d out of range (vertex count %d)", idx, i, vertexCount)
		}
	}
	return nil
}

func accessorFor(doc *gltf.Document, prim *gltf.Primitive, sem Semantic) (*gltf.Accessor, error) {
	idx, ok := prim.Attributes[sem.Name()]
	if !ok {
		return nil, fmt.Errorf("primitive has no %s attribute", sem.Name())
	}
	if int(idx) >= len(doc.Accessors) {
		return nil, fmt.Errorf("attribute %s references missing accessor %d", sem.Name(), idx)
	}
	return doc.Accessors[idx], nil
}

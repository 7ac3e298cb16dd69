package stage

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/document"
	"github.com/Faultbox/meshforge/internal/logger"
)

// ReorderVertices remaps each triangle primitive's vertices into the
// order the index buffer first touches them, improving GPU fetch
// locality. Orphaned vertices (unreferenced by any index) are dropped.
// Must not run on skinned meshes; the orchestrator gates it and the
// stage additionally skips them as a defect guard.
func ReorderVertices(doc *gltf.Document) (int, error) {
	skinned := document.SkinnedMeshes(doc)
	reordered := 0

	for mi, mesh := range doc.Meshes {
		if skinned[mi] {
			continue
		}
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			changed, err := reorderPrimitive(doc, prim)
			if err != nil {
				return reordered, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			if changed {
				reordered++
			}
		}
	}

	if reordered > 0 {
		logger.Debug("reordered vertices", zap.Int("primitives", reordered))
	}
	return reordered, nil
}

func reorderPrimitive(doc *gltf.Document, prim *gltf.Primitive) (bool, error) {
	indices, ok, err := document.ReadPrimitiveIndices(doc, prim)
	if err != nil || !ok {
		return false, err
	}

	count, err := document.VertexCount(doc, prim)
	if err != nil {
		return false, err
	}
	if err := document.ValidateIndices(indices, count); err != nil {
		return false, err
	}

	sems, unknown := document.ListSemantics(prim)
	if len(unknown) > 0 {
		logger.Warn("skipping reorder for primitive with unsupported attributes",
			zap.Strings("attributes", unknown))
		return false, nil
	}

	remap := make([]int, count)
	for i := range remap {
		remap[i] = -1
	}
	var pick []int // new position -> old vertex
	for _, idx := range indices {
		if remap[idx] < 0 {
			remap[idx] = len(pick)
			pick = append(pick, int(idx))
		}
	}

	// Already in first-use order with no orphans: nothing to do.
	if len(pick) == count {
		inOrder := true
		for i, p := range pick {
			if p != i {
				inOrder = false
				break
			}
		}
		if inOrder {
			return false, nil
		}
	}

	newIndices := make([]uint32, len(indices))
	for i, idx := range indices {
		newIndices[i] = uint32(remap[idx])
	}

	for _, sem := range sems {
		attr, ok, err := document.ReadAttribute(doc, prim, sem)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if attr.Len() != count {
			return false, fmt.Errorf("attribute %s holds %d elements, vertex count is %d", sem.Name(), attr.Len(), count)
		}
		if err := document.WriteAttribute(doc, prim, attr.Gather(pick)); err != nil {
			return false, err
		}
	}
	document.WritePrimitiveIndices(doc, prim, newIndices)
	return true, nil
}

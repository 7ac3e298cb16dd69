// Package transform implements the custom scene-graph mutations applied
// before final compression: spatial vertex merging, degenerate face
// removal, skin weight normalization, cross-animation static track
// pruning, and the read-only complexity reports.
package transform

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/document"
	"github.com/Faultbox/meshforge/internal/logger"
)

// MergeStats reports the effect of a MergeByDistance pass.
type MergeStats struct {
	PrimitivesVisited int
	PrimitivesMerged  int
	VerticesBefore    int
	VerticesAfter     int
}

// MergeByDistance collapses vertices whose positions quantize to the
// same cell at the given tolerance. Surviving vertices keep their
// first-seen order, so the pass is deterministic and idempotent. Skinned
// meshes are never touched: re-indexing would scramble their per-vertex
// joint weights.
func MergeByDistance(doc *gltf.Document, tolerance float32) (*MergeStats, error) {
	if tolerance <= 0 {
		return nil, fmt.Errorf("merge tolerance must be positive, got %g", tolerance)
	}

	skinned := document.SkinnedMeshes(doc)
	stats := &MergeStats{}

	for mi, mesh := range doc.Meshes {
		if skinned[mi] {
			continue
		}
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := mergePrimitive(doc, prim, tolerance, stats); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}

	logger.Debug("merge by distance",
		zap.Float32("tolerance", tolerance),
		zap.Int("primitivesMerged", stats.PrimitivesMerged),
		zap.Int("verticesBefore", stats.VerticesBefore),
		zap.Int("verticesAfter", stats.VerticesAfter))
	return stats, nil
}

func mergePrimitive(doc *gltf.Document, prim *gltf.Primitive, tolerance float32, stats *MergeStats) error {
	posAttr, ok, err := document.ReadAttribute(doc, prim, document.Position)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	sems, unknown := document.ListSemantics(prim)
	if len(unknown) > 0 {
		// An attribute we cannot rebuild would dangle after remapping.
		logger.Warn("skipping merge for primitive with unsupported attributes",
			zap.Strings("attributes", unknown))
		return nil
	}

	positions := posAttr.Vec3
	n := len(positions)
	stats.PrimitivesVisited++
	stats.VerticesBefore += n

	type cell [3]int64
	seen := make(map[cell]uint32, n)
	remap := make([]uint32, n) // original index -> canonical output index
	var pick []int             // output index -> first-seen original index

	for i, p := range positions {
		key := cell{quantize(p[0], tolerance), quantize(p[1], tolerance), quantize(p[2], tolerance)}
		if canon, dup := seen[key]; dup {
			remap[i] = canon
			continue
		}
		canon := uint32(len(pick))
		seen[key] = canon
		remap[i] = canon
		pick = append(pick, i)
	}

	if len(pick) == n {
		stats.VerticesAfter += n
		return nil
	}

	indices, hasIndices, err := document.ReadPrimitiveIndices(doc, prim)
	if err != nil {
		return err
	}
	if !hasIndices {
		indices = make([]uint32, n)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if err := document.ValidateIndices(indices, n); err != nil {
		return err
	}

	newIndices := make([]uint32, len(indices))
	for i, idx := range indices {
		newIndices[i] = remap[idx]
	}

	for _, sem := range sems {
		attr, ok, err := document.ReadAttribute(doc, prim, sem)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if attr.Len() != n {
			return fmt.Errorf("attribute %s holds %d elements, vertex count is %d", sem.Name(), attr.Len(), n)
		}
		gathered := attr.Gather(pick)
		if err := document.WriteAttribute(doc, prim, gathered); err != nil {
			return err
		}
	}
	document.WritePrimitiveIndices(doc, prim, newIndices)

	stats.PrimitivesMerged++
	stats.VerticesAfter += len(pick)
	return nil
}

func quantize(v, tolerance float32) int64 {
	return int64(math32.Round(v / tolerance))
}

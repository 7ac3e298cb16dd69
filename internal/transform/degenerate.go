package transform

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/document"
	"github.com/Faultbox/meshforge/internal/logger"
	"github.com/Faultbox/meshforge/pkg/vmath"
)

// DefaultMinTriangleArea is the area below which a triangle is
// considered degenerate.
const DefaultMinTriangleArea = 1e-10

// DegenerateStats reports the effect of a RemoveDegenerateFaces pass.
type DegenerateStats struct {
	TrianglesBefore  int
	TrianglesRemoved int
}

// RemoveDegenerateFaces drops index triples with repeated indices or a
// triangle area below minArea. Vertex buffers are untouched; orphaned
// vertices are left for the prune stage. Idempotent.
func RemoveDegenerateFaces(doc *gltf.Document, minArea float32) (*DegenerateStats, error) {
	if minArea <= 0 {
		minArea = DefaultMinTriangleArea
	}

	stats := &DegenerateStats{}
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := cleanPrimitive(doc, prim, minArea, stats); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}

	logger.Debug("degenerate face removal",
		zap.Float32("minArea", minArea),
		zap.Int("trianglesBefore", stats.TrianglesBefore),
		zap.Int("trianglesRemoved", stats.TrianglesRemoved))
	return stats, nil
}

func cleanPrimitive(doc *gltf.Document, prim *gltf.Primitive, minArea float32, stats *DegenerateStats) error {
	indices, hasIndices, err := document.ReadPrimitiveIndices(doc, prim)
	if err != nil {
		return err
	}
	if !hasIndices {
		return nil
	}

	posAttr, ok, err := document.ReadAttribute(doc, prim, document.Position)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	positions := posAttr.Vec3
	if err := document.ValidateIndices(indices, len(positions)); err != nil {
		return err
	}

	triangles := len(indices) / 3
	stats.TrianglesBefore += triangles

	// A trailing partial triple cannot form a triangle and is always
	// dropped, so the pass stays deterministic on malformed buffers.
	leftover := len(indices) % 3
	if leftover > 0 {
		logger.Warn("index buffer length not a multiple of 3, dropping trailing indices",
			zap.Int("leftover", leftover))
	}

	survivors := make([]uint32, 0, len(indices))
	for t := 0; t < triangles; t++ {
		i0, i1, i2 := indices[t*3], indices[t*3+1], indices[t*3+2]
		if i0 == i1 || i1 == i2 || i0 == i2 {
			continue
		}
		area := vmath.TriangleArea(vmath.V3(positions[i0]), vmath.V3(positions[i1]), vmath.V3(positions[i2]))
		if area < minArea {
			continue
		}
		survivors = append(survivors, i0, i1, i2)
	}

	removed := triangles - len(survivors)/3
	if removed == 0 && leftover == 0 {
		return nil
	}
	stats.TrianglesRemoved += removed
	document.WritePrimitiveIndices(doc, prim, survivors)
	return nil
}

package transform

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/document"
	"github.com/Faultbox/meshforge/internal/logger"
)

// weightTolerance bounds how far a weight sum may drift from 1 before a
// vertex gets renormalized.
const weightTolerance = 1e-6

// WeightStats reports the effect of a NormalizeWeights pass.
type WeightStats struct {
	PrimitivesVisited  int
	VerticesNormalized int
}

// NormalizeWeights rescales every vertex's WEIGHTS_0 components so they
// sum to 1. Vertices whose weights sum to zero carry no influence and
// are left untouched. Idempotent.
func NormalizeWeights(doc *gltf.Document) (*WeightStats, error) {
	stats := &WeightStats{}

	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			attr, ok, err := document.ReadAttribute(doc, prim, document.Weights0)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			if !ok {
				continue
			}
			stats.PrimitivesVisited++

			changed := 0
			weights := attr.Vec4
			for vi := range weights {
				sum := weights[vi][0] + weights[vi][1] + weights[vi][2] + weights[vi][3]
				if sum <= 0 || math32.Abs(sum-1) <= weightTolerance {
					continue
				}
				for c := 0; c < 4; c++ {
					weights[vi][c] /= sum
				}
				changed++
			}
			if changed == 0 {
				continue
			}
			if err := document.WriteAttribute(doc, prim, attr); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			stats.VerticesNormalized += changed
		}
	}

	logger.Debug("weight normalization",
		zap.Int("primitivesVisited", stats.PrimitivesVisited),
		zap.Int("verticesNormalized", stats.VerticesNormalized))
	return stats, nil
}

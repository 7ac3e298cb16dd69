package compress

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/document"
	"github.com/Faultbox/meshforge/internal/logger"
	"github.com/Faultbox/meshforge/internal/stage"
)

// Quantization grids for the in-process fallback. Far coarser wins are
// possible with a real compressor; these are safe defaults that keep
// visual error unnoticeable at asset scale.
const (
	positionBits = 14
	texCoordBits = 12
)

// Fallback reduces the document in process: positions and texture
// coordinates are snapped to a fixed grid so the binary payload
// compresses better downstream. Skinned documents skip quantization
// entirely and are only re-encoded: snapping deformed positions visibly
// pops joints, and partial treatment of a rigged scene is not worth the
// bytes.
func (c *Compressor) Fallback(input []byte) ([]byte, error) {
	doc, err := document.ReadBinary(input)
	if err != nil {
		return nil, fmt.Errorf("fallback decode: %w", err)
	}

	if !document.HasSkins(doc) {
		for mi, mesh := range doc.Meshes {
			for pi, prim := range mesh.Primitives {
				if err := quantizeVec3(doc, prim, document.Position, positionBits); err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d positions: %w", mi, pi, err)
				}
				if err := quantizeVec2(doc, prim, document.TexCoord0, texCoordBits); err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d texcoords: %w", mi, pi, err)
				}
			}
		}
		stage.Prune(doc)
	}

	out, err := document.WriteBinary(doc)
	if err != nil {
		return nil, fmt.Errorf("fallback encode: %w", err)
	}
	logger.Debug("fallback compression finished",
		zap.Int("inBytes", len(input)),
		zap.Int("outBytes", len(out)),
		zap.Bool("skinned", document.HasSkins(doc)))
	return out, nil
}

func quantizeVec3(doc *gltf.Document, prim *gltf.Primitive, sem document.Semantic, bits int) error {
	attr, ok, err := document.ReadAttribute(doc, prim, sem)
	if err != nil || !ok {
		return err
	}

	var min, max [3]float32
	for c := 0; c < 3; c++ {
		min[c] = math32.Inf(1)
		max[c] = math32.Inf(-1)
	}
	for _, v := range attr.Vec3 {
		for c := 0; c < 3; c++ {
			min[c] = math32.Min(min[c], v[c])
			max[c] = math32.Max(max[c], v[c])
		}
	}

	steps := float32(int32(1) << bits)
	for c := 0; c < 3; c++ {
		extent := max[c] - min[c]
		if extent <= 0 {
			continue
		}
		cell := extent / steps
		for i := range attr.Vec3 {
			attr.Vec3[i][c] = min[c] + math32.Round((attr.Vec3[i][c]-min[c])/cell)*cell
		}
	}
	return document.WriteAttribute(doc, prim, attr)
}

func quantizeVec2(doc *gltf.Document, prim *gltf.Primitive, sem document.Semantic, bits int) error {
	attr, ok, err := document.ReadAttribute(doc, prim, sem)
	if err != nil || !ok {
		return err
	}

	steps := float32(int32(1) << bits)
	cell := 1 / steps
	for i := range attr.Vec2 {
		attr.Vec2[i][0] = math32.Round(attr.Vec2[i][0]/cell) * cell
		attr.Vec2[i][1] = math32.Round(attr.Vec2[i][1]/cell) * cell
	}
	return document.WriteAttribute(doc, prim, attr)
}

package transform

import (
	"go.uber.org/zap"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/meshforge/internal/document"
	"github.com/Faultbox/meshforge/internal/logger"
	"github.com/Faultbox/meshforge/pkg/vmath"
)

// Heuristic thresholds for the complexity report. Diagnostic only.
const (
	bloatBytesPerTriangle = 512
	highVertexCount       = 250_000
)

// MeshReport is the read-only mesh complexity summary.
type MeshReport struct {
	Meshes          int
	Primitives      int
	Vertices        int
	Triangles       int
	BufferBytes     int
	Bounds          vmath.Bounds
	BytesPerTri     float64
	Bloated         bool
	HighVertexCount bool
}

// AnimationReport is the read-only animation summary.
type AnimationReport struct {
	Animations     int
	Channels       int
	Samplers       int
	Keyframes      int
	Duration       float32
	StaticChannels int
}

// AnalyzeMeshComplexity walks the mesh graph and reports sizes and
// bloat heuristics. Never mutates and never fails a run; unreadable
// pieces are skipped.
func AnalyzeMeshComplexity(doc *gltf.Document) *MeshReport {
	report := &MeshReport{Meshes: len(doc.Meshes), Bounds: vmath.EmptyBounds()}

	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			report.Primitives++

			if count, err := document.VertexCount(doc, prim); err == nil {
				report.Vertices += count
			}
			if indices, ok, err := document.ReadPrimitiveIndices(doc, prim); err == nil && ok {
				report.Triangles += len(indices) / 3
			}
			if attr, ok, err := document.ReadAttribute(doc, prim, document.Position); err == nil && ok {
				for _, p := range attr.Vec3 {
					report.Bounds.Expand(vmath.V3(p))
				}
			}
		}
	}

	for _, buf := range doc.Buffers {
		report.BufferBytes += int(buf.ByteLength)
	}
	if report.Triangles > 0 {
		report.BytesPerTri = float64(report.BufferBytes) / float64(report.Triangles)
		report.Bloated = report.BytesPerTri > bloatBytesPerTriangle
	}
	report.HighVertexCount = report.Vertices > highVertexCount

	logger.Info("mesh complexity",
		zap.Int("meshes", report.Meshes),
		zap.Int("primitives", report.Primitives),
		zap.Int("vertices", report.Vertices),
		zap.Int("triangles", report.Triangles),
		zap.Int("bufferBytes", report.BufferBytes),
		zap.Bool("bloated", report.Bloated),
		zap.Bool("highVertexCount", report.HighVertexCount))
	return report
}

// AnalyzeAnimations summarizes the animation graph, reusing the cached
// per-channel static test from the consensus transform.
func AnalyzeAnimations(doc *gltf.Document, tol float32) *AnimationReport {
	if tol <= 0 {
		tol = DefaultStaticTolerance
	}
	report := &AnimationReport{Animations: len(doc.Animations)}

	for _, anim := range doc.Animations {
		report.Channels += len(anim.Channels)
		report.Samplers += len(anim.Samplers)

		for _, sampler := range anim.Samplers {
			keyframes, err := document.SamplerKeyframes(doc, sampler)
			if err != nil {
				continue
			}
			report.Keyframes += keyframes
			if times, err := document.ReadSamplerInput(doc, sampler); err == nil {
				for _, tm := range times {
					if tm > report.Duration {
						report.Duration = tm
					}
				}
			}
		}

		for _, ch := range anim.Channels {
			state, err := analyzeChannel(doc, anim, ch, tol)
			if err != nil {
				continue
			}
			if state.analyzable && state.static {
				report.StaticChannels++
			}
		}
	}

	logger.Info("animation summary",
		zap.Int("animations", report.Animations),
		zap.Int("channels", report.Channels),
		zap.Int("keyframes", report.Keyframes),
		zap.Float32("duration", report.Duration),
		zap.Int("staticChannels", report.StaticChannels))
	return report
}

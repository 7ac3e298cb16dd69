package transform

import (
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/meshforge/internal/doctest"
)

func TestAnalyzeMeshComplexity(t *testing.T) {
	doc := doctest.New()
	doctest.AddMesh(doc, [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}, []uint32{0, 1, 2})
	doctest.AddMesh(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}, []uint32{0, 1, 2, 1, 3, 2})

	report := AnalyzeMeshComplexity(doc)

	if report.Meshes != 2 || report.Primitives != 2 {
		t.Errorf("expected 2 meshes / 2 primitives, got %d / %d", report.Meshes, report.Primitives)
	}
	if report.Vertices != 7 {
		t.Errorf("expected 7 vertices, got %d", report.Vertices)
	}
	if report.Triangles != 3 {
		t.Errorf("expected 3 triangles, got %d", report.Triangles)
	}
	if report.BufferBytes == 0 {
		t.Error("expected non-zero buffer bytes")
	}
	if report.Bounds.Max.X != 2 || report.Bounds.Max.Y != 2 {
		t.Errorf("unexpected bounds max %v", report.Bounds.Max)
	}
	if report.HighVertexCount {
		t.Error("7 vertices flagged as high vertex count")
	}
}

func TestAnalyzeAnimations(t *testing.T) {
	doc := doctest.New()
	_, nodeIdx := doctest.AddMesh(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []uint32{0, 1, 2})

	animIdx := doctest.AddAnimation(doc, "clip")
	doctest.AddChannel(doc, animIdx, nodeIdx, gltf.TRSTranslation,
		[]float32{0, 0.5, 2.5}, doctest.Repeat([]float32{0, 0, 0}, 3), 3)
	doctest.AddChannel(doc, animIdx, nodeIdx, gltf.TRSScale,
		[]float32{0, 1}, []float32{1, 1, 1, 3, 3, 3}, 3)

	report := AnalyzeAnimations(doc, 0)

	if report.Animations != 1 {
		t.Errorf("expected 1 animation, got %d", report.Animations)
	}
	if report.Channels != 2 || report.Samplers != 2 {
		t.Errorf("expected 2 channels / 2 samplers, got %d / %d", report.Channels, report.Samplers)
	}
	if report.Keyframes != 5 {
		t.Errorf("expected 5 keyframes, got %d", report.Keyframes)
	}
	if report.Duration != 2.5 {
		t.Errorf("expected duration 2.5, got %g", report.Duration)
	}
	if report.StaticChannels != 1 {
		t.Errorf("expected 1 static channel, got %d", report.StaticChannels)
	}
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	doc := doctest.New()

	mesh := AnalyzeMeshComplexity(doc)
	if mesh.Primitives != 0 || mesh.Bloated {
		t.Errorf("unexpected report for empty document: %+v", mesh)
	}

	anims := AnalyzeAnimations(doc, 0)
	if anims.Channels != 0 || anims.Duration != 0 {
		t.Errorf("unexpected animation report for empty document: %+v", anims)
	}
}

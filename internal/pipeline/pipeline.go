// Package pipeline sequences the optimization phases over a single
// binary scene document and dispatches the result to final compression.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/compress"
	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/internal/document"
	"github.com/Faultbox/meshforge/internal/logger"
	"github.com/Faultbox/meshforge/internal/stage"
	"github.com/Faultbox/meshforge/internal/transform"
)

// Result is the outcome of one optimization run.
type Result struct {
	Buffer  []byte
	Method  string
	Skinned bool
	Phases  []string

	InBytes  int
	OutBytes int

	Mesh      *transform.MeshReport
	Animation *transform.AnimationReport
}

// Pipeline runs the forward-only phase sequence. One document per call;
// independent calls are safe to run concurrently.
type Pipeline struct {
	cfg  config.Config
	comp *compress.Compressor
}

func New(cfg config.Config) *Pipeline {
	return &Pipeline{cfg: cfg, comp: compress.New(cfg.Compressor)}
}

// Optimize decodes input, applies every phase the document's rig allows,
// and compresses the result. Skinned documents skip the geometry and
// gpu phases; everything else runs regardless.
func (p *Pipeline) Optimize(ctx context.Context, input []byte) (*Result, error) {
	start := time.Now()

	doc, err := document.ReadBinary(input)
	if err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}

	res := &Result{
		Skinned: document.HasSkins(doc),
		InBytes: len(input),
	}

	// Diagnostics inform logging and the inspect command; they never
	// change what runs.
	res.Mesh = transform.AnalyzeMeshComplexity(doc)
	res.Animation = transform.AnalyzeAnimations(doc, p.cfg.Pipeline.StaticTolerance)
	logger.Info("optimizing scene",
		zap.Bool("skinned", res.Skinned),
		zap.Int("meshes", res.Mesh.Meshes),
		zap.Int("triangles", res.Mesh.Triangles),
		zap.Int("animations", res.Animation.Animations),
		zap.Int("inBytes", res.InBytes))

	res.phase("strip")
	stage.StripCompression(doc)

	res.phase("cleanup")
	stage.DedupAccessors(doc)
	stage.Prune(doc)
	if res.Skinned {
		if _, err := transform.NormalizeWeights(doc); err != nil {
			return nil, fmt.Errorf("cleanup phase: %w", err)
		}
	}

	if !res.Skinned {
		res.phase("geometry")
		if _, err := transform.MergeByDistance(doc, p.cfg.Pipeline.MergeTolerance); err != nil {
			return nil, fmt.Errorf("geometry phase: %w", err)
		}
		if _, err := transform.RemoveDegenerateFaces(doc, p.cfg.Pipeline.MinTriangleArea); err != nil {
			return nil, fmt.Errorf("geometry phase: %w", err)
		}

		res.phase("gpu")
		if _, err := stage.ReorderVertices(doc); err != nil {
			return nil, fmt.Errorf("gpu phase: %w", err)
		}
	}

	res.phase("animation")
	if _, err := transform.RemoveStaticTracks(doc, p.cfg.Pipeline.StaticTolerance); err != nil {
		return nil, fmt.Errorf("animation phase: %w", err)
	}

	res.phase("texture")
	stage.FixTextureMIME(doc)

	// Rebuild phases leave superseded accessors behind; sweep before
	// serializing.
	stage.Prune(doc)

	res.phase("serialize")
	buf, err := document.WriteBinary(doc)
	if err != nil {
		return nil, fmt.Errorf("serializing scene: %w", err)
	}

	res.phase("compress")
	cres, err := p.comp.Compress(ctx, buf, res.Skinned)
	if err != nil {
		return nil, fmt.Errorf("final compression: %w", err)
	}
	res.Buffer = cres.Buffer
	res.Method = cres.Method
	res.OutBytes = len(cres.Buffer)

	logger.Info("scene optimized",
		zap.String("method", res.Method),
		zap.Int("inBytes", res.InBytes),
		zap.Int("outBytes", res.OutBytes),
		zap.Duration("took", time.Since(start)))
	return res, nil
}

// Inspect runs the diagnostics only, leaving the document untouched.
func (p *Pipeline) Inspect(input []byte) (*transform.MeshReport, *transform.AnimationReport, error) {
	doc, err := document.ReadBinary(input)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding scene: %w", err)
	}
	mesh := transform.AnalyzeMeshComplexity(doc)
	anim := transform.AnalyzeAnimations(doc, p.cfg.Pipeline.StaticTolerance)
	return mesh, anim, nil
}

func (r *Result) phase(name string) {
	r.Phases = append(r.Phases, name)
}

// Ran reports whether a named phase was applied.
func (r *Result) Ran(name string) bool {
	for _, p := range r.Phases {
		if p == name {
			return true
		}
	}
	return false
}

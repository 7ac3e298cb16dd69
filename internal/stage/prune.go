package stage

import (
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/logger"
)

// PruneStats reports what Prune removed.
type PruneStats struct {
	Accessors   int
	BufferViews int
}

// Prune drops accessors and buffer views nothing references anymore,
// compacting the slices and remapping every surviving reference. The
// rebuild transforms always write fresh accessors and rely on this
// stage to sweep the superseded ones.
func Prune(doc *gltf.Document) *PruneStats {
	stats := &PruneStats{}

	// Accessors first: dropping them can orphan buffer views.
	used := collectAccessorRefs(doc)
	remap := make([]int, len(doc.Accessors))
	kept := doc.Accessors[:0]
	for i, acc := range doc.Accessors {
		if !used[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, acc)
	}
	stats.Accessors = len(doc.Accessors) - len(kept)
	doc.Accessors = kept
	if stats.Accessors > 0 {
		remapAccessorRefs(doc, remap)
	}

	usedViews := collectBufferViewRefs(doc)
	viewRemap := make([]int, len(doc.BufferViews))
	keptViews := doc.BufferViews[:0]
	for i, bv := range doc.BufferViews {
		if !usedViews[i] {
			viewRemap[i] = -1
			continue
		}
		viewRemap[i] = len(keptViews)
		keptViews = append(keptViews, bv)
	}
	stats.BufferViews = len(doc.BufferViews) - len(keptViews)
	doc.BufferViews = keptViews
	if stats.BufferViews > 0 {
		remapBufferViewRefs(doc, viewRemap)
	}

	if stats.Accessors > 0 || stats.BufferViews > 0 {
		logger.Debug("pruned unreferenced data",
			zap.Int("accessors", stats.Accessors),
			zap.Int("bufferViews", stats.BufferViews))
	}
	return stats
}

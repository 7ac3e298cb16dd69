// Package stage holds the pre-built document rewrites the orchestrator
// sequences around the custom transforms: compression stripping,
// accessor dedup/prune, GPU vertex reordering, and texture fixes.
package stage

import (
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/logger"
)

// compressionExtensions are stripped so the document can be
// re-compressed from clean buffers.
var compressionExtensions = []string{
	"KHR_draco_mesh_compression",
	"EXT_meshopt_compression",
}

// StripCompression removes mesh-compression extension usage from the
// document. Returns the number of extension references removed.
func StripCompression(doc *gltf.Document) int {
	stripped := 0

	doc.ExtensionsUsed, stripped = filterExtensions(doc.ExtensionsUsed, stripped)
	doc.ExtensionsRequired, stripped = filterExtensions(doc.ExtensionsRequired, stripped)

	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			for _, ext := range compressionExtensions {
				if _, ok := prim.Extensions[ext]; ok {
					delete(prim.Extensions, ext)
					stripped++
				}
			}
		}
	}
	for _, bv := range doc.BufferViews {
		for _, ext := range compressionExtensions {
			if _, ok := bv.Extensions[ext]; ok {
				delete(bv.Extensions, ext)
				stripped++
			}
		}
	}

	if stripped > 0 {
		logger.Debug("stripped compression extensions", zap.Int("removed", stripped))
	}
	return stripped
}

func filterExtensions(names []string, stripped int) ([]string, int) {
	out := names[:0]
	for _, name := range names {
		drop := false
		for _, ext := range compressionExtensions {
			if name == ext {
				drop = true
				break
			}
		}
		if drop {
			stripped++
			continue
		}
		out = append(out, name)
	}
	return out, stripped
}

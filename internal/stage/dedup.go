package stage

import (
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/logger"
)

// accessorKey captures the identity of an accessor's backing data.
// Two accessors with equal keys decode to identical arrays.
type accessorKey struct {
	bufferView    uint32
	byteOffset    uint32
	componentType gltf.ComponentType
	count         uint32
	accType       gltf.AccessorType
	normalized    bool
}

// DedupAccessors collapses accessors that describe the exact same slice
// of the exact same buffer view, remapping all references onto the
// first occurrence. Orphans are left for Prune. Returns the number of
// references redirected.
func DedupAccessors(doc *gltf.Document) int {
	seen := make(map[accessorKey]int, len(doc.Accessors))
	remap := make([]int, len(doc.Accessors))
	duplicates := 0

	for i, acc := range doc.Accessors {
		remap[i] = i
		if acc.BufferView == nil || acc.Sparse != nil {
			continue
		}
		key := accessorKey{
			bufferView:    *acc.BufferView,
			byteOffset:    acc.ByteOffset,
			componentType: acc.ComponentType,
			count:         acc.Count,
			accType:       acc.Type,
			normalized:    acc.Normalized,
		}
		if first, ok := seen[key]; ok {
			remap[i] = first
			duplicates++
			continue
		}
		seen[key] = i
	}

	if duplicates == 0 {
		return 0
	}
	remapAccessorRefs(doc, remap)

	logger.Debug("deduplicated accessors", zap.Int("duplicates", duplicates))
	return duplicates
}

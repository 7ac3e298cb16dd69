package stage

import "github.com/qmuntal/gltf"

// remapAccessorRefs rewrites every accessor reference in the document
// through remap. Entries of -1 mean "dropped"; by construction callers
// never drop a referenced accessor.
func remapAccessorRefs(doc *gltf.Document, remap []int) {
	mapIdx := func(p *uint32) *uint32 {
		if p == nil || int(*p) >= len(remap) || remap[*p] < 0 {
			return p
		}
		return gltf.Index(uint32(remap[*p]))
	}

	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			for name, idx := range prim.Attributes {
				if int(idx) < len(remap) && remap[idx] >= 0 {
					prim.Attributes[name] = uint32(remap[idx])
				}
			}
			prim.Indices = mapIdx(prim.Indices)
			for _, target := range prim.Targets {
				for name, idx := range target {
					if int(idx) < len(remap) && remap[idx] >= 0 {
						target[name] = uint32(remap[idx])
					}
				}
			}
		}
	}

	for _, skin := range doc.Skins {
		skin.InverseBindMatrices = mapIdx(skin.InverseBindMatrices)
	}

	for _, anim := range doc.Animations {
		for _, sampler := range anim.Samplers {
			if int(sampler.Input) < len(remap) && remap[sampler.Input] >= 0 {
				sampler.Input = uint32(remap[sampler.Input])
			}
			if int(sampler.Output) < len(remap) && remap[sampler.Output] >= 0 {
				sampler.Output = uint32(remap[sampler.Output])
			}
		}
	}
}

// collectAccessorRefs marks every accessor index the document graph
// still references.
func collectAccessorRefs(doc *gltf.Document) []bool {
	used := make([]bool, len(doc.Accessors))
	mark := func(p *uint32) {
		if p != nil && int(*p) < len(used) {
			used[*p] = true
		}
	}

	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			for _, idx := range prim.Attributes {
				if int(idx) < len(used) {
					used[idx] = true
				}
			}
			mark(prim.Indices)
			for _, target := range prim.Targets {
				for _, idx := range target {
					if int(idx) < len(used) {
						used[idx] = true
					}
				}
			}
		}
	}
	for _, skin := range doc.Skins {
		mark(skin.InverseBindMatrices)
	}
	for _, anim := range doc.Animations {
		for _, sampler := range anim.Samplers {
			if int(sampler.Input) < len(used) {
				used[sampler.Input] = true
			}
			if int(sampler.Output) < len(used) {
				used[sampler.Output] = true
			}
		}
	}
	return used
}

// remapBufferViewRefs rewrites every buffer-view reference through remap.
func remapBufferViewRefs(doc *gltf.Document, remap []int) {
	mapIdx := func(p *uint32) *uint32 {
		if p == nil || int(*p) >= len(remap) || remap[*p] < 0 {
			return p
		}
		return gltf.Index(uint32(remap[*p]))
	}

	for _, acc := range doc.Accessors {
		acc.BufferView = mapIdx(acc.BufferView)
		if acc.Sparse != nil {
			if idx := acc.Sparse.Indices.BufferView; int(idx) < len(remap) && remap[idx] >= 0 {
				acc.Sparse.Indices.BufferView = uint32(remap[idx])
			}
			if idx := acc.Sparse.Values.BufferView; int(idx) < len(remap) && remap[idx] >= 0 {
				acc.Sparse.Values.BufferView = uint32(remap[idx])
			}
		}
	}
	for _, img := range doc.Images {
		img.BufferView = mapIdx(img.BufferView)
	}
}

// collectBufferViewRefs marks every buffer view the document still
// references.
func collectBufferViewRefs(doc *gltf.Document) []bool {
	used := make([]bool, len(doc.BufferViews))
	mark := func(p *uint32) {
		if p != nil && int(*p) < len(used) {
			used[*p] = true
		}
	}

	for _, acc := range doc.Accessors {
		mark(acc.BufferView)
		if acc.Sparse != nil {
			if idx := acc.Sparse.Indices.BufferView; int(idx) < len(used) {
				used[idx] = true
			}
			if idx := acc.Sparse.Values.BufferView; int(idx) < len(used) {
				used[idx] = true
			}
		}
	}
	for _, img := range doc.Images {
		mark(img.BufferView)
	}
	return used
}

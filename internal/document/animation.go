package document

import (
	"fmt"

	"github.com/qmuntal/gltf"
)

// PathName returns the wire name of an animation target path.
func PathName(path gltf.TRSProperty) string {
	switch path {
	case gltf.TRSTranslation:
		return "translation"
	case gltf.TRSRotation:
		return "rotation"
	case gltf.TRSScale:
		return "scale"
	case gltf.TRSWeights:
		return "weights"
	}
	return "unknown"
}

// SamplerFor resolves a channel's sampler within its owning animation.
func SamplerFor(anim *gltf.Animation, ch *gltf.Channel) (*gltf.AnimationSampler, error) {
	if ch.Sampler == nil {
		return nil, fmt.Errorf("channel has no sampler")
	}
	idx := int(*ch.Sampler)
	if idx >= len(anim.Samplers) {
		return nil, fmt.Errorf("channel references missing sampler %d", idx)
	}
	return anim.Samplers[idx], nil
}

// SamplerKeyframes returns the keyframe count of a sampler, taken from
// its input (time) accessor.
func SamplerKeyframes(doc *gltf.Document, s *gltf.AnimationSampler) (int, error) {
	idx := int(s.Input)
	if idx >= len(doc.Accessors) {
		return 0, fmt.Errorf("sampler references missing input accessor %d", idx)
	}
	return int(doc.Accessors[idx].Count), nil
}

// ReadSamplerOutput decodes a sampler's output (value) accessor into a
// flat float32 slice. Rotation outputs flatten to 4 components per
// keyframe, translation/scale to 3, morph weights to one float per
// target per keyframe.
func ReadSamplerOutput(doc *gltf.Document, s *gltf.AnimationSampler) ([]float32, error) {
	idx := int(s.Output)
	if idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("sampler references missing output accessor %d", idx)
	}
	data, err := readFloatAccessor(doc, doc.Accessors[idx])
	if err != nil {
		return nil, fmt.Errorf("reading sampler output: %w", err)
	}
	return data, nil
}

// ReadSamplerInput decodes a sampler's input (time) accessor.
func ReadSamplerInput(doc *gltf.Document, s *gltf.AnimationSampler) ([]float32, error) {
	idx := int(s.Input)
	if idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("sampler references missing input accessor %d", idx)
	}
	times, err := readFloatAccessor(doc, doc.Accessors[idx])
	if err != nil {
		return nil, fmt.Errorf("reading sampler input: %w", err)
	}
	return times, nil
}

// RestPose returns a node's rest-pose value for the given target path as
// a flat vector of the requested width. The second return is false when
// no rest value of that width exists (e.g. mismatched morph-target
// counts), which callers must treat as "does not match".
func RestPose(doc *gltf.Document, nodeIdx int, path gltf.TRSProperty, width int) ([]float32, bool) {
	if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) || doc.Nodes[nodeIdx] == nil {
		return nil, false
	}
	node := doc.Nodes[nodeIdx]

	switch path {
	case gltf.TRSTranslation:
		if width != 3 {
			return nil, false
		}
		return append([]float32(nil), node.Translation[:]...), true

	case gltf.TRSRotation:
		if width != 4 {
			return nil, false
		}
		rot := node.Rotation
		// Hand-built nodes may leave the quaternion zeroed; glTF's
		// default is the identity rotation.
		if rot == ([4]float32{}) {
			rot = [4]float32{0, 0, 0, 1}
		}
		return append([]float32(nil), rot[:]...), true

	case gltf.TRSScale:
		if width != 3 {
			return nil, false
		}
		scale := node.Scale
		if scale == ([3]float32{}) {
			scale = [3]float32{1, 1, 1}
		}
		return append([]float32(nil), scale[:]...), true

	case gltf.TRSWeights:
		weights := node.Weights
		if len(weights) == 0 && node.Mesh != nil && int(*node.Mesh) < len(doc.Meshes) {
			weights = doc.Meshes[*node.Mesh].Weights
		}
		if len(weights) == 0 {
			// No default declared anywhere: morph influence rests at zero.
			return make([]float32, width), true
		}
		if len(weights) != width {
			return nil, false
		}
		return append([]float32(nil), weights...), true
	}
	return nil, false
}

// RemoveChannels deletes the flagged channels from an animation and
// disposes every sampler left without a referencing channel, compacting
// and remapping the sampler slice. Returns the number of samplers
// disposed.
func RemoveChannels(anim *gltf.Animation, remove map[int]bool) int {
	if len(remove) == 0 {
		return 0
	}

	survivors := make([]*gltf.Channel, 0, len(anim.Channels))
	refs := make([]int, len(anim.Samplers))
	for i, ch := range anim.Channels {
		if remove[i] {
			continue
		}
		survivors = append(survivors, ch)
		if ch.Sampler != nil && int(*ch.Sampler) < len(refs) {
			refs[*ch.Sampler]++
		}
	}

	remap := make([]int, len(anim.Samplers))
	kept := make([]*gltf.AnimationSampler, 0, len(anim.Samplers))
	for i, s := range anim.Samplers {
		if refs[i] == 0 {
			remap[i] = -1
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, s)
	}

	for _, ch := range survivors {
		if ch.Sampler != nil && int(*ch.Sampler) < len(remap) {
			ch.Sampler = gltf.Index(uint32(remap[*ch.Sampler]))
		}
	}

	disposed := len(anim.Samplers) - len(kept)
	anim.Channels = survivors
	anim.Samplers = kept
	return disposed
}

package transform

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/document"
	"github.com/Faultbox/meshforge/internal/logger"
)

// DefaultStaticTolerance is the absolute per-component tolerance for the
// static track tests.
const DefaultStaticTolerance = 1e-6

// StaticTrackStats reports the effect of a RemoveStaticTracks pass.
type StaticTrackStats struct {
	ChannelsAnalyzed int
	ChannelsRemoved  int
	SamplersRemoved  int
	// RetainedStatic counts channels that are individually static but
	// survived because their (node, path) key lacked consensus.
	RetainedStatic int
}

// trackKey identifies an animated property across all animations.
type trackKey struct {
	node int
	path gltf.TRSProperty
}

// channelState is the cached pass-1 result for one channel.
type channelState struct {
	anim       int
	channel    int
	analyzable bool
	static     bool
	width      int
	value      []float32 // constant value when static
}

// RemoveStaticTracks deletes animation channels that are static by
// global consensus: for a (node, path) key, every channel across every
// animation must be static, all constant values must agree, and the
// agreed value must equal the node's rest pose, all within tol. A
// channel that is static in only some animations is retained, because
// deleting it would let other clips blend against an undefined value at
// runtime. Samplers are disposed only once no channel references them.
func RemoveStaticTracks(doc *gltf.Document, tol float32) (*StaticTrackStats, error) {
	if tol <= 0 {
		tol = DefaultStaticTolerance
	}

	stats := &StaticTrackStats{}

	// Pass 1: per-channel static test, cached for both the consensus
	// decision and the diagnostics.
	byKey := make(map[trackKey][]*channelState)
	for ai, anim := range doc.Animations {
		for ci, ch := range anim.Channels {
			if ch.Target.Node == nil {
				continue
			}
			state, err := analyzeChannel(doc, anim, ch, tol)
			if err != nil {
				return nil, fmt.Errorf("animation %d channel %d: %w", ai, ci, err)
			}
			state.anim, state.channel = ai, ci
			stats.ChannelsAnalyzed++
			key := trackKey{node: int(*ch.Target.Node), path: ch.Target.Path}
			byKey[key] = append(byKey[key], state)
		}
	}

	// Pass 2: cross-animation consensus.
	removable := make(map[trackKey]bool, len(byKey))
	for key, states := range byKey {
		if keyRemovable(doc, key, states, tol) {
			removable[key] = true
			continue
		}
		for _, st := range states {
			if st.analyzable && st.static {
				stats.RetainedStatic++
			}
		}
	}

	// Pass 3: deletion.
	for _, anim := range doc.Animations {
		remove := make(map[int]bool)
		for ci, ch := range anim.Channels {
			if ch.Target.Node == nil {
				continue
			}
			if removable[trackKey{node: int(*ch.Target.Node), path: ch.Target.Path}] {
				remove[ci] = true
			}
		}
		stats.ChannelsRemoved += len(remove)
		stats.SamplersRemoved += document.RemoveChannels(anim, remove)
	}

	logger.Debug("static track removal",
		zap.Float32("tolerance", tol),
		zap.Int("channelsAnalyzed", stats.ChannelsAnalyzed),
		zap.Int("channelsRemoved", stats.ChannelsRemoved),
		zap.Int("samplersRemoved", stats.SamplersRemoved),
		zap.Int("retainedStatic", stats.RetainedStatic))
	return stats, nil
}

// keyRemovable applies the consensus policy to one (node, path) key.
// A key with zero channels is vacuously non-removable.
func keyRemovable(doc *gltf.Document, key trackKey, states []*channelState, tol float32) bool {
	if len(states) == 0 {
		return false
	}
	first := states[0]
	for _, st := range states {
		if !st.analyzable || !st.static {
			return false
		}
		if st.width != first.width || !vecEqual(st.value, first.value, tol) {
			return false
		}
	}
	rest, ok := document.RestPose(doc, key.node, key.path, first.width)
	if !ok {
		return false
	}
	return vecEqual(first.value, rest, tol)
}

// analyzeChannel runs the per-channel static test. Channels whose
// keyframe data cannot be decoded into floats (exotic quantized outputs)
// are marked unanalyzable and thereby retained; a length mismatch
// between input and output is a defect and aborts.
func analyzeChannel(doc *gltf.Document, anim *gltf.Animation, ch *gltf.Channel, tol float32) (*channelState, error) {
	state := &channelState{}

	sampler, err := document.SamplerFor(anim, ch)
	if err != nil {
		return nil, err
	}
	keyframes, err := document.SamplerKeyframes(doc, sampler)
	if err != nil {
		return nil, err
	}
	if keyframes == 0 {
		return state, nil
	}
	out, err := document.ReadSamplerOutput(doc, sampler)
	if err != nil {
		logger.Warn("channel output not analyzable, retaining", zap.Error(err))
		return state, nil
	}
	if len(out)%keyframes != 0 {
		return nil, fmt.Errorf("output length %d not a multiple of keyframe count %d", len(out), keyframes)
	}

	state.width = len(out) / keyframes
	state.analyzable = true
	state.static = true
	firstValue := out[:state.width]
	for k := 1; k < keyframes; k++ {
		if !vecEqual(out[k*state.width:(k+1)*state.width], firstValue, tol) {
			state.static = false
			break
		}
	}
	if state.static {
		state.value = firstValue
	}
	return state, nil
}

// vecEqual compares two vectors component-wise within an absolute
// tolerance.
func vecEqual(a, b []float32, tol float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math32.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// Package doctest builds small synthetic scene documents for tests.
package doctest

import (
	"encoding/binary"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// New returns an empty document ready for fixtures.
func New() *gltf.Document {
	return &gltf.Document{Asset: gltf.Asset{Version: "2.0"}}
}

// AddMesh appends a one-primitive triangle mesh and a node instantiating
// it. Returns the mesh and node indices.
func AddMesh(doc *gltf.Document, positions [][3]float32, indices []uint32) (meshIdx, nodeIdx int) {
	prim := &gltf.Primitive{
		Attributes: gltf.Attribute{
			gltf.POSITION: modeler.WritePosition(doc, positions),
		},
		Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Primitives: []*gltf.Primitive{prim}})
	meshIdx = len(doc.Meshes) - 1

	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(uint32(meshIdx))})
	nodeIdx = len(doc.Nodes) - 1
	return meshIdx, nodeIdx
}

// Prim returns the first primitive of a mesh.
func Prim(doc *gltf.Document, meshIdx int) *gltf.Primitive {
	return doc.Meshes[meshIdx].Primitives[0]
}

// AddNormals attaches a NORMAL attribute to the mesh's first primitive.
func AddNormals(doc *gltf.Document, meshIdx int, normals [][3]float32) {
	Prim(doc, meshIdx).Attributes[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
}

// AddUVs attaches a TEXCOORD_0 attribute to the mesh's first primitive.
func AddUVs(doc *gltf.Document, meshIdx int, uvs [][2]float32) {
	Prim(doc, meshIdx).Attributes[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
}

// AddSkin attaches WEIGHTS_0/JOINTS_0 to the mesh's first primitive and
// binds a one-joint skin to the node.
func AddSkin(doc *gltf.Document, meshIdx, nodeIdx int, weights [][4]float32, joints [][4]uint16) {
	prim := Prim(doc, meshIdx)
	prim.Attributes[gltf.WEIGHTS_0] = modeler.WriteWeights(doc, weights)
	prim.Attributes[gltf.JOINTS_0] = modeler.WriteJoints(doc, joints)

	doc.Skins = append(doc.Skins, &gltf.Skin{Joints: []uint32{uint32(nodeIdx)}})
	doc.Nodes[nodeIdx].Skin = gltf.Index(uint32(len(doc.Skins) - 1))
}

// AddAnimation appends an empty animation and returns its index.
func AddAnimation(doc *gltf.Document, name string) int {
	doc.Animations = append(doc.Animations, &gltf.Animation{Name: name})
	return len(doc.Animations) - 1
}

// AddChannel appends a sampler (times + flat values of the given width)
// and a channel targeting the node/path. Returns the channel index.
func AddChannel(doc *gltf.Document, animIdx, nodeIdx int, path gltf.TRSProperty, times []float32, values []float32, width int) int {
	anim := doc.Animations[animIdx]
	sampler := &gltf.AnimationSampler{
		Input:  WriteFloats(doc, times, 1),
		Output: WriteFloats(doc, values, width),
	}
	anim.Samplers = append(anim.Samplers, sampler)

	anim.Channels = append(anim.Channels, &gltf.Channel{
		Sampler: gltf.Index(uint32(len(anim.Samplers) - 1)),
		Target:  gltf.ChannelTarget{Node: gltf.Index(uint32(nodeIdx)), Path: path},
	})
	return len(anim.Channels) - 1
}

// AddSharedChannel appends a channel reusing an existing sampler of the
// animation, for sampler refcount tests.
func AddSharedChannel(doc *gltf.Document, animIdx, nodeIdx, samplerIdx int, path gltf.TRSProperty) int {
	anim := doc.Animations[animIdx]
	anim.Channels = append(anim.Channels, &gltf.Channel{
		Sampler: gltf.Index(uint32(samplerIdx)),
		Target:  gltf.ChannelTarget{Node: gltf.Index(uint32(nodeIdx)), Path: path},
	})
	return len(anim.Channels) - 1
}

// Repeat tiles the vector n times into a flat keyframe value slice.
func Repeat(v []float32, n int) []float32 {
	out := make([]float32, 0, len(v)*n)
	for i := 0; i < n; i++ {
		out = append(out, v...)
	}
	return out
}

// WriteFloats appends a float accessor of the given component width
// (1 = scalar, 2..4 = vec) and returns its index.
func WriteFloats(doc *gltf.Document, data []float32, width int) uint32 {
	if len(doc.Buffers) == 0 {
		doc.Buffers = append(doc.Buffers, new(gltf.Buffer))
	}
	buf := doc.Buffers[0]

	// float32 alignment
	if pad := (4 - len(buf.Data)%4) % 4; pad > 0 {
		buf.Data = append(buf.Data, make([]byte, pad)...)
	}
	offset := len(buf.Data)
	for _, f := range data {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
		buf.Data = append(buf.Data, b[:]...)
	}
	buf.ByteLength = uint32(len(buf.Data))

	doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: uint32(offset),
		ByteLength: uint32(len(data) * 4),
	})

	var accType gltf.AccessorType
	switch width {
	case 1:
		accType = gltf.AccessorScalar
	case 2:
		accType = gltf.AccessorVec2
	case 3:
		accType = gltf.AccessorVec3
	default:
		accType = gltf.AccessorVec4
	}
	doc.Accessors = append(doc.Accessors, &gltf.Accessor{
		BufferView:    gltf.Index(uint32(len(doc.BufferViews) - 1)),
		ComponentType: gltf.ComponentFloat,
		Count:         uint32(len(data) / width),
		Type:          accType,
	})
	return uint32(len(doc.Accessors) - 1)
}

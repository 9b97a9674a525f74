package model

import (
	"math"
	"sync"

	"github.com/NatC02/glb-freeze/common"
)

// engineModel is the implementation of the Model interface.
type engineModel struct {
	mu   sync.RWMutex
	name string

	nodes       []Node
	rootIndices []int32
	meshes      []Mesh
	animations  []*AnimationClip

	boundsCenter [3]float32
	boundsRadius float32
}

// Model is a loaded 3D asset: a node hierarchy with stable indices, the
// geometry attached to those nodes, and the animation clips bundled with the
// file. Node local transforms are the single piece of mutable state; they are
// written by animation playback while playing and by pose enforcement while
// frozen.
type Model interface {
	// Name returns the model identifier.
	Name() string

	// NodeCount returns the number of nodes in the hierarchy.
	NodeCount() int

	// NodeLocal returns the current local transform of the node at index.
	// Returns an identity transform if index is out of range.
	//
	// Parameters:
	//   - index: the stable node index
	//
	// Returns:
	//   - Transform: the node's local transform
	NodeLocal(index int) Transform

	// SetNodeLocal overwrites the local transform of the node at index.
	// No-op if index is out of range.
	//
	// Parameters:
	//   - index: the stable node index
	//   - t: the new local transform
	SetNodeLocal(index int, t Transform)

	// ResetPose restores every node's local transform to its rest transform
	// as authored in the source file.
	ResetPose()

	// Meshes returns the model's geometry. The slice is shared; treat it as
	// read-only.
	//
	// Returns:
	//   - []Mesh: the meshes referenced by nodes
	Meshes() []Mesh

	// NodeMeshIndex returns the mesh index attached to the node at index, or
	// -1 if the node carries no geometry or index is out of range.
	//
	// Parameters:
	//   - index: the stable node index
	//
	// Returns:
	//   - int32: the mesh index or -1
	NodeMeshIndex(index int) int32

	// Animations returns the model's animation clips in file order.
	//
	// Returns:
	//   - []*AnimationClip: the clips (may be empty)
	Animations() []*AnimationClip

	// AnimationCount returns the number of animation clips.
	//
	// Returns:
	//   - int: the clip count
	AnimationCount() int

	// AnimationNames returns the clip names in file order.
	//
	// Returns:
	//   - []string: the clip names
	AnimationNames() []string

	// WorldMatrices computes the world matrix of every node into dst, 16
	// floats per node in node-index order. Exploits the load-time invariant
	// that parents precede their children.
	//
	// Parameters:
	//   - dst: destination slice (must be at least 16 * NodeCount elements)
	WorldMatrices(dst []float32)

	// BoundingSphere returns the model-space bounding sphere of the rest
	// pose, used for click hit-testing and camera framing.
	//
	// Returns:
	//   - center: the sphere center in model space
	//   - radius: the sphere radius
	BoundingSphere() (center [3]float32, radius float32)
}

var _ Model = &engineModel{}

// NewModel creates a Model from the provided options and precomputes the rest
// pose bounding sphere.
//
// Parameters:
//   - options: functional options for model configuration
//
// Returns:
//   - Model: the newly created model
func NewModel(options ...ModelBuilderOption) Model {
	m := &engineModel{}
	for _, opt := range options {
		opt(m)
	}
	m.computeRestBounds()
	return m
}

func (m *engineModel) Name() string {
	return m.name
}

func (m *engineModel) NodeCount() int {
	return len(m.nodes)
}

func (m *engineModel) NodeLocal(index int) Transform {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index < 0 || index >= len(m.nodes) {
		return IdentityTransform()
	}
	return m.nodes[index].LocalTransform
}

func (m *engineModel) SetNodeLocal(index int, t Transform) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.nodes) {
		return
	}
	m.nodes[index].LocalTransform = t
}

func (m *engineModel) ResetPose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.nodes {
		m.nodes[i].LocalTransform = m.nodes[i].RestTransform
	}
}

func (m *engineModel) Meshes() []Mesh {
	return m.meshes
}

func (m *engineModel) NodeMeshIndex(index int) int32 {
	if index < 0 || index >= len(m.nodes) {
		return -1
	}
	return m.nodes[index].MeshIndex
}

func (m *engineModel) Animations() []*AnimationClip {
	return m.animations
}

func (m *engineModel) AnimationCount() int {
	return len(m.animations)
}

func (m *engineModel) AnimationNames() []string {
	names := make([]string, len(m.animations))
	for i, clip := range m.animations {
		names[i] = clip.Name
	}
	return names
}

func (m *engineModel) WorldMatrices(dst []float32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.worldMatricesLocked(dst)
}

// worldMatricesLocked computes world matrices without taking the lock. Caller
// must hold at least a read lock.
func (m *engineModel) worldMatricesLocked(dst []float32) {
	var local [16]float32
	for i := range m.nodes {
		n := &m.nodes[i]
		common.ComposeTRS(local[:], n.LocalTransform.Translation, n.LocalTransform.Rotation, n.LocalTransform.Scale)

		out := dst[i*16 : (i+1)*16]
		if n.ParentIndex >= 0 {
			parent := dst[n.ParentIndex*16 : (n.ParentIndex+1)*16]
			common.Mul4(out, parent, local[:])
		} else {
			copy(out, local[:])
		}
	}
}

func (m *engineModel) BoundingSphere() (center [3]float32, radius float32) {
	return m.boundsCenter, m.boundsRadius
}

// computeRestBounds derives the model-space bounding sphere by transforming
// every mesh's AABB corners through the rest pose world matrices.
func (m *engineModel) computeRestBounds() {
	if len(m.nodes) == 0 || len(m.meshes) == 0 {
		m.boundsRadius = 1
		return
	}

	world := make([]float32, len(m.nodes)*16)
	m.worldMatricesLocked(world)

	minB := [3]float32{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))}
	maxB := [3]float32{float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))}
	seen := false

	for i := range m.nodes {
		meshIdx := m.nodes[i].MeshIndex
		if meshIdx < 0 || int(meshIdx) >= len(m.meshes) {
			continue
		}
		mesh := &m.meshes[meshIdx]
		mat := world[i*16 : (i+1)*16]

		for c := 0; c < 8; c++ {
			corner := [3]float32{mesh.BoundingMin[0], mesh.BoundingMin[1], mesh.BoundingMin[2]}
			if c&1 != 0 {
				corner[0] = mesh.BoundingMax[0]
			}
			if c&2 != 0 {
				corner[1] = mesh.BoundingMax[1]
			}
			if c&4 != 0 {
				corner[2] = mesh.BoundingMax[2]
			}
			p := common.TransformPoint(mat, corner)
			for axis := 0; axis < 3; axis++ {
				if p[axis] < minB[axis] {
					minB[axis] = p[axis]
				}
				if p[axis] > maxB[axis] {
					maxB[axis] = p[axis]
				}
			}
			seen = true
		}
	}

	if !seen {
		m.boundsRadius = 1
		return
	}

	for axis := 0; axis < 3; axis++ {
		m.boundsCenter[axis] = (minB[axis] + maxB[axis]) / 2
	}
	dx := float64(maxB[0]-minB[0]) / 2
	dy := float64(maxB[1]-minB[1]) / 2
	dz := float64(maxB[2]-minB[2]) / 2
	m.boundsRadius = float32(math.Sqrt(dx*dx + dy*dy + dz*dz))
	if m.boundsRadius == 0 {
		m.boundsRadius = 1
	}
}

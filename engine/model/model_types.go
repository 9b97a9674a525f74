package model

// --- Transform & Node Types ---

// Transform is a decomposed node transform used for animation sampling and
// pose snapshots.
type Transform struct {
	// Translation is the position offset relative to the parent node.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// IdentityTransform returns a Transform with zero translation, identity
// rotation, and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
}

// Node is a single entry in the model's transform hierarchy. Nodes are stored
// in a flat slice; the slice index is the node's stable identifier, assigned
// once at load time. Parents always precede their children in the slice.
type Node struct {
	// Name is the node's identifier from the source file (may be empty).
	Name string

	// ParentIndex is the index of the parent node, or -1 for roots.
	ParentIndex int32

	// MeshIndex references the model's mesh slice, or -1 if the node carries
	// no geometry.
	MeshIndex int32

	// RestTransform is the node's transform as authored in the source file.
	RestTransform Transform

	// LocalTransform is the node's current transform relative to its parent.
	// Overwritten by animation playback and by pose enforcement.
	LocalTransform Transform
}

// --- Animation Types ---

// AnimationClip is a named, fixed-duration keyframe animation targeting nodes
// of the hierarchy. Clips are immutable after loading.
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// Channels contains keyframe tracks for each animated node.
	Channels []AnimationChannel
}

// AnimationChannel contains the keyframe tracks for a single node.
type AnimationChannel struct {
	// NodeIndex is the stable index of the node this channel animates.
	NodeIndex int32

	// PositionKeys are keyframes for translation.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation (quaternion).
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale.
	ScaleKeys []VectorKeyframe
}

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the vector value at this keyframe.
	Value [3]float32
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the quaternion value at this keyframe (x, y, z, w).
	Value [4]float32
}

// --- Mesh Types ---

// Vertex is the GPU vertex layout: position followed by normal, 24 bytes.
type Vertex struct {
	// Position is the vertex position in node-local space.
	Position [3]float32

	// Normal is the vertex normal in node-local space.
	Normal [3]float32
}

// Mesh is the geometry attached to a node.
type Mesh struct {
	// Name is the mesh identifier from the source file (may be empty).
	Name string

	// Vertices are the mesh vertices.
	Vertices []Vertex

	// Indices are the triangle indices.
	Indices []uint32

	// BoundingMin is the minimum corner of the local axis-aligned bounds.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the local axis-aligned bounds.
	BoundingMax [3]float32
}

// --- Import Types ---

// ImportedModel is the CPU-side result of loading a model file, before it is
// wrapped in an engine-ready Model.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Nodes is the flattened transform hierarchy, parents before children.
	Nodes []Node

	// RootIndices are the indices of nodes with no parent.
	RootIndices []int32

	// Meshes contains the geometry referenced by nodes.
	Meshes []Mesh

	// Animations are the clips bundled with the model, in file order.
	Animations []*AnimationClip
}

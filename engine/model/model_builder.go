package model

// ModelBuilderOption is a functional option for configuring a Model during construction.
type ModelBuilderOption func(*engineModel)

// WithName is an option builder that sets the model identifier.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - ModelBuilderOption: a function that applies the name to a model
func WithName(name string) ModelBuilderOption {
	return func(m *engineModel) {
		m.name = name
	}
}

// WithNodes is an option builder that sets the node hierarchy. Nodes must be
// ordered parents-before-children; the slice index becomes the node's stable
// identifier.
//
// Parameters:
//   - nodes: the flattened hierarchy
//   - rootIndices: indices of nodes with no parent
//
// Returns:
//   - ModelBuilderOption: a function that applies the hierarchy to a model
func WithNodes(nodes []Node, rootIndices []int32) ModelBuilderOption {
	return func(m *engineModel) {
		m.nodes = nodes
		m.rootIndices = rootIndices
	}
}

// WithMeshes is an option builder that sets the model geometry.
//
// Parameters:
//   - meshes: the meshes referenced by node MeshIndex values
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes to a model
func WithMeshes(meshes []Mesh) ModelBuilderOption {
	return func(m *engineModel) {
		m.meshes = meshes
	}
}

// WithAnimations is an option builder that sets the animation clips.
//
// Parameters:
//   - animations: the clips in file order
//
// Returns:
//   - ModelBuilderOption: a function that applies the clips to a model
func WithAnimations(animations []*AnimationClip) ModelBuilderOption {
	return func(m *engineModel) {
		m.animations = animations
	}
}

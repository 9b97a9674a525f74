package model

import (
	"math"
	"testing"
)

func cubeMesh(half float32) Mesh {
	return Mesh{
		Name:        "cube",
		BoundingMin: [3]float32{-half, -half, -half},
		BoundingMax: [3]float32{half, half, half},
		Vertices:    []Vertex{{Position: [3]float32{-half, -half, -half}}, {Position: [3]float32{half, half, half}}},
		Indices:     []uint32{0, 1, 0},
	}
}

func twoNodeModel() Model {
	root := IdentityTransform()
	child := IdentityTransform()
	child.Translation = [3]float32{1, 2, 3}
	nodes := []Node{
		{Name: "root", ParentIndex: -1, MeshIndex: -1, RestTransform: root, LocalTransform: root},
		{Name: "child", ParentIndex: 0, MeshIndex: 0, RestTransform: child, LocalTransform: child},
	}
	return NewModel(
		WithName("pair"),
		WithNodes(nodes, []int32{0}),
		WithMeshes([]Mesh{cubeMesh(1)}),
	)
}

func TestWorldMatricesChainParentTransforms(t *testing.T) {
	m := twoNodeModel()

	rootLocal := m.NodeLocal(0)
	rootLocal.Translation = [3]float32{10, 0, 0}
	m.SetNodeLocal(0, rootLocal)

	world := make([]float32, m.NodeCount()*16)
	m.WorldMatrices(world)

	// Column-major: translation lives in elements 12..14.
	child := world[16:32]
	want := [3]float32{11, 2, 3}
	for axis := 0; axis < 3; axis++ {
		if child[12+axis] != want[axis] {
			t.Fatalf("child world translation axis %d: expected %v, got %v", axis, want[axis], child[12+axis])
		}
	}
}

func TestResetPoseRestoresRestTransforms(t *testing.T) {
	m := twoNodeModel()
	moved := m.NodeLocal(1)
	moved.Translation = [3]float32{50, 50, 50}
	m.SetNodeLocal(1, moved)

	m.ResetPose()

	if got := m.NodeLocal(1).Translation; got != [3]float32{1, 2, 3} {
		t.Fatalf("expected rest translation restored, got %v", got)
	}
}

func TestBoundingSphereCoversOffsetMesh(t *testing.T) {
	m := twoNodeModel()
	center, radius := m.BoundingSphere()

	// The unit cube sits at the child's rest offset (1,2,3).
	if center != [3]float32{1, 2, 3} {
		t.Fatalf("expected center at the mesh offset, got %v", center)
	}
	want := float32(math.Sqrt(3))
	if diff := float64(radius - want); math.Abs(diff) > 1e-5 {
		t.Fatalf("expected radius ~%v, got %v", want, radius)
	}
}

func TestBoundingSphereFallbackWithoutGeometry(t *testing.T) {
	m := NewModel(WithNodes([]Node{
		{Name: "root", ParentIndex: -1, MeshIndex: -1, RestTransform: IdentityTransform(), LocalTransform: IdentityTransform()},
	}, []int32{0}))

	_, radius := m.BoundingSphere()
	if radius != 1 {
		t.Fatalf("expected unit fallback radius, got %v", radius)
	}
}

func TestNodeAccessorsOutOfRangeAreSafe(t *testing.T) {
	m := twoNodeModel()

	if got := m.NodeLocal(99); got != IdentityTransform() {
		t.Fatalf("expected identity for out-of-range index, got %+v", got)
	}
	m.SetNodeLocal(-1, IdentityTransform())
	if got := m.NodeMeshIndex(99); got != -1 {
		t.Fatalf("expected -1 mesh index for out-of-range node, got %d", got)
	}
}

func TestAnimationNamesFollowFileOrder(t *testing.T) {
	m := NewModel(
		WithNodes([]Node{{Name: "root", ParentIndex: -1, MeshIndex: -1, RestTransform: IdentityTransform(), LocalTransform: IdentityTransform()}}, []int32{0}),
		WithAnimations([]*AnimationClip{{Name: "open"}, {Name: "close"}}),
	)
	names := m.AnimationNames()
	if len(names) != 2 || names[0] != "open" || names[1] != "close" {
		t.Fatalf("unexpected animation names %v", names)
	}
	if m.AnimationCount() != 2 {
		t.Fatalf("expected 2 clips, got %d", m.AnimationCount())
	}
}

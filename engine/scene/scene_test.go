package scene

import (
	"testing"

	"github.com/NatC02/glb-freeze/engine/animation"
	"github.com/NatC02/glb-freeze/engine/camera"
	"github.com/NatC02/glb-freeze/engine/frame"
	"github.com/NatC02/glb-freeze/engine/model"
	"github.com/NatC02/glb-freeze/engine/renderer"
)

// stubRenderer records calls so scene behavior can be asserted without a GPU.
type stubRenderer struct {
	created  []*model.Mesh
	begun    int
	draws    []stubDraw
	ended    int
	present  int
	resizedW int
	resizedH int
}

type stubDraw struct {
	mesh   renderer.MeshHandle
	matrix [16]float32
}

var _ renderer.Renderer = &stubRenderer{}

func (s *stubRenderer) CreateMesh(mesh *model.Mesh) (renderer.MeshHandle, error) {
	s.created = append(s.created, mesh)
	return renderer.MeshHandle(len(s.created) - 1), nil
}

func (s *stubRenderer) Resize(width, height int) {
	s.resizedW, s.resizedH = width, height
}

func (s *stubRenderer) BeginFrame(globals renderer.FrameGlobals) error {
	s.begun++
	return nil
}

func (s *stubRenderer) Draw(mesh renderer.MeshHandle, modelMatrix []float32) error {
	var m [16]float32
	copy(m[:], modelMatrix)
	s.draws = append(s.draws, stubDraw{mesh: mesh, matrix: m})
	return nil
}

func (s *stubRenderer) EndFrame() { s.ended++ }

func (s *stubRenderer) Present() { s.present++ }

func (s *stubRenderer) SetPresentMode(renderer.PresentMode) {}

func cubeMesh(name string) model.Mesh {
	return model.Mesh{
		Name: name,
		Vertices: []model.Vertex{
			{Position: [3]float32{-1, -1, -1}},
			{Position: [3]float32{1, 1, 1}},
		},
		Indices:     []uint32{0, 1, 0},
		BoundingMin: [3]float32{-1, -1, -1},
		BoundingMax: [3]float32{1, 1, 1},
	}
}

func animatedModel() model.Model {
	clip := &model.AnimationClip{
		Name:     "spin",
		Duration: 1.0,
		Channels: []model.AnimationChannel{
			{
				NodeIndex: 1,
				PositionKeys: []model.VectorKeyframe{
					{Time: 0, Value: [3]float32{0, 0, 0}},
					{Time: 1.0, Value: [3]float32{1, 0, 0}},
				},
			},
		},
	}
	nodes := []model.Node{
		{Name: "root", ParentIndex: -1, MeshIndex: 0, RestTransform: model.IdentityTransform(), LocalTransform: model.IdentityTransform()},
		{Name: "lid", ParentIndex: 0, MeshIndex: 1, RestTransform: model.IdentityTransform(), LocalTransform: model.IdentityTransform()},
	}
	return model.NewModel(
		model.WithName("box"),
		model.WithNodes(nodes, []int32{0}),
		model.WithMeshes([]model.Mesh{cubeMesh("base"), cubeMesh("top")}),
		model.WithAnimations([]*model.AnimationClip{clip}),
	)
}

func newTestScene(t *testing.T, mdl model.Model, r *stubRenderer) (Scene, *frame.Runner) {
	t.Helper()
	runner := frame.NewRunner()
	cam := camera.NewCamera()
	s := NewScene("test", mdl, cam, r, runner, WithFreezeTarget(0.5))
	return s, runner
}

func TestNewSceneUploadsMeshesAndFramesCamera(t *testing.T) {
	r := &stubRenderer{}
	mdl := animatedModel()
	s, _ := newTestScene(t, mdl, r)

	if len(r.created) != 2 {
		t.Fatalf("expected 2 mesh uploads, got %d", len(r.created))
	}

	center, radius := mdl.BoundingSphere()
	tx, ty, tz := s.Camera().Target()
	if [3]float32{tx, ty, tz} != center {
		t.Fatalf("expected camera target at model center %v, got (%v, %v, %v)", center, tx, ty, tz)
	}
	if s.Camera().Radius() <= radius {
		t.Fatalf("expected camera orbit radius beyond sphere radius %v, got %v", radius, s.Camera().Radius())
	}
}

func TestAdvanceTaskRegisteredBeforeController(t *testing.T) {
	r := &stubRenderer{}
	s, runner := newTestScene(t, animatedModel(), r)

	// One task for the player advance, nothing else until the controller arms.
	if got := runner.TaskCount(); got != 1 {
		t.Fatalf("expected 1 scheduled task after construction, got %d", got)
	}

	ctrl := s.Controller()
	if ctrl == nil {
		t.Fatal("expected a controller for an animated model")
	}
	ctrl.HandleClick()
	if got := runner.TaskCount(); got != 2 {
		t.Fatalf("expected advance + monitor tasks after click, got %d", got)
	}

	// The monitor runs after the advance within the same frame, so the freeze
	// fires on the frame the target is crossed, at the exact target time.
	for i := 0; i < 60 && ctrl.State() != animation.StateFrozen; i++ {
		runner.Run(1.0 / 60.0)
	}
	if ctrl.State() != animation.StateFrozen {
		t.Fatal("expected frozen state within one second of frames")
	}
}

func TestDrawIssuesOneDrawPerMeshNode(t *testing.T) {
	r := &stubRenderer{}
	s, _ := newTestScene(t, animatedModel(), r)

	if err := s.Draw(); err != nil {
		t.Fatalf("unexpected draw error: %v", err)
	}
	if r.begun != 1 || r.ended != 1 || r.present != 1 {
		t.Fatalf("expected one begin/end/present, got %d/%d/%d", r.begun, r.ended, r.present)
	}
	if len(r.draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(r.draws))
	}
	if r.draws[0].mesh != 0 || r.draws[1].mesh != 1 {
		t.Fatalf("expected draws for mesh handles 0 and 1, got %d and %d", r.draws[0].mesh, r.draws[1].mesh)
	}
}

func TestDrawUsesCurrentPose(t *testing.T) {
	r := &stubRenderer{}
	mdl := animatedModel()
	s, runner := newTestScene(t, mdl, r)

	s.Controller().HandleClick()
	for i := 0; i < 60 && s.Controller().State() != animation.StateFrozen; i++ {
		runner.Run(1.0 / 60.0)
	}

	if err := s.Draw(); err != nil {
		t.Fatalf("unexpected draw error: %v", err)
	}
	// Node 1's world translation lives in column 3 of its matrix.
	if got := r.draws[1].matrix[12]; got != 0.5 {
		t.Fatalf("expected frozen node translation x 0.5 in draw matrix, got %v", got)
	}
}

func TestResizeUpdatesRendererAndAspect(t *testing.T) {
	r := &stubRenderer{}
	s, _ := newTestScene(t, animatedModel(), r)

	s.Resize(800, 400)
	if r.resizedW != 800 || r.resizedH != 400 {
		t.Fatalf("expected renderer resized to 800x400, got %dx%d", r.resizedW, r.resizedH)
	}
	if got := s.Camera().Aspect(); got != 2.0 {
		t.Fatalf("expected aspect 2.0, got %v", got)
	}

	// Degenerate sizes (minimized window) are ignored.
	s.Resize(0, 0)
	if r.resizedW != 800 {
		t.Fatal("expected zero-size resize to be ignored")
	}
}

func TestStaticModelHasNoController(t *testing.T) {
	nodes := []model.Node{
		{Name: "root", ParentIndex: -1, MeshIndex: 0, RestTransform: model.IdentityTransform(), LocalTransform: model.IdentityTransform()},
	}
	mdl := model.NewModel(
		model.WithName("static"),
		model.WithNodes(nodes, []int32{0}),
		model.WithMeshes([]model.Mesh{cubeMesh("only")}),
	)
	r := &stubRenderer{}
	runner := frame.NewRunner()
	s := NewScene("static", mdl, camera.NewCamera(), r, runner)

	if s.Controller() != nil {
		t.Fatal("expected nil controller for a model without clips")
	}
	if got := runner.TaskCount(); got != 0 {
		t.Fatalf("expected no scheduled tasks for a static model, got %d", got)
	}
}

package input

import (
	"testing"

	"github.com/NatC02/glb-freeze/engine/animation"
	"github.com/NatC02/glb-freeze/engine/camera"
	"github.com/NatC02/glb-freeze/engine/frame"
	"github.com/NatC02/glb-freeze/engine/model"
	"github.com/NatC02/glb-freeze/engine/renderer"
	"github.com/NatC02/glb-freeze/engine/scene"
)

// nullRenderer satisfies renderer.Renderer without touching a GPU.
type nullRenderer struct{}

var _ renderer.Renderer = nullRenderer{}

func (nullRenderer) CreateMesh(*model.Mesh) (renderer.MeshHandle, error) { return 0, nil }
func (nullRenderer) Resize(int, int)                                     {}
func (nullRenderer) BeginFrame(renderer.FrameGlobals) error              { return nil }
func (nullRenderer) Draw(renderer.MeshHandle, []float32) error           { return nil }
func (nullRenderer) EndFrame()                                           {}
func (nullRenderer) Present()                                            {}
func (nullRenderer) SetPresentMode(renderer.PresentMode)                 {}

func testScene(t *testing.T, animated bool) scene.Scene {
	t.Helper()
	mesh := model.Mesh{
		Name: "cube",
		Vertices: []model.Vertex{
			{Position: [3]float32{-1, -1, -1}},
			{Position: [3]float32{1, 1, 1}},
		},
		Indices:     []uint32{0, 1, 0},
		BoundingMin: [3]float32{-1, -1, -1},
		BoundingMax: [3]float32{1, 1, 1},
	}
	nodes := []model.Node{
		{Name: "root", ParentIndex: -1, MeshIndex: 0, RestTransform: model.IdentityTransform(), LocalTransform: model.IdentityTransform()},
	}
	opts := []model.ModelBuilderOption{
		model.WithName("pickable"),
		model.WithNodes(nodes, []int32{0}),
		model.WithMeshes([]model.Mesh{mesh}),
	}
	if animated {
		clip := &model.AnimationClip{
			Name:     "wave",
			Duration: 1.0,
			Channels: []model.AnimationChannel{
				{
					NodeIndex: 0,
					PositionKeys: []model.VectorKeyframe{
						{Time: 0, Value: [3]float32{0, 0, 0}},
						{Time: 1.0, Value: [3]float32{1, 0, 0}},
					},
				},
			},
		}
		opts = append(opts, model.WithAnimations([]*model.AnimationClip{clip}))
	}
	mdl := model.NewModel(opts...)
	return scene.NewScene("pick", mdl, camera.NewCamera(camera.WithAspect(16.0/9.0)), nullRenderer{}, frame.NewRunner())
}

func TestClickOnModelStartsPlayback(t *testing.T) {
	scn := testScene(t, true)
	r := NewRouter(scn, 1280, 720)

	// The camera is framed on the model, so the screen center hits the sphere.
	r.Click(640, 360)

	if got := scn.Controller().State(); got != animation.StatePlaying {
		t.Fatalf("expected playing after center click, got %s", got)
	}
}

func TestClickOnEmptySpaceIsIgnored(t *testing.T) {
	scn := testScene(t, true)
	r := NewRouter(scn, 1280, 720)

	// The framed bounding sphere subtends well under the full field of view,
	// so the extreme corner ray misses it.
	r.Click(1, 1)

	if got := scn.Controller().State(); got != animation.StateIdle {
		t.Fatalf("expected idle after corner click, got %s", got)
	}
}

func TestClickOnStaticModelIsSafe(t *testing.T) {
	scn := testScene(t, false)
	if scn.Controller() != nil {
		t.Fatal("expected nil controller for the static model")
	}
	r := NewRouter(scn, 1280, 720)
	r.Click(640, 360) // must not panic
}

func TestMiddleDragOrbitsCamera(t *testing.T) {
	scn := testScene(t, true)
	r := NewRouter(scn, 1280, 720)
	cam := scn.Camera()

	beforeX, beforeY, beforeZ := cam.Position()

	// Movement without an active drag must not orbit.
	r.MouseMove(700, 400)
	x, y, z := cam.Position()
	if x != beforeX || y != beforeY || z != beforeZ {
		t.Fatal("expected no orbit without middle mouse held")
	}

	r.MiddleMouseDown(640, 360)
	r.MouseMove(700, 400)
	r.MiddleMouseUp(700, 400)

	x, y, z = cam.Position()
	if x == beforeX && y == beforeY && z == beforeZ {
		t.Fatal("expected camera position to change during drag")
	}

	// Drag has ended; further movement must not orbit.
	afterX, afterY, afterZ := cam.Position()
	r.MouseMove(100, 100)
	x, y, z = cam.Position()
	if x != afterX || y != afterY || z != afterZ {
		t.Fatal("expected no orbit after middle mouse released")
	}
}

func TestScrollZooms(t *testing.T) {
	scn := testScene(t, true)
	r := NewRouter(scn, 1280, 720)
	cam := scn.Camera()

	before := cam.Radius()
	r.Scroll(1)
	if cam.Radius() >= before {
		t.Fatalf("expected zoom in to shrink orbit radius, got %v >= %v", cam.Radius(), before)
	}
}

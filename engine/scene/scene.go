package scene

import (
	"fmt"
	"sync"

	"github.com/NatC02/glb-freeze/engine/animation"
	"github.com/NatC02/glb-freeze/engine/camera"
	"github.com/NatC02/glb-freeze/engine/frame"
	"github.com/NatC02/glb-freeze/engine/model"
	"github.com/NatC02/glb-freeze/engine/renderer"
)

// Scene hosts a single model together with the camera, renderer, and frame
// scheduler that drive it. On construction it uploads the model's meshes to
// the GPU, frames the camera on the model's bounding sphere, builds the
// animation player and controller, and registers the player's advance task
// with the frame scheduler. The advance task is registered before anything
// else so that monitor tasks scheduled later always observe post-advance
// playback time within the same frame.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Model returns the hosted model.
	Model() model.Model

	// Controller returns the playback controller for the hosted model's
	// animation, or nil if the model has no animation clips.
	Controller() animation.Controller

	// BoundingSphere returns the world-space bounding sphere enclosing the
	// hosted model in its rest pose, used for click picking.
	//
	// Returns:
	//   - center: the sphere center in world space
	//   - radius: the sphere radius
	BoundingSphere() (center [3]float32, radius float32)

	// Resize updates the render surface size and the camera aspect ratio.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(width, height int)

	// Draw renders one frame: computes the model's world matrices, begins the
	// render pass with the camera's current view-projection, issues one draw
	// per mesh-bearing node, and submits and presents the frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	Draw() error
}

type scene struct {
	mu *sync.RWMutex

	name string

	mdl    model.Model
	cam    camera.Camera
	r      renderer.Renderer
	sched  frame.Scheduler
	player animation.Player
	ctrl   animation.Controller

	// meshHandles maps the model's mesh index to its GPU mesh handle.
	meshHandles []renderer.MeshHandle

	// worldMatrices is reused each Draw to avoid per-frame allocations.
	worldMatrices []float32

	lightDirection [3]float32

	// Controller config collected from builder options, applied during construction.
	freezeTarget      *float32
	controllerOptions []animation.ControllerOption
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene hosting the given model. The camera, renderer,
// and frame scheduler are all required and NewScene panics if any of them is
// nil. Mesh GPU buffers are created immediately, the camera is framed on the
// model's bounding sphere, and the playback controller is armed with the
// configured freeze target.
//
// Parameters:
//   - name: the name of the scene
//   - mdl: the model to host (must not be nil)
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - sched: the per-frame task scheduler (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, mdl model.Model, cam camera.Camera, r renderer.Renderer, sched frame.Scheduler, options ...SceneBuilderOption) Scene {
	if mdl == nil {
		panic("scene: NewScene requires a non-nil Model")
	}
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}
	if sched == nil {
		panic("scene: NewScene requires a non-nil Scheduler")
	}

	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		mdl:            mdl,
		cam:            cam,
		r:              r,
		sched:          sched,
		worldMatrices:  make([]float32, mdl.NodeCount()*16),
		lightDirection: [3]float32{-0.45, -0.8, -0.4},
	}

	for _, option := range options {
		option(s)
	}

	// Upload mesh buffers. Handles are indexed by the model's mesh index so
	// Draw can resolve NodeMeshIndex directly.
	meshes := mdl.Meshes()
	s.meshHandles = make([]renderer.MeshHandle, len(meshes))
	for i := range meshes {
		handle, err := r.CreateMesh(&meshes[i])
		if err != nil {
			panic(fmt.Sprintf("scene: failed to upload mesh %q: %v", meshes[i].Name, err))
		}
		s.meshHandles[i] = handle
	}

	// Frame the camera so the whole model is in view.
	center, radius := mdl.BoundingSphere()
	cam.FrameSphere(center, radius)

	// The advance task must be the first task registered on the scheduler:
	// controller monitors scheduled afterwards then observe the playback time
	// of the current frame, not the previous one.
	s.player = animation.NewPlayer(mdl)
	if s.player != nil {
		sched.Schedule(s.player.Update)
		var ctrlOpts []animation.ControllerOption
		if s.freezeTarget != nil {
			ctrlOpts = append(ctrlOpts, animation.WithFreezeTarget(*s.freezeTarget))
		}
		ctrlOpts = append(ctrlOpts, s.controllerOptions...)
		s.ctrl = animation.NewController(mdl, s.player, sched, ctrlOpts...)
	}

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) Model() model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mdl
}

func (s *scene) Controller() animation.Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl
}

func (s *scene) BoundingSphere() (center [3]float32, radius float32) {
	return s.mdl.BoundingSphere()
}

func (s *scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.r.Resize(width, height)
	s.cam.SetAspect(float32(width) / float32(height))
}

func (s *scene) Draw() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.mdl.WorldMatrices(s.worldMatrices)

	px, py, pz := s.cam.Position()
	globals := renderer.FrameGlobals{
		ViewProjection: s.cam.ViewProjectionMatrix(),
		LightDirection: s.lightDirection,
		CameraPosition: [3]float32{px, py, pz},
	}

	if err := s.r.BeginFrame(globals); err != nil {
		return err
	}

	for i := 0; i < s.mdl.NodeCount(); i++ {
		meshIdx := s.mdl.NodeMeshIndex(i)
		if meshIdx < 0 || int(meshIdx) >= len(s.meshHandles) {
			continue
		}
		world := s.worldMatrices[i*16 : i*16+16]
		if err := s.r.Draw(s.meshHandles[meshIdx], world); err != nil {
			s.r.EndFrame()
			s.r.Present()
			return err
		}
	}

	s.r.EndFrame()
	s.r.Present()
	return nil
}

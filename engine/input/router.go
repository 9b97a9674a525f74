package input

import (
	"sync"

	"github.com/NatC02/glb-freeze/common"
	"github.com/NatC02/glb-freeze/engine/scene"
)

// Router translates raw window input events into scene actions: left clicks
// are picked against the model's bounding sphere and forwarded to the playback
// controller, middle-mouse drags orbit the camera, and the scroll wheel zooms.
// Thread-safe for concurrent access.
type Router interface {
	// Click handles a left mouse button press at the given framebuffer
	// position. If the pick ray hits the model's bounding sphere, the scene's
	// playback controller is invoked; clicks on empty space do nothing.
	//
	// Parameters:
	//   - x, y: cursor position in framebuffer pixels
	Click(x, y float64)

	// Scroll handles a mouse wheel event by zooming the camera.
	//
	// Parameters:
	//   - delta: scroll amount (positive = zoom in)
	Scroll(delta float32)

	// MiddleMouseDown begins an orbit drag at the given cursor position.
	//
	// Parameters:
	//   - x, y: cursor position in framebuffer pixels
	MiddleMouseDown(x, y float64)

	// MiddleMouseUp ends the current orbit drag.
	//
	// Parameters:
	//   - x, y: cursor position in framebuffer pixels
	MiddleMouseUp(x, y float64)

	// MouseMove orbits the camera while a middle-mouse drag is active.
	//
	// Parameters:
	//   - x, y: cursor position in framebuffer pixels
	MouseMove(x, y float64)

	// SetViewport updates the framebuffer dimensions used to build pick rays.
	// Must be called on window resize.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	SetViewport(width, height int)
}

// router is the implementation of the Router interface.
type router struct {
	mu sync.Mutex

	scn scene.Scene

	width  int
	height int

	dragging bool
	lastX    float64
	lastY    float64
}

var _ Router = &router{}

// NewRouter creates a Router for the given scene and initial viewport size.
//
// Parameters:
//   - scn: the scene whose camera and controller receive input (must not be nil)
//   - width, height: the initial framebuffer size in pixels
//
// Returns:
//   - Router: the configured router
func NewRouter(scn scene.Scene, width, height int) Router {
	if scn == nil {
		panic("input: NewRouter requires a non-nil Scene")
	}
	return &router{
		scn:    scn,
		width:  width,
		height: height,
	}
}

func (r *router) Click(x, y float64) {
	r.mu.Lock()
	width, height := r.width, r.height
	r.mu.Unlock()

	origin, dir, ok := r.scn.Camera().ScreenRay(x, y, width, height)
	if !ok {
		return
	}

	center, radius := r.scn.BoundingSphere()
	if !common.RayIntersectsSphere(origin, dir, center, radius) {
		return
	}

	// Static models have no controller; clicking them does nothing.
	if ctrl := r.scn.Controller(); ctrl != nil {
		ctrl.HandleClick()
	}
}

func (r *router) Scroll(delta float32) {
	r.scn.Camera().Zoom(delta)
}

func (r *router) MiddleMouseDown(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dragging = true
	r.lastX = x
	r.lastY = y
}

func (r *router) MiddleMouseUp(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dragging = false
}

func (r *router) MouseMove(x, y float64) {
	r.mu.Lock()
	if !r.dragging {
		r.mu.Unlock()
		return
	}
	dx := float32(x - r.lastX)
	dy := float32(y - r.lastY)
	r.lastX = x
	r.lastY = y
	r.mu.Unlock()

	r.scn.Camera().Orbit(dx, dy)
}

func (r *router) SetViewport(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width > 0 && height > 0 {
		r.width = width
		r.height = height
	}
}

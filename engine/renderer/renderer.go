package renderer

import (
	"sync"

	"github.com/NatC02/glb-freeze/engine/model"
	"github.com/NatC02/glb-freeze/engine/window"
)

// MeshHandle identifies a mesh whose GPU buffers are owned by the Renderer.
// Handles are returned by CreateMesh and passed back to Draw.
type MeshHandle int

// FrameGlobals holds the per-frame uniform data shared by every draw call:
// the combined view-projection matrix, the directional light, and the camera
// position for shading.
type FrameGlobals struct {
	// ViewProjection is the column-major combined view-projection matrix.
	ViewProjection [16]float32

	// LightDirection is the world-space direction the light travels in
	// (pointing away from the light source).
	LightDirection [3]float32

	// CameraPosition is the world-space camera position.
	CameraPosition [3]float32
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	maxDrawsPerFrame     int
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer owns the GPU mesh buffers and a single lit render pipeline, and batches all draw
// calls within a frame into one command submission. The Renderer also implements a backend which
// allows for multiple backend API implementations to exist.
type Renderer interface {
	// CreateMesh uploads a mesh's vertex and index data to GPU buffers and returns
	// a handle for use in Draw calls.
	//
	// Parameters:
	//   - mesh: the mesh whose vertices and indices should be uploaded
	//
	// Returns:
	//   - MeshHandle: the handle identifying the uploaded mesh
	//   - error: an error if buffer creation fails
	CreateMesh(mesh *model.Mesh) (MeshHandle, error)

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// BeginFrame acquires the swapchain texture, uploads the frame globals, and begins
	// the main render pass. Must be paired with EndFrame after all Draw invocations
	// within a single frame.
	//
	// Parameters:
	//   - globals: the per-frame uniform data shared by every draw call
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame(globals FrameGlobals) error

	// Draw encodes a single draw command for the given mesh within the current render pass.
	// Multiple Draw invocations can be made between BeginFrame and EndFrame. Draws beyond
	// the per-frame limit are dropped.
	//
	// Parameters:
	//   - mesh: the handle of the mesh to draw
	//   - modelMatrix: the column-major world matrix for this draw (16 floats)
	//
	// Returns:
	//   - error: an error if the handle is invalid
	Draw(mesh MeshHandle, modelMatrix []float32) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface — call Present() after EndFrame to display the frame.
	// Must be called after BeginFrame and all Draw invocations within a single frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type and window.
// The window provides the platform-specific surface descriptor and initial surface size.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window to create the rendering surface for
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:               &sync.Mutex{},
		backendType:      backendType,
		maxDrawsPerFrame: 256,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.maxDrawsPerFrame)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r
}

func (r *renderer) CreateMesh(mesh *model.Mesh) (MeshHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.CreateMesh(mesh)
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) BeginFrame(globals FrameGlobals) error {
	return r.backend.BeginFrame(globals)
}

func (r *renderer) Draw(mesh MeshHandle, modelMatrix []float32) error {
	return r.backend.Draw(mesh, modelMatrix)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

package camera

import (
	"math"
	"sync"

	"github.com/NatC02/glb-freeze/common"
)

// cameraImpl is the implementation of the Camera interface.
type cameraImpl struct {
	mu sync.Mutex

	// Orbit state: the camera sits on a sphere around the target.
	target    [3]float32
	radius    float32
	azimuth   float32 // horizontal angle around Y
	elevation float32 // vertical angle from the horizontal plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed float32
	zoomSpeed  float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	position                 [3]float32
	viewMatrix               [16]float32
	projectionMatrix         [16]float32
	viewProjectionMatrix     [16]float32
	inverseViewProjection    [16]float32
	inverseViewProjectionOK  bool
}

// Camera is a perspective orbit camera: it circles a target point on a
// sphere, produces column-major view/projection matrices, and converts screen
// coordinates into world-space picking rays.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Target returns the point the camera orbits and looks at.
	//
	// Returns:
	//   - x, y, z: target components
	Target() (x, y, z float32)

	// SetTarget moves the orbit target and recomputes matrices.
	//
	// Parameters:
	//   - x, y, z: the new target
	SetTarget(x, y, z float32)

	// Radius returns the orbit distance from the target.
	//
	// Returns:
	//   - float32: the orbit radius
	Radius() float32

	// SetRadius sets the orbit distance, clamped to the configured bounds.
	//
	// Parameters:
	//   - radius: the new orbit radius
	SetRadius(radius float32)

	// Orbit rotates the camera around the target. Elevation is clamped so the
	// camera never flips over the pole.
	//
	// Parameters:
	//   - deltaAzimuth: horizontal rotation in orbit-speed units
	//   - deltaElevation: vertical rotation in orbit-speed units
	Orbit(deltaAzimuth, deltaElevation float32)

	// Zoom moves the camera along the view ray toward or away from the
	// target, clamped to the radius bounds.
	//
	// Parameters:
	//   - delta: positive values zoom in
	Zoom(delta float32)

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: the field of view
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the aspect ratio and recomputes matrices. Called on
	// window resize.
	//
	// Parameters:
	//   - aspect: the new aspect ratio
	SetAspect(aspect float32)

	// ViewMatrix returns the current view matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current projection matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the combined view-projection matrix.
	//
	// Returns:
	//   - [16]float32: the view-projection matrix
	ViewProjectionMatrix() [16]float32

	// ScreenRay converts a cursor position into a world-space picking ray
	// through that pixel.
	//
	// Parameters:
	//   - x, y: cursor position in window coordinates
	//   - width, height: window dimensions in the same coordinate space
	//
	// Returns:
	//   - origin: the ray origin (the camera position)
	//   - dir: the normalized ray direction
	//   - ok: false if the ray could not be computed (degenerate matrices)
	ScreenRay(x, y float64, width, height int) (origin, dir [3]float32, ok bool)

	// FrameSphere retargets the orbit so the given bounding sphere fills the
	// view: the target moves to the sphere center and the radius backs off
	// far enough for the whole sphere to fit inside the field of view. The
	// near/far planes are rescaled to bracket the sphere.
	//
	// Parameters:
	//   - center: the sphere center in world space
	//   - radius: the sphere radius
	FrameSphere(center [3]float32, radius float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with default perspective and orbit settings.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		radius:       5.0,
		azimuth:      0,
		elevation:    float32(math.Pi / 8),
		minRadius:    0.1,
		maxRadius:    1000.0,
		minElevation: float32(-math.Pi/2 + 0.05),
		maxElevation: float32(math.Pi/2 - 0.05),
		orbitSpeed:   0.01,
		zoomSpeed:    0.5,
		fov:          45.0 * (math.Pi / 180.0),
		aspect:       1.0,
		near:         0.1,
		far:          100.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position[0], c.position[1], c.position[2]
}

func (c *cameraImpl) Target() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target[0], c.target[1], c.target[2]
}

func (c *cameraImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *cameraImpl) SetRadius(radius float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = clamp(radius, c.minRadius, c.maxRadius)
	c.updateMatrices()
}

func (c *cameraImpl) Orbit(deltaAzimuth, deltaElevation float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth += deltaAzimuth * c.orbitSpeed
	c.elevation = clamp(c.elevation+deltaElevation*c.orbitSpeed, c.minElevation, c.maxElevation)
	c.updateMatrices()
}

func (c *cameraImpl) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = clamp(c.radius-delta*c.zoomSpeed, c.minRadius, c.maxRadius)
	c.updateMatrices()
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect > 0 {
		c.aspect = aspect
	}
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) ScreenRay(x, y float64, width, height int) (origin, dir [3]float32, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if width <= 0 || height <= 0 || !c.inverseViewProjectionOK {
		return origin, dir, false
	}

	// Window coordinates → NDC; window y grows downward.
	ndcX := float32(2*x/float64(width) - 1)
	ndcY := float32(1 - 2*y/float64(height))

	// Unproject a point on the near plane and one on the far plane; the ray
	// runs from the camera through both.
	nearPt, ok1 := common.UnprojectPoint(c.inverseViewProjection[:], [3]float32{ndcX, ndcY, 0})
	farPt, ok2 := common.UnprojectPoint(c.inverseViewProjection[:], [3]float32{ndcX, ndcY, 1})
	if !ok1 || !ok2 {
		return origin, dir, false
	}

	d := [3]float32{farPt[0] - nearPt[0], farPt[1] - nearPt[1], farPt[2] - nearPt[2]}
	length := float32(math.Sqrt(float64(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])))
	if length == 0 {
		return origin, dir, false
	}
	dir = [3]float32{d[0] / length, d[1] / length, d[2] / length}
	return c.position, dir, true
}

func (c *cameraImpl) FrameSphere(center [3]float32, radius float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if radius <= 0 {
		radius = 1
	}
	c.target = center

	// Back off so the sphere fits the vertical field of view with some margin.
	distance := radius / float32(math.Sin(float64(c.fov)/2)) * 1.2
	c.maxRadius = distance * 10
	c.minRadius = radius * 0.05
	c.radius = clamp(distance, c.minRadius, c.maxRadius)

	c.near = c.radius * 0.01
	c.far = c.radius + c.maxRadius

	c.updateMatrices()
}

// updateMatrices recomputes the camera position from the orbit state and
// rebuilds the view, projection, and combined matrices. Caller must hold the
// mutex.
func (c *cameraImpl) updateMatrices() {
	cosElev := float32(math.Cos(float64(c.elevation)))
	sinElev := float32(math.Sin(float64(c.elevation)))
	cosAzim := float32(math.Cos(float64(c.azimuth)))
	sinAzim := float32(math.Sin(float64(c.azimuth)))

	c.position[0] = c.target[0] + c.radius*cosElev*sinAzim
	c.position[1] = c.target[1] + c.radius*sinElev
	c.position[2] = c.target[2] + c.radius*cosElev*cosAzim

	common.LookAt(c.viewMatrix[:],
		c.position[0], c.position[1], c.position[2],
		c.target[0], c.target[1], c.target[2],
		0, 1, 0,
	)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	c.inverseViewProjectionOK = common.Invert4(c.inverseViewProjection[:], c.viewProjectionMatrix[:])
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

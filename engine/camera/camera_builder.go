package camera

// CameraBuilderOption is a functional option for configuring a Camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithFov is an option builder that sets the vertical field of view.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that applies the field of view to a camera
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect is an option builder that sets the aspect ratio.
//
// Parameters:
//   - aspect: the aspect ratio (width / height)
//
// Returns:
//   - CameraBuilderOption: a function that applies the aspect ratio to a camera
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithClipPlanes is an option builder that sets the near and far clip planes.
//
// Parameters:
//   - near: near plane distance (must be > 0)
//   - far: far plane distance (must be > near)
//
// Returns:
//   - CameraBuilderOption: a function that applies the clip planes to a camera
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithTarget is an option builder that sets the initial orbit target.
//
// Parameters:
//   - x, y, z: the target point
//
// Returns:
//   - CameraBuilderOption: a function that applies the target to a camera
func WithTarget(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = [3]float32{x, y, z}
	}
}

// WithRadius is an option builder that sets the initial orbit radius.
//
// Parameters:
//   - radius: the orbit distance from the target
//
// Returns:
//   - CameraBuilderOption: a function that applies the radius to a camera
func WithRadius(radius float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.radius = radius
	}
}

// WithOrbitAngles is an option builder that sets the initial orbit angles.
//
// Parameters:
//   - azimuth: horizontal angle around Y in radians
//   - elevation: vertical angle from the horizontal plane in radians
//
// Returns:
//   - CameraBuilderOption: a function that applies the angles to a camera
func WithOrbitAngles(azimuth, elevation float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.azimuth = azimuth
		c.elevation = elevation
	}
}

// WithOrbitSpeed is an option builder that sets the orbit rotation speed.
//
// Parameters:
//   - speed: radians per unit of Orbit delta
//
// Returns:
//   - CameraBuilderOption: a function that applies the orbit speed to a camera
func WithOrbitSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.orbitSpeed = speed
	}
}

// WithZoomSpeed is an option builder that sets the zoom speed.
//
// Parameters:
//   - speed: world units per unit of Zoom delta
//
// Returns:
//   - CameraBuilderOption: a function that applies the zoom speed to a camera
func WithZoomSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.zoomSpeed = speed
	}
}

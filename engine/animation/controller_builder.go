package animation

// ControllerOption is a functional option for configuring a Controller during construction.
type ControllerOption func(*timeController)

// WithFreezeTarget is an option builder that sets the freeze time armed by
// click-triggered play cycles.
//
// Parameters:
//   - target: the freeze time in seconds
//
// Returns:
//   - ControllerOption: a function that applies the target to a controller
func WithFreezeTarget(target float32) ControllerOption {
	return func(c *timeController) {
		c.freezeTarget = target
	}
}

// WithDebug is an option builder that enables playback state logging.
//
// Parameters:
//   - debug: whether to log state transitions
//
// Returns:
//   - ControllerOption: a function that applies the debug flag to a controller
func WithDebug(debug bool) ControllerOption {
	return func(c *timeController) {
		c.debug = debug
	}
}

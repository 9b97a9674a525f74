package loader

// LoaderBuilderOption is a functional option for configuring a Loader during construction.
type LoaderBuilderOption func(*loader)

// WithMeshWorkers is an option builder that sets the number of parallel mesh
// extraction workers. Values below 1 are clamped to 1; the default is one
// worker per CPU, minus one for the main thread.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithMeshWorkers(workers int) LoaderBuilderOption {
	return func(l *loader) {
		if workers < 1 {
			workers = 1
		}
		l.meshWorkers = workers
	}
}

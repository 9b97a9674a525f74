package loader

import (
	"io"

	"github.com/NatC02/glb-freeze/engine/model"
)

// loaderBackend defines the interface for format-specific model importing.
// A backend turns a file or stream into a CPU-side ImportedModel; the Loader
// wraps that into an engine Model and caches it. Internal to the loader
// package.
type loaderBackend interface {
	// Load imports a model from a file path.
	//
	// Parameters:
	//   - path: the model file path
	//
	// Returns:
	//   - *model.ImportedModel: the imported CPU-side model data
	//   - error: error if importing fails
	Load(path string) (*model.ImportedModel, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *model.ImportedModel: the imported CPU-side model data
	//   - error: error if importing fails
	LoadReader(r io.Reader, isGLB bool) (*model.ImportedModel, error)
}

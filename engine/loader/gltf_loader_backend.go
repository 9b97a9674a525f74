package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/NatC02/glb-freeze/engine/model"
)

// gltfLoaderBackendImpl is the glTF/GLB implementation of the loaderBackend interface.
type gltfLoaderBackendImpl struct {
	meshWorkers int
}

var _ loaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a glTF backend that fans mesh extraction out
// across meshWorkers workers.
//
// Parameters:
//   - meshWorkers: the number of parallel mesh extraction workers
//
// Returns:
//   - loaderBackend: the glTF backend
func newGLTFLoaderBackend(meshWorkers int) loaderBackend {
	return &gltfLoaderBackendImpl{meshWorkers: meshWorkers}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return importDocument(parser, name, b.meshWorkers)
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("failed to parse stream: %w", err)
	}

	return importDocument(parser, "", b.meshWorkers)
}

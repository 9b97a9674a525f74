package loader

import (
	"fmt"
	"sync"
	"time"

	"github.com/NatC02/glb-freeze/engine/model"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// importDocument runs the full extraction pipeline against a parsed document:
// node hierarchy first (its index mapping feeds the animation extractor),
// then meshes in parallel, then animation clips.
//
// Parameters:
//   - parser: the parser containing a loaded document
//   - name: the model name (cache key stem)
//   - meshWorkers: the number of parallel mesh extraction workers
//
// Returns:
//   - *model.ImportedModel: the imported CPU-side model data
//   - error: error if any extraction stage fails
func importDocument(parser gltfParser, name string, meshWorkers int) (*model.ImportedModel, error) {
	nodeExtractor := newGLTFNodeExtractor(parser)
	nodes, roots, mapping, err := nodeExtractor.Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to extract node hierarchy: %w", err)
	}

	meshes, err := extractMeshes(parser, meshWorkers)
	if err != nil {
		return nil, err
	}

	animExtractor := newGLTFAnimationExtractor(parser)
	clips, err := animExtractor.ExtractAllAnimations(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to extract animations: %w", err)
	}

	return &model.ImportedModel{
		Name:        name,
		Nodes:       nodes,
		RootIndices: roots,
		Meshes:      meshes,
		Animations:  clips,
	}, nil
}

// extractMeshes fans per-mesh extraction out across a worker pool. Mesh
// extraction only reads the parsed document, so workers share the parser
// without synchronization; each task writes into its own result slot and a
// WaitGroup provides the completion barrier.
func extractMeshes(parser gltfParser, meshWorkers int) ([]model.Mesh, error) {
	meshExtractor := newGLTFMeshExtractor(parser)
	count := meshExtractor.MeshCount()
	if count == 0 {
		return nil, nil
	}
	if meshWorkers < 1 {
		meshWorkers = 1
	}

	meshes := make([]model.Mesh, count)
	errs := make([]error, count)

	pool := worker.NewDynamicWorkerPool(meshWorkers, 256, 1*time.Second)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		idx := i
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				meshes[idx], errs[idx] = meshExtractor.ExtractMesh(idx)
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to extract mesh %d: %w", i, err)
		}
	}
	return meshes, nil
}

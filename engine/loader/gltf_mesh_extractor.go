package loader

import (
	"errors"
	"fmt"

	"github.com/NatC02/glb-freeze/engine/model"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor defines the interface for converting glTF meshes into
// engine meshes: positions, normals, triangle indices, and local bounds.
// Extraction is read-only against the parsed document, so meshes can be
// extracted concurrently.
type gltfMeshExtractor interface {
	// ExtractMesh extracts a single mesh by index, merging its triangle
	// primitives into one vertex/index list.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh in the document
	//
	// Returns:
	//   - model.Mesh: the extracted mesh
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) (model.Mesh, error)

	// MeshCount returns the number of meshes in the document.
	//
	// Returns:
	//   - int: the mesh count
	MeshCount() int
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) MeshCount() int {
	doc := e.parser.Document()
	if doc == nil {
		return 0
	}
	return len(doc.Meshes)
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) (model.Mesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return model.Mesh{}, errors.New("no document loaded")
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return model.Mesh{}, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	src := &doc.Meshes[meshIndex]
	mesh := model.Mesh{Name: src.Name}

	for pi := range src.Primitives {
		prim := &src.Primitives[pi]

		// Non-triangle topologies are skipped rather than failing the whole
		// mesh; the viewer only draws triangle lists.
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			continue
		}

		posAccessor, ok := prim.Attributes["POSITION"]
		if !ok {
			return model.Mesh{}, fmt.Errorf("mesh %d primitive %d has no POSITION attribute", meshIndex, pi)
		}
		positions, err := e.parser.ReadVec3Accessor(posAccessor)
		if err != nil {
			return model.Mesh{}, fmt.Errorf("mesh %d primitive %d: failed to read positions: %w", meshIndex, pi, err)
		}

		var normals [][3]float32
		if normAccessor, ok := prim.Attributes["NORMAL"]; ok {
			normals, err = e.parser.ReadVec3Accessor(normAccessor)
			if err != nil {
				return model.Mesh{}, fmt.Errorf("mesh %d primitive %d: failed to read normals: %w", meshIndex, pi, err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
			if err != nil {
				return model.Mesh{}, fmt.Errorf("mesh %d primitive %d: failed to read indices: %w", meshIndex, pi, err)
			}
		} else {
			// Non-indexed geometry: every three vertices form a triangle.
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		if normals == nil {
			normals = computeFlatNormals(positions, indices)
		}

		// Merge primitives: reindex against the vertices already appended.
		base := uint32(len(mesh.Vertices))
		for i := range positions {
			v := model.Vertex{Position: positions[i]}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}
		for _, idx := range indices {
			mesh.Indices = append(mesh.Indices, base+idx)
		}
	}

	if len(mesh.Vertices) == 0 {
		return model.Mesh{}, fmt.Errorf("mesh %d has no triangle geometry", meshIndex)
	}

	mesh.BoundingMin, mesh.BoundingMax = computeBounds(mesh.Vertices)
	return mesh, nil
}

// computeFlatNormals derives per-vertex normals by accumulating unnormalized
// face normals; the cross product length weights by triangle area, and the
// shader normalizes per fragment.
func computeFlatNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	normals := make([][3]float32, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(positions) || int(b) >= len(positions) || int(c) >= len(positions) {
			continue
		}
		e1 := [3]float32{
			positions[b][0] - positions[a][0],
			positions[b][1] - positions[a][1],
			positions[b][2] - positions[a][2],
		}
		e2 := [3]float32{
			positions[c][0] - positions[a][0],
			positions[c][1] - positions[a][1],
			positions[c][2] - positions[a][2],
		}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		for _, vi := range []uint32{a, b, c} {
			normals[vi][0] += n[0]
			normals[vi][1] += n[1]
			normals[vi][2] += n[2]
		}
	}
	return normals
}

// computeBounds returns the axis-aligned bounds of the vertex positions.
func computeBounds(vertices []model.Vertex) (minB, maxB [3]float32) {
	minB = vertices[0].Position
	maxB = vertices[0].Position
	for _, v := range vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			if v.Position[axis] < minB[axis] {
				minB[axis] = v.Position[axis]
			}
			if v.Position[axis] > maxB[axis] {
				maxB[axis] = v.Position[axis]
			}
		}
	}
	return minB, maxB
}

package loader

import (
	"errors"
	"fmt"
	"math"

	"github.com/NatC02/glb-freeze/engine/model"
)

// gltfNodeExtractorImpl is the implementation of the gltfNodeExtractor interface.
type gltfNodeExtractorImpl struct {
	parser gltfParser
}

// gltfNodeExtractor defines the interface for flattening a parsed glTF node
// hierarchy into the engine's node slice. The traversal assigns each node a
// stable index and guarantees parents precede their children, which the
// engine's world-matrix pass and pose snapshots depend on.
type gltfNodeExtractor interface {
	// Extract flattens the default scene's node hierarchy.
	//
	// Returns:
	//   - []model.Node: the flattened hierarchy, parents before children
	//   - []int32: indices of root nodes
	//   - map[int]int32: maps glTF node index to engine node index
	//   - error: error if extraction fails
	Extract() ([]model.Node, []int32, map[int]int32, error)
}

var _ gltfNodeExtractor = &gltfNodeExtractorImpl{}

// newGLTFNodeExtractor creates a node extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfNodeExtractor: the node extractor
func newGLTFNodeExtractor(parser gltfParser) gltfNodeExtractor {
	return &gltfNodeExtractorImpl{parser: parser}
}

func (e *gltfNodeExtractorImpl) Extract() ([]model.Node, []int32, map[int]int32, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, nil, nil, errors.New("no document loaded")
	}

	rootGLTFNodes := e.sceneRoots(doc)
	if len(rootGLTFNodes) == 0 {
		return nil, nil, nil, errors.New("document has no scene nodes")
	}

	var nodes []model.Node
	var roots []int32
	mapping := make(map[int]int32, len(doc.Nodes))

	var walk func(gltfIndex int, parentIndex int32) error
	walk = func(gltfIndex int, parentIndex int32) error {
		if gltfIndex < 0 || gltfIndex >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", gltfIndex)
		}
		if _, seen := mapping[gltfIndex]; seen {
			return fmt.Errorf("node %d appears more than once in the hierarchy", gltfIndex)
		}

		src := &doc.Nodes[gltfIndex]
		rest := nodeRestTransform(src)

		meshIndex := int32(-1)
		if src.Mesh != nil {
			meshIndex = int32(*src.Mesh)
		}

		idx := int32(len(nodes))
		mapping[gltfIndex] = idx
		nodes = append(nodes, model.Node{
			Name:           src.Name,
			ParentIndex:    parentIndex,
			MeshIndex:      meshIndex,
			RestTransform:  rest,
			LocalTransform: rest,
		})

		for _, child := range src.Children {
			if err := walk(child, idx); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range rootGLTFNodes {
		roots = append(roots, int32(len(nodes)))
		if err := walk(root, -1); err != nil {
			return nil, nil, nil, err
		}
	}

	return nodes, roots, mapping, nil
}

// sceneRoots returns the root node indices of the default scene, falling back
// to the first scene when the document names none.
func (e *gltfNodeExtractorImpl) sceneRoots(doc *gltfDocument) []int {
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if sceneIdx >= 0 && sceneIdx < len(doc.Scenes) {
		return doc.Scenes[sceneIdx].Nodes
	}
	// No scenes declared: treat every parentless node as a root.
	childSet := make(map[int]bool)
	for i := range doc.Nodes {
		for _, c := range doc.Nodes[i].Children {
			childSet[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !childSet[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeRestTransform resolves a glTF node's transform into a decomposed TRS.
// Nodes carry either a matrix or a TRS triple; a matrix is decomposed so the
// animation system always works with translation/rotation/scale components.
func nodeRestTransform(n *gltfNode) model.Transform {
	if n.Matrix != nil {
		return decomposeMatrix(*n.Matrix)
	}

	t := model.IdentityTransform()
	if n.Translation != nil {
		t.Translation = *n.Translation
	}
	if n.Rotation != nil {
		t.Rotation = *n.Rotation
	}
	if n.Scale != nil {
		t.Scale = *n.Scale
	}
	return t
}

// decomposeMatrix splits a column-major affine matrix into TRS components.
// Scale is the length of each basis column; the rotation quaternion is
// derived from the scale-normalized upper 3x3 using the trace method.
func decomposeMatrix(m [16]float32) model.Transform {
	t := model.Transform{
		Translation: [3]float32{m[12], m[13], m[14]},
	}

	sx := vecLength(m[0], m[1], m[2])
	sy := vecLength(m[4], m[5], m[6])
	sz := vecLength(m[8], m[9], m[10])
	t.Scale = [3]float32{sx, sy, sz}

	if sx == 0 || sy == 0 || sz == 0 {
		t.Rotation = [4]float32{0, 0, 0, 1}
		return t
	}

	// Scale-normalized rotation basis, row r column c at r(c*3).
	r00, r10, r20 := float64(m[0]/sx), float64(m[1]/sx), float64(m[2]/sx)
	r01, r11, r21 := float64(m[4]/sy), float64(m[5]/sy), float64(m[6]/sy)
	r02, r12, r22 := float64(m[8]/sz), float64(m[9]/sz), float64(m[10]/sz)

	trace := r00 + r11 + r22
	var x, y, z, w float64
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		w = s / 4
		x = (r21 - r12) / s
		y = (r02 - r20) / s
		z = (r10 - r01) / s
	case r00 > r11 && r00 > r22:
		s := math.Sqrt(1+r00-r11-r22) * 2
		w = (r21 - r12) / s
		x = s / 4
		y = (r01 + r10) / s
		z = (r02 + r20) / s
	case r11 > r22:
		s := math.Sqrt(1+r11-r00-r22) * 2
		w = (r02 - r20) / s
		x = (r01 + r10) / s
		y = s / 4
		z = (r12 + r21) / s
	default:
		s := math.Sqrt(1+r22-r00-r11) * 2
		w = (r10 - r01) / s
		x = (r02 + r20) / s
		y = (r12 + r21) / s
		z = s / 4
	}

	t.Rotation = [4]float32{float32(x), float32(y), float32(z), float32(w)}
	return t
}

func vecLength(x, y, z float32) float32 {
	return float32(math.Sqrt(float64(x)*float64(x) + float64(y)*float64(y) + float64(z)*float64(z)))
}

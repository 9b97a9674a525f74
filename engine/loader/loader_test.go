package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"testing"
)

// buildTestBuffer packs the binary payload shared by the test documents:
// three vertex positions, two keyframe timestamps, two translation values,
// and three uint16 triangle indices.
func buildTestBuffer(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	payload := []any{
		[3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}, // positions
		[2]float32{0, 2},                     // keyframe times
		[3]float32{0, 0, 0}, [3]float32{2, 0, 0}, // keyframe values
		[3]uint16{0, 1, 2}, // indices
	}
	for _, v := range payload {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("failed to build test buffer: %v", err)
		}
	}
	return buf.Bytes()
}

func testDocumentJSON(bufferEntry string) string {
	return fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"scene": 0,
		"scenes": [{"nodes": [0]}],
		"nodes": [
			{"name": "root", "children": [1]},
			{"name": "box", "mesh": 0}
		],
		"meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}, "indices": 3}]}],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 1, "componentType": 5126, "count": 2, "type": "SCALAR"},
			{"bufferView": 2, "componentType": 5126, "count": 2, "type": "VEC3"},
			{"bufferView": 3, "componentType": 5123, "count": 3, "type": "SCALAR"}
		],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": 36, "byteLength": 8},
			{"buffer": 0, "byteOffset": 44, "byteLength": 24},
			{"buffer": 0, "byteOffset": 68, "byteLength": 6}
		],
		"animations": [{
			"name": "slide",
			"channels": [{"sampler": 0, "target": {"node": 1, "path": "translation"}}],
			"samplers": [{"input": 1, "output": 2}]
		}],
		"buffers": [%s]
	}`, bufferEntry)
}

// buildTestGLTF returns a self-contained .gltf document with the buffer
// embedded as a base64 data URI.
func buildTestGLTF(t *testing.T) []byte {
	t.Helper()
	raw := buildTestBuffer(t)
	entry := fmt.Sprintf(`{"uri": "data:application/octet-stream;base64,%s", "byteLength": %d}`,
		base64.StdEncoding.EncodeToString(raw), len(raw))
	return []byte(testDocumentJSON(entry))
}

// buildTestGLB wraps the same document in a GLB container with the buffer in
// the binary chunk.
func buildTestGLB(t *testing.T) []byte {
	t.Helper()
	raw := buildTestBuffer(t)
	jsonChunk := []byte(testDocumentJSON(fmt.Sprintf(`{"byteLength": %d}`, len(raw))))
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	binChunk := append([]byte{}, raw...)
	for len(binChunk)%4 != 0 {
		binChunk = append(binChunk, 0)
	}

	buf := new(bytes.Buffer)
	total := 12 + 8 + len(jsonChunk) + 8 + len(binChunk)
	header := []any{
		gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)},
		gltfGLBChunkHeader{ChunkLength: uint32(len(jsonChunk)), ChunkType: gltfGLBChunkJSON},
		jsonChunk,
		gltfGLBChunkHeader{ChunkLength: uint32(len(binChunk)), ChunkType: gltfGLBChunkBIN},
		binChunk,
	}
	for _, v := range header {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("failed to build test GLB: %v", err)
		}
	}
	return buf.Bytes()
}

func TestLoadReaderBuildsModel(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithMeshWorkers(2))

	m, err := l.LoadReader("tri", bytes.NewReader(buildTestGLTF(t)), false)
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}

	if m.NodeCount() != 2 {
		t.Fatalf("expected 2 nodes, got %d", m.NodeCount())
	}
	if got := m.NodeMeshIndex(1); got != 0 {
		t.Fatalf("expected node 1 to carry mesh 0, got %d", got)
	}
	if got := m.NodeMeshIndex(0); got != -1 {
		t.Fatalf("expected root to carry no mesh, got %d", got)
	}

	meshes := m.Meshes()
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	if len(meshes[0].Vertices) != 3 || len(meshes[0].Indices) != 3 {
		t.Fatalf("expected 3 vertices and 3 indices, got %d and %d", len(meshes[0].Vertices), len(meshes[0].Indices))
	}

	clips := m.Animations()
	if len(clips) != 1 {
		t.Fatalf("expected 1 clip, got %d", len(clips))
	}
	clip := clips[0]
	if clip.Name != "slide" || clip.Duration != 2.0 {
		t.Fatalf("unexpected clip %q duration %v", clip.Name, clip.Duration)
	}
	if len(clip.Channels) != 1 || clip.Channels[0].NodeIndex != 1 {
		t.Fatalf("expected one channel targeting node 1, got %+v", clip.Channels)
	}
	if len(clip.Channels[0].PositionKeys) != 2 {
		t.Fatalf("expected 2 position keys, got %d", len(clip.Channels[0].PositionKeys))
	}
	if got := clip.Channels[0].PositionKeys[1].Value; got != [3]float32{2, 0, 0} {
		t.Fatalf("unexpected final keyframe value %v", got)
	}
}

func TestLoadReaderParsesGLBContainer(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	m, err := l.LoadReader("tri-glb", bytes.NewReader(buildTestGLB(t)), true)
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	if m.NodeCount() != 2 || m.AnimationCount() != 1 {
		t.Fatalf("unexpected model: %d nodes, %d clips", m.NodeCount(), m.AnimationCount())
	}
}

func TestLoadReaderCachesByName(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	first, err := l.LoadReader("tri", bytes.NewReader(buildTestGLTF(t)), false)
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	second, err := l.LoadReader("tri", bytes.NewReader(buildTestGLTF(t)), false)
	if err != nil {
		t.Fatalf("second LoadReader failed: %v", err)
	}
	if first != second {
		t.Fatal("expected cached model on second load")
	}
	if got := l.Get("tri"); got != first {
		t.Fatal("expected Get to return the cached model")
	}
}

func TestLoadRejectsUnsupportedExtension(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	if _, err := l.Load("model.obj"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParserRejectsWrongVersion(t *testing.T) {
	p := newGLTFParser()
	err := p.ParseReader(bytes.NewReader([]byte(`{"asset":{"version":"1.0"}}`)), false)
	if err == nil {
		t.Fatal("expected version error")
	}
}

func TestDecomposeTranslationMatrix(t *testing.T) {
	m := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		4, 5, 6, 1,
	}
	tr := decomposeMatrix(m)
	if tr.Translation != [3]float32{4, 5, 6} {
		t.Fatalf("unexpected translation %v", tr.Translation)
	}
	if tr.Rotation != [4]float32{0, 0, 0, 1} {
		t.Fatalf("expected identity rotation, got %v", tr.Rotation)
	}
	if tr.Scale != [3]float32{1, 1, 1} {
		t.Fatalf("expected unit scale, got %v", tr.Scale)
	}
}

func TestDecomposeRotationScaleMatrix(t *testing.T) {
	// 90 degrees about Z with uniform scale 2: columns (0,2,0), (-2,0,0), (0,0,2).
	m := [16]float32{
		0, 2, 0, 0,
		-2, 0, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}
	tr := decomposeMatrix(m)
	if tr.Scale != [3]float32{2, 2, 2} {
		t.Fatalf("expected uniform scale 2, got %v", tr.Scale)
	}
	want := [4]float32{0, 0, float32(math.Sqrt2 / 2), float32(math.Sqrt2 / 2)}
	for i := range want {
		if diff := math.Abs(float64(tr.Rotation[i] - want[i])); diff > 1e-5 {
			t.Fatalf("rotation component %d: expected %v, got %v", i, want[i], tr.Rotation[i])
		}
	}
}

package loader

import (
	"fmt"

	"github.com/NatC02/glb-freeze/engine/model"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor defines the interface for extracting animation data
// from a parsed glTF document into engine-ready AnimationClip structs.
//
// The nodeMapping parameter maps glTF node indices to the engine's stable
// node indices produced by the node extractor, so channels keep targeting the
// right nodes after the hierarchy is flattened.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//   - nodeMapping: maps glTF node index to engine node index
	//
	// Returns:
	//   - *model.AnimationClip: the extracted animation clip
	//   - error: error if extraction fails
	ExtractAnimation(animIndex int, nodeMapping map[int]int32) (*model.AnimationClip, error)

	// ExtractAllAnimations extracts every animation from the document in file
	// order.
	//
	// Parameters:
	//   - nodeMapping: maps glTF node index to engine node index
	//
	// Returns:
	//   - []*model.AnimationClip: all extracted animation clips
	//   - error: error if extraction fails
	ExtractAllAnimations(nodeMapping map[int]int32) ([]*model.AnimationClip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates an animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int, nodeMapping map[int]int32) (*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}

	anim := &doc.Animations[animIndex]

	// channelMap groups channels by engine node index so translation,
	// rotation, and scale tracks merge into one AnimationChannel per node.
	channelMap := make(map[int32]*model.AnimationChannel)
	var channelOrder []int32

	var maxTime float32

	for i := range anim.Channels {
		ch := &anim.Channels[i]

		// Skip channels with no target node (e.g. morph targets)
		if ch.Target.Node == nil {
			continue
		}

		// Map glTF node index → engine node index. Channels targeting nodes
		// outside the default scene are dropped.
		nodeIndex, ok := nodeMapping[*ch.Target.Node]
		if !ok {
			continue
		}

		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", anim.Name, i, ch.Sampler)
		}
		sampler := &anim.Samplers[ch.Sampler]

		timestamps, err := e.parser.ReadScalarAccessor(sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", anim.Name, i, err)
		}

		// Track max timestamp for duration
		if len(timestamps) > 0 {
			if t := timestamps[len(timestamps)-1]; t > maxTime {
				maxTime = t
			}
		}

		animCh, exists := channelMap[nodeIndex]
		if !exists {
			animCh = &model.AnimationChannel{NodeIndex: nodeIndex}
			channelMap[nodeIndex] = animCh
			channelOrder = append(channelOrder, nodeIndex)
		}

		switch ch.Target.Path {
		case gltfAnimPathTranslation:
			values, err := e.parser.ReadVec3Accessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read translation values: %w", anim.Name, i, err)
			}
			animCh.PositionKeys = vectorKeys(timestamps, values)

		case gltfAnimPathRotation:
			values, err := e.parser.ReadVec4Accessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read rotation values: %w", anim.Name, i, err)
			}
			keys := make([]model.QuaternionKeyframe, min(len(timestamps), len(values)))
			for j := range keys {
				keys[j] = model.QuaternionKeyframe{Time: timestamps[j], Value: values[j]}
			}
			animCh.RotationKeys = keys

		case gltfAnimPathScale:
			values, err := e.parser.ReadVec3Accessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read scale values: %w", anim.Name, i, err)
			}
			animCh.ScaleKeys = vectorKeys(timestamps, values)

		case gltfAnimPathWeights:
			// Morph target weights are not supported; skip
			continue
		}
	}

	// Flatten in first-seen order so extraction is deterministic.
	channels := make([]model.AnimationChannel, 0, len(channelOrder))
	for _, nodeIndex := range channelOrder {
		channels = append(channels, *channelMap[nodeIndex])
	}

	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	return &model.AnimationClip{
		Name:     name,
		Duration: maxTime,
		Channels: channels,
	}, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAllAnimations(nodeMapping map[int]int32) ([]*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	clips := make([]*model.AnimationClip, len(doc.Animations))
	for i := range doc.Animations {
		clip, err := e.ExtractAnimation(i, nodeMapping)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		clips[i] = clip
	}

	return clips, nil
}

// vectorKeys pairs timestamps with vec3 values, truncating to the shorter of
// the two accessors.
func vectorKeys(timestamps []float32, values [][3]float32) []model.VectorKeyframe {
	keys := make([]model.VectorKeyframe, min(len(timestamps), len(values)))
	for j := range keys {
		keys[j] = model.VectorKeyframe{Time: timestamps[j], Value: values[j]}
	}
	return keys
}

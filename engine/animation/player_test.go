package animation

import (
	"testing"

	"github.com/NatC02/glb-freeze/engine/model"
)

func newPlayerModel(clip *model.AnimationClip) model.Model {
	nodes := []model.Node{
		{Name: "root", ParentIndex: -1, MeshIndex: -1, RestTransform: model.IdentityTransform(), LocalTransform: model.IdentityTransform()},
		{Name: "arm", ParentIndex: 0, MeshIndex: -1, RestTransform: model.IdentityTransform(), LocalTransform: model.IdentityTransform()},
	}
	var clips []*model.AnimationClip
	if clip != nil {
		clips = append(clips, clip)
	}
	return model.NewModel(
		model.WithNodes(nodes, []int32{0}),
		model.WithAnimations(clips),
	)
}

func translationClip(duration float32) *model.AnimationClip {
	return &model.AnimationClip{
		Name:     "slide",
		Duration: duration,
		Channels: []model.AnimationChannel{
			{
				NodeIndex: 1,
				PositionKeys: []model.VectorKeyframe{
					{Time: 0, Value: [3]float32{0, 0, 0}},
					{Time: duration, Value: [3]float32{duration, 0, 0}},
				},
			},
		},
	}
}

func TestPlayerSamplesLinearTranslation(t *testing.T) {
	mdl := newPlayerModel(translationClip(2.0))
	p := NewPlayer(mdl)
	p.PlayAll()

	p.Update(0.5)

	if got := p.Time(); got != 0.5 {
		t.Fatalf("expected time 0.5, got %v", got)
	}
	if x := mdl.NodeLocal(1).Translation[0]; x != 0.5 {
		t.Fatalf("expected translation x 0.5, got %v", x)
	}
}

func TestPlayerHoldsFinalPoseAtClipEnd(t *testing.T) {
	mdl := newPlayerModel(translationClip(2.0))
	p := NewPlayer(mdl)
	p.PlayAll()

	p.Update(3.5)

	if got := p.Time(); got != 2.0 {
		t.Fatalf("expected time clamped to duration, got %v", got)
	}
	if x := mdl.NodeLocal(1).Translation[0]; x != 2.0 {
		t.Fatalf("expected final translation x 2.0, got %v", x)
	}

	p.Update(1.0)
	if x := mdl.NodeLocal(1).Translation[0]; x != 2.0 {
		t.Fatalf("expected held pose past clip end, got x %v", x)
	}
}

func TestPlayerDisabledActionWritesNothing(t *testing.T) {
	mdl := newPlayerModel(translationClip(2.0))
	p := NewPlayer(mdl)
	p.PlayAll()
	p.Update(1.0)
	p.StopAll()

	moved := mdl.NodeLocal(1)
	moved.Translation[0] = 9
	mdl.SetNodeLocal(1, moved)

	p.Update(1.0)

	if got := p.Time(); got != 1.0 {
		t.Fatalf("expected stopped cursor to stay at 1.0, got %v", got)
	}
	if x := mdl.NodeLocal(1).Translation[0]; x != 9 {
		t.Fatalf("expected no write from a disabled action, got x %v", x)
	}
}

func TestPlayerEvaluateAppliesWithoutAdvancing(t *testing.T) {
	mdl := newPlayerModel(translationClip(2.0))
	p := NewPlayer(mdl)
	p.PlayAll()
	p.ClampAll(0.75)

	p.Evaluate()

	if got := p.Time(); got != 0.75 {
		t.Fatalf("expected time unchanged at 0.75, got %v", got)
	}
	if x := mdl.NodeLocal(1).Translation[0]; x != 0.75 {
		t.Fatalf("expected evaluated translation x 0.75, got %v", x)
	}
}

func TestPlayerClampBoundsToClipDuration(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{name: "negative clamps to start", in: -1, want: 0},
		{name: "inside passes through", in: 1.25, want: 1.25},
		{name: "beyond clamps to duration", in: 10, want: 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(newPlayerModel(translationClip(2.0)))
			p.PlayAll()
			p.ClampAll(tt.in)
			if got := p.Time(); got != tt.want {
				t.Fatalf("expected time %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPlayerUntrackedComponentsKeepRestValues(t *testing.T) {
	mdl := newPlayerModel(translationClip(2.0))
	p := NewPlayer(mdl)
	p.PlayAll()

	p.Update(1.0)

	got := mdl.NodeLocal(1)
	if got.Rotation != [4]float32{0, 0, 0, 1} {
		t.Fatalf("expected rest rotation, got %v", got.Rotation)
	}
	if got.Scale != [3]float32{1, 1, 1} {
		t.Fatalf("expected rest scale, got %v", got.Scale)
	}
}

func TestNewPlayerNilForCliplessModel(t *testing.T) {
	if p := NewPlayer(newPlayerModel(nil)); p != nil {
		t.Fatal("expected nil player for a model without clips")
	}
}

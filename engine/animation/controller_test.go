package animation

import (
	"testing"

	"github.com/NatC02/glb-freeze/engine/frame"
	"github.com/NatC02/glb-freeze/engine/model"
)

const frameStep = float32(1.0 / 60.0)

// testRig wires a two-node model, its player, and a controller onto a manual
// scheduler, with the player advance registered first the way the scene host
// does it.
type testRig struct {
	mdl    model.Model
	player Player
	runner *frame.Runner
	ctrl   Controller
}

func newTestRig(t *testing.T, opts ...ControllerOption) *testRig {
	t.Helper()
	clip := &model.AnimationClip{
		Name:     "open",
		Duration: 2.0,
		Channels: []model.AnimationChannel{
			{
				NodeIndex: 1,
				PositionKeys: []model.VectorKeyframe{
					{Time: 0, Value: [3]float32{0, 0, 0}},
					{Time: 2.0, Value: [3]float32{2, 0, 0}},
				},
			},
		},
	}
	nodes := []model.Node{
		{Name: "root", ParentIndex: -1, MeshIndex: -1, RestTransform: model.IdentityTransform(), LocalTransform: model.IdentityTransform()},
		{Name: "lid", ParentIndex: 0, MeshIndex: -1, RestTransform: model.IdentityTransform(), LocalTransform: model.IdentityTransform()},
	}
	mdl := model.NewModel(
		model.WithName("rig"),
		model.WithNodes(nodes, []int32{0}),
		model.WithAnimations([]*model.AnimationClip{clip}),
	)
	player := NewPlayer(mdl)
	if player == nil {
		t.Fatal("expected a player for a model with one clip")
	}

	runner := frame.NewRunner()
	runner.Schedule(player.Update)

	ctrl := NewController(mdl, player, runner, opts...)
	if ctrl == nil {
		t.Fatal("expected a controller for a model with one clip")
	}
	return &testRig{mdl: mdl, player: player, runner: runner, ctrl: ctrl}
}

func (r *testRig) step(frames int) {
	for i := 0; i < frames; i++ {
		r.runner.Run(frameStep)
	}
}

func (r *testRig) stepUntilFrozen(t *testing.T, maxFrames int) {
	t.Helper()
	for i := 0; i < maxFrames; i++ {
		r.runner.Run(frameStep)
		if r.ctrl.State() == StateFrozen {
			return
		}
	}
	t.Fatalf("not frozen after %d frames, state %s at t=%.4f", maxFrames, r.ctrl.State(), r.player.Time())
}

func TestFreezeAtExactTarget(t *testing.T) {
	rig := newTestRig(t, WithFreezeTarget(0.5))

	rig.ctrl.HandleClick()
	if got := rig.ctrl.State(); got != StatePlaying {
		t.Fatalf("expected playing after click, got %s", got)
	}

	rig.stepUntilFrozen(t, 60)

	if got := rig.player.Time(); got != 0.5 {
		t.Fatalf("expected action time exactly 0.5, got %v", got)
	}
	if x := rig.mdl.NodeLocal(1).Translation[0]; x != 0.5 {
		t.Fatalf("expected frozen translation x 0.5, got %v", x)
	}
}

func TestFrozenPoseHasNoDrift(t *testing.T) {
	rig := newTestRig(t, WithFreezeTarget(0.5))
	rig.ctrl.HandleClick()
	rig.stepUntilFrozen(t, 60)
	want := rig.mdl.NodeLocal(1)

	for i := 0; i < 120; i++ {
		if i%10 == 0 {
			// Perturb the node mid-hold; enforcement must win the frame.
			perturbed := want
			perturbed.Translation[0] += 5
			rig.mdl.SetNodeLocal(1, perturbed)
		}
		rig.step(1)
		if got := rig.mdl.NodeLocal(1); got != want {
			t.Fatalf("frame %d: frozen pose drifted, got %+v want %+v", i, got, want)
		}
	}
	if got := rig.ctrl.State(); got != StateFrozen {
		t.Fatalf("expected still frozen, got %s", got)
	}
}

func TestReplayAfterFreezeRestartsFromZero(t *testing.T) {
	rig := newTestRig(t, WithFreezeTarget(0.5))
	rig.ctrl.HandleClick()
	rig.stepUntilFrozen(t, 60)

	rig.ctrl.Play()
	if got := rig.ctrl.State(); got != StatePlaying {
		t.Fatalf("expected playing after replay, got %s", got)
	}
	if got := rig.player.Time(); got != 0 {
		t.Fatalf("expected rewound time 0, got %v", got)
	}

	// The stale enforcement task observes the state change on the next frame
	// and removes itself, leaving only the player advance.
	rig.step(1)
	if n := rig.runner.TaskCount(); n != 1 {
		t.Fatalf("expected 1 live task after enforcement self-cancel, got %d", n)
	}
	if got := rig.player.Time(); got != frameStep {
		t.Fatalf("expected time to advance one frame, got %v", got)
	}
}

func TestRearmReplacesPendingMonitor(t *testing.T) {
	rig := newTestRig(t)

	rig.ctrl.Play()
	rig.ctrl.FreezeAt(1.0)
	rig.ctrl.Play()
	rig.ctrl.FreezeAt(0.5)

	// One advance task plus exactly one live monitor.
	if n := rig.runner.TaskCount(); n != 2 {
		t.Fatalf("expected 2 live tasks after re-arm, got %d", n)
	}

	rig.stepUntilFrozen(t, 60)
	if got := rig.player.Time(); got != 0.5 {
		t.Fatalf("expected freeze at the re-armed target 0.5, got %v", got)
	}
	// Advance plus enforcement; a second fired monitor would leave a third.
	if n := rig.runner.TaskCount(); n != 2 {
		t.Fatalf("expected 2 live tasks after freeze, got %d", n)
	}
}

func TestUnreachableTargetKeepsPlaying(t *testing.T) {
	rig := newTestRig(t)
	rig.ctrl.Play()
	rig.ctrl.FreezeAt(5.0)

	rig.step(300)

	if got := rig.ctrl.State(); got != StatePlaying {
		t.Fatalf("expected still playing past clip end, got %s", got)
	}
	if got := rig.player.Time(); got != 2.0 {
		t.Fatalf("expected time held at clip duration 2.0, got %v", got)
	}
}

func TestClickWhilePlayingIsIgnored(t *testing.T) {
	rig := newTestRig(t, WithFreezeTarget(0.5))
	rig.ctrl.HandleClick()
	rig.step(5)

	rig.ctrl.HandleClick()
	if got := rig.ctrl.State(); got != StatePlaying {
		t.Fatalf("expected click mid-play to be ignored, got %s", got)
	}

	// The original monitor stays armed and still fires.
	rig.stepUntilFrozen(t, 60)
	if got := rig.player.Time(); got != 0.5 {
		t.Fatalf("expected freeze at 0.5, got %v", got)
	}
}

func TestClickWhileFrozenGoesIdleKeepingPose(t *testing.T) {
	rig := newTestRig(t, WithFreezeTarget(0.5))
	rig.ctrl.HandleClick()
	rig.stepUntilFrozen(t, 60)
	frozenPose := rig.mdl.NodeLocal(1)

	rig.ctrl.HandleClick()
	if got := rig.ctrl.State(); got != StateIdle {
		t.Fatalf("expected idle after dismissing the hold, got %s", got)
	}

	// No pose restore on dismiss: the frozen visual persists until replay.
	rig.step(30)
	if got := rig.mdl.NodeLocal(1); got != frozenPose {
		t.Fatalf("expected pose to persist after dismiss, got %+v want %+v", got, frozenPose)
	}
}

func TestStopMonitoringLeavesPlaybackAlone(t *testing.T) {
	rig := newTestRig(t)
	rig.ctrl.Play()
	rig.ctrl.FreezeAt(0.5)
	rig.ctrl.StopMonitoring()

	rig.step(150)

	if got := rig.ctrl.State(); got != StatePlaying {
		t.Fatalf("expected disarmed playback to keep playing, got %s", got)
	}
	if got := rig.player.Time(); got != 2.0 {
		t.Fatalf("expected playback to reach clip end, got %v", got)
	}
}

func TestNoClipModelHasNoControllerOrPlayer(t *testing.T) {
	mdl := model.NewModel(
		model.WithName("static"),
		model.WithNodes([]model.Node{
			{Name: "root", ParentIndex: -1, MeshIndex: -1, RestTransform: model.IdentityTransform(), LocalTransform: model.IdentityTransform()},
		}, []int32{0}),
	)
	player := NewPlayer(mdl)
	if player != nil {
		t.Fatal("expected no player for a clipless model")
	}
	if ctrl := NewController(mdl, player, frame.NewRunner()); ctrl != nil {
		t.Fatal("expected no controller for a clipless model")
	}
}

func TestSetFreezeTargetAppliesOnNextCycle(t *testing.T) {
	rig := newTestRig(t, WithFreezeTarget(1.5))
	rig.ctrl.SetFreezeTarget(0.5)
	if got := rig.ctrl.FreezeTarget(); got != 0.5 {
		t.Fatalf("expected updated target 0.5, got %v", got)
	}

	rig.ctrl.HandleClick()
	rig.stepUntilFrozen(t, 60)
	if got := rig.player.Time(); got != 0.5 {
		t.Fatalf("expected freeze at updated target, got %v", got)
	}
}

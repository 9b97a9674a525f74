package animation

import (
	"sync"

	"github.com/NatC02/glb-freeze/common"
	"github.com/NatC02/glb-freeze/engine/model"
)

// player is the implementation of the Player interface.
type player struct {
	mu      sync.Mutex
	mdl     model.Model
	actions []*action
}

// Player owns one action per animation clip of a model and drives playback:
// each frame it advances the enabled, unpaused actions and samples their
// channels into the model's node hierarchy. The first clip in file order is
// the primary clip; its time cursor is what freeze monitoring observes.
type Player interface {
	// Update advances playback by deltaTime and applies the sampled pose to
	// the node hierarchy.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the previous frame in seconds
	Update(deltaTime float32)

	// Evaluate applies the current time cursors to the node hierarchy without
	// advancing them. Used to flush a clamped time onto the pose.
	Evaluate()

	// PlayAll rewinds every action to time 0 and enables it.
	PlayAll()

	// StopAll pauses and disables every action. Time cursors are untouched.
	StopAll()

	// ClampAll forces every action's time cursor to exactly t, bounded by the
	// action's clip duration.
	//
	// Parameters:
	//   - t: the playback time in seconds
	ClampAll(t float32)

	// Time returns the primary clip's elapsed playback time in seconds.
	//
	// Returns:
	//   - float32: the primary action's time cursor
	Time() float32

	// Duration returns the primary clip's duration in seconds.
	//
	// Returns:
	//   - float32: the primary clip duration
	Duration() float32

	// ClipCount returns the number of bound clips.
	//
	// Returns:
	//   - int: the clip count
	ClipCount() int
}

var _ Player = &player{}

// NewPlayer creates a Player bound to the model's animation clips. Returns
// nil when the model carries no clips; a clipless model has nothing to play.
//
// Parameters:
//   - mdl: the model whose node hierarchy playback writes into
//
// Returns:
//   - Player: the new player, or nil if the model has no animations
func NewPlayer(mdl model.Model) Player {
	clips := mdl.Animations()
	if len(clips) == 0 {
		return nil
	}
	p := &player{mdl: mdl}
	for _, clip := range clips {
		p.actions = append(p.actions, &action{clip: clip})
	}
	return p
}

func (p *player) Update(deltaTime float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.actions {
		a.advance(deltaTime)
	}
	p.applyLocked()
}

func (p *player) Evaluate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyLocked()
}

func (p *player) PlayAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.actions {
		a.rewind()
	}
}

func (p *player) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.actions {
		a.stop()
	}
}

func (p *player) ClampAll(t float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.actions {
		clamped := t
		if clamped < 0 {
			clamped = 0
		}
		if clamped > a.clip.Duration {
			clamped = a.clip.Duration
		}
		a.time = clamped
	}
}

func (p *player) Time() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.actions[0].time
}

func (p *player) Duration() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.actions[0].clip.Duration
}

func (p *player) ClipCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.actions)
}

// applyLocked samples every enabled action's channels at its time cursor and
// writes the resulting transforms into the node hierarchy. Components a
// channel does not track keep the node's rest values. Caller must hold p.mu.
func (p *player) applyLocked() {
	for _, a := range p.actions {
		if !a.enabled {
			continue
		}
		for ci := range a.clip.Channels {
			ch := &a.clip.Channels[ci]
			idx := int(ch.NodeIndex)
			t := p.mdl.NodeLocal(idx)
			if len(ch.PositionKeys) > 0 {
				t.Translation = sampleVector(ch.PositionKeys, a.time)
			}
			if len(ch.RotationKeys) > 0 {
				t.Rotation = sampleQuaternion(ch.RotationKeys, a.time)
			}
			if len(ch.ScaleKeys) > 0 {
				t.Scale = sampleVector(ch.ScaleKeys, a.time)
			}
			p.mdl.SetNodeLocal(idx, t)
		}
	}
}

// sampleVector interpolates a vector track at time t. Times before the first
// key or after the last clamp to the boundary keyframes.
func sampleVector(keys []model.VectorKeyframe, t float32) [3]float32 {
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := len(keys) - 1
	if t >= keys[last].Time {
		return keys[last].Value
	}
	i := upperKeyIndex(len(keys), t, func(k int) float32 { return keys[k].Time })
	prev, next := keys[i-1], keys[i]
	span := next.Time - prev.Time
	if span <= 0 {
		return next.Value
	}
	return common.LerpVec3(prev.Value, next.Value, (t-prev.Time)/span)
}

// sampleQuaternion interpolates a rotation track at time t using spherical
// interpolation between the bracketing keyframes.
func sampleQuaternion(keys []model.QuaternionKeyframe, t float32) [4]float32 {
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := len(keys) - 1
	if t >= keys[last].Time {
		return keys[last].Value
	}
	i := upperKeyIndex(len(keys), t, func(k int) float32 { return keys[k].Time })
	prev, next := keys[i-1], keys[i]
	span := next.Time - prev.Time
	if span <= 0 {
		return next.Value
	}
	return common.SlerpQuat(prev.Value, next.Value, (t-prev.Time)/span)
}

// upperKeyIndex returns the index of the first keyframe whose time exceeds t,
// via binary search. Callers guarantee t lies strictly inside the track.
func upperKeyIndex(n int, t float32, timeAt func(int) float32) int {
	lo, hi := 1, n-1
	for lo < hi {
		mid := (lo + hi) / 2
		if timeAt(mid) <= t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

package animation

import "github.com/NatC02/glb-freeze/engine/model"

// action is the runtime binding of one clip to a player: the clip itself plus
// a mutable time cursor and the paused/enabled flags. Actions are created once
// when the player is built and reused across play cycles; rewinding means
// resetting the cursor, never reallocating.
type action struct {
	clip *model.AnimationClip

	// time is the elapsed playback position in seconds, clamped to
	// [0, clip.Duration].
	time float32

	// paused stops the cursor from advancing while leaving the action bound.
	paused bool

	// enabled gates evaluation entirely. A disabled action neither advances
	// nor writes node transforms, which is what keeps playback and pose
	// enforcement from fighting over the hierarchy.
	enabled bool
}

// advance moves the time cursor forward and holds it at the clip end. The
// clip does not loop.
func (a *action) advance(deltaTime float32) {
	if !a.enabled || a.paused {
		return
	}
	a.time += deltaTime
	if a.time > a.clip.Duration {
		a.time = a.clip.Duration
	}
}

// rewind resets the action to the start of a fresh play cycle.
func (a *action) rewind() {
	a.time = 0
	a.paused = false
	a.enabled = true
}

// stop halts the action without touching the time cursor.
func (a *action) stop() {
	a.paused = true
	a.enabled = false
}

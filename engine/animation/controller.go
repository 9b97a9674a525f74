package animation

import (
	"log"
	"sync"
	"time"

	"github.com/NatC02/glb-freeze/engine/frame"
	"github.com/NatC02/glb-freeze/engine/model"
)

// State describes what the controller is currently doing with the animation.
// It is owned by the controller; collaborators only read it.
type State int

const (
	// StateIdle means no animation has been triggered, or a frozen hold was
	// dismissed by a click.
	StateIdle State = iota

	// StatePlaying means the clip is advancing normally.
	StatePlaying

	// StateFrozen means the freeze protocol has fired and the captured pose
	// is being re-asserted every frame.
	StateFrozen
)

// String returns the state name for diagnostics.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// timeController is the implementation of the Controller interface.
type timeController struct {
	mu     sync.Mutex
	mdl    model.Model
	player Player
	sched  frame.Scheduler

	state         State
	freezeTarget  float32
	cancelMonitor frame.CancelFunc
	snapshot      []model.Transform

	debug    bool
	playedAt time.Time
}

// Controller is the animation time controller: it watches playback progress
// every frame, detects when the configured target time has been crossed,
// forces the animation clock to the exact target, disables further
// evaluation, and re-asserts the captured pose snapshot until the hold is
// dismissed.
type Controller interface {
	// Play rewinds every action to time 0, enables playback, and cancels any
	// pending freeze monitor from a previous cycle.
	Play()

	// FreezeAt arms a per-frame monitor that fires the freeze protocol once
	// the primary clip's elapsed time reaches target. Arming again replaces
	// the previous monitor; at most one is ever pending. Targets at or beyond
	// the clip duration never fire and the clip holds its final pose in
	// StatePlaying.
	//
	// Parameters:
	//   - target: the playback time to freeze at, in seconds
	FreezeAt(target float32)

	// StopMonitoring cancels a pending freeze monitor without touching the
	// player or the node hierarchy. No-op when nothing is armed.
	StopMonitoring()

	// State returns the controller's current state.
	//
	// Returns:
	//   - State: StateIdle, StatePlaying, or StateFrozen
	State() State

	// HandleClick reacts to a confirmed hit on the model: from idle it starts
	// playback and arms the configured freeze target; while playing it does
	// nothing; while frozen it stops the actions and returns to idle, leaving
	// the frozen pose on the hierarchy until the next Play.
	HandleClick()

	// SetFreezeTarget replaces the configured freeze time used by the next
	// click-triggered play cycle. An already armed monitor keeps its target.
	//
	// Parameters:
	//   - target: the new freeze time in seconds
	SetFreezeTarget(target float32)

	// FreezeTarget returns the configured freeze time in seconds.
	//
	// Returns:
	//   - float32: the freeze time armed on the next play cycle
	FreezeTarget() float32
}

var _ Controller = &timeController{}

// NewController creates a Controller for the given model and player. Returns
// nil when player is nil (a model with no clips); callers treat a nil
// controller as "clicks do nothing".
//
// Parameters:
//   - mdl: the model whose pose the controller snapshots and enforces
//   - player: the playback driver, or nil for a clipless model
//   - sched: the frame scheduler monitor and enforcement tasks run on
//   - options: functional options for controller configuration
//
// Returns:
//   - Controller: the new controller, or nil if there is nothing to control
func NewController(mdl model.Model, player Player, sched frame.Scheduler, options ...ControllerOption) Controller {
	if player == nil || player.ClipCount() == 0 {
		return nil
	}
	c := &timeController{
		mdl:    mdl,
		player: player,
		sched:  sched,
		state:  StateIdle,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *timeController) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playLocked()
}

func (c *timeController) FreezeAt(target float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freezeAtLocked(target)
}

func (c *timeController) StopMonitoring() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelMonitor != nil {
		c.cancelMonitor()
		c.cancelMonitor = nil
	}
}

func (c *timeController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *timeController) HandleClick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateIdle:
		c.playLocked()
		c.freezeAtLocked(c.freezeTarget)
	case StatePlaying:
		// Once armed the freeze point is always reached, so a click mid-play
		// has nothing useful to do.
		if c.debug {
			log.Printf("controller: click ignored at t=%.3fs (playing)", c.player.Time())
		}
	case StateFrozen:
		// The frozen pose stays on the hierarchy; the next Play rewinds it.
		c.player.StopAll()
		c.state = StateIdle
		if c.debug {
			log.Println("controller: hold dismissed, idle")
		}
	}
}

func (c *timeController) SetFreezeTarget(target float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freezeTarget = target
}

func (c *timeController) FreezeTarget() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freezeTarget
}

// playLocked starts a fresh play cycle. Caller must hold c.mu.
func (c *timeController) playLocked() {
	if c.cancelMonitor != nil {
		c.cancelMonitor()
		c.cancelMonitor = nil
	}
	c.player.StopAll()
	c.player.PlayAll()
	c.state = StatePlaying
	c.playedAt = time.Now()
	if c.debug {
		log.Println("controller: playing")
	}
}

// freezeAtLocked arms the per-frame monitor, replacing any pending one.
// Caller must hold c.mu.
func (c *timeController) freezeAtLocked(target float32) {
	if c.cancelMonitor != nil {
		c.cancelMonitor()
	}
	var cancel frame.CancelFunc
	cancel = c.sched.Schedule(func(_ float32) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state != StatePlaying {
			return
		}
		if c.player.Time() < target {
			return
		}
		cancel()
		c.cancelMonitor = nil
		c.freezeLocked(target)
	})
	c.cancelMonitor = cancel
}

// freezeLocked runs the freeze protocol: clamp every action to exactly the
// target time, flush one zero-delta evaluation so the clamped time lands on
// the hierarchy, stop the actions, capture the pose snapshot, and start the
// enforcement task. Caller must hold c.mu.
func (c *timeController) freezeLocked(target float32) {
	c.player.ClampAll(target)
	c.player.Evaluate()
	c.player.StopAll()

	n := c.mdl.NodeCount()
	c.snapshot = make([]model.Transform, n)
	for i := 0; i < n; i++ {
		c.snapshot[i] = c.mdl.NodeLocal(i)
	}
	c.state = StateFrozen
	if c.debug {
		log.Printf("controller: frozen at t=%.3fs after %s", target, time.Since(c.playedAt).Round(time.Millisecond))
	}

	var cancel frame.CancelFunc
	cancel = c.sched.Schedule(func(_ float32) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state != StateFrozen {
			cancel()
			return
		}
		for i, t := range c.snapshot {
			c.mdl.SetNodeLocal(i, t)
		}
	})
}

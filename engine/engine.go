package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/NatC02/glb-freeze/engine/frame"
	"github.com/NatC02/glb-freeze/engine/input"
	"github.com/NatC02/glb-freeze/engine/profiler"
	"github.com/NatC02/glb-freeze/engine/scene"
	"github.com/NatC02/glb-freeze/engine/window"
)

// engine implements the Engine interface.
// Coordinates tick, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	scn    scene.Scene
	sched  *frame.Runner
	router input.Router

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate   time.Duration
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the viewer.
// It orchestrates the tick loop (which drives the frame scheduler and with it
// animation playback and freeze monitoring), the render loop, and window
// management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the hosted scene.
	//
	// Returns:
	//   - scene.Scene: the scene instance
	Scene() scene.Scene

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// Scheduler tasks (animation advance, freeze monitors) run at this rate.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main engine loop (blocks until the window closes).
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// The window, scene, and scheduler are all required and NewEngine panics if
// any of them is missing. Window input callbacks are wired to an input.Router
// so clicks, orbit drags, and scroll zoom reach the scene.
//
// Parameters:
//   - options: functional options for engine configuration (window, scene, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		panic("engine: NewEngine requires a Window (use WithWindow)")
	}
	if e.scn == nil {
		panic("engine: NewEngine requires a Scene (use WithScene)")
	}
	if e.sched == nil {
		panic("engine: NewEngine requires a Scheduler (use WithScheduler)")
	}

	e.router = input.NewRouter(e.scn, e.window.Width(), e.window.Height())

	e.window.SetResizeCallback(func(width, height int) {
		e.scn.Resize(width, height)
		e.router.SetViewport(width, height)
	})
	e.window.SetMouseDownCallback(e.router.Click)
	e.window.SetMiddleMouseDownCallback(e.router.MiddleMouseDown)
	e.window.SetMiddleMouseUpCallback(e.router.MiddleMouseUp)
	e.window.SetMouseMoveCallback(e.router.MouseMove)
	e.window.SetScrollCallback(e.router.Scroll)

	e.profiler.SetStatusFunc(func() string {
		ctrl := e.scn.Controller()
		if ctrl == nil {
			return "playback: static"
		}
		return fmt.Sprintf("playback: %s", ctrl.State())
	})

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scn
}

func (e *engine) Run() {
	e.running = true
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleTick()
	go e.handleRender()
}

// handleTick runs the fixed-rate tick loop in its own goroutine. Each tick
// runs the frame scheduler, which advances animation playback and fires any
// armed freeze monitors and pose enforcement tasks. Listens for dynamic rate
// changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.sched.Run(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			lastRender = time.Now()

			if err := e.scn.Draw(); err != nil {
				// Swapchain acquisition can fail transiently during resize;
				// skip the frame rather than tearing the loop down.
				log.Printf("engine: draw skipped: %v", err)
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Non-blocking send - if the channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		// Engine not running, just update the field
		e.engineTickRate = newRate
	}
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}

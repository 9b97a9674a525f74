package main

import (
	"flag"
	"log"

	"github.com/NatC02/glb-freeze/config"
	"github.com/NatC02/glb-freeze/engine"
	"github.com/NatC02/glb-freeze/engine/animation"
	"github.com/NatC02/glb-freeze/engine/camera"
	"github.com/NatC02/glb-freeze/engine/frame"
	"github.com/NatC02/glb-freeze/engine/loader"
	"github.com/NatC02/glb-freeze/engine/renderer"
	"github.com/NatC02/glb-freeze/engine/scene"
	"github.com/NatC02/glb-freeze/engine/window"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the viewer config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// ── Model ───────────────────────────────────────────────────────────
	ldr := loader.NewLoader(loader.BackendTypeGLTF)
	mdl, err := ldr.Load(cfg.Model.Path)
	if err != nil {
		log.Fatalf("failed to load model %q: %v", cfg.Model.Path, err)
	}
	log.Printf("loaded model %q: %d nodes, %d meshes, %d clips",
		mdl.Name(), mdl.NodeCount(), len(mdl.Meshes()), mdl.AnimationCount())

	// ── Window + Renderer ───────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)

	// ── Camera ──────────────────────────────────────────────────────────
	cam := camera.NewCamera(
		camera.WithAspect(float32(win.Width()) / float32(win.Height())),
	)

	// ── Scene ───────────────────────────────────────────────────────────
	// The scene registers the animation advance task on the scheduler before
	// the controller exists, so freeze monitors always see post-advance time.
	runner := frame.NewRunner()
	scn := scene.NewScene(mdl.Name(), mdl, cam, r, runner,
		scene.WithFreezeTarget(cfg.Model.FreezeAt),
		scene.WithControllerOptions(animation.WithDebug(cfg.Debug)),
	)

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(scn),
		engine.WithScheduler(runner),
		engine.WithTickRate(60),
		engine.WithProfiling(cfg.Debug),
	)

	// ── Config live reload ──────────────────────────────────────────────
	// Editing the config file re-arms the freeze target for the next cycle;
	// a freeze already in effect keeps its captured pose.
	stopWatch, err := config.Watch(*configPath, func(next *config.Config) {
		if ctrl := scn.Controller(); ctrl != nil {
			ctrl.SetFreezeTarget(next.Model.FreezeAt)
			log.Printf("config: freeze target re-armed at %.3fs", next.Model.FreezeAt)
		}
	})
	if err != nil {
		log.Printf("config: live reload disabled: %v", err)
	} else {
		defer stopWatch()
	}

	log.Printf("starting viewer (click the model to play, click again while frozen to reset)")
	eng.Run()

	if err := win.Close(); err != nil {
		log.Printf("window close: %v", err)
	}
}

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingModelPath is returned when the config has no model path.
	ErrMissingModelPath = errors.New("model path is required")

	// ErrNegativeFreezeTime is returned when the freeze time is negative.
	ErrNegativeFreezeTime = errors.New("freeze time must be >= 0")
)

// Config is the viewer configuration, loaded from a YAML file.
type Config struct {
	Model  ModelConfig  `yaml:"model"`
	Window WindowConfig `yaml:"window"`

	// Debug enables controller state logging and the profiler stats line.
	Debug bool `yaml:"debug"`
}

// ModelConfig configures the model to load and its playback behavior.
type ModelConfig struct {
	// Path is the filesystem path of the glTF or GLB model to display.
	Path string `yaml:"path"`

	// FreezeAt is the playback time in seconds at which the animation is
	// frozen after a click starts it. Must be >= 0; a value beyond the clip
	// duration lets the animation play to the end without freezing.
	FreezeAt float32 `yaml:"freeze_at"`
}

// WindowConfig configures the viewer window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// applyDefaults fills zero-valued optional fields.
func (c *Config) applyDefaults() {
	if c.Window.Title == "" {
		c.Window.Title = "glb-freeze"
	}
	if c.Window.Width <= 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
}

// validate checks the required fields.
func (c *Config) validate() error {
	if c.Model.Path == "" {
		return ErrMissingModelPath
	}
	if c.Model.FreezeAt < 0 {
		return ErrNegativeFreezeTime
	}
	return nil
}

// Load reads, parses, and validates the YAML config at the given path.
// Optional fields receive defaults before validation.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - *Config: the loaded configuration
//   - error: an error if the file cannot be read, parsed, or validated
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

// Watch reloads the config whenever the file changes on disk and calls
// onReload with the new configuration. The containing directory is watched
// rather than the file itself so editors that replace the file atomically
// (write to temp, rename over) still trigger a reload. Reloads that fail to
// parse or validate are logged and skipped, keeping the last good config in
// effect.
//
// Parameters:
//   - path: the config file path to watch
//   - onReload: called with each successfully reloaded config
//
// Returns:
//   - func() error: stops the watcher when called
//   - error: an error if the watcher cannot be created
func Watch(path string, onReload func(*Config)) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					log.Printf("config: reload skipped: %v", err)
					continue
				}
				onReload(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config: watch error: %v", err)
			}
		}
	}()

	return watcher.Close, nil
}

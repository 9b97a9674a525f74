package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "viewer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "model:\n  path: box.glb\n  freeze_at: 0.5\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.Path != "box.glb" {
		t.Fatalf("expected model path box.glb, got %q", cfg.Model.Path)
	}
	if cfg.Model.FreezeAt != 0.5 {
		t.Fatalf("expected freeze_at 0.5, got %v", cfg.Model.FreezeAt)
	}
	if cfg.Window.Title != "glb-freeze" || cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Fatalf("expected window defaults, got %+v", cfg.Window)
	}
	if cfg.Debug {
		t.Fatal("expected debug to default to false")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "missing model path",
			content: "model:\n  freeze_at: 1\n",
			wantErr: ErrMissingModelPath,
		},
		{
			name:    "negative freeze time",
			content: "model:\n  path: box.glb\n  freeze_at: -0.1\n",
			wantErr: ErrNegativeFreezeTime,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "model: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "model:\n  path: box.glb\n  freeze_at: 0.5\n")

	reloaded := make(chan *Config, 1)
	stop, err := Watch(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("unexpected watch error: %v", err)
	}
	defer stop()

	writeConfig(t, dir, "model:\n  path: box.glb\n  freeze_at: 1.25\n")

	select {
	case cfg := <-reloaded:
		if cfg.Model.FreezeAt != 1.25 {
			t.Fatalf("expected reloaded freeze_at 1.25, got %v", cfg.Model.FreezeAt)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatchSkipsInvalidReload(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "model:\n  path: box.glb\n  freeze_at: 0.5\n")

	reloaded := make(chan *Config, 4)
	stop, err := Watch(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("unexpected watch error: %v", err)
	}
	defer stop()

	// Invalid content must not reach the callback.
	writeConfig(t, dir, "model:\n  freeze_at: 2\n")
	// A following valid write still reloads.
	writeConfig(t, dir, "model:\n  path: box.glb\n  freeze_at: 2\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			if cfg.Model.Path == "" {
				t.Fatal("invalid config reached the reload callback")
			}
			if cfg.Model.FreezeAt == 2 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for valid config reload")
		}
	}
}

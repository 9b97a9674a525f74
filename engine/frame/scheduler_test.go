package frame

import "testing"

func TestRunnerRunsTasksInRegistrationOrder(t *testing.T) {
	r := NewRunner()
	var order []int
	r.Schedule(func(_ float32) { order = append(order, 1) })
	r.Schedule(func(_ float32) { order = append(order, 2) })
	r.Schedule(func(_ float32) { order = append(order, 3) })

	r.Run(1.0 / 60.0)
	r.Run(1.0 / 60.0)

	want := []int{1, 2, 3, 1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("step %d: expected task %d, got %d", i, want[i], order[i])
		}
	}
}

func TestRunnerPassesDeltaTime(t *testing.T) {
	r := NewRunner()
	var got float32
	r.Schedule(func(dt float32) { got = dt })
	r.Run(0.25)
	if got != 0.25 {
		t.Fatalf("expected delta time 0.25, got %f", got)
	}
}

func TestRunnerCancelStopsTask(t *testing.T) {
	r := NewRunner()
	count := 0
	cancel := r.Schedule(func(_ float32) { count++ })

	r.Run(1.0 / 60.0)
	cancel()
	r.Run(1.0 / 60.0)
	r.Run(1.0 / 60.0)

	if count != 1 {
		t.Fatalf("expected 1 step before cancel, got %d", count)
	}
	if n := r.TaskCount(); n != 0 {
		t.Fatalf("expected 0 live tasks after cancel, got %d", n)
	}
}

func TestRunnerSelfCancelFromStep(t *testing.T) {
	r := NewRunner()
	count := 0
	var cancel CancelFunc
	cancel = r.Schedule(func(_ float32) {
		count++
		cancel()
	})

	r.Run(1.0 / 60.0)
	r.Run(1.0 / 60.0)

	if count != 1 {
		t.Fatalf("expected task to run once before self-cancel, got %d", count)
	}
}

func TestRunnerTaskScheduledDuringFrameStartsNextFrame(t *testing.T) {
	r := NewRunner()
	nested := 0
	r.Schedule(func(_ float32) {
		if nested == 0 {
			r.Schedule(func(_ float32) { nested++ })
		}
	})

	r.Run(1.0 / 60.0)
	if nested != 0 {
		t.Fatal("task scheduled mid-frame must not run in the same frame")
	}
	r.Run(1.0 / 60.0)
	if nested != 1 {
		t.Fatalf("expected nested task to run on the following frame, got %d runs", nested)
	}
}

func TestRunnerCancelIsIdempotent(t *testing.T) {
	r := NewRunner()
	cancel := r.Schedule(func(_ float32) {})
	cancel()
	cancel()
	if n := r.TaskCount(); n != 0 {
		t.Fatalf("expected 0 live tasks, got %d", n)
	}
}

package quiz

import (
	"context"
	"testing"
	"time"
)

func waitFor(t *testing.T, cd *Countdown, want TimerToken) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case got := <-cd.C:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("token %d never delivered", want)
		}
	}
}

func TestCountdown_DeliversToken(t *testing.T) {
	cd := NewCountdown(5 * time.Millisecond)
	defer cd.Stop()

	cd.Restart(context.Background(), 7)
	waitFor(t, cd, 7)
}

func TestCountdown_RestartReplacesToken(t *testing.T) {
	cd := NewCountdown(5 * time.Millisecond)
	defer cd.Stop()
	ctx := context.Background()

	cd.Restart(ctx, 1)
	waitFor(t, cd, 1)
	cd.Restart(ctx, 2)
	waitFor(t, cd, 2)

	// After the new ticker is seen, the old one must be gone.
	for i := 0; i < 5; i++ {
		if got := <-cd.C; got != 2 {
			t.Fatalf("stale token %d after restart", got)
		}
	}
}

func TestCountdown_StopHaltsDelivery(t *testing.T) {
	cd := NewCountdown(5 * time.Millisecond)
	cd.Restart(context.Background(), 3)
	waitFor(t, cd, 3)
	cd.Stop()

	// Drain anything buffered before Stop returned.
	select {
	case <-cd.C:
	default:
	}

	select {
	case tok := <-cd.C:
		t.Fatalf("tick %d after stop", tok)
	case <-time.After(30 * time.Millisecond):
	}

	cd.Stop()
}

func TestCountdown_ContextCancel(t *testing.T) {
	cd := NewCountdown(5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cd.Restart(ctx, 9)
	waitFor(t, cd, 9)
	cancel()
	cd.Stop()
}

func TestCountdown_DrivesEngine(t *testing.T) {
	e, err := NewEngine("mathematics", 1, sampleQuestions(), WithTimerSeconds(2))
	if err != nil {
		t.Fatal(err)
	}
	cd := NewCountdown(2 * time.Millisecond)
	defer cd.Stop()

	cd.Restart(context.Background(), e.Start())
	deadline := time.After(time.Second)
	for e.Phase() == PhasePresenting {
		select {
		case tok := <-cd.C:
			e.Tick(tok)
		case <-deadline:
			t.Fatal("countdown never expired")
		}
	}
	rec, _ := e.LastRecord()
	if rec.Selected != NoAnswer {
		t.Errorf("Selected = %q, want %q", rec.Selected, NoAnswer)
	}
}

package quiz

import (
	"context"
	"sync"
	"time"
)

// Countdown delivers the engine's timer token on C once per interval from a
// background goroutine. It drives the engine outside the TUI, where no
// framework tick is available. Only one ticker runs at a time.
type Countdown struct {
	// C receives the token of the running countdown on every tick.
	C <-chan TimerToken

	c        chan TimerToken
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCountdown creates a stopped countdown.
func NewCountdown(interval time.Duration) *Countdown {
	c := make(chan TimerToken, 1)
	return &Countdown{C: c, c: c, interval: interval}
}

// Restart stops any running ticker, waits for it to exit, then starts a
// new one for token.
func (cd *Countdown) Restart(ctx context.Context, token TimerToken) {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	cd.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	cd.cancel = cancel
	cd.done = done

	go cd.run(ctx, token, done)
}

// Stop halts the running ticker. Tokens already buffered on C may still be
// read; the engine discards them as stale.
func (cd *Countdown) Stop() {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	cd.stopLocked()
}

func (cd *Countdown) stopLocked() {
	if cd.cancel == nil {
		return
	}
	cd.cancel()
	<-cd.done
	cd.cancel = nil
	cd.done = nil
}

func (cd *Countdown) run(ctx context.Context, token TimerToken, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(cd.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case cd.c <- token:
			case <-ctx.Done():
				return
			}
		}
	}
}

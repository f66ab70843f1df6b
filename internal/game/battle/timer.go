package battle

import (
	"sync"
	"time"
)

// TurnTimer schedules the enemy turn continuation after a fixed delay. It is
// safe for concurrent use.
type TurnTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewTurnTimer starts a timer that calls onFire after delay in its own
// goroutine.
//
// Precondition: delay > 0; onFire must not be nil.
// Postcondition: onFire will be called unless Stop is called first.
func NewTurnTimer(delay time.Duration, onFire func()) *TurnTimer {
	tt := &TurnTimer{}
	tt.timer = time.AfterFunc(delay, tt.guard(onFire))
	return tt
}

func (tt *TurnTimer) guard(onFire func()) func() {
	return func() {
		tt.mu.Lock()
		stopped := tt.stopped
		tt.mu.Unlock()
		if !stopped {
			onFire()
		}
	}
}

// Reset cancels the pending call and schedules onFire after delay from now.
func (tt *TurnTimer) Reset(delay time.Duration, onFire func()) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.timer.Stop()
	tt.stopped = false
	tt.timer = time.AfterFunc(delay, tt.guard(onFire))
}

// Stop prevents the pending call. Safe to call multiple times.
func (tt *TurnTimer) Stop() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.stopped = true
	tt.timer.Stop()
}

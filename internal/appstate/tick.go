package appstate

import (
	"sync"
	"time"
)

// tickInterval is how often an animated preview is repainted.
const tickInterval = 200 * time.Millisecond

// tickEvent is posted to the window queue when a tick fires.
type tickEvent struct{}

// animator arms at most one pending tick. The timer goroutine only calls
// post; whether another tick is needed is decided on the event loop.
type animator struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	post     func()
}

func newAnimator(post func()) *animator {
	return &animator{interval: tickInterval, post: post}
}

// schedule arms a tick if active and none is pending.
func (a *animator) schedule(active bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !active || a.timer != nil {
		return
	}
	a.timer = time.AfterFunc(a.interval, a.fire)
}

func (a *animator) fire() {
	a.mu.Lock()
	a.timer = nil
	a.mu.Unlock()
	a.post()
}

func (a *animator) pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

func (a *animator) stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

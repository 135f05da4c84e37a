// Package dblock implements the single lock guarding the song tree.
//
// Callers acquire a guard before touching the tree and pass it to every tree
// operation; operations assert that the guard is still held. Mutations need
// the exclusive [Guard], lookups and walks accept any [Holder].
package dblock

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/desertthunder/songdb/internal/metrics"
)

// Holder is satisfied by both guard kinds.
type Holder interface {
	// AssertHeld panics if the guard has been released.
	AssertHeld()

	owner() *Lock
}

// Assert panics unless h is a live guard.
func Assert(h Holder) {
	if h == nil {
		panic("dblock: lock not held")
	}
	h.AssertHeld()
}

// AssertHolds panics unless h is a live guard taken from l.
// A guard from any other lock never grants access to what l protects.
func AssertHolds(h Holder, l *Lock) {
	Assert(h)
	if l == nil || h.owner() != l {
		panic("dblock: guard belongs to a different lock")
	}
	if !l.Held() {
		panic("dblock: lock not held")
	}
}

// Lock guards one song tree. The zero value is ready to use.
type Lock struct {
	mu      sync.RWMutex
	writer  atomic.Bool
	readers atomic.Int32
}

// Guard is the token for exclusive access.
type Guard struct {
	lock     *Lock
	released atomic.Bool
}

// ReadGuard is the token for shared access.
type ReadGuard struct {
	lock     *Lock
	released atomic.Bool
}

// Lock blocks until exclusive access is available.
func (l *Lock) Lock() *Guard {
	start := time.Now()
	l.mu.Lock()
	metrics.LockWaitSeconds.WithLabelValues("exclusive").Observe(time.Since(start).Seconds())

	l.writer.Store(true)
	return &Guard{lock: l}
}

// RLock blocks until shared access is available.
func (l *Lock) RLock() *ReadGuard {
	start := time.Now()
	l.mu.RLock()
	metrics.LockWaitSeconds.WithLabelValues("shared").Observe(time.Since(start).Seconds())

	l.readers.Add(1)
	return &ReadGuard{lock: l}
}

// TryLock acquires exclusive access if it is free right now.
func (l *Lock) TryLock() (*Guard, bool) {
	if !l.mu.TryLock() {
		return nil, false
	}
	l.writer.Store(true)
	return &Guard{lock: l}, true
}

// Held reports whether anyone holds the lock in either mode.
func (l *Lock) Held() bool {
	return l.writer.Load() || l.readers.Load() > 0
}

// With runs fn while holding the exclusive guard. The guard is released on every exit path.
func (l *Lock) With(fn func(g *Guard) error) error {
	g := l.Lock()
	defer g.Release()
	return fn(g)
}

// WithRead runs fn while holding a shared guard.
func (l *Lock) WithRead(fn func(g *ReadGuard) error) error {
	g := l.RLock()
	defer g.Release()
	return fn(g)
}

// Release gives up exclusive access. Releasing twice is a programming error.
func (g *Guard) Release() {
	if g == nil || !g.released.CompareAndSwap(false, true) {
		panic("dblock: exclusive guard released twice")
	}
	g.lock.writer.Store(false)
	g.lock.mu.Unlock()
}

// AssertHeld panics unless g is a live exclusive guard.
func (g *Guard) AssertHeld() {
	if g == nil {
		panic("dblock: nil exclusive guard")
	}
	if g.released.Load() {
		panic("dblock: exclusive guard used after release")
	}
}

func (g *Guard) owner() *Lock { return g.lock }

// Release gives up shared access.
func (g *ReadGuard) Release() {
	if g == nil || !g.released.CompareAndSwap(false, true) {
		panic("dblock: shared guard released twice")
	}
	g.lock.readers.Add(-1)
	g.lock.mu.RUnlock()
}

// AssertHeld panics unless g is a live shared guard.
func (g *ReadGuard) AssertHeld() {
	if g == nil {
		panic("dblock: nil shared guard")
	}
	if g.released.Load() {
		panic("dblock: shared guard used after release")
	}
}

func (g *ReadGuard) owner() *Lock { return g.lock }

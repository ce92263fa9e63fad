package timerpool

import (
	"sync"
	"time"
)

// TimerPool is a type-safe wrapper over [sync.Pool] for *time.Timer. It does
// not depend on the Go 1.23 timer semantics (this module declares go 1.21):
// Rearm performs the stop-drain-reset sequence that makes reusing a timer
// safe under the older semantics as well.
type TimerPool struct {
	p sync.Pool
}

func (tp *TimerPool) Init() {
	tp.p.New = func() any {
		return time.NewTimer(0)
	}
}

func (tp *TimerPool) Get() *time.Timer {
	return tp.p.Get().(*time.Timer)
}

func (tp *TimerPool) Put(t *time.Timer) {
	tp.p.Put(t)
}

// Rearm stops t if it hasn't already fired, drains a stale tick left behind
// by a Stop that lost the race, and resets it to fire after d. It's the
// stop-drain-reset dance every caller of a reused timer has to do before a
// second Reset is safe, folded into one call so a wake-timeout loop that
// spins on a pooled timer doesn't have to repeat it inline.
func (tp *TimerPool) Rearm(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

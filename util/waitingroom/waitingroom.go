package waitingroom

import (
	"sort"
	"sync"
	"time"

	"github.com/lunfardo314/unitrie/common"
	"go.uber.org/atomic"
)

// WaitingRoom calls functions when their deadline has passed. Deadlines are checked every period
type WaitingRoom struct {
	mutex   sync.Mutex
	waiting map[time.Time][]func()
	period  time.Duration
	stopped atomic.Bool
	stopCh  chan struct{}
}

const DefaultPeriod = 100 * time.Millisecond

func New(period ...time.Duration) *WaitingRoom {
	ret := &WaitingRoom{
		waiting: make(map[time.Time][]func()),
		period:  DefaultPeriod,
		stopCh:  make(chan struct{}),
	}
	if len(period) > 0 && period[0] > 0 {
		ret.period = period[0]
	}
	go ret.loop()
	return ret
}

func (w *WaitingRoom) loop() {
	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case now := <-ticker.C:
			for _, fun := range w.due(now) {
				fun()
			}
		}
	}
}

// due removes and returns functions with deadline not after now, earliest first
func (w *WaitingRoom) due(now time.Time) []func() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	deadlines := make([]time.Time, 0)
	for t := range w.waiting {
		if !t.After(now) {
			deadlines = append(deadlines, t)
		}
	}
	sort.Slice(deadlines, func(i, j int) bool {
		return deadlines[i].Before(deadlines[j])
	})
	ret := make([]func(), 0)
	for _, t := range deadlines {
		ret = append(ret, w.waiting[t]...)
		delete(w.waiting, t)
	}
	return ret
}

// Stop discards all waiting functions. Idempotent
func (w *WaitingRoom) Stop() {
	if w.stopped.Swap(true) {
		return
	}
	close(w.stopCh)

	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.waiting = make(map[time.Time][]func())
}

func (w *WaitingRoom) WaitUntil(t time.Time, fun func()) {
	common.Assert(w.schedule(t, fun), "WaitingRoom already stopped")
}

func (w *WaitingRoom) schedule(t time.Time, fun func()) bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.stopped.Load() {
		return false
	}
	w.waiting[t] = append(w.waiting[t], fun)
	return true
}

func (w *WaitingRoom) CallDelayed(d time.Duration, fun func()) {
	w.WaitUntil(time.Now().Add(d), fun)
}

// Repeat calls fun every d until the waiting room is stopped
func (w *WaitingRoom) Repeat(d time.Duration, fun func()) {
	var next func()
	next = func() {
		if w.stopped.Load() {
			return
		}
		fun()
		w.schedule(time.Now().Add(d), next)
	}
	w.schedule(time.Now().Add(d), next)
}

func (w *WaitingRoom) Len() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	ret := 0
	for _, l := range w.waiting {
		ret += len(l)
	}
	return ret
}

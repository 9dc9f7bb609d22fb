package waitingroom

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestWaitingRoom(t *testing.T) {
	t.Run("1", func(t *testing.T) {
		wr := New(10 * time.Millisecond)
		defer wr.Stop()

		var wg sync.WaitGroup
		wg.Add(1)

		var mutex sync.Mutex
		order := make([]int, 0)
		add := func(i int) {
			mutex.Lock()
			defer mutex.Unlock()
			order = append(order, i)
		}

		wr.WaitUntil(time.Now().Add(300*time.Millisecond), func() {
			add(3)
			wg.Done()
		})
		wr.CallDelayed(10*time.Millisecond, func() { add(1) })
		wr.CallDelayed(150*time.Millisecond, func() { add(2) })

		wg.Wait()
		require.EqualValues(t, []int{1, 2, 3}, order)
		require.EqualValues(t, 0, wr.Len())
	})
	t.Run("2", func(t *testing.T) {
		wr := New(5 * time.Millisecond)
		var counter atomic.Int32
		wr.Repeat(10*time.Millisecond, func() { counter.Inc() })
		require.Eventually(t, func() bool {
			return counter.Load() >= 3
		}, 2*time.Second, 5*time.Millisecond)
		wr.Stop()
		require.NotPanics(t, wr.Stop)
		require.Panics(t, func() {
			wr.CallDelayed(time.Millisecond, func() {})
		})
	})
	t.Run("3", func(t *testing.T) {
		wr := New(5 * time.Millisecond)
		called := atomic.NewBool(false)
		wr.CallDelayed(time.Hour, func() { called.Store(true) })
		require.EqualValues(t, 1, wr.Len())
		wr.Stop()
		require.EqualValues(t, 0, wr.Len())
		require.False(t, called.Load())
	})
}

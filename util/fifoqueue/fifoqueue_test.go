package fifoqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBasic(t *testing.T) {
	t.Run("1", func(t *testing.T) {
		q := New[[]byte]()
		require.EqualValues(t, 0, q.Len())
		q.Write([]byte("one"))
		q.Write([]byte("two"))
		require.EqualValues(t, 2, q.Len())
		e, ok := q.read()
		require.True(t, ok)
		require.EqualValues(t, "one", string(e))
		e, ok = q.read()
		require.True(t, ok)
		require.EqualValues(t, "two", string(e))
		require.EqualValues(t, 0, q.Len())
	})
	t.Run("2", func(t *testing.T) {
		q := New[string]()
		q.Write("one")
		q.CloseNow()
		_, ok := q.read()
		require.False(t, ok)
		require.EqualValues(t, 1, q.Len())
		require.False(t, q.TryWrite("two"))
		require.NotPanics(t, q.CloseNow)
	})
	t.Run("3", func(t *testing.T) {
		q := New[int]()
		q.Write(1)
		q.Close()
		require.False(t, q.TryWrite(2))
		require.Panics(t, func() {
			q.Write(3)
		})
		e, ok := q.read()
		require.True(t, ok)
		require.EqualValues(t, 1, e)
		_, ok = q.read()
		require.False(t, ok)
	})
	t.Run("4", func(t *testing.T) {
		q := New[int]()
		for i := 0; i < 10000; i++ {
			q.Write(i)
			require.EqualValues(t, i+1, q.Len())
		}
		for i := 0; i < 10000; i++ {
			ib, ok := q.read()
			require.True(t, ok)
			require.EqualValues(t, i, ib)
		}
		require.EqualValues(t, 0, q.Len())
	})
}

func TestConsumeOrder(t *testing.T) {
	q := New[int]()
	go func() {
		for i := 0; i < 100; i++ {
			q.Write(i)
			if i%10 == 0 {
				time.Sleep(time.Millisecond)
			}
		}
		q.Close()
	}()
	var wg sync.WaitGroup
	wg.Add(1)
	received := make([]int, 0, 100)
	go func() {
		defer wg.Done()
		q.Consume(func(e int) {
			received = append(received, e)
		})
	}()
	wg.Wait()
	require.EqualValues(t, 100, len(received))
	for i, e := range received {
		require.EqualValues(t, i, e)
	}
	require.EqualValues(t, 0, q.Len())
}

func BenchmarkRW(b *testing.B) {
	q := New[int]()
	for i := 0; i < b.N; i++ {
		q.Write(i)
	}
	for i := 0; i < b.N; i++ {
		_, _ = q.read()
	}
}

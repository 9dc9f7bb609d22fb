package fifoqueue

import (
	"sync"

	"github.com/gammazero/deque"
)

// Queue is an unbounded synchronized FIFO queue. Writers never block
type Queue[T any] struct {
	d       *deque.Deque[T]
	mutex   sync.Mutex
	out     chan T
	closing bool
	once    sync.Once
}

func New[T any]() *Queue[T] {
	return &Queue[T]{
		d:   new(deque.Deque[T]),
		out: make(chan T),
	}
}

// Write pushes element. Panics if the queue is closed
func (q *Queue[T]) Write(elem T) {
	if !q.TryWrite(elem) {
		panic("attempt to write to the closed fifoqueue.Queue")
	}
}

// TryWrite pushes element. Returns false if the queue is closed
func (q *Queue[T]) TryWrite(elem T) bool {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.closing {
		return false
	}
	q.d.PushBack(elem)

	// hand over directly if a reader is waiting
	select {
	case q.out <- q.d.Front():
		q.d.PopFront()
	default:
	}
	return true
}

// CloseNow closes the queue immediately. Buffered elements are lost
func (q *Queue[T]) CloseNow() {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.closing = true
	q.once.Do(func() {
		close(q.out)
	})
}

// Close closes the queue when all elements are read
func (q *Queue[T]) Close() {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.closing = true
	if q.d.Len() == 0 {
		q.once.Do(func() {
			close(q.out)
		})
	}
}

func (q *Queue[T]) read() (T, bool) {
	select {
	case ret, ok := <-q.out:
		return ret, ok
	default:
	}

	q.mutex.Lock()
	if q.d.Len() > 0 {
		defer q.mutex.Unlock()
		return q.d.PopFront(), true
	}
	if q.closing {
		q.once.Do(func() {
			close(q.out)
		})
	}
	q.mutex.Unlock()

	ret, ok := <-q.out
	return ret, ok
}

// Consume calls fun for every element until the queue is closed
func (q *Queue[T]) Consume(fun func(elem T)) {
	for {
		e, ok := q.read()
		if !ok {
			return
		}
		fun(e)
	}
}

// Len is the number of buffered elements. Non-deterministic
func (q *Queue[T]) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return q.d.Len()
}

// Package collection provides utility data structures.
package collection

import (
	"container/heap"
)

// PriorityQueue pops elements in the order defined by less.
// Elements that are equal under less pop in the order they were pushed.
type PriorityQueue[T any] struct {
	h   entries[T]
	seq uint64
}

type entry[T any] struct {
	value T
	seq   uint64
}

type entries[T any] struct {
	data []entry[T]
	less func(a, b T) bool
}

func (e *entries[T]) Len() int { return len(e.data) }

func (e *entries[T]) Less(i, j int) bool {
	a, b := e.data[i], e.data[j]
	if e.less(a.value, b.value) {
		return true
	}
	if e.less(b.value, a.value) {
		return false
	}

	return a.seq < b.seq
}

func (e *entries[T]) Swap(i, j int) { e.data[i], e.data[j] = e.data[j], e.data[i] }

func (e *entries[T]) Push(x any) { e.data = append(e.data, x.(entry[T])) }

func (e *entries[T]) Pop() any {
	last := e.data[len(e.data)-1]
	e.data = e.data[:len(e.data)-1]
	return last
}

func NewPriorityQueue[T any](less func(a, b T) bool) *PriorityQueue[T] {
	return &PriorityQueue[T]{
		h: entries[T]{less: less},
	}
}

func (q *PriorityQueue[T]) Push(v T) {
	heap.Push(&q.h, entry[T]{value: v, seq: q.seq})
	q.seq++
}

// Pop removes and returns the smallest element, or the zero value if the queue is empty.
func (q *PriorityQueue[T]) Pop() T {
	if q.h.Len() == 0 {
		var zero T
		return zero
	}

	return heap.Pop(&q.h).(entry[T]).value
}

func (q *PriorityQueue[T]) Len() int {
	return q.h.Len()
}

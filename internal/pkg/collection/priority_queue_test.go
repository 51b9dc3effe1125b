package collection

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityQueue_Pop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []int
		want   []int
	}{
		{
			name:   "already sorted",
			values: []int{1, 2, 3},
			want:   []int{1, 2, 3},
		},
		{
			name:   "reverse order",
			values: []int{5, 4, 3, 2, 1},
			want:   []int{1, 2, 3, 4, 5},
		},
		{
			name:   "duplicates",
			values: []int{3, 1, 3, 2, 1},
			want:   []int{1, 1, 2, 3, 3},
		},
		{
			name:   "single value",
			values: []int{42},
			want:   []int{42},
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := NewPriorityQueue(cmp.Less[int])
			for _, v := range tt.values {
				q.Push(v)
			}
			assert.Equal(t, len(tt.values), q.Len())

			var got []int
			for q.Len() > 0 {
				got = append(got, q.Pop())
			}

			assert.Equal(t, tt.want, got)
			assert.Zero(t, q.Len())
		})
	}
}

// TestPriorityQueue_Stable verifies that equal elements keep their push order.
func TestPriorityQueue_Stable(t *testing.T) {
	t.Parallel()

	type item struct {
		key   string
		order int
	}

	q := NewPriorityQueue(func(a, b item) bool { return a.key < b.key })
	q.Push(item{key: "b", order: 0})
	q.Push(item{key: "a", order: 1})
	q.Push(item{key: "b", order: 2})
	q.Push(item{key: "a", order: 3})
	q.Push(item{key: "b", order: 4})

	var orders []int
	for q.Len() > 0 {
		orders = append(orders, q.Pop().order)
	}

	assert.Equal(t, []int{1, 3, 0, 2, 4}, orders)
}

func TestPriorityQueue_EmptyPop(t *testing.T) {
	t.Parallel()

	q := NewPriorityQueue(cmp.Less[string])
	assert.Equal(t, "", q.Pop())

	q.Push("z")
	q.Push("m")
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, "m", q.Pop())
}

func TestPriorityQueue_PushWhilePopping(t *testing.T) {
	t.Parallel()

	q := NewPriorityQueue(cmp.Less[int])
	q.Push(10)
	q.Push(1)

	var got []int
	for q.Len() > 0 {
		v := q.Pop()
		got = append(got, v)
		if v == 1 {
			q.Push(5)
		}
	}

	assert.Equal(t, []int{1, 5, 10}, got)
}

package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapacity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries int
		want    int
	}{
		{name: "no entries", entries: 0, want: 0},
		{name: "negative entries", entries: -1, want: 0},
		{name: "one entry", entries: 1, want: 2},
		{name: "two entries", entries: 2, want: 3},
		{name: "five entries", entries: 5, want: 7},
		{name: "six entries", entries: 6, want: 11},
		{name: "ten entries", entries: 10, want: 13},
		{name: "hundred entries", entries: 100, want: 131},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Capacity(tt.entries))
		})
	}
}

// TestCapacity_Property checks that the capacity is a prime of at least 1.3 times the entries.
func TestCapacity_Property(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 5000; n++ {
		c := Capacity(n)
		if !isPrime(c) {
			t.Fatalf("Capacity(%d) = %d is not prime", n, c)
		}
		if c*10 < n*13 {
			t.Fatalf("Capacity(%d) = %d is less than %d * 1.3", n, c, n)
		}
		if c <= n {
			t.Fatalf("Capacity(%d) = %d leaves no free slot", n, c)
		}
	}
}

func TestNextPrime(t *testing.T) {
	t.Parallel()

	tests := map[int]int{
		-5: 2,
		0:  2,
		1:  2,
		2:  2,
		3:  3,
		4:  5,
		8:  11,
		9:  11,
		14: 17,
		24: 29,
		90: 97,
	}

	for in, want := range tests {
		assert.Equal(t, want, NextPrime(in), "NextPrime(%d)", in)
	}
}

func TestIsPrime(t *testing.T) {
	t.Parallel()

	primes := []int{2, 3, 5, 7, 11, 13, 97, 7919}
	for _, p := range primes {
		assert.True(t, isPrime(p), "%d", p)
	}

	composites := []int{-7, 0, 1, 4, 9, 15, 25, 49, 91, 7917}
	for _, c := range composites {
		assert.False(t, isPrime(c), "%d", c)
	}
}

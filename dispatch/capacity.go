package dispatch

// Capacity returns the table capacity for the given number of entries:
// the smallest prime that is at least ceil(entries * 1.3).
// It returns 0 when there are no entries, in which case no table is needed.
func Capacity(entries int) int {
	if entries <= 0 {
		return 0
	}

	// ceil(entries * 13 / 10) without floating point rounding.
	return NextPrime((entries*13 + 9) / 10)
}

// NextPrime returns the smallest prime greater than or equal to v.
func NextPrime(v int) int {
	if v <= 2 {
		return 2
	}

	for !isPrime(v) {
		v++
	}

	return v
}

func isPrime(v int) bool {
	if v < 2 {
		return false
	}
	if v%2 == 0 {
		return v == 2
	}

	for i := 3; i*i <= v; i += 2 {
		if v%i == 0 {
			return false
		}
	}

	return true
}

package mathutil

// GCD returns the greatest common divisor of two non-negative integers.
func GCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LargestPrimeFactor returns the largest prime factor of n.
// It returns n itself for n < 2.
func LargestPrimeFactor(n int) int {
	if n < 2 {
		return n
	}
	largest := 1
	for n%2 == 0 {
		largest = 2
		n /= 2
	}
	for p := 3; p*p <= n; p += 2 {
		for n%p == 0 {
			largest = p
			n /= p
		}
	}
	if n > 1 {
		largest = n
	}
	return largest
}

// NextPowerOfTwo returns the smallest power of two that is >= n.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

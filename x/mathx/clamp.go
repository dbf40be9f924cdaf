package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SubFloor returns a-b, floored at zero.
func SubFloor[T constraints.Integer](a, b T) T {
	if a > b {
		return a - b
	}
	return 0
}

// Wrap steps i by delta inside [0, n). n <= 0 yields 0.
func Wrap[T constraints.Signed](i, delta, n T) T {
	if n <= 0 {
		return 0
	}
	r := (i + delta) % n
	if r < 0 {
		r += n
	}
	return r
}

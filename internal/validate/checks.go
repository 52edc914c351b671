package validate

import "github.com/san-kum/algoviz/internal/step"

// MaxMagnitude bounds edge weights, matrix entries and item values. A path
// through a couple of hundred such edges still sums well below step.Inf.
const MaxMagnitude = 1_000_000

// SameLength rejects paired arrays of different lengths.
func SameLength(fieldA string, a []int, fieldB string, b []int) error {
	if len(a) != len(b) {
		return newError(LengthMismatch, fieldB, "%s has %d entries but %s has %d", fieldA, len(a), fieldB, len(b))
	}
	return nil
}

// InRange checks lo <= v <= hi.
func InRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return newError(OutOfBounds, field, "%d is outside [%d, %d]", v, lo, hi)
	}
	return nil
}

// Sorted requires a non-decreasing array.
func Sorted(field string, a []int) error {
	for i := 1; i < len(a); i++ {
		if a[i] < a[i-1] {
			return newError(ConstraintViolation, field, "array must be sorted ascending (%d follows %d)", a[i], a[i-1])
		}
	}
	return nil
}

// NonNegative rejects negative entries.
func NonNegative(field string, a ...int) error {
	for _, v := range a {
		if v < 0 {
			return newError(ConstraintViolation, field, "negative value %d is not allowed", v)
		}
	}
	return nil
}

// Positive rejects entries <= 0.
func Positive(field string, a ...int) error {
	for _, v := range a {
		if v <= 0 {
			return newError(ConstraintViolation, field, "value must be positive, got %d", v)
		}
	}
	return nil
}

// AtMost enforces an upper bound that keeps tables and animations tractable.
func AtMost(field string, v, max int) error {
	if v > max {
		return newError(ConstraintViolation, field, "%d exceeds the limit of %d", v, max)
	}
	return nil
}

// Magnitude rejects entries whose absolute value exceeds MaxMagnitude.
// step.Inf entries mark missing edges and are skipped.
func Magnitude(field string, a ...int) error {
	for _, v := range a {
		if v == step.Inf {
			continue
		}
		if v > MaxMagnitude || v < -MaxMagnitude {
			return newError(OutOfBounds, field, "%d is outside [%d, %d]", v, -MaxMagnitude, MaxMagnitude)
		}
	}
	return nil
}

// MinLength requires at least n entries.
func MinLength(field string, a []int, n int) error {
	if len(a) < n {
		return newError(ConstraintViolation, field, "at least %d values are required, got %d", n, len(a))
	}
	return nil
}

// Indices checks every pair element is a valid index into a collection of size n.
func Indices(field string, pairs [][2]int, n int) error {
	for _, p := range pairs {
		for _, v := range p {
			if v < 0 || v >= n {
				return newError(OutOfBounds, field, "index %d is outside [0, %d)", v, n)
			}
		}
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

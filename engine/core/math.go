package core

import "golang.org/x/exp/constraints"

func Clamp[T constraints.Ordered](value, low, high T) T {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// ConditionalOperator mimics the ternary operator.
func ConditionalOperator[T any](condition bool, whenTrue, whenFalse T) T {
	if condition {
		return whenTrue
	}
	return whenFalse
}

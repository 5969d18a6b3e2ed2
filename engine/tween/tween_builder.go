package tween

type ScalarTweenBuilderOption func(*scalarTweenImpl)

// WithValue sets the starting value of the tween.
//
// Parameters:
//   - v: the initial value
//
// Returns:
//   - ScalarTweenBuilderOption: a function that sets the initial value
func WithValue(v float64) ScalarTweenBuilderOption {
	return func(t *scalarTweenImpl) {
		t.current = v
	}
}

// WithBounds limits every value the tween produces to [min, max].
//
// Parameters:
//   - min: lower bound
//   - max: upper bound
//
// Returns:
//   - ScalarTweenBuilderOption: a function that sets the bounds
func WithBounds(min, max float64) ScalarTweenBuilderOption {
	return func(t *scalarTweenImpl) {
		t.min = min
		t.max = max
	}
}

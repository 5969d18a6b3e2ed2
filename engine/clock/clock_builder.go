package clock

type ClockBuilderOption func(*clockImpl)

// WithStart sets the initial camera time.
//
// Parameters:
//   - ms: the starting time in milliseconds
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithStart(ms int64) ClockBuilderOption {
	return func(c *clockImpl) {
		c.now = ms
	}
}

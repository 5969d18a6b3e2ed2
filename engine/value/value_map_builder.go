package value

type MapBuilderOption func(*mapImpl)

// WithChannelBinding binds a channel to a host value. Channels registered as capturing
// take their default from the first read of the binding.
//
// Parameters:
//   - id: the channel to bind
//   - b: the host binding
//
// Returns:
//   - MapBuilderOption: a function that registers the binding
func WithChannelBinding(id ID, b Binding) MapBuilderOption {
	return func(m *mapImpl) {
		if b == nil {
			return
		}
		m.bindings[id] = b
	}
}

// BindingFuncs adapts a getter and setter pair to a Binding.
type BindingFuncs struct {
	GetFunc func() float64
	SetFunc func(v float64)
}

func (b BindingFuncs) Get() float64 {
	if b.GetFunc == nil {
		return 0
	}
	return b.GetFunc()
}

func (b BindingFuncs) Set(v float64) {
	if b.SetFunc != nil {
		b.SetFunc(v)
	}
}

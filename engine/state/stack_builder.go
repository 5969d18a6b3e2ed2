package state

import "github.com/Carmen-Shannon/oxy-ifpv/engine/profile"

type StackBuilderOption func(*stackImpl)

// WithController sets the camera the states call back into.
//
// Parameters:
//   - c: the controller
//
// Returns:
//   - StackBuilderOption: option function to apply
func WithController(c Controller) StackBuilderOption {
	return func(s *stackImpl) {
		s.controller = c
	}
}

// WithProfiles adds one custom state per profile.
//
// Parameters:
//   - profiles: the loaded profiles
//
// Returns:
//   - StackBuilderOption: option function to apply
func WithProfiles(profiles ...*profile.Profile) StackBuilderOption {
	return func(s *stackImpl) {
		for _, p := range profiles {
			if p != nil {
				s.add(NewCustom(p))
			}
		}
	}
}

// WithStates adds extra states.
func WithStates(states ...State) StackBuilderOption {
	return func(s *stackImpl) {
		s.add(states...)
	}
}

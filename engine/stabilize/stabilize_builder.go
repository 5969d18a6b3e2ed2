package stabilize

import "github.com/Carmen-Shannon/oxy-ifpv/engine/target"

type StabilizerBuilderOption func(*stabilizerImpl)

// WithIdentity binds the stabilizer to a target identity.
//
// Parameters:
//   - id: the identity of the target the history is built for
//
// Returns:
//   - StabilizerBuilderOption: a function that sets the identity
func WithIdentity(id target.Identity) StabilizerBuilderOption {
	return func(s *stabilizerImpl) {
		s.identity = id
	}
}

// WithTunables sets the initial filter settings.
func WithTunables(t Tunables) StabilizerBuilderOption {
	return func(s *stabilizerImpl) {
		s.tunables = t
	}
}

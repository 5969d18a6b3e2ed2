package state

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-ifpv/engine/profile"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

// Custom is a state driven by a loaded profile: it is active while every profile condition holds
// and adds the profile's modifiers on entering.
type Custom struct {
	base
	profile *profile.Profile
}

// NewCustom creates a custom state from p. Groups outside the valid range panic; profile.Parse rejects them.
//
// Parameters:
//   - p: the parsed profile
//
// Returns:
//   - *Custom: the new state
func NewCustom(p *profile.Profile) *Custom {
	if p == nil {
		panic("state: NewCustom requires a non-nil Profile")
	}
	if p.Group < 0 || p.Group >= profile.MaxGroup {
		panic("state: NewCustom called with a profile group out of range")
	}
	return &Custom{base: newBase(p.Name, p.Priority, p.Group), profile: p}
}

// Profile returns the profile the state was built from.
func (s *Custom) Profile() *profile.Profile {
	return s.profile
}

func (s *Custom) Check(ctx *update.Context) bool {
	for _, c := range s.profile.Conditions {
		if !s.holds(ctx, c) {
			return false
		}
	}
	return true
}

func (s *Custom) holds(ctx *update.Context, c profile.Condition) bool {
	switch c.Kind {
	case profile.CondEnabled:
		return ctx.Enabled == (c.Number >= 0.5)
	case profile.CondMounted:
		return ctx.Mounted == (c.Number >= 0.5)
	case profile.CondKeyword:
		if c.Text == "" || ctx.Target == nil {
			return false
		}
		actor := ctx.Actor()
		return actor != nil && actor.HasKeyword(c.Text)
	case profile.CondRace:
		if c.Text == "" {
			return false
		}
		actor := ctx.Actor()
		if actor == nil {
			return false
		}
		race := actor.Race()
		want := strings.ToLower(c.Text)
		return strings.Contains(strings.ToLower(race.Name), want) || strings.Contains(strings.ToLower(race.EditorID), want)
	case profile.CondProfile:
		return c.Text != "" && s.stateActive(c.Text)
	case profile.CondNotProfile:
		return c.Text != "" && !s.stateActive(c.Text)
	}
	return false
}

// stateActive reads the other state's activity from the previous frame. The stack lock is already held.
func (s *Custom) stateActive(name string) bool {
	if s.stack == nil {
		return false
	}
	other := s.stack.find(name)
	return other != nil && other.IsActive()
}

func (s *Custom) OnEntering(ctx *update.Context) {
	for _, set := range s.profile.Setters {
		s.modify(ctx, set.ID, set.Kind, set.Amount, value.WithAutoRemoveDelay(set.RemoveDelay))
	}
}

package game_object

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
)

type ActorBuilderOption func(*actor)

// WithActorName sets the actor's display name.
func WithActorName(name string) ActorBuilderOption {
	return func(a *actor) {
		a.name = name
	}
}

// WithPlayer marks the actor as the player character.
func WithPlayer() ActorBuilderOption {
	return func(a *actor) {
		a.player = true
	}
}

// WithSkeletons sets the third-person root and, optionally, the first-person skeleton.
//
// Parameters:
//   - third: the third-person skeleton root, also used as the actor's loaded 3D
//   - first: the first-person skeleton root, or nil
//
// Returns:
//   - ActorBuilderOption: functional option to set the skeletons
func WithSkeletons(third, first GameObject) ActorBuilderOption {
	return func(a *actor) {
		a.root = third
		a.firstPerson = first
	}
}

// WithRace sets the actor race.
func WithRace(r host.Race) ActorBuilderOption {
	return func(a *actor) {
		a.race = r
	}
}

// WithKeywords adds keywords, matched case-insensitively.
//
// Parameters:
//   - keywords: the keywords to add
//
// Returns:
//   - ActorBuilderOption: functional option to add keywords
func WithKeywords(keywords ...string) ActorBuilderOption {
	return func(a *actor) {
		for _, k := range keywords {
			a.keywords[strings.ToLower(k)] = struct{}{}
		}
	}
}

// WithCell places the actor in c.
func WithCell(c host.Cell) ActorBuilderOption {
	return func(a *actor) {
		a.cell = c
	}
}

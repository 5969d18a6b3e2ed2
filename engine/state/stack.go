package state

import (
	"log"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-ifpv/engine/profile"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
)

type stackImpl struct {
	mu *sync.Mutex

	states     []State
	temp       []State
	def        *Default
	controller Controller
	warned     bool
}

// Stack owns every camera state and decides each frame which ones are active.
type Stack interface {
	// States returns the states sorted by ascending priority.
	States() []State

	// Find returns the state with the given name, case-insensitively, or nil.
	//
	// Parameters:
	//   - name: the state name
	//
	// Returns:
	//   - State: the state, or nil
	Find(name string) State

	// Default returns the always-on default state.
	Default() *Default

	// Add registers more states and re-sorts the stack.
	//
	// Parameters:
	//   - states: the states to add
	Add(states ...State)

	// SetProfiles replaces every custom state with one per profile.
	// Removed custom states release their modifiers without running OnLeaving.
	//
	// Parameters:
	//   - profiles: the loaded profiles
	SetProfiles(profiles []*profile.Profile)

	// Check evaluates every state and runs OnEntering / OnLeaving for those that changed.
	//
	// Parameters:
	//   - ctx: the frame context
	Check(ctx *update.Context)

	// Update runs Update on every active state.
	//
	// Parameters:
	//   - ctx: the frame context
	Update(ctx *update.Context)

	// SetController sets the camera the states call back into.
	//
	// Parameters:
	//   - c: the controller, nil to detach
	SetController(c Controller)

	// DisableAll deactivates every active state.
	//
	// Parameters:
	//   - ctx: the frame context
	DisableAll(ctx *update.Context)
}

var _ Stack = &stackImpl{}

// NewStack creates a stack holding the built-in states plus one custom state per profile.
//
// Parameters:
//   - options: variadic list of StackBuilderOption
//
// Returns:
//   - Stack: the newly created stack
func NewStack(options ...StackBuilderOption) Stack {
	s := &stackImpl{
		mu:  &sync.Mutex{},
		def: NewDefault(),
	}
	s.add(s.def, NewWalking(), NewRunning(), NewSprinting(), NewSneak(), NewSwimming(), NewMounted())
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *stackImpl) States() []State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.states)
}

func (s *stackImpl) Find(name string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(name)
}

func (s *stackImpl) find(name string) State {
	for _, st := range s.states {
		if strings.EqualFold(st.Name(), name) {
			return st
		}
	}
	return nil
}

func (s *stackImpl) Default() *Default {
	return s.def
}

func (s *stackImpl) SetController(c Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller = c
}

func (s *stackImpl) Add(states ...State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(states...)
}

func (s *stackImpl) add(states ...State) {
	for _, st := range states {
		if st == nil {
			continue
		}
		st.core().stack = s
		s.states = append(s.states, st)
	}
	s.sort()
}

// sort orders by priority and sizes the group scratch to the largest group.
func (s *stackImpl) sort() {
	slices.SortStableFunc(s.states, func(a, b State) int {
		return a.Priority() - b.Priority()
	})
	groups := 1
	for _, st := range s.states {
		groups = max(groups, st.Group()+1)
	}
	s.temp = make([]State, groups)
}

func (s *stackImpl) SetProfiles(profiles []*profile.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = slices.DeleteFunc(s.states, func(st State) bool {
		if _, ok := st.(*Custom); !ok {
			return false
		}
		st.core().set(false)
		return true
	})
	for _, p := range profiles {
		if p == nil {
			continue
		}
		if s.find(p.Name) != nil {
			log.Printf("[Camera] profile %s shares its name with another state", p.Name)
		}
		s.add(NewCustom(p))
	}
	s.sort()
}

func (s *stackImpl) Check(ctx *update.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.states {
		b := st.core()
		grp := st.Group()
		if grp < 0 || grp >= len(s.temp) {
			if !s.warned {
				s.warned = true
				log.Printf("[Camera] state %s has invalid group %d", st.Name(), grp)
			}
			b.want = false
			continue
		}

		b.want = st.Check(ctx)
		if !b.want || grp == 0 {
			continue
		}
		// States are in ascending priority, so the last one checked wins its group.
		if prev := s.temp[grp]; prev != nil {
			prev.core().want = false
		}
		s.temp[grp] = st
	}
	clear(s.temp)

	for _, st := range s.states {
		b := st.core()
		if b.want == b.active {
			continue
		}
		b.set(b.want)
		if b.want {
			st.OnEntering(ctx)
		} else {
			st.OnLeaving(ctx)
		}
	}
}

func (s *stackImpl) Update(ctx *update.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.states {
		if st.IsActive() {
			st.Update(ctx)
		}
	}
}

func (s *stackImpl) DisableAll(ctx *update.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.states {
		b := st.core()
		if b.active {
			b.set(false)
			b.want = false
			st.OnLeaving(ctx)
		}
	}
}

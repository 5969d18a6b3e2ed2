package state

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/config"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/game_object"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/profile"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/scene"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

type recordingController struct {
	autoTurnUntil int64
	turns         int
}

func (c *recordingController) MarkAutoTurn(until int64) {
	c.autoTurnUntil = until
}

func (c *recordingController) TurnActorToCamera(ctx *update.Context) {
	c.turns++
}

type fixture struct {
	scene  scene.Scene
	player game_object.Actor
	cell   game_object.Cell
	cfg    config.Settings
	values value.Map
	now    int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cell := game_object.NewCell(false)
	player := game_object.NewActor(0x14,
		game_object.WithPlayer(),
		game_object.WithCell(cell),
		game_object.WithRace(host.Race{Name: "Khajiit", EditorID: "KhajiitRace"}),
		game_object.WithKeywords("ActorTypeNPC"),
	)
	s := scene.NewScene("state", scene.WithPlayer(player), scene.WithCells(cell))
	t.Cleanup(s.Close)

	cfg := config.Default()
	return &fixture{scene: s, player: player, cell: cell, cfg: cfg, values: value.NewMap(cfg), now: 1000}
}

// frame builds an enabled frame context and advances the fixture clock.
func (f *fixture) frame() *update.Context {
	f.now += 16
	ctx := update.New(f.scene, f.cfg, f.values, f.now, 16)
	ctx.Enabled = true
	return ctx
}

func (f *fixture) run(s Stack) *update.Context {
	ctx := f.frame()
	s.Check(ctx)
	s.Update(ctx)
	f.values.Update(ctx.Now, ctx.Enabled)
	return ctx
}

func ownedBy(v value.CameraValue, st State) []*value.Modifier {
	var out []*value.Modifier
	for _, m := range v.Modifiers() {
		if m.Owner() == value.Owner(st.core()) {
			out = append(out, m)
		}
	}
	return out
}

func activeNames(s Stack) []string {
	var out []string
	for _, st := range s.States() {
		if st.IsActive() {
			out = append(out, st.Name())
		}
	}
	return out
}

func TestStatesSortedByPriority(t *testing.T) {
	s := NewStack()
	prev := math.MinInt
	for _, st := range s.States() {
		if st.Priority() < prev {
			t.Fatalf("Expected ascending priorities, %s has %d after %d", st.Name(), st.Priority(), prev)
		}
		prev = st.Priority()
	}
	if s.Find("mounted") == nil || s.Find("DEFAULT") != State(s.Default()) {
		t.Errorf("Expected case-insensitive lookup of built-in states")
	}
}

func TestWalkingAddsHeadBob(t *testing.T) {
	f := newFixture(t)
	f.player.SetMovement(host.Movement{Gait: host.GaitWalking, Direction: host.MoveForward})
	s := NewStack()

	f.run(s)
	walking := s.Find("Walking")
	if !walking.IsActive() || !s.Default().IsActive() {
		t.Fatalf("Expected Default and Walking active, got %v", activeNames(s))
	}

	y := f.values.Get(value.StabilizeIgnorePositionY)
	if y.TargetValue() != 0.5 {
		t.Errorf("Expected head bob to cap ignore position y at 0.5, got %f", y.TargetValue())
	}
	hist := f.values.Get(value.StabilizeHistoryDuration)
	if hist.TargetValue() != 100 {
		t.Errorf("Expected the history capped at 100 ms, got %f", hist.TargetValue())
	}

	f.player.SetMovement(host.Movement{})
	f.run(s)
	if walking.IsActive() {
		t.Errorf("Expected Walking to leave when standing")
	}
	if n := len(ownedBy(y, walking)); n != 0 {
		t.Errorf("Expected Walking's modifiers removed, %d left", n)
	}
	if y.TargetValue() != f.cfg.StabilizeIgnorePositionY {
		t.Errorf("Expected the default %f restored, got %f", f.cfg.StabilizeIgnorePositionY, y.TargetValue())
	}
}

func TestHeadBobDisabled(t *testing.T) {
	f := newFixture(t)
	f.cfg.HeadBob = false
	f.player.SetMovement(host.Movement{Gait: host.GaitWalking, Direction: host.MoveForward})
	s := NewStack()

	f.run(s)
	if n := len(ownedBy(f.values.Get(value.StabilizeIgnorePositionY), s.Find("Walking"))); n != 0 {
		t.Errorf("Expected no head bob modifier, got %d", n)
	}
}

func TestSneakRemovalIsDelayed(t *testing.T) {
	f := newFixture(t)
	f.player.SetMovement(host.Movement{Sneaking: true})
	s := NewStack()
	sneak := s.Find("Sneak")

	f.run(s)
	offY := f.values.Get(value.StabilizeIgnoreOffsetY)
	mods := ownedBy(offY, sneak)
	if len(mods) != 1 || mods[0].Kind != value.SetIfHigher || mods[0].Amount != 34 {
		t.Fatalf("Expected one SetIfHigher 34 modifier, got %v", mods)
	}

	f.player.SetMovement(host.Movement{})
	ctx := f.frame()
	s.Check(ctx)
	if sneak.IsActive() {
		t.Fatalf("Expected Sneak to leave")
	}
	if !mods[0].PendingRemoval() {
		t.Errorf("Expected a delayed removal request")
	}

	f.values.Update(ctx.Now, true)
	if len(ownedBy(offY, sneak)) != 1 {
		t.Errorf("Expected the modifier kept while the delay runs")
	}
	f.values.Update(ctx.Now+299, true)
	if len(ownedBy(offY, sneak)) != 1 {
		t.Errorf("Expected the modifier kept before 300 ms")
	}
	f.values.Update(ctx.Now+300, true)
	if len(ownedBy(offY, sneak)) != 0 {
		t.Errorf("Expected the modifier removed after 300 ms")
	}
}

func TestMountedSuppressesMovementStates(t *testing.T) {
	f := newFixture(t)
	f.cfg.StabilizeHistoryDuration = 0.5
	f.values = value.NewMap(f.cfg)
	horse := game_object.NewActor(0x300, game_object.WithCell(f.cell))
	f.player.SetMount(horse)
	f.player.SetMovement(host.Movement{Gait: host.GaitRunning, Direction: host.MoveForward})
	s := NewStack()

	f.run(s)
	if !s.Find("Mounted").IsActive() {
		t.Fatalf("Expected Mounted active, got %v", activeNames(s))
	}
	if s.Find("Running").IsActive() {
		t.Errorf("Expected Running suppressed while mounted")
	}
	if got := f.values.Get(value.StabilizeHistoryDuration).TargetValue(); got != 200 {
		t.Errorf("Expected the history capped at 200 ms, got %f", got)
	}
	want := f.cfg.StabilizeIgnorePositionZ + 1
	if got := f.values.Get(value.StabilizeIgnorePositionZ).TargetValue(); got != want {
		t.Errorf("Expected ignore position z %f, got %f", want, got)
	}
}

func TestDisabledFrameActivatesNothing(t *testing.T) {
	f := newFixture(t)
	s := NewStack()
	ctx := f.frame()
	ctx.Enabled = false
	s.Check(ctx)
	if names := activeNames(s); len(names) != 0 {
		t.Errorf("Expected no active states, got %v", names)
	}
}

func TestDisableAll(t *testing.T) {
	f := newFixture(t)
	f.player.SetMovement(host.Movement{Gait: host.GaitWalking, Direction: host.MoveForward})
	s := NewStack()
	f.run(s)

	ctx := f.frame()
	s.DisableAll(ctx)
	if names := activeNames(s); len(names) != 0 {
		t.Errorf("Expected every state inactive, got %v", names)
	}
	for _, v := range f.values.All() {
		if n := len(v.Modifiers()); n != 0 {
			t.Errorf("Expected %s to have no modifiers, got %d", v.Key(), n)
		}
	}
}

func TestGroupKeepsHighestPriority(t *testing.T) {
	f := newFixture(t)
	low := &profile.Profile{Name: "Low", Priority: 60, Group: 3, Setters: []profile.Setter{{ID: value.Offset2PositionX, Kind: value.Set, Amount: 1}}}
	high := &profile.Profile{Name: "High", Priority: 70, Group: 3, Setters: []profile.Setter{{ID: value.Offset2PositionX, Kind: value.Set, Amount: 2}}}
	loose := &profile.Profile{Name: "Loose", Priority: 55, Setters: []profile.Setter{{ID: value.Offset2PositionY, Kind: value.Set, Amount: 3}}}
	s := NewStack(WithProfiles(low, high, loose))

	f.run(s)
	if s.Find("Low").IsActive() {
		t.Errorf("Expected the lower priority group member inactive")
	}
	if !s.Find("High").IsActive() || !s.Find("Loose").IsActive() {
		t.Errorf("Expected High and Loose active, got %v", activeNames(s))
	}
	if got := f.values.Get(value.Offset2PositionX).TargetValue(); got != 2 {
		t.Errorf("Expected 2 from the group winner, got %f", got)
	}
}

func TestCustomConditions(t *testing.T) {
	tests := []struct {
		name string
		cond profile.Condition
		want bool
	}{
		{"Enabled", profile.Condition{Kind: profile.CondEnabled, Number: 1}, true},
		{"Not enabled", profile.Condition{Kind: profile.CondEnabled, Number: 0}, false},
		{"Not mounted", profile.Condition{Kind: profile.CondMounted, Number: 0}, true},
		{"Mounted", profile.Condition{Kind: profile.CondMounted, Number: 1}, false},
		{"Keyword", profile.Condition{Kind: profile.CondKeyword, Text: "actortypenpc"}, true},
		{"Missing keyword", profile.Condition{Kind: profile.CondKeyword, Text: "ActorTypeUndead"}, false},
		{"Race by name", profile.Condition{Kind: profile.CondRace, Text: "khaj"}, true},
		{"Race by editor id", profile.Condition{Kind: profile.CondRace, Text: "KhajiitRace"}, true},
		{"Other race", profile.Condition{Kind: profile.CondRace, Text: "Argonian"}, false},
		{"Empty race", profile.Condition{Kind: profile.CondRace}, false},
		{"Profile active", profile.Condition{Kind: profile.CondProfile, Text: "default"}, true},
		{"Profile inactive", profile.Condition{Kind: profile.CondProfile, Text: "Sneak"}, false},
		{"Unknown profile", profile.Condition{Kind: profile.CondProfile, Text: "Nope"}, false},
		{"NotProfile", profile.Condition{Kind: profile.CondNotProfile, Text: "Sneak"}, true},
		{"Empty NotProfile", profile.Condition{Kind: profile.CondNotProfile}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := &profile.Profile{
				Name:       "Probe",
				Priority:   50,
				Setters:    []profile.Setter{{ID: value.Offset2PositionZ, Kind: value.Add, Amount: 1}},
				Conditions: []profile.Condition{tt.cond},
			}
			s := NewStack(WithProfiles(p))
			// The first frame activates Default; profile conditions read the previous frame.
			f.run(s)
			f.run(s)
			if got := s.Find("Probe").IsActive(); got != tt.want {
				t.Errorf("Expected active=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestSetProfilesReplacesCustomStates(t *testing.T) {
	f := newFixture(t)
	old := &profile.Profile{Name: "Old", Priority: 50, Setters: []profile.Setter{{ID: value.Offset2PositionX, Kind: value.Set, Amount: 5}}}
	s := NewStack(WithProfiles(old))
	f.run(s)
	if got := f.values.Get(value.Offset2PositionX).TargetValue(); got != 5 {
		t.Fatalf("Expected 5 from the old profile, got %f", got)
	}

	s.SetProfiles([]*profile.Profile{{Name: "New", Priority: 50, Setters: []profile.Setter{{ID: value.Offset2PositionY, Kind: value.Set, Amount: 6}}}})
	if s.Find("Old") != nil || s.Find("New") == nil {
		t.Fatalf("Expected Old replaced by New")
	}
	f.run(s)
	if got := f.values.Get(value.Offset2PositionX).TargetValue(); got != 0 {
		t.Errorf("Expected the old profile's modifier released, got %f", got)
	}
	if got := f.values.Get(value.Offset2PositionY).TargetValue(); got != 6 {
		t.Errorf("Expected 6 from the new profile, got %f", got)
	}
}

func TestNewCustomRejectsBadGroup(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expected a panic for group 32")
		}
	}()
	NewCustom(&profile.Profile{Name: "Bad", Group: 32})
}

func TestDefaultRestrictsView(t *testing.T) {
	f := newFixture(t)
	ctrl := &recordingController{}
	s := NewStack(WithController(ctrl))
	f.run(s)

	f.values.Get(value.RestrictUp).SetCurrentValue(30)
	f.values.Get(value.InputRotationY).SetCurrentValue(common.DegToRad(45))
	f.run(s)

	if got := f.values.Get(value.InputRotationY).CurrentValue(); math.Abs(got-common.DegToRad(30)) > 1e-12 {
		t.Errorf("Expected pitch clamped to 30 degrees, got %f", common.RadToDeg(got))
	}
	if ctrl.turns != 0 {
		t.Errorf("Expected no actor turn outside third person, got %d", ctrl.turns)
	}

	f.scene.SetCameraState(host.CameraThirdPerson)
	f.values.Get(value.RestrictUp).SetCurrentValue(30)
	f.values.Get(value.InputRotationY).SetCurrentValue(common.DegToRad(45))
	f.run(s)
	if ctrl.turns != 1 {
		t.Errorf("Expected the actor turned to the camera once, got %d", ctrl.turns)
	}
}

func TestRestrictSideBlendsNearDownLimit(t *testing.T) {
	f := newFixture(t)
	f.values.Get(value.RestrictDown).SetCurrentValue(80)
	f.values.Get(value.RestrictSideDown).SetCurrentValue(20)
	f.values.Get(value.RestrictRight).SetCurrentValue(90)
	f.values.Get(value.RestrictRight2).SetCurrentValue(30)
	ctx := f.frame()

	// 70 degrees down is halfway between the side limit at 60 and the down limit at 80,
	// so the right limit blends halfway from 90 to 30.
	x, y, hadX, hadY := restrictView(ctx, common.DegToRad(80), -common.DegToRad(70))
	if hadY || math.Abs(y+common.DegToRad(70)) > 1e-12 {
		t.Errorf("Expected pitch untouched, got %f", common.RadToDeg(y))
	}
	if !hadX || math.Abs(common.RadToDeg(x)-60) > 1e-9 {
		t.Errorf("Expected yaw clamped to 60, got %f", common.RadToDeg(x))
	}

	x, y, hadX, hadY = restrictView(ctx, common.DegToRad(-80), -common.DegToRad(85))
	if !hadY || math.Abs(common.RadToDeg(y)+80) > 1e-9 {
		t.Errorf("Expected pitch clamped to -80, got %f", common.RadToDeg(y))
	}
	if hadX || math.Abs(common.RadToDeg(x)+80) > 1e-9 {
		t.Errorf("Expected an unrestricted left side, got %f", common.RadToDeg(x))
	}
}

func TestDefaultAutoTurn(t *testing.T) {
	f := newFixture(t)
	ctrl := &recordingController{}
	s := NewStack(WithController(ctrl))
	f.run(s)

	face := f.values.Get(value.FaceCamera)
	f.values.Get(value.InputRotationX).SetCurrentValue(common.DegToRad(100))
	ctx := f.run(s)
	if face.TargetValue() != 1 {
		t.Fatalf("Expected face camera on past the auto turn angle")
	}
	if ctrl.autoTurnUntil != ctx.Now+autoTurnMark {
		t.Errorf("Expected auto turn marked until %d, got %d", ctx.Now+autoTurnMark, ctrl.autoTurnUntil)
	}

	f.values.Get(value.InputRotationX).SetCurrentValue(0)
	f.run(s)
	if face.TargetValue() != 1 {
		t.Errorf("Expected face camera held after returning inside the angle")
	}

	f.now += autoTurnHold
	f.run(s)
	if face.TargetValue() != 0 {
		t.Errorf("Expected face camera released after the hold")
	}
}

func TestDefaultNearClip(t *testing.T) {
	tests := []struct {
		name     string
		interior bool
		pitch    float64
		want     float64
	}{
		{"Exterior level", false, 0, 5},
		{"Exterior straight down", false, -90, 1},
		{"Exterior halfway", false, -75, 3},
		{"Interior floors at one", true, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.interior {
				f.player.SetCell(game_object.NewCell(true))
			}
			s := NewStack()
			f.values.Get(value.InputRotationY).SetCurrentValue(common.DegToRad(tt.pitch))
			f.run(s)
			f.run(s)
			if got := f.values.Get(value.NearClip).TargetValue(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected near clip %f, got %f", tt.want, got)
			}
		})
	}
}

func TestDefaultDownRatios(t *testing.T) {
	f := newFixture(t)
	s := NewStack()
	f.values.Get(value.InputRotationY).SetCurrentValue(-common.DegToRad(65))
	f.run(s)
	if got := s.Default().LookDownRatio(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected look down ratio 0.5, got %f", got)
	}

	f.player.SetMovement(host.Movement{Gait: host.GaitRunning, Direction: host.MoveRight})
	f.values.Get(value.InputRotationY).SetCurrentValue(-common.DegToRad(75))
	f.run(s)
	if got := s.Default().LeftRightFixRatio(); math.Abs(got-0.08) > 1e-9 {
		t.Errorf("Expected the strafe fix to rise by 0.08, got %f", got)
	}
	for range 20 {
		f.run(s)
	}
	if got := s.Default().LeftRightFixRatio(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected the strafe fix to settle at 0.5, got %f", got)
	}

	f.player.SetMovement(host.Movement{})
	f.run(s)
	if got := s.Default().LeftRightFixRatio(); math.Abs(got-0.468) > 1e-9 {
		t.Errorf("Expected the strafe fix to fall by 0.032, got %f", got)
	}
}

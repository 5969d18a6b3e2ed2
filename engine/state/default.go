package state

import (
	"math"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/tween"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

const (
	// autoTurnHold is how long the automatic turn stays on after the view returns inside the angle.
	autoTurnHold = 500
	// autoTurnMark is how long actor turns are attributed to the automatic turn.
	autoTurnMark = 50

	// nearClipDownAngle is where the near clip starts blending toward its looking-down value.
	nearClipDownAngle = 60.0
	// strafeFixBeginAngle is where the strafe clipping fix starts.
	strafeFixBeginAngle = 60.0
)

// Default is active whenever the camera is enabled. It applies the settings-driven base modifiers
// and each frame clamps the view angles and derives the near clip and look-down ratios.
type Default struct {
	base

	autoTurnMod      *value.Modifier
	autoTurnTime     int64
	collidedRestrict *value.Modifier
	nearClipMod      *value.Modifier
	lastNearClip     float64

	lookDownRatio  float64
	leftRightRatio float64
}

// NewDefault creates the default state.
func NewDefault() *Default {
	return &Default{base: newBase("Default", PriorityDefault, 0)}
}

// LookDownRatio returns 0 when looking level and 1 when looking straight down, ramping from
// DownOffsetBeginAngle.
func (s *Default) LookDownRatio() float64 {
	return s.lookDownRatio
}

// LeftRightFixRatio returns the eased ratio of the strafe clipping fix.
func (s *Default) LeftRightFixRatio() float64 {
	return s.leftRightRatio
}

func (s *Default) Check(ctx *update.Context) bool {
	return ctx.Enabled
}

func (s *Default) OnEntering(ctx *update.Context) {
	cfg := ctx.Settings
	s.modify(ctx, value.ActorTurnTime, value.Set, cfg.ActorTurnTime)
	s.modify(ctx, value.BlockPlayerFadeOut, value.Set, 1)
	s.updateNearClip(ctx, ctx.Value(value.InputRotationY))
	if cfg.HeadTrackEnable {
		s.modify(ctx, value.HeadTrackEnabled, value.Set, 1)
	}
	if cfg.AlwaysForceAutoTurn {
		s.modify(ctx, value.FaceCamera, value.Set, 1)
	}
	if cfg.HideHead {
		s.modify(ctx, value.HideHead, value.Set, 1)
	}
	if cfg.HideArms {
		s.modify(ctx, value.HideArms, value.Set, 1)
	}
	if cfg.ExtraResponsiveControls {
		s.modify(ctx, value.ExtraResponsiveControls, value.Set, 1)
	}
}

func (s *Default) OnLeaving(ctx *update.Context) {
	s.autoTurnMod = release(s.autoTurnMod)
	s.collidedRestrict = release(s.collidedRestrict)
	s.nearClipMod = release(s.nearClipMod)
	s.lookDownRatio = 0
	s.leftRightRatio = 0
}

func release(m *value.Modifier) *value.Modifier {
	if m != nil {
		m.Remove()
	}
	return nil
}

func (s *Default) Update(ctx *update.Context) {
	x := ctx.Value(value.InputRotationX)
	y := ctx.Value(value.InputRotationY)

	if ctx.DidCollideLastUpdate {
		if s.collidedRestrict == nil {
			s.collidedRestrict = s.modify(ctx, value.RestrictDown, value.Set, ctx.Settings.MaximumDownAngleCollided, value.WithAutoRemove(false))
		}
	} else {
		s.collidedRestrict = release(s.collidedRestrict)
	}

	s.updateAutoTurn(ctx, x)

	x, y, hadX, hadY := restrictView(ctx, x, y)
	if hadX {
		ctx.Values.Get(value.InputRotationX).SetCurrentValue(x)
	}
	if hadY {
		ctx.Values.Get(value.InputRotationY).SetCurrentValue(y)
	}
	if (hadX || hadY) && ctx.Host != nil {
		if third := ctx.Host.ThirdPerson(); third != nil && !third.FreeLooking() {
			if c := s.controller(); c != nil {
				c.TurnActorToCamera(ctx)
			}
		}
	}

	s.updateNearClip(ctx, y)
	s.updateDownRatios(ctx, y)
}

func (s *Default) updateAutoTurn(ctx *update.Context, x float64) {
	angle := ctx.Settings.ForceAutoTurnOnAngle
	if angle >= value.Unrestricted {
		s.autoTurnMod = release(s.autoTurnMod)
		return
	}
	if common.RadToDeg(math.Abs(x)) >= angle {
		if s.autoTurnMod == nil {
			s.autoTurnMod = s.modify(ctx, value.FaceCamera, value.Set, 1, value.WithAutoRemove(false))
		}
		s.autoTurnTime = ctx.Now + autoTurnHold
		if c := s.controller(); c != nil {
			c.MarkAutoTurn(ctx.Now + autoTurnMark)
		}
		return
	}
	if s.autoTurnMod != nil && ctx.Now >= s.autoTurnTime {
		s.autoTurnMod = release(s.autoTurnMod)
	}
}

// restrictView clamps the input rotation to the Restrict* angles. Near the down limit the side
// limits blend toward their looking-down variants.
func restrictView(ctx *update.Context, x, y float64) (float64, float64, bool, bool) {
	hadX, hadY := false, false
	xmod := 1.0

	if y < 0 {
		angle := ctx.Value(value.RestrictDown)
		if angle < value.Unrestricted {
			restrict := -common.DegToRad(angle)
			if y < restrict {
				y = restrict
				xmod = 0
				hadY = true
			} else if side := ctx.Value(value.RestrictSideDown); side > 0 {
				restrict2 := -common.DegToRad(angle - side)
				if y < restrict2 {
					if dt := restrict - restrict2; dt != 0 {
						xmod = 1 - tween.Linear.Apply((y-restrict2)/dt)
					}
				}
			}
		}
	} else if angle := ctx.Value(value.RestrictUp); angle < value.Unrestricted {
		if restrict := common.DegToRad(angle); y > restrict {
			y = restrict
			hadY = true
		}
	}

	if x < 0 {
		if angle := ctx.Value(value.RestrictLeft); angle < value.Unrestricted {
			if xmod != 1 {
				angle2 := ctx.Value(value.RestrictLeft2)
				angle = (angle-angle2)*xmod + angle2
			}
			if restrict := -common.DegToRad(angle); x < restrict {
				x = restrict
				hadX = true
			}
		}
	} else if angle := ctx.Value(value.RestrictRight); angle < value.Unrestricted {
		if xmod != 1 {
			angle2 := ctx.Value(value.RestrictRight2)
			angle = (angle-angle2)*xmod + angle2
		}
		if restrict := common.DegToRad(angle); x > restrict {
			x = restrict
			hadX = true
		}
	}
	return x, y, hadX, hadY
}

// updateNearClip blends between the level and looking-down near clip of the current cell type.
// The modifier is only replaced when the distance changes.
func (s *Default) updateNearClip(ctx *update.Context, y float64) {
	interior := false
	if ctx.Target != nil {
		if cell := ctx.Target.Cell(); cell != nil {
			interior = cell.Interior()
		}
	}

	deg := common.RadToDeg(y)
	ratio := 0.0
	switch {
	case deg < -90:
		ratio = 1
	case deg < -nearClipDownAngle:
		ratio = -(deg + nearClipDownAngle) / (90 - nearClipDownAngle)
	}

	cfg := ctx.Settings
	normal, down := cfg.NearClipExteriorDefault, cfg.NearClipExteriorDown
	if interior {
		normal, down = cfg.NearClipInteriorDefault, cfg.NearClipInteriorDown
	}
	nc := max(1, (down-normal)*ratio+normal)

	if s.nearClipMod != nil && s.lastNearClip == nc {
		return
	}
	release(s.nearClipMod)
	s.nearClipMod = s.modify(ctx, value.NearClip, value.Set, nc, value.WithAutoRemove(false))
	s.lastNearClip = nc
}

// downRatio maps a pitch to 0 at begin degrees down and 1 at straight down.
func downRatio(y, begin float64) float64 {
	angle := -common.RadToDeg(y)
	switch {
	case angle <= begin:
		return 0
	case angle >= 90:
		return 1
	}
	return (angle - begin) / (90 - begin)
}

func (s *Default) updateDownRatios(ctx *update.Context, y float64) {
	cfg := ctx.Settings
	if cfg.DownOffsetBeginAngle < value.Unrestricted {
		s.lookDownRatio = downRatio(y, cfg.DownOffsetBeginAngle)
	} else {
		s.lookDownRatio = 0
	}

	step := float64(ctx.Elapsed) * 0.001
	actor := ctx.Actor()
	strafing := cfg.TryFixLeftRightMovementClipping != 0 &&
		ctx.Value(value.Show1stPersonArms) < 0.5 &&
		actor != nil && actor.Movement().Strafing()

	switch {
	case strafing && !actor.Movement().Swimming:
		want := downRatio(y, strafeFixBeginAngle)
		if s.leftRightRatio < want {
			s.leftRightRatio = min(s.leftRightRatio+step*5, want)
		} else if s.leftRightRatio > want {
			s.leftRightRatio = max(s.leftRightRatio-step*2, want)
		}
	case s.leftRightRatio != 0:
		s.leftRightRatio = max(s.leftRightRatio-step*2, 0)
	}
}

package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

const (
	// turnFixFrames is how many composed frames keep the turned-away rotation after leaving free look,
	// covering the frame the host applies the actor turn.
	turnFixFrames = 1

	// turnMinTweenMillis is the shortest turn worth tweening.
	turnMinTweenMillis = 33

	// autoTurnStabilizeScale lengthens the tween for turns forced by the auto-turn angle.
	autoTurnStabilizeScale = 1.5
)

// MarkAutoTurn is called by the default state while it forces the actor to face the camera.
// Runs inside Update, so the mutex is already held.
func (c *cameraImpl) MarkAutoTurn(until int64) {
	c.lastAutoTurn = until
}

// TurnActorToCamera is called by the default state after it clamped the view.
// Runs inside Update, so the mutex is already held.
func (c *cameraImpl) TurnActorToCamera(ctx *update.Context) {
	c.turnActor(ctx.Actor(), ctx.Elapsed, false)
}

func (c *cameraImpl) HandleActorTurnToCamera(fromFreeLookChanged bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turnActor(c.lastActor, c.clock.Elapsed(), fromFreeLookChanged)
}

// turnActor moves the accumulated free-look yaw and pitch onto the actor. Yaw is rate limited by
// ActorTurnTime, the remainder stays in the third-person state for the next frame.
// Caller must hold the mutex.
func (c *cameraImpl) turnActor(actor host.Actor, elapsed int64, fromFreeLookChanged bool) {
	third := c.host.ThirdPerson()
	if actor == nil || third == nil {
		return
	}
	x := third.XRotationFromLastResetPoint()
	y := third.YRotationFromLastResetPoint()
	if x == 0 && y == 0 {
		return
	}

	maxTurn := 0.0
	if turnTime := c.values.Get(value.ActorTurnTime).CurrentValue(); turnTime <= 0 {
		maxTurn = 2 * math.Pi
	} else if elapsed >= 1 {
		maxTurn = float64(elapsed) * 0.001 / turnTime * 2 * math.Pi
	}

	if x != 0 {
		actual := common.Clamp(x, -maxTurn, maxTurn)
		actor.Turn(actual, 0)
		if actual == x {
			third.SetXRotationFromLastResetPoint(0)
		} else {
			third.SetXRotationFromLastResetPoint(x - actual)
		}
	}
	if y != 0 {
		actor.Turn(0, -y)
		third.SetYRotationFromLastResetPoint(0)
	}

	if fromFreeLookChanged && c.enabled && c.turnFrames < turnFixFrames {
		c.turnX = x
		c.turnY = y
		c.turnFrames = turnFixFrames
	}
}

func (c *cameraImpl) OnTurnToCamera(freeLook bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch face := c.values.Get(value.FaceCamera).CurrentValue(); {
	case face >= 1:
		freeLook = false
	case face <= -1:
		freeLook = true
	}

	if c.hadFreeLook && !freeLook && c.enabled {
		c.makeTurn()
	}
	c.hadFreeLook = freeLook
	return freeLook
}

func (c *cameraImpl) OnMakeTurn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.makeTurn()
}

// makeTurn tweens the camera position from where it was before the actor turned. The tween is
// longer for larger turns and for turns the auto-turn forced. Caller must hold the mutex.
func (c *cameraImpl) makeTurn() {
	if c.stabilizer == nil || !c.hasResult {
		return
	}
	ftime := c.settings.ActorTurnStabilizeTime
	if ftime <= 0 {
		return
	}
	now := c.clock.Now()
	if now < c.lastAutoTurn {
		ftime *= autoTurnStabilizeScale
	}

	third := c.host.ThirdPerson()
	if third == nil {
		return
	}
	ftime *= math.Abs(third.XRotationFromLastResetPoint()) / (math.Pi / 2)

	ms := int64(ftime * 1000)
	if ms < turnMinTweenMillis {
		return
	}
	c.stabilizer.AddTweenFrom(ms, c.final.Position, now)
}

// headtrack points the player's head at a spot straight ahead of the camera.
func (c *cameraImpl) headtrack(ctx *update.Context) {
	if !c.lastActorWasPlayer || ctx.Value(value.HeadTrackEnabled) == 0 {
		return
	}
	third := c.host.ThirdPerson()
	actor := ctx.Actor()
	if third == nil || actor == nil {
		return
	}

	actorRot := actor.Rotation()
	fullZ := actorRot.Z + third.XRotationFromLastResetPoint()
	fullX := third.YRotationFromLastResetPoint() - actorRot.X

	view := common.Transform{
		Position: c.final.Position,
		Rotation: common.Identity33().RotateX(fullX).RotateZ(-fullZ),
		Scale:    1,
	}
	actor.SetLookAt(view.Translate(common.Vector3{Y: lookAtDistance}))
}

package camera

import (
	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

// lookAtDistance is how far ahead of the camera the head tracking target is placed.
const lookAtDistance = 1000.0

// ApplyRotationOffset turns m by yaw about its local Z axis and pitch about its local X axis.
// Pitch is applied first. Zero offsets return m unchanged.
//
// Parameters:
//   - m: the rotation to offset
//   - yaw: the horizontal offset in radians, positive turns right
//   - pitch: the vertical offset in radians, positive looks up
//
// Returns:
//   - common.Matrix33: the offset rotation
func ApplyRotationOffset(m common.Matrix33, yaw, pitch float64) common.Matrix33 {
	if yaw == 0 && pitch == 0 {
		return m
	}
	rot := common.Identity33()
	if pitch != 0 {
		rot = rot.RotateX(pitch)
	}
	if yaw != 0 {
		rot = rot.RotateZ(-yaw)
	}
	return m.Multiply(rot)
}

// ApplyPositionOffset moves t's position by (x, y, z) expressed in t's local frame.
// Zero offsets return t's position unchanged.
//
// Parameters:
//   - t: the transform whose frame the offset is in
//   - x, y, z: the local offset
//
// Returns:
//   - common.Vector3: the offset position
func ApplyPositionOffset(t common.Transform, x, y, z float64) common.Vector3 {
	if x == 0 && y == 0 && z == 0 {
		return t.Position
	}
	return t.Translate(common.Vector3{X: x, Y: y, Z: z})
}

// offsetStage applies one offset layer: rotation first, then position in the rotated frame.
func offsetStage(cur common.Transform, rx, ry, px, py, pz float64) common.Transform {
	hasRot := rx != 0 || ry != 0
	hasPos := px != 0 || py != 0 || pz != 0
	if !hasRot && !hasPos {
		return cur
	}
	next := cur
	if hasRot {
		next.Rotation = ApplyRotationOffset(next.Rotation, rx, ry)
	}
	if hasPos {
		next.Position = ApplyPositionOffset(next, px, py, pz)
	}
	return next
}

// blendPosition mixes root and head positions. Ratios of exactly 0 and 1 copy the source.
func blendPosition(root, head common.Vector3, ratio float64) common.Vector3 {
	switch ratio {
	case 0:
		return root
	case 1:
		return head
	}
	return root.Add(head.Sub(root).Scale(ratio))
}

// blendRotation mixes root and head rotations through a quaternion slerp.
func blendRotation(root, head common.Matrix33, ratio float64) common.Matrix33 {
	switch ratio {
	case 0:
		return root
	case 1:
		return head
	}
	return root.Interpolate(head, ratio)
}

// compose runs the transform stages from the blended base up to, but not including,
// the stabilizer tween and collision. root is the smoothed or raw anchor and head the raw head.
func (c *cameraImpl) compose(ctx *update.Context, root, head common.Transform) common.Transform {
	cur := common.Transform{
		Position: blendPosition(root.Position, head.Position, ctx.Value(value.PositionFromHead)),
		Rotation: blendRotation(root.Rotation, head.Rotation, ctx.Value(value.RotationFromHead)),
		Scale:    head.Scale,
	}
	if cur.Scale == 0 {
		cur.Scale = 1
	}

	// Object-relative offset keeps its direction as the target turns.
	if node := ctx.Target.RootNode; node != nil {
		x := ctx.Value(value.OffsetObjectPositionX)
		y := ctx.Value(value.OffsetObjectPositionY)
		z := ctx.Value(value.OffsetObjectPositionZ)
		if x != 0 || y != 0 || z != 0 {
			frame := common.Transform{Position: cur.Position, Rotation: node.WorldTransform().Rotation, Scale: 1}
			cur.Position = ApplyPositionOffset(frame, x, y, z)
		}
	}

	cur.Position = c.lookDownOffset(ctx, cur.Position)

	cur = offsetStage(cur,
		ctx.Value(value.Offset1RotationX), ctx.Value(value.Offset1RotationY),
		ctx.Value(value.Offset1PositionX), ctx.Value(value.Offset1PositionY), ctx.Value(value.Offset1PositionZ))

	extraX := 0.0
	if c.turnFrames > 0 {
		c.turnFrames--
		extraX = c.turnX
	}
	rx := (ctx.Value(value.InputRotationX) + extraX) * ctx.Value(value.InputRotationXMultiplier)
	ry := ctx.Value(value.InputRotationY) * ctx.Value(value.InputRotationYMultiplier)
	cur.Rotation = ApplyRotationOffset(cur.Rotation, rx, ry)

	cur = offsetStage(cur,
		ctx.Value(value.Offset2RotationX), ctx.Value(value.Offset2RotationY),
		ctx.Value(value.Offset2PositionX), ctx.Value(value.Offset2PositionY), ctx.Value(value.Offset2PositionZ))

	cur.Rotation = cur.Rotation.Renormalize()
	return cur
}

// lookDownOffset pushes the camera along the target's frame while looking down or strafing,
// scaled by the ratios the default state derives each frame.
func (c *cameraImpl) lookDownOffset(ctx *update.Context, pos common.Vector3) common.Vector3 {
	def := c.stack.Default()
	if def == nil {
		return pos
	}
	ratio := def.LookDownRatio()
	strafe := def.LeftRightFixRatio()
	if ratio <= 0 && strafe <= 0 {
		return pos
	}
	node := ctx.Target.RootNode
	if node == nil {
		return pos
	}

	cfg := ctx.Settings
	x := cfg.DownOffsetX * ratio
	y := cfg.DownOffsetY*ratio + cfg.TryFixLeftRightMovementClipping*strafe
	z := cfg.DownOffsetZ * ratio

	frame := common.Transform{Position: pos, Rotation: node.WorldTransform().Rotation, Scale: 1}
	return ApplyPositionOffset(frame, x, y, z)
}

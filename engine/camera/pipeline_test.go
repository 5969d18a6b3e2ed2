package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/config"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/game_object"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/state"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/target"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

func TestApplyRotationOffset(t *testing.T) {
	tests := []struct {
		name        string
		yaw, pitch  float64
		wantForward common.Vector3
	}{
		{"No offset", 0, 0, common.Vector3{Y: 1}},
		{"Positive yaw turns right", math.Pi / 2, 0, common.Vector3{X: 1}},
		{"Negative yaw turns left", -math.Pi / 2, 0, common.Vector3{X: -1}},
		{"Positive pitch looks up", 0, math.Pi / 2, common.Vector3{Z: 1}},
		{"Negative pitch looks down", 0, -math.Pi / 2, common.Vector3{Z: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyRotationOffset(common.Identity33(), tt.yaw, tt.pitch).Forward()
			if !got.NearlyEqual(tt.wantForward, 1e-9) {
				t.Errorf("Expected forward %v, got %v", tt.wantForward, got)
			}
		})
	}
}

func TestApplyRotationOffsetIsLocal(t *testing.T) {
	base := common.FromEuler(0, 0, math.Pi/4)

	turned := ApplyRotationOffset(base, 0.3, 0)
	back := ApplyRotationOffset(turned, -0.3, 0)
	if !back.NearlyEqual(base, 1e-9) {
		t.Errorf("Expected yaw offsets to cancel, got %v", back)
	}

	// A yaw offset on a yawed base adds up in the base's frame.
	want := common.FromEuler(0, 0, math.Pi/4+0.3)
	if !turned.NearlyEqual(want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, turned)
	}

	if got := ApplyRotationOffset(base, 0, 0); got != base {
		t.Errorf("Expected zero offsets to return the input unchanged")
	}
}

func TestApplyPositionOffset(t *testing.T) {
	facingRight := common.Transform{
		Position: common.Vector3{X: 1, Y: 2, Z: 3},
		Rotation: common.AxisZ(-math.Pi / 2),
		Scale:    1,
	}

	tests := []struct {
		name    string
		t       common.Transform
		x, y, z float64
		want    common.Vector3
	}{
		{"No offset", facingRight, 0, 0, 0, common.Vector3{X: 1, Y: 2, Z: 3}},
		{"Forward in a rotated frame", facingRight, 0, 10, 0, common.Vector3{X: 11, Y: 2, Z: 3}},
		{"Up is unaffected by yaw", facingRight, 0, 0, 5, common.Vector3{X: 1, Y: 2, Z: 8}},
		{"Scale stretches the offset", common.Transform{Rotation: common.Identity33(), Scale: 2}, 1, 2, 3, common.Vector3{X: 2, Y: 4, Z: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyPositionOffset(tt.t, tt.x, tt.y, tt.z)
			if !got.NearlyEqual(tt.want, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBlend(t *testing.T) {
	root := common.Vector3{X: 0, Y: 0, Z: 100}
	head := common.Vector3{X: 4, Y: 8, Z: 120}

	tests := []struct {
		name  string
		ratio float64
		want  common.Vector3
	}{
		{"All root", 0, root},
		{"All head", 1, head},
		{"Quarter", 0.25, common.Vector3{X: 1, Y: 2, Z: 105}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := blendPosition(root, head, tt.ratio)
			if !got.NearlyEqual(tt.want, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	a := common.Identity33()
	b := common.AxisZ(-1)
	if got := blendRotation(a, b, 0); got != a {
		t.Errorf("Expected ratio 0 to copy the root rotation")
	}
	if got := blendRotation(a, b, 1); got != b {
		t.Errorf("Expected ratio 1 to copy the head rotation")
	}
	if got := blendRotation(a, b, 0.5); !got.NearlyEqual(common.AxisZ(-0.5), 1e-9) {
		t.Errorf("Expected a half turn, got %v", got)
	}
}

// newComposeContext returns a camera with the built-in states and a frame whose target root
// faces +X while the anchor passed to compose faces +Y.
func newComposeContext(t *testing.T) (*cameraImpl, *update.Context) {
	t.Helper()
	cfg := config.Default()
	cfg.BaseOffsetY = 0

	root := game_object.NewGameObject(game_object.WithName("NPC Root [Root]"), game_object.WithRotation(0, 0, math.Pi/2))
	c := &cameraImpl{stack: state.NewStack()}
	ctx := &update.Context{
		Settings: cfg,
		Values:   value.NewMap(cfg),
		Target:   &target.Target{RootNode: root},
		Now:      1000,
		Elapsed:  16,
		Enabled:  true,
	}
	return c, ctx
}

func TestComposeStages(t *testing.T) {
	anchor := common.Transform{
		Position: common.Vector3{X: 100, Y: 200, Z: 120},
		Rotation: common.Identity33(),
		Scale:    1,
	}

	tests := []struct {
		name        string
		values      map[value.ID]float64
		lookDown    bool
		wantPos     common.Vector3
		wantForward common.Vector3
	}{
		{
			name:        "No offsets",
			wantPos:     common.Vector3{X: 100, Y: 200, Z: 120},
			wantForward: common.Vector3{Y: 1},
		},
		{
			name:        "Object offset follows the root facing",
			values:      map[value.ID]float64{value.OffsetObjectPositionY: 10},
			wantPos:     common.Vector3{X: 110, Y: 200, Z: 120},
			wantForward: common.Vector3{Y: 1},
		},
		{
			name:        "Object offset right maps to the root right",
			values:      map[value.ID]float64{value.OffsetObjectPositionX: 10, value.OffsetObjectPositionZ: 5},
			wantPos:     common.Vector3{X: 100, Y: 190, Z: 125},
			wantForward: common.Vector3{Y: 1},
		},
		{
			name:        "Looking down pushes along the root",
			lookDown:    true,
			wantPos:     common.Vector3{X: 94, Y: 200, Z: 120},
			wantForward: common.Vector3{Y: 1},
		},
		{
			name:        "Stage one moves in the anchor frame",
			values:      map[value.ID]float64{value.Offset1PositionY: 10},
			wantPos:     common.Vector3{X: 100, Y: 210, Z: 120},
			wantForward: common.Vector3{Y: 1},
		},
		{
			name:        "Stage one rotates before it moves",
			values:      map[value.ID]float64{value.Offset1RotationX: math.Pi / 2, value.Offset1PositionY: 10},
			wantPos:     common.Vector3{X: 110, Y: 200, Z: 120},
			wantForward: common.Vector3{X: 1},
		},
		{
			name: "Input rotation sits between the stages",
			values: map[value.ID]float64{
				value.Offset1PositionY: 10,
				value.InputRotationX:   math.Pi / 2,
				value.Offset2PositionY: 5,
			},
			wantPos:     common.Vector3{X: 105, Y: 210, Z: 120},
			wantForward: common.Vector3{X: 1},
		},
		{
			name: "Input multiplier scales the turn",
			values: map[value.ID]float64{
				value.InputRotationX:           math.Pi,
				value.InputRotationXMultiplier: 0.5,
			},
			wantPos:     common.Vector3{X: 100, Y: 200, Z: 120},
			wantForward: common.Vector3{X: 1},
		},
		{
			name: "Stage two rotates before it moves",
			values: map[value.ID]float64{
				value.InputRotationX:   math.Pi / 2,
				value.Offset2RotationX: math.Pi / 2,
				value.Offset2PositionY: 5,
			},
			wantPos:     common.Vector3{X: 100, Y: 195, Z: 120},
			wantForward: common.Vector3{Y: -1},
		},
		{
			name: "Stage two pitch looks up from the turned view",
			values: map[value.ID]float64{
				value.InputRotationX:   math.Pi / 2,
				value.Offset2RotationY: math.Pi / 2,
				value.Offset2PositionY: 5,
			},
			wantPos:     common.Vector3{X: 100, Y: 200, Z: 125},
			wantForward: common.Vector3{Z: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ctx := newComposeContext(t)
			if tt.lookDown {
				// Any pitch past straight down gives the full ratio; the pitch itself is cleared
				// again so only the offset shows.
				ctx.Values.Get(value.InputRotationY).SetCurrentValue(-math.Pi)
				c.stack.Default().Update(ctx)
				if got := c.stack.Default().LookDownRatio(); got != 1 {
					t.Fatalf("Expected look-down ratio 1, got %f", got)
				}
				ctx.Values.Get(value.InputRotationY).SetCurrentValue(0)
			}
			for id, v := range tt.values {
				ctx.Values.Get(id).SetCurrentValue(v)
			}

			got := c.compose(ctx, anchor, anchor)
			if !got.Position.NearlyEqual(tt.wantPos, 1e-9) {
				t.Errorf("Expected position %v, got %v", tt.wantPos, got.Position)
			}
			if forward := got.Rotation.Forward(); !forward.NearlyEqual(tt.wantForward, 1e-9) {
				t.Errorf("Expected forward %v, got %v", tt.wantForward, forward)
			}
		})
	}
}

func TestComposeTurnCorrectionLastsOneFrame(t *testing.T) {
	c, ctx := newComposeContext(t)
	anchor := common.Transform{Rotation: common.Identity33(), Scale: 1}

	c.turnFrames = turnFixFrames
	c.turnX = math.Pi / 2

	got := c.compose(ctx, anchor, anchor)
	if forward := got.Rotation.Forward(); !forward.NearlyEqual(common.Vector3{X: 1}, 1e-9) {
		t.Errorf("Expected the turned-away view to face +X, got %v", forward)
	}
	if c.turnFrames != 0 {
		t.Errorf("Expected the correction to be used up, got %d frames left", c.turnFrames)
	}

	got = c.compose(ctx, anchor, anchor)
	if forward := got.Rotation.Forward(); !forward.NearlyEqual(common.Vector3{Y: 1}, 1e-9) {
		t.Errorf("Expected the view back to +Y, got %v", forward)
	}
}

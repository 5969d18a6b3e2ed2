package collision

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/config"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/game_object"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/scene"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

type fixture struct {
	scene  scene.Scene
	cell   game_object.Cell
	player game_object.Actor
	cfg    config.Settings
	values value.Map
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cell := game_object.NewCell(true)
	player := game_object.NewActor(0x14, game_object.WithPlayer(), game_object.WithCell(cell))
	// The player's own body blocks the ray from the start and must be ignored.
	player.Root().SetCollider(common.Vector3{X: 20, Y: 20, Z: 100}, host.LayerBiped)
	cell.Root().AddChild(player.Root())

	s := scene.NewScene("collision", scene.WithPlayer(player), scene.WithCells(cell))
	t.Cleanup(s.Close)

	cfg := config.Default()
	values := value.NewMap(cfg)
	values.Get(value.NearClip).SetCurrentValue(10)
	return &fixture{scene: s, cell: cell, player: player, cfg: cfg, values: values}
}

// addWall places a wall whose near face is at y = front.
func (f *fixture) addWall(front float64, layer host.Layer) game_object.GameObject {
	w := game_object.NewGameObject(
		game_object.WithName("Wall"),
		game_object.WithPosition(0, front+1, 0),
		game_object.WithCollider(common.Vector3{X: 200, Y: 1, Z: 200}, layer),
	)
	f.cell.Root().AddChild(w)
	return w
}

func (f *fixture) ctx() *update.Context {
	return update.New(f.scene, f.cfg, f.values, f.scene.Now(), 16)
}

func desired(y float64) common.Transform {
	t := common.IdentityTransform()
	t.Position = common.Vector3{Y: y}
	return t
}

func TestPullsCameraInFrontOfWall(t *testing.T) {
	f := newFixture(t)
	// Extended ray: 100 + nearClip(10) + 1 = 111; the face at 55.5 is hit at fraction 0.5.
	f.addWall(55.5, host.LayerStatic)

	pos, hit := NewResolver().Apply(f.ctx(), desired(100))
	if !hit {
		t.Fatalf("Expected a collision")
	}
	want := common.Vector3{Y: 44.5}
	if !pos.NearlyEqual(want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, pos)
	}
}

func TestAdjustedFractionMayGoNegative(t *testing.T) {
	f := newFixture(t)
	f.addWall(5, host.LayerStatic)

	pos, hit := NewResolver().Apply(f.ctx(), desired(100))
	if !hit {
		t.Fatalf("Expected a collision")
	}
	if math.Abs(pos.Y-(-6)) > 1e-9 {
		t.Errorf("Expected the camera pulled behind the origin to -6, got %f", pos.Y)
	}
}

func TestLateralSafetyMovesOrigin(t *testing.T) {
	f := newFixture(t)
	f.cfg.CameraCollisionSafety = 4
	f.addWall(55.5, host.LayerStatic)

	pos, hit := NewResolver().Apply(f.ctx(), desired(100))
	if !hit {
		t.Fatalf("Expected a collision")
	}
	// Margin 11 + 4 measured back from the face.
	if math.Abs(pos.Y-40.5) > 1e-9 {
		t.Errorf("Expected 40.5, got %f", pos.Y)
	}
}

func TestClosestAcceptedHitWins(t *testing.T) {
	f := newFixture(t)
	f.addWall(20, host.LayerClutter)
	f.addWall(70, host.LayerTerrain)
	f.addWall(60, host.LayerStatic)

	pos, hit := NewResolver().Apply(f.ctx(), desired(100))
	if !hit {
		t.Fatalf("Expected a collision")
	}
	if math.Abs(pos.Y-49) > 1e-9 {
		t.Errorf("Expected clutter ignored and the static wall used, got %f", pos.Y)
	}

	pos, _ = NewResolver(WithLayers(host.LayerClutter)).Apply(f.ctx(), desired(100))
	if math.Abs(pos.Y-9) > 1e-9 {
		t.Errorf("Expected a clutter-only mask to stop at the clutter, got %f", pos.Y)
	}
}

func TestMountSkeletonIgnoredWhileRiding(t *testing.T) {
	f := newFixture(t)
	horse := game_object.NewActor(0x300, game_object.WithCell(f.cell))
	horse.Root().SetLocalTransform(common.Transform{Position: common.Vector3{Y: 30}, Rotation: common.Identity33(), Scale: 1})
	horse.Root().SetCollider(common.Vector3{X: 10, Y: 10, Z: 10}, host.LayerBiped)
	f.cell.Root().AddChild(horse.Root())

	pos, hit := NewResolver().Apply(f.ctx(), desired(100))
	if !hit || math.Abs(pos.Y-9) > 1e-9 {
		t.Errorf("Expected an unridden horse to block at 9, got %v %f", hit, pos.Y)
	}

	f.player.SetMount(horse)
	ctx := f.ctx()
	if !ctx.Mounted {
		t.Fatalf("Expected the frame to be mounted")
	}
	if _, hit := NewResolver().Apply(ctx, desired(100)); hit {
		t.Errorf("Expected the mount to be ignored while riding")
	}
}

func TestNoOpCases(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture)
		want    common.Transform
	}{
		{"Collision disabled", func(f *fixture) { f.values.Get(value.CollisionEnabled).SetCurrentValue(0) }, desired(100)},
		{"No cell", func(f *fixture) { f.player.SetCell(nil) }, desired(100)},
		{"Zero-length sightline", func(f *fixture) {}, desired(0)},
		{"Nothing hit", func(f *fixture) { f.cell.Root().RemoveChild(f.cell.Root().Children()[1]) }, desired(100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addWall(55.5, host.LayerStatic)
			tt.prepare(f)

			pos, hit := NewResolver().Apply(f.ctx(), tt.want)
			if hit {
				t.Errorf("Expected no collision")
			}
			if pos != tt.want.Position {
				t.Errorf("Expected the position unchanged at %v, got %v", tt.want.Position, pos)
			}
		})
	}

	if _, hit := NewResolver().Apply(nil, desired(100)); hit {
		t.Errorf("Expected a nil context to be a no-op")
	}
}

func TestLayerMask(t *testing.T) {
	m := MaskOf(DefaultLayers...)
	if !m.Accepts(host.LayerStatic) || !m.Accepts(host.LayerCharController) {
		t.Errorf("Expected statics and char controllers to block")
	}
	if m.Accepts(host.LayerClutter) || m.Accepts(host.LayerProps) {
		t.Errorf("Expected clutter and props to pass through")
	}
	if !m.Accepts(host.LayerUnknown) {
		t.Errorf("Expected hits without a layer to block")
	}
}

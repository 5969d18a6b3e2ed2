package game_object

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
)

func TestWorldTransformComposesParents(t *testing.T) {
	head := NewGameObject(WithName("NPC Head [Head]"), WithPosition(0, 0, 100))
	spine := NewGameObject(WithName("NPC Spine2 [Spn2]"), WithPosition(0, 10, 0), WithChildren(head))
	root := NewGameObject(WithName("NPC Root [Root]"), WithPosition(5, 5, 0), WithRotation(0, 0, math.Pi/2), WithChildren(spine))

	got := head.WorldTransform().Position
	// Yaw of pi/2 turns local +Y toward +X.
	want := common.Vector3{X: 15, Y: 5, Z: 100}
	if !got.NearlyEqual(want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if root.Lookup("npc head [head]") != head {
		t.Errorf("Expected case-insensitive lookup to find the head")
	}
	if root.Lookup("missing") != nil {
		t.Errorf("Expected nil for a missing node")
	}
	if head.Parent() != spine {
		t.Errorf("Expected the spine to be the head's parent")
	}
}

func TestAddChildReparents(t *testing.T) {
	child := NewGameObject(WithName("child"))
	a := NewGameObject(WithName("a"), WithChildren(child))
	b := NewGameObject(WithName("b"))

	b.AddChild(child)
	if len(a.Children()) != 0 {
		t.Errorf("Expected the old parent to lose the child, got %d children", len(a.Children()))
	}
	if child.Parent() != b {
		t.Errorf("Expected the new parent to own the child")
	}

	b.RemoveChild(child)
	if child.Parent() != nil {
		t.Errorf("Expected a detached node to have no parent")
	}
}

func TestAddressesAreUnique(t *testing.T) {
	a := NewGameObject()
	b := NewGameObject()
	if a.Address() == b.Address() {
		t.Errorf("Expected distinct addresses, got %x twice", a.Address())
	}
}

func TestActorTurnRotatesRoot(t *testing.T) {
	a := NewActor(0x14, WithPlayer())
	a.Turn(math.Pi/2, 0.1)

	rot := a.Rotation()
	if math.Abs(rot.Z-math.Pi/2) > 1e-9 || math.Abs(rot.X-0.1) > 1e-9 {
		t.Errorf("Expected yaw pi/2 and pitch 0.1, got %v", rot)
	}
	fwd := a.Root().WorldTransform().Rotation.Forward()
	if !fwd.NearlyEqual(common.Vector3{X: 1}, 1e-9) {
		t.Errorf("Expected the root to face +X, got %v", fwd)
	}
}

func TestMountLinksBothWays(t *testing.T) {
	rider := NewActor(1)
	horse := NewActor(2)

	rider.SetMount(horse)
	if rider.Mount() != horse || horse.RiddenBy() != rider {
		t.Fatalf("Expected rider and mount to reference each other")
	}

	rider.SetMount(nil)
	if rider.Mount() != nil || horse.RiddenBy() != nil {
		t.Errorf("Expected dismount to clear both links")
	}
}

func TestKeywordsIgnoreCase(t *testing.T) {
	a := NewActor(3, WithKeywords("ActorTypeNPC"))
	if !a.HasKeyword("actortypenpc") {
		t.Errorf("Expected keyword match ignoring case")
	}
	if a.HasKeyword("ActorTypeCreature") {
		t.Errorf("Expected no match for a missing keyword")
	}
}

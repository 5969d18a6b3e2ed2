package target

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-ifpv/engine/game_object"
)

func skeleton(bones ...string) game_object.GameObject {
	root := game_object.NewGameObject(game_object.WithName("NPC Root [Root]"))
	parent := root
	for _, b := range bones {
		n := game_object.NewGameObject(game_object.WithName(b), game_object.WithPosition(0, 0, 10))
		parent.AddChild(n)
		parent = n
	}
	return root
}

func TestResolvePicksFirstEyeNode(t *testing.T) {
	tests := []struct {
		name  string
		bones []string
		want  string
	}{
		{"Eye bone wins over head", []string{"NPC Spine2 [Spn2]", "NPC Head [Head]", "NPCEyeBone"}, "NPCEyeBone"},
		{"Head when no eye bone", []string{"NPC Spine2 [Spn2]", "NPC Head [Head]"}, "NPC Head [Head]"},
		{"Creature head", []string{"Canine_Head"}, "Canine_Head"},
		{"Falls back to the root itself", []string{"Tail01"}, "NPC Root [Root]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := game_object.NewActor(0x100, game_object.WithSkeletons(skeleton(tt.bones...), nil))
			tg := Resolve(a)
			if tg == nil {
				t.Fatalf("Expected a target")
			}
			if tg.HeadNode.Name() != tt.want {
				t.Errorf("Expected head %q, got %q", tt.want, tg.HeadNode.Name())
			}
			if tg.RootNode != a.Node() || tg.StabilizeRootNode != a.Node() {
				t.Errorf("Expected root and stabilize root to be the actor's 3D")
			}
		})
	}
}

func TestResolveNil(t *testing.T) {
	if Resolve(nil) != nil {
		t.Errorf("Expected nil target for a nil object")
	}
	var tg *Target
	if tg.Identity() != (Identity{}) {
		t.Errorf("Expected the zero identity for a nil target")
	}
}

func TestResolveRiddenMountFollowsRider(t *testing.T) {
	player := game_object.NewActor(0x14, game_object.WithPlayer(), game_object.WithSkeletons(skeleton("NPC Head [Head]"), nil))
	horse := game_object.NewActor(0x300, game_object.WithSkeletons(skeleton("HorseScull"), nil))
	player.SetMount(horse)

	tg := Resolve(horse)
	if tg.Actor != player {
		t.Errorf("Expected the rider to be followed")
	}
	if tg.OriginalActor != horse || tg.OriginalObject != horse {
		t.Errorf("Expected the original target to stay the mount")
	}
	if tg.HeadNode.Name() != "NPC Head [Head]" {
		t.Errorf("Expected the rider's head, got %q", tg.HeadNode.Name())
	}
	if tg.StabilizeRootNode != horse.Node() {
		t.Errorf("Expected the stabilize root to stay on the original skeleton")
	}
	if !tg.Mounted() {
		t.Errorf("Expected the target to report mounted")
	}
}

func TestIdentityChangesWithRoot(t *testing.T) {
	a := game_object.NewActor(0x100, game_object.WithSkeletons(skeleton("NPC Head [Head]"), nil))
	first := Resolve(a)
	again := Resolve(a)
	if !SameObject(first, again) {
		t.Errorf("Expected resolving twice to give the same object")
	}

	b := game_object.NewActor(0x100, game_object.WithSkeletons(skeleton("NPC Head [Head]"), nil))
	swapped := Resolve(b)
	if first.Identity() == swapped.Identity() {
		t.Errorf("Expected a new skeleton address to change the identity")
	}
	if SameObject(first, swapped) {
		t.Errorf("Expected a reloaded skeleton to be a different object")
	}
}

func TestNodeKey(t *testing.T) {
	n := game_object.NewGameObject(game_object.WithName("NPC Root [Root]"))
	key := NodeKey(n)
	if !strings.HasPrefix(key, "npc root [root]_") {
		t.Errorf("Expected a lower-cased name prefix, got %q", key)
	}
	if NodeKey(nil) != "" {
		t.Errorf("Expected empty key for nil, got %q", NodeKey(nil))
	}
}

package target

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
)

// EyeNodeNames are the head bone candidates, most specific first. The first one present in the skeleton wins.
var EyeNodeNames = []string{
	"NPCEyeBone", "NPC Head [Head]", "NPC Head", "Head [Head]", "HEAD", "Scull", "FireAtronach_Head [Head]",
	"ElkScull", "Canine_Head", "DragPriestNPC Head [Head]", "DwarvenSpiderHead_XYZ", "Goat_Head",
	"ChaurusFlyerHead", "Boar_Reikling_Head", "NPC_mainbody_bone", "RabbitHead", "Horker_Head01",
	"HorseScull", "IW Head", "Mammoth Head", "MagicEffectsNode", "Sabrecat_Head [Head]",
	"SlaughterfishHead", "Wisp Head", "Witchlight Body", "NPC Spine2 [Spn2]", "NPC Root [Root]",
}

// Target is the resolved object the camera follows this frame.
type Target struct {
	// Object is the followed reference. When the host follows a ridden mount this is the rider.
	Object host.Object
	// Actor is Object as an actor, or nil.
	Actor host.Actor
	// OriginalObject is what the host camera targeted before mount substitution.
	OriginalObject host.Object
	// OriginalActor is OriginalObject as an actor, or nil.
	OriginalActor host.Actor

	HeadNode host.Node
	RootNode host.Node
	// StabilizeRootNode is the root the stabilizer samples against. On a mount it stays on the
	// original skeleton so history survives the rider swap.
	StabilizeRootNode host.Node

	mounted bool
}

// Resolve builds the target for obj. A ridden mount is replaced by its rider.
//
// Parameters:
//   - obj: the host camera target
//
// Returns:
//   - *Target: the resolved target, or nil if obj is nil or has no 3D loaded
func Resolve(obj host.Object) *Target {
	if obj == nil {
		return nil
	}

	original := obj
	originalActor, _ := obj.(host.Actor)
	mountChange := false
	if originalActor != nil {
		if rider := originalActor.RiddenBy(); rider != nil {
			obj = rider
			mountChange = true
		}
	}

	t := &Target{
		Object:         obj,
		OriginalObject: original,
		OriginalActor:  originalActor,
	}
	t.Actor, _ = obj.(host.Actor)

	node := rootOf(t.Object)
	if node == nil {
		return nil
	}

	for _, name := range EyeNodeNames {
		if n := node.Lookup(name); n != nil {
			t.HeadNode = n
			break
		}
	}
	if t.HeadNode == nil {
		t.HeadNode = node
	}
	t.RootNode = node
	t.StabilizeRootNode = node

	if mountChange && t.Actor != nil && t.OriginalActor != nil && t.Actor != t.OriginalActor {
		if s := rootOf(t.OriginalActor); s != nil {
			t.StabilizeRootNode = s
		}
	}
	if t.Actor != nil {
		t.mounted = t.Actor.Mount() != nil
	}
	return t
}

// rootOf returns the third-person skeleton for the player and the loaded 3D for everything else.
func rootOf(obj host.Object) host.Node {
	if a, ok := obj.(host.Actor); ok && a.IsPlayer() {
		return a.Skeleton(false)
	}
	return obj.Node()
}

// Mounted reports whether the followed actor was riding when the target was resolved.
func (t *Target) Mounted() bool {
	return t.mounted
}

// Cell returns the followed object's cell, or nil.
func (t *Target) Cell() host.Cell {
	if t.Object == nil {
		return nil
	}
	return t.Object.Cell()
}

// Identity captures everything that, if changed, invalidates history built for a target.
type Identity struct {
	FormID   uint32
	RootName string
	HeadName string
}

// Identity returns the identity of t. A nil target has the zero identity.
func (t *Target) Identity() Identity {
	var id Identity
	if t == nil {
		return id
	}
	if t.Object != nil {
		id.FormID = t.Object.FormID()
	}
	id.RootName = NodeKey(t.StabilizeRootNode)
	id.HeadName = NodeKey(t.HeadNode)
	return id
}

// NodeKey formats a node as its lower-cased name and address, e.g. "npc root [root]_1f40".
// A nil node yields the empty string.
func NodeKey(n host.Node) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%s_%x", strings.ToLower(n.Name()), n.Address())
}

// SameObject reports whether a and b follow the same reference with the same skeleton.
// Used to detect a target swap between frames.
func SameObject(a, b *Target) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Identity() == b.Identity() && a.RootNode == b.RootNode
}

package camera

import (
	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/cull"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

// Skeleton nodes hidden or shrunk while the camera sits inside the head.
const (
	FaceNodeName      = "BSFaceGenNiNodeSkinned"
	BeastHeadNodeName = "WereWolfLowHead01"
	LeftArmNodeName   = "NPC L UpperArm [LUar]"
	RightArmNodeName  = "NPC R UpperArm [RUar]"
)

// beastHeadExtras are hidden along with the beast head when present.
var beastHeadExtras = []string{"WereWolfTeeth", "EyesMaleWerewolfBeast"}

type hideFlags uint32

const (
	hideHead hideFlags = 1 << iota
	hideHead2
	hideArms
	show1st
	has1st

	hideNeedUpdate = hideHead | hideHead2 | hideArms
)

// hider keeps the cull table in sync with the HideHead, HideHead2 and HideArms channels
// for the followed actor. Changing actor, race or skeleton starts over.
type hider struct {
	table cull.Table

	actor    host.Actor
	formID   uint32
	raceID   uint32
	skeleton host.Node
	flags    hideFlags

	firstPerson host.Node
}

func newHider(table cull.Table) *hider {
	return &hider{table: table}
}

// clear restores everything hidden for the previous actor.
func (h *hider) clear() {
	if h.actor == nil && h.skeleton == nil {
		return
	}
	h.actor = nil
	h.skeleton = nil
	h.formID = 0
	h.raceID = 0
	h.flags = 0
	h.firstPerson = nil
	h.table.Clear()
}

func (h *hider) update(ctx *update.Context) {
	actor := ctx.Actor()
	if actor == nil || ctx.Target.RootNode == nil {
		h.clear()
		return
	}

	root := ctx.Target.RootNode
	if actor != h.actor || actor.FormID() != h.formID || actor.Race().FormID != h.raceID || root != h.skeleton {
		h.clear()
		h.actor = actor
		h.formID = actor.FormID()
		h.raceID = actor.Race().FormID
		h.skeleton = root
	}

	var want hideFlags
	if ctx.Value(value.HideHead) >= 0.5 {
		want |= hideHead
	}
	if ctx.Value(value.HideHead2) >= 0.5 {
		want |= hideHead2
	}
	if ctx.Value(value.HideArms) >= 0.5 {
		want |= hideArms
	}
	if ctx.Value(value.Show1stPersonArms) >= 0.5 {
		want |= show1st
	}
	switch ctx.CameraState {
	case host.CameraFirstPerson, host.CameraFree:
	default:
		want |= has1st
	}

	if want == h.flags {
		return
	}

	if want&hideNeedUpdate != h.flags&hideNeedUpdate {
		h.table.Clear()
		h.flags &^= hideNeedUpdate
		h.hide(want, root)
	}

	if want&(has1st|show1st) != h.flags&(has1st|show1st) {
		h.flags &^= has1st | show1st
		h.firstPerson = nil
		if want&has1st != 0 {
			if fp := actor.Skeleton(true); fp != nil {
				h.firstPerson = fp
				h.flags |= has1st | (want & show1st)
			}
		}
	}
}

// hide adds the nodes for each wanted flag, marking only the flags whose nodes were found.
func (h *hider) hide(want hideFlags, root host.Node) {
	if want&hideHead != 0 {
		if n := root.Lookup(FaceNodeName); n != nil {
			h.flags |= hideHead
			h.table.AddDisable(n)
		}
	}
	if want&hideHead2 != 0 {
		if n := root.Lookup(BeastHeadNodeName); n != nil {
			h.flags |= hideHead2
			h.table.AddDisable(n)
			for _, name := range beastHeadExtras {
				if extra := root.Lookup(name); extra != nil {
					h.table.AddDisable(extra)
				}
			}
		}
	}
	if want&hideArms != 0 {
		left, right := root.Lookup(LeftArmNodeName), root.Lookup(RightArmNodeName)
		if left != nil && right != nil {
			h.flags |= hideArms
			h.table.AddUnscale(left)
			h.table.AddUnscale(right)
		}
	}
}

// rotateFirstPerson points the first-person skeleton along the final rotation. The vertical look
// is scaled by FirstPersonSkeletonRotateYMultiplier so arms can lag or lead the view.
func (h *hider) rotateFirstPerson(ctx *update.Context, result common.Transform) {
	if h.firstPerson == nil {
		return
	}
	t := h.firstPerson.LocalTransform()
	t.Rotation = result.Rotation
	if mult := ctx.Value(value.FirstPersonSkeletonRotateYMultiplier); mult != 1 {
		y := ctx.Value(value.InputRotationY) * ctx.Value(value.InputRotationYMultiplier) * (mult - 1)
		if y != 0 {
			t.Rotation = t.Rotation.Multiply(common.Identity33().RotateX(y))
		}
	}
	h.firstPerson.SetLocalTransform(t)
}

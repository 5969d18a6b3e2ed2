package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/game_object"
)

// sceneRootName names the node wrapping a document with more than one root.
const sceneRootName = "Scene Root"

// yUpToZUp maps glTF axes (+Y up, +Z forward, +X left of the asset) onto the engine's
// (+Z up, +Y forward, +X right). It is its own inverse.
var yUpToZUp = common.Matrix33{
	{-1, 0, 0},
	{0, 0, 1},
	{0, 1, 0},
}

// build creates a fresh GameObject tree for doc.
func (l *loader) build(doc *gltfDocument) (game_object.GameObject, error) {
	roots := rootNodes(doc)
	if len(roots) == 0 {
		return nil, fmt.Errorf("document has no nodes")
	}

	visited := make(map[int]bool, len(doc.Nodes))
	objects := make([]game_object.GameObject, 0, len(roots))
	for _, idx := range roots {
		obj, err := l.buildNode(doc, idx, visited)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	if len(objects) == 1 {
		return objects[0], nil
	}
	return game_object.NewGameObject(game_object.WithName(sceneRootName), game_object.WithChildren(objects...)), nil
}

// buildNode converts node idx and its subtree. A node reached twice makes the document invalid.
func (l *loader) buildNode(doc *gltfDocument, idx int, visited map[int]bool) (game_object.GameObject, error) {
	if idx < 0 || idx >= len(doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if visited[idx] {
		return nil, fmt.Errorf("node %d is referenced more than once", idx)
	}
	visited[idx] = true

	node := &doc.Nodes[idx]
	name := node.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", idx)
	}

	obj := game_object.NewGameObject(game_object.WithName(name))
	obj.SetLocalTransform(l.convert(nodeTransform(node)))

	for _, child := range node.Children {
		c, err := l.buildNode(doc, child, visited)
		if err != nil {
			return nil, err
		}
		obj.AddChild(c)
	}
	return obj, nil
}

// convert applies unit scaling and the axis change to a glTF local transform.
func (l *loader) convert(t common.Transform) common.Transform {
	t.Position = t.Position.Scale(l.unitScale)
	if l.axis == AxisYUp {
		t.Position = yUpToZUp.Transform(t.Position)
		t.Rotation = yUpToZUp.Multiply(t.Rotation).Multiply(yUpToZUp)
	}
	return t
}

// rootNodes returns the default scene's roots, the first scene's roots, or every node
// that is nobody's child, in that order of preference.
func rootNodes(doc *gltfDocument) []int {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, node := range doc.Nodes {
		for _, c := range node.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeTransform extracts the local transform from a glTF node. Non-uniform scale is averaged.
func nodeTransform(node *gltfNode) common.Transform {
	if node.Matrix != nil {
		return decomposeMatrix(*node.Matrix)
	}

	t := common.IdentityTransform()
	if node.Translation != nil {
		t.Position = common.Vector3{X: node.Translation[0], Y: node.Translation[1], Z: node.Translation[2]}
	}
	if node.Rotation != nil {
		r := node.Rotation
		t.Rotation = common.Quaternion{W: r[3], X: r[0], Y: r[1], Z: r[2]}.Matrix()
	}
	if node.Scale != nil {
		t.Scale = (node.Scale[0] + node.Scale[1] + node.Scale[2]) / 3
	}
	return t
}

// decomposeMatrix decomposes a 4x4 column-major matrix into translation, rotation and scale.
// This is an approximation that assumes no shear.
func decomposeMatrix(m [16]float64) common.Transform {
	t := common.IdentityTransform()
	t.Position = common.Vector3{X: m[12], Y: m[13], Z: m[14]}

	sx := vectorLength(m[0], m[1], m[2])
	sy := vectorLength(m[4], m[5], m[6])
	sz := vectorLength(m[8], m[9], m[10])
	t.Scale = (sx + sy + sz) / 3

	// Avoid division by zero
	if sx < 0.0001 {
		sx = 1
	}
	if sy < 0.0001 {
		sy = 1
	}
	if sz < 0.0001 {
		sz = 1
	}

	// Column-major columns become the rotation matrix columns.
	t.Rotation = common.Matrix33{
		{m[0] / sx, m[4] / sy, m[8] / sz},
		{m[1] / sx, m[5] / sy, m[9] / sz},
		{m[2] / sx, m[6] / sy, m[10] / sz},
	}.Renormalize()
	return t
}

func vectorLength(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}

package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
)

const rigJSON = `{
	"asset": {"version": "2.0"},
	"scene": 0,
	"scenes": [{"nodes": [0]}],
	"nodes": [
		{"name": "NPC Root [Root]", "children": [1]},
		{"name": "NPC Spine [Spn0]", "translation": [0, 1.0, 0], "children": [2]},
		{"name": "NPC Head [Head]", "translation": [0, 0.5, 0.1]}
	]
}`

// glb wraps a JSON document in a GLB container followed by an empty BIN chunk.
func glb(t *testing.T, version uint32, jsonDoc string) []byte {
	t.Helper()
	for len(jsonDoc)%4 != 0 {
		jsonDoc += " "
	}
	var buf bytes.Buffer
	total := 12 + 8 + len(jsonDoc) + 8
	for _, v := range []any{
		gltfGLBHeader{Magic: gltfGLBMagic, Version: version, Length: uint32(total)},
		gltfGLBChunkHeader{ChunkLength: uint32(len(jsonDoc)), ChunkType: gltfGLBChunkJSON},
	} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("Expected header write to succeed, got %v", err)
		}
	}
	buf.WriteString(jsonDoc)
	if err := binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkType: gltfGLBChunkBIN}); err != nil {
		t.Fatalf("Expected header write to succeed, got %v", err)
	}
	return buf.Bytes()
}

func TestLoadReaderConvertsAxesAndUnits(t *testing.T) {
	l := NewLoader()
	root, err := l.LoadReader("rig", strings.NewReader(rigJSON), false)
	if err != nil {
		t.Fatalf("Expected the rig to load, got %v", err)
	}
	if root.Name() != "NPC Root [Root]" {
		t.Errorf("Expected the scene root to be returned, got %s", root.Name())
	}

	tests := []struct {
		node string
		want common.Vector3
	}{
		{"NPC Spine [Spn0]", common.Vector3{X: 0, Y: 0, Z: 70}},
		{"NPC Head [Head]", common.Vector3{X: 0, Y: 7, Z: 105}},
	}
	for _, tt := range tests {
		t.Run(tt.node, func(t *testing.T) {
			n := root.Lookup(tt.node)
			if n == nil {
				t.Fatalf("Expected node %s", tt.node)
			}
			if got := n.WorldTransform().Position; !got.NearlyEqual(tt.want, 1e-9) {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestNodeRotationBecomesYaw(t *testing.T) {
	doc := `{
		"asset": {"version": "2.0"},
		"nodes": [{"name": "Turned", "rotation": [0, 0.7071067811865476, 0, 0.7071067811865476]}]
	}`
	root, err := NewLoader().LoadReader("turned", strings.NewReader(doc), false)
	if err != nil {
		t.Fatalf("Expected the document to load, got %v", err)
	}

	// A quarter turn about glTF up is a quarter turn about the engine's up axis.
	want := common.AxisZ(math.Pi / 2)
	if got := root.LocalTransform().Rotation; !got.NearlyEqual(want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestMatrixNodeWithoutConversion(t *testing.T) {
	doc := `{
		"asset": {"version": "2.0"},
		"nodes": [{"name": "M", "matrix": [2,0,0,0, 0,2,0,0, 0,0,2,0, 1,2,3,1]}]
	}`
	l := NewLoader(WithAxisConvention(AxisZUp), WithUnitScale(1))
	root, err := l.LoadReader("m", strings.NewReader(doc), false)
	if err != nil {
		t.Fatalf("Expected the document to load, got %v", err)
	}

	local := root.LocalTransform()
	if !local.Position.NearlyEqual(common.Vector3{X: 1, Y: 2, Z: 3}, 1e-9) {
		t.Errorf("Expected position (1, 2, 3), got %+v", local.Position)
	}
	if math.Abs(local.Scale-2) > 1e-9 {
		t.Errorf("Expected scale 2, got %v", local.Scale)
	}
	if !local.Rotation.NearlyEqual(common.Identity33(), 1e-9) {
		t.Errorf("Expected no rotation, got %v", local.Rotation)
	}
}

func TestRootSelection(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantRoot string
		children int
	}{
		{
			name: "Default scene",
			doc: `{"asset": {"version": "2.0"}, "scene": 1,
				"scenes": [{"nodes": [0]}, {"nodes": [1]}],
				"nodes": [{"name": "A"}, {"name": "B"}]}`,
			wantRoot: "B",
		},
		{
			name: "First scene without default",
			doc: `{"asset": {"version": "2.0"},
				"scenes": [{"nodes": [0]}, {"nodes": [1]}],
				"nodes": [{"name": "A"}, {"name": "B"}]}`,
			wantRoot: "A",
		},
		{
			name: "Parentless nodes wrapped",
			doc: `{"asset": {"version": "2.0"},
				"nodes": [{"name": "A", "children": [2]}, {"name": "B"}, {}]}`,
			wantRoot: sceneRootName,
			children: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := NewLoader().LoadReader("doc", strings.NewReader(tt.doc), false)
			if err != nil {
				t.Fatalf("Expected the document to load, got %v", err)
			}
			if root.Name() != tt.wantRoot {
				t.Errorf("Expected root %s, got %s", tt.wantRoot, root.Name())
			}
			if got := len(root.Children()); got != tt.children {
				t.Errorf("Expected %d children, got %d", tt.children, got)
			}
		})
	}
}

func TestUnnamedNodesGetIndexNames(t *testing.T) {
	doc := `{"asset": {"version": "2.0"}, "nodes": [{"name": "A", "children": [1]}, {}]}`
	root, err := NewLoader().LoadReader("doc", strings.NewReader(doc), false)
	if err != nil {
		t.Fatalf("Expected the document to load, got %v", err)
	}
	if root.Lookup("node_1") == nil {
		t.Errorf("Expected the unnamed child to be called node_1")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   func(t *testing.T) []byte
		isGLB  bool
		target error
	}{
		{
			name:   "Old version",
			data:   func(*testing.T) []byte { return []byte(`{"asset": {"version": "1.0"}, "nodes": [{}]}`) },
			target: errInvalidGLTFVersion,
		},
		{
			name:   "Bad magic",
			data:   func(*testing.T) []byte { return []byte("not a glb file at all") },
			isGLB:  true,
			target: errInvalidGLBMagic,
		},
		{
			name:   "Bad GLB version",
			data:   func(t *testing.T) []byte { return glb(t, 1, rigJSON) },
			isGLB:  true,
			target: errInvalidGLBVersion,
		},
		{
			name: "Node cycle",
			data: func(*testing.T) []byte {
				return []byte(`{"asset": {"version": "2.0"}, "scenes": [{"nodes": [0]}], "nodes": [{"children": [0]}]}`)
			},
		},
		{
			name: "Child out of range",
			data: func(*testing.T) []byte {
				return []byte(`{"asset": {"version": "2.0"}, "nodes": [{"children": [5]}]}`)
			},
		},
		{
			name: "No nodes",
			data: func(*testing.T) []byte { return []byte(`{"asset": {"version": "2.0"}}`) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadReader("bad", bytes.NewReader(tt.data(t)), tt.isGLB)
			if err == nil {
				t.Fatalf("Expected an error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestLoadGLBFileIsCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.glb")
	if err := os.WriteFile(path, glb(t, gltfGLBVersion, rigJSON), 0o644); err != nil {
		t.Fatalf("Expected the file to be written, got %v", err)
	}

	l := NewLoader()
	first, err := l.Load(path)
	if err != nil {
		t.Fatalf("Expected the GLB to load, got %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("Expected the file to be removed, got %v", err)
	}

	second, err := l.Load(path)
	if err != nil {
		t.Fatalf("Expected the cached document to load, got %v", err)
	}
	if first.Address() == second.Address() {
		t.Errorf("Expected a new tree for each load")
	}

	third, err := l.Instantiate("rig")
	if err != nil {
		t.Fatalf("Expected rig to be cached, got %v", err)
	}
	if third.Lookup("NPC Head [Head]") == nil {
		t.Errorf("Expected the instantiated tree to contain the head")
	}
	if names := l.Names(); len(names) != 1 || names[0] != "rig" {
		t.Errorf("Expected [rig], got %v", names)
	}
	if _, err := l.Instantiate("missing"); err == nil {
		t.Errorf("Expected an error for an unknown name")
	}
}

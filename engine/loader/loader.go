// Package loader builds actor skeletons from glTF 2.0 node hierarchies (.gltf or .glb).
// Node names, parenting and local transforms are kept; meshes, skins and animations are ignored.
package loader

import (
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-ifpv/engine/game_object"
)

// AxisConvention is the up axis of the source file.
type AxisConvention int

const (
	// AxisYUp is the glTF convention. Transforms are rotated into the engine's Z-up frame.
	AxisYUp AxisConvention = iota
	// AxisZUp reads transforms unchanged, for files exported from a Z-up tool without conversion.
	AxisZUp
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	documents map[string]*gltfDocument

	axis      AxisConvention
	unitScale float64
}

// Loader loads and caches glTF documents and instantiates them as GameObject trees.
// Every call that returns a tree builds a new one, so two actors never share nodes.
type Loader interface {
	// Load parses a .gltf or .glb file, caches it under its base name and builds a tree.
	// A file that is already cached is not read again.
	//
	// Parameters:
	//   - path: the file path
	//
	// Returns:
	//   - game_object.GameObject: the root of the new tree
	//   - error: error if reading or parsing fails
	Load(path string) (game_object.GameObject, error)

	// LoadReader parses a document from r and caches it under name.
	//
	// Parameters:
	//   - name: the cache key
	//   - r: reader with glTF JSON or GLB data
	//   - isGLB: true if the data is in GLB format
	//
	// Returns:
	//   - game_object.GameObject: the root of the new tree
	//   - error: error if parsing fails
	LoadReader(name string, r io.Reader, isGLB bool) (game_object.GameObject, error)

	// Instantiate builds another tree from a cached document.
	//
	// Parameters:
	//   - name: the cache key
	//
	// Returns:
	//   - game_object.GameObject: the root of the new tree
	//   - error: error if name is not cached
	Instantiate(name string) (game_object.GameObject, error)

	// Names returns the cached document names in sorted order.
	Names() []string
}

var _ Loader = &loader{}

// NewLoader creates a Loader. Files are assumed Y-up with units of one meter, converted
// to game units of 70 per meter.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		documents: make(map[string]*gltfDocument),
		axis:      AxisYUp,
		unitScale: 70,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *loader) Load(path string) (game_object.GameObject, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	l.mu.RLock()
	doc, ok := l.documents[name]
	l.mu.RUnlock()

	if !ok {
		var err error
		if doc, err = parseFile(path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		l.mu.Lock()
		l.documents[name] = doc
		l.mu.Unlock()
	}
	return l.build(doc)
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (game_object.GameObject, error) {
	doc, err := parseReader(r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	l.mu.Lock()
	l.documents[name] = doc
	l.mu.Unlock()

	return l.build(doc)
}

func (l *loader) Instantiate(name string) (game_object.GameObject, error) {
	l.mu.RLock()
	doc, ok := l.documents[name]
	l.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no document named %q", name)
	}
	return l.build(doc)
}

func (l *loader) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Sorted(maps.Keys(l.documents))
}

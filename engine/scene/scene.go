package scene

import (
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/game_object"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
)

// Scene is an in-memory game world that satisfies host.Host. It owns a frame clock, the player,
// the camera node, the host camera mode and a set of cells whose box colliders are raycast against.
// Thread-safe for concurrent access.
type Scene interface {
	host.Host

	// Name returns the scene's identifier.
	Name() string

	// Advance moves the frame clock forward. The clock does not move while paused.
	//
	// Parameters:
	//   - d: the frame duration
	Advance(d time.Duration)

	// SetPaused pauses or resumes the game.
	SetPaused(paused bool)

	// SetPlayer replaces the player actor. The camera target follows the player unless overridden.
	//
	// Parameters:
	//   - a: the player
	SetPlayer(a game_object.Actor)

	// SetCameraTarget overrides what the host camera follows. nil restores the player.
	//
	// Parameters:
	//   - obj: the followed object
	SetCameraTarget(obj host.Object)

	// SetCameraState switches the host camera mode.
	SetCameraState(id host.CameraStateID)

	// SetMenuOpen opens or closes a named menu.
	SetMenuOpen(name string, open bool)

	// SetKeyState replaces the key source. nil falls back to keys set with SetKeyDown.
	SetKeyState(ks host.KeyState)

	// SetKeyDown presses or releases a key on the built-in key source.
	SetKeyDown(key common.KeyCode, down bool)

	// Look feeds free-look input into the third-person state.
	//
	// Parameters:
	//   - dx: horizontal delta in radians
	//   - dy: vertical delta in radians
	//   - freeLooking: whether the actor stays still while looking
	Look(dx, dy float64, freeLooking bool)

	// AddCell registers a cell so its colliders can be raycast.
	//
	// Parameters:
	//   - c: the cell
	AddCell(c game_object.Cell)

	// Cells returns the registered cells.
	Cells() []game_object.Cell

	// Close stops the raycast worker pool.
	Close()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	now    int64
	paused bool

	player     game_object.Actor
	target     host.Object
	cameraNode game_object.GameObject
	camState   host.CameraStateID
	third      *thirdPerson
	menus      map[string]bool
	nearClip   float64

	keyState host.KeyState
	keys     map[common.KeyCode]bool

	cells []game_object.Cell

	// rayPool fans collider tests out across reusable workers. A WaitGroup gives each
	// Raycast a barrier since pool.Wait() only returns once workers idle-exit.
	rayPool    worker.DynamicWorkerPool
	rayWorkers int
	rayBatch   int
}

var _ Scene = &scene{}

// NewScene creates a scene with a camera node named "Camera" and the host camera in first person.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:         &sync.RWMutex{},
		name:       name,
		cameraNode: game_object.NewGameObject(game_object.WithName("Camera")),
		camState:   host.CameraFirstPerson,
		third:      newThirdPerson(),
		menus:      make(map[string]bool),
		nearClip:   15,
		keys:       make(map[common.KeyCode]bool),
		rayWorkers: max(runtime.NumCPU()-1, 1),
		rayBatch:   32,
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the pool after options so WithRayWorkers can override the default.
	s.rayPool = worker.NewDynamicWorkerPool(s.rayWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Now() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now
}

func (s *scene) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	s.now += d.Milliseconds()
}

func (s *scene) IsPaused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

func (s *scene) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

func (s *scene) Player() host.Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.player == nil {
		return nil
	}
	return s.player
}

func (s *scene) SetPlayer(a game_object.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = a
}

func (s *scene) CameraTarget() host.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.target != nil {
		return s.target
	}
	if s.player == nil {
		return nil
	}
	// A mounted player is followed through the mount, as the host camera does.
	if m := s.player.Mount(); m != nil {
		return m
	}
	return s.player
}

func (s *scene) SetCameraTarget(obj host.Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = obj
}

func (s *scene) CameraNode() host.Node {
	return s.cameraNode
}

func (s *scene) CameraState() host.CameraStateID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camState
}

func (s *scene) SetCameraState(id host.CameraStateID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camState = id
}

func (s *scene) ThirdPerson() host.ThirdPersonState {
	switch s.CameraState() {
	case host.CameraThirdPerson, host.CameraHorse, host.CameraDragon, host.CameraFurniture, host.CameraBleedout:
		return s.third
	}
	return nil
}

func (s *scene) EnterThirdPerson() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.camState == host.CameraFirstPerson {
		s.camState = host.CameraThirdPerson
	}
}

func (s *scene) Look(dx, dy float64, freeLooking bool) {
	s.third.look(dx, dy)
	s.third.setFreeLooking(freeLooking)
}

func (s *scene) IsMenuOpen(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.menus[name]
}

func (s *scene) SetMenuOpen(name string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menus[name] = open
}

func (s *scene) NearClip() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nearClip
}

func (s *scene) SetNearClip(d float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nearClip = d
}

func (s *scene) KeyDown(key common.KeyCode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.keyState != nil {
		return s.keyState.KeyDown(key)
	}
	return s.keys[key]
}

func (s *scene) SetKeyState(ks host.KeyState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyState = ks
}

func (s *scene) SetKeyDown(key common.KeyCode, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = down
}

func (s *scene) AddCell(c game_object.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells = append(s.cells, c)
}

func (s *scene) Cells() []game_object.Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]game_object.Cell(nil), s.cells...)
}

func (s *scene) Close() {
	s.rayPool.Stop()
}

// collider is a snapshot of one box collider taken before fan-out.
type collider struct {
	node  game_object.GameObject
	min   common.Vector3
	max   common.Vector3
	layer host.Layer
}

func (s *scene) Raycast(c host.Cell, from, to common.Vector3) []host.Hit {
	gc, ok := c.(game_object.Cell)
	if !ok || gc == nil {
		return nil
	}

	var colliders []collider
	gc.Root().Walk(func(n game_object.GameObject) bool {
		half, layer, has := n.Collider()
		if has {
			center := n.WorldTransform().Position
			colliders = append(colliders, collider{node: n, min: center.Sub(half), max: center.Add(half), layer: layer})
		}
		return true
	})
	if len(colliders) == 0 {
		return nil
	}

	dir := to.Sub(from)
	hits := make([]host.Hit, 0, 4)
	var hitsMu sync.Mutex

	if len(colliders) <= s.rayBatch {
		for _, col := range colliders {
			if f, ok := intersect(from, dir, col.min, col.max); ok {
				hits = append(hits, host.Hit{Fraction: f, Object: col.node, Layer: col.layer})
			}
		}
		return hits
	}

	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(colliders); start += s.rayBatch {
		batch := colliders[start:min(start+s.rayBatch, len(colliders))]
		wg.Add(1)
		id := taskID
		taskID++
		s.rayPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for _, col := range batch {
					if f, ok := intersect(from, dir, col.min, col.max); ok {
						hitsMu.Lock()
						hits = append(hits, host.Hit{Fraction: f, Object: col.node, Layer: col.layer})
						hitsMu.Unlock()
					}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return hits
}

// intersect runs the slab test for the segment from + dir*t, t in [0, 1], against an
// axis-aligned box. A segment starting inside the box hits at 0.
func intersect(from, dir, lo, hi common.Vector3) (float64, bool) {
	tMin, tMax := 0.0, 1.0
	o := [3]float64{from.X, from.Y, from.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	l := [3]float64{lo.X, lo.Y, lo.Z}
	h := [3]float64{hi.X, hi.Y, hi.Z}

	for i := range 3 {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < l[i] || o[i] > h[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (l[i] - o[i]) * inv
		t2 := (h[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = max(tMin, t1)
		tMax = min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/camera"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/hud"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/profiler"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/scene"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/window"
	"github.com/gdamore/tcell/v2"
)

// freeLookKey is held to look around without turning the actor.
const freeLookKey = common.KeyLeftAlt

// engine implements the Engine interface.
// Drives the host scene, input and camera at a fixed tick rate.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	scene  scene.Scene
	camera camera.Camera
	window window.Window
	hud    hud.HUD
	logger *log.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float64)
	frameCallback  func(c camera.Camera)

	lastFreeLook bool
	frames       int
	panics       int
}

// Engine is the main entry point. Each tick it advances the host scene, feeds window input
// through the camera's look handling, runs the camera update and redraws the HUD.
type Engine interface {
	// Scene returns the host scene.
	Scene() scene.Scene

	// Camera returns the camera.
	Camera() camera.Camera

	// Window returns the input window, or nil when running headless.
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each tick before the camera update.
	// Use it to move actors or switch host camera states.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float64))

	// SetFrameCallback registers the function called after each camera update.
	//
	// Parameters:
	//   - callback: function receiving the camera
	SetFrameCallback(callback func(c camera.Camera))

	// Step runs one frame of dt synchronously. A panic inside the frame is recovered and logged.
	//
	// Parameters:
	//   - dt: the frame duration
	//
	// Returns:
	//   - bool: false if the frame panicked
	Step(dt time.Duration) bool

	// Frames returns how many frames completed without panicking.
	Frames() int

	// Run starts the tick loop and blocks until Quit is called or the window closes.
	Run()

	// Quit signals the tick loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine. A scene and a camera bound to it are created when not supplied.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		logger:           log.Default(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.scene == nil {
		e.scene = scene.NewScene("default")
	}
	if e.window != nil {
		e.scene.SetKeyState(e.window)
	}
	if e.camera == nil {
		e.camera = camera.NewCamera(camera.WithHost(e.scene), camera.WithLogger(e.logger))
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.wg.Add(1)
	go e.handleEngine()
	if e.hud != nil {
		go e.handleTerminal()
	}

	if e.window != nil {
		// GLFW must be pumped from the thread that created the window.
		e.window.ProcessMessages()
		e.signalQuit()
		if err := e.window.Close(); err != nil {
			e.logger.Printf("[Engine] closing window: %v", err)
		}
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()

	if e.hud != nil {
		e.hud.Close()
	}
}

// Quit signals all engine goroutines to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Listens for dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := now.Sub(lastTick)
			lastTick = now
			e.Step(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleTerminal quits on Escape or Ctrl-C while the HUD owns the terminal.
func (e *engine) handleTerminal() {
	screen := e.hud.Screen()
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				e.signalQuit()
				return
			}
		}
	}
}

func (e *engine) Step(dt time.Duration) (ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// A panicking frame is skipped; the host keeps its own camera for that frame.
	defer func() {
		if r := recover(); r != nil {
			e.panics++
			e.logger.Printf("[Engine] frame recovered from panic: %v", r)
			ok = false
		}
	}()

	e.scene.Advance(dt)
	e.handleLook(dt)

	if e.tickCallback != nil {
		e.tickCallback(dt.Seconds())
	}

	start := time.Now()
	ran := e.camera.Update()
	took := time.Since(start)

	if e.profilingEnabled {
		e.profiler.Tick(ran, e.camera.IsEnabled(), e.camera.DidCollideLastUpdate(), took)
	}
	if e.hud != nil {
		e.hud.Draw(hud.SnapshotOf(e.camera))
	}
	if e.frameCallback != nil {
		e.frameCallback(e.camera)
	}
	e.frames++
	return true
}

// handleLook turns the window cursor movement into free-look input the way the host does:
// the camera scales the deltas and decides whether the actor follows the view.
func (e *engine) handleLook(dt time.Duration) {
	if e.window == nil {
		return
	}
	dx, dy := e.window.TakeCursorDelta()
	x, y := e.camera.FixLookSensitivity(dx, dy, dt.Seconds())

	freeLook := e.camera.OnTurnToCamera(e.window.KeyDown(freeLookKey))
	// The horizontal look is a rate per second.
	e.scene.Look(x*dt.Seconds(), y, freeLook)
	if !freeLook {
		e.camera.HandleActorTurnToCamera(e.lastFreeLook)
	}
	e.lastFreeLook = freeLook
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	running := e.running
	e.mu.Unlock()

	if running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each tick before the camera update.
func (e *engine) SetTickCallback(callback func(deltaTime float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

// SetFrameCallback registers the function called after each camera update.
func (e *engine) SetFrameCallback(callback func(c camera.Camera)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frameCallback = callback
}

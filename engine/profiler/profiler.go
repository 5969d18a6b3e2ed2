package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats summarizes the camera frames seen over one interval.
type Stats struct {
	Frames    int
	Skipped   int
	Enabled   int
	Collided  int
	FPS       float64
	AvgUpdate time.Duration
	MaxUpdate time.Duration
	HeapMB    float64
}

// CollisionRate returns the share of enabled frames where collision moved the camera.
func (s Stats) CollisionRate() float64 {
	if s.Enabled == 0 {
		return 0
	}
	return float64(s.Collided) / float64(s.Enabled)
}

// Profiler tracks camera update timing and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	skipped        int
	enabled        int
	collided       int
	totalUpdate    time.Duration
	maxUpdate      time.Duration
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	logger         *log.Logger
	now            func() time.Time
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
		logger:         log.Default(),
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per camera update to track its timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: update rate, enabled and collided frames, update cost, heap usage,
// allocation rate, GC count/pause times.
//
// Parameters:
//   - ran: whether the camera update ran (false when the host had nothing to follow)
//   - enabled: whether the camera was enabled after the update
//   - collided: whether collision moved the camera
//   - took: how long the update took
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(ran, enabled, collided bool, took time.Duration) bool {
	p.frameCount++
	if !ran {
		p.skipped++
	}
	if enabled {
		p.enabled++
		if collided {
			p.collided++
		}
	}
	p.totalUpdate += took
	p.maxUpdate = max(p.maxUpdate, took)

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024

	// Calculate allocation rate (MB/sec)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// Calculate GC pause stats (last pause and max recent pause)
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.last = Stats{
		Frames:    p.frameCount,
		Skipped:   p.skipped,
		Enabled:   p.enabled,
		Collided:  p.collided,
		FPS:       float64(p.frameCount) / elapsed.Seconds(),
		AvgUpdate: p.totalUpdate / time.Duration(p.frameCount),
		MaxUpdate: p.maxUpdate,
		HeapMB:    allocMB,
	}

	p.logger.Printf("[Profiler] Updates: %.2f/s | Enabled: %d | Skipped: %d | Collided: %.0f%% | Update: avg %s, max %s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs)",
		p.last.FPS, p.enabled, p.skipped, p.last.CollisionRate()*100, p.last.AvgUpdate, p.maxUpdate,
		allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs)

	p.frameCount = 0
	p.skipped = 0
	p.enabled = 0
	p.collided = 0
	p.totalUpdate = 0
	p.maxUpdate = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the stats of the most recently completed interval.
func (p *Profiler) Last() Stats {
	return p.last
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are logged.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogger sets the logger stats are written to.
func WithLogger(l *log.Logger) ProfilerOption {
	return func(p *Profiler) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTimeSource replaces the wall clock, mainly for tests.
func WithTimeSource(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

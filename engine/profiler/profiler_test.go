package profiler

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func TestTickLogsOncePerInterval(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	var buf bytes.Buffer
	p := NewProfiler(WithInterval(time.Second), WithLogger(log.New(&buf, "", 0)), WithTimeSource(clk.now))

	frames := []struct {
		ran, enabled, collided bool
		took                   time.Duration
	}{
		{true, true, false, 2 * time.Millisecond},
		{true, true, true, 4 * time.Millisecond},
		{false, false, false, 0},
		{true, true, true, 6 * time.Millisecond},
	}
	for i, f := range frames {
		if i == len(frames)-1 {
			clk.t = clk.t.Add(time.Second)
		}
		logged := p.Tick(f.ran, f.enabled, f.collided, f.took)
		if want := i == len(frames)-1; logged != want {
			t.Fatalf("Frame %d: expected logged %v, got %v", i, want, logged)
		}
	}

	s := p.Last()
	if s.Frames != 4 || s.Skipped != 1 || s.Enabled != 3 || s.Collided != 2 {
		t.Errorf("Expected 4 frames, 1 skipped, 3 enabled, 2 collided, got %+v", s)
	}
	if s.AvgUpdate != 3*time.Millisecond {
		t.Errorf("Expected 3ms average, got %s", s.AvgUpdate)
	}
	if s.MaxUpdate != 6*time.Millisecond {
		t.Errorf("Expected 6ms max, got %s", s.MaxUpdate)
	}
	if s.FPS != 4 {
		t.Errorf("Expected 4 updates/s, got %f", s.FPS)
	}
	if !strings.Contains(buf.String(), "[Profiler]") {
		t.Errorf("Expected a profiler log line, got %q", buf.String())
	}
}

func TestCollisionRate(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  float64
	}{
		{"No enabled frames", Stats{}, 0},
		{"Half", Stats{Enabled: 4, Collided: 2}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.CollisionRate(); got != tt.want {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}
}

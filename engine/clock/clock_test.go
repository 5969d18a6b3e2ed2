package clock

import (
	"sync"
	"testing"
)

func TestTickAdvances(t *testing.T) {
	tests := []struct {
		name  string
		ticks []int64
		want  int64
	}{
		{"First tick only records the host time", []int64{5000}, 0},
		{"Steady frames", []int64{5000, 5016, 5033}, 33},
		{"Long frame is capped", []int64{5000, 6000}, MaxStep},
		{"Host time going backwards is ignored", []int64{5000, 4000, 4016}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock()
			for _, ms := range tt.ticks {
				c.Tick(ms, false)
			}
			if c.Now() != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, c.Now())
			}
		})
	}
}

func TestPauseFreezesClock(t *testing.T) {
	c := NewClock(WithStart(100))
	c.Tick(0, false)
	c.Tick(16, false)
	if c.Now() != 116 {
		t.Fatalf("Expected 116, got %d", c.Now())
	}

	c.Tick(32, true)
	c.Tick(500, true)
	if c.Now() != 116 || !c.IsPaused() {
		t.Errorf("Expected the clock frozen at 116 while paused, got %d", c.Now())
	}

	// The unpausing frame does not advance either.
	c.Tick(516, false)
	if c.Now() != 116 || c.IsPaused() {
		t.Errorf("Expected 116 on the resume frame, got %d", c.Now())
	}
	c.Tick(532, false)
	if c.Now() != 132 {
		t.Errorf("Expected 132 after resuming, got %d", c.Now())
	}
}

func TestRollback(t *testing.T) {
	c := NewClock()
	c.Tick(0, false)
	c.Tick(20, false)

	if !c.Rollback() {
		t.Fatalf("Expected the step rolled back")
	}
	if c.Now() != 0 {
		t.Errorf("Expected 0 after rollback, got %d", c.Now())
	}
	if c.Elapsed() != 20 {
		t.Errorf("Expected the observed step kept at 20, got %d", c.Elapsed())
	}
	if c.Rollback() {
		t.Errorf("Expected a second rollback to do nothing")
	}

	c.Tick(36, false)
	if c.Now() != 16 {
		t.Errorf("Expected 16, got %d", c.Now())
	}
}

func TestConcurrentReads(t *testing.T) {
	c := NewClock()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 100 {
			c.Tick(int64(i*10), false)
		}
	}()
	go func() {
		defer wg.Done()
		for range 100 {
			_ = c.Now()
			_ = c.Elapsed()
		}
	}()
	wg.Wait()
	if c.Now() != 990 {
		t.Errorf("Expected 990, got %d", c.Now())
	}
}

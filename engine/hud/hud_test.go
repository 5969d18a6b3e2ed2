package hud

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/camera"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/config"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/game_object"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/scene"
	"github.com/gdamore/tcell/v2"
)

func newTestHUD(t *testing.T, width, height int) HUD {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	h, err := NewHUD(WithScreen(screen), WithTitle("TEST"))
	if err != nil {
		t.Fatalf("Expected the simulation screen to initialize, got %v", err)
	}
	screen.SetSize(width, height)
	t.Cleanup(h.Close)
	return h
}

// row reads one screen line as text.
func row(screen tcell.Screen, y int) string {
	width, _ := screen.Size()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestDrawStatus(t *testing.T) {
	tests := []struct {
		name  string
		snap  Snapshot
		lines map[int][]string
	}{
		{
			name: "Disabled without result",
			snap: Snapshot{Want: "None"},
			lines: map[int][]string{
				0: {"TEST", "DISABLED", "want: None"},
				1: {"no result"},
			},
		},
		{
			name: "Enabled and colliding",
			snap: Snapshot{
				Enabled:  true,
				Collided: true,
				Want:     "EnabledFromHotkey",
				HasFinal: true,
				Position: common.Vector3{X: 1, Y: 2, Z: 3},
				States:   []string{"Default", "Walking"},
			},
			lines: map[int][]string{
				0: {"ENABLED", "EnabledFromHotkey", "COLLIDED"},
				1: {"pos", "1.00", "2.00", "3.00"},
				2: {"states: Default, Walking"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHUD(t, 120, 30)
			h.Draw(tt.snap)
			for y, wants := range tt.lines {
				got := row(h.Screen(), y)
				for _, want := range wants {
					if !strings.Contains(got, want) {
						t.Errorf("Expected line %d to contain %q, got %q", y, want, got)
					}
				}
			}
		})
	}
}

func TestDrawChannelsWrapIntoColumns(t *testing.T) {
	h := newTestHUD(t, 2*channelWidth, 6)
	snap := Snapshot{Values: []Channel{
		{Key: "A", Current: 1, Target: 1},
		{Key: "B", Current: 2, Target: 2},
		{Key: "C", Current: 3, Target: 3},
		{Key: "D", Current: 4, Target: 4},
		{Key: "E", Current: 5, Target: 5},
	}}
	h.Draw(snap)

	// Two rows below the header, two columns: A B / C D, E does not fit.
	if got := row(h.Screen(), 4); !strings.HasPrefix(got, "A") || !strings.Contains(got, "C") {
		t.Errorf("Expected A and C on the first channel row, got %q", got)
	}
	if got := row(h.Screen(), 5); !strings.HasPrefix(got, "B") || !strings.Contains(got, "D") {
		t.Errorf("Expected B and D on the second channel row, got %q", got)
	}
	for y := 0; y < 6; y++ {
		if strings.Contains(row(h.Screen(), y), "5.000") {
			t.Errorf("Expected E to be dropped, found on line %d", y)
		}
	}
}

func TestDrawAfterCloseIsIgnored(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	h, err := NewHUD(WithScreen(screen))
	if err != nil {
		t.Fatalf("Expected the simulation screen to initialize, got %v", err)
	}
	h.Close()
	h.Close()
	h.Draw(Snapshot{Enabled: true})
}

func TestSnapshotOf(t *testing.T) {
	player := game_object.NewActor(0x14, game_object.WithPlayer())
	s := scene.NewScene("hud", scene.WithPlayer(player), scene.WithCameraState(host.CameraThirdPerson))
	defer s.Close()

	c := camera.NewCamera(
		camera.WithHost(s),
		camera.WithSettings(config.Default()),
		camera.WithLogger(log.New(io.Discard, "", 0)),
	)
	c.SetWantState(camera.EnabledFromHotkey)
	for range 2 {
		s.Advance(16 * time.Millisecond)
		c.Update()
	}

	snap := SnapshotOf(c)
	if !snap.Enabled || !snap.HasFinal {
		t.Fatalf("Expected an enabled camera with a result, got %+v", snap)
	}
	if snap.Want != "EnabledFromHotkey" {
		t.Errorf("Expected EnabledFromHotkey, got %s", snap.Want)
	}
	if len(snap.Values) != len(c.Values().All()) {
		t.Errorf("Expected every channel, got %d", len(snap.Values))
	}
	found := false
	for _, name := range snap.States {
		if name == "Default" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected the Default state to be active, got %v", snap.States)
	}
}

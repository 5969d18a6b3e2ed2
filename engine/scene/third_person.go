package scene

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
)

type thirdPerson struct {
	mu *sync.Mutex

	x, y        float64
	freeLooking bool
	position    common.Vector3
}

var _ host.ThirdPersonState = &thirdPerson{}

func newThirdPerson() *thirdPerson {
	return &thirdPerson{mu: &sync.Mutex{}}
}

func (t *thirdPerson) XRotationFromLastResetPoint() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.x
}

func (t *thirdPerson) SetXRotationFromLastResetPoint(x float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.x = x
}

func (t *thirdPerson) YRotationFromLastResetPoint() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.y
}

func (t *thirdPerson) SetYRotationFromLastResetPoint(y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.y = y
}

func (t *thirdPerson) FreeLooking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freeLooking
}

func (t *thirdPerson) setFreeLooking(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.freeLooking = v
}

func (t *thirdPerson) SetPosition(pos common.Vector3) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = pos
}

func (t *thirdPerson) Position() common.Vector3 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// look accumulates free-look input the way the host's third-person state does.
func (t *thirdPerson) look(dx, dy float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.x = common.ClampToPi(t.x + dx)
	t.y = common.Clamp(t.y+dy, -math.Pi/2, math.Pi/2)
}

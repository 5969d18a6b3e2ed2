package value

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/Carmen-Shannon/oxy-ifpv/engine/config"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/tween"
)

// ID identifies a channel in the Map.
type ID int

const (
	CollisionEnabled ID = iota
	WantEnabled
	WantDisabled
	FaceCamera
	ActorTurnTime
	HeadTrackEnabled
	InputRotationX
	InputRotationY
	InputRotationXMultiplier
	InputRotationYMultiplier
	ExtraResponsiveControls
	NearClip
	ThirdPersonArrowTilt

	Offset1PositionX
	Offset1PositionY
	Offset1PositionZ
	Offset1RotationX
	Offset1RotationY
	Offset2PositionX
	Offset2PositionY
	Offset2PositionZ
	Offset2RotationX
	Offset2RotationY
	OffsetObjectPositionX
	OffsetObjectPositionY
	OffsetObjectPositionZ

	PositionFromHead
	RotationFromHead

	StabilizeHistoryDuration
	StabilizeIgnorePositionX
	StabilizeIgnorePositionY
	StabilizeIgnorePositionZ
	StabilizeIgnoreRotationX
	StabilizeIgnoreRotationY
	StabilizeIgnoreOffsetX
	StabilizeIgnoreOffsetY

	RestrictDown
	RestrictUp
	RestrictLeft
	RestrictRight
	RestrictLeft2
	RestrictRight2
	RestrictSideDown

	HideHead
	HideHead2
	HideArms
	Show1stPersonArms
	BlockPlayerFadeOut
	SkeletonMode
	FirstPersonSkeletonRotateYMultiplier

	// IDCount is the number of registered channels.
	IDCount
)

// Unrestricted is the Restrict* value that disables an angle limit.
const Unrestricted = 360.0

type channelDef struct {
	key     string
	name    string
	capture bool
	options func(s config.Settings) []CameraValueBuilderOption
}

func fixed(def, speed float64, extra ...CameraValueBuilderOption) func(config.Settings) []CameraValueBuilderOption {
	return func(config.Settings) []CameraValueBuilderOption {
		return append([]CameraValueBuilderOption{WithDefault(def), WithChangeSpeed(speed)}, extra...)
	}
}

func fromSettings(speed float64, get func(s config.Settings) float64, extra ...CameraValueBuilderOption) func(config.Settings) []CameraValueBuilderOption {
	return func(s config.Settings) []CameraValueBuilderOption {
		return append([]CameraValueBuilderOption{WithDefault(get(s)), WithChangeSpeed(speed)}, extra...)
	}
}

var (
	instant      = WithFlags(NoTween)
	mirrored     = WithFlags(NoTween | NoModifiers)
	frozen       = WithFlags(NoTween | DontUpdateIfDisabled)
	decelerating = WithEasing(tween.Decelerating)
	halfPi       = math.Pi * 0.5
)

// registry lists every channel in update order. Index equals ID.
var registry = [IDCount]channelDef{
	CollisionEnabled: {key: "CollisionEnabled", name: "collision enabled", options: fixed(1, 1, instant)},
	WantEnabled:      {key: "WantEnabled", name: "want enabled", options: fixed(0, 1, instant)},
	WantDisabled:     {key: "WantDisabled", name: "want disabled", options: fixed(0, 1, instant)},
	FaceCamera:       {key: "FaceCamera", name: "face camera", options: fixed(0, 1, instant)},
	ActorTurnTime:    {key: "ActorTurnTime", name: "actor turn time", options: fixed(0, 1, instant)},
	HeadTrackEnabled: {key: "HeadTrackEnabled", name: "head tracking enabled", options: fixed(0, 1, frozen)},
	InputRotationX:   {key: "InputRotationX", name: "input rotation x", options: fixed(0, 1, mirrored)},
	InputRotationY:   {key: "InputRotationY", name: "input rotation y", options: fixed(0, 1, mirrored)},

	InputRotationXMultiplier: {key: "InputRotationXMultiplier", name: "input rotation x multiplier", options: fixed(1, 1)},
	InputRotationYMultiplier: {key: "InputRotationYMultiplier", name: "input rotation y multiplier", options: fixed(1, 1)},
	ExtraResponsiveControls:  {key: "ExtraResponsiveControls", name: "extra responsive controls", capture: true, options: fixed(0, 1, frozen)},
	NearClip:                 {key: "NearClip", name: "near clip", capture: true, options: fixed(0, 1, instant)},
	ThirdPersonArrowTilt:     {key: "ThirdPersonArrowTilt", name: "third person arrow tilt", capture: true, options: fixed(0, 1, instant)},

	Offset1PositionX:      {key: "Offset1PositionX", name: "offset 1 position x", options: fromSettings(10, func(s config.Settings) float64 { return s.BaseOffsetX })},
	Offset1PositionY:      {key: "Offset1PositionY", name: "offset 1 position y", options: fromSettings(10, func(s config.Settings) float64 { return s.BaseOffsetY })},
	Offset1PositionZ:      {key: "Offset1PositionZ", name: "offset 1 position z", options: fromSettings(10, func(s config.Settings) float64 { return s.BaseOffsetZ })},
	Offset1RotationX:      {key: "Offset1RotationX", name: "offset 1 rotation x", options: fixed(0, halfPi)},
	Offset1RotationY:      {key: "Offset1RotationY", name: "offset 1 rotation y", options: fixed(0, halfPi)},
	Offset2PositionX:      {key: "Offset2PositionX", name: "offset 2 position x", options: fixed(0, 10)},
	Offset2PositionY:      {key: "Offset2PositionY", name: "offset 2 position y", options: fixed(0, 10)},
	Offset2PositionZ:      {key: "Offset2PositionZ", name: "offset 2 position z", options: fixed(0, 10)},
	Offset2RotationX:      {key: "Offset2RotationX", name: "offset 2 rotation x", options: fixed(0, halfPi)},
	Offset2RotationY:      {key: "Offset2RotationY", name: "offset 2 rotation y", options: fixed(0, halfPi)},
	OffsetObjectPositionX: {key: "OffsetObjectPositionX", name: "object offset x", options: fixed(0, 20)},
	OffsetObjectPositionY: {key: "OffsetObjectPositionY", name: "object offset y", options: fixed(0, 20)},
	OffsetObjectPositionZ: {key: "OffsetObjectPositionZ", name: "object offset z", options: fixed(0, 20)},

	PositionFromHead: {key: "PositionFromHead", name: "position from head", options: fromSettings(2, func(s config.Settings) float64 { return s.PositionFromHead })},
	RotationFromHead: {key: "RotationFromHead", name: "rotation from head", options: fromSettings(1, func(s config.Settings) float64 { return s.RotationFromHead })},

	StabilizeHistoryDuration: {key: "StabilizeHistoryDuration", name: "stabilize history duration", options: fromSettings(5000, func(s config.Settings) float64 { return s.StabilizeHistoryDuration * 1000 })},
	StabilizeIgnorePositionX: {key: "StabilizeIgnorePositionX", name: "stabilize ignore position x", options: fromSettings(5, func(s config.Settings) float64 { return s.StabilizeIgnorePositionX })},
	StabilizeIgnorePositionY: {key: "StabilizeIgnorePositionY", name: "stabilize ignore position y", options: fromSettings(5, func(s config.Settings) float64 { return s.StabilizeIgnorePositionY })},
	StabilizeIgnorePositionZ: {key: "StabilizeIgnorePositionZ", name: "stabilize ignore position z", options: fromSettings(5, func(s config.Settings) float64 { return s.StabilizeIgnorePositionZ })},
	StabilizeIgnoreRotationX: {key: "StabilizeIgnoreRotationX", name: "stabilize ignore rotation x", options: fromSettings(30, func(s config.Settings) float64 { return s.StabilizeIgnoreRotationX })},
	StabilizeIgnoreRotationY: {key: "StabilizeIgnoreRotationY", name: "stabilize ignore rotation y", options: fromSettings(30, func(s config.Settings) float64 { return s.StabilizeIgnoreRotationY })},
	StabilizeIgnoreOffsetX:   {key: "StabilizeIgnoreOffsetX", name: "stabilize ignore offset x", options: fromSettings(720, func(s config.Settings) float64 { return s.StabilizeIgnoreOffsetX }, decelerating)},
	StabilizeIgnoreOffsetY:   {key: "StabilizeIgnoreOffsetY", name: "stabilize ignore offset y", options: fromSettings(720, func(s config.Settings) float64 { return s.StabilizeIgnoreOffsetY }, decelerating)},

	RestrictDown:     {key: "RestrictDown", name: "restrict down", options: fixed(Unrestricted, 720)},
	RestrictUp:       {key: "RestrictUp", name: "restrict up", options: fixed(Unrestricted, 720)},
	RestrictLeft:     {key: "RestrictLeft", name: "restrict left", options: fixed(Unrestricted, 720)},
	RestrictRight:    {key: "RestrictRight", name: "restrict right", options: fixed(Unrestricted, 720)},
	RestrictLeft2:    {key: "RestrictLeft2", name: "restrict left while looking down", options: fixed(Unrestricted, 720)},
	RestrictRight2:   {key: "RestrictRight2", name: "restrict right while looking down", options: fixed(Unrestricted, 720)},
	RestrictSideDown: {key: "RestrictSideDown", name: "restrict side down", options: fixed(0, 720)},

	HideHead:           {key: "HideHead", name: "hide head", options: fixed(0, 1, instant)},
	HideHead2:          {key: "HideHead2", name: "hide head 2", options: fixed(0, 1, instant)},
	HideArms:           {key: "HideArms", name: "hide arms", options: fixed(0, 1, instant)},
	Show1stPersonArms:  {key: "Show1stPersonArms", name: "show first person arms", options: fixed(0, 1, instant)},
	BlockPlayerFadeOut: {key: "BlockPlayerFadeOut", name: "block player fade out", options: fixed(0, 1, instant)},
	SkeletonMode:       {key: "SkeletonMode", name: "skeleton mode", options: fixed(0, 1, instant)},

	FirstPersonSkeletonRotateYMultiplier: {key: "FirstPersonSkeletonRotateYMultiplier", name: "first person skeleton rotate y multiplier", options: fixed(1, 1)},
}

// ParseID resolves a channel key to its ID, case-insensitively.
//
// Parameters:
//   - key: the channel key, e.g. "StabilizeIgnoreOffsetY"
//
// Returns:
//   - ID: the channel id
//   - error: ErrUnknownValue if no channel has that key
func ParseID(key string) (ID, error) {
	k := strings.TrimSpace(key)
	for id, def := range registry {
		if strings.EqualFold(def.key, k) {
			return ID(id), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownValue, key)
}

// String returns the channel key.
func (id ID) String() string {
	if id < 0 || id >= IDCount {
		return fmt.Sprintf("ID(%d)", int(id))
	}
	return registry[id].key
}

// Map is the registry of every value channel the camera reads, updated once per frame.
type Map interface {
	// Get returns the channel for id.
	Get(id ID) CameraValue

	// ByName looks a channel up by key, case-insensitively.
	//
	// Parameters:
	//   - key: the channel key, e.g. "offset1positionx"
	//
	// Returns:
	//   - CameraValue: the channel
	//   - error: ErrUnknownValue if no channel has that key
	ByName(key string) (CameraValue, error)

	// All returns every channel in registration order.
	All() []CameraValue

	// Keys returns every channel key sorted alphabetically.
	Keys() []string

	// Update resolves every channel in registration order.
	//
	// Parameters:
	//   - now: frame time in milliseconds
	//   - enabled: whether the camera is enabled this frame
	Update(now int64, enabled bool)

	// Reset drops all modifiers from every channel.
	Reset()

	// Seed rebuilds every channel from scratch with defaults taken from s.
	// Modifiers held by states on the old channels become detached.
	//
	// Parameters:
	//   - s: the settings to seed defaults from
	Seed(s config.Settings)
}

type mapImpl struct {
	values   []CameraValue
	index    map[string]ID
	bindings map[ID]Binding
}

var _ Map = &mapImpl{}

// NewMap builds the value map with defaults seeded from settings.
//
// Parameters:
//   - s: the settings to seed defaults from
//   - options: variadic list of MapBuilderOption
//
// Returns:
//   - Map: the newly created map
func NewMap(s config.Settings, options ...MapBuilderOption) Map {
	m := &mapImpl{
		index:    make(map[string]ID, IDCount),
		bindings: make(map[ID]Binding),
	}
	for _, opt := range options {
		opt(m)
	}
	m.Seed(s)
	return m
}

func (m *mapImpl) Seed(s config.Settings) {
	m.values = make([]CameraValue, IDCount)
	maps.Clear(m.index)
	for id, def := range registry {
		options := def.options(s)
		options = append(options, WithName(def.name))
		if b, ok := m.bindings[ID(id)]; ok {
			options = append(options, WithBinding(b, def.capture))
		}
		m.values[id] = NewCameraValue(def.key, options...)
		m.index[strings.ToLower(def.key)] = ID(id)
	}
}

func (m *mapImpl) Get(id ID) CameraValue {
	if id < 0 || id >= IDCount {
		panic(fmt.Sprintf("value: Get called with invalid id %d", id))
	}
	return m.values[id]
}

func (m *mapImpl) ByName(key string) (CameraValue, error) {
	id, ok := m.index[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownValue, key)
	}
	return m.values[id], nil
}

func (m *mapImpl) All() []CameraValue {
	out := make([]CameraValue, len(m.values))
	copy(out, m.values)
	return out
}

func (m *mapImpl) Keys() []string {
	keys := make([]string, 0, len(m.index))
	for _, id := range maps.Values(m.index) {
		keys = append(keys, m.values[id].Key())
	}
	slices.Sort(keys)
	return keys
}

func (m *mapImpl) Update(now int64, enabled bool) {
	for _, v := range m.values {
		v.Update(now, enabled)
	}
}

func (m *mapImpl) Reset() {
	for _, v := range m.values {
		v.Reset()
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
)

// EnvPrefix prefixes every environment override, e.g. IFPV_BASE_OFFSET_Y.
const EnvPrefix = "IFPV_"

// DefaultFileName is the settings file looked up next to the profiles.
const DefaultFileName = "IFPV.toml"

// Settings holds every user tunable the camera reads. Angles are in degrees,
// durations in seconds, distances in game units.
type Settings struct {
	ToggleHotkey string `toml:"ToggleHotkey" env:"TOGGLE_HOTKEY"`
	ReloadHotkey string `toml:"ReloadHotkey" env:"RELOAD_HOTKEY"`

	ReplaceDefaultCamera  bool `toml:"ReplaceDefaultCamera" env:"REPLACE_DEFAULT_CAMERA"`
	DisableDuringKillmove bool `toml:"DisableDuringKillmove" env:"DISABLE_DURING_KILLMOVE"`

	BaseOffsetX float64 `toml:"BaseOffsetX" env:"BASE_OFFSET_X"`
	BaseOffsetY float64 `toml:"BaseOffsetY" env:"BASE_OFFSET_Y"`
	BaseOffsetZ float64 `toml:"BaseOffsetZ" env:"BASE_OFFSET_Z"`

	PositionFromHead float64 `toml:"PositionFromHead" env:"POSITION_FROM_HEAD"`
	RotationFromHead float64 `toml:"RotationFromHead" env:"ROTATION_FROM_HEAD"`

	StabilizeHistoryDuration float64 `toml:"StabilizeHistoryDuration" env:"STABILIZE_HISTORY_DURATION"`
	StabilizeIgnorePositionX float64 `toml:"StabilizeIgnorePositionX" env:"STABILIZE_IGNORE_POSITION_X"`
	StabilizeIgnorePositionY float64 `toml:"StabilizeIgnorePositionY" env:"STABILIZE_IGNORE_POSITION_Y"`
	StabilizeIgnorePositionZ float64 `toml:"StabilizeIgnorePositionZ" env:"STABILIZE_IGNORE_POSITION_Z"`
	StabilizeIgnoreRotationX float64 `toml:"StabilizeIgnoreRotationX" env:"STABILIZE_IGNORE_ROTATION_X"`
	StabilizeIgnoreRotationY float64 `toml:"StabilizeIgnoreRotationY" env:"STABILIZE_IGNORE_ROTATION_Y"`
	StabilizeIgnoreOffsetX   float64 `toml:"StabilizeIgnoreOffsetX" env:"STABILIZE_IGNORE_OFFSET_X"`
	StabilizeIgnoreOffsetY   float64 `toml:"StabilizeIgnoreOffsetY" env:"STABILIZE_IGNORE_OFFSET_Y"`

	CameraCollisionSafety    float64 `toml:"CameraCollisionSafety" env:"CAMERA_COLLISION_SAFETY"`
	HidePlayerWhenColliding  bool    `toml:"HidePlayerWhenColliding" env:"HIDE_PLAYER_WHEN_COLLIDING"`
	MaximumDownAngleCollided float64 `toml:"MaximumDownAngleCollided" env:"MAXIMUM_DOWN_ANGLE_COLLIDED"`

	DownOffsetX                     float64 `toml:"DownOffsetX" env:"DOWN_OFFSET_X"`
	DownOffsetY                     float64 `toml:"DownOffsetY" env:"DOWN_OFFSET_Y"`
	DownOffsetZ                     float64 `toml:"DownOffsetZ" env:"DOWN_OFFSET_Z"`
	DownOffsetBeginAngle            float64 `toml:"DownOffsetBeginAngle" env:"DOWN_OFFSET_BEGIN_ANGLE"`
	TryFixLeftRightMovementClipping float64 `toml:"TryFixLeftRightMovementClipping" env:"TRY_FIX_LEFT_RIGHT_MOVEMENT_CLIPPING"`

	NearClipInteriorDefault float64 `toml:"NearClipInteriorDefault" env:"NEAR_CLIP_INTERIOR_DEFAULT"`
	NearClipInteriorDown    float64 `toml:"NearClipInteriorDown" env:"NEAR_CLIP_INTERIOR_DOWN"`
	NearClipExteriorDefault float64 `toml:"NearClipExteriorDefault" env:"NEAR_CLIP_EXTERIOR_DEFAULT"`
	NearClipExteriorDown    float64 `toml:"NearClipExteriorDown" env:"NEAR_CLIP_EXTERIOR_DOWN"`

	ActorTurnTime          float64 `toml:"ActorTurnTime" env:"ACTOR_TURN_TIME"`
	ActorTurnStabilizeTime float64 `toml:"ActorTurnStabilizeTime" env:"ACTOR_TURN_STABILIZE_TIME"`
	ForceAutoTurnOnAngle   float64 `toml:"ForceAutoTurnOnAngle" env:"FORCE_AUTO_TURN_ON_ANGLE"`
	AlwaysForceAutoTurn    bool    `toml:"AlwaysForceAutoTurn" env:"ALWAYS_FORCE_AUTO_TURN"`

	HeadBob       bool    `toml:"HeadBob" env:"HEAD_BOB"`
	HeadBobAmount float64 `toml:"HeadBobAmount" env:"HEAD_BOB_AMOUNT"`

	FixLookSensitivity        bool    `toml:"FixLookSensitivity" env:"FIX_LOOK_SENSITIVITY"`
	LookSensitivityHorizontal float64 `toml:"LookSensitivityHorizontal" env:"LOOK_SENSITIVITY_HORIZONTAL"`
	LookSensitivityVertical   float64 `toml:"LookSensitivityVertical" env:"LOOK_SENSITIVITY_VERTICAL"`

	HeadTrackEnable         bool `toml:"HeadTrackEnable" env:"HEAD_TRACK_ENABLE"`
	HideHead                bool `toml:"HideHead" env:"HIDE_HEAD"`
	HideArms                bool `toml:"HideArms" env:"HIDE_ARMS"`
	SeparateShadowCulling   bool `toml:"SeparateShadowCulling" env:"SEPARATE_SHADOW_CULLING"`
	ExtraResponsiveControls bool `toml:"ExtraResponsiveControls" env:"EXTRA_RESPONSIVE_CONTROLS"`

	ProfileDir string `toml:"ProfileDir" env:"PROFILE_DIR"`
}

// Default returns the built-in settings used when no file is present.
//
// Returns:
//   - Settings: the default settings
func Default() Settings {
	return Settings{
		ToggleHotkey: "F12",
		ReloadHotkey: "",

		ReplaceDefaultCamera: true,

		BaseOffsetX: 0,
		BaseOffsetY: 8,
		BaseOffsetZ: 0,

		PositionFromHead: 1,
		RotationFromHead: 0,

		StabilizeHistoryDuration: 0.2,
		StabilizeIgnorePositionX: 2,
		StabilizeIgnorePositionY: 2,
		StabilizeIgnorePositionZ: 2,
		StabilizeIgnoreRotationX: 0,
		StabilizeIgnoreRotationY: 0,
		StabilizeIgnoreOffsetX:   10,
		StabilizeIgnoreOffsetY:   15,

		CameraCollisionSafety:    0,
		HidePlayerWhenColliding:  true,
		MaximumDownAngleCollided: 60,

		DownOffsetX:                     0,
		DownOffsetY:                     -6,
		DownOffsetZ:                     0,
		DownOffsetBeginAngle:            40,
		TryFixLeftRightMovementClipping: -4,

		NearClipInteriorDefault: 1,
		NearClipInteriorDown:    1,
		NearClipExteriorDefault: 5,
		NearClipExteriorDown:    1,

		ActorTurnTime:          0.2,
		ActorTurnStabilizeTime: 0.3,
		ForceAutoTurnOnAngle:   90,
		AlwaysForceAutoTurn:    false,

		HeadBob:       true,
		HeadBobAmount: 1,

		FixLookSensitivity:        true,
		LookSensitivityHorizontal: 1,
		LookSensitivityVertical:   1,

		HeadTrackEnable: true,
		HideHead:        true,
		HideArms:        false,
	}
}

// Load reads settings from a TOML file, falling back to Default for any key the file omits,
// then applies IFPV_* environment overrides. A missing file is not an error.
//
// Parameters:
//   - path: the settings file path
//
// Returns:
//   - Settings: the loaded settings
//   - error: a decode or environment parse error
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, &s)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("[Config] %s not found, using defaults", path)
		case err != nil:
			return Default(), fmt.Errorf("decode %s: %w", path, err)
		default:
			for _, key := range md.Undecoded() {
				log.Printf("[Config] %s: unknown key %q ignored", path, key.String())
			}
		}
	}

	if err := env.ParseWithOptions(&s, env.Options{Prefix: EnvPrefix}); err != nil {
		return Default(), fmt.Errorf("parse env: %w", err)
	}

	s.Validate()
	return s, nil
}

// Loader returns a reload function bound to path, for the reload hotkey.
func Loader(path string) func() (Settings, error) {
	return func() (Settings, error) {
		return Load(path)
	}
}

// Validate clamps settings into their usable ranges and drops unparseable hotkeys.
func (s *Settings) Validate() {
	s.PositionFromHead = common.Clamp(s.PositionFromHead, 0, 1)
	s.RotationFromHead = common.Clamp(s.RotationFromHead, 0, 1)
	s.StabilizeHistoryDuration = max(s.StabilizeHistoryDuration, 0)
	s.CameraCollisionSafety = max(s.CameraCollisionSafety, 0)
	s.MaximumDownAngleCollided = common.Clamp(s.MaximumDownAngleCollided, 0, 360)
	s.DownOffsetBeginAngle = common.Clamp(s.DownOffsetBeginAngle, 0, 89)
	s.ActorTurnTime = max(s.ActorTurnTime, 0)
	s.ActorTurnStabilizeTime = max(s.ActorTurnStabilizeTime, 0)
	s.HeadBobAmount = max(s.HeadBobAmount, 0)

	if _, ok := common.ParseKeyCode(s.ToggleHotkey); !ok {
		log.Printf("[Config] unknown ToggleHotkey %q, hotkey disabled", s.ToggleHotkey)
		s.ToggleHotkey = ""
	}
	if _, ok := common.ParseKeyCode(s.ReloadHotkey); !ok {
		log.Printf("[Config] unknown ReloadHotkey %q, hotkey disabled", s.ReloadHotkey)
		s.ReloadHotkey = ""
	}
}

// ToggleKey returns the parsed toggle hotkey.
func (s Settings) ToggleKey() common.KeyCode {
	k, _ := common.ParseKeyCode(s.ToggleHotkey)
	return k
}

// ReloadKey returns the parsed reload hotkey.
func (s Settings) ReloadKey() common.KeyCode {
	k, _ := common.ParseKeyCode(s.ReloadHotkey)
	return k
}

// WriteFile writes s as TOML, creating or truncating path.
//
// Parameters:
//   - path: destination file
//
// Returns:
//   - error: a create or encode error
func (s Settings) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

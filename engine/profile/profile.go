// Package profile loads custom camera profiles: TOML descriptors that add value modifiers
// while a fixed set of conditions holds.
//
// A profile file is named IFPVProfile.<name>.toml:
//
//	Priority = 60
//	Group = 1
//
//	[Values.StabilizeIgnoreOffsetY]
//	Amount = 40
//	Type = "SetIfPreviousIsLowerThanThis"
//	RemoveDelay = 300
//
//	[Conditions]
//	Mounted = 1
//	Race = "Khajiit"
package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/sync/errgroup"

	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

const (
	// FilePrefix starts every profile file name.
	FilePrefix = "IFPVProfile."
	// FileSuffix ends every profile file name.
	FileSuffix = ".toml"

	// DefaultPriority is used when a profile does not set one.
	DefaultPriority = 50
	// MaxGroup is the exclusive upper bound for profile groups.
	MaxGroup = 32
)

var (
	// ErrBadCondition is returned for an unknown condition key or a condition of the wrong type.
	ErrBadCondition = errors.New("profile: bad condition")
	// ErrBadGroup is returned for a group outside [0, MaxGroup).
	ErrBadGroup = errors.New("profile: group out of range")
	// ErrEmpty is returned for a profile that sets no values.
	ErrEmpty = errors.New("profile: no values set")
)

// ConditionKind names one of the fixed profile conditions.
type ConditionKind int

const (
	// CondEnabled holds when the camera enabled state equals Number >= 0.5.
	CondEnabled ConditionKind = iota
	// CondMounted holds when the mounted state equals Number >= 0.5.
	CondMounted
	// CondKeyword holds when the followed object has the keyword Text.
	CondKeyword
	// CondRace holds when the followed actor's race name or editor id contains Text.
	CondRace
	// CondProfile holds when the state named Text is active.
	CondProfile
	// CondNotProfile holds when the state named Text is not active.
	CondNotProfile
)

var conditionNames = map[ConditionKind]string{
	CondEnabled:    "Enabled",
	CondMounted:    "Mounted",
	CondKeyword:    "Keyword",
	CondRace:       "Race",
	CondProfile:    "Profile",
	CondNotProfile: "NotProfile",
}

func (k ConditionKind) String() string {
	if n, ok := conditionNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ConditionKind(%d)", int(k))
}

// Numeric reports whether the condition takes a number rather than text.
func (k ConditionKind) Numeric() bool {
	return k == CondEnabled || k == CondMounted
}

// Condition is one parsed condition. Number is set for numeric kinds, Text otherwise.
type Condition struct {
	Kind   ConditionKind
	Number float64
	Text   string
}

// Setter is one value modifier the profile adds while it is active.
type Setter struct {
	ID          value.ID
	Kind        value.ModifierKind
	Amount      float64
	RemoveDelay int64
}

// Profile is a parsed custom profile.
type Profile struct {
	Name       string
	Priority   int
	Group      int
	Setters    []Setter
	Conditions []Condition
}

type setterFile struct {
	Amount      float64 `toml:"Amount"`
	Type        string  `toml:"Type"`
	RemoveDelay int64   `toml:"RemoveDelay"`
}

type profileFile struct {
	Priority   *int                      `toml:"Priority"`
	Group      int                       `toml:"Group"`
	Values     map[string]setterFile     `toml:"Values"`
	Conditions map[string]toml.Primitive `toml:"Conditions"`
}

// NameFromFile extracts the profile name from a file name such as "IFPVProfile.Horse.toml".
//
// Parameters:
//   - file: the base file name
//
// Returns:
//   - string: the profile name
//   - bool: false if the file is not a profile
func NameFromFile(file string) (string, bool) {
	if len(file) <= len(FilePrefix)+len(FileSuffix) {
		return "", false
	}
	if !strings.EqualFold(file[:len(FilePrefix)], FilePrefix) || !strings.EqualFold(file[len(file)-len(FileSuffix):], FileSuffix) {
		return "", false
	}
	return file[len(FilePrefix) : len(file)-len(FileSuffix)], true
}

// Parse decodes a profile from TOML.
//
// Parameters:
//   - name: the profile name used by Profile conditions
//   - data: the TOML document
//
// Returns:
//   - *Profile: the parsed profile
//   - error: a decode error, ErrBadCondition, ErrBadGroup, ErrEmpty or a wrapped value error
func Parse(name string, data []byte) (*Profile, error) {
	var f profileFile
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}

	p := &Profile{Name: name, Priority: DefaultPriority, Group: f.Group}
	if f.Priority != nil {
		p.Priority = *f.Priority
	}
	if p.Group < 0 || p.Group >= MaxGroup {
		return nil, fmt.Errorf("profile %s: %w: %d", name, ErrBadGroup, p.Group)
	}

	keys := make([]string, 0, len(f.Values))
	for k := range f.Values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		sf := f.Values[k]
		id, err := value.ParseID(k)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		kind, err := value.ParseModifierKind(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %s: %w", name, k, err)
		}
		amount := sf.Amount
		// History duration is written in seconds like the settings file.
		if id == value.StabilizeHistoryDuration {
			amount *= 1000
		}
		p.Setters = append(p.Setters, Setter{ID: id, Kind: kind, Amount: amount, RemoveDelay: max(sf.RemoveDelay, 0)})
	}
	if len(p.Setters) == 0 {
		return nil, fmt.Errorf("profile %s: %w", name, ErrEmpty)
	}

	if err := p.parseConditions(md, f.Conditions); err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}

	for _, key := range md.Undecoded() {
		log.Printf("[Profile] %s: unknown key %q ignored", name, key.String())
	}
	return p, nil
}

func (p *Profile) parseConditions(md toml.MetaData, raw map[string]toml.Primitive) error {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		kind, ok := parseConditionKind(k)
		if !ok {
			return fmt.Errorf("%w: unknown condition %q", ErrBadCondition, k)
		}
		c := Condition{Kind: kind}
		if kind.Numeric() {
			var n float64
			if err := md.PrimitiveDecode(raw[k], &n); err != nil {
				var i int64
				if err2 := md.PrimitiveDecode(raw[k], &i); err2 != nil {
					return fmt.Errorf("%w: %s needs a number: %v", ErrBadCondition, k, err)
				}
				n = float64(i)
			}
			c.Number = n
		} else if err := md.PrimitiveDecode(raw[k], &c.Text); err != nil {
			return fmt.Errorf("%w: %s needs a string: %v", ErrBadCondition, k, err)
		}
		p.Conditions = append(p.Conditions, c)
	}
	return nil
}

func parseConditionKind(s string) (ConditionKind, bool) {
	for k, n := range conditionNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return k, true
		}
	}
	return 0, false
}

// Load reads one profile file. The name comes from the file name.
//
// Parameters:
//   - path: the profile file path
//
// Returns:
//   - *Profile: the parsed profile
//   - error: a read or parse error
func Load(path string) (*Profile, error) {
	name, ok := NameFromFile(filepath.Base(path))
	if !ok {
		return nil, fmt.Errorf("profile: %s is not a profile file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	return Parse(name, data)
}

// LoadDir loads every profile file in dir concurrently. A missing directory yields no profiles.
// Profiles that fail to parse are logged and skipped; the result is sorted by name.
//
// Parameters:
//   - ctx: cancels loading
//   - dir: the directory to scan
//
// Returns:
//   - []*Profile: the loaded profiles
//   - error: a directory read error or ctx.Err()
func LoadDir(ctx context.Context, dir string) ([]*Profile, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := NameFromFile(e.Name()); ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	loaded := make([]*Profile, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := Load(path)
			if err != nil {
				log.Printf("[Profile] skipped: %v", err)
				return nil
			}
			loaded[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*Profile, 0, len(loaded))
	for _, p := range loaded {
		if p != nil {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b *Profile) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	log.Printf("[Profile] loaded %d of %d profiles from %s", len(out), len(files), dir)
	return out, nil
}

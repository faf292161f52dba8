// Package config is the world engine's configuration blackboard: the table
// of runtime knobs named in the spec (worldSeed, chunkActivationDistance,
// enableHiddenSurfaceRemoval, windowAspect, savesRoot).
//
// Keys can be read from a TOML document with Load, mirroring the way
// benanders-Mineral's block/variants.go decodes block TOML with
// github.com/BurntSushi/toml. Everything else follows mini-mc's
// internal/config getter/setter shape, but on an instantiable,
// mutex-guarded Blackboard rather than package globals.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	homedir "github.com/mitchellh/go-homedir"
)

// Blackboard holds the recognized keys from SPEC_FULL.md section 6.
type Blackboard struct {
	mu sync.RWMutex

	worldSeed                  uint32
	chunkActivationDistance    float64
	enableHiddenSurfaceRemoval bool
	windowAspect               float64
	savesRoot                  string
}

// document is the on-disk TOML shape; fields default to the zero value when
// absent so a partial document only overrides the keys it mentions.
type document struct {
	WorldSeed                  *uint32  `toml:"worldSeed"`
	ChunkActivationDistance    *float64 `toml:"chunkActivationDistance"`
	EnableHiddenSurfaceRemoval *bool    `toml:"enableHiddenSurfaceRemoval"`
	WindowAspect               *float64 `toml:"windowAspect"`
	SavesRoot                  *string  `toml:"savesRoot"`
}

// Defaults returns a Blackboard populated with the spec's documented defaults.
func Defaults() *Blackboard {
	return &Blackboard{
		worldSeed:                  0,
		chunkActivationDistance:    250.0,
		enableHiddenSurfaceRemoval: true,
		windowAspect:               2.0,
		savesRoot:                  "",
	}
}

// Load reads a TOML document from path and overlays it onto the spec
// defaults. A missing file is not an error — it simply means "use defaults",
// the same tolerance mini-mc's config package gives absent settings.
func Load(path string) (*Blackboard, error) {
	b := Defaults()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if doc.WorldSeed != nil {
		b.worldSeed = *doc.WorldSeed
	}
	if doc.ChunkActivationDistance != nil {
		b.chunkActivationDistance = *doc.ChunkActivationDistance
	}
	if doc.EnableHiddenSurfaceRemoval != nil {
		b.enableHiddenSurfaceRemoval = *doc.EnableHiddenSurfaceRemoval
	}
	if doc.WindowAspect != nil {
		b.windowAspect = *doc.WindowAspect
	}
	if doc.SavesRoot != nil {
		b.savesRoot = *doc.SavesRoot
	}
	return b, nil
}

// WorldSeed returns the seed key driving every Perlin/white-noise source.
func (b *Blackboard) WorldSeed() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.worldSeed
}

// SetWorldSeed overwrites the seed (used by the "increment world seed" action).
func (b *Blackboard) SetWorldSeed(seed uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.worldSeed = seed
}

// ActivationDistance returns R_a, the activation radius in world units.
func (b *Blackboard) ActivationDistance() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.chunkActivationDistance
}

// SetActivationDistance sets R_a.
func (b *Blackboard) SetActivationDistance(d float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d < 0 {
		d = 0
	}
	b.chunkActivationDistance = d
}

// HiddenSurfaceRemoval reports whether the mesher should cull faces against
// opaque neighbors.
func (b *Blackboard) HiddenSurfaceRemoval() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enableHiddenSurfaceRemoval
}

// SetHiddenSurfaceRemoval toggles hidden-surface removal.
func (b *Blackboard) SetHiddenSurfaceRemoval(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enableHiddenSurfaceRemoval = enabled
}

// WindowAspect is carried for blackboard completeness; the core never reads it.
func (b *Blackboard) WindowAspect() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.windowAspect
}

// SavesRoot returns the configured Saves directory root, resolving the
// default (~/Saves) via go-homedir when no override is set.
func (b *Blackboard) SavesRoot() (string, error) {
	b.mu.RLock()
	override := b.savesRoot
	b.mu.RUnlock()
	if override != "" {
		return override, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return home + string(os.PathSeparator) + "Saves", nil
}

// SetSavesRoot overrides the Saves directory root.
func (b *Blackboard) SetSavesRoot(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.savesRoot = path
}

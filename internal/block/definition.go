package block

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// Definition is the immutable, process-wide metadata for one block type.
type Definition struct {
	ID            Type
	Name          string
	IsVisible     bool
	IsSolid       bool
	IsOpaque      bool
	TopTexture    int
	SideTexture   int
	BottomTexture int
	LightEmission uint8
}

// Registry is a process-wide, read-only-after-init table of Definitions
// indexed by id and by name (SPEC_FULL.md §3: "BlockDefinition registry").
type Registry struct {
	byID   []Definition
	byName map[string]Type
}

// tomlDocument mirrors definitions.toml's [[block]] array-of-tables shape.
type tomlDocument struct {
	Block []tomlBlock `toml:"block"`
}

type tomlBlock struct {
	Name          string `toml:"name"`
	Visible       bool   `toml:"visible"`
	Solid         bool   `toml:"solid"`
	Opaque        bool   `toml:"opaque"`
	TopTexture    int    `toml:"topTexture"`
	SideTexture   int    `toml:"sideTexture"`
	BottomTexture int    `toml:"bottomTexture"`
	LightEmission int    `toml:"lightEmission"`
}

//go:embed definitions.toml
var builtinDefinitionsTOML string

// builtinRegistry is populated once in init from the embedded document and
// is the registry every other package consults unless a caller explicitly
// loads a replacement with NewRegistryFromTOML before anything else reads it.
var builtinRegistry *Registry

func init() {
	reg, err := NewRegistryFromTOML(builtinDefinitionsTOML)
	if err != nil {
		panic(fmt.Sprintf("block: failed to parse embedded definitions.toml: %v", err))
	}
	builtinRegistry = reg
}

// Builtin returns the process-wide registry decoded from the engine's
// embedded default block set.
func Builtin() *Registry {
	return builtinRegistry
}

// NewRegistryFromTOML decodes a block-definition document in the shape of
// definitions.toml. Type id 0 ("air") is synthesized automatically and must
// not be listed in the document; ids for the remaining entries are assigned
// in document order starting at 1, so reordering [[block]] entries changes
// save-file compatibility — callers that replace the built-in registry for
// a running world must keep id assignment stable across process restarts.
func NewRegistryFromTOML(doc string) (*Registry, error) {
	var parsed tomlDocument
	if _, err := toml.Decode(doc, &parsed); err != nil {
		return nil, fmt.Errorf("block: decode registry: %w", err)
	}

	reg := &Registry{
		byID:   make([]Definition, 1, len(parsed.Block)+1),
		byName: make(map[string]Type, len(parsed.Block)+1),
	}
	reg.byID[0] = Definition{ID: Air, Name: "air"}
	reg.byName["air"] = Air

	for i, b := range parsed.Block {
		id := Type(i + 1)
		if b.Name == "" {
			return nil, fmt.Errorf("block: entry %d missing name", i)
		}
		if _, dup := reg.byName[b.Name]; dup {
			return nil, fmt.Errorf("block: duplicate block name %q", b.Name)
		}
		if b.LightEmission < 0 || b.LightEmission > 15 {
			return nil, fmt.Errorf("block: %q: lightEmission out of range [0,15]: %d", b.Name, b.LightEmission)
		}
		def := Definition{
			ID:            id,
			Name:          b.Name,
			IsVisible:     b.Visible,
			IsSolid:       b.Solid,
			IsOpaque:      b.Opaque,
			TopTexture:    b.TopTexture,
			SideTexture:   b.SideTexture,
			BottomTexture: b.BottomTexture,
			LightEmission: uint8(b.LightEmission),
		}
		reg.byID = append(reg.byID, def)
		reg.byName[b.Name] = id
	}
	return reg, nil
}

// ByID looks up a definition by type id. An out-of-range id is a programmer
// invariant violation (SPEC_FULL.md §7) and panics rather than returning a
// zero-value definition that would silently misreport a block as air.
func (r *Registry) ByID(id Type) Definition {
	if int(id) >= len(r.byID) {
		panic(fmt.Sprintf("block: type id %d out of range (registry has %d entries)", id, len(r.byID)))
	}
	return r.byID[id]
}

// ByName looks up a type id by its definition name. ok is false for an
// unknown name.
func (r *Registry) ByName(name string) (Type, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Len returns the number of registered definitions, including air.
func (r *Registry) Len() int {
	return len(r.byID)
}

// Names returns every registered block name, "air" first and the rest
// sorted alphabetically, for diagnostics and deterministic test output.
func (r *Registry) Names() []string {
	names := make([]string, len(r.byID))
	for i, d := range r.byID {
		names[i] = d.Name
	}
	sort.Strings(names[1:]) // keep "air" first, sort the rest for readability
	return names
}

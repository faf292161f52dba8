package block

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Offset is a local 3-D offset from a template's stamp origin.
type Offset struct {
	X, Y, Z int
}

// TemplateEntry pairs an offset with the block name to stamp there.
type TemplateEntry struct {
	Offset    Offset
	BlockName string
}

// Template is a named, ordered list of offset/block-name pairs used to stamp
// structures — trees, cacti, mushrooms, lava pits — into generated terrain.
// Entries whose offset falls outside the target chunk are silently dropped
// by the stamping routine in package terrain (SPEC_FULL.md §9).
type Template struct {
	Name    string
	Entries []TemplateEntry
}

// tomlTemplateDocument mirrors templates.toml's [[template]] array-of-tables
// shape, each with a nested [[template.entry]] list.
type tomlTemplateDocument struct {
	Template []tomlTemplate `toml:"template"`
}

type tomlTemplate struct {
	Name  string           `toml:"name"`
	Entry []tomlTemplateRow `toml:"entry"`
}

type tomlTemplateRow struct {
	X     int    `toml:"x"`
	Y     int    `toml:"y"`
	Z     int    `toml:"z"`
	Block string `toml:"block"`
}

//go:embed templates.toml
var builtinTemplatesTOML string

// TemplateLibrary is the process-wide, read-only-after-init table of named
// templates (SPEC_FULL.md §3: "BlockTemplate library").
type TemplateLibrary struct {
	byName map[string]*Template
}

var builtinTemplates *TemplateLibrary

func init() {
	lib, err := NewTemplateLibraryFromTOML(builtinTemplatesTOML)
	if err != nil {
		panic(fmt.Sprintf("block: failed to parse embedded templates.toml: %v", err))
	}
	builtinTemplates = lib
}

// BuiltinTemplates returns the engine's default template library.
func BuiltinTemplates() *TemplateLibrary {
	return builtinTemplates
}

// Names the five templates SPEC_FULL.md §3 requires to exist.
const (
	TemplateOakTree      = "OakTree"
	TemplateSpruceTree   = "SpruceTree"
	TemplateCactus       = "Cactus"
	TemplateLavaPit      = "LavaPit"
	TemplateGiantMushroom = "GiantMushroom"
)

// NewTemplateLibraryFromTOML decodes a template document in the shape of
// templates.toml.
func NewTemplateLibraryFromTOML(doc string) (*TemplateLibrary, error) {
	var parsed tomlTemplateDocument
	if _, err := toml.Decode(doc, &parsed); err != nil {
		return nil, fmt.Errorf("block: decode templates: %w", err)
	}

	lib := &TemplateLibrary{byName: make(map[string]*Template, len(parsed.Template))}
	for _, t := range parsed.Template {
		if t.Name == "" {
			return nil, fmt.Errorf("block: template entry missing name")
		}
		if _, dup := lib.byName[t.Name]; dup {
			return nil, fmt.Errorf("block: duplicate template name %q", t.Name)
		}
		tpl := &Template{Name: t.Name, Entries: make([]TemplateEntry, 0, len(t.Entry))}
		for _, row := range t.Entry {
			tpl.Entries = append(tpl.Entries, TemplateEntry{
				Offset:    Offset{X: row.X, Y: row.Y, Z: row.Z},
				BlockName: row.Block,
			})
		}
		lib.byName[t.Name] = tpl
	}
	return lib, nil
}

// ByName returns the named template and whether it exists.
func (l *TemplateLibrary) ByName(name string) (*Template, bool) {
	t, ok := l.byName[name]
	return t, ok
}

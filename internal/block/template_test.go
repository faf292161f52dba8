package block

import "testing"

func TestBuiltinTemplatesHasAllFive(t *testing.T) {
	lib := BuiltinTemplates()
	for _, name := range []string{
		TemplateOakTree,
		TemplateSpruceTree,
		TemplateCactus,
		TemplateLavaPit,
		TemplateGiantMushroom,
	} {
		tpl, ok := lib.ByName(name)
		if !ok {
			t.Fatalf("template %q not found", name)
		}
		if len(tpl.Entries) == 0 {
			t.Fatalf("template %q has no entries", name)
		}
	}
}

func TestOakTreeHasATrunkAndCanopy(t *testing.T) {
	lib := BuiltinTemplates()
	tpl, ok := lib.ByName(TemplateOakTree)
	if !ok {
		t.Fatalf("OakTree not found")
	}
	var logs, leaves int
	for _, e := range tpl.Entries {
		switch e.BlockName {
		case "oak_log":
			logs++
		case "oak_leaves":
			leaves++
		}
	}
	if logs == 0 {
		t.Fatalf("OakTree has no oak_log entries")
	}
	if leaves == 0 {
		t.Fatalf("OakTree has no oak_leaves entries")
	}
}

func TestNewTemplateLibraryFromTOMLRejectsDuplicateNames(t *testing.T) {
	const doc = `
[[template]]
name = "dup"
[[template.entry]]
x = 0
y = 0
z = 0
block = "stone"

[[template]]
name = "dup"
[[template.entry]]
x = 0
y = 0
z = 0
block = "dirt"
`
	if _, err := NewTemplateLibraryFromTOML(doc); err == nil {
		t.Fatalf("expected error for duplicate template name")
	}
}

func TestNewTemplateLibraryFromTOMLRejectsMissingName(t *testing.T) {
	const doc = `
[[template]]
name = ""
[[template.entry]]
x = 0
y = 0
z = 0
block = "stone"
`
	if _, err := NewTemplateLibraryFromTOML(doc); err == nil {
		t.Fatalf("expected error for missing template name")
	}
}

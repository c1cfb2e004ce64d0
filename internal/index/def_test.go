package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDef_Name(t *testing.T) {
	t.Parallel()

	// "int ns::Foo::bar(int)": qualified name starts at 4, short name "bar" at 13
	d := Def{
		DetailedName:    "int ns::Foo::bar(int)",
		QualNameOffset:  4,
		ShortNameOffset: 13,
		ShortNameSize:   3,
	}

	assert.Equal(t, "bar", d.Name(false))
	assert.Equal(t, "ns::Foo::bar", d.Name(true))
}

func TestDef_Name_OutOfBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  Def
		want string
	}{
		{"empty detailed name", Def{ShortNameOffset: 2, ShortNameSize: 3}, ""},
		{"size past end", Def{DetailedName: "abc", ShortNameOffset: 1, ShortNameSize: 10}, "bc"},
		{"negative offset", Def{DetailedName: "abc", ShortNameOffset: -1, ShortNameSize: 2}, "a"},
		{"zero size", Def{DetailedName: "abc", ShortNameOffset: 1}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.def.Name(false))
		})
	}
}

func TestVarDef_IsLocal(t *testing.T) {
	t.Parallel()

	spell := &DeclRef{Range: Range{Start: Pos{Line: 3}}}

	tests := []struct {
		name string
		def  VarDef
		want bool
	}{
		{"function local", VarDef{Def: Def{Spell: spell}, ParentKind: KindFunction}, true},
		{"method register", VarDef{Def: Def{Spell: spell}, ParentKind: KindMethod, Storage: StorageRegister}, true},
		{"constructor auto", VarDef{Def: Def{Spell: spell}, ParentKind: KindConstructor, Storage: StorageAuto}, true},
		{"function static", VarDef{Def: Def{Spell: spell}, ParentKind: KindFunction, Storage: StorageStatic}, false},
		{"static method extern", VarDef{Def: Def{Spell: spell}, ParentKind: KindStaticMethod, Storage: StorageExtern}, false},
		{"namespace scope", VarDef{Def: Def{Spell: spell}, ParentKind: KindNamespace}, false},
		{"file scope", VarDef{Def: Def{Spell: spell}, ParentKind: KindFile}, false},
		{"no spelling", VarDef{ParentKind: KindFunction}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.def.IsLocal())
		})
	}
}

func TestSymbolKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "field", KindField.String())
	assert.Equal(t, "macro", KindMacro.String())
	assert.Equal(t, "unknown", SymbolKind(200).String())
}

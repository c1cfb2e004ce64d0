package index

// Def holds the fields every declaration category shares.
type Def struct {
	// DetailedName is the full declaration text, e.g. "int ns::Foo::bar(int)".
	DetailedName    string     `json:"detailed_name"`
	QualNameOffset  int        `json:"qual_name_offset"`
	ShortNameOffset int        `json:"short_name_offset"`
	ShortNameSize   int        `json:"short_name_size"`
	Kind            SymbolKind `json:"kind"`
	Spell           *DeclRef   `json:"spell,omitempty"`
	Comments        string     `json:"comments,omitempty"`
}

// Name slices a display name out of DetailedName. With qualified set it
// returns the qualified name ("ns::Foo::bar"), otherwise the short name ("bar").
// Offsets outside DetailedName are clamped.
func (d *Def) Name(qualified bool) string {
	start := d.ShortNameOffset
	if qualified {
		start = d.QualNameOffset
	}
	end := d.ShortNameOffset + d.ShortNameSize
	return substr(d.DetailedName, start, end)
}

func substr(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return ""
	}
	return s[start:end]
}

// VarDef describes a variable, field, parameter or macro.
type VarDef struct {
	Def
	Type       Usr          `json:"type"`
	ParentKind SymbolKind   `json:"parent_kind"`
	Storage    StorageClass `json:"storage"`
}

// IsLocal reports whether the variable is scoped to a function body.
func (v *VarDef) IsLocal() bool {
	if v.Spell == nil {
		return false
	}
	switch v.ParentKind {
	case KindFunction, KindMethod, KindStaticMethod, KindConstructor:
	default:
		return false
	}
	switch v.Storage {
	case StorageNone, StorageAuto, StorageRegister:
		return true
	}
	return false
}

// FuncDef describes a function or method.
type FuncDef struct {
	Def
	ParentKind SymbolKind   `json:"parent_kind"`
	Storage    StorageClass `json:"storage"`
}

// TypeDef describes a class, struct, enum, namespace or alias.
type TypeDef struct {
	Def
	ParentKind SymbolKind `json:"parent_kind"`
	AliasOf    Usr        `json:"alias_of"`
}

// Var is an entry of the variable table.
type Var struct {
	Usr Usr    `json:"usr"`
	Def VarDef `json:"def"`
}

// Func is an entry of the function table.
type Func struct {
	Usr Usr     `json:"usr"`
	Def FuncDef `json:"def"`
}

// Type is an entry of the type table.
type Type struct {
	Usr Usr     `json:"usr"`
	Def TypeDef `json:"def"`
}

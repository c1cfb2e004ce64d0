// Package index holds the in-memory model of a deserialized per-translation-unit
// index file: the variable, function and type declarations it defines, keyed by USR.
package index

// Usr is the unique symbol identifier assigned by the indexer.
type Usr uint64

// SymbolKind follows the LSP SymbolKind numbering, extended with the
// indexer-specific kinds at the top of the range.
type SymbolKind uint8

const (
	KindUnknown       SymbolKind = 0
	KindFile          SymbolKind = 1
	KindModule        SymbolKind = 2
	KindNamespace     SymbolKind = 3
	KindPackage       SymbolKind = 4
	KindClass         SymbolKind = 5
	KindMethod        SymbolKind = 6
	KindProperty      SymbolKind = 7
	KindField         SymbolKind = 8
	KindConstructor   SymbolKind = 9
	KindEnum          SymbolKind = 10
	KindInterface     SymbolKind = 11
	KindFunction      SymbolKind = 12
	KindVariable      SymbolKind = 13
	KindConstant      SymbolKind = 14
	KindString        SymbolKind = 15
	KindNumber        SymbolKind = 16
	KindBoolean       SymbolKind = 17
	KindArray         SymbolKind = 18
	KindObject        SymbolKind = 19
	KindKey           SymbolKind = 20
	KindNull          SymbolKind = 21
	KindEnumMember    SymbolKind = 22
	KindStruct        SymbolKind = 23
	KindEvent         SymbolKind = 24
	KindOperator      SymbolKind = 25
	KindTypeParameter SymbolKind = 26

	KindTypeAlias    SymbolKind = 252
	KindParameter    SymbolKind = 253
	KindStaticMethod SymbolKind = 254
	KindMacro        SymbolKind = 255
)

var kindNames = map[SymbolKind]string{
	KindFile: "file", KindModule: "module", KindNamespace: "namespace",
	KindPackage: "package", KindClass: "class", KindMethod: "method",
	KindProperty: "property", KindField: "field", KindConstructor: "constructor",
	KindEnum: "enum", KindInterface: "interface", KindFunction: "function",
	KindVariable: "variable", KindConstant: "constant", KindString: "string",
	KindNumber: "number", KindBoolean: "boolean", KindArray: "array",
	KindObject: "object", KindKey: "key", KindNull: "null",
	KindEnumMember: "enummember", KindStruct: "struct", KindEvent: "event",
	KindOperator: "operator", KindTypeParameter: "typeparameter",
	KindTypeAlias: "typealias", KindParameter: "parameter",
	KindStaticMethod: "staticmethod", KindMacro: "macro",
}

func (k SymbolKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// StorageClass mirrors the C storage class recorded for functions and variables.
type StorageClass uint8

const (
	StorageNone StorageClass = iota
	StorageExtern
	StorageStatic
	StoragePrivateExtern
	StorageAuto
	StorageRegister
)

// Pos is a source position. Line is 1-based.
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open source range.
type Range struct {
	Start Pos `json:"start"`
	End   Pos `json:"end"`
}

// DeclRef locates a declaration: the spelling range plus the full extent.
type DeclRef struct {
	Range  Range      `json:"range"`
	Extent Range      `json:"extent"`
	Role   uint16     `json:"role"`
	Kind   SymbolKind `json:"kind"`
	FileID int        `json:"file_id"`
}

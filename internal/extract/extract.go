// Package extract turns a deserialized index file into flat symbol records.
//
// Each declaration table has its own visibility filter: variables must be
// spelled, non-local and not fields; functions and types only need a spelling
// location. Records are produced lazily and never retained.
package extract

import (
	"iter"
	"strconv"

	"github.com/mvp-joe/blobtags/internal/index"
)

// Record is one row of the symbol index.
type Record struct {
	BasicName    string
	DetailedName string
	Path         string
	Line         int
	Kind         int
}

// NumFields is the number of tab-separated fields in a formatted record.
const NumFields = 5

// Fields returns the record's columns in output order.
func (r Record) Fields() [NumFields]string {
	return [NumFields]string{
		r.BasicName,
		r.DetailedName,
		r.Path,
		strconv.Itoa(r.Line),
		strconv.Itoa(r.Kind),
	}
}

// IncludeVar reports whether a variable belongs in the index.
func IncludeVar(v *index.Var) bool {
	return v.Def.Spell != nil && !v.Def.IsLocal() && v.Def.Kind != index.KindField
}

// IncludeFunc reports whether a function belongs in the index.
func IncludeFunc(f *index.Func) bool {
	return f.Def.Spell != nil
}

// IncludeType reports whether a type belongs in the index.
func IncludeType(t *index.Type) bool {
	return t.Def.Spell != nil
}

// Extract yields a record for every included declaration of file: all
// variables, then functions, then types, each in table order. path is the
// canonical source path stamped on every record.
func Extract(file *index.IndexFile, path string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for i := range file.Vars {
			v := &file.Vars[i]
			if IncludeVar(v) && !yield(newRecord(&v.Def.Def, path)) {
				return
			}
		}
		for i := range file.Funcs {
			f := &file.Funcs[i]
			if IncludeFunc(f) && !yield(newRecord(&f.Def.Def, path)) {
				return
			}
		}
		for i := range file.Types {
			t := &file.Types[i]
			if IncludeType(t) && !yield(newRecord(&t.Def.Def, path)) {
				return
			}
		}
	}
}

// newRecord expects def.Spell to be set.
func newRecord(def *index.Def, path string) Record {
	return Record{
		BasicName:    def.Name(false),
		DetailedName: def.DetailedName,
		Path:         path,
		Line:         def.Spell.Range.Start.Line,
		Kind:         int(def.Kind),
	}
}

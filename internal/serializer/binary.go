package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/mvp-joe/blobtags/internal/index"
)

// Unsigned integers use a prefix-byte encoding: values below 251 take one
// byte, larger values follow a 251/252/253 marker as a little-endian
// uint16/uint32/uint64. Signed integers are zig-zag encoded first.
const (
	markerU16 = 251
	markerU32 = 252
	markerU64 = 253
)

type binaryReader struct {
	buf []byte
	off int
	err error
}

func (r *binaryReader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: offset %d: %s", ErrMalformed, r.off, fmt.Sprintf(format, args...))
	}
}

func (r *binaryReader) remaining() int { return len(r.buf) - r.off }

func (r *binaryReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > r.remaining() {
		r.fail("need %d bytes, have %d", n, r.remaining())
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *binaryReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *binaryReader) uvarint() uint64 {
	x := r.u8()
	if r.err != nil {
		return 0
	}
	switch {
	case x < markerU16:
		return uint64(x)
	case x == markerU16:
		if b := r.take(2); b != nil {
			return uint64(binary.LittleEndian.Uint16(b))
		}
	case x == markerU32:
		if b := r.take(4); b != nil {
			return uint64(binary.LittleEndian.Uint32(b))
		}
	case x == markerU64:
		if b := r.take(8); b != nil {
			return binary.LittleEndian.Uint64(b)
		}
	default:
		r.fail("invalid integer marker %d", x)
	}
	return 0
}

func (r *binaryReader) varint() int64 {
	u := r.uvarint()
	return int64(u>>1) ^ -int64(u&1)
}

func (r *binaryReader) int() int { return int(r.varint()) }

func (r *binaryReader) bool() bool {
	switch r.u8() {
	case 0:
		return false
	case 1:
		return true
	default:
		r.fail("invalid bool")
		return false
	}
}

func (r *binaryReader) string() string {
	n := r.count()
	return string(r.take(n))
}

// count reads a length and rejects values that cannot fit in the rest of the buffer.
func (r *binaryReader) count() int {
	n := r.uvarint()
	if r.err != nil {
		return 0
	}
	if n > uint64(r.remaining()) {
		r.fail("length %d exceeds remaining %d bytes", n, r.remaining())
		return 0
	}
	return int(n)
}

func (r *binaryReader) pos() index.Pos {
	return index.Pos{Line: r.int(), Column: r.int()}
}

func (r *binaryReader) rng() index.Range {
	return index.Range{Start: r.pos(), End: r.pos()}
}

func (r *binaryReader) declRef() *index.DeclRef {
	if !r.bool() {
		return nil
	}
	return &index.DeclRef{
		Range:  r.rng(),
		Extent: r.rng(),
		Role:   uint16(r.uvarint()),
		Kind:   index.SymbolKind(r.u8()),
		FileID: r.int(),
	}
}

func (r *binaryReader) def() index.Def {
	return index.Def{
		DetailedName:    r.string(),
		QualNameOffset:  r.int(),
		ShortNameOffset: r.int(),
		ShortNameSize:   r.int(),
		Kind:            index.SymbolKind(r.u8()),
		Spell:           r.declRef(),
		Comments:        r.string(),
	}
}

func decodeBinary(content []byte, expectedVersion int) (*index.IndexFile, error) {
	r := &binaryReader{buf: content}

	major := r.int()
	minor := r.int()
	if r.err != nil {
		return nil, r.err
	}
	if major != expectedVersion {
		return nil, fmt.Errorf("%w: got %d.%d, want %d", ErrVersionMismatch, major, minor, expectedVersion)
	}

	file := &index.IndexFile{}
	_ = r.string() // path as seen by the indexer; replaced by the blob name
	file.Language = r.int()
	file.LastWriteTime = r.varint()
	if n := r.count(); n > 0 {
		file.Args = make([]string, n)
		for i := range file.Args {
			file.Args[i] = r.string()
		}
	}

	if n := r.count(); n > 0 {
		file.Funcs = make([]index.Func, n)
		for i := range file.Funcs {
			f := &file.Funcs[i]
			f.Usr = index.Usr(r.uvarint())
			f.Def.Def = r.def()
			f.Def.ParentKind = index.SymbolKind(r.u8())
			f.Def.Storage = index.StorageClass(r.u8())
		}
	}
	if n := r.count(); n > 0 {
		file.Types = make([]index.Type, n)
		for i := range file.Types {
			t := &file.Types[i]
			t.Usr = index.Usr(r.uvarint())
			t.Def.Def = r.def()
			t.Def.ParentKind = index.SymbolKind(r.u8())
			t.Def.AliasOf = index.Usr(r.uvarint())
		}
	}
	if n := r.count(); n > 0 {
		file.Vars = make([]index.Var, n)
		for i := range file.Vars {
			v := &file.Vars[i]
			v.Usr = index.Usr(r.uvarint())
			v.Def.Def = r.def()
			v.Def.Type = index.Usr(r.uvarint())
			v.Def.ParentKind = index.SymbolKind(r.u8())
			v.Def.Storage = index.StorageClass(r.u8())
		}
	}

	if r.err != nil {
		return nil, r.err
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.remaining())
	}
	return file, nil
}

type binaryWriter struct {
	buf []byte
}

func (w *binaryWriter) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *binaryWriter) uvarint(v uint64) {
	switch {
	case v < markerU16:
		w.buf = append(w.buf, byte(v))
	case v <= 0xffff:
		w.buf = append(w.buf, markerU16)
		w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(v))
	case v <= 0xffffffff:
		w.buf = append(w.buf, markerU32)
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
	default:
		w.buf = append(w.buf, markerU64)
		w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	}
}

func (w *binaryWriter) varint(v int64) { w.uvarint(uint64(v<<1) ^ uint64(v>>63)) }

func (w *binaryWriter) int(v int) { w.varint(int64(v)) }

func (w *binaryWriter) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *binaryWriter) string(s string) {
	w.uvarint(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *binaryWriter) rng(r index.Range) {
	w.int(r.Start.Line)
	w.int(r.Start.Column)
	w.int(r.End.Line)
	w.int(r.End.Column)
}

func (w *binaryWriter) declRef(d *index.DeclRef) {
	w.bool(d != nil)
	if d == nil {
		return
	}
	w.rng(d.Range)
	w.rng(d.Extent)
	w.uvarint(uint64(d.Role))
	w.u8(uint8(d.Kind))
	w.int(d.FileID)
}

func (w *binaryWriter) def(d *index.Def) {
	w.string(d.DetailedName)
	w.int(d.QualNameOffset)
	w.int(d.ShortNameOffset)
	w.int(d.ShortNameSize)
	w.u8(uint8(d.Kind))
	w.declRef(d.Spell)
	w.string(d.Comments)
}

func encodeBinary(file *index.IndexFile) []byte {
	w := &binaryWriter{}
	w.int(MajorVersion)
	w.int(MinorVersion)
	w.string(file.Path)
	w.int(file.Language)
	w.varint(file.LastWriteTime)
	w.uvarint(uint64(len(file.Args)))
	for _, a := range file.Args {
		w.string(a)
	}

	w.uvarint(uint64(len(file.Funcs)))
	for i := range file.Funcs {
		f := &file.Funcs[i]
		w.uvarint(uint64(f.Usr))
		w.def(&f.Def.Def)
		w.u8(uint8(f.Def.ParentKind))
		w.u8(uint8(f.Def.Storage))
	}
	w.uvarint(uint64(len(file.Types)))
	for i := range file.Types {
		t := &file.Types[i]
		w.uvarint(uint64(t.Usr))
		w.def(&t.Def.Def)
		w.u8(uint8(t.Def.ParentKind))
		w.uvarint(uint64(t.Def.AliasOf))
	}
	w.uvarint(uint64(len(file.Vars)))
	for i := range file.Vars {
		v := &file.Vars[i]
		w.uvarint(uint64(v.Usr))
		w.def(&v.Def.Def)
		w.uvarint(uint64(v.Def.Type))
		w.u8(uint8(v.Def.ParentKind))
		w.u8(uint8(v.Def.Storage))
	}
	return w.buf
}

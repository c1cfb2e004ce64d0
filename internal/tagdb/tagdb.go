// Package tagdb loads the per-worker output files of a distributed run into a
// SQLite database and answers symbol lookups against it.
package tagdb

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/gobwas/glob"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/blobtags/internal/extract"
)

// DefaultPattern matches the files batch workers append to.
const DefaultPattern = "output-*"

// ErrMalformedLine indicates a line that is not a five-field symbol record.
var ErrMalformedLine = errors.New("malformed symbol line")

var symbolColumns = []string{"basic_name", "detailed_name", "path", "line", "kind"}

// DB is a symbol database.
type DB struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// ParseLine parses one output line (without its newline) into a record.
func ParseLine(line string) (extract.Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != extract.NumFields {
		return extract.Record{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedLine, extract.NumFields, len(fields))
	}
	lineNo, err := strconv.Atoi(fields[3])
	if err != nil {
		return extract.Record{}, fmt.Errorf("%w: line number %q", ErrMalformedLine, fields[3])
	}
	kind, err := strconv.Atoi(fields[4])
	if err != nil {
		return extract.Record{}, fmt.Errorf("%w: kind %q", ErrMalformedLine, fields[4])
	}
	return extract.Record{
		BasicName:    fields[0],
		DetailedName: fields[1],
		Path:         fields[2],
		Line:         lineNo,
		Kind:         kind,
	}, nil
}

// LoadFile imports every record of an output file, replacing rows previously
// loaded from the same file. The file is loaded in one transaction.
func (d *DB) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := sq.Delete("symbols").Where(sq.Eq{"source": path}).RunWith(tx).Exec(); err != nil {
		return 0, fmt.Errorf("failed to clear previous rows for %s: %w", path, err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	n := 0
	for lineNo := 1; scanner.Scan(); lineNo++ {
		text := scanner.Text()
		if text == "" {
			continue
		}
		rec, err := ParseLine(text)
		if err != nil {
			return 0, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		_, err = sq.Insert("symbols").
			Columns(append(symbolColumns, "source")...).
			Values(rec.BasicName, rec.DetailedName, rec.Path, rec.Line, rec.Kind, path).
			RunWith(tx).
			Exec()
		if err != nil {
			return 0, fmt.Errorf("failed to insert symbol: %w", err)
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s: %w", path, err)
	}
	return n, nil
}

// LoadStats summarizes a LoadDir call.
type LoadStats struct {
	Files   []string
	Records int
}

// LoadDir imports every regular file in dir whose name matches pattern.
func (d *DB) LoadDir(dir, pattern string) (*LoadStats, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	stats := &LoadStats{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !g.Match(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		n, err := d.LoadFile(path)
		if err != nil {
			return nil, err
		}
		stats.Files = append(stats.Files, path)
		stats.Records += n
	}
	return stats, nil
}

// Lookup returns records whose basic name equals name, or matches it as a
// SQLite GLOB pattern when useGlob is set, ordered by path and line.
func (d *DB) Lookup(name string, useGlob bool) ([]extract.Record, error) {
	query := sq.Select(symbolColumns...).From("symbols")
	if useGlob {
		query = query.Where("basic_name GLOB ?", name)
	} else {
		query = query.Where(sq.Eq{"basic_name": name})
	}

	rows, err := query.OrderBy("path", "line", "id").RunWith(d.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var records []extract.Record
	for rows.Next() {
		var r extract.Record
		if err := rows.Scan(&r.BasicName, &r.DetailedName, &r.Path, &r.Line, &r.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (d *DB) Count() (int, error) {
	var n int
	if err := sq.Select("COUNT(*)").From("symbols").RunWith(d.db).QueryRow().Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count symbols: %w", err)
	}
	return n, nil
}

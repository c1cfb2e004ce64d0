package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/blobtags/internal/config"
	"github.com/mvp-joe/blobtags/internal/index"
	"github.com/mvp-joe/blobtags/internal/serializer"
)

// Test Plan for the command line:
// - No arguments: usage on stderr, exit 1, nothing written
// - One blob: records on stdout, exit 0
// - OUTDIR + blobs: records appended to OUTDIR/output-$PROCESS_ID
// - Batch without PROCESS_ID: exit 1, no output file
// - Malformed blob: exit 1
// - load + lookup round trip through SQLite
// - version prints build information
//
// Tests share the package-level command tree and mutate the environment, so
// none of them run in parallel.

// resetFlags restores every flag to its default between executions.
func resetFlags() {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	for _, cmd := range []*cobra.Command{rootCmd, loadCmd, lookupCmd, versionCmd} {
		reset(cmd.Flags())
		reset(cmd.PersistentFlags())
	}
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	code = execute(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeTestBlob(t *testing.T, dir, escapedRoot, escapedName string, names ...string) string {
	t.Helper()

	file := &index.IndexFile{}
	for i, name := range names {
		file.Types = append(file.Types, index.Type{
			Usr: index.Usr(i + 1),
			Def: index.TypeDef{Def: index.Def{
				DetailedName:    "ns::" + name,
				QualNameOffset:  0,
				ShortNameOffset: 4,
				ShortNameSize:   len(name),
				Kind:            index.KindClass,
				Spell:           &index.DeclRef{Range: index.Range{Start: index.Pos{Line: 10 * (i + 1)}}},
			}},
		})
	}
	data, err := serializer.Serialize(serializer.Binary, file)
	require.NoError(t, err)

	blobDir := filepath.Join(dir, escapedRoot)
	require.NoError(t, os.MkdirAll(blobDir, 0755))
	path := filepath.Join(blobDir, escapedName+".blob")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestExecute_NoArguments(t *testing.T) {
	t.Setenv(config.ProcessIDEnv, "1")

	code, stdout, stderr := run(t)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Expected at least one argument")
	assert.Contains(t, stderr, "usage: blobtags BLOB")
	assert.Contains(t, stderr, "or: blobtags OUTDIR BLOB [BLOB ...]")
}

func TestExecute_DirectMode(t *testing.T) {
	t.Setenv(config.ProcessIDEnv, "")

	blob := writeTestBlob(t, t.TempDir(), "proj@a", "util@b.cc", "Widget", "Gadget")
	code, stdout, stderr := run(t, blob)

	require.Equal(t, 0, code, stderr)
	assert.Equal(t,
		"Widget\tns::Widget\tproj/a/util/b.cc\t10\t5\n"+
			"Gadget\tns::Gadget\tproj/a/util/b.cc\t20\t5\n",
		stdout)
}

func TestExecute_BatchMode(t *testing.T) {
	t.Setenv(config.ProcessIDEnv, "42")

	cache := t.TempDir()
	outDir := t.TempDir()
	a := writeTestBlob(t, cache, "proj", "a.h", "A")
	b := writeTestBlob(t, cache, "proj", "b.h", "B")

	code, stdout, stderr := run(t, outDir, a, b)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(filepath.Join(outDir, "output-42"))
	require.NoError(t, err)
	assert.Equal(t, "A\tns::A\tproj/a.h\t10\t5\nB\tns::B\tproj/b.h\t10\t5\n", string(data))
}

func TestExecute_BatchModeWithoutProcessID(t *testing.T) {
	t.Setenv(config.ProcessIDEnv, "")

	outDir := t.TempDir()
	blob := writeTestBlob(t, t.TempDir(), "proj", "a.h", "A")

	code, _, stderr := run(t, outDir, blob)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, config.ProcessIDEnv)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExecute_MalformedBlob(t *testing.T) {
	t.Setenv(config.ProcessIDEnv, "")

	dir := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.MkdirAll(dir, 0755))
	blob := filepath.Join(dir, "bad.c.blob")
	require.NoError(t, os.WriteFile(blob, []byte{0xff, 0xff}, 0644))

	code, stdout, stderr := run(t, blob)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "malformed index blob")
}

func TestExecute_LoadAndLookup(t *testing.T) {
	t.Setenv(config.ProcessIDEnv, "w1")

	cache := t.TempDir()
	outDir := t.TempDir()
	blob := writeTestBlob(t, cache, "proj", "shapes.h", "Circle", "Square", "Cube")

	code, _, stderr := run(t, outDir, blob)
	require.Equal(t, 0, code, stderr)

	db := filepath.Join(t.TempDir(), "tags.db")
	code, stdout, stderr := run(t, "load", db, outDir)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Loaded 3 records from 1 files\n", stdout)

	code, stdout, stderr = run(t, "lookup", db, "Square")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Square\tns::Square\tproj/shapes.h\t20\t5\n", stdout)

	code, stdout, stderr = run(t, "lookup", "--glob", db, "C*")
	require.Equal(t, 0, code, stderr)
	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	assert.Len(t, lines, 2)
}

func TestExecute_Version(t *testing.T) {
	code, stdout, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "blobtags dev")
}

func TestCommandsAreRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"load", "lookup", "version"} {
		assert.True(t, names[want], "%s command should be registered", want)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}

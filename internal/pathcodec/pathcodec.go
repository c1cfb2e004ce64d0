// Package pathcodec maps blob filenames written by the indexing pipeline back
// to the project-relative source paths they were produced from.
//
// The pipeline stores each translation unit as
// <cache>/<escaped project dir>/<escaped file>.blob, where every path
// separator inside the two escaped components was replaced with '@'.
package pathcodec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Suffix is appended to every blob filename by the pipeline.
const Suffix = ".blob"

// ErrNotBlob indicates a filename that was not produced by the blob naming scheme.
var ErrNotBlob = errors.New("not a blob filename")

// Decode reconstructs the canonical source path from a blob filename.
//
// Only the immediate parent directory name and the final filename are used;
// anything above the parent (the cache root) is ignored. Original paths that
// contained a literal '@' or ':' decode incorrectly, since the escaping is lossy.
func Decode(blobFilename string) (string, error) {
	dir, name := filepath.Split(blobFilename)
	if !strings.HasSuffix(name, Suffix) {
		return "", fmt.Errorf("%w: %q", ErrNotBlob, blobFilename)
	}

	dir = strings.TrimRight(dir, string(filepath.Separator))
	parent := dir[strings.LastIndexByte(dir, filepath.Separator)+1:]

	result := unescape(parent) + "/" + unescape(name)
	return result[:len(result)-len(Suffix)], nil
}

// MustDecode is like Decode but panics on a filename without the blob suffix.
func MustDecode(blobFilename string) string {
	p, err := Decode(blobFilename)
	if err != nil {
		panic(err)
	}
	return p
}

func unescape(component string) string {
	return strings.ReplaceAll(component, "@", "/")
}

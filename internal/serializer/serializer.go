// Package serializer reads and writes index blobs.
//
// Two encodings are supported: a compact binary form used by the indexing
// workers, and JSON for debugging. Either may be wrapped in a zstd frame,
// which Deserialize detects and strips transparently.
package serializer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/mvp-joe/blobtags/internal/index"
)

// Current blob version. Blobs with a different major version are rejected.
const (
	MajorVersion = 21
	MinorVersion = 0
)

var (
	// ErrMalformed indicates content that is not a well-formed blob.
	ErrMalformed = errors.New("malformed index blob")

	// ErrVersionMismatch indicates a blob written by an incompatible indexer.
	ErrVersionMismatch = fmt.Errorf("%w: version mismatch", ErrMalformed)

	// ErrUnknownFormat indicates an unsupported serialization format name.
	ErrUnknownFormat = errors.New("unknown serialization format")
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Format selects the blob encoding.
type Format int

const (
	Binary Format = iota
	JSON
)

func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case JSON:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat converts a configuration value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "binary", "":
		return Binary, nil
	case "json":
		return JSON, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

type options struct {
	expectedVersion int
	compress        bool
}

// Option configures Serialize and Deserialize.
type Option func(*options)

// WithExpectedVersion overrides the major version Deserialize accepts.
func WithExpectedVersion(major int) Option {
	return func(o *options) { o.expectedVersion = major }
}

// WithCompression makes Serialize wrap its output in a zstd frame.
func WithCompression() Option {
	return func(o *options) { o.compress = true }
}

func buildOptions(opts []Option) options {
	o := options{expectedVersion: MajorVersion}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Deserialize decodes blob content into an IndexFile.
//
// filename becomes the file's Path and fileContents its FileContents, matching
// what the indexing workers record. Any decoding failure wraps ErrMalformed.
func Deserialize(format Format, filename string, content []byte, fileContents string, opts ...Option) (*index.IndexFile, error) {
	o := buildOptions(opts)

	if bytes.HasPrefix(content, zstdMagic) {
		raw, err := decompress(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: zstd: %v", ErrMalformed, filename, err)
		}
		content = raw
	}

	var (
		file *index.IndexFile
		err  error
	)
	switch format {
	case Binary:
		file, err = decodeBinary(content, o.expectedVersion)
	case JSON:
		file, err = decodeJSON(content, o.expectedVersion)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	file.Path = filename
	file.FileContents = fileContents
	return file, nil
}

// Serialize encodes an IndexFile in the given format.
func Serialize(format Format, file *index.IndexFile, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)

	var (
		out []byte
		err error
	)
	switch format {
	case Binary:
		out = encodeBinary(file)
	case JSON:
		out, err = encodeJSON(file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if o.compress {
		return compress(out)
	}
	return out, nil
}

// ReadBlob returns the raw content of a blob file.
func ReadBlob(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return content, nil
}

// Load reads and deserializes the blob at path.
func Load(format Format, path string, opts ...Option) (*index.IndexFile, error) {
	content, err := ReadBlob(path)
	if err != nil {
		return nil, err
	}
	return Deserialize(format, path, content, "", opts...)
}

func decompress(content []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(content, nil)
}

func compress(content []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(content, nil), nil
}

package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mvp-joe/blobtags/internal/index"
)

type jsonBlob struct {
	Major int    `json:"major"`
	Minor int    `json:"minor"`
	Path  string `json:"path"`
	*index.IndexFile
}

func decodeJSON(content []byte, expectedVersion int) (*index.IndexFile, error) {
	blob := jsonBlob{IndexFile: &index.IndexFile{}}

	dec := json.NewDecoder(bytes.NewReader(content))
	if err := dec.Decode(&blob); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformed)
	}
	if blob.Major != expectedVersion {
		return nil, fmt.Errorf("%w: got %d.%d, want %d", ErrVersionMismatch, blob.Major, blob.Minor, expectedVersion)
	}
	return blob.IndexFile, nil
}

func encodeJSON(file *index.IndexFile) ([]byte, error) {
	out, err := json.Marshal(jsonBlob{
		Major:     MajorVersion,
		Minor:     MinorVersion,
		Path:      file.Path,
		IndexFile: file,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode blob as json: %w", err)
	}
	return out, nil
}

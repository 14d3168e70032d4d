package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Marshal encodes idx in its persisted JSON form. Map keys are written in
// sorted order, so equal indexes encode to identical bytes.
func Marshal(idx *Index) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(idx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a persisted index.
func Unmarshal(data []byte) (*Index, error) {
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexMalformed, err)
	}
	if err := idx.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexMalformed, err)
	}
	return &idx, nil
}

// SaveIndex writes idx to path, creating parent directories as needed.
// The file is replaced atomically, so a failed save leaves any previous
// index intact.
func SaveIndex(idx *Index, path string) error {
	data, err := Marshal(idx)
	if err != nil {
		return fmt.Errorf("%w: encoding: %v", ErrIndexWrite, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexWrite, err)
	}

	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexWrite, err)
	}
	return nil
}

// LoadIndex reads the index at path. It returns ErrIndexNotFound if the
// file does not exist and ErrIndexMalformed if it cannot be decoded.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrIndexNotFound, err)
		}
		return nil, fmt.Errorf("reading scene index: %w", err)
	}
	return Unmarshal(data)
}

// IndexExists reports whether a regular file exists at path.
func IndexExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureIndex returns the index stored at path, building it from dir and
// saving it first when it is missing or rebuild is set.
//
// The returned Result is nil when the stored index was loaded. A build that
// indexes nothing returns ErrNoMeshFiles and leaves any stored index as is.
func EnsureIndex(dir, path string, rebuild bool, opts ...Option) (*Index, *Result, error) {
	if !rebuild && IndexExists(path) {
		idx, err := LoadIndex(path)
		if err != nil {
			return nil, nil, err
		}
		return idx, nil, nil
	}

	res, err := NewBuilder(opts...).Build(dir)
	if err != nil {
		return nil, res, err
	}

	if err := SaveIndex(res.Index, path); err != nil {
		return nil, res, err
	}
	return res.Index, res, nil
}

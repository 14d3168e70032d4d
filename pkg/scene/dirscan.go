package scene

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MeshFile is a candidate mesh file found in a scanned directory.
type MeshFile struct {
	Name string // base filename
	Path string
	Size int64
}

// IsMeshFilename reports whether name carries the mesh extension in all
// lowercase or all uppercase form.
func IsMeshFilename(name string) bool {
	ext := filepath.Ext(name)
	return ext == MeshExt || ext == strings.ToUpper(MeshExt)
}

// ScanDir lists the mesh files directly inside dir, sorted by name.
//
// Hidden files are ignored. Symlinks are followed and kept when they point
// at a regular file. A missing dir returns ErrDirectoryNotFound.
func ScanDir(dir string) ([]MeshFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("stat mesh directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading mesh directory: %w", err)
	}

	var files []MeshFile
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !IsMeshFilename(name) {
			continue
		}

		path := filepath.Join(dir, name)
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		files = append(files, MeshFile{Name: name, Path: path, Size: fi.Size()})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

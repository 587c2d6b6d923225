// Package fileutil provides file system utilities including atomic write operations.
package fileutil

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpb/internal/errors"
)

// AtomicFile is a temporary file that replaces its destination on Commit.
// Until Commit succeeds the destination is untouched; Abort (or a failed
// Commit) removes the temporary file.
type AtomicFile struct {
	*os.File
	path string
	perm os.FileMode
	done bool
}

// CreateAtomic opens a temp file next to path. The caller writes to it and
// then calls Commit. Deferring Abort is always safe.
//
// The caller is responsible for ensuring the parent directory exists.
func CreateAtomic(path string, perm os.FileMode) (*AtomicFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mcpb-atomic-*.tmp")
	if err != nil {
		return nil, errors.Wrap(err, "creating temp file")
	}
	return &AtomicFile{File: tmp, path: path, perm: perm}, nil
}

// Commit syncs, closes and renames the temp file onto the destination.
func (f *AtomicFile) Commit() error {
	if f.done {
		return errors.New("atomic file already finished")
	}
	f.done = true
	tmpName := f.Name()

	if err := f.Chmod(f.perm); err != nil {
		f.File.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "setting file permissions")
	}
	if err := f.Sync(); err != nil {
		f.File.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "syncing temp file")
	}
	if err := f.File.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// Abort discards the temp file. It is a no-op after Commit.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.File.Close()
	os.Remove(f.Name())
}

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// Interrupted writes leave the original file intact.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	return AtomicWrite(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return errors.Wrap(err, "writing temp file")
	})
}

// AtomicWrite streams the output of write into path atomically.
// If write returns an error the destination is left untouched.
func AtomicWrite(path string, perm os.FileMode, write func(io.Writer) error) error {
	f, err := CreateAtomic(path, perm)
	if err != nil {
		return err
	}
	defer f.Abort()

	if err := write(f); err != nil {
		return err
	}
	return f.Commit()
}

// AtomicWriteJSON writes v as indented JSON to path atomically.
// Uses 2-space indentation and appends a trailing newline for POSIX compliance.
// HTML characters are not escaped so template placeholders stay readable.
func AtomicWriteJSON(path string, v any, perm os.FileMode) error {
	return AtomicWrite(path, perm, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return errors.Wrap(enc.Encode(v), "marshaling JSON")
	})
}

// AtomicWriteYAML writes v as YAML to path atomically.
func AtomicWriteYAML(path string, v any, perm os.FileMode) (err error) {
	// yaml.Marshal panics on unmarshalable types; recover and return error
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	return AtomicWriteFile(path, ensureNewline(data), perm)
}

// AtomicWriteTOML writes v as TOML to path atomically.
func AtomicWriteTOML(path string, v any, perm os.FileMode) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling TOML")
	}
	return AtomicWriteFile(path, ensureNewline(data), perm)
}

func ensureNewline(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data
}

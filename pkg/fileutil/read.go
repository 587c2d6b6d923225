package fileutil

import (
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/thoreinstein/mcpb/internal/errors"
)

// MaxFileSize is the default read limit (4 MiB). Manifests and values files
// are far smaller; the limit stops a stray binary from being slurped.
const MaxFileSize = 4 << 20

// ErrFileTooLarge indicates that a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file too large")

// ReadFileWithLimit reads a file up to MaxFileSize.
func ReadFileWithLimit(path string) ([]byte, error) {
	return ReadFileLimit(path, MaxFileSize)
}

// ReadFileLimit reads a file, failing with ErrFileTooLarge if it holds more
// than limit bytes.
func ReadFileLimit(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, tooLarge(path, info.Size(), limit)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, tooLarge(path, int64(len(data)), limit)
	}
	return data, nil
}

func tooLarge(path string, size, limit int64) error {
	return errors.Wrapf(ErrFileTooLarge, "%s is %s, limit is %s",
		path, humanize.IBytes(uint64(size)), humanize.IBytes(uint64(limit)))
}

package bundle

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/zeebo/blake3"

	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/manifest"
	"github.com/thoreinstein/mcpb/internal/paths"
	"github.com/thoreinstein/mcpb/internal/validator"
	"github.com/thoreinstein/mcpb/pkg/fileutil"
)

// ErrPathSafety is the sentinel every PathSafetyError unwraps to.
var ErrPathSafety = errors.New("path escapes bundle directory")

// PathSafetyError reports a file that would pull content from outside the
// bundle directory into the archive.
type PathSafetyError struct {
	Path string
}

func (e *PathSafetyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, ErrPathSafety)
}

// Unwrap returns ErrPathSafety.
func (e *PathSafetyError) Unwrap() error {
	return ErrPathSafety
}

// ValidationError is returned by Pack for a bundle that does not pass
// validation. It carries the full result.
type ValidationError struct {
	Result *validator.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s)", len(e.Result.Errors()))
}

// Unwrap returns errors.ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return errors.ErrValidationFailed
}

// PackOptions controls Pack.
type PackOptions struct {
	// Output is the archive path. Empty writes <name>-<version>.<ext>
	// inside the bundle directory.
	Output string

	// SkipValidation packs without running the validator. Path safety is
	// still enforced.
	SkipValidation bool

	// Engine validates the bundle. Nil uses the default engine.
	Engine *validator.Engine

	Logger *slog.Logger
}

// PackResult describes a written archive.
type PackResult struct {
	Path           string
	Extension      string
	Files          int
	Size           uint64
	CompressedSize uint64

	// Checksum is the hex BLAKE3 digest of the archive.
	Checksum string

	// Ignored lists the paths left out, directories once.
	Ignored []string

	// Validation is nil when validation was skipped.
	Validation *validator.Result
}

// entry is one file queued for the archive.
type entry struct {
	src  string
	name string
	info fs.FileInfo
}

// Pack validates the bundle in dir and writes it as a deflate zip archive.
// A bundle that does not pass validation is refused with a
// *ValidationError and nothing is written.
func Pack(dir string, opts PackOptions) (*PackResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolving bundle directory")
	}

	m, err := manifest.Load(root)
	if err != nil {
		return nil, err
	}

	res := &PackResult{Extension: m.BundleExtension()}
	if !opts.SkipValidation {
		engine := opts.Engine
		if engine == nil {
			engine = validator.NewEngine(validator.WithLogger(logger))
		}
		res.Validation = engine.Validate(m)
		if !res.Validation.Passes() {
			return nil, &ValidationError{Result: res.Validation}
		}
	}

	if err := checkEntryPoint(root, m); err != nil {
		return nil, err
	}

	res.Path = opts.Output
	if res.Path == "" {
		res.Path = filepath.Join(root, m.BundleFileName())
	}

	match, err := newMatcher(root)
	if err != nil {
		return nil, err
	}
	output, err := filepath.Abs(res.Path)
	if err != nil {
		return nil, errors.Wrap(err, "resolving output path")
	}
	res.Path = output
	c := &collector{root: root, match: match, output: output, seen: map[string]bool{}}
	if err := c.walk(root, ""); err != nil {
		return nil, err
	}
	res.Ignored = c.ignored

	w := &countingWriter{}
	h := blake3.New()
	err = fileutil.AtomicWrite(res.Path, 0o644, func(out io.Writer) error {
		return writeArchive(io.MultiWriter(out, h, w), c.entries, logger)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "writing %s", res.Path)
	}

	for _, e := range c.entries {
		res.Files++
		res.Size += uint64(e.info.Size())
	}
	res.CompressedSize = w.n
	res.Checksum = hex.EncodeToString(h.Sum(nil))

	logger.Info("packed bundle",
		"path", res.Path,
		"files", res.Files,
		"ignored", len(res.Ignored),
	)
	return res, nil
}

func checkEntryPoint(root string, m *manifest.Manifest) error {
	if m.Server.EntryPoint == nil {
		return nil
	}
	ep := *m.Server.EntryPoint
	if filepath.IsAbs(ep) || strings.HasPrefix(ep, "/") || strings.HasPrefix(ep, `\`) {
		return &PathSafetyError{Path: ep}
	}
	ok, err := paths.Within(root, filepath.Join(root, filepath.FromSlash(ep)))
	if err != nil || !ok {
		return &PathSafetyError{Path: ep}
	}
	return nil
}

// collector gathers archive entries in lexical order. Symlinks are
// followed only while they stay inside root.
type collector struct {
	root    string
	match   *matcher
	output  string
	seen    map[string]bool
	entries []entry
	ignored []string
}

func (c *collector) walk(dir, rel string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", dir)
	}
	if c.seen[resolved] {
		return nil
	}
	c.seen[resolved] = true

	items, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "reading directory %s", dir)
	}

	for _, item := range items {
		src := filepath.Join(dir, item.Name())
		if src == c.output {
			continue
		}
		name := item.Name()
		if rel != "" {
			name = rel + "/" + item.Name()
		}

		info, err := c.stat(src, name, item)
		if err != nil {
			return err
		}

		if c.match.ignored(name, info.IsDir()) {
			c.ignored = append(c.ignored, name)
			continue
		}

		if info.IsDir() {
			if err := c.walk(src, name); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		c.entries = append(c.entries, entry{src: src, name: name, info: info})
	}
	return nil
}

// stat returns the info of src, following a symlink that stays in root.
func (c *collector) stat(src, name string, item fs.DirEntry) (fs.FileInfo, error) {
	if item.Type()&fs.ModeSymlink == 0 {
		info, err := item.Info()
		return info, errors.Wrapf(err, "stat %s", src)
	}
	target, err := filepath.EvalSymlinks(src)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving symlink %s", name)
	}
	realRoot, err := filepath.EvalSymlinks(c.root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", c.root)
	}
	if ok, err := paths.Within(realRoot, target); err != nil || !ok {
		return nil, &PathSafetyError{Path: name}
	}
	info, err := os.Stat(target)
	return info, errors.Wrapf(err, "stat %s", name)
}

func writeArchive(out io.Writer, entries []entry, logger *slog.Logger) error {
	zw := zip.NewWriter(out)
	for _, e := range entries {
		hdr, err := zip.FileInfoHeader(e.info)
		if err != nil {
			return errors.Wrapf(err, "header for %s", e.name)
		}
		hdr.Name = e.name
		hdr.Method = zip.Deflate

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return errors.Wrapf(err, "adding %s", e.name)
		}
		if err := copyInto(w, e.src); err != nil {
			return err
		}
		logger.Debug("added file", "path", e.name, "size", e.info.Size())
	}
	return errors.Wrap(zw.Close(), "finishing archive")
}

func copyInto(w io.Writer, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening %s", src)
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return errors.Wrapf(err, "copying %s", src)
}

type countingWriter struct {
	n uint64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += uint64(len(p))
	return len(p), nil
}

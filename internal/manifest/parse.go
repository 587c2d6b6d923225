package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/cockroachdb/errors"
	"github.com/tidwall/jsonc"

	"github.com/thoreinstein/mcpb/pkg/fileutil"
)

//go:embed schema.cue
var schemaCUE []byte

const schemaRoot = "#Manifest"

var (
	// ErrStructural is the sentinel every StructuralError unwraps to.
	ErrStructural = errors.New("manifest structure invalid")

	// ErrManifestNotFound indicates the bundle directory has no manifest.json.
	ErrManifestNotFound = errors.New("manifest not found")
)

// StructuralError reports a manifest that could not be decoded. When it is
// returned no other diagnostic is produced for the manifest.
type StructuralError struct {
	// File is the manifest file name used in messages.
	File string
	// Path is the JSON path of the first offending value, if known.
	Path string
	// Message describes the first problem.
	Message string
	// More holds further problems reported in the same pass, already
	// formatted as "path: message".
	More []string
}

func (e *StructuralError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.File)
	sb.WriteString(": ")
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	for _, m := range e.More {
		sb.WriteString("\n  ")
		sb.WriteString(m)
	}
	return sb.String()
}

// Unwrap returns ErrStructural.
func (e *StructuralError) Unwrap() error {
	return ErrStructural
}

type options struct {
	filename string
}

// Option configures Parse.
type Option func(*options)

// WithFilename sets the file name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// Parse decodes manifest bytes. Comments and trailing commas are accepted.
//
// Decoding runs in three steps: the JSONC input is normalised to JSON, the
// document is unified with the embedded CUE schema, then it is decoded
// into the typed model. A failure in any step is a *StructuralError.
func Parse(data []byte, opts ...Option) (*Manifest, error) {
	o := options{filename: FileName}
	for _, opt := range opts {
		opt(&o)
	}

	clean := jsonc.ToJSON(data)

	var raw map[string]any
	if err := json.Unmarshal(clean, &raw); err != nil {
		return nil, jsonError(o.filename, err)
	}
	if raw == nil {
		return nil, &StructuralError{File: o.filename, Message: "manifest must be a JSON object"}
	}

	if err := checkSchema(clean, o.filename); err != nil {
		return nil, err
	}

	if err := checkRequired(raw, o.filename); err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(clean, &m); err != nil {
		return nil, jsonError(o.filename, err)
	}
	m.Raw = raw
	return &m, nil
}

// Load reads and parses <dir>/manifest.json and records dir as the bundle path.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return nil, errors.Wrapf(ErrManifestNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	m, err := Parse(data, WithFilename(FileName))
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	m.BundlePath = abs
	return m, nil
}

func checkSchema(data []byte, filename string) error {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return errors.Wrap(schema.Err(), "internal error: compiling manifest schema")
	}
	root := schema.LookupPath(cue.ParsePath(schemaRoot))
	if root.Err() != nil {
		return errors.Wrapf(root.Err(), "internal error: schema definition %s not found", schemaRoot)
	}

	doc := ctx.CompileBytes(data, cue.Filename(filename))
	if doc.Err() != nil {
		return cueError(doc.Err(), filename)
	}

	if err := root.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return cueError(err, filename)
	}
	return nil
}

// checkRequired enforces the top-level keys the schema leaves optional so
// that their absence gets a precise message.
func checkRequired(raw map[string]any, filename string) error {
	_, hasVersion := raw["manifest_version"]
	_, hasLegacy := raw["dxt_version"]
	switch {
	case !hasVersion && !hasLegacy:
		return &StructuralError{File: filename, Path: "manifest_version", Message: "field is required"}
	case raw["server"] == nil:
		return &StructuralError{File: filename, Path: "server", Message: "field is required"}
	}
	return nil
}

func cueError(err error, filename string) error {
	se := &StructuralError{File: filename}
	for i, e := range cueerrors.Errors(err) {
		path := formatPath(cueerrors.Path(e))
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if i == 0 {
			se.Path, se.Message = path, msg
			continue
		}
		if path != "" {
			msg = path + ": " + msg
		}
		se.More = append(se.More, msg)
	}
	if se.Message == "" {
		se.Message = err.Error()
	}
	return se
}

func jsonError(filename string, err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return &StructuralError{
			File:    filename,
			Message: fmt.Sprintf("invalid JSON at offset %d: %s", syn.Offset, syn.Error()),
		}
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return &StructuralError{
			File:    filename,
			Path:    typ.Field,
			Message: fmt.Sprintf("expected %s, got JSON %s", typ.Type, typ.Value),
		}
	}
	return &StructuralError{File: filename, Message: err.Error()}
}

// formatPath renders a CUE error path in JSON-path notation, e.g.
// ["tools", "0", "name"] becomes tools[0].name. Schema definition segments
// such as #Manifest are not part of the document and are dropped.
func formatPath(path []string) string {
	var sb strings.Builder
	for _, part := range path {
		part = strings.Trim(part, `"`)
		if strings.HasPrefix(part, "#") {
			continue
		}
		switch {
		case isIndex(part) && sb.Len() > 0:
			sb.WriteString("[" + part + "]")
		case strings.ContainsAny(part, ". "):
			fmt.Fprintf(&sb, "[%q]", part)
		default:
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(part)
		}
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

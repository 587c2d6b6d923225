package config

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/pkg/fileutil"
)

// ErrInvalidValues indicates a values file that cannot be used.
var ErrInvalidValues = errors.New("invalid values file")

// Section names in a values file.
const (
	SectionUser   = "user_config"
	SectionSystem = "system_config"
	SectionOAuth  = "oauth"
)

// Values are the configuration values supplied for one resolve, already
// rendered as template substitutions.
type Values struct {
	User   map[string]string
	System map[string]string
	OAuth  map[string]string
}

// NewValues returns empty Values.
func NewValues() *Values {
	return &Values{
		User:   map[string]string{},
		System: map[string]string{},
		OAuth:  map[string]string{},
	}
}

// Merge copies every value of other into v; other wins.
func (v *Values) Merge(other *Values) {
	if other == nil {
		return
	}
	for k, s := range other.User {
		v.User[k] = s
	}
	for k, s := range other.System {
		v.System[k] = s
	}
	for k, s := range other.OAuth {
		v.OAuth[k] = s
	}
}

// LoadValues reads a values file. The format follows the extension:
// .yaml/.yml, .toml or .json. The file holds user_config, system_config
// and oauth sections; scalar keys at the top level are user_config
// values. Lists are joined with commas.
func LoadValues(path string) (*Values, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading values file %s", path)
	}
	doc, err := decodeValues(filepath.Ext(path), data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	vals := NewValues()
	for key, raw := range doc {
		var dst map[string]string
		switch key {
		case SectionUser:
			dst = vals.User
		case SectionSystem:
			dst = vals.System
		case SectionOAuth:
			dst = vals.OAuth
		default:
			s, err := stringify(raw)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidValues, "%s: %s: %v", path, key, err)
			}
			vals.User[key] = s
			continue
		}
		section, ok := raw.(map[string]any)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidValues, "%s: %s must be a mapping", path, key)
		}
		for name, rv := range section {
			s, err := stringify(rv)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidValues, "%s: %s.%s: %v", path, key, name, err)
			}
			dst[name] = s
		}
	}
	return vals, nil
}

func decodeValues(ext string, data []byte) (map[string]any, error) {
	var doc map[string]any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "YAML error")
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			var decodeErr *toml.DecodeError
			if errors.As(err, &decodeErr) {
				row, col := decodeErr.Position()
				return nil, errors.Newf("TOML syntax error at line %d, column %d: %s", row, col, decodeErr.Error())
			}
			return nil, errors.Wrap(err, "TOML error")
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "JSON error")
		}
	default:
		return nil, errors.Wrapf(ErrInvalidValues, "unsupported extension %q (use .yaml, .toml or .json)", ext)
	}
	return doc, nil
}

// ParseAssignments parses repeated --set style "key=value" arguments.
func ParseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.Wrapf(ErrInvalidValues, "expected key=value, got %q", p)
		}
		out[k] = v
	}
	return out, nil
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case time.Time:
		return t.Format(time.RFC3339), nil
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			s, err := stringify(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ","), nil
	case nil:
		return "", errors.New("value is null")
	default:
		return "", errors.Newf("unsupported value type %T", v)
	}
}

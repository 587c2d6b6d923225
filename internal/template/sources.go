package template

import (
	"github.com/thoreinstein/mcpb/internal/paths"
	"github.com/thoreinstein/mcpb/internal/platform"
)

// Origin names the layer that supplied a value.
type Origin string

// Origins, in lookup order.
const (
	OriginSupplied Origin = "supplied"
	OriginDefault  Origin = "default"
	OriginBuiltin  Origin = "builtin"
	OriginOAuth    Origin = "oauth"
)

// Sources holds every value a placeholder can resolve to.
//
// Builtins is keyed by reference text: bare names such as "HOME" and
// platform names such as "platform.os". OAuth is keyed by the name under
// the oauth namespace ("access_token").
type Sources struct {
	Fields Declarations

	User     map[string]string
	System   map[string]string
	Builtins map[string]string
	OAuth    map[string]string
}

type layer struct {
	origin Origin
	get    func(Ref) (string, bool)
}

// layers returns the lookup chain, most specific first. Each layer only
// answers for the namespaces it owns.
func (s *Sources) layers() []layer {
	return []layer{
		{OriginSupplied, s.supplied},
		{OriginDefault, s.declaredDefault},
		{OriginBuiltin, s.builtin},
		{OriginOAuth, s.oauth},
	}
}

func (s *Sources) supplied(ref Ref) (string, bool) {
	var v string
	var ok bool
	switch ref.Namespace {
	case NSUserConfig:
		v, ok = s.User[ref.Name]
	case NSSystemConfig:
		v, ok = s.System[ref.Name]
	}
	return v, ok
}

func (s *Sources) declaredDefault(ref Ref) (string, bool) {
	switch ref.Namespace {
	case NSUserConfig:
		if f, ok := s.Fields.User[ref.Name]; ok {
			return f.DefaultString()
		}
	case NSSystemConfig:
		if f, ok := s.Fields.System[ref.Name]; ok {
			return f.DefaultString()
		}
	}
	return "", false
}

func (s *Sources) builtin(ref Ref) (string, bool) {
	if ref.Namespace != "" && ref.Namespace != NSPlatform {
		return "", false
	}
	v, ok := s.Builtins[ref.String()]
	return v, ok
}

func (s *Sources) oauth(ref Ref) (string, bool) {
	if ref.Namespace != NSOAuth {
		return "", false
	}
	v, ok := s.OAuth[ref.Name]
	return v, ok
}

// lookup walks the layers. A miss is reported as a ReferenceError that
// says why no layer could answer.
func (s *Sources) lookup(ref Ref) (string, Origin, error) {
	for _, l := range s.layers() {
		if v, ok := l.get(ref); ok {
			return v, l.origin, nil
		}
	}

	reason := ErrUnavailable
	switch ref.Namespace {
	case NSUserConfig:
		reason = ErrNoValue
		if s.Fields.User[ref.Name].IsRequired() {
			reason = ErrRequiredMissing
		}
	case NSSystemConfig:
		reason = ErrNoValue
		if s.Fields.System[ref.Name].IsRequired() {
			reason = ErrRequiredMissing
		}
	}
	return "", "", &ReferenceError{Field: ref.Name, Ref: ref, Err: reason}
}

// Builtins computes the builtin variables for a bundle unpacked at
// bundleDir and launched on t. Directories the host cannot report are
// left out, so referencing them fails instead of expanding to "".
func Builtins(bundleDir string, t platform.Target) map[string]string {
	sep := "/"
	if t.OS == platform.Win32 {
		sep = `\`
	}
	b := map[string]string{
		"platform.os":       string(t.OS),
		"platform.path_sep": sep,
	}
	if t.Arch != "" {
		b["platform.arch"] = string(t.Arch)
	}
	set := func(name, value string) {
		if value != "" {
			b[name] = value
		}
	}
	set("__dirname", bundleDir)
	set("HOME", paths.Home())
	set("DESKTOP", paths.Desktop())
	set("DOCUMENTS", paths.Documents())
	set("DOWNLOADS", paths.Downloads())
	return b
}

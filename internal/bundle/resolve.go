package bundle

import (
	"log/slog"
	"path/filepath"

	"github.com/thoreinstein/mcpb/internal/config"
	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/manifest"
	"github.com/thoreinstein/mcpb/internal/platform"
	"github.com/thoreinstein/mcpb/internal/template"
)

// ResolvedManifest pairs a manifest with the launch configuration resolved
// from it.
type ResolvedManifest struct {
	Manifest  *manifest.Manifest
	MCPConfig template.ResolvedMCPConfig
	Transport manifest.Transport

	// IsReference marks a metadata-only bundle with no bundled entry point.
	IsReference bool

	// Selection records which platform override, if any, was applied.
	Selection platform.Selection
}

// ResolveOptions controls Resolve.
type ResolveOptions struct {
	// Target is the platform to resolve for. Nil detects the host.
	Target *platform.Target

	// Values are the caller-supplied configuration values.
	Values *config.Values

	Logger *slog.Logger
}

// Resolve applies the platform override for the target and expands every
// placeholder in the result.
//
// Resolution fails on the first unresolvable reference. Supplied values are
// checked against their declarations once every reference has resolved,
// so an unset required field is reported as the reference that needs it.
func Resolve(m *manifest.Manifest, opts ResolveOptions) (*ResolvedManifest, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	target := opts.Target
	if target == nil {
		t, err := platform.Detect()
		if err != nil {
			return nil, err
		}
		target = &t
	}

	vals := opts.Values
	if vals == nil {
		vals = config.NewValues()
	}

	cfg, sel := platform.ResolveOverrides(m, *target)
	switch {
	case sel.Matched:
		logger.Debug("applied platform override", "target", target.String(), "key", sel.Key, "source", string(sel.Source))
	case platform.HasOverrides(m):
		logger.Debug("no platform override matches", "target", target.String())
	}

	dir := m.BundlePath
	if dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}

	r := template.New(template.Sources{
		Fields:   template.DeclarationsOf(m),
		User:     vals.User,
		System:   vals.System,
		OAuth:    vals.OAuth,
		Builtins: template.Builtins(dir, *target),
	}, template.WithLogger(logger))

	resolved, err := r.Resolve(cfg)
	if err != nil {
		return nil, err
	}

	if err := config.CheckUserValues(m.UserConfig, vals.User); err != nil {
		return nil, errors.Wrap(err, "checking user_config values")
	}
	if err := config.CheckSystemValues(m.SystemConfig, vals.System); err != nil {
		return nil, errors.Wrap(err, "checking system_config values")
	}

	return &ResolvedManifest{
		Manifest:    m,
		MCPConfig:   resolved,
		Transport:   m.Transport(),
		IsReference: m.IsReference(),
		Selection:   sel,
	}, nil
}

// Summary is the printable form of a ResolvedManifest.
type Summary struct {
	Name      string                     `json:"name"`
	Version   string                     `json:"version"`
	Transport manifest.Transport         `json:"transport"`
	Reference bool                       `json:"reference"`
	Platform  string                     `json:"platform"`
	Override  string                     `json:"override,omitempty"`
	MCPConfig template.ResolvedMCPConfig `json:"mcp_config"`
}

// Masked returns a summary with every sensitive value masked.
func (r *ResolvedManifest) Masked() Summary {
	s := Summary{
		Transport: r.Transport,
		Reference: r.IsReference,
		Platform:  r.Selection.Target.String(),
		MCPConfig: r.MCPConfig.Masked(),
	}
	if r.Manifest.Name != nil {
		s.Name = *r.Manifest.Name
	}
	if r.Manifest.Version != nil {
		s.Version = *r.Manifest.Version
	}
	if r.Selection.Matched {
		s.Override = string(r.Selection.Source) + ":" + r.Selection.Key
	}
	return s
}

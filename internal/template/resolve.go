package template

import (
	"context"
	"encoding/base64"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/mcpb/internal/logging"
	"github.com/thoreinstein/mcpb/internal/manifest"
	"github.com/thoreinstein/mcpb/internal/redact"
)

// ResolvedMCPConfig is a launch configuration with every placeholder
// expanded and no platform branching left.
type ResolvedMCPConfig struct {
	Command     string                `json:"command,omitempty"`
	Args        []string              `json:"args,omitempty"`
	Env         map[string]string     `json:"env,omitempty"`
	URL         string                `json:"url,omitempty"`
	Headers     map[string]string     `json:"headers,omitempty"`
	OAuthConfig *manifest.OAuthConfig `json:"oauth_config,omitempty"`

	secrets *redact.Secrets
}

// Secrets returns the sensitive values that were substituted into c.
func (c ResolvedMCPConfig) Secrets() *redact.Secrets {
	if c.secrets == nil {
		return &redact.Secrets{}
	}
	return c.secrets
}

// Masked returns a copy of c that is safe to print. Sensitive values are
// replaced wherever they occur and env/header values are masked by the
// usual key and prefix heuristics.
func (c ResolvedMCPConfig) Masked() ResolvedMCPConfig {
	s := c.Secrets()
	out := c
	out.Command = s.Scrub(c.Command)
	if c.Args != nil {
		out.Args = make([]string, len(c.Args))
		for i, a := range c.Args {
			out.Args[i] = redact.MaskURL(s.Scrub(a))
		}
	}
	out.Env = s.Map(c.Env)
	out.URL = redact.MaskURL(s.Scrub(c.URL))
	out.Headers = s.Map(c.Headers)
	return out
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for per-placeholder trace output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// Resolver expands placeholders from a fixed set of sources.
// It is safe for concurrent use; each Resolve call keeps its own state.
type Resolver struct {
	sources Sources
	logger  *slog.Logger
	known   []string
}

// New returns a Resolver reading from src.
func New(src Sources, opts ...Option) *Resolver {
	r := &Resolver{
		sources: src,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	// Values that are secret before any expansion takes place.
	for name, f := range src.Fields.User {
		if !f.IsSensitive() {
			continue
		}
		if v, ok := src.User[name]; ok {
			r.known = append(r.known, v)
		}
		if v, ok := f.DefaultString(); ok {
			r.known = append(r.known, v)
		}
	}
	for _, v := range src.OAuth {
		r.known = append(r.known, v)
	}
	return r
}

// run is the state of a single Resolve call.
type run struct {
	*Resolver
	secrets *redact.Secrets
	count   int
}

// Resolve expands every placeholder in cfg: the command, each arg, each
// env value, the url and each header value. Maps are walked in sorted key
// order and the first failure aborts with no partial result. OAuth config
// is passed through and platform_overrides are dropped.
func (r *Resolver) Resolve(cfg manifest.MCPConfig) (ResolvedMCPConfig, error) {
	x := &run{Resolver: r, secrets: redact.NewSecrets(r.known...)}

	var out ResolvedMCPConfig
	var err error
	if cfg.Command != nil {
		if out.Command, err = x.expand("command", *cfg.Command); err != nil {
			return ResolvedMCPConfig{}, err
		}
	}
	if cfg.Args != nil {
		out.Args = make([]string, len(cfg.Args))
		for i, a := range cfg.Args {
			if out.Args[i], err = x.expand("args["+strconv.Itoa(i)+"]", a); err != nil {
				return ResolvedMCPConfig{}, err
			}
		}
	}
	if out.Env, err = x.expandMap("env", cfg.Env); err != nil {
		return ResolvedMCPConfig{}, err
	}
	if cfg.URL != nil {
		if out.URL, err = x.expand("url", *cfg.URL); err != nil {
			return ResolvedMCPConfig{}, err
		}
	}
	if out.Headers, err = x.expandMap("headers", cfg.Headers); err != nil {
		return ResolvedMCPConfig{}, err
	}
	if cfg.OAuthConfig != nil {
		oc := *cfg.OAuthConfig
		oc.Scopes = slices.Clone(oc.Scopes)
		out.OAuthConfig = &oc
	}
	out.secrets = x.secrets

	r.logger.Debug("mcp config resolved", "placeholders", x.count, "secrets", x.secrets.Len())
	return out, nil
}

func (x *run) expandMap(field string, m map[string]string) (map[string]string, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]string, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		v, err := x.expand(field+"."+k, m[k])
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// expand resolves one field value. Substituted text is written straight
// to the output and never scanned again.
func (x *run) expand(path, s string) (string, error) {
	tokens, err := Scan(s)
	if err != nil {
		return "", withPath(err, path)
	}
	var b strings.Builder
	for _, t := range tokens {
		if t.Kind == Literal {
			b.WriteString(t.Text)
			continue
		}
		v, err := x.eval(path, t.Expr)
		if err != nil {
			return "", withPath(err, path)
		}
		b.WriteString(v)
		x.count++
	}
	return b.String(), nil
}

func (x *run) eval(path string, e Expr) (string, error) {
	if err := x.sources.Fields.Check(e); err != nil {
		return "", err
	}
	if e.Func == "" {
		v, _, err := x.value(path, e.Ref)
		return v, err
	}

	args := make([]string, len(e.Args))
	secret := false
	for i, a := range e.Args {
		if a.IsLiteral {
			args[i] = a.Literal
			continue
		}
		v, sensitive, err := x.value(path, a.Ref)
		if err != nil {
			return "", err
		}
		args[i] = v
		secret = secret || sensitive
	}

	var out string
	switch e.Func {
	case FuncBase64:
		out = base64.StdEncoding.EncodeToString([]byte(args[0]))
	case FuncBasicAuth:
		out = base64.StdEncoding.EncodeToString([]byte(args[0] + ":" + args[1]))
	}
	if secret {
		x.secrets.Add(out)
	}
	return out, nil
}

// value looks ref up and records it as secret when the field is sensitive.
func (x *run) value(path string, ref Ref) (string, bool, error) {
	v, origin, err := x.sources.lookup(ref)
	if err != nil {
		return "", false, err
	}
	sensitive := x.sources.Fields.sensitive(ref)
	if sensitive {
		x.secrets.Add(v)
	}
	x.logger.Log(context.Background(), logging.LevelTrace, "placeholder resolved",
		"path", path,
		"ref", ref.String(),
		"origin", string(origin),
		"value", x.secrets.String(ref.Name, v),
	)
	return v, sensitive, nil
}

package validator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/logging"
	"github.com/thoreinstein/mcpb/internal/manifest"
	"github.com/thoreinstein/mcpb/internal/platform"
)

// Category is one independent group of checks.
type Category interface {
	// Name identifies the category in logs and reports.
	Name() string

	// Check inspects the manifest and returns every issue it finds.
	Check(ctx *Context) []Issue
}

// Context is what a category gets to look at.
type Context struct {
	Manifest *manifest.Manifest

	// Dir is the bundle root used for file checks. Empty disables them.
	Dir string

	// Target is the platform W017 is evaluated against. Nil skips that check.
	Target *platform.Target

	store *manifest.Store
}

// Store returns the decoded store namespace, decoding it once. A missing
// or undecodable namespace reads as empty.
func (c *Context) Store() *manifest.Store {
	if c.store == nil {
		s, err := c.Manifest.Store()
		if err != nil || s == nil {
			s = &manifest.Store{}
		}
		c.store = s
	}
	return c.store
}

// Option configures an Engine.
type Option func(*Engine)

// WithCategories replaces the default category list.
func WithCategories(cats ...Category) Option {
	return func(e *Engine) {
		e.categories = cats
	}
}

// WithTarget sets the platform used for the unsupported-platform check.
func WithTarget(t platform.Target) Option {
	return func(e *Engine) {
		e.target = &t
	}
}

// WithLogger sets the logger for per-category timing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine runs an ordered list of categories over a manifest.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	categories []Category
	target     *platform.Target
	logger     *slog.Logger
}

// DefaultCategories returns the built-in categories in run order.
func DefaultCategories() []Category {
	return []Category{
		Core{},
		Paths{},
		Platforms{},
		Recommended{},
		Scripts{},
		Standard{},
		Tools{},
		Variables{},
	}
}

// NewEngine creates an Engine with the default categories.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		categories: DefaultCategories(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Categories returns the names of the registered categories in run order.
func (e *Engine) Categories() []string {
	names := make([]string, len(e.categories))
	for i, c := range e.categories {
		names[i] = c.Name()
	}
	return names
}

// Validate runs every category and returns the sorted issues. A category
// that panics is reported as a CheckFailed issue; the others still run.
func (e *Engine) Validate(m *manifest.Manifest) *Result {
	ctx := &Context{Manifest: m, Dir: m.BundlePath, Target: e.target}
	result := &Result{}
	for _, c := range e.categories {
		result.Add(e.run(c, ctx)...)
	}
	result.Sort()
	e.logger.Debug("validation finished",
		"bundle", m.BundlePath,
		"errors", len(result.Errors()),
		"warnings", len(result.Warnings()),
	)
	return result
}

func (e *Engine) run(c Category, ctx *Context) (issues []Issue) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("validation category panicked", "category", c.Name(), "panic", fmt.Sprint(r))
			issues = []Issue{NewIssue(diagnostic.CheckFailed, diagnostic.Root(),
				"category %q stopped early: %v", c.Name(), r)}
		}
	}()
	issues = c.Check(ctx)
	e.logger.Log(context.Background(), logging.LevelTrace, "category checked",
		"category", c.Name(),
		"issues", len(issues),
		"elapsed", time.Since(start),
	)
	return issues
}

// ValidateDir loads the manifest in dir and validates it. A manifest that
// cannot be loaded yields a result holding exactly one E000 or E001 issue
// and a nil manifest; nothing else is checked.
func (e *Engine) ValidateDir(dir string) (*manifest.Manifest, *Result) {
	m, err := manifest.Load(dir)
	if err != nil {
		return nil, &Result{Issues: []Issue{LoadIssue(err)}}
	}
	return m, e.Validate(m)
}

// LoadIssue converts a manifest load failure into its issue.
func LoadIssue(err error) Issue {
	if errors.Is(err, manifest.ErrManifestNotFound) {
		return NewIssue(diagnostic.ManifestNotFound, diagnostic.Root(), "%s", err.Error())
	}
	var se *manifest.StructuralError
	if errors.As(err, &se) {
		msg := se.Message
		if len(se.More) > 0 {
			msg += "; " + strings.Join(se.More, "; ")
		}
		return NewIssue(diagnostic.InvalidManifest, diagnostic.ParsePath(se.Path), "%s", msg)
	}
	return NewIssue(diagnostic.InvalidManifest, diagnostic.Root(), "%s", err.Error())
}

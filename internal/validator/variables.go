package validator

import (
	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/template"
)

// Variables checks every placeholder in the launch configuration and its
// platform overrides.
type Variables struct{}

// Name implements Category.
func (Variables) Name() string { return "variables" }

// Check implements Category.
func (Variables) Check(ctx *Context) []Issue {
	m := ctx.Manifest
	decls := template.DeclarationsOf(m)

	var fields []located
	if cfg := m.Server.MCPConfig; cfg != nil {
		fields = configStrings(locMCPConfig, cfg.Command, cfg.Args, cfg.Env, cfg.URL, cfg.Headers)
	}
	for _, e := range overrideEntries(ctx) {
		o := e.Override
		fields = append(fields, configStrings(e.Loc, o.Command, o.Args, o.Env, o.URL, o.Headers)...)
	}

	var issues []Issue
	used := make(map[template.Ref]bool)
	for _, f := range fields {
		tokens, err := template.Scan(f.value)
		if err != nil {
			issues = append(issues, NewIssue(diagnostic.TemplateSyntax, f.loc, "%s", err.Error()))
			continue
		}
		for _, t := range tokens {
			if t.Kind != template.Placeholder {
				continue
			}
			if err := decls.Check(t.Expr); err != nil {
				issues = append(issues, NewIssue(diagnostic.UndefinedReference, f.loc, "%s", err.Error()))
				continue
			}
			for _, ref := range t.Expr.Refs() {
				used[ref] = true
			}
		}
	}

	for _, name := range sortedKeys(m.UserConfig) {
		loc := diagnostic.At("user_config").Key(name)
		f := m.UserConfig[name]
		if !used[template.Ref{Namespace: template.NSUserConfig, Name: name}] {
			issues = append(issues, NewIssue(diagnostic.UnusedConfigField, loc,
				"%q is not referenced by server.mcp_config", name))
			continue
		}
		if _, ok := f.DefaultString(); !ok && !f.IsRequired() {
			issues = append(issues, NewIssue(diagnostic.ReferencedFieldNoDefault, loc,
				"%q is optional and has no default; resolution fails when it is not supplied", name))
		}
	}
	for _, name := range sortedKeys(m.SystemConfig) {
		if !used[template.Ref{Namespace: template.NSSystemConfig, Name: name}] {
			issues = append(issues, NewIssue(diagnostic.UnusedConfigField, diagnostic.At("system_config").Key(name),
				"%q is not referenced by server.mcp_config", name))
		}
	}
	return issues
}

// configStrings lists the templated strings of a launch block in
// resolution order.
func configStrings(base diagnostic.Path, command *string, args []string, env map[string]string, url *string, headers map[string]string) []located {
	out := launchStrings(base, command, args)
	for _, k := range sortedKeys(env) {
		out = append(out, located{base.Key("env").Key(k), env[k]})
	}
	if url != nil {
		out = append(out, located{base.Key("url"), *url})
	}
	for _, k := range sortedKeys(headers) {
		out = append(out, located{base.Key("headers").Key(k), headers[k]})
	}
	return out
}

package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/errors"
)

var printer = message.NewPrinter(language.English)

// Tools checks tool declarations and the store's static tools/list
// response.
type Tools struct{}

// Name implements Category.
func (Tools) Name() string { return "tools" }

// Check implements Category.
func (Tools) Check(ctx *Context) []Issue {
	m := ctx.Manifest
	var issues []Issue

	declared := make(map[string]bool, len(m.Tools))
	for i, t := range m.Tools {
		loc := diagnostic.At("tools").Index(i)
		issues = append(issues, toolText(loc, t.Name, t.Description)...)
		declared[t.Name] = true
	}

	sr := ctx.Store().StaticResponses
	if sr == nil || sr.ToolsList == nil {
		return issues
	}
	base := locStore.Key("static_responses").Quoted("tools/list").Key("tools")
	static := make(map[string]bool, len(sr.ToolsList.Tools))
	for i, t := range sr.ToolsList.Tools {
		loc := base.Index(i)
		issues = append(issues, toolText(loc, t.Name, t.Description)...)
		if t.Name != "" {
			static[t.Name] = true
			if !declared[t.Name] {
				issues = append(issues, NewIssue(diagnostic.StaticToolNotDeclared, loc.Key("name"), "%q", t.Name))
			}
		}
		issues = append(issues, toolSchema(loc.Key("inputSchema"), t.InputSchema)...)
		issues = append(issues, toolSchema(loc.Key("outputSchema"), t.OutputSchema)...)
	}

	for i, t := range m.Tools {
		if t.Name != "" && !static[t.Name] {
			issues = append(issues, NewIssue(diagnostic.DeclaredToolMissingSchema,
				diagnostic.At("tools").Index(i), "%q has no entry in the static tools/list response", t.Name))
		}
	}
	return issues
}

func toolText(loc diagnostic.Path, name, description string) []Issue {
	var issues []Issue
	if strings.TrimSpace(name) == "" {
		issues = append(issues, NewIssue(diagnostic.ToolMissingName, loc.Key("name"), "tool name is required"))
	}
	if strings.TrimSpace(description) == "" {
		issues = append(issues, NewIssue(diagnostic.ToolMissingDescription, loc.Key("description"), ""))
	}
	return issues
}

// toolSchema reports E018 unless raw is absent or a JSON Schema object
// that compiles against the draft 2020-12 metaschema.
func toolSchema(loc diagnostic.Path, raw json.RawMessage) []Issue {
	if len(raw) == 0 {
		return nil
	}
	problems := compileSchema(raw)
	issues := make([]Issue, 0, len(problems))
	for _, p := range problems {
		issues = append(issues, NewIssue(diagnostic.InvalidToolSchema, loc, "%s", p))
	}
	return issues
}

func compileSchema(raw json.RawMessage) []string {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return []string{err.Error()}
	}
	if _, ok := doc.(map[string]any); !ok {
		return []string{"schema must be an object, got " + jsonKind(doc)}
	}

	const url = "tool.schema.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return []string{err.Error()}
	}
	_, err = c.Compile(url)
	if err == nil {
		return nil
	}

	var sve *jsonschema.SchemaValidationError
	if errors.As(err, &sve) {
		var ve *jsonschema.ValidationError
		if errors.As(sve.Err, &ve) {
			if msgs := leafMessages(ve); len(msgs) > 0 {
				return msgs
			}
		}
	}
	return []string{err.Error()}
}

// leafMessages flattens a validation error tree into "at /path: message"
// lines, one per distinct leaf.
func leafMessages(ve *jsonschema.ValidationError) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		if e.ErrorKind == nil {
			return
		}
		msg := e.ErrorKind.LocalizedString(printer)
		if len(e.InstanceLocation) > 0 {
			msg = fmt.Sprintf("at /%s: %s", strings.Join(e.InstanceLocation, "/"), msg)
		}
		if !seen[msg] {
			seen[msg] = true
			out = append(out, msg)
		}
	}
	walk(ve)
	return out
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "number"
	}
}

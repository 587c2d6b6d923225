package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
)

// Severity aliases the registry severity so callers need one import.
type Severity = diagnostic.Severity

// Severities.
const (
	SeverityError   = diagnostic.SeverityError
	SeverityWarning = diagnostic.SeverityWarning
)

// Issue is a single coded validation problem.
type Issue struct {
	// Code is the stable registry identifier.
	Code diagnostic.Code `json:"code"`
	// Severity is implied by Code.
	Severity Severity `json:"severity"`
	// Message is the registry title for Code.
	Message string `json:"message"`
	// Detail explains this particular occurrence.
	Detail string `json:"detail,omitempty"`
	// Location addresses the offending value inside the manifest.
	Location diagnostic.Path `json:"location"`
	// Help suggests a fix.
	Help string `json:"help,omitempty"`
}

// NewIssue builds an issue whose severity, message and help come from
// the registry.
func NewIssue(code diagnostic.Code, loc diagnostic.Path, format string, args ...any) Issue {
	i := Issue{
		Code:     code,
		Severity: code.Severity(),
		Message:  code.Title(),
		Location: loc,
	}
	if def, ok := diagnostic.Lookup(code); ok {
		i.Help = def.Help
	}
	if format != "" {
		i.Detail = fmt.Sprintf(format, args...)
	}
	return i
}

// WithHelp returns a copy of i with its help text replaced.
func (i Issue) WithHelp(help string) Issue {
	i.Help = help
	return i
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(string(i.Code))
	sb.WriteString(" ")
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if !i.Location.IsRoot() {
		sb.WriteString(i.Location.String())
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	if i.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(i.Detail)
		sb.WriteString(")")
	}
	return sb.String()
}

// Result aggregates validation issues.
type Result struct {
	Issues []Issue `json:"issues"`
}

// Passes reports whether no Error-severity issue is present. It is the
// only gate pack and publish consult.
func (r *Result) Passes() bool {
	return !r.HasErrors()
}

// HasErrors returns true if any issue has SeverityError.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any issue has SeverityWarning.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Add appends issues.
func (r *Result) Add(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}

// Errors returns a slice of all issues with SeverityError.
func (r *Result) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns a slice of all issues with SeverityWarning.
func (r *Result) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *Result) filter(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			res = append(res, i)
		}
	}
	return res
}

// Has reports whether an issue with code is present.
func (r *Result) Has(code diagnostic.Code) bool {
	if r == nil {
		return false
	}
	return slices.ContainsFunc(r.Issues, func(i Issue) bool { return i.Code == code })
}

// Sort orders issues by severity, then code, then location, then detail.
// The order is stable for identical input.
func (r *Result) Sort() {
	slices.SortStableFunc(r.Issues, func(a, b Issue) int {
		if c := diagnostic.Compare(a.Code, b.Code); c != 0 {
			return c
		}
		if c := strings.Compare(a.Location.String(), b.Location.String()); c != 0 {
			return c
		}
		return strings.Compare(a.Detail, b.Detail)
	})
}

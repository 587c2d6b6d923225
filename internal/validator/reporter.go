package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/mcpb/internal/errors"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// jsonReport is the machine-readable report envelope.
type jsonReport struct {
	Valid    bool    `json:"valid"`
	Errors   int     `json:"errors"`
	Warnings int     `json:"warnings"`
	Issues   []Issue `json:"issues"`
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		result = &Result{}
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	default:
		return r.reportText(result)
	}
}

func (r *Reporter) reportJSON(result *Result) error {
	issues := result.Issues
	if issues == nil {
		issues = []Issue{}
	}
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(jsonReport{
		Valid:    result.Passes(),
		Errors:   len(result.Errors()),
		Warnings: len(result.Warnings()),
		Issues:   issues,
	}), "encoding JSON report")
}

func (r *Reporter) reportText(result *Result) error {
	errs := result.Errors()
	warnings := result.Warnings()

	if len(errs) == 0 && len(warnings) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ Validation passed"))
		return nil
	}

	var summary []string
	if len(errs) > 0 {
		summary = append(summary, color.RedString("%d error(s)", len(errs)))
	}
	if len(warnings) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
	}
	if len(errs) > 0 {
		fmt.Fprintf(r.out, "Validation failed: %s\n\n", strings.Join(summary, ", "))
	} else {
		fmt.Fprintf(r.out, "Validation passed with %s\n\n", strings.Join(summary, ", "))
	}

	r.section("Errors:", errs, color.FgRed)
	r.section("Warnings:", warnings, color.FgYellow)
	return nil
}

func (r *Reporter) section(title string, issues []Issue, c color.Attribute) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(r.out, title)
	for _, i := range issues {
		r.printIssue(i, c)
	}
	fmt.Fprintln(r.out)
}

// printIssue writes one issue:
//
//	E002 author.name: missing required field (author.name is required)
//	     help: add `author.name` to manifest.json
func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	dim := color.New(color.FgHiBlack)

	var sb strings.Builder
	sb.WriteString("  ")
	sb.WriteString(color.New(c, color.Bold).Sprint(string(i.Code)))
	sb.WriteString(" ")
	if !i.Location.IsRoot() {
		sb.WriteString(color.New(c).Sprint(i.Location.String()))
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	if i.Detail != "" {
		sb.WriteString(" ")
		sb.WriteString(dim.Sprintf("(%s)", i.Detail))
	}
	fmt.Fprintln(r.out, sb.String())

	if i.Help != "" {
		fmt.Fprintf(r.out, "       %s\n", dim.Sprintf("help: %s", i.Help))
	}
}

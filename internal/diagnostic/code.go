package diagnostic

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Severity represents the impact of a diagnostic.
type Severity int

const (
	// SeverityError blocks pack and publish.
	SeverityError Severity = iota
	// SeverityWarning is reported but never blocks on its own.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity as "error" or "warning".
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses "error" or "warning".
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return errors.Newf("unknown severity %q", b)
	}
	return nil
}

// Code is a stable diagnostic identifier such as "E013".
type Code string

// Error codes.
const (
	ManifestNotFound       Code = "E000"
	InvalidManifest        Code = "E001"
	MissingRequiredField   Code = "E002"
	InvalidName            Code = "E003"
	InvalidVersion         Code = "E004"
	InvalidServerType      Code = "E005"
	MissingEntryPoint      Code = "E006"
	EntryPointNotFound     Code = "E007"
	MissingMCPConfig       Code = "E008"
	UndefinedReference     Code = "E009"
	MissingCommand         Code = "E010"
	MissingURL             Code = "E011"
	InvalidURL             Code = "E012"
	PathSafety             Code = "E013"
	FileNotFound           Code = "E014"
	ToolMissingName        Code = "E015"
	ToolMissingDescription Code = "E016"
	DuplicateToolName      Code = "E017"
	InvalidToolSchema      Code = "E018"
	ExtraFields            Code = "E019"
	MissingIconSrc         Code = "E020"
	InvalidIconSize        Code = "E021"
	TemplateSyntax         Code = "E022"
	CheckFailed            Code = "E023"
)

// Warning codes.
const (
	MissingAuthorEmail        Code = "W001"
	MissingLicense            Code = "W002"
	MissingIcon               Code = "W003"
	DependenciesNotBundled    Code = "W004"
	EntryPointExtension       Code = "W005"
	retiredW006               Code = "W006"
	DeprecatedManifestVersion Code = "W007"
	MissingLongDescription    Code = "W008"
	retiredW009               Code = "W009"
	ReferencedFieldNoDefault  Code = "W010"
	StaticToolNotDeclared     Code = "W011"
	DeclaredToolMissingSchema Code = "W012"
	InvalidPlatformKey        Code = "W013"
	PlatformAlignment         Code = "W014"
	BinaryOverrideNotFound    Code = "W015"
	CompatibilityMismatch     Code = "W016"
	PlatformUnsupported       Code = "W017"
	DuplicatePlatformKey      Code = "W018"
	MissingIgnoreFile         Code = "W019"
	ReservedScriptName        Code = "W020"
	UnknownPackageManager     Code = "W021"
	PackageManagerMismatch    Code = "W022"
	NonPNGIcon                Code = "W023"
	UnusedConfigField         Code = "W024"
)

// Definition describes a registered code.
type Definition struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Help     string   `json:"help,omitempty"`
	Retired  bool     `json:"retired,omitempty"`
}

var registry = func() map[Code]Definition {
	defs := []Definition{
		{Code: ManifestNotFound, Title: "manifest not found", Help: "run `mcpb init` to create one"},
		{Code: InvalidManifest, Title: "manifest is not a valid document", Help: "check JSON syntax and field types"},
		{Code: MissingRequiredField, Title: "missing required field"},
		{Code: InvalidName, Title: "invalid name", Help: "use format: my-package-name (3-64 chars)"},
		{Code: InvalidVersion, Title: "invalid version", Help: "use format: MAJOR.MINOR.PATCH (e.g., 1.0.0)"},
		{Code: InvalidServerType, Title: "invalid server type", Help: "use one of: node, python, binary"},
		{Code: MissingEntryPoint, Title: "missing entry point", Help: "add `entry_point` to the server block"},
		{Code: EntryPointNotFound, Title: "entry point not found", Help: "add the file or fix `server.entry_point`"},
		{Code: MissingMCPConfig, Title: "missing mcp_config", Help: "add `mcp_config` with command, args and env"},
		{Code: UndefinedReference, Title: "undefined variable reference", Help: "declare the field under user_config or system_config"},
		{Code: MissingCommand, Title: "missing command for stdio transport", Help: "add `command` to mcp_config"},
		{Code: MissingURL, Title: "missing url for http transport", Help: "add `url` to mcp_config"},
		{Code: InvalidURL, Title: "invalid url"},
		{Code: PathSafety, Title: "path escapes bundle directory", Help: "use a relative path within the bundle directory"},
		{Code: FileNotFound, Title: "referenced file not found"},
		{Code: ToolMissingName, Title: "invalid tool name"},
		{Code: ToolMissingDescription, Title: "tool missing description"},
		{Code: DuplicateToolName, Title: "duplicate tool name", Help: "tool names must be unique"},
		{Code: InvalidToolSchema, Title: "invalid tool schema", Help: "inputSchema and outputSchema must be JSON Schema objects"},
		{Code: ExtraFields, Title: "unknown field in standard object", Help: "move custom data under `_meta`"},
		{Code: MissingIconSrc, Title: "icon src is required", Help: "add a path to the icon file (e.g., \"icon.png\")"},
		{Code: InvalidIconSize, Title: "invalid icon size", Help: "use format: WIDTHxHEIGHT (e.g., \"16x16\", \"128x128\")"},
		{Code: TemplateSyntax, Title: "malformed template", Help: "close every `${` with `}`; write `$${` for a literal `${`"},
		{Code: CheckFailed, Title: "validation check failed unexpectedly", Help: "report this as a bug"},

		{Code: MissingAuthorEmail, Title: "missing author email"},
		{Code: MissingLicense, Title: "missing license", Help: "add SPDX identifier like \"MIT\" or \"Apache-2.0\""},
		{Code: MissingIcon, Title: "missing icon", Help: "add `icon` for better presentation in clients"},
		{Code: DependenciesNotBundled, Title: "dependencies not bundled"},
		{Code: EntryPointExtension, Title: "entry point extension mismatch"},
		{Code: retiredW006, Title: "retired", Retired: true},
		{Code: DeprecatedManifestVersion, Title: "deprecated manifest version", Help: "update to \"" + CurrentManifestVersion + "\""},
		{Code: MissingLongDescription, Title: "missing long description", Help: "add `long_description` for the bundle detail page"},
		{Code: retiredW009, Title: "retired", Retired: true},
		{Code: ReferencedFieldNoDefault, Title: "referenced field has no default", Help: "add a `default` or mark the field `required`"},
		{Code: StaticToolNotDeclared, Title: "static tool not declared", Help: "add the tool to the top-level `tools` array"},
		{Code: DeclaredToolMissingSchema, Title: "declared tool missing static schema"},
		{Code: InvalidPlatformKey, Title: "invalid platform key", Help: "use os or os-arch, e.g. darwin, linux-x86_64"},
		{Code: PlatformAlignment, Title: "store overrides do not cover platform"},
		{Code: BinaryOverrideNotFound, Title: "binary override path not found"},
		{Code: CompatibilityMismatch, Title: "compatibility platform has no override"},
		{Code: PlatformUnsupported, Title: "no override matches target platform"},
		{Code: DuplicatePlatformKey, Title: "duplicate platform key"},
		{Code: MissingIgnoreFile, Title: "missing .mcpbignore", Help: "create a .mcpbignore file to exclude unnecessary files from the bundle"},
		{Code: ReservedScriptName, Title: "reserved script name", Help: "rename the script to avoid the conflict"},
		{Code: UnknownPackageManager, Title: "unknown package manager", Help: "use one of: npm, pnpm, bun, yarn, uv, pip, poetry"},
		{Code: PackageManagerMismatch, Title: "package manager does not fit server type"},
		{Code: NonPNGIcon, Title: "icon should be PNG format"},
		{Code: UnusedConfigField, Title: "declared field never referenced"},
	}
	m := make(map[Code]Definition, len(defs))
	for _, d := range defs {
		d.Severity = severityOf(d.Code)
		m[d.Code] = d
	}
	return m
}()

// CurrentManifestVersion is the manifest_version that does not trigger W007.
const CurrentManifestVersion = "0.3"

func severityOf(c Code) Severity {
	if strings.HasPrefix(string(c), "W") {
		return SeverityWarning
	}
	return SeverityError
}

// Severity returns the severity implied by the code prefix.
func (c Code) Severity() Severity {
	return severityOf(c)
}

// Title returns the registered title, or the code itself if unregistered.
func (c Code) Title() string {
	if d, ok := registry[c]; ok {
		return d.Title
	}
	return string(c)
}

// Lookup returns the definition of code.
func Lookup(code Code) (Definition, bool) {
	d, ok := registry[code]
	return d, ok
}

// All returns every registered definition sorted by code, errors first.
func All() []Definition {
	defs := make([]Definition, 0, len(registry))
	for _, d := range registry {
		defs = append(defs, d)
	}
	slices.SortFunc(defs, func(a, b Definition) int {
		return Compare(a.Code, b.Code)
	})
	return defs
}

// Compare orders codes by severity, then by number.
func Compare(a, b Code) int {
	if sa, sb := a.Severity(), b.Severity(); sa != sb {
		return int(sa) - int(sb)
	}
	return strings.Compare(string(a), string(b))
}

package manifest

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FileName is the manifest file inside a bundle directory.
const FileName = "manifest.json"

// ServerType is the runtime that launches a bundled server.
type ServerType string

// Server types.
const (
	ServerNode   ServerType = "node"
	ServerPython ServerType = "python"
	ServerBinary ServerType = "binary"
)

// Valid reports whether t is a known server type.
func (t ServerType) Valid() bool {
	switch t {
	case ServerNode, ServerPython, ServerBinary:
		return true
	}
	return false
}

// Transport is how a client talks to the server.
type Transport string

// Transports. An absent transport means stdio.
const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// Manifest is a decoded manifest.json.
//
// Optional scalars are pointers and optional collections are nil when
// absent, so "not given" and "given but empty" stay distinguishable.
// A Manifest is treated as read-only after Parse returns it.
type Manifest struct {
	ManifestVersion string  `json:"manifest_version,omitempty"`
	DXTVersion      string  `json:"dxt_version,omitempty"`
	Name            *string `json:"name,omitempty"`
	Version         *string `json:"version,omitempty"`
	Description     *string `json:"description,omitempty"`
	Author          *Author `json:"author,omitempty"`
	Server          Server  `json:"server"`

	DisplayName     *string     `json:"display_name,omitempty"`
	LongDescription *string     `json:"long_description,omitempty"`
	License         *string     `json:"license,omitempty"`
	Icon            *string     `json:"icon,omitempty"`
	Icons           []Icon      `json:"icons,omitempty"`
	Homepage        *string     `json:"homepage,omitempty"`
	Documentation   *string     `json:"documentation,omitempty"`
	Support         *string     `json:"support,omitempty"`
	Repository      *Repository `json:"repository,omitempty"`
	Keywords        []string    `json:"keywords,omitempty"`

	Tools            []Tool   `json:"tools,omitempty"`
	Prompts          []Prompt `json:"prompts,omitempty"`
	ToolsGenerated   *bool    `json:"tools_generated,omitempty"`
	PromptsGenerated *bool    `json:"prompts_generated,omitempty"`

	UserConfig   map[string]UserConfigField   `json:"user_config,omitempty"`
	SystemConfig map[string]SystemConfigField `json:"system_config,omitempty"`

	Compatibility   *Compatibility `json:"compatibility,omitempty"`
	PrivacyPolicies []string       `json:"privacy_policies,omitempty"`
	Localization    *Localization  `json:"localization,omitempty"`

	Meta map[string]json.RawMessage `json:"_meta,omitempty"`

	// Raw is the decoded document, including keys the typed model drops.
	Raw map[string]any `json:"-"`

	// BundlePath is the directory the manifest was loaded from, if any.
	BundlePath string `json:"-"`
}

// Author identifies who maintains the bundle.
type Author struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	URL   *string `json:"url,omitempty"`
}

// Repository points at the bundle source.
type Repository struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Icon is one entry of the icons array.
type Icon struct {
	Src   string  `json:"src"`
	Size  *string `json:"size,omitempty"`
	Theme *string `json:"theme,omitempty"`
}

// Server describes how the bundle's MCP server is launched.
type Server struct {
	Type       *ServerType `json:"type,omitempty"`
	Transport  Transport   `json:"transport,omitempty"`
	EntryPoint *string     `json:"entry_point,omitempty"`
	MCPConfig  *MCPConfig  `json:"mcp_config,omitempty"`
}

// MCPConfig is the launch configuration, possibly containing ${...}
// placeholders and per-platform overrides.
type MCPConfig struct {
	Command           *string                     `json:"command,omitempty"`
	Args              []string                    `json:"args,omitempty"`
	Env               map[string]string           `json:"env,omitempty"`
	URL               *string                     `json:"url,omitempty"`
	Headers           map[string]string           `json:"headers,omitempty"`
	OAuthConfig       *OAuthConfig                `json:"oauth_config,omitempty"`
	PlatformOverrides map[string]PlatformOverride `json:"platform_overrides,omitempty"`
}

// PlatformOverride replaces or extends parts of an MCPConfig on one platform.
// A nil Args means "not overridden"; an empty non-nil Args clears the base args.
type PlatformOverride struct {
	Command *string           `json:"command,omitempty"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
	URL     *string           `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// MarshalJSON omits args when absent while keeping an explicit empty list.
func (o PlatformOverride) MarshalJSON() ([]byte, error) {
	type plain PlatformOverride
	if o.Args == nil {
		return json.Marshal(struct {
			plain
			Args []string `json:"args,omitempty"`
		}{plain: plain(o)})
	}
	return json.Marshal(plain(o))
}

// OAuthConfig is passed through resolution untouched.
type OAuthConfig struct {
	ClientID         *string  `json:"clientId,omitempty"`
	AuthorizationURL *string  `json:"authorizationUrl,omitempty"`
	TokenURL         *string  `json:"tokenUrl,omitempty"`
	Scopes           []string `json:"scopes,omitempty"`
}

// Tool is a top-level tool declaration.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Prompt is a top-level prompt declaration.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
	Text        *string          `json:"text,omitempty"`
}

// PromptArgument is a named prompt parameter.
type PromptArgument struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Required    *bool   `json:"required,omitempty"`
}

// UserConfigType is the value type of a user_config field.
type UserConfigType string

// User config types.
const (
	UserString    UserConfigType = "string"
	UserNumber    UserConfigType = "number"
	UserBoolean   UserConfigType = "boolean"
	UserDirectory UserConfigType = "directory"
	UserFile      UserConfigType = "file"
)

// UserConfigField declares a value the installing user supplies.
type UserConfigField struct {
	Type        UserConfigType `json:"type"`
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	Required    *bool          `json:"required,omitempty"`
	Default     any            `json:"default,omitempty"`
	Multiple    *bool          `json:"multiple,omitempty"`
	Sensitive   *bool          `json:"sensitive,omitempty"`
	Enum        []string       `json:"enum,omitempty"`
	Min         *float64       `json:"min,omitempty"`
	Max         *float64       `json:"max,omitempty"`
}

// IsRequired reports whether the field must be supplied.
func (f UserConfigField) IsRequired() bool { return f.Required != nil && *f.Required }

// IsSensitive reports whether the value must be masked wherever it is shown.
func (f UserConfigField) IsSensitive() bool { return f.Sensitive != nil && *f.Sensitive }

// DefaultString returns the default rendered as a template substitution.
func (f UserConfigField) DefaultString() (string, bool) {
	return stringify(f.Default)
}

// SystemConfigType is the kind of resource a system_config field names.
type SystemConfigType string

// System config types.
const (
	SystemPort          SystemConfigType = "port"
	SystemHostname      SystemConfigType = "hostname"
	SystemTempDirectory SystemConfigType = "temp_directory"
	SystemDataDirectory SystemConfigType = "data_directory"
)

// SystemConfigField declares a value the host allocates.
type SystemConfigField struct {
	Type        SystemConfigType `json:"type"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Required    *bool            `json:"required,omitempty"`
	Default     any              `json:"default,omitempty"`
}

// IsRequired reports whether the field must be supplied.
func (f SystemConfigField) IsRequired() bool { return f.Required != nil && *f.Required }

// DefaultString returns the default rendered as a template substitution.
func (f SystemConfigField) DefaultString() (string, bool) {
	return stringify(f.Default)
}

// Compatibility lists host, platform and runtime requirements.
type Compatibility struct {
	ClaudeDesktop *string   `json:"claude_desktop,omitempty"`
	Platforms     []string  `json:"platforms,omitempty"`
	Runtimes      *Runtimes `json:"runtimes,omitempty"`
}

// Runtimes holds runtime version constraints.
type Runtimes struct {
	Node   *string `json:"node,omitempty"`
	Python *string `json:"python,omitempty"`
}

// Localization points at translated resources.
type Localization struct {
	Resources     *string `json:"resources,omitempty"`
	DefaultLocale *string `json:"default_locale,omitempty"`
}

// stringify renders a JSON default value. Lists (multiple-valued fields)
// join with commas. null and objects have no string form.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := stringify(e)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	default:
		return "", false
	}
}

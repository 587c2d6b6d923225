// Package redact masks secrets before they reach logs, errors or terminal output.
//
// Two kinds of secret are recognised. Heuristic secrets are detected from a
// key name (API_KEY, Authorization) or from a well-known token prefix in the
// value. Declared secrets are the concrete values of user_config fields marked
// sensitive; those are tracked in a [Secrets] set and scrubbed wherever they
// appear inside a larger string.
package redact

import (
	"net/url"
	"slices"
	"strings"
)

// Mask is the replacement for a value that must not leak any characters.
const Mask = "********"

// SecretKeyPatterns contains substrings that indicate a key likely holds sensitive data.
// Keys are matched case-insensitively.
var SecretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"PRIVATE",
	"COOKIE",
}

// TokenPrefixes contains known API token prefixes that mark a value as sensitive
// regardless of key name.
var TokenPrefixes = []string{
	"ghp_",  // GitHub personal access token
	"gho_",  // GitHub OAuth token
	"ghu_",  // GitHub user-to-server token
	"ghs_",  // GitHub server-to-server token
	"ghr_",  // GitHub refresh token
	"sk-",   // OpenAI/Anthropic keys
	"pk-",   // Public keys that shouldn't be exposed
	"AKIA",  // AWS access key prefix
	"xoxb-", // Slack bot token
	"xoxp-", // Slack user token
	"xoxa-", // Slack app token
	"xoxr-", // Slack refresh token
	"Bearer ",
	"Basic ",
}

// ShouldMask returns true if the key name suggests it contains sensitive data.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range SecretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix returns true if the value starts with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// MaskValue masks a heuristically sensitive value.
// Values with 4 or fewer characters become [Mask]; longer values keep their
// last 4 characters so operators can tell two tokens apart.
func MaskValue(value string) string {
	if len(value) <= 4 {
		return Mask
	}
	return "****" + value[len(value)-4:]
}

// MaskURL redacts the password of a URL with embedded credentials.
// If the URL cannot be parsed, it is returned unchanged.
func MaskURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}

	password, hasPassword := parsed.User.Password()
	if !hasPassword || password == "" {
		return rawURL
	}

	parsed.User = url.UserPassword(parsed.User.Username(), MaskValue(password))
	return parsed.String()
}

// Secrets is a set of concrete values that must never be shown.
// The zero value is an empty set and is safe to use.
type Secrets struct {
	values []string
}

// NewSecrets returns a set holding the non-empty values given.
func NewSecrets(values ...string) *Secrets {
	s := &Secrets{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add records value as secret. Empty strings are ignored.
func (s *Secrets) Add(value string) {
	if value == "" || slices.Contains(s.values, value) {
		return
	}
	s.values = append(s.values, value)
	// Longest first so a secret containing another is replaced whole.
	slices.SortFunc(s.values, func(a, b string) int { return len(b) - len(a) })
}

// Len returns the number of tracked secrets.
func (s *Secrets) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Scrub replaces every occurrence of a tracked secret inside text with [Mask].
func (s *Secrets) Scrub(text string) string {
	if s == nil {
		return text
	}
	for _, v := range s.values {
		text = strings.ReplaceAll(text, v, Mask)
	}
	return text
}

// String masks a single key/value pair for display. Declared secrets are
// scrubbed first, then key and prefix heuristics apply, then URL credentials.
func (s *Secrets) String(key, value string) string {
	if scrubbed := s.Scrub(value); scrubbed != value {
		return scrubbed
	}
	if ShouldMask(key) || ContainsTokenPrefix(value) {
		return MaskValue(value)
	}
	return MaskURL(value)
}

// Map returns a copy of m with every value passed through [Secrets.String].
// It returns nil for a nil map.
func (s *Secrets) Map(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	masked := make(map[string]string, len(m))
	for k, v := range m {
		masked[k] = s.String(k, v)
	}
	return masked
}

// MaskSecrets masks sensitive values in m using only the key and prefix heuristics.
func MaskSecrets(m map[string]string) map[string]string {
	var none *Secrets
	return none.Map(m)
}

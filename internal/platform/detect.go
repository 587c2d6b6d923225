package platform

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/thoreinstein/mcpb/internal/errors"
)

// OS is a platform operating system in manifest spelling.
type OS string

// Supported operating systems.
const (
	Darwin OS = "darwin"
	Linux  OS = "linux"
	Win32  OS = "win32"
)

// Arch is a CPU architecture in manifest spelling.
type Arch string

// Supported architectures.
const (
	ARM64  Arch = "arm64"
	X86_64 Arch = "x86_64"
)

var (
	oses   = []OS{Darwin, Linux, Win32}
	arches = []Arch{ARM64, X86_64}
)

// ErrUnsupportedHost is the sentinel UnsupportedHostError unwraps to.
var ErrUnsupportedHost = errors.New("unsupported host platform")

// UnsupportedHostError reports a Go runtime platform with no manifest spelling.
type UnsupportedHostError struct {
	GOOS   string
	GOARCH string
}

func (e *UnsupportedHostError) Error() string {
	return fmt.Sprintf("unsupported host platform %s/%s (supported: darwin, linux, windows on arm64, amd64)", e.GOOS, e.GOARCH)
}

// Unwrap returns ErrUnsupportedHost.
func (e *UnsupportedHostError) Unwrap() error {
	return ErrUnsupportedHost
}

// Target is the platform a manifest is resolved or validated for.
// Arch may be empty when only the operating system is known; such a
// target matches os-level overrides only.
type Target struct {
	OS   OS
	Arch Arch
}

// String renders the target as an override key: "darwin-arm64" or "darwin".
func (t Target) String() string {
	if t.Arch == "" {
		return string(t.OS)
	}
	return string(t.OS) + "-" + string(t.Arch)
}

// Detect returns the target of the running process.
func Detect() (Target, error) {
	return DetectFrom(runtime.GOOS, runtime.GOARCH)
}

// DetectFrom maps Go's GOOS/GOARCH to a Target. Platforms outside the
// supported matrix are an error, never a guess.
func DetectFrom(goos, goarch string) (Target, error) {
	var t Target
	switch goos {
	case "darwin":
		t.OS = Darwin
	case "linux":
		t.OS = Linux
	case "windows":
		t.OS = Win32
	default:
		return Target{}, &UnsupportedHostError{GOOS: goos, GOARCH: goarch}
	}
	switch goarch {
	case "arm64":
		t.Arch = ARM64
	case "amd64":
		t.Arch = X86_64
	default:
		return Target{}, &UnsupportedHostError{GOOS: goos, GOARCH: goarch}
	}
	return t, nil
}

// ParseTarget parses a --platform value such as "linux-x86_64" or "win32".
func ParseTarget(s string) (Target, error) {
	k, err := ParseKey(strings.TrimSpace(s))
	if err != nil {
		return Target{}, err
	}
	return Target(k), nil
}

// ValidOS reports whether s is a supported OS spelling.
func ValidOS(s string) bool {
	for _, o := range oses {
		if string(o) == s {
			return true
		}
	}
	return false
}

// ValidArch reports whether s is a supported architecture spelling.
func ValidArch(s string) bool {
	for _, a := range arches {
		if string(a) == s {
			return true
		}
	}
	return false
}

// OSNames returns the supported OS spellings.
func OSNames() []string {
	names := make([]string, len(oses))
	for i, o := range oses {
		names[i] = string(o)
	}
	return names
}

// ArchNames returns the supported architecture spellings.
func ArchNames() []string {
	names := make([]string, len(arches))
	for i, a := range arches {
		names[i] = string(a)
	}
	return names
}

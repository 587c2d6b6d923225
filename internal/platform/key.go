package platform

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/mcpb/internal/errors"
)

// ErrInvalidKey is the sentinel every KeyError unwraps to.
var ErrInvalidKey = errors.New("invalid platform key")

// KeyError describes why an override key was rejected.
type KeyError struct {
	Key string
	// BadOS and BadArch are set when the key has the os-arch shape but a
	// component is not supported. Both false means the shape is wrong.
	BadOS   bool
	BadArch bool
}

func (e *KeyError) Error() string {
	os, arch, _ := strings.Cut(e.Key, "-")
	switch {
	case e.BadOS && e.BadArch:
		return fmt.Sprintf("%q has invalid OS %q and arch %q", e.Key, os, arch)
	case e.BadOS:
		return fmt.Sprintf("%q has invalid OS %q, expected one of: %s", e.Key, os, strings.Join(OSNames(), ", "))
	case e.BadArch:
		return fmt.Sprintf("%q has invalid arch %q, expected one of: %s", e.Key, arch, strings.Join(ArchNames(), ", "))
	default:
		return fmt.Sprintf("%q is not a valid platform key, expected OS (darwin/linux/win32) or OS-arch (darwin-arm64)", e.Key)
	}
}

// Unwrap returns ErrInvalidKey.
func (e *KeyError) Unwrap() error {
	return ErrInvalidKey
}

// Key is a parsed platform_overrides key. Arch is empty for os-level keys.
type Key struct {
	OS   OS
	Arch Arch
}

// ParseKey parses "os" or "os-arch".
func ParseKey(s string) (Key, error) {
	if ValidOS(s) {
		return Key{OS: OS(s)}, nil
	}
	os, arch, ok := strings.Cut(s, "-")
	if !ok {
		return Key{}, &KeyError{Key: s}
	}
	badOS, badArch := !ValidOS(os), !ValidArch(arch)
	if badOS || badArch {
		return Key{}, &KeyError{Key: s, BadOS: badOS, BadArch: badArch}
	}
	return Key{OS: OS(os), Arch: Arch(arch)}, nil
}

// Specificity is 2 for os-arch keys and 1 for os keys.
func (k Key) Specificity() int {
	if k.Arch != "" {
		return 2
	}
	return 1
}

func (k Key) String() string {
	return Target(k).String()
}

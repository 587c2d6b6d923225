package diagnostic

import (
	"strconv"
	"strings"
)

type segmentKind int

const (
	segKey segmentKind = iota
	segIndex
	segQuoted
)

type segment struct {
	kind  segmentKind
	key   string
	index int
}

// Path is an immutable location inside a manifest document.
// Builders return a new Path and never modify the receiver.
type Path struct {
	segs []segment
}

// Root returns the empty path, which addresses the whole manifest.
func Root() Path {
	return Path{}
}

// At is shorthand for Root().Key(k) for each key in turn.
func At(keys ...string) Path {
	p := Root()
	for _, k := range keys {
		p = p.Key(k)
	}
	return p
}

// Key appends an object member. Names that are not plain identifiers are
// rendered quoted.
func (p Path) Key(name string) Path {
	if !plainKey(name) {
		return p.Quoted(name)
	}
	return p.with(segment{kind: segKey, key: name})
}

// Quoted appends an object member that is always rendered as ["name"].
func (p Path) Quoted(name string) Path {
	return p.with(segment{kind: segQuoted, key: name})
}

// Index appends an array element.
func (p Path) Index(i int) Path {
	return p.with(segment{kind: segIndex, index: i})
}

func (p Path) with(s segment) Path {
	segs := make([]segment, len(p.segs), len(p.segs)+1)
	copy(segs, p.segs)
	return Path{segs: append(segs, s)}
}

// IsRoot reports whether p addresses the whole manifest.
func (p Path) IsRoot() bool {
	return len(p.segs) == 0
}

// Last returns the final member name, or "" for the root or an index.
func (p Path) Last() string {
	if len(p.segs) == 0 {
		return ""
	}
	return p.segs[len(p.segs)-1].key
}

func (p Path) String() string {
	var sb strings.Builder
	for i, s := range p.segs {
		switch s.kind {
		case segKey:
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(s.key)
		case segQuoted:
			sb.WriteString("[")
			sb.WriteString(strconv.Quote(s.key))
			sb.WriteString("]")
		case segIndex:
			sb.WriteString("[")
			sb.WriteString(strconv.Itoa(s.index))
			sb.WriteString("]")
		}
	}
	return sb.String()
}

// MarshalText renders the path with String.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText reads the notation String produces.
func (p *Path) UnmarshalText(b []byte) error {
	*p = ParsePath(string(b))
	return nil
}

func plainKey(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// ParsePath reads the notation String produces. Text it cannot read is
// kept whole as a single quoted member so the location is not lost.
func ParsePath(s string) Path {
	p := Root()
	for i := 0; i < len(s); {
		switch s[i] {
		case '.':
			i++
		case '[':
			if strings.HasPrefix(s[i:], `["`) {
				end := strings.Index(s[i:], `"]`)
				if end < 0 {
					return Root().Quoted(s)
				}
				name, err := strconv.Unquote(s[i+1 : i+end+1])
				if err != nil {
					return Root().Quoted(s)
				}
				p = p.Quoted(name)
				i += end + 2
				continue
			}
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return Root().Quoted(s)
			}
			n, err := strconv.Atoi(s[i+1 : i+end])
			if err != nil {
				return Root().Quoted(s)
			}
			p = p.Index(n)
			i += end + 1
		default:
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			p = p.Key(s[i:j])
			i = j
		}
	}
	return p
}

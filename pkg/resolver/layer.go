package resolver

import (
	"fmt"
	"strings"
)

// Layer identifies which matching rule produced a merge. Lower values have
// higher priority.
type Layer int

const (
	// LayerNone means no rule matched.
	LayerNone Layer = iota
	// LayerIDName matches a shared ID with similar names.
	LayerIDName
	// LayerIDNickname matches a shared ID with identical nicknames.
	LayerIDNickname
	// LayerNameOnly matches an identical name under different IDs.
	LayerNameOnly
)

var layerNames = map[Layer]string{
	LayerNone:       "none",
	LayerIDName:     "id+name",
	LayerIDNickname: "id+nickname",
	LayerNameOnly:   "name-only",
}

// Layers returns the matching layers in priority order.
func Layers() []Layer {
	return []Layer{LayerIDName, LayerIDNickname, LayerNameOnly}
}

// String returns the machine name of the layer.
func (l Layer) String() string {
	if s, ok := layerNames[l]; ok {
		return s
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

// Name returns a human readable layer name.
func (l Layer) Name() string {
	switch l {
	case LayerIDName:
		return "ID + Name"
	case LayerIDNickname:
		return "ID + Nickname"
	case LayerNameOnly:
		return "Name Only"
	default:
		return "None"
	}
}

// Stronger reports whether l has higher priority than other.
func (l Layer) Stronger(other Layer) bool {
	if l == LayerNone {
		return false
	}
	return other == LayerNone || l < other
}

// MarshalText implements encoding.TextMarshaler.
func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Layer) UnmarshalText(text []byte) error {
	parsed, err := ParseLayer(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLayer parses a layer machine name.
func ParseLayer(s string) (Layer, error) {
	for l, name := range layerNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return LayerNone, fmt.Errorf("unknown layer %q", s)
}

// KeyKind is the kind of a MatchKey.
type KeyKind string

// Match key kinds.
const (
	KeyIDName     KeyKind = "id+name"
	KeyIDNickname KeyKind = "id+nickname"
	KeyName       KeyKind = "name"
)

// MatchKey is the key a layer compared. Keys are recomputed from names on
// every comparison and are never stored on their own.
type MatchKey struct {
	Kind  KeyKind `json:"kind" yaml:"kind"`
	ID    string  `json:"id,omitempty" yaml:"id,omitempty"`
	Value string  `json:"value" yaml:"value"`
}

// String renders the key as kind(id, value).
func (k MatchKey) String() string {
	if k.ID == "" {
		return fmt.Sprintf("%s(%s)", k.Kind, k.Value)
	}
	return fmt.Sprintf("%s(%s, %s)", k.Kind, k.ID, k.Value)
}

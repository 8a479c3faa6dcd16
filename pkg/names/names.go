// Package names parses raw Thai/romanized employee name strings into
// comparable components.
//
// A raw name looks like:
//
//	นาง CHHUN ORNG LY (รี)/ลาออก 27/03
//
// which parses into prefix นาง, given CHHUN, family ORNG, nickname รี and
// note "ลาออก 27/03". Parsing never fails; unrecognized shapes degrade to
// a given name with no prefix.
package names

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical honorific prefixes.
const (
	PrefixMr   = "นาย"
	PrefixMrs  = "นาง"
	PrefixMiss = "นางสาว"
)

var (
	// a note starts at the first slash followed by a Thai or Latin letter
	noteStart = regexp.MustCompile(`/[\x{0E01}-\x{0E59}a-zA-Z]`)
	nickname  = regexp.MustCompile(`\(([\x{0E01}-\x{0E59}]+)\)`)
	nickSpan  = regexp.MustCompile(`\s*\([\x{0E01}-\x{0E59}]+\)\s*`)
	thaiWord  = regexp.MustCompile(`^[\x{0E01}-\x{0E59}]+$`)
)

// abbreviations maps written prefix variants to canonical prefixes.
var abbreviations = map[string]string{
	PrefixMr:   PrefixMr,
	PrefixMrs:  PrefixMrs,
	PrefixMiss: PrefixMiss,
	"น.ส.":     PrefixMiss,
	"นส.":      PrefixMiss,
	"น.ส":      PrefixMiss,
	"นส":       PrefixMiss,
	"น.":       PrefixMr,
}

// gluedPrefixes are checked in order against a first token that carries
// its prefix without a space. Longer forms come first.
var gluedPrefixes = []struct {
	written   string
	canonical string
}{
	{PrefixMiss, PrefixMiss},
	{"น.ส.", PrefixMiss},
	{"นส.", PrefixMiss},
	{PrefixMrs, PrefixMrs},
	{PrefixMr, PrefixMr},
}

// Components is the parsed form of a raw name.
type Components struct {
	Prefix   string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Given    string   `json:"given,omitempty" yaml:"given,omitempty"`
	Family   string   `json:"family,omitempty" yaml:"family,omitempty"`
	Rest     []string `json:"rest,omitempty" yaml:"rest,omitempty"`
	Nickname string   `json:"nickname,omitempty" yaml:"nickname,omitempty"`
	Note     string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// Parse splits a raw name into its components.
func Parse(raw string) Components {
	s := Clean(raw)
	if s == "" {
		return Components{}
	}

	var c Components
	if loc := noteStart.FindStringIndex(s); loc != nil {
		c.Note = strings.TrimSpace(s[loc[0]+1:])
		s = strings.TrimSpace(s[:loc[0]])
	}

	if m := nickname.FindStringSubmatch(s); m != nil {
		c.Nickname = m[1]
	}
	s = strings.TrimSpace(nickSpan.ReplaceAllString(s, " "))

	parts := strings.Fields(s)
	if len(parts) == 0 {
		return c
	}

	if prefix, ok := abbreviations[parts[0]]; ok {
		c.Prefix = prefix
		c.Given = at(parts, 1)
		c.Family = at(parts, 2)
		c.Rest = tail(parts, 3)
		return c
	}

	c.Given = parts[0]
	for _, p := range gluedPrefixes {
		if rest, found := strings.CutPrefix(parts[0], p.written); found && rest != "" {
			c.Prefix = p.canonical
			c.Given = rest
			break
		}
	}
	c.Family = at(parts, 1)
	c.Rest = tail(parts, 2)
	return c
}

// NormalizePrefix maps an abbreviated honorific to its canonical form.
// Unknown values are returned unchanged.
func NormalizePrefix(prefix string) string {
	if canonical, ok := abbreviations[prefix]; ok {
		return canonical
	}
	return prefix
}

// Clean applies Unicode NFC normalization, removes invisible format
// characters such as zero-width spaces, and collapses whitespace.
func Clean(raw string) string {
	t := transform.Chain(runes.Remove(runes.In(unicode.Cf)), norm.NFC)
	out, _, err := transform.String(t, raw)
	if err != nil {
		out = raw
	}
	return strings.Join(strings.Fields(out), " ")
}

// Key is the comparison key "prefix|given|family". Nickname and note are
// excluded.
func (c Components) Key() string {
	return c.Prefix + "|" + c.Given + "|" + c.Family
}

// IsEmpty reports whether no name was recognized.
func (c Components) IsEmpty() bool {
	return c.Prefix == "" && c.Given == "" && c.Family == ""
}

// Display renders "prefix given family [rest...] (nickname)".
func (c Components) Display() string {
	parts := []string{c.Prefix, c.Given, c.Family}
	parts = append(parts, c.Rest...)
	if c.Nickname != "" {
		parts = append(parts, "("+c.Nickname+")")
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Anchor returns the nickname when one is written. Otherwise a name made of
// a prefix and a single native-script word returns that word, since such
// short names are nicknames in practice.
func (c Components) Anchor() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	if c.Prefix != "" && c.Family == "" && len(c.Rest) == 0 && thaiWord.MatchString(c.Given) {
		return c.Given
	}
	return ""
}

func at(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

func tail(parts []string, i int) []string {
	if i < len(parts) {
		return append([]string(nil), parts[i:]...)
	}
	return nil
}

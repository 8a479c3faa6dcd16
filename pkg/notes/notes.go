// Package notes detects employment-status keywords in free-text notes.
// Detection is literal substring matching; nothing is inferred.
package notes

import (
	"strings"

	"github.com/agentstation/rollcall/pkg/constants"
)

// Flag is an employment event named in a note.
type Flag string

// Flags detected in notes.
const (
	FlagResigned    Flag = "resigned"
	FlagRestarted   Flag = "restarted"
	FlagTransferred Flag = "transferred"
)

// Label returns the English label of the flag.
func (f Flag) Label() string {
	switch f {
	case FlagResigned:
		return "Resigned"
	case FlagRestarted:
		return "Restarted"
	case FlagTransferred:
		return "Transferred"
	default:
		return string(f)
	}
}

// Match is one keyword found in text.
type Match struct {
	Flag    Flag
	Keyword string
}

// String renders the match as "keyword (Label)".
func (m Match) String() string {
	return m.Keyword + " (" + m.Flag.Label() + ")"
}

var keywords = []struct {
	flag  Flag
	words []string
}{
	{FlagResigned, constants.ResignKeywords},
	{FlagRestarted, constants.RestartKeywords},
	{FlagTransferred, constants.TransferKeywords},
}

// Scan returns at most one match per flag, in flag order, for the first
// keyword of each flag found in any of the texts. Latin keywords match
// case-insensitively.
func Scan(texts ...string) []Match {
	joined := strings.ToLower(strings.Join(texts, " "))
	var out []Match
	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(joined, strings.ToLower(w)) {
				out = append(out, Match{Flag: k.flag, Keyword: w})
				break
			}
		}
	}
	return out
}

// Has reports whether any text names the flag.
func Has(flag Flag, texts ...string) bool {
	for _, m := range Scan(texts...) {
		if m.Flag == flag {
			return true
		}
	}
	return false
}

package titlematch

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nonWordPattern matches punctuation sequences stripped before comparison.
var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

var lowerCaser = cases.Lower(language.Und)

// MatchKind classifies how a scraped title matched a stored one.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchPartial
)

// String returns the label used in run summaries.
func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPartial:
		return "partial"
	default:
		return "none"
	}
}

// Candidate is a stored movie eligible for matching.
type Candidate struct {
	ID    string
	Title string
}

// Match is the outcome of matching one scraped title against candidates.
type Match struct {
	ID    string
	Title string
	Kind  MatchKind
}

// Normalize prepares a title for comparison: case folding, punctuation
// stripping, and whitespace collapsing.
func Normalize(title string) string {
	normalized := lowerCaser.String(title)
	normalized = nonWordPattern.ReplaceAllString(normalized, "")
	return strings.Join(strings.Fields(normalized), " ")
}

// Find matches a scraped title against candidates. An exact normalized match
// wins immediately; otherwise the first candidate (in scan order) whose
// normalized title contains, or is contained by, the scraped title is
// returned as a partial match.
func Find(title string, candidates []Candidate) Match {
	normalized := Normalize(title)
	if normalized == "" {
		return Match{Kind: MatchNone}
	}

	var partial *Candidate
	for i := range candidates {
		candidate := &candidates[i]
		candidateNorm := Normalize(candidate.Title)
		if candidateNorm == "" {
			continue
		}
		if normalized == candidateNorm {
			return Match{ID: candidate.ID, Title: candidate.Title, Kind: MatchExact}
		}
		if partial == nil && (strings.Contains(candidateNorm, normalized) || strings.Contains(normalized, candidateNorm)) {
			partial = candidate
		}
	}

	if partial != nil {
		return Match{ID: partial.ID, Title: partial.Title, Kind: MatchPartial}
	}
	return Match{Kind: MatchNone}
}

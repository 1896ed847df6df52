package safety

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Filter decides whether externally sourced content is admissible for the
// pipeline. It is a pure predicate: no I/O, safe for concurrent use, cheap
// enough to call once per fetched candidate.
type Filter struct {
	terms []string
}

// leetReplacer folds common symbol/digit substitutions back to the letters
// they stand in for, so "d@mn" and "bull$hit" match their blocklist entries.
var leetReplacer = strings.NewReplacer(
	"@", "a",
	"4", "a",
	"3", "e",
	"1", "i",
	"!", "i",
	"0", "o",
	"$", "s",
	"5", "s",
	"7", "t",
	"8", "b",
)

// New builds a filter from a blocklist. Terms are matched case-insensitively
// as substrings; empty terms are dropped.
func New(blocklist []string) *Filter {
	terms := make([]string, 0, len(blocklist))
	for _, t := range blocklist {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}
	return &Filter{terms: terms}
}

// IsAdmissible reports whether content with the given label may enter the
// pipeline. flagged is the source's own adult-content marker and always wins.
//
// The label check matches blocklist terms case-insensitively and tolerates
// common obfuscations: leetspeak substitutions ("d@mn"), elongated characters
// ("fuuuck"), and spacing or symbols inserted between letters ("f u c k").
func (f *Filter) IsAdmissible(label string, flagged bool) bool {
	if flagged {
		return false
	}

	folded := leetReplacer.Replace(strings.ToLower(norm.NFKC.String(label)))
	squeezed := removeSeparators(folded)

	for _, term := range f.terms {
		if strings.Contains(folded, term) {
			return false
		}
		if containsElongated(folded, term) {
			return false
		}
		if strings.Contains(squeezed, term) {
			return false
		}
	}
	return true
}

// removeSeparators strips spaces, punctuation, and symbols so that terms
// split across characters still match.
func removeSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// containsElongated reports whether s contains term allowing each term
// character to be repeated one or more times ("fuuuck" matches "fuck").
func containsElongated(s, term string) bool {
	if term == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if matchElongatedAt(s, i, term) {
			return true
		}
	}
	return false
}

func matchElongatedAt(s string, start int, term string) bool {
	si := start
	for ti := 0; ti < len(term); ti++ {
		c := term[ti]
		if si >= len(s) || s[si] != c {
			return false
		}
		// Consume the run of c, but leave repeats for an identical
		// following term character.
		si++
		for si < len(s) && s[si] == c && (ti+1 >= len(term) || term[ti+1] != c) {
			si++
		}
	}
	return true
}

package rules

import (
	"fmt"
	"regexp"
)

// Rule is one compiled line from a rule file: an ordered record of a
// flag set, a compiled POSIX extended regex, and a (possibly empty)
// substitution pattern. A Rule has no mutable state after construction,
// per spec §3.
type Rule struct {
	Index    int
	Flags    Flag
	Regex    *regexp.Regexp
	Pattern  string
	Source   string // the regex source, kept for diagnostics/round-trip
	RawFlags string // the flags token exactly as written, for display
}

// RuleList is a finite ordered sequence of rules. Position defines both
// evaluation order and the restart target ('s' always resumes at index 0).
type RuleList struct {
	Rules []*Rule
}

// Len reports how many rules are in the list.
func (rl *RuleList) Len() int {
	if rl == nil {
		return 0
	}
	return len(rl.Rules)
}

// String renders the rule list back into its canonical rule-file text,
// one compiled rule per line, satisfying the round-trip law in spec §8.
func (rl *RuleList) String() string {
	if rl == nil {
		return ""
	}
	out := ""
	for _, r := range rl.Rules {
		out += r.String() + "\n"
	}
	return out
}

// String renders a single rule back into "flags regex [pattern]" form.
// It renders RawFlags, the flags token exactly as parsed, rather than
// Flags.String() — post-parse normalization (see Flag.normalize) can
// clear bits that were present in the original token (e.g. a bare "gg"
// with no "r"), and rendering the normalized bitset for such a rule
// would produce a flags field too short to satisfy the grammar's
// `flags = 1*flag-char` requirement on re-parse.
func (r *Rule) String() string {
	if r.Pattern == "" {
		return fmt.Sprintf("%s %s", r.RawFlags, r.Source)
	}
	return fmt.Sprintf("%s %s %s", r.RawFlags, r.Source, escapePatternForDisplay(r.Pattern))
}

// escapePatternForDisplay re-adds the tokenizer escape a space, tab, or
// '#' needs to survive being read back as part of this (last) token on
// the line. It never touches a backslash that is already part of the
// pattern's own grammar (\0-\9, \L, \U, \E, \x) — doubling those would
// change what the pattern means on re-parse — so it only escapes
// whitespace/'#' that is not already protected by a preceding backslash.
func escapePatternForDisplay(s string) string {
	out := make([]byte, 0, len(s))
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !escaped && (c == ' ' || c == '\t' || c == '#') {
			out = append(out, '\\')
		}
		out = append(out, c)
		escaped = !escaped && c == '\\'
	}
	return string(out)
}

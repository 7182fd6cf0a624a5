package rules

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
)

// MaxLineLength is the longest rule-file line the parser reads before
// silently truncating, matching the fixed-size line buffer the original
// implementation's parserulefile uses (spec §4.1, §6 boundary cases).
const MaxLineLength = 16384

// ParseFile opens path and parses it as a rule file.
func ParseFile(path string) (*RuleList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads rule-file text from r and compiles it into a RuleList.
// Blank lines and lines consisting only of a comment are skipped. Index
// is assigned monotonically across the whole call, not per line, so
// rule numbering is stable regardless of how many comment/blank lines
// precede a given rule.
func Parse(r io.Reader) (*RuleList, error) {
	br := bufio.NewReader(r)
	var list RuleList
	nrule := 0
	lineno := 0

	for {
		line, readErr := br.ReadString('\n')
		if len(line) == 0 && readErr != nil {
			break
		}
		lineno++
		if len(line) > MaxLineLength {
			line = line[:MaxLineLength]
		}

		rule, ok, err := parseLine(line, lineno, &nrule)
		if err != nil {
			return nil, err
		}
		if ok {
			list.Rules = append(list.Rules, rule)
		}

		if readErr != nil {
			break
		}
	}
	return &list, nil
}

// parseLine parses one rule-file line into a Rule. ok is false (with a
// nil error) for a blank or comment-only line.
func parseLine(line string, lineno int, nrule *int) (*Rule, bool, error) {
	pos := 0

	flagsTok, pos := readEscString(line, pos)
	if flagsTok == "" {
		return nil, false, nil
	}

	flags, err := ParseFlags(flagsTok)
	if err != nil {
		return nil, false, &ParseError{Line: lineno, Err: err}
	}
	if err := flags.validate(); err != nil {
		return nil, false, &ParseError{Line: lineno, Err: err}
	}
	flags = flags.normalize()

	regexTok, pos := readEscString(line, pos)
	if regexTok == "" {
		return nil, false, &ParseError{Line: lineno, Err: fmt.Errorf("missing regex")}
	}

	src := regexTok
	if flags&FlagICase != 0 {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, false, &ParseError{Line: lineno, Err: fmt.Errorf("bad regex: %w", err)}
	}
	// POSIX extended regex uses leftmost-longest match selection rather
	// than Perl's leftmost-first/backtracking preference (spec §4, §9
	// "Why POSIX"); Longest reconfigures the already-compiled automaton
	// for that without giving up the (?i) inline-flag syntax CompilePOSIX
	// would reject.
	re.Longest()

	patternTok, _ := readEscString(line, pos)

	rule := &Rule{
		Index:    *nrule,
		Flags:    flags,
		Regex:    re,
		Pattern:  patternTok,
		Source:   regexTok,
		RawFlags: flagsTok,
	}
	*nrule++
	return rule, true, nil
}

// readEscString extracts the next whitespace/'#'-delimited token from
// line starting at pos, honoring backslash escapes so an escaped space,
// tab, or '#' does not end the token early. The returned token retains
// its raw backslashes unmodified — collapsing them is left to whatever
// later consumes the token (the regex compiler, or the substitution
// grammar in renderPattern) — matching the original implementation's
// readescstring, which only tracks escape state to decide where to
// stop, never to rewrite the bytes it copies.
func readEscString(line string, pos int) (token string, next int) {
	p := pos
	for p < len(line) && isLineSpace(line[p]) {
		p++
	}
	if p >= len(line) {
		return "", p
	}
	start := p
	wasbs := false
	for p < len(line) {
		c := line[p]
		if !wasbs && (isLineSpace(c) || c == '#') {
			break
		}
		wasbs = !wasbs && c == '\\'
		p++
	}
	return line[start:p], p
}

func isLineSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

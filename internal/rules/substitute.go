package rules

import (
	"strings"

	"tftpremap/internal/ports"
)

// caseMode tracks the current \L/\U/\E state while rendering a pattern.
type caseMode int

const (
	caseNone caseMode = iota
	caseLower
	caseUpper
)

func (m caseMode) apply(b byte) byte {
	switch m {
	case caseLower:
		if b >= 'A' && b <= 'Z' {
			return b + ('a' - 'A')
		}
	case caseUpper:
		if b >= 'a' && b <= 'z' {
			return b - ('a' - 'A')
		}
	}
	return b
}

// renderPattern runs the backslash-macro substitution grammar of spec
// §4.3 over pattern: \0-\9 insert capture ranges from loc (absent
// captures insert nothing), \L/\U/\E switch the running case-fold mode,
// and any other \x asks macro for an expansion, falling back to the
// literal character when macro declines or is nil. Case folding applies
// to every byte written, including literals, captures, and macro output.
//
// loc follows the convention of (*regexp.Regexp).FindStringSubmatchIndex
// run against src: loc[2*n], loc[2*n+1] are the half-open byte range of
// capture n, or -1, -1 if absent. A nil or short loc (as used for inverse
// rules, whose captures are always absent per spec §3) makes every
// capture reference insert nothing.
func renderPattern(pattern string, src string, loc []int, macro ports.MacroExpander) string {
	var b strings.Builder
	mode := caseNone

	writeCased := func(s string) {
		for i := 0; i < len(s); i++ {
			b.WriteByte(mode.apply(s[i]))
		}
	}

	i := 0
	for i < len(pattern) {
		c := pattern[i]
		if c != '\\' {
			writeCased(pattern[i : i+1])
			i++
			continue
		}
		// A trailing lone backslash is a literal backslash; never read
		// past the end of the pattern (spec §9).
		if i+1 >= len(pattern) {
			b.WriteByte('\\')
			i++
			continue
		}

		esc := pattern[i+1]
		switch {
		case esc >= '0' && esc <= '9':
			n := int(esc - '0')
			lo, hi, ok := captureRange(loc, n)
			if ok {
				writeCased(src[lo:hi])
			}
		case esc == 'L':
			mode = caseLower
		case esc == 'U':
			mode = caseUpper
		case esc == 'E':
			mode = caseNone
		default:
			if macro != nil {
				if expansion, ok := macro.Expand(esc); ok {
					writeCased(string(expansion))
					i += 2
					continue
				}
			}
			writeCased(pattern[i+1 : i+2])
		}
		i += 2
	}

	return b.String()
}

func captureRange(loc []int, n int) (lo, hi int, ok bool) {
	idx := 2 * n
	if idx+1 >= len(loc) {
		return 0, 0, false
	}
	if loc[idx] < 0 || loc[idx+1] < 0 {
		return 0, 0, false
	}
	return loc[idx], loc[idx+1], true
}

// rewriteOnce frames one substitution of pattern against the match
// described by loc (relative to src) as: the prefix of src up to the
// match start, the rendered pattern, and the suffix from the match end.
// It returns the newly built string and nextOffset, the byte index in
// that new string immediately after the rendered region — exported so
// SEDG scanning resumes beyond it and can never re-match the same span
// (spec §4.3 "Output framing" and the SEDG non-overlap invariant).
func rewriteOnce(pattern string, src string, loc []int, macro ports.MacroExpander) (result string, nextOffset int) {
	prefix := src[:loc[0]]
	suffix := src[loc[1]:]
	rendered := renderPattern(pattern, src, loc, macro)
	nextOffset = len(prefix) + len(rendered)
	return prefix + rendered + suffix, nextOffset
}

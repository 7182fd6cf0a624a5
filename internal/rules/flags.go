package rules

import "fmt"

// Flag is the bitset of single-character flags a rule line may carry.
// Modeled as an iota bitset the way this corpus already does for option
// enums (see the sinkhole SMTP rule engine's Option bitmask), rather than
// as a struct-of-bools, since flags are tested and combined with plain
// bitwise operators throughout the engine.
type Flag uint16

const (
	FlagRewrite Flag = 1 << iota // r: replace input with substitution of pattern
	FlagGlobal                   // g: anchored-from-start repeat
	FlagSedg                     // gg: sed-style partial global scan
	FlagExit                     // e: exit rule list after match
	FlagHasFile                  // E: validator-gated rewrite or exit
	FlagRestart                  // s: restart from top after match
	FlagAbort                    // a: abort with optional message
	FlagICase                    // i: case-insensitive regex
	FlagInverse                  // ~: execute when regex does not match
	FlagIPv4                     // 4: IPv4 only
	FlagIPv6                     // 6: IPv6 only
	FlagRRQ                      // G: read (get) requests only
	FlagWRQ                      // P: write (put) requests only
)

var flagChars = [...]struct {
	flag Flag
	char byte
}{
	{FlagRewrite, 'r'},
	{FlagExit, 'e'},
	{FlagHasFile, 'E'},
	{FlagRestart, 's'},
	{FlagAbort, 'a'},
	{FlagICase, 'i'},
	{FlagInverse, '~'},
	{FlagIPv4, '4'},
	{FlagIPv6, '6'},
	{FlagRRQ, 'G'},
	{FlagWRQ, 'P'},
}

// ParseFlags parses a flag token (e.g. "rggE") into a Flag bitset.
// 'g' sets FlagGlobal on first occurrence and additionally FlagSedg on a
// second occurrence, matching spec §4.1's "gg" rule. Any other character
// not in the flag alphabet is a fatal parse error.
func ParseFlags(token string) (Flag, error) {
	var f Flag
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c == 'g' {
			if f&FlagGlobal != 0 {
				f |= FlagSedg
			} else {
				f |= FlagGlobal
			}
			continue
		}
		matched := false
		for _, fc := range flagChars {
			if fc.char == c {
				f |= fc.flag
				matched = true
				break
			}
		}
		if !matched {
			return 0, fmt.Errorf("invalid flag character %q", c)
		}
	}
	return f, nil
}

// String renders the flag set back into its canonical token form, used
// for diagnostics and the round-trip tests in spec §8.
func (f Flag) String() string {
	var out []byte
	if f&FlagRewrite != 0 {
		out = append(out, 'r')
	}
	if f&FlagGlobal != 0 {
		out = append(out, 'g')
		if f&FlagSedg != 0 {
			out = append(out, 'g')
		}
	}
	for _, fc := range flagChars {
		if fc.flag == FlagRewrite {
			continue
		}
		if f&fc.flag != 0 {
			out = append(out, fc.char)
		}
	}
	return string(out)
}

// normalize clears FlagGlobal/FlagSedg when FlagRewrite is absent, since
// they are meaningless without a rewrite (spec §4.1 "Post-parse
// normalization").
func (f Flag) normalize() Flag {
	if f&FlagRewrite == 0 {
		f &^= FlagGlobal | FlagSedg
	}
	return f
}

// validate applies the parser-level semantic rejections of spec §4.1.
func (f Flag) validate() error {
	if f&FlagRewrite != 0 && f&FlagInverse != 0 {
		return fmt.Errorf("'r' cannot be combined with '~'")
	}
	if f&FlagRewrite != 0 {
		const globalOnlyHasFile = FlagGlobal | FlagHasFile
		if f&(FlagGlobal|FlagSedg|FlagHasFile) == globalOnlyHasFile {
			return fmt.Errorf("'E' cannot be combined with 'g' alone (but 'gg' is OK)")
		}
	}
	return nil
}

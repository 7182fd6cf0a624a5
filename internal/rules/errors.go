package rules

import "fmt"

// ParseError reports a fatal problem loading a rule file: an unknown
// flag, a semantic flag conflict, a missing regex token, or a regex
// compile failure (spec §4.1, §7 taxonomy item 1).
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("remap: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// AbortError is returned by Rewrite when an 'a' rule matched. Message is
// the fully substituted error text, or empty when the rule's pattern was
// empty ("no specific error", spec §4.2 outcome 2).
type AbortError struct {
	RuleIndex int
	Message   string
}

func (e *AbortError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remap: rule %d: aborted", e.RuleIndex)
	}
	return e.Message
}

// DeadmanError is returned by Rewrite when the step budget is exhausted
// before the rule list settled (spec §4.2 outcome 3, §7 taxonomy item 3).
// Its Error() is always the fixed diagnostic the original implementation
// used, regardless of which rule or input triggered it.
type DeadmanError struct {
	Input string
	Last  string
	Steps int
}

func (e *DeadmanError) Error() string {
	return "Remap table failure"
}

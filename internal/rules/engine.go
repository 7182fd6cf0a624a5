package rules

import (
	"context"
	"regexp"
	"sync/atomic"

	"tftpremap/internal/domain"
	"tftpremap/internal/ports"
)

// DefaultDeadmanSteps is the step budget Engine applies when no
// WithDeadmanSteps option overrides it (spec §4.2, §9 configuration).
const DefaultDeadmanSteps = 4096

// Recorder observes the outcome of a completed Rewrite call. It is kept
// as a narrow local interface (rather than importing internal/metrics
// directly) so the engine has no dependency on any particular
// instrumentation backend; internal/metrics.Registry satisfies it.
type Recorder interface {
	ObserveRewrite(outcome domain.Outcome, steps int)
}

// Engine evaluates a RuleList against filenames. An Engine is safe to
// reuse for many Rewrite calls, including concurrently with a Replace
// (rule-file reload); per-call state lives entirely on the stack of
// Rewrite itself, matching the original implementation's design of a
// single rule table shared by every transfer (spec §3: "Engine instances
// are stateless between calls").
type Engine struct {
	rules     atomic.Pointer[RuleList]
	deadman   int
	validator ports.Validator
	macro     ports.MacroExpander
	logger    Logger
	metrics   Recorder
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithDeadmanSteps overrides DefaultDeadmanSteps. Values <= 0 are
// ignored, leaving the default in place.
func WithDeadmanSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.deadman = n
		}
	}
}

// WithValidator installs the port consulted whenever a rule carries the
// 'E' flag. A nil v leaves ports.NoopValidator in place.
func WithValidator(v ports.Validator) Option {
	return func(e *Engine) {
		if v != nil {
			e.validator = v
		}
	}
}

// WithMacroExpander installs the port consulted for any \x escape the
// substitution grammar does not itself interpret.
func WithMacroExpander(m ports.MacroExpander) Option {
	return func(e *Engine) {
		if m != nil {
			e.macro = m
		}
	}
}

// WithLogger installs the decision logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics installs a Recorder; every Rewrite call reports exactly
// one outcome to it.
func WithMetrics(r Recorder) Option {
	return func(e *Engine) { e.metrics = r }
}

// NewEngine builds an Engine over rl. rl is not copied; a rule-file
// reload swaps in a new RuleList through Replace (see
// internal/bootstrap.Reload).
func NewEngine(rl *RuleList, opts ...Option) *Engine {
	e := &Engine{
		deadman:   DefaultDeadmanSteps,
		validator: ports.NoopValidator,
		macro:     ports.NoopMacroExpander,
		logger:    NopLogger{},
	}
	e.rules.Store(rl)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Replace swaps in a newly parsed RuleList, taking effect for every
// Rewrite call that starts after it returns. In-flight calls keep
// running against whichever RuleList they already loaded.
func (e *Engine) Replace(rl *RuleList) {
	e.rules.Store(rl)
}

// SetLogger reconfigures the decision logger, letting a caller such as
// the CLI override the logger bootstrap.Build wired in (e.g. with a
// different -verbose level) without rebuilding the whole Engine.
func (e *Engine) SetLogger(l Logger) {
	if l != nil {
		e.logger = l
	}
}

// badFlagsFor computes which rule flags disqualify a rule from running
// against this request, mirroring the original implementation's
// bad_flags computation in rewrite_string: a restriction flag not
// matching the current mode/family excludes the rule (spec §4.2).
func badFlagsFor(mode domain.Mode, fam domain.Family) Flag {
	var bad Flag
	if mode != domain.ModeRead {
		bad |= FlagRRQ
	}
	if mode != domain.ModeWrite {
		bad |= FlagWRQ
	}
	if fam != domain.FamilyV4 {
		bad |= FlagIPv4
	}
	if fam != domain.FamilyV6 {
		bad |= FlagIPv6
	}
	return bad
}

// findFirstMatchFrom returns the first submatch of re in s that begins
// at or after from, or nil if none exists. It is used by SEDG scanning
// to resume past an already-substituted region without letting a
// pattern anchor (^) re-match at from as though it were the start of
// the string — the full string is always scanned, so ^ only ever
// matches true position 0, the same NOTBOL-suppressed-at-position-0
// semantics the original implementation gets from REG_NOTBOL.
func findFirstMatchFrom(re *regexp.Regexp, s string, from int) []int {
	if from <= 0 {
		return re.FindStringSubmatchIndex(s)
	}
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] >= from {
			return loc
		}
	}
	return nil
}

// Rewrite evaluates every applicable rule against input in order and
// returns the final rewritten string, or one of *AbortError /
// *DeadmanError describing why no result was produced (spec §4.2).
//
// ctx is accepted for API conformity with the rest of the ambient
// stack (spec §9); Rewrite is a pure, non-blocking computation bounded
// by its step budget and does not itself check ctx.Done — a caller
// wanting to bound wall-clock time independently of the deadman should
// not invoke Rewrite at all once ctx is done.
func (e *Engine) Rewrite(ctx context.Context, input string, mode domain.Mode, fam domain.Family, fd domain.FormatDescriptor) (string, error) {
	_ = ctx

	current := input
	steps := e.deadman
	badFlags := badFlagsFor(mode, fam)

	e.logger.Decide(DecisionEvent{Kind: "input", Text: current})

	ruleList := e.rules.Load()
	if ruleList == nil {
		e.logger.Decide(DecisionEvent{Kind: "done", Text: current})
		e.record(domain.OutcomeRewritten, e.deadman-steps)
		return current, nil
	}

	i := 0
	for i < len(ruleList.Rules) {
		rule := ruleList.Rules[i]
		if rule.Flags&badFlags != 0 {
			i++
			continue
		}

		wasMatch := false
		isRepeat := false

		for {
			if steps <= 0 {
				return e.deadmanFail(input, current)
			}
			steps--

			var loc []int
			var matched bool
			if rule.Flags&FlagInverse != 0 {
				matched = rule.Regex.FindStringIndex(current) == nil
			} else {
				loc = rule.Regex.FindStringSubmatchIndex(current)
				matched = loc != nil
				// A plain 'g' (global without sedg) repeat only counts
				// if the match begins at position 0 of the (possibly
				// just-rewritten) current string; the rule's very first
				// application is an ordinary unanchored search. This is
				// the defining, intentionally-surprising behavior of
				// spec.md §8 scenario 2 — preserve it as observed.
				if matched && isRepeat && rule.Flags&(FlagGlobal|FlagSedg) == FlagGlobal && loc[0] != 0 {
					matched = false
				}
			}
			isRepeat = true
			if !matched {
				break
			}
			wasMatch = true

			if rule.Flags&FlagAbort != 0 {
				msg := ""
				if rule.Pattern != "" {
					msg = renderPattern(rule.Pattern, current, loc, e.macro)
				}
				e.logger.Decide(DecisionEvent{Kind: "abort", RuleIndex: rule.Index, Text: msg})
				e.record(domain.OutcomeAborted, e.deadman-steps)
				return "", &AbortError{RuleIndex: rule.Index, Message: msg}
			}

			if rule.Flags&FlagRewrite != 0 {
				newStr, ggoffset := rewriteOnce(rule.Pattern, current, loc, e.macro)

				if rule.Flags&FlagSedg != 0 {
					offset := ggoffset
					for offset < len(newStr) {
						if steps <= 0 {
							return e.deadmanFail(input, newStr)
						}
						steps--
						nextLoc := findFirstMatchFrom(rule.Regex, newStr, offset)
						if nextLoc == nil {
							break
						}
						newStr, offset = rewriteOnce(rule.Pattern, newStr, nextLoc, e.macro)
					}
				}

				if rule.Flags&FlagHasFile != 0 {
					ok, reason := e.validator.Validate(newStr, mode, fd)
					if !ok {
						e.logger.Decide(DecisionEvent{Kind: "ignored", RuleIndex: rule.Index, Text: newStr, Detail: reason})
						wasMatch = false
						break
					}
				}

				current = newStr
				e.logger.Decide(DecisionEvent{Kind: "rewrite", RuleIndex: rule.Index, Text: current})
			} else if rule.Flags&FlagHasFile != 0 {
				ok, reason := e.validator.Validate(current, mode, fd)
				if !ok {
					e.logger.Decide(DecisionEvent{Kind: "notexit", RuleIndex: rule.Index, Detail: reason})
					wasMatch = false
					break
				}
			}

			if rule.Flags&(FlagGlobal|FlagSedg) != FlagGlobal {
				break
			}
			// Plain global: loop back to the top, where the
			// anchor-on-repeat rule above takes over.
		}

		if !wasMatch {
			i++
			continue
		}

		if rule.Flags&(FlagExit|FlagHasFile) != 0 {
			e.logger.Decide(DecisionEvent{Kind: "exit", RuleIndex: rule.Index})
			e.record(domain.OutcomeRewritten, e.deadman-steps)
			return current, nil
		}
		if rule.Flags&FlagRestart != 0 {
			e.logger.Decide(DecisionEvent{Kind: "restart", RuleIndex: rule.Index})
			i = 0
			continue
		}
		i++
	}

	e.logger.Decide(DecisionEvent{Kind: "done", Text: current})
	e.record(domain.OutcomeRewritten, e.deadman-steps)
	return current, nil
}

func (e *Engine) deadmanFail(input, last string) (string, error) {
	e.logger.DeadmanFailed(input, last, e.deadman)
	e.record(domain.OutcomeDeadman, e.deadman)
	return "", &DeadmanError{Input: input, Last: last, Steps: e.deadman}
}

func (e *Engine) record(outcome domain.Outcome, steps int) {
	if e.metrics != nil {
		e.metrics.ObserveRewrite(outcome, steps)
	}
}

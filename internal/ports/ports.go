// Package ports declares the external contracts the rewrite engine
// consumes but does not implement itself: the filename validator and the
// single-character macro callback described in spec §4.4. The decision
// logger the engine reports rule outcomes through is rules.Logger.
package ports

import "tftpremap/internal/domain"

// Validator reports whether a candidate filename resolves to a file that
// may actually be served/stored for the given transfer mode. When ok is
// false, reason is a diagnostic describing why the candidate was
// rejected; it is never treated as fatal by the engine, only as "this
// rule did not match".
type Validator interface {
	Validate(candidate string, mode domain.Mode, fd domain.FormatDescriptor) (ok bool, reason string)
}

// MacroExpander answers a single-character backslash-escape that the
// substitution grammar does not itself interpret (i.e. any escape other
// than \0-\9, \L, \U, \E). It returns the expansion bytes and whether the
// macro is recognized; an unrecognized macro falls back to emitting the
// literal character, per spec §4.3.
type MacroExpander interface {
	Expand(c byte) (expansion []byte, ok bool)
}

// ValidatorFunc adapts a plain function to a Validator.
type ValidatorFunc func(candidate string, mode domain.Mode, fd domain.FormatDescriptor) (bool, string)

func (f ValidatorFunc) Validate(candidate string, mode domain.Mode, fd domain.FormatDescriptor) (bool, string) {
	return f(candidate, mode, fd)
}

// MacroExpanderFunc adapts a plain function to a MacroExpander.
type MacroExpanderFunc func(c byte) ([]byte, bool)

func (f MacroExpanderFunc) Expand(c byte) ([]byte, bool) {
	return f(c)
}

// NoopValidator accepts every candidate; it is the Engine's default
// validator when none is supplied through rules.WithValidator.
var NoopValidator = ValidatorFunc(func(string, domain.Mode, domain.FormatDescriptor) (bool, string) { return true, "" })

// NoopMacroExpander declines every macro, causing the substitution
// grammar to fall back to literal emission for every \x escape.
var NoopMacroExpander = MacroExpanderFunc(func(byte) ([]byte, bool) { return nil, false })

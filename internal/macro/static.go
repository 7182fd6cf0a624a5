// Package macro provides the default ports.MacroExpander: a small fixed
// table of single-character expansions supplied at construction time.
package macro

import (
	"fmt"
	"time"
)

// StaticExpander implements ports.MacroExpander with a fixed table
// captured at construction time, the concrete stand-in for the
// caller-supplied macro callback spec.md's §4.4 describes as living in
// the (out-of-scope) transfer server.
type StaticExpander struct {
	ClientAddr string
	Hostname   string
	PID        int
	now        func() time.Time
}

// NewStaticExpander builds a StaticExpander whose \t macro reports the
// current time at expansion time.
func NewStaticExpander(clientAddr, hostname string, pid int) *StaticExpander {
	return &StaticExpander{
		ClientAddr: clientAddr,
		Hostname:   hostname,
		PID:        pid,
		now:        time.Now,
	}
}

// Expand answers \c (client address), \h (local hostname), \p (process
// id), and \t (unix timestamp); any other character declines, falling
// back to literal emission in the substitution grammar.
func (s *StaticExpander) Expand(c byte) ([]byte, bool) {
	switch c {
	case 'c':
		return []byte(s.ClientAddr), true
	case 'h':
		return []byte(s.Hostname), true
	case 'p':
		return []byte(fmt.Sprintf("%d", s.PID)), true
	case 't':
		return []byte(fmt.Sprintf("%d", s.now().Unix())), true
	}
	return nil, false
}

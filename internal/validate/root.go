// Package validate provides the default ports.Validator: a filesystem
// existence check confined to a configured root directory.
package validate

import (
	"os"
	"path/filepath"

	"tftpremap/internal/domain"
)

// RootValidator implements ports.Validator by resolving a candidate
// filename under Root and stat-ing it. It is the concrete realization of
// spec.md's Validator GLOSSARY entry ("resolves to a file that may
// actually be served/stored") for a module with no TFTP server attached
// to ask instead.
type RootValidator struct {
	Root string
}

// NewRootValidator builds a RootValidator rooted at root.
func NewRootValidator(root string) *RootValidator {
	return &RootValidator{Root: root}
}

// Validate reports whether candidate resolves, under Root, to an
// existing path that is not a directory; for a write request a path that
// does not exist yet is also accepted. ".." components are collapsed
// against "/" before the join, so "../../x" resolves to Root/x instead
// of escaping Root. This is the same existence-probe idiom the teacher's
// own firstExisting helper uses, extended with root confinement.
func (v *RootValidator) Validate(candidate string, mode domain.Mode, fd domain.FormatDescriptor) (bool, string) {
	_ = fd

	clean := filepath.Clean("/" + candidate)
	full := filepath.Join(v.Root, clean)
	if !withinRoot(v.Root, full) {
		return false, "candidate escapes root directory"
	}

	info, err := os.Stat(full)
	if err != nil {
		if mode == domain.ModeWrite && os.IsNotExist(err) {
			// A write target need not pre-exist.
			return true, ""
		}
		return false, err.Error()
	}
	if info.IsDir() {
		return false, "candidate is a directory"
	}
	return true, ""
}

func withinRoot(root, full string) bool {
	rel, err := filepath.Rel(root, full)
	if err != nil {
		return false
	}
	return rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 2 && rel[:2] == ".." &&
		(len(rel) == 2 || rel[2] == os.PathSeparator)
}

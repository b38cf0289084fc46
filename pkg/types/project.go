package types

import (
	"fmt"
	"strings"
)

// Mode is the kind of a Woolly project.
type Mode string

// Project modes.
const (
	ModeFeature Mode = "feature"
	ModeScript  Mode = "script"
	ModeDebug   Mode = "debug"
	ModeReview  Mode = "review"
	ModeVibe    Mode = "vibe"
)

// Modes lists every project mode.
var Modes = []Mode{ModeFeature, ModeScript, ModeDebug, ModeReview, ModeVibe}

// ParseMode returns the mode named s.
// Returns ErrInvalidMode if s is not a known mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// ProjectRef identifies a project by mode and name.
type ProjectRef struct {
	Mode Mode   `json:"mode"`
	Name string `json:"name"`
}

// ParseProjectRef parses "mode/name".
func ParseProjectRef(s string) (ProjectRef, error) {
	mode, name, ok := strings.Cut(s, "/")
	if !ok {
		return ProjectRef{}, fmt.Errorf("%w: %q (want mode/name)", ErrInvalidName, s)
	}
	m, err := ParseMode(mode)
	if err != nil {
		return ProjectRef{}, err
	}
	ref := ProjectRef{Mode: m, Name: name}
	if err := ref.Validate(); err != nil {
		return ProjectRef{}, err
	}
	return ref, nil
}

// Validate checks that the mode is known and the name is a single,
// non-empty path segment.
func (r ProjectRef) Validate() error {
	if _, err := ParseMode(string(r.Mode)); err != nil {
		return err
	}
	if !ValidName(r.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, r.Name)
	}
	return nil
}

// String returns "mode/name".
func (r ProjectRef) String() string {
	return string(r.Mode) + "/" + r.Name
}

// ValidName reports whether name can be used as a project directory name.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

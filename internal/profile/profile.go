package profile

import (
	"fmt"
	"strings"
)

// Profile selects the behavior of the validator. The profiles reproduce the
// historical validator revisions so older document sets can still be checked
// the way they were when they were current.
type Profile struct {
	Name string
	// Banner is printed above the text report; %s is the expected version.
	Banner string
	// RootFirstVersion looks for current_version among the root's children
	// before searching the whole tree.
	RootFirstVersion bool
	// TrimVersion compares the version text with surrounding whitespace removed.
	TrimVersion bool
	// DetailedVersion distinguishes a missing version from a wrong one and
	// echoes the value found.
	DetailedVersion bool
	// Glob is the default input pattern; %s is the expected version.
	Glob string
}

// Names lists the built-in profiles.
func Names() []string {
	return []string{"current", "legacy"}
}

// Get returns the built-in profile for the given name.
func Get(name string) (*Profile, error) {
	switch name {
	case "current", "":
		return current(), nil
	case "legacy":
		return legacy(), nil
	default:
		return nil, fmt.Errorf("unknown profile %q: valid profiles are %s", name, strings.Join(Names(), ", "))
	}
}

// BannerFor formats the report banner for the expected version.
func (p *Profile) BannerFor(expected string) string {
	return fmt.Sprintf(p.Banner, expected)
}

// GlobFor formats the default input pattern for the expected version.
func (p *Profile) GlobFor(expected string) string {
	if !strings.Contains(p.Glob, "%s") {
		return p.Glob
	}
	return fmt.Sprintf(p.Glob, expected)
}

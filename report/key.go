package report

import (
	"sort"
	"strings"

	"stempeluhr/timesheet"
)

// Key groups report rows by accounting identity. Equality is structural:
// two stored profiles with the same name and the same attribute mapping
// collapse into one key, regardless of their database ids. The zero Key is
// the distinguished "unassigned" grouping for tasks without a resolvable
// accounting link.
type Key struct {
	profile string
	attrs   string
	present bool
}

// Unassigned is the null key for tasks without an accounting profile.
var Unassigned = Key{}

const (
	attrPairSep  = "\x1e"
	attrFieldSep = "\x1f"
)

// KeyFor derives the structural key for a profile. Attribute pairs are
// canonicalized by name so map iteration order never leaks into the key.
func KeyFor(profile timesheet.Profile) Key {
	names := make([]string, 0, len(profile.Attributes))
	for name := range profile.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	var canonical strings.Builder
	for i, name := range names {
		if i > 0 {
			canonical.WriteString(attrPairSep)
		}
		canonical.WriteString(name)
		canonical.WriteString(attrFieldSep)
		canonical.WriteString(profile.Attributes[name])
	}

	return Key{profile: profile.Name, attrs: canonical.String(), present: true}
}

// ResolveKey maps a task to its aggregation key. A missing or dangling
// accounting reference is not an error; it folds into Unassigned.
func ResolveKey(task timesheet.Task, profilesByID map[int64]timesheet.Profile) Key {
	if task.AccountingID == 0 {
		return Unassigned
	}
	profile, ok := profilesByID[task.AccountingID]
	if !ok {
		return Unassigned
	}
	return KeyFor(profile)
}

// Assigned reports whether the key carries a real accounting profile.
func (k Key) Assigned() bool {
	return k.present
}

// ProfileName returns the accounting profile name, or "" for Unassigned.
func (k Key) ProfileName() string {
	return k.profile
}

// Package diff computes the key-set difference between two job mappings.
package diff

import (
	"sort"

	"github.com/ganesh070723/job-change-detector/internal/models"
)

// Changes is the per-cycle report of additions and removals. Both
// slices are sorted ascending by key.
type Changes struct {
	Added   []string
	Removed []string
}

// Empty reports whether the cycle detected no change.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Diff compares the key sets of previous and current. URL values play
// no part in the comparison; a posting whose key changed in any way is
// one removal plus one addition.
func Diff(previous, current models.Jobs) Changes {
	var changes Changes
	for key := range current {
		if _, ok := previous[key]; !ok {
			changes.Added = append(changes.Added, key)
		}
	}
	for key := range previous {
		if _, ok := current[key]; !ok {
			changes.Removed = append(changes.Removed, key)
		}
	}
	sort.Strings(changes.Added)
	sort.Strings(changes.Removed)
	return changes
}

package notify

import (
	"fmt"
	"strings"

	"github.com/ganesh070723/job-change-detector/internal/diff"
	"github.com/ganesh070723/job-change-detector/internal/models"
)

// Subject formats the notification subject line for a region.
func Subject(region string) string {
	return fmt.Sprintf("[Job Watch] %s update", region)
}

// RenderReport formats a change report as plain text. Added keys are
// resolved against the current mapping, removed keys against the
// previous one.
func RenderReport(changes diff.Changes, previous, current models.Jobs) string {
	var lines []string
	if len(changes.Added) > 0 {
		lines = append(lines, "New:")
		for _, key := range changes.Added {
			lines = append(lines, fmt.Sprintf("• %s (%s)", key, current[key]))
		}
	}
	if len(changes.Removed) > 0 {
		lines = append(lines, "Removed:")
		for _, key := range changes.Removed {
			lines = append(lines, fmt.Sprintf("• %s (%s)", key, previous[key]))
		}
	}
	return strings.Join(lines, "\n")
}

package status

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// FileFormatter defines how file outcomes and progress should be formatted
type FileFormatter interface {
	// FormatFileOperation formats a per-file status line
	FormatFileOperation(path string, status FileStatus, edits int) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatSummary formats the final per-status count summary
	FormatSummary(counts map[FileStatus]int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

func statusColor(status FileStatus) *color.Color {
	switch status {
	case StatusUpdated:
		return color.New(color.FgGreen)
	case StatusWouldUpdate:
		return color.New(color.FgBlue)
	case StatusAlreadyApplied:
		return color.New(color.FgCyan)
	case StatusNoChange:
		return color.New(color.Faint)
	case StatusMissing:
		return color.New(color.FgYellow)
	case StatusFailed:
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

// FormatFileOperation formats a per-file status line
func (f *DefaultFileFormatter) FormatFileOperation(path string, status FileStatus, edits int) string {
	label := statusColor(status).Sprint(status.String())
	switch status {
	case StatusUpdated:
		return fmt.Sprintf("✨ %s %s (%d edits)", label, path, edits)
	case StatusWouldUpdate:
		return fmt.Sprintf("🔍 %s %s (%d edits)", label, path, edits)
	case StatusAlreadyApplied:
		return fmt.Sprintf("⏭️  %s %s", label, path)
	case StatusMissing:
		return fmt.Sprintf("❓ %s %s", label, path)
	case StatusFailed:
		return fmt.Sprintf("❌ %s %s", label, path)
	default:
		return fmt.Sprintf("👍 %s %s", label, path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatSummary formats the final count summary, stable by status order
func (f *DefaultFileFormatter) FormatSummary(counts map[FileStatus]int) string {
	statuses := make([]FileStatus, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		parts = append(parts, fmt.Sprintf("%d %s", counts[s], s.String()))
	}
	if len(parts) == 0 {
		return "✅ Summary: no files processed"
	}
	return "✅ Summary: " + strings.Join(parts, ", ")
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

package status

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about rewrite progress
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogFileOutcome logs a file outcome with appropriate prefix and formatting
func (u *UserLogger) LogFileOutcome(info FileInfo) {
	var prefix, action string
	var printer *pterm.PrefixPrinter
	switch info.Status {
	case StatusUpdated:
		prefix = "✨"
		action = "Updated"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: prefix})
	case StatusWouldUpdate:
		prefix = "🔍"
		action = "Would update"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: prefix})
	case StatusAlreadyApplied:
		prefix = "⏭️"
		action = "Already applied"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: prefix})
	case StatusNoChange:
		prefix = "👍"
		action = "No change"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: prefix})
	case StatusMissing:
		prefix = "❓"
		action = "Missing"
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: prefix})
	default:
		prefix = "❌"
		action = "Failed"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: prefix})
	}

	msg := fmt.Sprintf("%s %s", action, info.Path)
	if info.Edits > 0 {
		msg += fmt.Sprintf(" (%d edits)", info.Edits)
	}
	printer.Println(msg)

	for _, warn := range info.Warnings {
		pterm.Warning.Println(warn)
	}
	if info.Error != nil {
		pterm.Error.Println(info.Error)
	}

	u.log.Debug().
		Str("path", info.Path).
		Str("status", info.Status.String()).
		Int("edits", info.Edits).
		Msg("file outcome")
}

// 📝 LogSummary logs the final per-status counts
func (u *UserLogger) LogSummary(counts map[FileStatus]int) {
	printer := pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"})
	printer.Println(NewDefaultFileFormatter().FormatSummary(counts))
}

// 📝 LogValidation logs a validation result
func (u *UserLogger) LogValidation(ok bool, msg string, err error) {
	if ok {
		pterm.Success.Println(msg)
		return
	}
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("%s: %v", msg, err))
		u.log.Error().Err(err).Msg(msg)
		return
	}
	pterm.Error.Println(msg)
}

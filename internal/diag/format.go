package diag

import (
	"fmt"
	"sort"
	"strings"

	"tarn/internal/names"
)

// FormatDiagnostics renders diagnostics into a stable, one-line-per-entry
// representation suitable for golden files and CLI short output. Entries
// are sorted deterministically; the result is empty when nothing remains.
func FormatDiagnostics(diags []*Diagnostic) string {
	return formatDiagnostics(diags, false)
}

// FormatDetailed is FormatDiagnostics with each diagnostic's Detail dump
// appended on indented continuation lines.
func FormatDetailed(diags []*Diagnostic) string {
	return formatDiagnostics(diags, true)
}

func formatDiagnostics(diags []*Diagnostic, withDetail bool) string {
	rendered := make([]*Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d != nil {
			rendered = append(rendered, d)
		}
	}
	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if c := names.Compare(di.Name, dj.Name); c != 0 {
			return c < 0
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		if d.Name.IsZero() {
			fmt.Fprintf(&b, "%s %s %s", severityLabel(d.Severity), d.Code.ID(), sanitizeMessage(d.Message))
		} else {
			fmt.Fprintf(&b, "%s %s %s: %s", severityLabel(d.Severity), d.Code.ID(), d.Name, sanitizeMessage(d.Message))
		}
		if withDetail && d.Detail != "" {
			b.WriteString("\n    ")
			b.WriteString(sanitizeMessage(d.Detail))
		}
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevBug:
		return "bug"
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

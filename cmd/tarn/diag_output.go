package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tarn/internal/diag"
)

var (
	bugColor   = color.New(color.FgMagenta, color.Bold)
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	infoColor  = color.New(color.FgCyan)
)

// printDiagnostics writes one line per finding in the bag's order, so
// callers should sort the bag first.
func printDiagnostics(out io.Writer, diags []*diag.Diagnostic, useColor bool) {
	for _, d := range diags {
		if d == nil {
			continue
		}
		label, labelColor := severityAppearance(d.Severity)
		if useColor {
			label = labelColor.Sprint(label)
		}
		if d.Name.IsZero() {
			fmt.Fprintf(out, "%s %s %s\n", label, d.Code.ID(), d.Message)
		} else {
			fmt.Fprintf(out, "%s %s %s: %s\n", label, d.Code.ID(), d.Name, d.Message)
		}
	}
}

func severityAppearance(sev diag.Severity) (string, *color.Color) {
	switch sev {
	case diag.SevBug:
		return "bug", bugColor
	case diag.SevError:
		return "error", errorColor
	case diag.SevWarning:
		return "warning", warnColor
	default:
		return "info", infoColor
	}
}

type diagnosticPayload struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Name     string `json:"name,omitempty"`
	Message  string `json:"message"`
	Detail   string `json:"detail,omitempty"`
}

// printDiagnosticsJSON renders the bag as a JSON array for tooling.
func printDiagnosticsJSON(out io.Writer, diags []*diag.Diagnostic) error {
	payload := make([]diagnosticPayload, 0, len(diags))
	for _, d := range diags {
		if d == nil {
			continue
		}
		label, _ := severityAppearance(d.Severity)
		entry := diagnosticPayload{
			Severity: label,
			Code:     d.Code.ID(),
			Message:  d.Message,
			Detail:   d.Detail,
		}
		if !d.Name.IsZero() {
			entry.Name = d.Name.String()
		}
		payload = append(payload, entry)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/goccy/go-yaml"
	"github.com/voicelab/pipdoctor/internal/printer"
	"github.com/voicelab/pipdoctor/internal/pyenv"
)

// OutputFormat controls how a report is rendered.
type OutputFormat string

const (
	// FormatJSON renders the flat name-to-version mapping as indented JSON.
	FormatJSON OutputFormat = "json"

	// FormatYAML renders the flat name-to-version mapping as YAML.
	FormatYAML OutputFormat = "yaml"

	// FormatText renders a human-readable summary.
	FormatText OutputFormat = "text"

	// FormatTable renders a table of packages and versions.
	FormatTable OutputFormat = "table"
)

// ParseOutputFormat converts a string to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "json":
		return FormatJSON, nil
	case "yaml":
		return FormatYAML, nil
	case "text":
		return FormatText, nil
	case "table":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected json, yaml, text, or table)", s)
	}
}

// Machine reports whether the format is meant for machine consumption.
// Machine formats must not be polluted with spinners or styled text.
func (f OutputFormat) Machine() bool {
	return f == FormatJSON || f == FormatYAML
}

// Formatter renders reports in a fixed output format.
type Formatter struct {
	format OutputFormat
}

// NewFormatter creates a Formatter for the given format.
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{format: format}
}

// Format renders the report.
func (f *Formatter) Format(r *Report) (string, error) {
	switch f.format {
	case FormatYAML:
		return f.formatYAML(r)
	case FormatText:
		return f.formatText(r), nil
	case FormatTable:
		return f.formatTable(r), nil
	default:
		return f.formatJSON(r)
	}
}

// formatJSON renders the flat mapping with two-space indentation, keys in
// report order. Entries are marshaled one by one because encoding/json
// does not preserve map ordering.
func (f *Formatter) formatJSON(r *Report) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, entry := range r.Entries {
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return "", fmt.Errorf("failed to marshal package name %q: %w", entry.Name, err)
		}
		value, err := json.Marshal(entry.Version)
		if err != nil {
			return "", fmt.Errorf("failed to marshal version for %q: %w", entry.Name, err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
		if i < len(r.Entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}")
	return buf.String(), nil
}

// formatYAML renders the flat mapping as YAML, keys in report order.
func (f *Formatter) formatYAML(r *Report) (string, error) {
	mapping := make(yaml.MapSlice, len(r.Entries))
	for i, entry := range r.Entries {
		mapping[i] = yaml.MapItem{Key: entry.Name, Value: entry.Version}
	}
	data, err := yaml.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to YAML: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// formatText renders a human-readable summary in the style of the other
// pipdoctor console output.
func (f *Formatter) formatText(r *Report) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(printer.Info("Python Package Versions"))
	sb.WriteString("\n")
	sb.WriteString(printer.Faint(strings.Repeat("-", 50)))
	sb.WriteString("\n")

	for _, entry := range r.Entries {
		glyph := printer.GlyphInstalled()
		detail := ""
		switch {
		case !entry.Installed():
			glyph = printer.GlyphMissing()
		case entry.PinStatus == PinMismatch:
			glyph = printer.GlyphMismatch()
			detail = printer.Warning(fmt.Sprintf(" (pinned %s)", entry.Pin))
		case entry.Source == pyenv.SourceImport:
			detail = printer.Faint(" (via import)")
		}
		fmt.Fprintf(&sb, "  %s %-14s %s%s\n", glyph, entry.Name, entry.Version, detail)
	}

	sb.WriteString(printer.Faint(strings.Repeat("-", 50)))
	sb.WriteString("\n")
	sb.WriteString(f.formatSummary(r))
	sb.WriteString("\n")

	return sb.String()
}

// formatSummary builds the one-line summary at the bottom of text output.
func (f *Formatter) formatSummary(r *Report) string {
	installed := len(r.Entries) - r.MissingCount()
	summary := fmt.Sprintf("%d of %d packages installed", installed, len(r.Entries))

	switch {
	case r.MissingCount() > 0:
		summary = printer.Warning(summary)
	default:
		summary = printer.Success(summary)
	}

	if r.Pinned() && r.MismatchCount() > 0 {
		summary += printer.Warning(fmt.Sprintf(", %d pin check(s) failed", r.MismatchCount()))
	}

	return summary
}

// formatTable renders the report as a static table.
func (f *Formatter) formatTable(r *Report) string {
	columns := []table.Column{
		{Title: "PACKAGE", Width: 16},
		{Title: "VERSION", Width: 18},
		{Title: "SOURCE", Width: 8},
	}
	if r.Pinned() {
		columns = append(columns,
			table.Column{Title: "PIN", Width: 12},
			table.Column{Title: "STATUS", Width: 10},
		)
	}

	rows := make([]table.Row, len(r.Entries))
	for i, entry := range r.Entries {
		row := table.Row{entry.Name, entry.Version, string(entry.Source)}
		if r.Pinned() {
			row = append(row, entry.Pin, string(entry.PinStatus))
		}
		rows[i] = row
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)

	styles := table.DefaultStyles()
	styles.Selected = styles.Cell
	tbl.SetStyles(styles)

	return tbl.View()
}

// Package presentation formats command output.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	json   bool
}

// NewFormatter creates a new formatter. With asJSON set, output is
// indented JSON; otherwise an aligned table.
func NewFormatter(writer io.Writer, asJSON bool) *Formatter {
	return &Formatter{
		writer: writer,
		json:   asJSON,
	}
}

// FormatViews formats the view catalog
func (f *Formatter) FormatViews(views []ViewDTO) error {
	if f.json {
		return f.encode(views)
	}
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tID\tLABEL\tSHORTCUT\tDESCRIPTION")
	for _, v := range views {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.Ordinal, v.ID, v.Label, v.Shortcut, v.Description)
	}
	return tw.Flush()
}

// FormatHistory formats location history, newest first
func (f *Formatter) FormatHistory(entries []LocationDTO) error {
	if f.json {
		return f.encode(entries)
	}
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTAB\tUPDATED\tURL")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Tab, e.UpdatedAt.Local().Format("2006-01-02 15:04:05"), e.URL)
	}
	return tw.Flush()
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

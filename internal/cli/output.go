package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func formatTime(unix int64) string {
	if unix == 0 {
		return "-"
	}
	return time.Unix(unix, 0).UTC().Format(time.DateTime)
}

// statusColor picks the colour for a job or run status.
func statusColor(status string) *color.Color {
	switch status {
	case "succeeded", "completed", "processed":
		return green
	case "failed", "expired", "error":
		return red
	case "cancelled", "cancelling", "incomplete":
		return yellow
	}
	return cyan
}

func printStatus(w io.Writer, label, status string) {
	fmt.Fprintf(w, "%s ", label)
	statusColor(status).Fprintln(w, status)
}

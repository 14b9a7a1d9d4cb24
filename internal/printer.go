package internal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	markStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// markSecret highlights a matched substring for the annotated diff.
func markSecret(s string) string {
	return markStyle.Render(s)
}

const findingSeparator = "~~~~~~~~~~~~~~~~~~~~~"

// PrintFinding renders one Finding to w, either as a single JSON line or as
// a colored human-readable block.
func PrintFinding(w io.Writer, f Finding, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(f)
	}

	fmt.Fprintln(w, findingSeparator)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Reason:"), f.Reason)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Date:"), f.Date)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Hash:"), f.CommitHash)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Filepath:"), f.Path)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Branch:"), f.Branch)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Commit:"), f.Commit)
	fmt.Fprintln(w, f.PrintDiff)
	fmt.Fprintln(w, findingSeparator)
	return nil
}

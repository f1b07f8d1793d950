package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tyemirov/ktool/internal/runner"
)

const (
	documentTitle = "keytool run"
	codeFence     = "```"
)

// Markdown renders summary as a Markdown document: an overview table
// followed by the command line and output of every step that ran.
func Markdown(summary runner.Summary) []byte {
	var builder strings.Builder
	builder.WriteString("# " + documentTitle + "\n\n")
	fmt.Fprintf(&builder, "%d executed, %d skipped, %d failed in %s.\n\n",
		summary.Count(runner.StatusExecuted),
		summary.Count(runner.StatusSkipped),
		summary.Count(runner.StatusFailed),
		summary.Duration.Round(time.Millisecond),
	)

	builder.WriteString("| # | Request | Command | Status | Exit code |\n")
	builder.WriteString("|---|---|---|---|---|\n")
	for index, outcome := range summary.Outcomes {
		exitCode := "-"
		status := string(outcome.Status)
		if outcome.Status == runner.StatusSkipped {
			status += " (" + outcome.Reason + ")"
		} else {
			exitCode = fmt.Sprintf("%d", outcome.Result.ExitCode)
		}
		fmt.Fprintf(&builder, "| %d | %s | %s | %s | %s |\n",
			index+1, tableCell(outcome.Name), tableCell(string(outcome.Subcommand)), tableCell(status), exitCode)
	}

	for index, outcome := range summary.Outcomes {
		if outcome.Status == runner.StatusSkipped {
			continue
		}
		fmt.Fprintf(&builder, "\n## %d. %s\n\n", index+1, outcome.Name)
		writeFenced(&builder, "shell", outcome.Result.CommandLine.String())
		output := strings.TrimRight(outcome.Result.Output(), "\n")
		if output != "" {
			builder.WriteString("\n")
			writeFenced(&builder, "text", output)
		}
	}
	return []byte(builder.String())
}

// HTML renders summary as a standalone HTML document.
func HTML(summary runner.Summary) ([]byte, error) {
	body, err := ToHTML(Markdown(summary))
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buildHTMLDocument(documentTitle, body), nil
}

// Write stores the report at path. A .html or .htm extension selects HTML, anything else Markdown.
func Write(path string, summary runner.Summary) error {
	content := Markdown(summary)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		rendered, err := HTML(summary)
		if err != nil {
			return err
		}
		content = rendered
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func tableCell(value string) string {
	return strings.ReplaceAll(strings.ReplaceAll(value, "|", "\\|"), "\n", " ")
}

// writeFenced emits a fenced block long enough not to be closed by the content.
func writeFenced(builder *strings.Builder, language string, content string) {
	fence := codeFence
	for strings.Contains(content, fence) {
		fence += "`"
	}
	builder.WriteString(fence + language + "\n")
	builder.WriteString(content)
	builder.WriteString("\n" + fence + "\n")
}

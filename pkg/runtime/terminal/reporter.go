package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorWarning = lipgloss.Color("#FFD700")
	colorNotice  = lipgloss.Color("#00BFFF")
)

// Reporter prints one-line user messages. Styling is dropped when the writer is not a terminal.
type Reporter struct {
	writer  io.Writer
	warning lipgloss.Style
	notice  lipgloss.Style
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	r := lipgloss.NewRenderer(writer)
	return &Reporter{
		writer:  writer,
		warning: r.NewStyle().Foreground(colorWarning).Bold(true),
		notice:  r.NewStyle().Foreground(colorNotice),
	}
}

func (c *Reporter) Warn(msg string) {
	fmt.Fprintln(c.writer, c.warning.Render("Warning: "+msg))
}

func (c *Reporter) Notice(msg string) {
	fmt.Fprintln(c.writer, c.notice.Render(msg))
}

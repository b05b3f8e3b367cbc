package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
)

type TableConfig struct {
	MinWidth int
	MaxWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		MinWidth: 6,
		MaxWidth: 40,
	}
}

// Reporter prints tables to the console as fixed-width text.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type tableView struct {
	Title  string
	Header []string
	Rows   [][]string
}

const tableTemplate = `{{if .Title}}
=== {{.Title}} ===
{{end}}{{separator}}
{{formatRow .Header}}
{{separator}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator}}
`

// Handle prints t under an optional title. The index, if any, is the first column.
func (c *Reporter) Handle(title string, t *domain.Table) error {
	view := toView(title, t)
	widths := c.widths(view)

	funcMap := template.FuncMap{
		"formatRow": func(cells []string) string {
			var sb strings.Builder
			sb.WriteString("|")
			for i, cell := range cells {
				fmt.Fprintf(&sb, " %s |", pad(truncate(cell, widths[i]), widths[i], i > 0))
			}
			return sb.String()
		},
		"separator": func() string {
			var sb strings.Builder
			sb.WriteString("+")
			for _, w := range widths {
				sb.WriteString(strings.Repeat("-", w+2))
				sb.WriteString("+")
			}
			return sb.String()
		},
	}

	tmpl, err := template.New("table").Funcs(funcMap).Parse(tableTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return tmpl.Execute(c.writer, view)
}

func toView(title string, t *domain.Table) tableView {
	view := tableView{Title: title}
	indexed := t.Indexed()
	if indexed {
		view.Header = append(view.Header, t.IndexName())
	}
	cols := t.Columns()
	view.Header = append(view.Header, cols...)

	index := t.Index()
	for i := 0; i < t.Len(); i++ {
		row := make([]string, 0, len(view.Header))
		if indexed {
			row = append(row, index[i])
		}
		for _, c := range cols {
			row = append(row, FormatValue(t.Value(i, c)))
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

func (c *Reporter) widths(view tableView) []int {
	widths := make([]int, len(view.Header))
	for i, h := range view.Header {
		widths[i] = max(c.config.MinWidth, utf8.RuneCountInString(h))
	}
	for _, row := range view.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], c.config.MaxWidth)
	}
	return widths
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "~"
}

func pad(s string, width int, right bool) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

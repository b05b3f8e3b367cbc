package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
	"gopkg.in/yaml.v3"
)

// Format is a tabular output format.
type Format string

const (
	CSV   Format = "csv"
	JSON  Format = "json"
	LaTeX Format = "latex"
	YAML  Format = "yaml"
)

// Formats lists the supported tabular formats.
var Formats = []Format{CSV, JSON, LaTeX, YAML}

// ParseFormat accepts a format name in any case. "tex" is an alias for latex.
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "tex" {
		return LaTeX, nil
	}
	for _, f := range Formats {
		if Format(n) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q, expected one of %v", name, Formats)
}

// Ext is the file extension without the dot.
func (f Format) Ext() string {
	if f == LaTeX {
		return "tex"
	}
	return string(f)
}

// FormatValue renders a cell for text output. Numbers are rounded to six decimals.
func FormatValue(v domain.Value) string {
	if f, ok := v.Float(); ok {
		return strconv.FormatFloat(round6(f), 'f', -1, 64)
	}
	return v.String()
}

func round6(f float64) float64 {
	if math.IsInf(f, 0) {
		return f
	}
	return math.Round(f*1e6) / 1e6
}

// WriteTable encodes t to w. The index, if any, is written as the first field of every row.
func WriteTable(w io.Writer, f Format, t *domain.Table) error {
	switch f {
	case CSV:
		return writeCSV(w, t)
	case JSON:
		return writeJSON(w, t)
	case LaTeX:
		return writeLaTeX(w, t)
	case YAML:
		return writeYAML(w, t)
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}

func header(t *domain.Table) []string {
	var h []string
	if t.Indexed() {
		h = append(h, t.IndexName())
	}
	return append(h, t.Columns()...)
}

func record(t *domain.Table, i int, index []string) []domain.Value {
	var rec []domain.Value
	if t.Indexed() {
		rec = append(rec, domain.Text(index[i]))
	}
	for _, c := range t.Columns() {
		rec = append(rec, t.Value(i, c))
	}
	return rec
}

func writeCSV(w io.Writer, t *domain.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(t)); err != nil {
		return err
	}
	index := t.Index()
	for i := 0; i < t.Len(); i++ {
		rec := record(t, i, index)
		fields := make([]string, len(rec))
		for j, v := range rec {
			if v.IsMissing() {
				continue
			}
			fields[j] = v.String()
		}
		if err := cw.Write(fields); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// orderedRecord marshals to a JSON object that keeps the column order.
type orderedRecord struct {
	keys   []string
	values []domain.Value
}

func (r orderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		v := r.values[i]
		if f, ok := v.Float(); ok && !math.IsInf(f, 0) {
			val, err = json.Marshal(f)
		} else if v.IsMissing() || v.IsNumber() {
			val = []byte("null")
		} else {
			val, err = json.Marshal(v.String())
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(w io.Writer, t *domain.Table) error {
	keys := header(t)
	index := t.Index()
	records := make([]orderedRecord, t.Len())
	for i := range records {
		records[i] = orderedRecord{keys: keys, values: record(t, i, index)}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeYAML(w io.Writer, t *domain.Table) error {
	keys := header(t)
	index := t.Index()
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for i := 0; i < t.Len(); i++ {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for j, v := range record(t, i, index) {
			m.Content = append(m.Content, scalar(keys[j], "!!str"), yamlValue(v))
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func scalar(value, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlValue(v domain.Value) *yaml.Node {
	switch {
	case v.IsMissing():
		return scalar("null", "!!null")
	case v.IsNumber():
		f, _ := v.Float()
		switch {
		case math.IsInf(f, 1):
			return scalar(".inf", "")
		case math.IsInf(f, -1):
			return scalar("-.inf", "")
		}
		return scalar(strconv.FormatFloat(f, 'g', -1, 64), "")
	default:
		return scalar(v.String(), "!!str")
	}
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

func writeLaTeX(w io.Writer, t *domain.Table) error {
	h := header(t)
	align := strings.Repeat("r", len(h))
	if t.Indexed() && len(h) > 0 {
		align = "l" + align[1:]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\\begin{tabular}{%s}\n\\toprule\n", align)
	sb.WriteString(latexRow(h))
	sb.WriteString("\\midrule\n")
	index := t.Index()
	for i := 0; i < t.Len(); i++ {
		rec := record(t, i, index)
		cells := make([]string, len(rec))
		for j, v := range rec {
			cells[j] = FormatValue(v)
		}
		sb.WriteString(latexRow(cells))
	}
	sb.WriteString("\\bottomrule\n\\end{tabular}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func latexRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = latexEscaper.Replace(c)
	}
	return strings.Join(escaped, " & ") + ` \\` + "\n"
}

package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	missingValue valueKind = iota
	numberValue
	textValue
)

// Value is a single table cell. The zero Value is missing.
type Value struct {
	kind valueKind
	num  float64
	text string
}

// Number returns a numeric cell. NaN is stored as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: numberValue, num: f}
}

func Text(s string) Value {
	return Value{kind: textValue, text: s}
}

func Missing() Value {
	return Value{}
}

// ParseNumber coerces a raw report token. Anything that is not a float
// becomes a missing cell.
func ParseNumber(raw string) Value {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Missing()
	}
	return Number(f)
}

func (v Value) IsMissing() bool {
	return v.kind == missingValue
}

func (v Value) IsNumber() bool {
	return v.kind == numberValue
}

// Float returns the numeric content of the cell. Text and missing cells report false.
func (v Value) Float() (float64, bool) {
	if v.kind != numberValue {
		return math.NaN(), false
	}
	return v.num, true
}

func (v Value) String() string {
	switch v.kind {
	case numberValue:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case textValue:
		return v.text
	default:
		return "NaN"
	}
}

// Row is an ordered set of named cells, optionally labelled with an index key.
type Row struct {
	Key    string
	Names  []string
	Values []Value
}

// Set adds a cell to the row or replaces the cell with the same name.
func (r *Row) Set(name string, v Value) {
	for i, n := range r.Names {
		if n == name {
			r.Values[i] = v
			return
		}
	}
	r.Names = append(r.Names, name)
	r.Values = append(r.Values, v)
}

// Get returns the named cell, or a missing Value.
func (r Row) Get(name string) Value {
	for i, n := range r.Names {
		if n == name {
			return r.Values[i]
		}
	}
	return Missing()
}

// Table is a column-ordered, row-ordered dataset keyed by column name.
// Columns keep the order in which they were first seen. An indexed table
// labels every row with a key (e.g. the scenario of a stats report).
//
// AppendRow, Append and SetColumn mutate the table; every other transformation
// returns a new table.
type Table struct {
	indexName string
	index     []string
	columns   []string
	cells     map[string][]Value
	rows      int
}

// NewTable creates an empty table with an implicit row index.
func NewTable() *Table {
	return &Table{cells: make(map[string][]Value)}
}

// NewIndexedTable creates an empty table whose rows are labelled by indexName.
func NewIndexedTable(indexName string) *Table {
	t := NewTable()
	t.indexName = indexName
	return t
}

func (t *Table) IndexName() string {
	return t.indexName
}

func (t *Table) Indexed() bool {
	return t.indexName != ""
}

// Index returns a copy of the row labels. It is nil for tables with an implicit index.
func (t *Table) Index() []string {
	if !t.Indexed() {
		return nil
	}
	return append([]string(nil), t.index...)
}

func (t *Table) Len() int {
	return t.rows
}

func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.cells[name]
	return ok
}

// IsEmpty reports whether the table has no rows or no usable columns.
func (t *Table) IsEmpty() bool {
	return t == nil || t.rows == 0 || len(t.columns) == 0
}

// Value returns the cell at row i of column name, or a missing Value.
func (t *Table) Value(i int, name string) Value {
	col, ok := t.cells[name]
	if !ok || i < 0 || i >= len(col) {
		return Missing()
	}
	return col[i]
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]Value, bool) {
	col, ok := t.cells[name]
	if !ok {
		return nil, false
	}
	return append([]Value(nil), col...), true
}

// Floats returns the named column as float64s, with NaN for missing or text cells.
// It returns nil when the column does not exist.
func (t *Table) Floats(name string) []float64 {
	col, ok := t.cells[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(col))
	for i, v := range col {
		out[i], _ = v.Float()
	}
	return out
}

// Texts returns the string form of every cell in the named column.
func (t *Table) Texts(name string) []string {
	col, ok := t.cells[name]
	if !ok {
		return nil
	}
	out := make([]string, len(col))
	for i, v := range col {
		out[i] = v.String()
	}
	return out
}

// Row returns row i with cells in column order.
func (t *Table) Row(i int) Row {
	r := Row{
		Names:  t.Columns(),
		Values: make([]Value, len(t.columns)),
	}
	if t.Indexed() {
		r.Key = t.index[i]
	}
	for c, name := range t.columns {
		r.Values[c] = t.cells[name][i]
	}
	return r
}

func (t *Table) addColumn(name string) {
	t.columns = append(t.columns, name)
	t.cells[name] = make([]Value, t.rows)
}

// AppendRow adds a row. Columns the table has not seen yet are added and
// back-filled with missing cells; columns absent from the row are missing.
func (t *Table) AppendRow(r Row) {
	for _, name := range r.Names {
		if !t.HasColumn(name) {
			t.addColumn(name)
		}
	}
	for _, name := range t.columns {
		t.cells[name] = append(t.cells[name], r.Get(name))
	}
	if t.Indexed() {
		t.index = append(t.index, r.Key)
	}
	t.rows++
}

// Append concatenates the rows of other onto t, taking the union of columns.
func (t *Table) Append(other *Table) {
	if other == nil {
		return
	}
	for i := 0; i < other.rows; i++ {
		t.AppendRow(other.Row(i))
	}
	for _, name := range other.columns {
		if !t.HasColumn(name) {
			t.addColumn(name)
		}
	}
}

// SetColumn adds or replaces a column. The number of values must match the row count,
// unless the table has neither rows nor columns yet.
func (t *Table) SetColumn(name string, values []Value) error {
	if len(t.columns) == 0 && t.rows == 0 && !t.Indexed() {
		t.rows = len(values)
	}
	if len(values) != t.rows {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	if !t.HasColumn(name) {
		t.columns = append(t.columns, name)
	}
	t.cells[name] = append([]Value(nil), values...)
	return nil
}

// DeriveColumn sets column name to fn applied to every numeric cell of source.
// Missing source cells stay missing.
func (t *Table) DeriveColumn(name, source string, fn func(float64) float64) error {
	src, ok := t.cells[source]
	if !ok {
		return fmt.Errorf("cannot derive %q: column %q not found", name, source)
	}
	out := make([]Value, len(src))
	for i, v := range src {
		if f, ok := v.Float(); ok {
			out[i] = Number(fn(f))
		}
	}
	return t.SetColumn(name, out)
}

func (t *Table) emptyLike() *Table {
	out := NewTable()
	out.indexName = t.indexName
	return out
}

// pick builds a new table from the given row positions and column names.
func (t *Table) pick(rows []int, cols []string) *Table {
	out := t.emptyLike()
	out.rows = len(rows)
	for _, name := range cols {
		src := t.cells[name]
		col := make([]Value, len(rows))
		for i, r := range rows {
			col[i] = src[r]
		}
		out.columns = append(out.columns, name)
		out.cells[name] = col
	}
	if t.Indexed() {
		out.index = make([]string, len(rows))
		for i, r := range rows {
			out.index[i] = t.index[r]
		}
	}
	return out
}

func (t *Table) allRows() []int {
	rows := make([]int, t.rows)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func (t *Table) Clone() *Table {
	return t.pick(t.allRows(), t.columns)
}

// DropEmptyColumns returns a table without the columns whose cells are all missing.
// On a table without rows every column counts as empty.
func (t *Table) DropEmptyColumns() *Table {
	var keep []string
	for _, name := range t.columns {
		for _, v := range t.cells[name] {
			if !v.IsMissing() {
				keep = append(keep, name)
				break
			}
		}
	}
	return t.pick(t.allRows(), keep)
}

// DropIncompleteRows returns a table without the rows that have at least one missing cell.
func (t *Table) DropIncompleteRows() *Table {
	var keep []int
	for i := 0; i < t.rows; i++ {
		complete := true
		for _, name := range t.columns {
			if t.cells[name][i].IsMissing() {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	return t.pick(keep, t.columns)
}

// Clean drops all-missing columns first and then every row that still has a missing cell.
func (t *Table) Clean() *Table {
	return t.DropEmptyColumns().DropIncompleteRows()
}

// Select returns a table restricted to cols, in the given order.
func (t *Table) Select(cols ...string) (*Table, error) {
	for _, name := range cols {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("column %q not found", name)
		}
	}
	return t.pick(t.allRows(), cols), nil
}

// SortByIndex returns a copy sorted lexicographically by row label. The sort is stable.
func (t *Table) SortByIndex() *Table {
	rows := t.allRows()
	if t.Indexed() {
		sort.SliceStable(rows, func(a, b int) bool {
			return t.index[rows[a]] < t.index[rows[b]]
		})
	}
	return t.pick(rows, t.columns)
}

package reports

import (
	"fmt"
	"strings"
)

// ShapeError reports rows whose field count disagrees with the expected columns.
type ShapeError struct {
	File     string
	Expected int
	Min      int
	Max      int
}

func (e *ShapeError) Error() string {
	var b strings.Builder
	b.WriteString("report data shape not suitable for further processing: ")
	if e.Min == e.Max {
		fmt.Fprintf(&b, "data was supposed to have %d columns, but it actually had %d columns", e.Expected, e.Max)
	} else {
		fmt.Fprintf(&b, "data was supposed to have %d columns, but it actually had between %d to %d columns",
			e.Expected, e.Min, e.Max)
	}
	fmt.Fprintf(&b, " (encountered in %s). This might be caused by glob patterns that include wrong report files "+
		"or incomplete report files due to aborted simulations", e.File)
	return b.String()
}

// ValidateShape checks that every observed row length equals expected.
// An empty list of rows is valid.
func ValidateShape(file string, expected int, lengths []int) error {
	if len(lengths) == 0 {
		return nil
	}

	lo, hi := lengths[0], lengths[0]
	valid := true
	for _, n := range lengths {
		if n != expected {
			valid = false
		}
		lo = min(lo, n)
		hi = max(hi, n)
	}
	if valid {
		return nil
	}
	return &ShapeError{File: file, Expected: expected, Min: lo, Max: hi}
}

// MissingColumnError is returned when a required column is absent after parsing.
type MissingColumnError struct {
	Column string
	Hint   string
}

func (e *MissingColumnError) Error() string {
	msg := fmt.Sprintf("report data missing %q column", e.Column)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

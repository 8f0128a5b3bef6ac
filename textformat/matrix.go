package textformat

import (
	"strings"
)

// MatrixLayout is how the nine numbers of a 3x3 matrix are arranged in text.
type MatrixLayout string

// The supported layouts.
const (
	// LayoutNested is one bracketed list per row, as in [[1, 0, 0], [0, 1, 0], [0, 0, 1]].
	LayoutNested MatrixLayout = "nested"
	// LayoutRows is a single list with rows split by ';' (Matlab) or by line breaks.
	LayoutRows MatrixLayout = "rows"
	// LayoutFlat is nine numbers in row-major order.
	LayoutFlat MatrixLayout = "flat"
	// LayoutR is R's matrix(c(...), nrow=3), column-major unless byrow=TRUE.
	LayoutR MatrixLayout = "r"
	// LayoutYAML is a YAML sequence of three rows.
	LayoutYAML MatrixLayout = "yaml"
)

// MatrixFormat is the notation a matrix was written in.
type MatrixFormat struct {
	Layout MatrixLayout `json:"layout"`
	Prefix string       `json:"prefix"`
	Suffix string       `json:"suffix"`
	// Outer is the bracket around the whole matrix.
	Outer BracketKind `json:"outer"`
	// Row is the notation of a single row; for flat and R layouts it describes the nine numbers.
	Row VectorFormat `json:"row"`
	// RowSeparator is the text between rows.
	RowSeparator string `json:"row_separator"`
	// ColumnMajor lists the numbers column by column.
	ColumnMajor bool `json:"column_major"`
}

// DefaultMatrixFormat is numpy style nested rows, one row per line.
func DefaultMatrixFormat() MatrixFormat {
	return MatrixFormat{
		Layout:       LayoutNested,
		Outer:        BracketSquare,
		Row:          DefaultVectorFormat(),
		RowSeparator: ",\n ",
	}
}

// Format renders nine row-major values in this notation.
func (f MatrixFormat) Format(values [9]float64, precision int) string {
	row := func(i int) []float64 { return values[i*3 : i*3+3] }
	sep := f.Row.Separator
	if sep == "" {
		sep = f.Row.Delimiter.separator()
	}
	switch f.Layout {
	case LayoutYAML:
		return formatYAML(values, f.Row.Bracket != BracketNone, precision)
	case LayoutFlat:
		body := strings.Join(formatNumbers(values[:], precision), sep)
		return f.Prefix + f.Outer.wrap(body) + f.Suffix
	case LayoutR:
		ordered := values
		if f.ColumnMajor {
			ordered = transpose(values)
		}
		body := strings.Join(formatNumbers(ordered[:], precision), sep)
		return f.Prefix + f.Outer.wrap(body) + f.Suffix
	case LayoutRows:
		rows := make([]string, 3)
		for i := range rows {
			rows[i] = strings.Join(formatNumbers(row(i), precision), sep)
		}
		return f.Prefix + f.Outer.wrap(strings.Join(rows, f.RowSeparator)) + f.Suffix
	default:
		rowFormat := VectorFormat{Bracket: f.Row.Bracket, Delimiter: f.Row.Delimiter, Separator: f.Row.Separator}
		rows := make([]string, 3)
		for i := range rows {
			rows[i] = rowFormat.Format(row(i), precision)
		}
		return f.Prefix + f.Outer.wrap(strings.Join(rows, f.RowSeparator)) + f.Suffix
	}
}

// ParseMatrix reads a 3x3 matrix from input and returns it in row-major order with the notation
// it was written in.
func ParseMatrix(input string) ([9]float64, MatrixFormat, error) {
	if looksLikeYAML(input) {
		return parseYAML(input)
	}
	spans, err := scanBrackets(input)
	if err != nil {
		return [9]float64{}, MatrixFormat{}, err
	}
	leaves := numericLeaves(input, spans)
	switch len(leaves) {
	case 3:
		return parseNested(input, spans, leaves)
	case 0:
		start, end, ok := bareRegion(input)
		if !ok {
			return [9]float64{}, MatrixFormat{}, newParseError(KindEmpty, "no numbers found")
		}
		return parseSingleList(input[start:end], MatrixFormat{Outer: BracketNone, Prefix: input[:start], Suffix: input[end:]})
	case 1:
		leaf := leaves[0]
		format := MatrixFormat{Outer: leaf.kind, Prefix: input[:leaf.open], Suffix: input[leaf.close+1:]}
		if isRVector(format) {
			return parseR(leaf.interior(input), format)
		}
		return parseSingleList(leaf.interior(input), format)
	default:
		return [9]float64{}, MatrixFormat{}, newParseError(KindBracket,
			"found %d bracketed lists of numbers, expected 1 or 3", len(leaves))
	}
}

func parseNested(input string, spans, leaves []span) ([9]float64, MatrixFormat, error) {
	var out [9]float64
	var rowFormat VectorFormat
	for i, leaf := range leaves {
		content := leaf.interior(input)
		delim, err := detectDelimiter(content)
		if err != nil {
			return out, MatrixFormat{}, err
		}
		values, err := splitNumbers(content, delim)
		if err != nil {
			return out, MatrixFormat{}, err
		}
		if err := checkCount(values, 3); err != nil {
			return out, MatrixFormat{}, newParseError(KindCount, "row %d: %s", i+1, err.Error())
		}
		copy(out[i*3:], values)
		if i == 0 {
			rowFormat = VectorFormat{Bracket: leaf.kind, Delimiter: delim, Separator: observedSeparator(content, delim)}
		}
	}

	format := MatrixFormat{
		Layout:       LayoutNested,
		Row:          rowFormat,
		RowSeparator: input[leaves[0].close+1 : leaves[1].open],
		Outer:        BracketNone,
	}
	if outer, ok := enclosing(spans, leaves); ok {
		format.Outer = outer.kind
		format.Prefix = input[:outer.open]
		format.Suffix = input[outer.close+1:]
	} else {
		format.Prefix = input[:leaves[0].open]
		format.Suffix = input[leaves[2].close+1:]
	}
	return out, format, nil
}

// parseSingleList reads the numbers of a single list, split into rows by ';' or line breaks, or
// given as nine numbers in a row.
func parseSingleList(content string, format MatrixFormat) ([9]float64, MatrixFormat, error) {
	var out [9]float64
	if strings.Contains(content, ";") {
		rows := strings.Split(content, ";")
		if len(rows) == 4 && strings.TrimSpace(rows[3]) == "" {
			rows = rows[:3]
		}
		if len(rows) != 3 {
			return out, MatrixFormat{}, newParseError(KindCount, "expected 3 rows separated by ';' but got %d", len(rows))
		}
		rowFormat, err := parseRows(rows, &out)
		if err != nil {
			return out, MatrixFormat{}, err
		}
		format.Layout = LayoutRows
		format.Row = rowFormat
		format.RowSeparator = observedSeparator(content, DelimiterSemicolon)
		return out, format, nil
	}

	if lines := nonEmptyLines(content); len(lines) == 3 {
		var rowValues [9]float64
		if rowFormat, err := parseRows(lines, &rowValues); err == nil {
			format.Layout = LayoutRows
			format.Row = rowFormat
			format.RowSeparator = "\n"
			return rowValues, format, nil
		}
	}

	delim, err := detectDelimiter(content)
	if err != nil {
		return out, MatrixFormat{}, err
	}
	values, err := splitNumbers(content, delim)
	if err != nil {
		return out, MatrixFormat{}, err
	}
	if err := checkCount(values, 9); err != nil {
		return out, MatrixFormat{}, err
	}
	copy(out[:], values)
	format.Layout = LayoutFlat
	format.Row = VectorFormat{Bracket: BracketNone, Delimiter: delim, Separator: observedSeparator(content, delim)}
	return out, format, nil
}

func parseRows(rows []string, out *[9]float64) (VectorFormat, error) {
	var rowFormat VectorFormat
	for i, row := range rows {
		delim, err := detectDelimiter(row)
		if err != nil {
			return VectorFormat{}, err
		}
		if delim == DelimiterNewline || delim == DelimiterTab {
			delim = DelimiterSpace
			if strings.Contains(strings.TrimSpace(row), "\t") {
				delim = DelimiterTab
			}
		}
		values, err := splitNumbers(row, delim)
		if err != nil {
			return VectorFormat{}, err
		}
		if err := checkCount(values, 3); err != nil {
			return VectorFormat{}, newParseError(KindCount, "row %d: %s", i+1, err.Error())
		}
		copy(out[i*3:], values)
		if i == 0 {
			rowFormat = VectorFormat{Bracket: BracketNone, Delimiter: delim, Separator: observedSeparator(row, delim)}
		}
	}
	return rowFormat, nil
}

// isRVector reports whether the list is the c(...) of an R matrix(...) call.
func isRVector(format MatrixFormat) bool {
	if format.Outer != BracketParen {
		return false
	}
	prefix := strings.TrimRight(format.Prefix, " ")
	if !strings.HasSuffix(prefix, "c") {
		return false
	}
	return strings.Contains(strings.ReplaceAll(prefix, " ", ""), "matrix(")
}

func parseR(content string, format MatrixFormat) ([9]float64, MatrixFormat, error) {
	var out [9]float64
	delim, err := detectDelimiter(content)
	if err != nil {
		return out, MatrixFormat{}, err
	}
	values, err := splitNumbers(content, delim)
	if err != nil {
		return out, MatrixFormat{}, err
	}
	if err := checkCount(values, 9); err != nil {
		return out, MatrixFormat{}, err
	}
	copy(out[:], values)
	suffix := strings.ReplaceAll(format.Suffix, " ", "")
	format.ColumnMajor = !strings.Contains(suffix, "byrow=TRUE") && !strings.Contains(suffix, "byrow=T)") &&
		!strings.Contains(suffix, "byrow=T,")
	if format.ColumnMajor {
		out = transpose(out)
	}
	format.Layout = LayoutR
	format.Row = VectorFormat{Bracket: BracketNone, Delimiter: delim, Separator: observedSeparator(content, delim)}
	return out, format, nil
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func transpose(m [9]float64) [9]float64 {
	return [9]float64{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

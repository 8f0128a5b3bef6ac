package textformat

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"go.viam.com/rotviz/utils"
)

// looksLikeYAML reports whether input starts with a YAML block sequence entry ("- ").
func looksLikeYAML(input string) bool {
	trimmed := strings.TrimLeft(input, " \t\r\n")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "-\n")
}

func parseYAML(input string) ([9]float64, MatrixFormat, error) {
	var out [9]float64
	var rows [][]float64
	if err := yaml.Unmarshal([]byte(input), &rows); err != nil {
		return out, MatrixFormat{}, newParseError(KindYAML, "invalid yaml matrix: %s", err.Error())
	}
	if len(rows) != 3 {
		return out, MatrixFormat{}, newParseError(KindCount, "expected 3 rows but got %d", len(rows))
	}
	for i, row := range rows {
		if err := checkCount(row, 3); err != nil {
			return out, MatrixFormat{}, newParseError(KindCount, "row %d: %s", i+1, err.Error())
		}
		if !utils.IsFinite(row...) {
			return out, MatrixFormat{}, newParseError(KindNumber, "row %d: numbers must be finite", i+1)
		}
		copy(out[i*3:], row)
	}
	rowBracket := BracketNone
	if strings.Contains(input, "[") {
		rowBracket = BracketSquare
	}
	return out, MatrixFormat{
		Layout: LayoutYAML,
		Outer:  BracketNone,
		Row:    VectorFormat{Bracket: rowBracket, Delimiter: DelimiterComma, Separator: ", "},
	}, nil
}

// formatYAML writes the rows as a block sequence, each row in flow style when flow is set.
func formatYAML(values [9]float64, flow bool, precision int) string {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for i := 0; i < 3; i++ {
		row := &yaml.Node{Kind: yaml.SequenceNode}
		if flow {
			row.Style = yaml.FlowStyle
		}
		for _, v := range formatNumbers(values[i*3:i*3+3], precision) {
			row.Content = append(row.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v})
		}
		doc.Content = append(doc.Content, row)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return ""
	}
	if err := enc.Close(); err != nil {
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}

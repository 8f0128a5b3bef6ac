// Package textformat reads vectors and 3x3 matrices out of free text written in the notations
// people paste from Python, numpy, Matlab, R, Rust or YAML, and writes numbers back in the
// notation they came in.
package textformat

import (
	"strings"
)

// VectorFormat is the notation of a list of numbers: its bracket, delimiter and any text around
// it such as "np.array(" and ")".
type VectorFormat struct {
	Bracket   BracketKind `json:"bracket"`
	Delimiter Delimiter   `json:"delimiter"`
	// Separator is the text written between numbers, for example "," or ", ".
	Separator string `json:"separator"`
	Prefix    string `json:"prefix"`
	Suffix    string `json:"suffix"`
}

// DefaultVectorFormat is the notation used before the user has typed anything: "[1.0, 0.0, 0.0]".
func DefaultVectorFormat() VectorFormat {
	return VectorFormat{
		Bracket:   BracketSquare,
		Delimiter: DelimiterComma,
		Separator: DelimiterComma.separator(),
	}
}

// Format renders values in this notation.
func (f VectorFormat) Format(values []float64, precision int) string {
	sep := f.Separator
	if sep == "" {
		sep = f.Delimiter.separator()
	}
	body := strings.Join(formatNumbers(values, precision), sep)
	return f.Prefix + f.Bracket.wrap(body) + f.Suffix
}

// ParseVector reads exactly n numbers from input and returns them with the notation they were
// written in.
func ParseVector(input string, n int) ([]float64, VectorFormat, error) {
	format, content, err := DetectVectorFormat(input)
	if err != nil {
		return nil, VectorFormat{}, err
	}
	values, err := splitNumbers(content, format.Delimiter)
	if err != nil {
		return nil, VectorFormat{}, err
	}
	if err := checkCount(values, n); err != nil {
		return nil, VectorFormat{}, err
	}
	return values, format, nil
}

// DetectVectorFormat finds the single list of numbers in input and returns its notation together
// with the text between the brackets.
func DetectVectorFormat(input string) (VectorFormat, string, error) {
	spans, err := scanBrackets(input)
	if err != nil {
		return VectorFormat{}, "", err
	}
	leaves := numericLeaves(input, spans)

	var format VectorFormat
	var content string
	switch len(leaves) {
	case 0:
		start, end, ok := bareRegion(input)
		if !ok {
			return VectorFormat{}, "", newParseError(KindEmpty, "no numbers found")
		}
		content = input[start:end]
		format = VectorFormat{Bracket: BracketNone, Prefix: input[:start], Suffix: input[end:]}
	case 1:
		leaf := leaves[0]
		content = leaf.interior(input)
		format = VectorFormat{Bracket: leaf.kind, Prefix: input[:leaf.open], Suffix: input[leaf.close+1:]}
	default:
		return VectorFormat{}, "", newParseError(KindBracket, "found %d bracketed lists of numbers, expected one", len(leaves))
	}

	delim, err := detectDelimiter(content)
	if err != nil {
		return VectorFormat{}, "", err
	}
	format.Delimiter = delim
	format.Separator = observedSeparator(content, delim)
	return format, content, nil
}

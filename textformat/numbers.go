package textformat

import (
	"math"
	"strconv"
	"strings"

	"go.viam.com/rotviz/utils"
)

// Delimiter is the kind of separator between numbers.
type Delimiter string

// The supported delimiters.
const (
	DelimiterComma     Delimiter = "comma"
	DelimiterSemicolon Delimiter = "semicolon"
	DelimiterSpace     Delimiter = "space"
	DelimiterTab       Delimiter = "tab"
	DelimiterNewline   Delimiter = "newline"
)

// DefaultPrecision is the number of decimals shown when none is configured.
const DefaultPrecision = 4

// MaxPrecision is the largest supported number of decimals.
const MaxPrecision = 15

// separator returns the text written between two numbers.
func (d Delimiter) separator() string {
	switch d {
	case DelimiterComma:
		return ", "
	case DelimiterSemicolon:
		return "; "
	case DelimiterTab:
		return "\t"
	case DelimiterNewline:
		return "\n"
	default:
		return " "
	}
}

// detectDelimiter picks the delimiter of a list of numbers. Commas and semicolons win over
// whitespace; a list may not mix the two.
func detectDelimiter(content string) (Delimiter, error) {
	hasComma := strings.Contains(content, ",")
	hasSemicolon := strings.Contains(content, ";")
	switch {
	case hasComma && hasSemicolon:
		return "", newParseError(KindDelimiter, "mixed delimiters: found both ',' and ';'")
	case hasComma:
		return DelimiterComma, nil
	case hasSemicolon:
		return DelimiterSemicolon, nil
	case strings.Contains(strings.TrimSpace(content), "\t"):
		return DelimiterTab, nil
	case strings.Contains(strings.TrimSpace(content), "\n"):
		return DelimiterNewline, nil
	default:
		return DelimiterSpace, nil
	}
}

// observedSeparator returns the separator as typed: the delimiter character followed by a
// single space if the first occurrence had one.
func observedSeparator(content string, d Delimiter) string {
	var c string
	switch d {
	case DelimiterComma:
		c = ","
	case DelimiterSemicolon:
		c = ";"
	default:
		return d.separator()
	}
	i := strings.Index(content, c)
	if i >= 0 && i+1 < len(content) && content[i+1] == ' ' {
		return c + " "
	}
	return c
}

// splitNumbers parses every number of content separated by d.
func splitNumbers(content string, d Delimiter) ([]float64, error) {
	var tokens []string
	switch d {
	case DelimiterComma, DelimiterSemicolon:
		sep := ","
		if d == DelimiterSemicolon {
			sep = ";"
		}
		parts := strings.Split(content, sep)
		// one trailing delimiter is allowed, as Python and Matlab allow it
		if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
			parts = parts[:len(parts)-1]
		}
		for _, tok := range parts {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				return nil, newParseError(KindDelimiter, "empty value between %q delimiters", sep)
			}
			tokens = append(tokens, tok)
		}
	default:
		tokens = strings.Fields(content)
	}
	if len(tokens) == 0 {
		return nil, newParseError(KindEmpty, "no numbers found")
	}
	values := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		v, err := parseNumber(tok)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// parseNumber reads one decimal number. Hex floats and digit separators, which ParseFloat also
// accepts, are rejected.
func parseNumber(tok string) (float64, error) {
	if strings.ContainsAny(tok, "xXpP_") {
		return 0, newParseError(KindNumber, "invalid number %q", tok)
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, newParseError(KindNumber, "invalid number %q", tok)
	}
	if !utils.IsFinite(v) {
		return 0, newParseError(KindNumber, "number %q is not finite", tok)
	}
	return v, nil
}

func checkCount(values []float64, n int) error {
	if len(values) != n {
		return &ParseError{Kind: KindCount, Msg: utils.NewWrongDimensionError(n, len(values)).Error()}
	}
	return nil
}

// FormatNumber renders v with at most precision decimals, trimming trailing zeros but keeping at
// least one decimal place. Negative zero prints as zero.
func FormatNumber(v float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	if precision > MaxPrecision {
		precision = MaxPrecision
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		if strings.HasSuffix(s, ".") {
			s += "0"
		}
	} else {
		s += ".0"
	}
	if s == "-0.0" {
		return "0.0"
	}
	return s
}

func formatNumbers(values []float64, precision int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = FormatNumber(v, precision)
	}
	return out
}

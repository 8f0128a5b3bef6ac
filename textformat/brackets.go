package textformat

import (
	"sort"
	"strings"
)

// BracketKind is the kind of bracket wrapping a list of numbers.
type BracketKind string

// The supported bracket kinds.
const (
	BracketNone   BracketKind = "none"
	BracketSquare BracketKind = "square"
	BracketParen  BracketKind = "paren"
	BracketCurly  BracketKind = "curly"
)

// Open returns the opening character, or "" for BracketNone.
func (b BracketKind) Open() string {
	switch b {
	case BracketSquare:
		return "["
	case BracketParen:
		return "("
	case BracketCurly:
		return "{"
	default:
		return ""
	}
}

// Close returns the closing character, or "" for BracketNone.
func (b BracketKind) Close() string {
	switch b {
	case BracketSquare:
		return "]"
	case BracketParen:
		return ")"
	case BracketCurly:
		return "}"
	default:
		return ""
	}
}

func (b BracketKind) wrap(body string) string {
	return b.Open() + body + b.Close()
}

func bracketOf(c byte) (BracketKind, bool) {
	switch c {
	case '[', ']':
		return BracketSquare, true
	case '(', ')':
		return BracketParen, true
	case '{', '}':
		return BracketCurly, true
	default:
		return BracketNone, false
	}
}

// span is a matched bracket pair; open and close are byte offsets of the bracket characters.
type span struct {
	kind  BracketKind
	open  int
	close int
}

func (s span) interior(input string) string {
	return input[s.open+1 : s.close]
}

func (s span) contains(o span) bool {
	return s.open < o.open && o.close < s.close
}

// scanBrackets matches every bracket in input and returns the pairs ordered by opening offset.
func scanBrackets(input string) ([]span, error) {
	type open struct {
		kind BracketKind
		pos  int
	}
	var stack []open
	var spans []span
	for i := 0; i < len(input); i++ {
		c := input[i]
		kind, ok := bracketOf(c)
		if !ok {
			continue
		}
		if c == '[' || c == '(' || c == '{' {
			stack = append(stack, open{kind, i})
			continue
		}
		if len(stack) == 0 {
			return nil, newParseError(KindBracket, "Unexpected closing %q at position %d", string(c), i)
		}
		top := stack[len(stack)-1]
		if top.kind != kind {
			return nil, newParseError(KindBracket, "Mismatched brackets: %q at position %d closed by %q at position %d",
				top.kind.Open(), top.pos, string(c), i)
		}
		stack = stack[:len(stack)-1]
		spans = append(spans, span{kind: kind, open: top.pos, close: i})
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, newParseError(KindBracket, "Unclosed %q at position %d", top.kind.Open(), top.pos)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].open < spans[j].open })
	return spans, nil
}

// numericLeaves returns the bracket pairs that hold digits directly, i.e. contain digits and no
// nested pair that holds digits.
func numericLeaves(input string, spans []span) []span {
	var withDigits []span
	for _, s := range spans {
		if hasDigit(s.interior(input)) {
			withDigits = append(withDigits, s)
		}
	}
	var leaves []span
	for _, s := range withDigits {
		leaf := true
		for _, o := range withDigits {
			if s.contains(o) {
				leaf = false
				break
			}
		}
		if leaf {
			leaves = append(leaves, s)
		}
	}
	return leaves
}

// enclosing returns the innermost pair containing every one of inner.
func enclosing(spans, inner []span) (span, bool) {
	var best span
	found := false
	for _, s := range spans {
		all := true
		for _, in := range inner {
			if !s.contains(in) {
				all = false
				break
			}
		}
		if all && (!found || best.contains(s)) {
			best, found = s, true
		}
	}
	return best, found
}

// bareRegion returns the offsets of the text running from the first number to the last.
func bareRegion(input string) (int, int, bool) {
	first := strings.IndexFunc(input, isDigit)
	if first < 0 {
		return 0, 0, false
	}
	for first > 0 && strings.ContainsRune("+-.", rune(input[first-1])) {
		first--
	}
	last := strings.LastIndexFunc(input, func(r rune) bool { return isDigit(r) || r == '.' })
	return first, last + 1, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, isDigit) >= 0
}

package ldpath

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokIRI    // <...> with brackets stripped
	tokString // "..." with quotes stripped, escapes resolved
	tokAt
	tokColon
	tokDoubleColon
	tokSemicolon
	tokEquals
	tokSlash
	tokCaret
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokComma
	tokDot
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of program"
	case tokIdent:
		return "identifier"
	case tokIRI:
		return "IRI"
	case tokString:
		return "string"
	case tokAt:
		return "'@'"
	case tokColon:
		return "':'"
	case tokDoubleColon:
		return "'::'"
	case tokSemicolon:
		return "';'"
	case tokEquals:
		return "'='"
	case tokSlash:
		return "'/'"
	case tokCaret:
		return "'^'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	case tokDot:
		return "'.'"
	default:
		return "unknown token"
	}
}

type token struct {
	kind tokenKind
	text string
	line int
}

// lexError is an internal lexing failure; the parser converts it into a
// transform parse error.
type lexError struct {
	line    int
	message string
}

func (e *lexError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.message)
}

// lex scans the whole program source into tokens. Comments run from '#' to
// end of line.
func lex(src string) ([]token, error) {
	var tokens []token
	line := 1
	i := 0

	emit := func(kind tokenKind, text string) {
		tokens = append(tokens, token{kind: kind, text: text, line: line})
	}

	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '@':
			emit(tokAt, "@")
			i++
		case c == ';':
			emit(tokSemicolon, ";")
			i++
		case c == '=':
			emit(tokEquals, "=")
			i++
		case c == '/':
			emit(tokSlash, "/")
			i++
		case c == '^':
			emit(tokCaret, "^")
			i++
		case c == '[':
			emit(tokLBracket, "[")
			i++
		case c == ']':
			emit(tokRBracket, "]")
			i++
		case c == '(':
			emit(tokLParen, "(")
			i++
		case c == ')':
			emit(tokRParen, ")")
			i++
		case c == ',':
			emit(tokComma, ",")
			i++
		case c == '.':
			emit(tokDot, ".")
			i++
		case c == ':':
			if i+1 < len(src) && src[i+1] == ':' {
				emit(tokDoubleColon, "::")
				i += 2
			} else {
				emit(tokColon, ":")
				i++
			}
		case c == '<':
			end := strings.IndexByte(src[i:], '>')
			if end < 0 {
				return nil, &lexError{line: line, message: "unterminated IRI"}
			}
			emit(tokIRI, src[i+1:i+end])
			i += end + 1
		case c == '"':
			text, consumed, err := lexString(src[i:], line)
			if err != nil {
				return nil, err
			}
			emit(tokString, text)
			i += consumed
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			emit(tokIdent, src[start:i])
		default:
			return nil, &lexError{line: line, message: fmt.Sprintf("unexpected character %q", c)}
		}
	}

	tokens = append(tokens, token{kind: tokEOF, line: line})
	return tokens, nil
}

func lexString(src string, line int) (string, int, error) {
	var sb strings.Builder
	i := 1 // past opening quote
	for i < len(src) {
		c := src[i]
		switch c {
		case '"':
			return sb.String(), i + 1, nil
		case '\n':
			return "", 0, &lexError{line: line, message: "unterminated string"}
		case '\\':
			if i+1 >= len(src) {
				return "", 0, &lexError{line: line, message: "dangling escape in string"}
			}
			switch src[i+1] {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				return "", 0, &lexError{line: line, message: fmt.Sprintf("unsupported escape \\%c", src[i+1])}
			}
			i += 2
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return "", 0, &lexError{line: line, message: "unterminated string"}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-' || (c >= '0' && c <= '9')
}

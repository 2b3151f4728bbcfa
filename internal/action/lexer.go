package action

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokNumber // non-integer numeric literal
	tokString
	tokLParen
	tokRParen
	tokComma
	tokOther
)

type token struct {
	kind tokenKind
	text string // identifier, literal digits, or unquoted string value
	pos  int    // byte offset of the first character
	end  int    // byte offset after the last character
	bad  bool   // unterminated string
}

// closingQuote returns the quote that ends a string opened by r, or 0 when r
// does not open a string.
func closingQuote(r rune) rune {
	switch r {
	case '"', '\'':
		return r
	case '\u201c':
		return '\u201d'
	case '\u2018':
		return '\u2019'
	}
	return 0
}

// lex splits s into call-syntax tokens. Characters that cannot start a token
// become tokOther so that prose around a call is tolerated.
func lex(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += w
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i, end: i + 1})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i, end: i + 1})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i, end: i + 1})
			i++
		case isIdentStart(r):
			j := i + w
			for j < len(s) {
				r2, w2 := utf8.DecodeRuneInString(s[j:])
				if !isIdentPart(r2) {
					break
				}
				j += w2
			}
			toks = append(toks, token{kind: tokIdent, text: strings.TrimRight(s[i:j], "-"), pos: i, end: j})
			i = j
		case r < utf8.RuneSelf && isASCIIDigit(byte(r)) || (r == '-' || r == '+') && i+1 < len(s) && isASCIIDigit(s[i+1]):
			tok := lexNumber(s, i)
			toks = append(toks, tok)
			i = tok.end
		case closingQuote(r) != 0:
			tok := lexString(s, i, r, w)
			toks = append(toks, tok)
			i = tok.end
		default:
			toks = append(toks, token{kind: tokOther, text: string(r), pos: i, end: i + w})
			i += w
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(s), end: len(s)})
}

func lexNumber(s string, start int) token {
	j := start + 1
	for j < len(s) && isASCIIDigit(s[j]) {
		j++
	}
	kind := tokInt
	if j+1 < len(s) && s[j] == '.' && isASCIIDigit(s[j+1]) {
		kind = tokNumber
		j++
		for j < len(s) && isASCIIDigit(s[j]) {
			j++
		}
	}
	return token{kind: kind, text: s[start:j], pos: start, end: j}
}

func lexString(s string, start int, open rune, w int) token {
	closing := closingQuote(open)
	var b strings.Builder
	j := start + w
	for j < len(s) {
		r, w2 := utf8.DecodeRuneInString(s[j:])
		if r == '\\' && j+w2 < len(s) {
			next, w3 := utf8.DecodeRuneInString(s[j+w2:])
			b.WriteRune(unescape(next))
			j += w2 + w3
			continue
		}
		if r == closing {
			return token{kind: tokString, text: b.String(), pos: start, end: j + w2}
		}
		b.WriteRune(r)
		j += w2
	}
	return token{kind: tokString, text: b.String(), pos: start, end: len(s), bad: true}
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	default:
		return r
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || r < utf8.RuneSelf && unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r == '-' || r < utf8.RuneSelf && unicode.IsDigit(r)
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

package tally

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

// describe formats a token for an error message.
func (t lexToken) describe() string {
	switch t.kind {
	case tokenEOF:
		return "end of input"
	case tokenStr:
		return "string " + strconv.Quote(t.text)
	default:
		return strconv.Quote(t.text)
	}
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer or float literal.
	tokenNum
	// tokenStr is a string literal; the token text is the decoded content.
	tokenStr
	// tokenIdent is a variable or function name.
	tokenIdent
	// tokenNothing is the reserved Nothing literal.
	tokenNothing
	// tokenOp is an arithmetic or comparison operator.
	tokenOp
	// tokenAssign is a bare = sign.
	tokenAssign
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is a comma.
	tokenSep
)

var tokenKindNames = [...]string{
	"None", "EOF", "Num", "Str", "Ident", "Nothing", "Op", "Assign", "Open", "Close", "Sep",
}

func (k tokenKind) String() string {
	if 0 <= int(k) && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "tokenKind(" + strconv.Itoa(int(k)) + ")"
}

// isWordStart reports whether a rune can begin an identifier.
func isWordStart(r rune) bool {
	return 'A' <= r && r <= 'Z' || 'a' <= r && r <= 'z'
}

// isWordRune reports whether a rune can continue an identifier. Hyphens and
// dots glue into names so that dotted and hyphenated config keys are single
// tokens; "a-b" is one identifier, not a subtraction.
func isWordRune(r rune) bool {
	return isWordStart(r) || '0' <= r && r <= '9' || r == '_' || r == '-' || r == '.'
}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// accept consumes the next rune if it is want.
func (l *lexer) accept(want rune) bool {
	r, err := l.readRune()
	if err != nil {
		return false
	}
	if r != want {
		l.unreadRune()
		return false
	}
	return true
}

// next scans the next token from the input. Once the input is exhausted,
// next keeps returning EOF tokens.
func (l *lexer) next() (lexToken, error) {
	if l.eof {
		return lexToken{kind: tokenEOF, pos: l.rune}, nil
	}
	defer l.buf.Reset()
	tok := lexToken{}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.eof = true
				tok.kind = tokenEOF
				tok.pos = l.rune
				return tok, nil
			}
			return tok, err
		}
		if unicode.IsSpace(r) {
			continue
		}
		if r == '#' {
			// Line comment runs to end of line.
			for {
				r, err := l.readRune()
				if err != nil || r == '\n' {
					break
				}
			}
			continue
		}
		tok.pos = l.rune - 1
		switch {
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok, nil
		case isWordStart(r):
			l.unreadRune()
			l.scanIdent()
			tok.text = l.buf.String()
			// The Nothing literal looks like an identifier, so check for
			// it here.
			if tok.text == "Nothing" {
				tok.kind = tokenNothing
			} else {
				tok.kind = tokenIdent
			}
			return tok, nil
		case r == '"', r == '\'':
			if err := l.scanStr(r); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenStr
			return tok, nil
		case r == '+', r == '-', r == '*':
			tok.text = string(r)
			tok.kind = tokenOp
			return tok, nil
		case r == '/':
			tok.text = "/"
			if l.accept('/') {
				tok.text = "//"
			}
			tok.kind = tokenOp
			return tok, nil
		case r == '<', r == '>':
			tok.text = string(r)
			if l.accept('=') {
				tok.text += "="
			}
			tok.kind = tokenOp
			return tok, nil
		case r == '=':
			if l.accept('=') {
				tok.text = "=="
				tok.kind = tokenOp
			} else {
				tok.text = "="
				tok.kind = tokenAssign
			}
			return tok, nil
		case r == '!':
			if l.accept('=') {
				tok.text = "!="
				tok.kind = tokenOp
				return tok, nil
			}
			l.buf.WriteRune(r)
			return tok, l.error("operator")
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		default:
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// scanNum scans an integer or float literal: digits, digits.digits,
// .digits, or digits. forms. A second dot starts a new token.
func (l *lexer) scanNum() error {
	var dig, dot bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch {
		case '0' <= r && r <= '9':
			dig = true
		case r == '.':
			if dot {
				l.unreadRune()
				if !dig {
					return l.error("number")
				}
				return nil
			}
			dot = true
		default:
			l.unreadRune()
			if !dig {
				return l.error("number")
			}
			return nil
		}
		l.buf.WriteRune(r)
	}
	if !dig {
		return l.error("number")
	}
	return nil
}

func (l *lexer) scanIdent() {
	for {
		r, err := l.readRune()
		if err != nil {
			// next unreads the rune that decides ident scanning before
			// calling scanIdent, so we have scanned at least one rune.
			return
		}
		if !isWordRune(r) {
			l.unreadRune()
			return
		}
		l.buf.WriteRune(r)
	}
}

// scanStr scans a string literal opened by quote q, decoding backslash
// escapes. The opening quote has already been consumed.
func (l *lexer) scanStr(q rune) error {
	for {
		r, err := l.readRune()
		if err != nil {
			return l.error("string")
		}
		switch r {
		case q:
			return nil
		case '\\':
			e, err := l.readRune()
			if err != nil {
				return l.error("string")
			}
			switch e {
			case 'n':
				l.buf.WriteByte('\n')
			case 't':
				l.buf.WriteByte('\t')
			case 'r':
				l.buf.WriteByte('\r')
			default:
				// Unknown escapes keep the escaped rune.
				l.buf.WriteRune(e)
			}
		default:
			l.buf.WriteRune(r)
		}
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be
	// "number", "string", "operator", or the empty string (if a token kind
	// hadn't been decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}

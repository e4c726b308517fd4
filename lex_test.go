package tally

import (
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
	}{
		// spaces
		{"", nil},
		{" \t \r\n ", nil},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1}}},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1}}},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3}}},
		{"1.5", []lexToken{{text: "1.5", kind: tokenNum, pos: 1}}},
		{".5", []lexToken{{text: ".5", kind: tokenNum, pos: 1}}},
		{"2.", []lexToken{{text: "2.", kind: tokenNum, pos: 1}}},
		{"1.2.3", []lexToken{{text: "1.2", kind: tokenNum, pos: 1}, {text: ".3", kind: tokenNum, pos: 4}}},
		// identifiers, including hyphen and dot glue
		{"x", []lexToken{{text: "x", kind: tokenIdent, pos: 1}}},
		{"grade.math-1", []lexToken{{text: "grade.math-1", kind: tokenIdent, pos: 1}}},
		{"a-b", []lexToken{{text: "a-b", kind: tokenIdent, pos: 1}}},
		{"a -b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "-", kind: tokenOp, pos: 3}, {text: "b", kind: tokenIdent, pos: 4}}},
		// the reserved literal
		{"Nothing", []lexToken{{text: "Nothing", kind: tokenNothing, pos: 1}}},
		{"Nothings", []lexToken{{text: "Nothings", kind: tokenIdent, pos: 1}}},
		// strings
		{`"hi"`, []lexToken{{text: "hi", kind: tokenStr, pos: 1}}},
		{`'hi'`, []lexToken{{text: "hi", kind: tokenStr, pos: 1}}},
		{`"a\nb"`, []lexToken{{text: "a\nb", kind: tokenStr, pos: 1}}},
		{`"say \"hi\""`, []lexToken{{text: `say "hi"`, kind: tokenStr, pos: 1}}},
		// operators and assignment
		{"x = 3", []lexToken{{text: "x", kind: tokenIdent, pos: 1}, {text: "=", kind: tokenAssign, pos: 3}, {text: "3", kind: tokenNum, pos: 5}}},
		{"==", []lexToken{{text: "==", kind: tokenOp, pos: 1}}},
		{"<=", []lexToken{{text: "<=", kind: tokenOp, pos: 1}}},
		{">=", []lexToken{{text: ">=", kind: tokenOp, pos: 1}}},
		{"!=", []lexToken{{text: "!=", kind: tokenOp, pos: 1}}},
		{"a<b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "<", kind: tokenOp, pos: 2}, {text: "b", kind: tokenIdent, pos: 3}}},
		{"/", []lexToken{{text: "/", kind: tokenOp, pos: 1}}},
		{"//", []lexToken{{text: "//", kind: tokenOp, pos: 1}}},
		{"1+2", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "+", kind: tokenOp, pos: 2}, {text: "2", kind: tokenNum, pos: 3}}},
		// punctuation
		{"(1,)", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: "1", kind: tokenNum, pos: 2}, {text: ",", kind: tokenSep, pos: 3}, {text: ")", kind: tokenClose, pos: 4}}},
		// comments
		{"# comment\n5", []lexToken{{text: "5", kind: tokenNum, pos: 11}}},
		{"1 # trailing", []lexToken{{text: "1", kind: tokenNum, pos: 1}}},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		for _, want := range c.tokens {
			got, err := scan.next()
			if err != nil {
				t.Errorf("scanning %q: unexpected error %v", c.src, err)
				break
			}
			if got.kind == tokenEOF {
				t.Errorf("scanning %q: expected token %v but got EOF", c.src, want)
				break
			}
			if got != want {
				t.Errorf("scanning %q: want %v, got %v", c.src, want, got)
			}
		}
		got, err := scan.next()
		if err != nil {
			t.Errorf("scanning %q: unexpected error at end: %v", c.src, err)
			continue
		}
		if got.kind != tokenEOF {
			t.Errorf("scanning %q: extra token %v", c.src, got)
		}
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		src  string
		kind string
	}{
		{"$", ""},
		{"a $", ""},
		{".", "number"},
		{"..", "number"},
		{"!", "operator"},
		{`"abc`, "string"},
		{`"a\`, "string"},
		{"'", "string"},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		var lerr *LexError
		for {
			tok, err := scan.next()
			if err != nil {
				var ok bool
				if lerr, ok = err.(*LexError); !ok {
					t.Errorf("scanning %q: error %#v is not *LexError", c.src, err)
				}
				break
			}
			if tok.kind == tokenEOF {
				break
			}
		}
		if lerr == nil {
			t.Errorf("scanning %q: no error", c.src)
			continue
		}
		if lerr.Kind != c.kind {
			t.Errorf("scanning %q: error kind %q, want %q", c.src, lerr.Kind, c.kind)
		}
		if lerr.Pos() <= 0 {
			t.Errorf("scanning %q: error has no position: %v", c.src, lerr)
		}
	}
}

func TestLexEOFSticky(t *testing.T) {
	scan := lex(strings.NewReader("1"))
	if tok, err := scan.next(); err != nil || tok.kind != tokenNum {
		t.Fatalf("first token is %v with error %v", tok, err)
	}
	for i := 0; i < 3; i++ {
		tok, err := scan.next()
		if err != nil {
			t.Fatalf("EOF read %d: unexpected error %v", i, err)
		}
		if tok.kind != tokenEOF {
			t.Errorf("EOF read %d: got %v", i, tok)
		}
	}
}

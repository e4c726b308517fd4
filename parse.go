package tally

import (
	"io"
	"strings"
)

// program    = { assignment } EOF
// assignment = [ name '=' ] comparison
// comparison = arith { ('<=' | '>=' | '==' | '!=' | '<' | '>') arith }
// arith      = term { ('+' | '-') term }
// term       = factor { ('*' | '/' | '//') factor }
// factor     = [ '+' | '-' ] ( '(' assignment ')' | atom )
// atom       = Nothing | string | number | call | name | tuple
// call       = name '(' [ assignment { ',' assignment } ] ')'
// tuple      = '(' assignment { ',' assignment } [ ',' ] ')'
//
// A parenthesized assignment with no comma is a grouping; with a comma it
// is a tuple, so a one-element tuple needs the trailing comma.

// Program is a parsed sequence of statements that can be evaluated with a
// context.
type Program struct {
	stmts []*node
}

// Stmt is a single parsed statement: a bare expression or an assignment.
type Stmt struct {
	n *node
}

// String creates a canonical string representation of the parsed program,
// one statement per line, with every operator chain parenthesized.
func (p *Program) String() string {
	var b strings.Builder
	for i, s := range p.stmts {
		if i > 0 {
			b.WriteByte('\n')
		}
		s.fmtStmt(&b)
	}
	return b.String()
}

func (s *Stmt) String() string {
	return s.n.String()
}

type parser struct {
	scan *lexer
	cur  lexToken
	peek lexToken
}

func newparser(src io.RuneScanner) (*parser, error) {
	p := &parser{scan: lex(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	tok, err := p.scan.next()
	if err != nil {
		return err
	}
	p.cur, p.peek = p.peek, tok
	return nil
}

// expect consumes the current token if it has the given kind and otherwise
// fails with what the parser wanted.
func (p *parser) expect(kind tokenKind, want string) (lexToken, error) {
	tok := p.cur
	if tok.kind != kind {
		return lexToken{}, &SyntaxError{Col: tok.pos, Want: want, Found: tok.describe()}
	}
	if err := p.advance(); err != nil {
		return lexToken{}, err
	}
	return tok, nil
}

// Parse parses a whole program. Parsing fails atomically on the first
// syntax error; the error carries a rune position.
func Parse(src io.RuneScanner) (*Program, error) {
	p, err := newparser(src)
	if err != nil {
		return nil, err
	}
	var stmts []*node
	for p.cur.kind != tokenEOF {
		n, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, n)
	}
	return &Program{stmts: stmts}, nil
}

// ParseString is a shortcut to parse a program from a string.
func ParseString(src string) (*Program, error) {
	return Parse(strings.NewReader(src))
}

// ParseStatement parses a single statement followed by end of input. A
// line-by-line front end uses this with the same grammar as Parse.
func ParseStatement(src io.RuneScanner) (*Stmt, error) {
	p, err := newparser(src)
	if err != nil {
		return nil, err
	}
	n, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokenEOF {
		return nil, &SyntaxError{Col: p.cur.pos, Want: "end of input", Found: p.cur.describe()}
	}
	return &Stmt{n: n}, nil
}

func (p *parser) parseAssignment() (*node, error) {
	if (p.cur.kind == tokenIdent || p.cur.kind == tokenNothing) && p.peek.kind == tokenAssign {
		name, pos := p.cur.text, p.cur.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeAssign, pos: pos, name: name, left: rhs}, nil
	}
	rhs, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeAssign, pos: rhs.pos, left: rhs}, nil
}

func isCompareOp(text string) bool {
	switch text {
	case "<=", ">=", "==", "!=", "<", ">":
		return true
	}
	return false
}

func (p *parser) parseComparison() (*node, error) {
	return p.parseChain(nodeCompare, isCompareOp, p.parseArith)
}

func (p *parser) parseArith() (*node, error) {
	return p.parseChain(nodeFold, func(op string) bool { return op == "+" || op == "-" }, p.parseTerm)
}

func (p *parser) parseTerm() (*node, error) {
	return p.parseChain(nodeFold, func(op string) bool { return op == "*" || op == "/" || op == "//" }, p.parseFactor)
}

// parseChain parses a sequence of operands joined by operators accepted by
// match. A single operand is returned unchanged, without wrapping.
func (p *parser) parseChain(kind nodeKind, match func(string) bool, operand func() (*node, error)) (*node, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokenOp || !match(p.cur.text) {
		return first, nil
	}
	n := &node{kind: kind, pos: first.pos, list: []*node{first}}
	for p.cur.kind == tokenOp && match(p.cur.text) {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := operand()
		if err != nil {
			return nil, err
		}
		n.ops = append(n.ops, op)
		n.list = append(n.list, next)
	}
	return n, nil
}

func (p *parser) parseFactor() (*node, error) {
	if p.cur.kind == tokenOp && (p.cur.text == "+" || p.cur.text == "-") {
		kind := nodePos
		if p.cur.text == "-" {
			kind = nodeNeg
		}
		pos := p.cur.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &node{kind: kind, pos: pos, left: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*node, error) {
	tok := p.cur
	switch tok.kind {
	case tokenNum:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &node{kind: nodeNum, pos: tok.pos, name: tok.text}, nil
	case tokenStr:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &node{kind: nodeStr, pos: tok.pos, str: tok.text}, nil
	case tokenNothing:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &node{kind: nodeNothing, pos: tok.pos}, nil
	case tokenIdent:
		if p.peek.kind == tokenOpen {
			return p.parseCall()
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &node{kind: nodeName, pos: tok.pos, name: tok.text}, nil
	case tokenOpen:
		return p.parseParen()
	default:
		return nil, &SyntaxError{Col: tok.pos, Want: "expression", Found: tok.describe()}
	}
}

// parseCall parses a function call. The current token is the function name
// and the next is the open parenthesis. Arguments use the assignment rule,
// so an argument may bind a variable as a side effect; calls do not allow
// a trailing comma.
func (p *parser) parseCall() (*node, error) {
	name, pos := p.cur.text, p.cur.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n := &node{kind: nodeCall, pos: pos, name: name}
	if p.cur.kind == tokenClose {
		return n, p.advance()
	}
	for {
		arg, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		n.list = append(n.list, arg)
		if p.cur.kind != tokenSep {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokenClose, `")"`); err != nil {
		return nil, err
	}
	return n, nil
}

// parseParen parses a parenthesized grouping or a tuple literal, consuming
// the open parenthesis. The two are distinguished by the presence of a
// comma.
func (p *parser) parseParen() (*node, error) {
	pos := p.cur.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	first, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	elems := []*node{first}
	tuple := false
	for p.cur.kind == tokenSep {
		tuple = true
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind == tokenClose {
			// Trailing comma, as in (1,) or (1, 2,).
			break
		}
		next, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	if _, err := p.expect(tokenClose, `")"`); err != nil {
		return nil, err
	}
	if !tuple {
		return first, nil
	}
	return &node{kind: nodeTuple, pos: pos, list: elems}, nil
}

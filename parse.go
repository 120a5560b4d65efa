package calc

import (
	"io"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// Program = { Assign } [ Comparison ] EOF
// Assign = name '=' Comparison
// Comparison = Expr [ ('<' | '<=' | '>' | '>=' | '==' | '!=') Expr ]
// Expr = Expr ('+' | '-') Expr | Expr ('*' | '/') Expr | Expr '^' Expr | Atom
// Atom = num | name '(' Expr { ',' Expr } ')' | name | '(' Expr ')'
//
// A num or name in operand position may carry a + or - glued directly onto
// its first character. That is the only unary operator.
//
// A newline outside brackets ends a statement, so an operator on the next
// line does not continue it. Newlines where an operand is expected, and
// anywhere inside brackets, are whitespace.

// Program is a parsed input that can be evaluated.
type Program struct {
	// n is the root node of the program. It is always a nodeSeq.
	n *node
	// names is the sorted list of names the program looks up or binds.
	names []string
}

// parsectx holds general data for parsing.
type parsectx struct {
	// names is the set of variable names that have been seen this parse.
	names *treeset.Set
}

// Parse parses a program. The entire input is consumed. Every error resulting
// from the content of src implements SyntaxError; errors from reading src are
// returned as-is.
func Parse(src io.Reader) (*Program, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return parse(b)
}

// ParseString is a shortcut to parse a program from a string.
func ParseString(src string) (*Program, error) {
	return parse([]byte(src))
}

func parse(src []byte) (*Program, error) {
	scan, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := parsectx{names: treeset.NewWithStringComparator()}
	n, err := parseprogram(scan, &p)
	if err != nil {
		parsetracer().Debugf("parse error: %v", err)
		return nil, err
	}
	prog := Program{
		n:     n,
		names: make([]string, 0, p.names.Size()),
	}
	for _, v := range p.names.Values() {
		prog.names = append(prog.names, v.(string))
	}
	parsetracer().Debugf("parsed %v", n)
	return &prog, nil
}

// parseprogram parses any number of assignments followed by an optional
// comparison, then the end of input. A newline outside brackets ends the
// statement before it, but statements may also share a line.
func parseprogram(scan *lexer, p *parsectx) (*node, error) {
	seq := &node{kind: nodeSeq}
	for {
		tok := scan.operand()
		if tok.kind == tokenEOF {
			return seq, nil
		}
		if tok.kind == tokenIdent {
			nt := scan.next()
			if nt.kind == tokenAssign {
				rhs, err := parsecomp(scan, p)
				if err != nil {
					return nil, err
				}
				p.names.Add(tok.text)
				seq.args = append(seq.args, &node{kind: nodeAssign, name: tok.text, left: rhs})
				continue
			}
			scan.push(nt)
		}
		scan.push(tok)
		n, err := parsecomp(scan, p)
		if err != nil {
			return nil, err
		}
		if end := scan.pastlines(); end.kind != tokenEOF {
			return nil, itShouldNotHaveEndedThisWay(end, "end of input")
		}
		seq.args = append(seq.args, n)
		return seq, nil
	}
}

// parsecomp parses an expression optionally compared to another. Comparisons
// do not chain. If there is no error, the token following the comparison is
// pushed.
func parsecomp(scan *lexer, p *parsectx) (*node, error) {
	lhs, err := parseexpr(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	tok := scan.next()
	if tok.kind != tokenRel {
		scan.push(tok)
		return lhs, nil
	}
	rhs, err := parseexpr(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	nt := scan.next()
	if nt.kind == tokenRel {
		return nil, &ComparisonError{Line: nt.line, Col: nt.col, Op: nt.text}
	}
	scan.push(nt)
	return &node{kind: relop(tok.text), left: lhs, right: rhs}, nil
}

// parseexpr parses an arithmetic expression whose operators are more binding
// than until. If there is no error, then parseexpr pushes the last token it
// scans, including EOF.
func parseexpr(scan *lexer, p *parsectx, until operator) (*node, error) {
	n, err := parseatom(scan, p)
	if err != nil {
		return nil, err
	}
	for {
		tok := scan.next()
		if tok.kind != tokenOp {
			scan.push(tok)
			return n, nil
		}
		prec := binop(tok.text)
		if prec.op == nodeNone {
			panic("calc: lexed unknown operator " + tok.String())
		}
		if !prec.moreBinding(until) {
			scan.push(tok)
			return n, nil
		}
		rhs, err := parseexpr(scan, p, prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, left: n, right: rhs}
	}
}

// parseatom parses a number, variable, call, or parenthesized expression.
func parseatom(scan *lexer, p *parsectx) (*node, error) {
	tok := scan.operand()
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, name: tok.text}, nil
	case tokenIdent:
		nt := scan.next()
		if nt.kind == tokenOpen {
			return parsecall(scan, p, tok)
		}
		scan.push(nt)
		p.names.Add(tok.text)
		return &node{kind: nodeName, name: tok.text}, nil
	case tokenOpen:
		n, err := parseexpr(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		if end := scan.next(); end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, `")"`)
		}
		return n, nil
	case tokenClose, tokenSep:
		return nil, &EmptyExpressionError{Line: tok.line, Col: tok.col, End: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Line: tok.line, Col: tok.col}
	case tokenOp, tokenRel, tokenAssign:
		return nil, &TokenError{Line: tok.line, Col: tok.col, Text: tok.text, Want: "number, name, or \"(\""}
	default:
		panic("calc: unknown token: " + tok.String())
	}
}

// parsecall parses the argument list of a call after its open bracket. Calls
// take at least one argument.
func parsecall(scan *lexer, p *parsectx, name lexToken) (*node, error) {
	n := &node{kind: nodeCall, name: name.text}
	for {
		arg, err := parseexpr(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		n.args = append(n.args, arg)
		switch end := scan.next(); end.kind {
		case tokenSep:
			// next argument
		case tokenClose:
			return n, nil
		default:
			return nil, itShouldNotHaveEndedThisWay(end, `"," or ")"`)
		}
	}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. want describes what should have been
// there.
func itShouldNotHaveEndedThisWay(tok lexToken, want string) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Line: tok.line, Col: tok.col, Left: "(", Right: ""}
	case tokenClose:
		// A close bracket where a subexpression can end has no open bracket.
		return &BracketError{Line: tok.line, Col: tok.col, Left: "", Right: tok.text}
	case tokenSep:
		// Separator outside a function call.
		return &SeparatorError{Line: tok.line, Col: tok.col, Sep: tok.text}
	default:
		return &TokenError{Line: tok.line, Col: tok.col, Text: tok.text, Want: want}
	}
}

// Vars returns the names the program looks up or binds, in sorted order.
// Names are given as written, including any glued sign.
func (p *Program) Vars() []string {
	return append(([]string)(nil), p.names...)
}

// Len returns the number of statements in the program.
func (p *Program) Len() int {
	return len(p.n.args)
}

// String creates a string representation of the parsed program, with
// alternating round and square brackets grouping each term. Statements are
// separated by semicolons.
func (p *Program) String() string {
	var b strings.Builder
	p.n.fmt(&b, false)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// relop gets the node kind for a comparison operator.
func relop(text string) nodeKind {
	switch text {
	case "<":
		return nodeLt
	case "<=":
		return nodeLe
	case ">":
		return nodeGt
	case ">=":
		return nodeGe
	case "==":
		return nodeEq
	case "!=":
		return nodeNe
	default:
		panic("calc: unknown comparison " + text)
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}

package calc

import (
	"strconv"
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type lexToken struct {
	text string
	kind tokenKind
	// line and col are the 1-based position of the start of the token.
	line, col int
	// off is the byte offset of the start of the token.
	off int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.line) + ":" + strconv.Itoa(t.col)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer or real literal, possibly with a glued sign.
	tokenNum
	// tokenIdent is a variable or function name, possibly with a glued sign.
	tokenIdent
	// tokenOp is an arithmetic operator.
	tokenOp
	// tokenRel is a comparison operator.
	tokenRel
	// tokenAssign is the assignment operator =.
	tokenAssign
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is the function arguments separator, a comma.
	tokenSep
	// tokenNewline ends a statement. Newlines inside brackets are not tokens.
	tokenNewline
)

var tokenKindNames = [...]string{
	tokenNone:   "None",
	tokenEOF:    "EOF",
	tokenNum:    "Num",
	tokenIdent:  "Ident",
	tokenOp:     "Op",
	tokenRel:    "Rel",
	tokenAssign: "Assign",
	tokenOpen:   "Open",
	tokenClose:  "Close",
	tokenSep:    "Sep",

	tokenNewline: "Newline",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators contains the arithmetic operator lexemes.
var Operators = []string{"+", "-", "*", "/", "^"}

// Comparisons contains the comparison operator lexemes.
var Comparisons = []string{"<", "<=", ">", ">=", "==", "!="}

var (
	lexOnce sync.Once
	lexDFA  *lexmachine.Lexer
	lexErr  error
)

// literal escapes every byte of s so that lexmachine matches it literally.
func literal(s string) []byte {
	return []byte(`\` + strings.Join(strings.Split(s, ""), `\`))
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func token(kind tokenKind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(kind), string(m.Bytes), m), nil
	}
}

// compiled returns the lexer shared by every parse. The DFA is built on first
// use.
func compiled() (*lexmachine.Lexer, error) {
	lexOnce.Do(func() {
		l := lexmachine.NewLexer()
		l.Add([]byte(`( |\t|\r)+`), skip)
		l.Add([]byte(`\n`), token(tokenNewline))
		l.Add([]byte(`#[^\n]*`), skip)
		l.Add([]byte(`(0|[1-9][0-9]*)(\.[0-9]+)?([eE][\+\-]?[0-9]+)?`), token(tokenNum))
		l.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), token(tokenIdent))
		for _, op := range Operators {
			l.Add(literal(op), token(tokenOp))
		}
		for _, op := range Comparisons {
			l.Add(literal(op), token(tokenRel))
		}
		l.Add(literal("="), token(tokenAssign))
		l.Add(literal("("), token(tokenOpen))
		l.Add(literal(")"), token(tokenClose))
		l.Add(literal(","), token(tokenSep))
		if err := l.Compile(); err != nil {
			lexErr = err
			return
		}
		lexDFA = l
	})
	return lexDFA, lexErr
}

// lexer hands out the tokens of one input. The whole input is scanned up front
// so that errors in the text are reported before parsing begins.
type lexer struct {
	src  []byte
	toks []lexToken
	i    int
	p    []lexToken
}

// lex scans src into tokens. The final token is always tokenEOF. Newlines
// between brackets are dropped, so that only a newline at the top level of a
// statement ends it.
func lex(src []byte) (*lexer, error) {
	dfa, err := compiled()
	if err != nil {
		panic("calc: lexer did not compile: " + err.Error())
	}
	scan, err := dfa.Scanner(src)
	if err != nil {
		return nil, err
	}
	l := &lexer{src: src}
	last := lexToken{line: 1, col: 1}
	depth := 0
	for tok, err, eof := scan.Next(); !eof; tok, err, eof = scan.Next() {
		if err != nil {
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				return nil, l.error(ui)
			}
			return nil, err
		}
		t := tok.(*lexmachine.Token)
		lt := lexToken{
			text: t.Value.(string),
			kind: tokenKind(t.Type),
			line: t.StartLine,
			col:  t.StartColumn,
			off:  t.TC,
		}
		switch lt.kind {
		case tokenNewline:
			// lexmachine places a newline at column 0 of the next line.
			lt.line, lt.col = l.after(last, lt.off)
		case tokenOpen:
			depth++
		case tokenClose:
			if depth > 0 {
				depth--
			}
		}
		last = lt
		if lt.kind == tokenNewline && depth > 0 {
			continue
		}
		parsetracer().Debugf("lex %v", lt)
		l.toks = append(l.toks, lt)
	}
	eof := lexToken{kind: tokenEOF, off: len(src)}
	eof.line, eof.col = l.after(last, len(src))
	l.toks = append(l.toks, eof)
	return l, nil
}

// after finds the line and column of off by walking forward from tok.
// Tokens arrive in order, so every byte is walked at most once.
func (l *lexer) after(tok lexToken, off int) (line, col int) {
	line, col = tok.line, tok.col
	for _, c := range l.src[tok.off:off] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// push unreads a token so that it is the next token returned from next.
// Pushed tokens are returned in the reverse order of pushing.
func (l *lexer) push(tok lexToken) {
	l.p = append(l.p, tok)
}

// must scans the most recently pushed token. Panics if there is no pushed
// token.
func (l *lexer) must() lexToken {
	if len(l.p) == 0 {
		panic("calc: no pushed token")
	}
	return l.next()
}

// next returns the next token. Once the input is exhausted, every call
// returns the EOF token.
func (l *lexer) next() lexToken {
	if n := len(l.p); n > 0 {
		tok := l.p[n-1]
		l.p = l.p[:n-1]
		return tok
	}
	tok := l.toks[l.i]
	if l.i < len(l.toks)-1 {
		l.i++
	}
	return tok
}

// pastlines returns the next token that is not a newline.
func (l *lexer) pastlines() lexToken {
	tok := l.next()
	for tok.kind == tokenNewline {
		tok = l.next()
	}
	return tok
}

// operand returns the next token in a position where an operand is expected.
// Newlines are skipped, since no statement can end there. A + or -
// immediately followed by a name or number, with nothing between them, is
// glued onto that token.
func (l *lexer) operand() lexToken {
	tok := l.pastlines()
	if tok.kind != tokenOp || (tok.text != "+" && tok.text != "-") {
		return tok
	}
	nt := l.next()
	if (nt.kind == tokenNum || nt.kind == tokenIdent) && nt.off == tok.off+len(tok.text) {
		nt.text = tok.text + nt.text
		nt.line, nt.col, nt.off = tok.line, tok.col, tok.off
		return nt
	}
	l.push(nt)
	return tok
}

func (l *lexer) error(ui *machines.UnconsumedInput) error {
	start, end := ui.StartTC, ui.FailTC+1
	if end > len(l.src) {
		end = len(l.src)
	}
	if start > end {
		start = end
	}
	return &LexError{Text: string(l.src[start:end]), Line: ui.StartLine, Col: ui.StartColumn}
}

// LexError indicates text that does not form any token. It implements
// SyntaxError.
type LexError struct {
	// Text is the text the lexer was scanning when it failed, including the
	// character that could not be matched.
	Text string
	// Line and Col give the position of the start of Text.
	Line, Col int
}

func (err *LexError) Error() string {
	return errpos(err.Line, err.Col, "invalid token: "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() (line, col int) {
	return err.Line, err.Col
}

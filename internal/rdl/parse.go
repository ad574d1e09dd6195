// Package rdl implements the lexer and item parser of the textual route
// description format:
//
//	chip(5,5) out(2) relay(2) hbus(46) chip(6,5) hbus(48) vbus(39) driver(left,99) term(5,0)
//
package rdl

import (
	"strings"
	"unicode"

	"github.com/db47h/hwroute/internal/lex"
	"github.com/pkg/errors"
)

// Tokens
const (
	EOF lex.Type = lex.EOF
	Raw lex.Type = iota
	Ident
	ParenOpen
	ParenClose
	Comma
	Int
)

// Lexer returns a new lexer for route descriptions.
//
func Lexer(input string) lex.Interface {
	return lex.New(strings.NewReader(input), lexInit)
}

func lexInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == lex.EOF:
		return lexEOF
	case unicode.IsSpace(r):
		l.AcceptWhile(unicode.IsSpace)
	case unicode.IsLetter(r) || r == '_':
		return lexIdent
	case r == '(':
		l.Emit(ParenOpen, "(")
	case r == ')':
		l.Emit(ParenClose, ")")
	case r == ',':
		l.Emit(Comma, ",")
	case '0' <= r && r <= '9':
		return lexNumber
	default:
		l.Emit(Raw, r)
		return lexEOF
	}
	return nil
}

func lexNumber(l *lex.Lexer) lex.StateFn {
	i := int(l.Current() - '0')
	r := l.Next()
	for '0' <= r && r <= '9' {
		if i < 1<<24 {
			i = i*10 + int(r-'0')
		}
		r = l.Next()
	}
	l.Backup()
	l.Emit(Int, i)
	return nil
}

func lexIdent(l *lex.Lexer) lex.StateFn {
	var buf strings.Builder
	buf.Grow(8)
	buf.WriteRune(l.Current())
	r := l.Next()
	for unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		buf.WriteRune(r)
		r = l.Next()
	}
	l.Backup()
	l.Emit(Ident, buf.String())
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *lex.Lexer) lex.StateFn {
	l.Emit(lex.EOF, "end of input")
	return lexEOF
}

// Arg is an item argument, either an integer or an identifier.
//
type Arg struct {
	Value interface{} // int or string
	Pos   lex.Pos
}

// Item is a route description item: name(arg, ...)
//
type Item struct {
	Name string
	Pos  lex.Pos
	Args []Arg
}

// Parser is a simplistic parser
//
type Parser struct {
	Input string
	l     lex.Interface
	i     lex.Item
	done  bool
}

// Next returns the next item in the input stream. It returns nil, nil at the
// end of input.
//
func (p *Parser) Next() (*Item, error) {
	if p.done {
		return nil, nil
	}
	if p.l == nil {
		p.l = Lexer(p.Input)
	}

	p.i = p.l.Lex()
	if p.i.Type == EOF {
		p.done = true
		return nil, nil
	}
	it, err := p.getItem()
	if err != nil {
		p.done = true
		return nil, err
	}
	return it, nil
}

func (p *Parser) getItem() (*Item, error) {
	if p.i.Type != Ident {
		return nil, Error(p.Input, p.i.Pos, "expected segment name, got "+p.i.String())
	}
	it := &Item{Name: p.i.Value.(string), Pos: p.i.Pos}
	p.i = p.l.Lex()
	if p.i.Type != ParenOpen {
		return nil, Error(p.Input, p.i.Pos, "'(' expected after "+it.Name)
	}
	for {
		p.i = p.l.Lex()
		switch p.i.Type {
		case Int, Ident:
			it.Args = append(it.Args, Arg{p.i.Value, p.i.Pos})
		default:
			return nil, Error(p.Input, p.i.Pos, "expected integer value or identifier, got "+p.i.String())
		}
		p.i = p.l.Lex()
		switch p.i.Type {
		case Comma:
			continue
		case ParenClose:
			return it, nil
		}
		return nil, Error(p.Input, p.i.Pos, "',' or ')' expected, got "+p.i.String())
	}
}

// Error returns a parse error for the given input and position.
//
func Error(in string, pos lex.Pos, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}

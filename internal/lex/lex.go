// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lex provides a minimal state function based lexer.
//
// A lexer is started with an initial StateFn. Each state reads runes with Next,
// emits zero or more items and returns the next state. A nil StateFn returns
// control to the initial state.
//
package lex

import (
	"bufio"
	"fmt"
	"io"
)

// EOF is both the rune returned by Next at the end of input and the Type of the
// item emitted at the end of input.
//
const EOF = -1

// Type is the type of a lexical item.
//
type Type int

// Pos is the 0-based rune offset of an item in the input.
//
type Pos int

// Item is a lexical item.
//
type Item struct {
	Type  Type
	Pos   Pos
	Value interface{}
}

func (i Item) String() string {
	switch v := i.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case rune:
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprint(i.Value)
}

// Interface is implemented by lexers.
//
type Interface interface {
	// Lex returns the next item in the input stream.
	Lex() Item
}

// StateFn is a lexer state function.
//
type StateFn func(l *Lexer) StateFn

// Lexer is a state function based lexer.
//
type Lexer struct {
	r     *bufio.Reader
	init  StateFn
	state StateFn
	items []Item

	cur   rune
	pos   Pos // position of cur
	start Pos // position of the item being lexed
	back  bool
	err   error
}

// New returns a new lexer reading from r, starting in state init.
//
func New(r io.Reader, init StateFn) *Lexer {
	return &Lexer{r: bufio.NewReader(r), init: init, pos: -1}
}

// Lex implements Interface.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		if l.state == nil {
			l.start = l.pos + 1
			if l.back {
				l.start = l.pos
			}
			l.state = l.init
		}
		l.state = l.state(l)
	}
	i := l.items[0]
	l.items = l.items[1:]
	return i
}

// Next returns the next rune in the input, or EOF.
//
func (l *Lexer) Next() rune {
	if l.back {
		l.back = false
		return l.cur
	}
	if l.cur == EOF && l.pos >= 0 {
		return EOF
	}
	r, _, err := l.r.ReadRune()
	l.pos++
	if err != nil {
		if err != io.EOF {
			l.err = err
		}
		r = EOF
	}
	l.cur = r
	return r
}

// Current returns the last rune returned by Next.
//
func (l *Lexer) Current() rune {
	return l.cur
}

// Backup undoes the last call to Next. It can only be called once between two
// calls to Next.
//
func (l *Lexer) Backup() {
	l.back = true
}

// AcceptWhile reads runes while f returns true. The first rune for which f
// returns false is backed up.
//
func (l *Lexer) AcceptWhile(f func(rune) bool) {
	r := l.Next()
	for r != EOF && f(r) {
		r = l.Next()
	}
	l.Backup()
}

// Emit emits an item of type t with value v, positioned at the start of the
// current token.
//
func (l *Lexer) Emit(t Type, v interface{}) {
	l.items = append(l.items, Item{Type: t, Pos: l.start, Value: v})
	l.start = l.pos + 1
	if l.back {
		l.start = l.pos
	}
}

// Err returns the first read error other than io.EOF encountered by the lexer.
//
func (l *Lexer) Err() error {
	return l.err
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwroute

import (
	"fmt"

	"github.com/db47h/hwroute/coord"
	"github.com/db47h/hwroute/internal/lex"
	"github.com/db47h/hwroute/internal/rdl"
	"github.com/pkg/errors"
)

// ParseSegment parses a single segment in the format returned by its String
// method. For example:
//
//	ParseSegment("driver(left,99)") // returns coord.DriverSlot{Side: coord.Left, Row: 99}
//
func ParseSegment(s string) (coord.Segment, error) {
	p := &rdl.Parser{Input: s}
	it, err := p.Next()
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, parseError(s, 0, "empty segment")
	}
	seg, err := segment(s, it)
	if err != nil {
		return nil, err
	}
	if it, err = p.Next(); err != nil {
		return nil, err
	}
	if it != nil {
		return nil, parseError(s, it.Pos, "unexpected "+it.Name+" after segment")
	}
	return seg, nil
}

// ParseRoute parses a route in the format returned by Route.String.
//
// Segments are separated by white space. A chip(x,y) item applies to the
// segment that follows it, which is added with AppendOn. Every other segment is
// added with Append.
//
func ParseRoute(s string) (Route, error) {
	var r Route
	p := &rdl.Parser{Input: s}
	for {
		it, err := p.Next()
		if err != nil {
			return Route{}, err
		}
		if it == nil {
			break
		}
		seg, err := segment(s, it)
		if err != nil {
			return Route{}, err
		}
		chip, ok := seg.(coord.Chip)
		if !ok {
			if err = r.Append(seg); err != nil {
				return Route{}, errors.Wrapf(err, "in %q at pos %d", s, it.Pos+1)
			}
			continue
		}
		if it, err = p.Next(); err != nil {
			return Route{}, err
		}
		if it == nil {
			return Route{}, parseError(s, lex.Pos(len(s)), "route can not end with a chip")
		}
		if seg, err = segment(s, it); err != nil {
			return Route{}, err
		}
		if err = r.AppendOn(chip, seg); err != nil {
			return Route{}, errors.Wrapf(err, "in %q at pos %d", s, it.Pos+1)
		}
	}
	return r, nil
}

// MustParseRoute is like ParseRoute but panics on error.
//
func MustParseRoute(s string) Route {
	r, err := ParseRoute(s)
	if err != nil {
		panic(err)
	}
	return r
}

// segment converts a parsed item to a segment.
//
func segment(in string, it *rdl.Item) (coord.Segment, error) {
	k, ok := coord.KindByName(it.Name)
	if !ok {
		return nil, parseError(in, it.Pos, "unknown segment kind "+it.Name)
	}
	want := 1
	switch k {
	case coord.KindChip, coord.KindDriverSlot, coord.KindTerminal:
		want = 2
	}
	if len(it.Args) != want {
		return nil, parseError(in, it.Pos, fmt.Sprintf("%s expects %d values, got %d", k, want, len(it.Args)))
	}
	var v [2]int
	for i, a := range it.Args {
		switch x := a.Value.(type) {
		case int:
			if i == 0 && k == coord.KindDriverSlot {
				return nil, parseError(in, a.Pos, "expected side left or right")
			}
			v[i] = x
		case string:
			side, ok := coord.ParseSide(x)
			if i != 0 || k != coord.KindDriverSlot || !ok {
				return nil, parseError(in, a.Pos, "unexpected identifier "+x)
			}
			v[i] = int(side)
		}
	}
	seg, err := coord.Make(k, v[0], v[1])
	if err != nil {
		return nil, parseError(in, it.Pos, err.Error())
	}
	return seg, nil
}

func parseError(in string, pos lex.Pos, msg string) error {
	return rdl.Error(in, pos, msg)
}

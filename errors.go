// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwroute

import (
	"strconv"

	"github.com/db47h/hwroute/coord"
	"github.com/pkg/errors"
)

// Sentinel errors. Use errors.Cause or the standard library errors.Is to test
// for them.
//
var (
	// ErrGrammar is the cause of every rejected append or extension.
	ErrGrammar = errors.New("invalid route")
	// ErrEmptyRoute is returned by queries that need at least one segment.
	ErrEmptyRoute = errors.New("empty route")
	// ErrIndexOutOfRange is returned by indexed reads past the route length.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrDisjointRoute is returned when adding a route that shares no
	// segment with the head of a non-empty tree.
	ErrDisjointRoute = errors.New("can not add disjoint route to non-empty tree")
	// ErrMalformed is the cause of every decoding failure.
	ErrMalformed = errors.New("malformed data")
)

// InvalidRouteError reports a segment that can not be inserted at a
// given position of a route.
//
type InvalidRouteError struct {
	Segment coord.Segment // offending segment, nil if none
	Index   int           // position of Segment in the resulting route
	Reason  string
}

func (e *InvalidRouteError) Error() string {
	msg := ErrGrammar.Error() + ": " + e.Reason
	if e.Segment != nil {
		msg += ": " + e.Segment.String() + " at index " + strconv.Itoa(e.Index)
	}
	return msg
}

// Cause returns ErrGrammar. It makes errors.Cause work on wrapped
// InvalidRouteErrors.
//
func (e *InvalidRouteError) Cause() error { return ErrGrammar }

// Unwrap returns ErrGrammar.
//
func (e *InvalidRouteError) Unwrap() error { return ErrGrammar }

func invalid(seg coord.Segment, index int, reason string) error {
	return &InvalidRouteError{Segment: seg, Index: index, Reason: reason}
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformed, format, args...)
}

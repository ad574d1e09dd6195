// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwroute

import (
	"github.com/db47h/hwroute/coord"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Wire format:
//
//	segment: [kind, a, b]
//	route:   [segment...]
//	tree:    [route, [tree...]]
//
// Decoders validate everything they read and leave the receiver untouched on
// error.

var (
	_ msgpack.CustomEncoder = Route{}
	_ msgpack.CustomDecoder = (*Route)(nil)
	_ msgpack.CustomEncoder = (*RouteTree)(nil)
	_ msgpack.CustomDecoder = (*RouteTree)(nil)
)

func encodeSegment(enc *msgpack.Encoder, s coord.Segment) error {
	a, b := coord.Values(s)
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(s.Kind())); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(a)); err != nil {
		return err
	}
	return enc.EncodeInt(int64(b))
}

func decodeSegment(dec *msgpack.Decoder) (coord.Segment, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n != 3 {
		return nil, malformed("segment with %d values", n)
	}
	var v [3]int
	for i := range v {
		if v[i], err = dec.DecodeInt(); err != nil {
			return nil, err
		}
	}
	if k := coord.Kind(v[0]); int(k) != v[0] || !k.Valid() {
		return nil, malformed("unknown segment kind %d", v[0])
	}
	s, err := coord.Make(coord.Kind(v[0]), v[1], v[2])
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return s, nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
//
func (r Route) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(len(r.segs)); err != nil {
		return err
	}
	for _, s := range r.segs {
		if err := encodeSegment(enc, s); err != nil {
			return err
		}
	}
	return nil
}

func decodeSegments(dec *msgpack.Decoder) ([]coord.Segment, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	segs := make([]coord.Segment, 0, min(n, 64))
	for i := 0; i < n; i++ {
		s, err := decodeSegment(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "segment %d", i)
		}
		segs = append(segs, s)
	}
	return segs, nil
}

func decodeRoute(dec *msgpack.Decoder) (Route, error) {
	segs, err := decodeSegments(dec)
	if err != nil {
		return Route{}, err
	}
	if bad := FindInvalid(segs); bad >= 0 {
		return Route{}, malformed("invalid segment %d in route %v", bad, Route{segs: segs})
	}
	return fromSegments(segs), nil
}

// DecodeMsgpack implements msgpack.CustomDecoder.
//
func (r *Route) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := decodeRoute(dec)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
//
func (r Route) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(r)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
func (r *Route) UnmarshalBinary(data []byte) error {
	var v Route
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return asMalformed(err, "decoding route")
	}
	*r = v
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
//
func (t *RouteTree) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := t.head.EncodeMsgpack(enc); err != nil {
		return err
	}
	if err := enc.EncodeArrayLen(len(t.tails)); err != nil {
		return err
	}
	for _, s := range t.tails {
		if err := s.EncodeMsgpack(enc); err != nil {
			return err
		}
	}
	return nil
}

// maxTreeDepth bounds the nesting of decoded trees.
//
const maxTreeDepth = 1 << 12

func decodeTree(dec *msgpack.Decoder, depth int) (*RouteTree, error) {
	if depth > maxTreeDepth {
		return nil, malformed("tree too deep")
	}
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, malformed("tree node with %d fields", n)
	}
	t := new(RouteTree)
	if t.head, err = decodeRoute(dec); err != nil {
		return nil, err
	}
	if n, err = dec.DecodeArrayLen(); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		s, err := decodeTree(dec, depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "tail %d", i)
		}
		t.tails = append(t.tails, s)
	}
	return t, nil
}

// check verifies the structural invariants of a decoded node.
//
func (t *RouteTree) check(root bool) error {
	if t.head.Empty() {
		if len(t.tails) > 0 {
			if root {
				return malformed("empty tree with tails")
			}
			return malformed("end marker with tails")
		}
		return nil
	}
	switch len(t.tails) {
	case 0:
		return nil
	case 1:
		return malformed("branch node %v with a single tail", t.head)
	}
	for i, s := range t.tails {
		if s.marker() {
			if i != len(t.tails)-1 {
				return malformed("misplaced end marker in tails of %v", t.head)
			}
			if len(s.tails) > 0 {
				return malformed("end marker with tails in tails of %v", t.head)
			}
			continue
		}
		if i > 0 {
			pc, ps := t.tails[i-1].head.key()
			c, seg := s.head.key()
			if compareKey(pc, ps, c, seg) >= 0 {
				return malformed("tails of %v not sorted or not distinct", t.head)
			}
		}
		if err := checkJunction(t.head, s.head); err != nil {
			return errors.Wrap(ErrMalformed, err.Error())
		}
		if err := s.check(false); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder.
//
func (t *RouteTree) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := decodeTree(dec, 0)
	if err != nil {
		return err
	}
	if err = v.check(true); err != nil {
		return err
	}
	*t = *v
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
//
func (t *RouteTree) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(t)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
func (t *RouteTree) UnmarshalBinary(data []byte) error {
	var v RouteTree
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return asMalformed(err, "decoding route tree")
	}
	*t = v
	return nil
}

// asMalformed makes sure that err has ErrMalformed as its cause. Errors from
// the msgpack decoder itself, like truncated input, are wrapped.
//
func asMalformed(err error, msg string) error {
	if !errors.Is(err, ErrMalformed) {
		err = errors.Wrap(ErrMalformed, err.Error())
	}
	return errors.Wrap(err, msg)
}

// Package flexpolyline decodes the flexible-polyline text format: a small
// header followed by a stream of delta-compressed, zigzag-encoded varints
// over a URL-safe 64-character alphabet.
package flexpolyline

import (
	"errors"
	"math"
	"strings"
)

// Decode failure taxonomy. Structural failures wrap one of these, so callers
// can classify them with errors.Is.
var (
	ErrInvalidArgument      = errors.New("polyline is empty")
	ErrInvalidFormatVersion = errors.New("unsupported format version")
	ErrInvalidEncoding      = errors.New("invalid encoding")
)

// zigzagReverse maps the unsigned wire value back to the signed delta. Odd
// values are negative; the complement form matches -((raw+1)>>1) at 64 bits.
func zigzagReverse(raw uint64) int64 {
	v := int64(raw)
	if v&1 != 0 {
		v = ^v
	}
	return v >> 1
}

// axisDecoder reconstructs one coordinate axis from its delta stream. Deltas
// accumulate into a running integer which is scaled down by the axis
// precision.
type axisDecoder struct {
	accumulator int64
	scale       float64
}

func newAxisDecoder(precision int) *axisDecoder {
	return &axisDecoder{scale: math.Pow10(precision)}
}

// decodeNext reads one varint, reverses its zigzag mapping and returns the
// accumulated axis value together with the advanced cursor.
func (d *axisDecoder) decodeNext(encoded string, index int) (float64, int, error) {
	raw, index, err := readVarint(encoded, index)
	if err != nil {
		return 0, index, err
	}
	d.accumulator += zigzagReverse(raw)
	return float64(d.accumulator) / d.scale, index, nil
}

// Decode decodes flexible-polyline text into its coordinate sequence. The
// whole input is consumed; any malformed content fails the call and no
// partial output is returned.
func Decode(encoded string) ([]Point, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrInvalidArgument
	}

	h, index, err := parseHeader(encoded)
	if err != nil {
		return nil, err
	}

	lat := newAxisDecoder(h.precision)
	lng := newAxisDecoder(h.precision)
	var third *axisDecoder
	if h.thirdDim != Absent {
		third = newAxisDecoder(h.thirdDimPrecision)
	}

	var points []Point
	for index < len(encoded) {
		var p Point
		if p.Lat, index, err = lat.decodeNext(encoded, index); err != nil {
			return nil, err
		}
		if p.Lng, index, err = lng.decodeNext(encoded, index); err != nil {
			return nil, err
		}
		if third != nil {
			if p.ThirdDim, index, err = third.decodeNext(encoded, index); err != nil {
				return nil, err
			}
		}
		points = append(points, p)
	}

	return points, nil
}

// ThirdDimensionOf parses only the header and reports which third dimension
// the polyline carries, without decoding any coordinate data.
func ThirdDimensionOf(encoded string) (ThirdDimension, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return Absent, ErrInvalidArgument
	}

	h, _, err := parseHeader(encoded)
	if err != nil {
		return Absent, err
	}
	return h.thirdDim, nil
}

package flexpolyline

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

// Test-only encoder counterpart, used to exercise round-trip properties.

func encodeUnsigned(buf []byte, value uint64) []byte {
	for value >= varintContinuation {
		buf = append(buf, encodeAlphabet[(value&varintDataMask)|varintContinuation])
		value >>= varintShift
	}
	return append(buf, encodeAlphabet[value])
}

func encodeSigned(buf []byte, delta int64) []byte {
	raw := uint64(delta) << 1
	if delta < 0 {
		raw = ^raw
	}
	return encodeUnsigned(buf, raw)
}

func headerBits(precision int, thirdDim ThirdDimension, thirdDimPrecision int) uint64 {
	return uint64(precision) | uint64(thirdDim)<<4 | uint64(thirdDimPrecision)<<7
}

func encodePolyline(precision int, thirdDim ThirdDimension, thirdDimPrecision int, points []Point) string {
	buf := encodeUnsigned(nil, FormatVersion)
	buf = encodeUnsigned(buf, headerBits(precision, thirdDim, thirdDimPrecision))

	scale := math.Pow10(precision)
	thirdScale := math.Pow10(thirdDimPrecision)
	var lastLat, lastLng, lastThird int64
	for _, p := range points {
		lat := int64(math.Round(p.Lat * scale))
		lng := int64(math.Round(p.Lng * scale))
		buf = encodeSigned(buf, lat-lastLat)
		buf = encodeSigned(buf, lng-lastLng)
		lastLat, lastLng = lat, lng

		if thirdDim != Absent {
			third := int64(math.Round(p.ThirdDim * thirdScale))
			buf = encodeSigned(buf, third-lastThird)
			lastThird = third
		}
	}
	return string(buf)
}

// quantize mirrors the fixed-point rounding the encoder applies, so decoded
// values can be compared exactly.
func quantize(v float64, precision int) float64 {
	scale := math.Pow10(precision)
	return math.Round(v*scale) / scale
}

func TestDecodeSinglePair(t *testing.T) {
	points, err := Decode("BFUU")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Point{{Lat: 0.0001, Lng: 0.0001}}
	if !reflect.DeepEqual(points, want) {
		t.Fatalf("got %v, want %v", points, want)
	}
}

func TestDecodeWithAltitude(t *testing.T) {
	// Header "lB": precision 5, third dimension altitude, precision 0.
	points, err := Decode("BlBUUO")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Point{{Lat: 0.0001, Lng: 0.0001, ThirdDim: 7}}
	if !reflect.DeepEqual(points, want) {
		t.Fatalf("got %v, want %v", points, want)
	}
}

func TestDecodeNegativeDeltas(t *testing.T) {
	// Second pair steps back to the origin: delta -10 zigzags to 19 ('T').
	points, err := Decode("BFUUTT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Point{{Lat: 0.0001, Lng: 0.0001}, {Lat: 0, Lng: 0}}
	if !reflect.DeepEqual(points, want) {
		t.Fatalf("got %v, want %v", points, want)
	}
}

func TestDecodeSurroundingWhitespace(t *testing.T) {
	points, err := Decode("  BFUU\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
}

func TestDecodeInvalidArgument(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n "} {
		if _, err := Decode(input); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Decode(%q): got %v, want ErrInvalidArgument", input, err)
		}
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	// 'C' decodes to version 2, 'A' to version 0.
	for _, input := range []string{"CFUU", "AFUU"} {
		if _, err := Decode(input); !errors.Is(err, ErrInvalidFormatVersion) {
			t.Errorf("Decode(%q): got %v, want ErrInvalidFormatVersion", input, err)
		}
	}
}

func TestDecodeInvalidEncoding(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"character below span", "BF!U"},
		{"character above span", "BF~U"},
		{"gap inside span", "BF[U"},
		{"truncated header", "B"},
		{"pending continuation", "BFg"},
		{"dangling longitude", "BFUUU"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.input); !errors.Is(err, ErrInvalidEncoding) {
				t.Fatalf("Decode(%q): got %v, want ErrInvalidEncoding", tc.input, err)
			}
		})
	}
}

func TestDecodeNoPartialOutput(t *testing.T) {
	// A full valid pair followed by a truncated varint must not leak the
	// already-decoded pair.
	points, err := Decode("BFUUg")
	if err == nil {
		t.Fatal("expected error")
	}
	if points != nil {
		t.Fatalf("expected nil points alongside the error, got %v", points)
	}
}

func TestDecodeDeterministic(t *testing.T) {
	input := encodePolyline(6, Elevation, 2, []Point{
		{Lat: 43.2630, Lng: -2.9350, ThirdDim: 12.25},
		{Lat: 43.2641, Lng: -2.9338, ThirdDim: 13.75},
	})
	first, err := Decode(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Decode(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two decodes of the same input differ: %v vs %v", first, second)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name              string
		precision         int
		thirdDim          ThirdDimension
		thirdDimPrecision int
		points            []Point
	}{
		{
			name:      "two dimensions precision 5",
			precision: 5,
			points: []Point{
				{Lat: 50.10228, Lng: 8.69821},
				{Lat: 50.10201, Lng: 8.69567},
				{Lat: 50.10063, Lng: 8.69150},
				{Lat: 50.09878, Lng: 8.68752},
			},
		},
		{
			name:      "high precision negative hemisphere",
			precision: 7,
			points: []Point{
				{Lat: -25.363882, Lng: 131.044922},
				{Lat: -25.366333, Lng: 131.048218},
			},
		},
		{
			name:              "altitude with two decimals",
			precision:         5,
			thirdDim:          Altitude,
			thirdDimPrecision: 2,
			points: []Point{
				{Lat: 43.2630, Lng: -2.9350, ThirdDim: 14.25},
				{Lat: 43.2633, Lng: -2.9344, ThirdDim: 11.5},
				{Lat: 43.2640, Lng: -2.9339, ThirdDim: 9},
			},
		},
		{
			name:              "level without scaling",
			precision:         6,
			thirdDim:          Level,
			thirdDimPrecision: 0,
			points: []Point{
				{Lat: 0, Lng: 0, ThirdDim: 1},
				{Lat: -0.000001, Lng: 0.000001, ThirdDim: -2},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded := encodePolyline(tc.precision, tc.thirdDim, tc.thirdDimPrecision, tc.points)

			decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode(%q): %v", encoded, err)
			}
			if len(decoded) != len(tc.points) {
				t.Fatalf("got %d points, want %d", len(decoded), len(tc.points))
			}

			for i, p := range tc.points {
				want := Point{
					Lat: quantize(p.Lat, tc.precision),
					Lng: quantize(p.Lng, tc.precision),
				}
				if tc.thirdDim != Absent {
					want.ThirdDim = quantize(p.ThirdDim, tc.thirdDimPrecision)
				}
				if decoded[i] != want {
					t.Errorf("point %d: got %v, want %v", i, decoded[i], want)
				}
			}
		})
	}
}

func TestDecodeAbsentThirdDimensionIsZero(t *testing.T) {
	encoded := encodePolyline(5, Absent, 0, []Point{
		{Lat: 50.10228, Lng: 8.69821},
		{Lat: 50.10201, Lng: 8.69567},
	})
	points, err := Decode(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range points {
		if p.ThirdDim != 0 {
			t.Errorf("point %d: third dimension %v, want exactly 0", i, p.ThirdDim)
		}
	}
}

func TestHeaderBitfieldRoundTrip(t *testing.T) {
	for p1 := 0; p1 <= 15; p1++ {
		for k := Absent; k <= Custom2; k++ {
			for p2 := 0; p2 <= 15; p2++ {
				buf := encodeUnsigned(nil, FormatVersion)
				buf = encodeUnsigned(buf, headerBits(p1, k, p2))

				h, index, err := parseHeader(string(buf))
				if err != nil {
					t.Fatalf("parseHeader(p1=%d k=%d p2=%d): %v", p1, k, p2, err)
				}
				if index != len(buf) {
					t.Fatalf("header cursor %d, want %d", index, len(buf))
				}
				if h.precision != p1 || h.thirdDim != k || h.thirdDimPrecision != p2 {
					t.Fatalf("got (%d, %v, %d), want (%d, %v, %d)",
						h.precision, h.thirdDim, h.thirdDimPrecision, p1, k, p2)
				}
			}
		}
	}
}

func TestZigzagRoundTrip(t *testing.T) {
	deltas := []int64{
		0, 1, -1, 2, -2, 10, -10, 1000, -1000,
		math.MaxInt32, math.MinInt32,
		math.MaxInt64 >> 1, -(math.MaxInt64 >> 1) - 1,
	}
	for _, d := range deltas {
		encoded := string(encodeSigned(nil, d))
		raw, index, err := readVarint(encoded, 0)
		if err != nil {
			t.Fatalf("readVarint for delta %d: %v", d, err)
		}
		if index != len(encoded) {
			t.Fatalf("delta %d: cursor %d, want %d", d, index, len(encoded))
		}
		if got := zigzagReverse(raw); got != d {
			t.Errorf("delta %d: round-tripped to %d", d, got)
		}
	}
}

func TestThirdDimensionOf(t *testing.T) {
	tests := []struct {
		input string
		want  ThirdDimension
	}{
		{"BlB", Altitude},
		{"BlBUUO", Altitude},
		{"BFUU", Absent},
		{encodePolyline(5, Elevation, 1, nil), Elevation},
		{encodePolyline(5, Custom2, 0, nil), Custom2},
	}
	for _, tc := range tests {
		got, err := ThirdDimensionOf(tc.input)
		if err != nil {
			t.Errorf("ThirdDimensionOf(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ThirdDimensionOf(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestThirdDimensionOfErrors(t *testing.T) {
	if _, err := ThirdDimensionOf("  "); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank input: got %v, want ErrInvalidArgument", err)
	}
	if _, err := ThirdDimensionOf("CF"); !errors.Is(err, ErrInvalidFormatVersion) {
		t.Errorf("version 2: got %v, want ErrInvalidFormatVersion", err)
	}
	if _, err := ThirdDimensionOf("B"); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("missing header varint: got %v, want ErrInvalidEncoding", err)
	}
}

func TestThirdDimensionString(t *testing.T) {
	if got := Altitude.String(); got != "altitude" {
		t.Errorf("Altitude.String() = %q", got)
	}
	if got := ThirdDimension(42).String(); got != "unknown" {
		t.Errorf("out of range String() = %q", got)
	}
}

func TestDecodeLongChain(t *testing.T) {
	// A straight run of identical steps keeps the accumulators moving; every
	// decoded value must land exactly on the grid.
	var points []Point
	for i := 0; i < 250; i++ {
		points = append(points, Point{
			Lat: float64(i) * 0.00001,
			Lng: 8 - float64(i)*0.00002,
		})
	}
	encoded := encodePolyline(5, Absent, 0, points)

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != len(points) {
		t.Fatalf("got %d points, want %d", len(decoded), len(points))
	}
	for i := range points {
		want := Point{Lat: quantize(points[i].Lat, 5), Lng: quantize(points[i].Lng, 5)}
		if decoded[i] != want {
			t.Fatalf("point %d: got %v, want %v", i, decoded[i], want)
		}
	}
}

func TestDecodeConcurrent(t *testing.T) {
	// Decoding shares only the immutable alphabet table.
	input := encodePolyline(5, Altitude, 1, []Point{
		{Lat: 1, Lng: 2, ThirdDim: 3},
		{Lat: 1.5, Lng: 2.5, ThirdDim: 3.5},
	})
	want, err := Decode(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				got, err := Decode(input)
				if err != nil {
					done <- err
					return
				}
				if !reflect.DeepEqual(got, want) {
					done <- errors.New("concurrent decode mismatch")
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}

func TestDecodeConsumesWholeInput(t *testing.T) {
	// Appending one more full group keeps the input valid, which implies the
	// loop only stops at the exact end of the text.
	base := encodePolyline(5, Absent, 0, []Point{{Lat: 0.0001, Lng: 0.0001}})
	extended := base + strings.Repeat("U", 2)

	points, err := Decode(extended)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
}

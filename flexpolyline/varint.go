package flexpolyline

import "fmt"

const (
	varintShift        = 5
	varintDataMask     = 0x1F
	varintContinuation = 0x20
)

// readVarint decodes one unsigned varint starting at index and returns the
// value together with the advanced cursor. Each character carries 5 data bits
// plus a continuation flag in bit 5; groups accumulate little-endian, the
// first character filling bits 0-4.
func readVarint(encoded string, index int) (uint64, int, error) {
	var value uint64
	shift := uint(0)

	for index < len(encoded) {
		v := decodeChar(encoded[index])
		if v < 0 {
			return 0, index, fmt.Errorf("%w: character %q at position %d", ErrInvalidEncoding, encoded[index], index)
		}
		if shift >= 64 {
			// A conforming encoder never emits values past 64 bits.
			return 0, index, fmt.Errorf("%w: varint wider than 64 bits at position %d", ErrInvalidEncoding, index)
		}

		value |= uint64(v&varintDataMask) << shift
		index++

		if v&varintContinuation == 0 {
			return value, index, nil
		}
		shift += varintShift
	}

	return 0, index, fmt.Errorf("%w: truncated varint at position %d", ErrInvalidEncoding, index)
}

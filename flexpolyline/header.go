package flexpolyline

import "fmt"

// FormatVersion is the only wire format version this decoder accepts.
const FormatVersion = 1

// header holds the decoded per-polyline parameters: fixed-point precision for
// lat/lng, and kind plus precision for the optional third axis.
type header struct {
	precision         int
	thirdDim          ThirdDimension
	thirdDimPrecision int
}

// parseHeader consumes the version varint and the header varint, then unpacks
// the header bitfield: bits 0-3 precision, bits 4-6 third-dimension kind,
// bits 7-10 third-dimension precision.
func parseHeader(encoded string) (header, int, error) {
	version, index, err := readVarint(encoded, 0)
	if err != nil {
		return header{}, index, err
	}
	if version != FormatVersion {
		return header{}, index, fmt.Errorf("%w: version %d, supported %d", ErrInvalidFormatVersion, version, FormatVersion)
	}

	bits, index, err := readVarint(encoded, index)
	if err != nil {
		return header{}, index, err
	}

	h := header{
		precision:         int(bits & 0xF),
		thirdDim:          ThirdDimension((bits >> 4) & 0x7),
		thirdDimPrecision: int((bits >> 7) & 0xF),
	}
	return h, index, nil
}

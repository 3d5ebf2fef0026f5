package flexpolyline

// The format uses its own 64-character ordering, not base64url:
// A-Z -> 0-25, a-z -> 26-51, 0-9 -> 52-61, '-' -> 62, '_' -> 63.
const encodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

const (
	alphabetMin = '-' // lowest admissible code point (45)
	alphabetMax = 'z' // highest admissible code point (122)
)

// decodeTable maps code points in the [alphabetMin, alphabetMax] span to
// their 6-bit values; -1 marks the gaps inside the span.
var decodeTable [alphabetMax - alphabetMin + 1]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for i := 0; i < len(encodeAlphabet); i++ {
		decodeTable[encodeAlphabet[i]-alphabetMin] = int8(i)
	}
}

// decodeChar returns the 6-bit value of c, or -1 when c is not part of the
// alphabet.
func decodeChar(c byte) int8 {
	if c < alphabetMin || c > alphabetMax {
		return -1
	}
	return decodeTable[c-alphabetMin]
}

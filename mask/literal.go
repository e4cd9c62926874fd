package mask

import (
	"log/slog"
	"strconv"
)

// ParseLiteral parses s as an unsigned integer in C notation: a "0x" or "0X"
// prefix selects hexadecimal, a leading '0' selects octal, and anything else
// is decimal. The entire string must be consumed. Signs, digit separators
// and surrounding whitespace are rejected.
func ParseLiteral(s string) (Mask, error) {
	digits, base := s, 10

	switch {
	case len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		digits, base = s[2:], 16
	case len(s) > 1 && s[0] == '0':
		digits, base = s[1:], 8
	}

	n, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, ErrInvalidLiteral.With(slog.String("literal", s)).Wrap(err)
	}

	return Mask(n), nil
}

package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// CoerceInt reads the leading integer of s the way a lenient form field does:
// surrounding whitespace is ignored, trailing garbage is dropped, and input
// without any leading digits yields 0.
func CoerceInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// ParseNonNegativeInt parses s strictly as a base-10 integer >= 0.
func ParseNonNegativeInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

package engine

import "strings"

// Atoi parses the leading optionally signed decimal integer of s, ignoring
// leading whitespace and anything after the digits. It returns 0 when there
// are no digits, like C's atoi.
func Atoi(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\v\f\r")

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	var n int64
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int64(s[i]-'0')
	}

	if neg {
		return -n
	}
	return n
}

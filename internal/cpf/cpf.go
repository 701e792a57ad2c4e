// Package cpf validates and formats Brazilian CPF numbers.
//
// A CPF has nine base digits followed by two modulo-11 check digits. The
// first check digit weighs the base digits 10..2, the second weighs the base
// digits plus the first check digit 11..2. A remainder of 10 counts as 0.
package cpf

import "strings"

// Length is the number of digits in a CPF
const Length = 11

// Value is a parsed CPF. Formatted is empty when Valid is false.
type Value struct {
	Formatted string `json:"formatted,omitempty"`
	Valid     bool   `json:"valid"`
}

// Parse validates raw and returns its canonical form
func Parse(raw string) Value {
	formatted, ok := Format(raw)
	return Value{Formatted: formatted, Valid: ok}
}

// Valid reports whether raw holds a valid CPF
func Valid(raw string) bool {
	_, ok := Format(raw)
	return ok
}

// Format strips everything but digits from raw and, when the digits form a
// valid CPF, returns them as XXX.XXX.XXX-YY. It never fails loudly: any
// malformed input returns false.
func Format(raw string) (string, bool) {
	digits := cleanDigits(raw)

	if len(digits) != Length {
		return "", false
	}

	if strings.Count(digits, digits[:1]) == Length {
		return "", false
	}

	if checkDigit(digits, 9) != int(digits[9]-'0') {
		return "", false
	}

	if checkDigit(digits, 10) != int(digits[10]-'0') {
		return "", false
	}

	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:], true
}

// checkDigit computes the check digit over the first n digits, weighting
// them n+1 down to 2
func checkDigit(digits string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}

	d := (sum * 10) % 11
	if d == 10 {
		return 0
	}
	return d
}

// cleanDigits keeps only the ASCII digits of s
func cleanDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

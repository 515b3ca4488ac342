// Package abn validates Australian Business Numbers.
//
// An ABN is 11 digits. It is valid when, after subtracting 1 from the first
// digit, the weighted digit sum is divisible by 89.
package abn

import (
	"strings"
	"unicode"
)

// Length is the number of digits in an ABN
const Length = 11

const modulus = 89

var weights = [Length]int{10, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19}

// Normalize strips whitespace and hyphens. It returns false when the
// remainder is not exactly 11 ASCII digits.
func Normalize(raw string) (string, bool) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, raw)

	if len(clean) != Length {
		return "", false
	}
	for i := 0; i < len(clean); i++ {
		if clean[i] < '0' || clean[i] > '9' {
			return "", false
		}
	}
	return clean, true
}

// IsValid reports whether raw is a well-formed ABN with a correct checksum.
// It never panics; malformed input yields false.
func IsValid(raw string) bool {
	clean, ok := Normalize(raw)
	if !ok {
		return false
	}

	sum := 0
	for i := 0; i < Length; i++ {
		digit := int(clean[i] - '0')
		if i == 0 {
			digit--
		}
		sum += digit * weights[i]
	}
	return sum%modulus == 0
}

// Format renders a valid ABN in the grouped "51 824 753 556" form.
// Invalid input is returned unchanged.
func Format(raw string) string {
	if !IsValid(raw) {
		return raw
	}
	clean, _ := Normalize(raw)
	return clean[0:2] + " " + clean[2:5] + " " + clean[5:8] + " " + clean[8:11]
}

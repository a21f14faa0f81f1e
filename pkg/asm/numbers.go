package asm

import "asm6502/pkg/diag"

// Digit bounds keep every literal inside a uint64.
const (
	maxBinaryDigits  = 64
	maxHexDigits     = 16
	maxDecimalDigits = 19
)

var (
	powersOfTwo     [maxBinaryDigits]uint64
	powersOfSixteen [maxHexDigits]uint64
	powersOfTen     [maxDecimalDigits]uint64
)

func init() {
	powersOfTwo[0], powersOfSixteen[0], powersOfTen[0] = 1, 1, 1
	for i := 1; i < maxBinaryDigits; i++ {
		powersOfTwo[i] = powersOfTwo[i-1] * 2
	}
	for i := 1; i < maxHexDigits; i++ {
		powersOfSixteen[i] = powersOfSixteen[i-1] * 16
	}
	for i := 1; i < maxDecimalDigits; i++ {
		powersOfTen[i] = powersOfTen[i-1] * 10
	}
}

// HexToInt converts a run of hex digits (no prefix) to its value.
func HexToInt(digits string) (uint64, error) {
	return weightedSum(digits, powersOfSixteen[:], hexDigit, "hex")
}

// BinaryToInt converts a run of 0/1 digits (no prefix) to its value.
func BinaryToInt(digits string) (uint64, error) {
	return weightedSum(digits, powersOfTwo[:], binaryDigit, "binary")
}

// DecimalToInt converts a run of decimal digits to its value.
func DecimalToInt(digits string) (uint64, error) {
	return weightedSum(digits, powersOfTen[:], decimalDigit, "decimal")
}

// weightedSum walks digits from the least significant end, multiplying each
// digit by the matching entry of powers.
func weightedSum(digits string, powers []uint64, digit func(byte) (uint64, bool), base string) (uint64, error) {
	if len(digits) == 0 {
		return 0, diag.Errorf(diag.KindLex, diag.Pos{}, "empty %s literal", base)
	}
	if len(digits) > len(powers) {
		return 0, diag.Errorf(diag.KindLex, diag.Pos{}, "%s literal %q exceeds %d digits", base, digits, len(powers))
	}

	var result uint64
	for i := 0; i < len(digits); i++ {
		ch := digits[len(digits)-1-i]
		v, ok := digit(ch)
		if !ok {
			return 0, diag.Errorf(diag.KindLex, diag.Pos{}, "invalid %s digit %q", base, ch)
		}
		result += powers[i] * v
	}
	return result, nil
}

func hexDigit(ch byte) (uint64, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return uint64(ch - '0'), true
	case ch >= 'a' && ch <= 'f':
		return uint64(ch-'a') + 10, true
	case ch >= 'A' && ch <= 'F':
		return uint64(ch-'A') + 10, true
	}
	return 0, false
}

func binaryDigit(ch byte) (uint64, bool) {
	if ch == '0' || ch == '1' {
		return uint64(ch - '0'), true
	}
	return 0, false
}

func decimalDigit(ch byte) (uint64, bool) {
	if ch >= '0' && ch <= '9' {
		return uint64(ch - '0'), true
	}
	return 0, false
}

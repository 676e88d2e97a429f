package domain

import (
	"math"
	"strconv"
	"strings"
)

// Code is a categorical value that the source spreadsheets store as a number:
// borough code, block, lot, zip code, tax class and year built. Keeping it
// string-backed prevents arithmetic on identifiers. The empty Code is null.
type Code string

// CodeFromText keeps a string-typed cell verbatim, leading zeros included,
// so a lot stored as the text "0012" stays "0012".
func CodeFromText(raw string) Code {
	return Code(strings.TrimSpace(raw))
}

// CodeFromCell converts a numeric cell value to a Code. Numbers render the
// way a float column renders as text, so 1 becomes "1.0" and 10001 becomes
// "10001.0"; values that do not parse as numbers are kept verbatim.
func CodeFromCell(raw string) Code {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Code(raw)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e16 {
		return Code(strconv.FormatFloat(v, 'f', 0, 64) + ".0")
	}
	return Code(strconv.FormatFloat(v, 'g', -1, 64))
}

// IsNull reports whether the code is missing.
func (c Code) IsNull() bool {
	return c == ""
}

// Prefix returns the first n characters of the code, or the whole code when shorter.
func (c Code) Prefix(n int) string {
	s := string(c)
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (c Code) String() string {
	return string(c)
}

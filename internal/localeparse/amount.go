package localeparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a locale-formatted currency string ("-€4,99",
// "€1.234,56") into signed ledger minor units (-4990, 1234560).
//
// Everything except digits and the two possible separators is stripped. When
// both a comma and a dot occur, the last occurring separator is the decimal
// point; a lone comma is a decimal point and a lone dot a grouping separator
// (German convention). The sign is positive when the text carries an explicit
// "+" or refundHint is true, negative otherwise.
//
// Rounding at the cent boundary is half away from zero (math.Round), never
// truncation, so "-€4,99" parsed through float space still yields -4990.
func ParseAmount(text string, refundHint bool) int64 {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' || r == '.' {
			return r
		}
		return -1
	}, text)
	if cleaned == "" {
		return 0
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	var normalized string
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			normalized = decimalize(cleaned, ',', '.')
		} else {
			normalized = decimalize(cleaned, '.', ',')
		}
	case lastComma >= 0:
		normalized = decimalize(cleaned, ',', '.')
	case lastDot >= 0:
		// A lone dot is a grouping separator in this locale.
		normalized = strings.ReplaceAll(cleaned, ".", "")
	default:
		normalized = cleaned
	}

	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0
	}

	minor := int64(math.Round(f * 1000))
	if strings.Contains(text, "+") || refundHint {
		return minor
	}
	return -minor
}

// decimalize keeps the last occurrence of dec as the decimal point and drops
// every grouping separator, returning a strconv-parseable string.
func decimalize(s string, dec, group rune) string {
	s = strings.ReplaceAll(s, string(group), "")
	if i := strings.LastIndexByte(s, byte(dec)); i >= 0 {
		s = strings.ReplaceAll(s[:i], string(dec), "") + "." + s[i+1:]
	}
	return s
}

// FormatAmount renders minor units back into the locale's display form with
// an explicit sign: -4990 -> "-€4,99", 1234560 -> "+€1.234,56". It is the
// inverse of ParseAmount for representable amounts and also feeds memo text.
func FormatAmount(minor int64) string {
	sign := "+"
	if minor < 0 {
		sign = "-"
		minor = -minor
	}

	cents := (minor + 5) / 10
	euros := cents / 100
	rem := cents % 100

	euroStr := strconv.FormatInt(euros, 10)
	var grouped strings.Builder
	lead := len(euroStr) % 3
	if lead > 0 {
		grouped.WriteString(euroStr[:lead])
	}
	for i := lead; i < len(euroStr); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteString(euroStr[i : i+3])
	}

	return fmt.Sprintf("%s€%s,%02d", sign, grouped.String(), rem)
}

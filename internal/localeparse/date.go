// Package localeparse converts the German-locale free text produced by the
// retailer's transaction page into canonical values: civil dates and signed
// integer amounts in ledger minor units. Input conventions are fixed, not
// auto-detected: German month names, "€"-prefixed amounts, comma decimal
// separator, dot grouping separator.
package localeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"cloud.google.com/go/civil"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNoDate is returned when no recognizable German date occurs in the text.
var ErrNoDate = errors.New("localeparse: no German date found")

// germanMonths maps accent-folded lowercase month names to month numbers.
// Keys are the canonical forms produced by foldAccents ("märz" -> "marz").
var germanMonths = map[string]time.Month{
	"januar":    time.January,
	"februar":   time.February,
	"marz":      time.March,
	"april":     time.April,
	"mai":       time.May,
	"juni":      time.June,
	"juli":      time.July,
	"august":    time.August,
	"september": time.September,
	"oktober":   time.October,
	"november":  time.November,
	"dezember":  time.December,
}

// datePattern matches "17. September 2025" anywhere in a text block.
var datePattern = regexp.MustCompile(`(\d{1,2})\.\s*([\p{L}]+)\s+(\d{4})`)

// foldTransformer strips combining marks after NFD decomposition, so that
// "März" and a scraped "März" both fold to "marz".
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldAccents(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

// ParseDate extracts the first German day/month-name/year date from text and
// returns it as a civil date. A non-matching text yields ErrNoDate (wrapped),
// never a panic; unknown month words are reported with the offending word.
func ParseDate(text string) (civil.Date, error) {
	_, d, err := ExtractDate(text)
	return d, err
}

// ExtractDate is ParseDate plus the raw matched substring, which the
// normalizer keeps verbatim for display.
func ExtractDate(text string) (string, civil.Date, error) {
	m := datePattern.FindStringSubmatch(text)
	if m == nil {
		return "", civil.Date{}, fmt.Errorf("%w in %q", ErrNoDate, truncateForError(text))
	}

	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return "", civil.Date{}, fmt.Errorf("localeparse: invalid day %q", m[1])
	}

	monthKey := strings.ToLower(foldAccents(m[2]))
	month, ok := germanMonths[monthKey]
	if !ok {
		return "", civil.Date{}, fmt.Errorf("localeparse: unknown month %q", m[2])
	}

	year, err := strconv.Atoi(m[3])
	if err != nil {
		return "", civil.Date{}, fmt.Errorf("localeparse: invalid year %q", m[3])
	}

	d := civil.Date{Year: year, Month: month, Day: day}
	if !d.IsValid() {
		return "", civil.Date{}, fmt.Errorf("localeparse: impossible date %s", d)
	}
	return strings.TrimSpace(m[0]), d, nil
}

func truncateForError(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}

package ledgersync

import (
	"strings"
	"testing"

	"cloud.google.com/go/civil"
)

func TestImportIDDeterministic(t *testing.T) {
	date := civil.Date{Year: 2025, Month: 9, Day: 17}

	got := ImportID(-4990, date)
	if got != "AMZN:-4990:2025-09-17:1" {
		t.Errorf("ImportID = %q", got)
	}
	if got != ImportID(-4990, date) {
		t.Error("ImportID must be a pure function of amount and date")
	}
}

func TestRetryImportIDDistinct(t *testing.T) {
	date := civil.Date{Year: 2025, Month: 9, Day: 17}

	first := ImportID(-4990, date)
	retry := RetryImportID(-4990, date, "k3x9")
	if retry == first {
		t.Error("retry id must differ from the first-attempt id")
	}
	if retry != "AMZN:-4990:2025-09-17:Rk3x9" {
		t.Errorf("RetryImportID = %q", retry)
	}
	if retry == RetryImportID(-4990, date, "k3xa") {
		t.Error("different suffixes must yield different retry ids")
	}
}

func TestCompanionImportID(t *testing.T) {
	got := CompanionImportID("AMZN:-4990:2025-09-17:1")
	if got != "AMZN:-4990:2025-09-17:1:pts" {
		t.Errorf("CompanionImportID = %q", got)
	}
}

func TestImportIDLengthCeiling(t *testing.T) {
	date := civil.Date{Year: 2025, Month: 9, Day: 17}

	ids := []string{
		ImportID(-1234567890123, date),
		RetryImportID(-1234567890123, date, strings.Repeat("z", 20)),
		CompanionImportID(RetryImportID(-1234567890123, date, strings.Repeat("z", 20))),
	}
	for _, id := range ids {
		if len(id) > MaxImportIDLen {
			t.Errorf("id %q exceeds %d characters", id, MaxImportIDLen)
		}
	}
}

func TestClockSuffixSourceNonEmpty(t *testing.T) {
	src := NewClockSuffixSource()
	if src.Next(0) == "" {
		t.Error("suffix source must never return an empty suffix")
	}
	if src.Next(0) == src.Next(7) {
		t.Error("different seeds at the same instant must differ")
	}
}

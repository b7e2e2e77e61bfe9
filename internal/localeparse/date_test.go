package localeparse

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    civil.Date
		wantErr bool
	}{
		{
			name: "plain date",
			text: "17. September 2025",
			want: civil.Date{Year: 2025, Month: 9, Day: 17},
		},
		{
			name: "date embedded in block text",
			text: "Bestellung aufgegeben\n01. Januar 2025\n-€39,98",
			want: civil.Date{Year: 2025, Month: 1, Day: 1},
		},
		{
			name: "accented month",
			text: "3. März 2024",
			want: civil.Date{Year: 2024, Month: 3, Day: 3},
		},
		{
			name: "decomposed umlaut from scrape",
			text: "3. März 2024",
			want: civil.Date{Year: 2024, Month: 3, Day: 3},
		},
		{
			name: "single digit day without padding",
			text: "5. Dezember 2023",
			want: civil.Date{Year: 2023, Month: 12, Day: 5},
		},
		{
			name:    "unknown month word",
			text:    "17. Frimaire 2025",
			wantErr: true,
		},
		{
			name:    "english month is rejected",
			text:    "17. March 2025",
			wantErr: true,
		},
		{
			name:    "no date at all",
			text:    "Zahlung ausstehend",
			wantErr: true,
		},
		{
			name:    "impossible calendar date",
			text:    "31. Februar 2025",
			wantErr: true,
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseDateErrNoDate(t *testing.T) {
	_, err := ParseDate("kein Datum hier")
	if !errors.Is(err, ErrNoDate) {
		t.Errorf("ParseDate error = %v, want ErrNoDate", err)
	}
}

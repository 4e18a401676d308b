package metadata

import "testing"

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"PT3M32S", 212},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT10M", 600},
	}

	for _, tc := range cases {
		got, err := ParseISODuration(tc.in)
		if err != nil {
			t.Errorf("ParseISODuration(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseISODuration(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestParseISODurationInvalid(t *testing.T) {
	for _, in := range []string{"", "3m", "P1D", "PT", "PTxS"} {
		if _, err := ParseISODuration(in); err == nil {
			t.Errorf("Expected error for %q, got nil", in)
		}
	}
}

func TestNormalizeUploadDate(t *testing.T) {
	if got := normalizeUploadDate("2024-03-01T12:30:00Z"); got != "20240301" {
		t.Errorf("Expected 20240301, got %q", got)
	}
	if got := normalizeUploadDate("not a date"); got != "" {
		t.Errorf("Expected empty string for bad input, got %q", got)
	}
}

package arrivals

import "testing"

func TestParseDuration_AcceptedForms(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1h 30m", 90},
		{"2h", 120},
		{"45m", 45},
		{"90", 90},
		{" 1H 5M ", 65},
		{"1h 0m", 60},
	}
	for _, tc := range cases {
		got, err := ParseDuration(tc.in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDuration(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseDuration_Rejections(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "1x", "-30m", "0", "0h 0m"} {
		if _, err := ParseDuration(in); err == nil {
			t.Fatalf("ParseDuration(%q): expected error", in)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{90, "1h 30m"},
		{120, "2h"},
		{45, "45m"},
		{0, "-"},
	}
	for _, tc := range cases {
		if got := FormatMinutes(tc.in); got != tc.want {
			t.Fatalf("FormatMinutes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

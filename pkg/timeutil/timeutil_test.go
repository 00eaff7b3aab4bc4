package timeutil

import "testing"

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{65, "1:05"},
		{3725, "62:05"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.in); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPrecise(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00.000"},
		{5.25, "0:05.250"},
		{61.0333, "1:01.033"},
		{59.9996, "1:00.000"},
	}
	for _, tt := range tests {
		if got := FormatPrecise(tt.in); got != tt.want {
			t.Errorf("FormatPrecise(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(4282); got != "1:11:22" {
		t.Errorf("FormatTime(4282) = %q, want %q", got, "1:11:22")
	}
}

func TestParseTimeToSeconds(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1:11:22", 4282, false},
		{"2:05", 125, false},
		{"12.5", 12.5, false},
		{"1:02.500", 62.5, false},
		{"-3", 0, true},
		{"1:x", 0, true},
		{"abc", 0, true},
		{"1:2:3:4", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeToSeconds(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTimeToSeconds(%q) = %v, %v, want %v (err %v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

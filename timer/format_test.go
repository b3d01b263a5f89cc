package timer

import "testing"

func TestFormatTimeSeconds(t *testing.T) {
	testCases := []struct {
		Expected string
		Seconds  int
	}{
		{"00:00", 0},
		{"00:59", 59},
		{"01:00", 60},
		{"25:00", 1500},
		{"100:00", 6000},
		{"00:00", -12},
	}

	for _, tc := range testCases {
		got := FormatTimeSeconds(tc.Seconds)
		if got != tc.Expected {
			t.Errorf("FormatTimeSeconds(%d) = %q, want %q", tc.Seconds, got, tc.Expected)
		}
	}
}

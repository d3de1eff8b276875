package sukebei

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1.5 GiB", 1610612736},
		{"2KB", 2000},
		{"512 B", 512},
		{"3 kb", 3000},
		{"1 KiB", 1024},
		{"2.5 MB", 2_500_000},
		{"1 MiB", 1 << 20},
		{"4 GB", 4_000_000_000},
		{"1 GiB", 1 << 30},
		{"1 TB", 1_000_000_000_000},
		{"2 TiB", 2 << 40},
		{"  700 MiB  ", 700 << 20},
		{"1.5\u00a0GiB", 1610612736},
		{"\u00a0300\u00a0MB\u00a0", 300_000_000},
		{"1.0001 KB", 1000}, // floored
		{"10 iB", 10},       // shape matches, unit unknown
		{"1.2.3 KB", 1200},  // lenient number prefix
		{"garbage", 0},
		{"", 0},
		{"12 PB", 0},
		{"GiB", 0},
		{"-1 GB", 0},
		{". KB", 0},
	}

	for _, tc := range tests {
		if got := ParseSize(tc.input); got != tc.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

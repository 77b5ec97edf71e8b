package util

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"25MB", 25 * 1024 * 1024},
		{"512KB", 512 * 1024},
		{"1GB", 1024 * 1024 * 1024},
		{"2048", 2048},
		{"  25MB  ", 25 * 1024 * 1024},
		{"25mb", 25 * 1024 * 1024},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseSize(tc.input, 0); got != tc.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseSize_Default(t *testing.T) {
	defaultVal := int64(25 * 1024 * 1024)
	if got := ParseSize("", defaultVal); got != defaultVal {
		t.Errorf("expected default %d, got %d", defaultVal, got)
	}
	if got := ParseSize("oops", defaultVal); got != defaultVal {
		t.Errorf("expected default %d for invalid input, got %d", defaultVal, got)
	}
}

func TestFormatSizeMB(t *testing.T) {
	if got := FormatSizeMB(26 * 1024 * 1024); got != "26.0MB" {
		t.Errorf("FormatSizeMB(26MiB) = %q, want 26.0MB", got)
	}
	if got := FormatSizeMB(5*1024*1024 + 512*1024); got != "5.5MB" {
		t.Errorf("FormatSizeMB(5.5MiB) = %q, want 5.5MB", got)
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("gsk_abcdef123456", 6); got != "gsk_ab***" {
		t.Errorf("MaskSecret long = %q", got)
	}
	if got := MaskSecret("ab", 6); got != "***" {
		t.Errorf("MaskSecret short = %q", got)
	}
}

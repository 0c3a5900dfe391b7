// internal/rules/formats_test.go
package rules

import "testing"

func TestValidEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"a@b.co", true},
		{"first.last+tag@mail.example.org", true},
		{"a@b", false},
		{"@b.co", false},
		{"a@@b.co", false},
		{"a@b@c.co", false},
		{"a@.b.co", true},
		{"a@b.co.", true},
		{"a@.com", false},
		{"a@com.", false},
		{"a@.", false},
		{"a@..", false},
		{"a@b.", false},
		{"a@.b", false},
		{"a@b.c", true},
		{"", false},
		{"plain", false},
	}

	for _, tt := range tests {
		if got := ValidEmail(tt.input); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2026-08-12", true},
		{"2024-02-29", true},
		{"2026-02-29", false},
		{"2026-02-30", false},
		{"2026-13-01", false},
		{"2026-8-12", false},
		{"2026-08-12T00:00Z", false},
		{"12/08/2026", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidDate(tt.input); got != tt.want {
			t.Errorf("ValidDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidDateTime(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2026-08-12T10:00", true},
		{"2026-08-12T10:00Z", true},
		{"2026-08-12T10:00:59Z", true},
		{"2026-08-12T23:59:59+14:00", true},
		{"2026-08-12T00:00-05:30", true},
		{"2026-08-12T24:00Z", false},
		{"2026-08-12T10:60Z", false},
		{"2026-08-12T10:00:60Z", false},
		{"2026-08-12T10:00+24:00", false},
		{"2026-02-30T10:00Z", false},
		{"2026-08-12 10:00", false},
		{"2026-08-12T10:00:00.123Z", false},
		{"2026-08-12", false},
	}

	for _, tt := range tests {
		if got := ValidDateTime(tt.input); got != tt.want {
			t.Errorf("ValidDateTime(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

package identity

import "testing"

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ada@Example.COM", "ada@example.com"},
		{"  ada@example.com  ", "ada@example.com"},
		{"ada@example.com", "ada@example.com"},
	}
	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEmailLocalPart(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ada@example.com", "ada"},
		{"ada.lovelace@example.com", "ada.lovelace"},
		{"no-at-sign", "no-at-sign"},
		{" padded@example.com ", "padded"},
	}
	for _, tc := range cases {
		if got := EmailLocalPart(tc.in); got != tc.want {
			t.Fatalf("EmailLocalPart(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

package service

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{raw: "9876543210", want: "+919876543210"},
		{raw: "+91 98765 43210", want: "+919876543210"},
		{raw: "919876543210", want: "+919876543210"},
		{raw: "09876543210", want: "+919876543210"},
		{raw: "(987) 654-3210", want: "+919876543210"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.raw)
		if err != nil {
			t.Fatalf("NormalizePhone(%q) error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizePhone(%q) want %s got %s", tc.raw, tc.want, got)
		}
	}
}

func TestNormalizePhoneRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "12345", "98765432101", "abcdefghij"} {
		if _, err := NormalizePhone(raw); !errors.Is(err, ErrInvalidPhone) {
			t.Fatalf("NormalizePhone(%q) want ErrInvalidPhone got %v", raw, err)
		}
	}
}

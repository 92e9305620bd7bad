package auth

import (
	"errors"
	"testing"
)

func TestHashAndVerifyPIN(t *testing.T) {
	hash, err := HashPIN("1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "1234" {
		t.Fatal("hash must not equal the pin")
	}

	tests := []struct {
		pin  string
		want bool
	}{
		{"1234", true},
		{" 1234 ", true},
		{"12345", false},
		{"9999", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := VerifyPIN(hash, tt.pin); got != tt.want {
			t.Errorf("VerifyPIN(%q) = %v, want %v", tt.pin, got, tt.want)
		}
	}
}

func TestHashEmptyPIN(t *testing.T) {
	if _, err := HashPIN("  "); !errors.Is(err, ErrEmptyPIN) {
		t.Errorf("err = %v, want ErrEmptyPIN", err)
	}
}

func TestVerifyEmptyHash(t *testing.T) {
	if VerifyPIN("", "1234") {
		t.Error("empty hash must never match")
	}
}

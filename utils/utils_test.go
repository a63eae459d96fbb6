package utils

import (
	"strings"
	"testing"
	"time"
)

func TestRandomCode(t *testing.T) {
	code, err := RandomCode(9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 9 {
		t.Fatalf("expected 9 characters, got %q", code)
	}
	for _, r := range code {
		if !strings.ContainsRune(codeCharset, r) {
			t.Errorf("unexpected character %q in %q", r, code)
		}
	}

	if _, err := RandomCode(0); err == nil {
		t.Error("expected error for zero length")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "receptionist", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseAccessToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "42" || claims.Role != "receptionist" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, err := ParseAccessToken("other", tok.Token); err == nil {
		t.Error("expected signature failure with wrong secret")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken("secret", 1, "owner", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken("secret", tok.Token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

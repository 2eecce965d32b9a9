package util

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	tok, err := GenerateJWT(7, "teacher", "t@example.com", "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ParseJWT(tok, "secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "teacher" {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := ParseJWT(tok, "other"); err == nil {
		t.Fatal("wrong secret must fail")
	}
	expired, _ := GenerateJWT(7, "teacher", "", "secret", -time.Minute)
	if _, err := ParseJWT(expired, "secret"); err == nil {
		t.Fatal("expired token must fail")
	}
	anon, _ := GenerateJWT(0, "student", "", "secret", time.Hour)
	if _, err := ParseJWT(anon, "secret"); err == nil {
		t.Fatal("token without user id must fail")
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	userID := uuid.New()

	token, err := GenerateAccessToken(userID, secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	got, err := VerifyAccessToken(token, secret)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if got != userID {
		t.Errorf("VerifyAccessToken() user = %s, want %s", got, userID)
	}
}

func TestVerifyAccessTokenRejects(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	userID := uuid.New()

	expired, err := GenerateAccessToken(userID, secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	valid, err := GenerateAccessToken(userID, secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{name: "expired token", token: expired, secret: secret},
		{name: "wrong secret", token: valid, secret: []byte("another-secret-another-secret-00")},
		{name: "garbage", token: "not.a.jwt", secret: secret},
		{name: "empty", token: "", secret: secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyAccessToken(tt.token, tt.secret); err == nil {
				t.Error("VerifyAccessToken() should have failed")
			}
		})
	}
}

func TestRefreshTokenHash(t *testing.T) {
	token, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateRefreshToken() returned empty token")
	}

	hash := HashToken(token)
	if !VerifyTokenHash(token, hash) {
		t.Error("VerifyTokenHash() rejected matching token")
	}
	if VerifyTokenHash("other-token", hash) {
		t.Error("VerifyTokenHash() accepted non-matching token")
	}

	other, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	if other == token {
		t.Error("GenerateRefreshToken() produced identical tokens")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword(hash, "hunter23") {
		t.Error("CheckPassword() accepted the wrong password")
	}
}

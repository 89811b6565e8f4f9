package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/feen1e/recipe-app-backend/pkg/config"
	"github.com/feen1e/recipe-app-backend/pkg/enums"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "recipe-app",
		ExpirationMinutes: 60,
	}
}

func testPayload() AccessTokenPayload {
	return AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "johndoe",
		Email:    "john@example.com",
		Role:     enums.UserRoleUser,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	payload := testPayload()

	token, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("expected user id %s got %s", payload.UserID, claims.UserID)
	}
	if claims.Username != "johndoe" {
		t.Fatalf("unexpected username %q", claims.Username)
	}
	if claims.Email != "john@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Role != enums.UserRoleUser {
		t.Fatalf("unexpected role %q", claims.Role)
	}
	if claims.Subject != payload.UserID.String() {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
}

func TestMintRequiresSecretAndIssuer(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""
	if _, err := MintAccessToken(cfg, time.Now(), testPayload()); err == nil {
		t.Fatal("expected error without secret")
	}

	cfg = testJWTConfig()
	cfg.Issuer = ""
	if _, err := MintAccessToken(cfg, time.Now(), testPayload()); err == nil {
		t.Fatal("expected error without issuer")
	}
}

func TestMintRejectsInvalidRole(t *testing.T) {
	payload := testPayload()
	payload.Role = enums.UserRole("superuser")
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), payload); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), testPayload())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), testPayload())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), testPayload())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	tampered := token[:strings.LastIndex(token, ".")+1] + "forged"
	if _, err := ParseAccessToken(cfg, tampered); err == nil {
		t.Fatal("expected signature error")
	}
}

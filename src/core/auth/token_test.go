package auth

import (
	"testing"
)

func TestTokenRoundtrip(t *testing.T) {
	at := NewAuthToken("test-secret")

	token, err := at.GenerateToken("client-42")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	valid, clientID, err := at.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if !valid {
		t.Error("freshly issued token should be valid")
	}
	if clientID != "client-42" {
		t.Errorf("clientID = %q, want client-42", clientID)
	}
}

func TestVerifyTokenRejections(t *testing.T) {
	at := NewAuthToken("test-secret")
	other := NewAuthToken("different-secret")

	token, err := at.GenerateToken("client-42")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
		at    *AuthToken
	}{
		{"wrong secret", token, other},
		{"garbage token", "not.a.jwt", at},
		{"empty token", "", at},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, _, err := tt.at.VerifyToken(tt.token)
			if valid || err == nil {
				t.Errorf("VerifyToken(%q) accepted an invalid token", tt.token)
			}
		})
	}
}

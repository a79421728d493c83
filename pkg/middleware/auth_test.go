package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, subject string, secret []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authProbe(t *testing.T, header string) (int, uuid.UUID) {
	t.Helper()
	var resolved uuid.UUID
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code, resolved
}

func TestAuth_NoHeaderIsAnonymous(t *testing.T) {
	code, owner := authProbe(t, "")
	if code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", code)
	}
	if owner != uuid.Nil {
		t.Fatalf("owner = %s, want nil uuid", owner)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	subject := uuid.New()
	code, owner := authProbe(t, "Bearer "+signToken(t, subject.String(), testSecret))
	if code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", code)
	}
	if owner != subject {
		t.Fatalf("owner = %s, want %s", owner, subject)
	}
}

func TestAuth_RejectsBadSignature(t *testing.T) {
	code, _ := authProbe(t, "Bearer "+signToken(t, uuid.NewString(), []byte("wrong-secret")))
	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
}

func TestAuth_RejectsNonUUIDSubject(t *testing.T) {
	code, _ := authProbe(t, "Bearer "+signToken(t, "bob", testSecret))
	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
}

func TestAuth_RejectsMalformedHeader(t *testing.T) {
	code, _ := authProbe(t, "Token abc")
	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
}

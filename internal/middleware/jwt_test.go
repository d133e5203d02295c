package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const jwtTestSecret = "test-secret"

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func runJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/availability", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seenTenant interface{}
	next := func(c echo.Context) error {
		seenTenant = c.Get("tenant_id")
		return c.NoContent(http.StatusOK)
	}
	if err := JWTAuth(jwtTestSecret)(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	return rec, seenTenant
}

func TestJWTAuthInjectsTenant(t *testing.T) {
	tok := mintToken(t, jwtTestSecret, jwt.MapClaims{
		"tenant_id": 42,
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	rec, tenant := runJWT(t, "Bearer "+tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	// JSON numbers decode as float64 inside MapClaims.
	if f, ok := tenant.(float64); !ok || f != 42 {
		t.Fatalf("tenant_id = %#v", tenant)
	}
}

func TestJWTAuthRejects(t *testing.T) {
	valid := mintToken(t, jwtTestSecret, jwt.MapClaims{
		"tenant_id": 42,
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	wrongKey := mintToken(t, "other-secret", jwt.MapClaims{"tenant_id": 42})
	expired := mintToken(t, jwtTestSecret, jwt.MapClaims{
		"tenant_id": 42,
		"exp":       time.Now().Add(-time.Hour).Unix(),
	})
	noTenant := mintToken(t, jwtTestSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"not bearer", "Basic " + valid},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong key", "Bearer " + wrongKey},
		{"expired", "Bearer " + expired},
		{"no tenant claim", "Bearer " + noTenant},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, tenant := runJWT(t, tc.auth)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if tenant != nil {
				t.Fatalf("tenant leaked into context: %#v", tenant)
			}
		})
	}
}

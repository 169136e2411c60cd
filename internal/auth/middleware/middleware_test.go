package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-quiz/internal/rbac"
)

func login(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body)))
	return rec
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAuthService("test-secret")
	h := LoginHandler(a, Admin{User: "admin", PassHash: string(hash)}, true)

	cases := []struct {
		name, body string
		status     int
		role       string
	}{
		{"admin", `{"username":"admin","password":"s3cret"}`, http.StatusOK, RoleAdmin},
		{"admin bad password", `{"username":"admin","password":"admin"}`, http.StatusUnauthorized, ""},
		{"teacher", `{"username":"t1","password":"t1","role":"teacher"}`, http.StatusOK, RoleTeacher},
		{"student default", `{"username":"s1","password":"s1"}`, http.StatusOK, RoleStudent},
		{"elevated role refused", `{"username":"s1","password":"s1","role":"admin"}`, http.StatusUnauthorized, ""},
		{"password mismatch", `{"username":"s1","password":"x"}`, http.StatusUnauthorized, ""},
		{"bad json", `{`, http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := login(t, h, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if tc.status != http.StatusOK {
				return
			}
			var out map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
				t.Fatal(err)
			}
			c, err := a.Parse(out["access_token"])
			if err != nil {
				t.Fatalf("parse issued token: %v", err)
			}
			if c.Role != tc.role || out["role"] != tc.role {
				t.Fatalf("role = %s / %s, want %s", c.Role, out["role"], tc.role)
			}
		})
	}
}

func TestLoginWithoutDevUsers(t *testing.T) {
	h := LoginHandler(NewAuthService("k"), Admin{}, false)
	if rec := login(t, h, `{"username":"s1","password":"s1"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("test-secret")
	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	tok, err := a.IssueJWT("u1", RoleTeacher)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || gotSub != "u1" || gotRole != RoleTeacher {
		t.Fatalf("code=%d sub=%q role=%q", rec.Code, gotSub, gotRole)
	}

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"garbage":      "Bearer not-a-jwt",
		"other secret": "Bearer " + mustIssue(t, NewAuthService("other"), "u1", RoleAdmin),
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d", name, rec.Code)
		}
	}
}

func TestExpiredToken(t *testing.T) {
	a := NewAuthService("k")
	a.now = func() time.Time { return time.Now().Add(-9 * time.Hour) }
	tok := mustIssue(t, a, "u1", RoleStudent)
	a.now = time.Now
	if _, err := a.Parse(tok); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func mustIssue(t *testing.T, a *AuthService, sub, role string) string {
	t.Helper()
	tok, err := a.IssueJWT(sub, role)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

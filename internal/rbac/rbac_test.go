package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"student", PermQuizView, true},
		{"student", PermQuizViewAnswers, false},
		{"student", PermQuizImport, false},
		{"student", PermAttemptViewAll, false},
		{"teacher", PermQuizImport, true},
		{"teacher", PermQuizViewAnswers, true},
		{"teacher", PermEventsView, false},
		{"teacher", PermAttemptGrade, true},
		{"student", PermAttemptGrade, false},
		{"admin", PermAttemptGrade, true},
		{"admin", PermEventsView, true},
		{"guest", PermQuizView, false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%s, %s) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
	if !c.Any("student", PermAttemptViewAll, PermAttemptView) {
		t.Errorf("Any should accept one granted permission")
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	cases := []struct {
		role   string
		mw     func(http.Handler) http.Handler
		status int
	}{
		{"student", Require(PermQuizView), http.StatusNoContent},
		{"student", Require(PermQuizImport), http.StatusForbidden},
		{"", Require(PermQuizView), http.StatusForbidden},
		{"teacher", RequireAny(PermEventsView, PermQuizImport), http.StatusNoContent},
		{"student", RequireAny(PermEventsView, PermQuizImport), http.StatusForbidden},
	}
	for i, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithRole(context.Background(), tc.role))
		rec := httptest.NewRecorder()
		tc.mw(ok).ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Errorf("case %d: status = %d, want %d", i, rec.Code, tc.status)
		}
	}
}

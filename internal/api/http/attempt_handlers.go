package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/apierr"
	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/rbac"
)

var errNotOwner = apierr.New(http.StatusForbidden, "not_owner", errors.New("attempt belongs to another user"))

// POST /attempts  {"quiz_id": "..."}; the attempt belongs to the caller.
func CreateAttemptHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuizID string `json:"quiz_id"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.QuizID == "" {
			apierr.Write(w, apierr.New(http.StatusBadRequest, "quiz_id_required", errors.New("quiz_id required")))
			return
		}
		a, err := svc.Start(r.Context(), req.QuizID, auth.SubjectFromContext(r.Context()))
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, a)
	}
}

// POST /attempts/{attemptID}/responses  {"q1": ["B"], "q2": "text"}
func SaveResponsesHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		var resp map[string]interface{}
		if !decodeJSON(w, r, &resp) {
			return
		}
		if _, err := loadAttempt(r.Context(), svc, id, false); err != nil {
			respondErr(w, err)
			return
		}
		a, err := svc.Respond(r.Context(), id, resp)
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusOK, a)
	}
}

// POST /attempts/{attemptID}/submit
func SubmitAttemptHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		if _, err := loadAttempt(r.Context(), svc, id, false); err != nil {
			respondErr(w, err)
			return
		}
		a, err := svc.Submit(r.Context(), id)
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusOK, a)
	}
}

// GET /attempts/{attemptID}
func GetAttemptHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := loadAttempt(r.Context(), svc, chi.URLParam(r, "attemptID"), true)
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusOK, a)
	}
}

// loadAttempt fetches an attempt the caller may act on: their own, any
// attempt for admins, or (forRead) any attempt for roles that view all.
func loadAttempt(ctx context.Context, svc QuizService, id string, forRead bool) (quiz.Attempt, error) {
	a, err := svc.Attempt(ctx, id)
	if err != nil {
		return quiz.Attempt{}, err
	}
	role := rbac.RoleFromContext(ctx)
	switch {
	case a.UserID == auth.SubjectFromContext(ctx):
	case rbac.Default().Has(role, rbac.PermAttemptManage):
	case forRead && rbac.Default().Has(role, rbac.PermAttemptViewAll):
	default:
		return quiz.Attempt{}, errNotOwner
	}
	return a, nil
}

package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/apierr"
	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

type applyGradesReq struct {
	Items map[string]quiz.ManualGrade `json:"items"` // item_id -> grade
}

// GET /attempts/{attemptID}/grading
func GetAttemptGradingHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Grading(r.Context(), strings.TrimSpace(chi.URLParam(r, "attemptID")))
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusOK, items)
	}
}

// POST /attempts/{attemptID}/grading  {"items": {"q1": {"points": 0.5, "comment": "..."}}}
func ApplyAttemptGradingHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applyGradesReq
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.Items) == 0 {
			apierr.Write(w, apierr.New(http.StatusBadRequest, "items_required", errors.New("items required")))
			return
		}
		a, err := svc.GradeManually(r.Context(), strings.TrimSpace(chi.URLParam(r, "attemptID")), req.Items, auth.SubjectFromContext(r.Context()))
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusOK, a)
	}
}

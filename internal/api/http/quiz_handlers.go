package http

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/rbac"
)

// QuizService is what the quiz and attempt routes need; *quiz.Service
// implements it.
type QuizService interface {
	Import(ctx context.Context, kind quiz.Kind) (quiz.Quiz, error)
	ImportRaw(ctx context.Context, kind quiz.Kind, source string, raws []string) (quiz.Quiz, error)
	Quiz(ctx context.Context, id string, withAnswers bool) (quiz.Quiz, error)
	List(ctx context.Context, opts quiz.ListOpts) ([]quiz.QuizSummary, error)
	Raw(ctx context.Context, id string) (io.ReadCloser, error)
	Start(ctx context.Context, quizID, userID string) (quiz.Attempt, error)
	Respond(ctx context.Context, attemptID string, resp map[string]interface{}) (quiz.Attempt, error)
	Submit(ctx context.Context, attemptID string) (quiz.Attempt, error)
	Attempt(ctx context.Context, id string) (quiz.Attempt, error)
	Grading(ctx context.Context, attemptID string) ([]quiz.GradingItem, error)
	GradeManually(ctx context.Context, attemptID string, grades map[string]quiz.ManualGrade, gradedBy string) (quiz.Attempt, error)
}

func kindParam(r *http.Request, fallback string) (quiz.Kind, error) {
	k := strings.TrimSpace(r.URL.Query().Get("kind"))
	if k == "" {
		k = fallback
	}
	return quiz.ParseKind(k)
}

// POST /quizzes/import?kind=mcq|free_text
// Pulls a freshly generated quiz from the AI server.
func ImportQuizHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := kindParam(r, string(quiz.KindMCQ))
		if err != nil {
			respondErr(w, err)
			return
		}
		q, err := svc.Import(r.Context(), kind)
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, q)
	}
}

// POST /quizzes  {"kind": "mcq", "quiz": ["block", ...]}
func CreateQuizHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Kind string   `json:"kind"`
			Quiz []string `json:"quiz"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Kind == "" {
			req.Kind = string(quiz.KindMCQ)
		}
		kind, err := quiz.ParseKind(req.Kind)
		if err != nil {
			respondErr(w, err)
			return
		}
		q, err := svc.ImportRaw(r.Context(), kind, "manual", req.Quiz)
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, q)
	}
}

// GET /quizzes?kind=&limit=&offset=
func ListQuizzesHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := quiz.ListOpts{
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		if r.URL.Query().Get("kind") != "" {
			kind, err := kindParam(r, "")
			if err != nil {
				respondErr(w, err)
				return
			}
			opts.Kind = kind
		}
		list, err := svc.List(r.Context(), opts)
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// GET /quizzes/{quizID}
// Answers are included only for roles allowed to see them.
func GetQuizHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		withAnswers := rbac.Default().Has(role, rbac.PermQuizViewAnswers)
		q, err := svc.Quiz(r.Context(), chi.URLParam(r, "quizID"), withAnswers)
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusOK, q)
	}
}

// GET /quizzes/{quizID}/raw  -> archived upstream payload
func GetQuizRawHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, err := svc.Raw(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			respondErr(w, err)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.Copy(w, rc)
	}
}

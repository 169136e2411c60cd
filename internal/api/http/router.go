package http

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/rbac"
)

type Deps struct {
	Service  QuizService
	Auth     *auth.AuthService
	Admin    auth.Admin
	DevUsers bool

	Events EventLister                 // optional
	Ready  func(context.Context) error // optional

	Log         *logger.Logger
	CORSOrigins []string

	// RequestTimeout bounds every request; imports and submits wait on the
	// AI server, so keep it above the upstream timeout.
	RequestTimeout time.Duration
}

func NewRouter(d Deps) chi.Router {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 2 * time.Minute
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, AccessLog(d.Log), middleware.Recoverer)
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", HealthzHandler())
	r.Get("/readyz", ReadyzHandler(d.Ready))

	// Stateless decoding for clients that fetch from the AI server themselves.
	r.Route("/decode", func(dr chi.Router) {
		dr.Post("/quiz", DecodeQuizHandler())
		dr.Post("/free-text", DecodeFreeTextHandler())
		dr.Post("/evaluation", DecodeEvaluationHandler())
	})

	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Admin, d.DevUsers))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.With(rbac.Require(rbac.PermQuizImport)).
			Post("/quizzes/import", ImportQuizHandler(d.Service))
		pr.With(rbac.Require(rbac.PermQuizImport)).
			Post("/quizzes", CreateQuizHandler(d.Service))
		pr.With(rbac.Require(rbac.PermQuizView)).
			Get("/quizzes", ListQuizzesHandler(d.Service))
		pr.With(rbac.Require(rbac.PermQuizView)).
			Get("/quizzes/{quizID}", GetQuizHandler(d.Service))
		pr.With(rbac.Require(rbac.PermQuizViewAnswers)).
			Get("/quizzes/{quizID}/raw", GetQuizRawHandler(d.Service))

		pr.With(rbac.Require(rbac.PermAttemptCreate)).
			Post("/attempts", CreateAttemptHandler(d.Service))
		pr.With(rbac.Require(rbac.PermAttemptSave)).
			Post("/attempts/{attemptID}/responses", SaveResponsesHandler(d.Service))
		pr.With(rbac.Require(rbac.PermAttemptSubmit)).
			Post("/attempts/{attemptID}/submit", SubmitAttemptHandler(d.Service))
		pr.With(rbac.RequireAny(rbac.PermAttemptView, rbac.PermAttemptViewAll)).
			Get("/attempts/{attemptID}", GetAttemptHandler(d.Service))
		pr.With(rbac.Require(rbac.PermAttemptGrade)).
			Get("/attempts/{attemptID}/grading", GetAttemptGradingHandler(d.Service))
		pr.With(rbac.Require(rbac.PermAttemptGrade)).
			Post("/attempts/{attemptID}/grading", ApplyAttemptGradingHandler(d.Service))

		if d.Events != nil {
			pr.With(rbac.Require(rbac.PermEventsView)).
				Get("/events", ListEventsHandler(d.Events))
		}
	})
	return r
}

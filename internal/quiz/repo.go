package quiz

import (
	"context"
	"errors"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAttemptSubmitted = errors.New("attempt already submitted")
	ErrUnknownKind      = errors.New("unknown quiz kind")
	ErrEmptyQuiz        = errors.New("quiz has no questions")
	ErrNoUpstream       = errors.New("quiz source not configured")
)

type ListOpts struct {
	Kind   Kind // optional filter
	Limit  int
	Offset int
}

type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	GetQuiz(ctx context.Context, id string) (Quiz, error)      // student-safe (no answers)
	GetQuizAdmin(ctx context.Context, id string) (Quiz, error) // full quiz, for grading/teachers
	ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error)

	NewAttempt(ctx context.Context, quizID, userID string) (Attempt, error)
	SaveResponses(ctx context.Context, attemptID string, resp map[string]interface{}) (Attempt, error)
	// SaveResults finalizes an in-progress attempt with its score and results.
	// An already submitted attempt is returned unchanged with finalized false.
	SaveResults(ctx context.Context, a Attempt) (saved Attempt, finalized bool, err error)
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	// ApplyManualGrades overrides item scores of a submitted attempt.
	ApplyManualGrades(ctx context.Context, attemptID string, grades map[string]ManualGrade, gradedBy string) (Attempt, error)
}

func normLimit(n int) int {
	if n <= 0 || n > 200 {
		return 50
	}
	return n
}

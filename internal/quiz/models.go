package quiz

import (
	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/quiztext"
)

type Kind string

const (
	KindMCQ      Kind = grading.KindMCQ
	KindFreeText Kind = grading.KindFreeText
)

// ParseKind accepts "mcq" and "free_text" (also "free-text").
func ParseKind(s string) (Kind, error) {
	switch s {
	case string(KindMCQ):
		return KindMCQ, nil
	case string(KindFreeText), "free-text":
		return KindFreeText, nil
	default:
		return "", ErrUnknownKind
	}
}

const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
)

// Item is one decoded question. Question is set for mcq quizzes, FreeText
// for free_text quizzes.
type Item struct {
	ID       string             `json:"id"`
	Raw      string             `json:"raw,omitempty"`
	Question *quiztext.Question `json:"question,omitempty"`
	FreeText *quiztext.FreeText `json:"free_text,omitempty"`
	Points   float64            `json:"points"`
}

type Quiz struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	Source    string `json:"source,omitempty"` // upstream | manual
	Items     []Item `json:"items"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

type QuizSummary struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	Source    string `json:"source,omitempty"`
	ItemCount int    `json:"item_count"`
	CreatedAt int64  `json:"created_at"`
}

type Attempt struct {
	ID          string                    `json:"id"`
	QuizID      string                    `json:"quiz_id"`
	UserID      string                    `json:"user_id"`
	Status      string                    `json:"status"` // in_progress|submitted
	Score       float64                   `json:"score"`
	MaxScore    float64                   `json:"max_score"`
	Responses   map[string]interface{}    `json:"responses"` // itemID -> response payload
	Results     map[string]grading.Result `json:"results,omitempty"`
	StartedAt   int64                     `json:"started_at"`
	SubmittedAt *int64                    `json:"submitted_at,omitempty"`
}

// MaxPoints sums item points.
func (q Quiz) MaxPoints() float64 {
	total := 0.0
	for _, it := range q.Items {
		total += it.Points
	}
	return total
}

// StudentView strips everything that reveals an answer: raw blocks, the
// correct-answer text and labels, and free-text reference answers.
func (q Quiz) StudentView() Quiz {
	out := q
	out.Items = make([]Item, len(q.Items))
	for i, it := range q.Items {
		it.Raw = ""
		if it.Question != nil {
			qq := *it.Question
			qq.CorrectAnswersText = ""
			qq.CorrectLabels = []string{}
			it.Question = &qq
		}
		if it.FreeText != nil {
			ft := *it.FreeText
			ft.CorrectAnswer = ""
			it.FreeText = &ft
		}
		out.Items[i] = it
	}
	return out
}

func (it Item) gradingQ(kind Kind) grading.Q {
	q := grading.Q{Kind: string(kind), Points: it.Points}
	if it.Question != nil {
		q.Question = *it.Question
	}
	if it.FreeText != nil {
		q.FreeText = *it.FreeText
	}
	return q
}

package quiz

import (
	"errors"
	"fmt"
	"math"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/quiztext"
)

var (
	ErrAttemptNotSubmitted = errors.New("attempt not submitted")
	ErrUnknownItem         = errors.New("unknown item")
	ErrPointsOutOfRange    = errors.New("points out of range")
)

// ManualGrade is a grader's score for one item.
type ManualGrade struct {
	Points  float64 `json:"points"`
	Comment string  `json:"comment,omitempty"`
}

// GradingItem is one item of a submitted attempt as a grader reviews it.
type GradingItem struct {
	ItemID   string             `json:"item_id"`
	Question *quiztext.Question `json:"question,omitempty"`
	FreeText *quiztext.FreeText `json:"free_text,omitempty"`
	Response interface{}        `json:"response"`
	Result   grading.Result     `json:"result"`
}

// applyManualGrades overrides item results of a submitted attempt and
// recomputes its score. a is not modified.
func applyManualGrades(a Attempt, grades map[string]ManualGrade, gradedBy string) (Attempt, error) {
	if a.Status != StatusSubmitted {
		return Attempt{}, ErrAttemptNotSubmitted
	}
	results := make(map[string]grading.Result, len(a.Results))
	for k, v := range a.Results {
		results[k] = v
	}
	for id, g := range grades {
		r, ok := results[id]
		if !ok {
			return Attempt{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
		if math.IsNaN(g.Points) || g.Points < 0 || g.Points > r.MaxPoints {
			return Attempt{}, fmt.Errorf("%w: %s: %v not in [0, %v]", ErrPointsOutOfRange, id, g.Points, r.MaxPoints)
		}
		p := g.Points
		r.ManualPoints = &p
		r.NeedsManual = false
		r.GradedBy = gradedBy
		r.Comment = g.Comment
		results[id] = r
	}
	a.Results = results
	a.Score = scoreOf(results)
	return a, nil
}

func scoreOf(results map[string]grading.Result) float64 {
	total := 0.0
	for _, r := range results {
		total += r.Points()
	}
	return total
}

package grading

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mind-engage/mindengage-quiz/internal/quiztext"
)

const (
	KindMCQ      = "mcq"
	KindFreeText = "free_text"
)

// Q is the view of a quiz item needed for grading. Question is read for
// KindMCQ, FreeText for KindFreeText.
type Q struct {
	Kind     string
	Points   float64
	Question quiztext.Question
	FreeText quiztext.FreeText
}

// Result is the outcome of grading a single item response.
type Result struct {
	AutoPoints     float64              `json:"auto_points"`
	MaxPoints      float64              `json:"max_points"`
	NeedsManual    bool                 `json:"needs_manual,omitempty"`
	Marks          []OptionMark         `json:"marks,omitempty"`
	EvaluationText string               `json:"evaluation_text,omitempty"`
	Evaluation     *quiztext.Evaluation `json:"evaluation,omitempty"`
	Feedback       []string             `json:"feedback,omitempty"`

	// Set when a grader overrides the automatic score.
	ManualPoints *float64 `json:"manual_points,omitempty"`
	GradedBy     string   `json:"graded_by,omitempty"`
	Comment      string   `json:"comment,omitempty"`
}

// Points is the score that counts: manual when set, automatic otherwise.
func (r Result) Points() float64 {
	if r.ManualPoints != nil {
		return *r.ManualPoints
	}
	return r.AutoPoints
}

// Strategy grades a single item.
type Strategy interface {
	Grade(ctx context.Context, q Q, response interface{}) (Result, error)
}

// Grader routes by item kind to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, response interface{}) (Result, error)
}

// Evaluator grades a free-text answer against its reference answer and
// returns grading text ("التقدير: N ... تفسير التقدير: ...").
type Evaluator interface {
	Evaluate(ctx context.Context, answer, groundTruth string) (string, error)
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, response interface{}) (Result, error) {
	s, ok := g.strategies[q.Kind]
	if !ok {
		return Result{MaxPoints: q.Points, NeedsManual: true, Feedback: []string{"no strategy available"}}, nil
	}
	return s.Grade(ctx, q, response)
}

// Engine options

type Option func(*config)

type config struct {
	AllowPartialMulti bool
	Evaluator         Evaluator
}

func WithPartialMulti(b bool) Option   { return func(c *config) { c.AllowPartialMulti = b } }
func WithEvaluator(e Evaluator) Option { return func(c *config) { c.Evaluator = e } }

// NewDefaultGrader installs built-in strategies. Without an Evaluator
// non-blank free-text answers are left for manual grading.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{AllowPartialMulti: true}
	for _, o := range opts {
		o(cfg)
	}
	return &defaultGrader{
		strategies: map[string]Strategy{
			KindMCQ:      mcqStrategy{allowPartial: cfg.AllowPartialMulti},
			KindFreeText: freeTextStrategy{eval: cfg.Evaluator},
		},
	}
}

// --- Strategies ---

type mcqStrategy struct{ allowPartial bool }

func (s mcqStrategy) Grade(_ context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points}
	selected, ok := toStringSlice(response)
	if !ok {
		return res, errors.New("response must be []string")
	}
	res.Marks = MarkOptions(q.Question, selected)

	correct := toSet(q.Question.CorrectLabels)
	if len(correct) == 0 {
		res.NeedsManual = true
		res.Feedback = append(res.Feedback, "no answer key")
		return res, nil
	}
	resp := toSet(selected)
	if setEqual(correct, resp) {
		res.AutoPoints = q.Points
		return res, nil
	}
	for r := range resp {
		if _, ok := correct[r]; !ok {
			return res, nil
		}
	}
	if s.allowPartial {
		res.AutoPoints = q.Points * (float64(len(resp)) / float64(len(correct)))
	}
	return res, nil
}

type freeTextStrategy struct{ eval Evaluator }

func (s freeTextStrategy) Grade(ctx context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points}
	answer, ok := response.(string)
	if !ok {
		return res, errors.New("response must be string")
	}

	var text string
	switch {
	case strings.TrimSpace(answer) == "":
		text = quiztext.NoAnswerEvaluation
	case s.eval == nil:
		res.NeedsManual = true
		res.Feedback = append(res.Feedback, "evaluator not configured")
		return res, nil
	default:
		t, err := s.eval.Evaluate(ctx, strings.TrimSpace(answer), q.FreeText.CorrectAnswer)
		if err != nil {
			res.NeedsManual = true
			res.Feedback = append(res.Feedback, "evaluation failed: "+err.Error())
			return res, nil
		}
		text = t
	}

	ev := quiztext.ParseEvaluation(text)
	res.EvaluationText = text
	res.Evaluation = &ev
	if ev.Grade == nil {
		res.NeedsManual = true
		res.Feedback = append(res.Feedback, "grade missing")
		return res, nil
	}
	g := math.Min(math.Max(float64(*ev.Grade), 0), 100)
	res.AutoPoints = q.Points * g / 100
	res.Feedback = append(res.Feedback, fmt.Sprintf("grade %d (%s)", *ev.Grade, ev.Band()))
	return res, nil
}

// helpers

func toStringSlice(v interface{}) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case string:
		return []string{t}, true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	case nil:
		return nil, true
	default:
		return nil, false
	}
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

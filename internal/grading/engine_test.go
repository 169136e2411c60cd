package grading

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mind-engage/mindengage-quiz/internal/quiztext"
)

type fakeEvaluator struct {
	text  string
	err   error
	calls int
	last  [2]string
}

func (f *fakeEvaluator) Evaluate(_ context.Context, answer, groundTruth string) (string, error) {
	f.calls++
	f.last = [2]string{answer, groundTruth}
	return f.text, f.err
}

func mcqQ() Q {
	return Q{
		Kind:   KindMCQ,
		Points: 2,
		Question: quiztext.ParseBlock(
			"Which are primes?\nA) 2\nB) 4\nC) 5\nD) 9\nالإجابة الصحيحة: A, C"),
	}
}

func TestMCQ_ExactMatch(t *testing.T) {
	g := NewDefaultGrader()
	res, err := g.Grade(context.Background(), mcqQ(), []string{"C", "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AutoPoints != 2 || res.MaxPoints != 2 {
		t.Fatalf("points = %v/%v", res.AutoPoints, res.MaxPoints)
	}
}

func TestMCQ_PartialCredit(t *testing.T) {
	res, err := NewDefaultGrader().Grade(context.Background(), mcqQ(), []interface{}{"A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AutoPoints != 1 {
		t.Fatalf("expected half credit, got %v", res.AutoPoints)
	}

	res, _ = NewDefaultGrader(WithPartialMulti(false)).Grade(context.Background(), mcqQ(), []string{"A"})
	if res.AutoPoints != 0 {
		t.Fatalf("expected no partial credit, got %v", res.AutoPoints)
	}
}

func TestMCQ_FalsePositiveScoresZero(t *testing.T) {
	res, _ := NewDefaultGrader().Grade(context.Background(), mcqQ(), []string{"A", "B"})
	if res.AutoPoints != 0 {
		t.Fatalf("expected 0, got %v", res.AutoPoints)
	}
	want := []OptionMark{
		{Label: "A", Mark: MarkCorrect},
		{Label: "B", Mark: MarkWrong},
		{Label: "C", Mark: MarkMissed},
		{Label: "D", Mark: MarkNone},
	}
	if !reflect.DeepEqual(res.Marks, want) {
		t.Fatalf("marks = %#v", res.Marks)
	}
}

func TestMCQ_NoAnswerKey(t *testing.T) {
	q := Q{Kind: KindMCQ, Points: 1, Question: quiztext.ParseBlock("Q\nA) x\nB) y")}
	res, err := NewDefaultGrader().Grade(context.Background(), q, []string{"A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NeedsManual || res.AutoPoints != 0 {
		t.Fatalf("expected manual review, got %+v", res)
	}
}

func TestMCQ_BadResponse(t *testing.T) {
	if _, err := NewDefaultGrader().Grade(context.Background(), mcqQ(), 42); err == nil {
		t.Fatalf("expected error for non-string response")
	}
}

func TestFreeText_BlankAnswerSkipsEvaluator(t *testing.T) {
	ev := &fakeEvaluator{text: "التقدير: 100"}
	g := NewDefaultGrader(WithEvaluator(ev))
	q := Q{Kind: KindFreeText, Points: 5, FreeText: quiztext.FreeText{Question: "Q", CorrectAnswer: "A"}}

	res, err := g.Grade(context.Background(), q, "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.calls != 0 {
		t.Fatalf("evaluator should not be called for a blank answer")
	}
	if res.EvaluationText != quiztext.NoAnswerEvaluation || res.AutoPoints != 0 {
		t.Fatalf("unexpected %+v", res)
	}
	if res.Evaluation == nil || res.Evaluation.Grade == nil || *res.Evaluation.Grade != 0 {
		t.Fatalf("expected parsed zero grade, got %+v", res.Evaluation)
	}
}

func TestFreeText_UsesEvaluatorGrade(t *testing.T) {
	ev := &fakeEvaluator{text: "التقدير: 80\n\nتفسير التقدير: جيد"}
	g := NewDefaultGrader(WithEvaluator(ev))
	q := Q{Kind: KindFreeText, Points: 5, FreeText: quiztext.FreeText{Question: "Q", CorrectAnswer: "ref"}}

	res, err := g.Grade(context.Background(), q, " my answer ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.last != [2]string{"my answer", "ref"} {
		t.Fatalf("evaluator got %v", ev.last)
	}
	if res.AutoPoints != 4 {
		t.Fatalf("expected 4 points, got %v", res.AutoPoints)
	}
	if res.Evaluation.Explanation != "جيد" {
		t.Fatalf("explanation = %q", res.Evaluation.Explanation)
	}
}

func TestFreeText_GradeClampedForScoring(t *testing.T) {
	ev := &fakeEvaluator{text: "التقدير: 150"}
	q := Q{Kind: KindFreeText, Points: 1}
	res, _ := NewDefaultGrader(WithEvaluator(ev)).Grade(context.Background(), q, "x")
	if res.AutoPoints != 1 {
		t.Fatalf("expected clamped full points, got %v", res.AutoPoints)
	}
	if *res.Evaluation.Grade != 150 {
		t.Fatalf("parsed grade should be kept as-is, got %d", *res.Evaluation.Grade)
	}
}

func TestFreeText_MissingGradeNeedsManual(t *testing.T) {
	ev := &fakeEvaluator{text: "تفسير التقدير: غير واضح"}
	q := Q{Kind: KindFreeText, Points: 1}
	res, _ := NewDefaultGrader(WithEvaluator(ev)).Grade(context.Background(), q, "x")
	if !res.NeedsManual || res.AutoPoints != 0 {
		t.Fatalf("unexpected %+v", res)
	}
	if res.Evaluation.GradeLabel() != quiztext.GradePlaceholder {
		t.Fatalf("grade label = %q", res.Evaluation.GradeLabel())
	}
}

func TestFreeText_EvaluatorFailure(t *testing.T) {
	ev := &fakeEvaluator{err: errors.New("upstream down")}
	q := Q{Kind: KindFreeText, Points: 1}
	res, err := NewDefaultGrader(WithEvaluator(ev)).Grade(context.Background(), q, "x")
	if err != nil {
		t.Fatalf("evaluation failures should not error: %v", err)
	}
	if !res.NeedsManual || len(res.Feedback) == 0 || !strings.Contains(res.Feedback[0], "upstream down") {
		t.Fatalf("unexpected %+v", res)
	}
}

func TestFreeText_NoEvaluator(t *testing.T) {
	q := Q{Kind: KindFreeText, Points: 1}
	res, _ := NewDefaultGrader().Grade(context.Background(), q, "x")
	if !res.NeedsManual {
		t.Fatalf("expected manual review without evaluator")
	}
}

func TestUnknownKind(t *testing.T) {
	res, err := NewDefaultGrader().Grade(context.Background(), Q{Kind: "essay", Points: 3}, "x")
	if err != nil || !res.NeedsManual || res.MaxPoints != 3 {
		t.Fatalf("unexpected %+v, %v", res, err)
	}
}

func TestResultPointsPrefersManual(t *testing.T) {
	r := Result{AutoPoints: 0.25, MaxPoints: 1}
	if r.Points() != 0.25 {
		t.Fatalf("auto points = %v", r.Points())
	}
	manual := 0.75
	r.ManualPoints = &manual
	if r.Points() != 0.75 {
		t.Fatalf("manual points = %v", r.Points())
	}
}

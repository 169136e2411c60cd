package quiztext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	gradeRe       = regexp.MustCompile(`التقدير\s*:\s*(\d+)`)
	explanationRe = regexp.MustCompile(`(?s)تفسير التقدير\s*:\s*(.*)`)
)

// NoAnswerEvaluation is the evaluation recorded for a blank free-text answer.
const NoAnswerEvaluation = "التقدير: 0\n\nتفسير التقدير: لم يتم تقديم إجابة."

// GradePlaceholder is shown in place of a missing grade.
const GradePlaceholder = "—"

// ParseEvaluation extracts the grade and its explanation from grading text.
// The two searches are independent; a missing part is left nil or empty.
func ParseEvaluation(text string) Evaluation {
	var ev Evaluation
	if m := gradeRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			ev.Grade = &n
		}
	}
	if m := explanationRe.FindStringSubmatch(text); m != nil {
		ev.Explanation = strings.TrimSpace(m[1])
	}
	return ev
}

// FormatEvaluation renders grade and explanation in the grading service's
// text format, so ParseEvaluation(FormatEvaluation(g, e)) round-trips.
func FormatEvaluation(grade int, explanation string) string {
	return fmt.Sprintf("التقدير: %d\n\nتفسير التقدير: %s", grade, explanation)
}

// GradeLabel is the display form of the grade.
func (e Evaluation) GradeLabel() string {
	if e.Grade == nil {
		return GradePlaceholder
	}
	return strconv.Itoa(*e.Grade)
}

// Band is the display band of a grade.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
	BandNone      Band = "none"
)

// BandFor maps a grade onto its band: 90+, 75+, 50+, below 50.
func BandFor(grade int) Band {
	switch {
	case grade >= 90:
		return BandExcellent
	case grade >= 75:
		return BandGood
	case grade >= 50:
		return BandFair
	default:
		return BandPoor
	}
}

// Band returns BandNone for a missing grade.
func (e Evaluation) Band() Band {
	if e.Grade == nil {
		return BandNone
	}
	return BandFor(*e.Grade)
}

// EvaluationView is the display form of an evaluation, as served to clients.
type EvaluationView struct {
	Grade       *int   `json:"grade"`
	Explanation string `json:"explanation"`
	Band        Band   `json:"band"`
	GradeLabel  string `json:"grade_label"`
}

func (e Evaluation) View() EvaluationView {
	return EvaluationView{Grade: e.Grade, Explanation: e.Explanation, Band: e.Band(), GradeLabel: e.GradeLabel()}
}

package grading

import "github.com/mind-engage/mindengage-quiz/internal/quiztext"

// Mark is the review state of one option after submission.
type Mark string

const (
	MarkCorrect Mark = "correct" // selected and correct
	MarkWrong   Mark = "wrong"   // selected but not correct
	MarkMissed  Mark = "missed"  // correct but not selected
	MarkNone    Mark = "none"
)

type OptionMark struct {
	Label string `json:"label"`
	Mark  Mark   `json:"mark"`
}

// MarkOptions marks every option of q against the selected labels, in
// option order.
func MarkOptions(q quiztext.Question, selected []string) []OptionMark {
	sel := toSet(selected)
	out := make([]OptionMark, 0, len(q.Options))
	for _, o := range q.Options {
		_, isSel := sel[o.Label]
		isCorrect := q.IsCorrect(o.Label)
		m := MarkNone
		switch {
		case isSel && isCorrect:
			m = MarkCorrect
		case isSel:
			m = MarkWrong
		case isCorrect:
			m = MarkMissed
		}
		out = append(out, OptionMark{Label: o.Label, Mark: m})
	}
	return out
}

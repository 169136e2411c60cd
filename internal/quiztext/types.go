package quiztext

// Option is one labeled choice of a multiple-choice question.
type Option struct {
	Label string `json:"label"` // A, b, أ, 1, ٣ ...
	Text  string `json:"text"`
}

// Question is the decoded form of one generated multiple-choice block.
type Question struct {
	Text               string   `json:"question_text"`
	Options            []Option `json:"options"`
	CorrectAnswersText string   `json:"correct_answers_text"`
	CorrectLabels      []string `json:"correct_option_labels"`
}

// Labels returns the option labels in order of appearance.
func (q Question) Labels() []string {
	out := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		out = append(out, o.Label)
	}
	return out
}

// IsCorrect reports whether label is one of the extracted correct labels.
func (q Question) IsCorrect(label string) bool {
	for _, l := range q.CorrectLabels {
		if l == label {
			return true
		}
	}
	return false
}

// FreeText is a free-text question with its reference answer.
type FreeText struct {
	Question      string `json:"question_text"`
	CorrectAnswer string `json:"correct_answer"`
}

// Evaluation is the decoded grading text of a free-text answer.
// Grade is nil when the text carries no numeric grade.
type Evaluation struct {
	Grade       *int   `json:"grade"`
	Explanation string `json:"explanation"`
}

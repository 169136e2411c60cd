package grading

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/mind-engage/mindengage-quiz/internal/quiztext"
)

// LocalEvaluator grades free-text answers without the AI server. It
// produces text in the same format the server does.
type LocalEvaluator struct {
	MaxEditDistance int
}

const (
	explainExact   = "الإجابة مطابقة للإجابة الصحيحة."
	explainClose   = "الإجابة قريبة جدا من الإجابة الصحيحة."
	explainNoRef   = "لا توجد إجابة مرجعية للمقارنة."
	explainKeyword = "تحتوي الإجابة على %d من %d من الكلمات الأساسية."
)

func (e LocalEvaluator) Evaluate(_ context.Context, answer, groundTruth string) (string, error) {
	a, ref := normalize(answer), normalize(groundTruth)
	switch {
	case ref == "":
		return quiztext.FormatEvaluation(0, explainNoRef), nil
	case a == ref:
		return quiztext.FormatEvaluation(100, explainExact), nil
	case e.MaxEditDistance > 0 && levenshtein(a, ref) <= e.MaxEditDistance:
		return quiztext.FormatEvaluation(90, explainClose), nil
	}
	found, total := keywordHits(a, ref)
	grade := int(math.Round(100 * float64(found) / float64(total)))
	return quiztext.FormatEvaluation(grade, fmt.Sprintf(explainKeyword, found, total)), nil
}

// keywordHits counts the distinct reference words present in the answer.
// Both inputs are already normalized; ref is non-empty.
func keywordHits(answer, ref string) (found, total int) {
	have := toSet(strings.Fields(answer))
	for w := range toSet(strings.Fields(ref)) {
		total++
		if _, ok := have[w]; ok {
			found++
		}
	}
	return found, total
}

package quiztext

import "strings"

// FreeTextSeparator splits a generated free-text question from its answer.
const FreeTextSeparator = "\n\nالإجابة الصحيحة:"

// ParseFreeText splits raw at the first FreeTextSeparator. Without a
// separator the whole string is the question and the answer is empty.
func ParseFreeText(raw string) FreeText {
	q, a, _ := strings.Cut(raw, FreeTextSeparator)
	return FreeText{
		Question:      strings.TrimSpace(q),
		CorrectAnswer: strings.TrimSpace(a),
	}
}

// ParseFreeTexts decodes every free-text block in order.
func ParseFreeTexts(raws []string) []FreeText {
	out := make([]FreeText, 0, len(raws))
	for _, r := range raws {
		out = append(out, ParseFreeText(r))
	}
	return out
}

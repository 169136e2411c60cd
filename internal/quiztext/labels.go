package quiztext

import (
	"regexp"
	"strings"
)

var (
	// answerPrefixRe matches the marker phrase and what usually follows it:
	// "الإجابة الصحيحة:", "الإجابة الصحيحة هي:", "... الإجابة الصحيحة هي" etc.
	answerPrefixRe = regexp.MustCompile(`.*الإجابة\s*الصحيحة\s*[:：]?\s*(?:هي)?\s*[:：]?\s*`)
	labelSepRe     = regexp.MustCompile(`[\s,،.]+|\s*و\s*`)
	labelTokenRe   = regexp.MustCompile(`^([` + labelChars + `])[).]?$`)
)

// ExtractCorrectLabels returns the distinct single-character labels listed
// after the correct-answer marker, in first-seen order. Tokens that are not a
// single label character (optionally followed by ")" or ".") are ignored.
func ExtractCorrectLabels(correctAnswersText string) []string {
	rest := correctAnswersText
	if loc := answerPrefixRe.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]] + rest[loc[1]:]
	}
	rest = strings.TrimSpace(rest)

	labels := []string{}
	seen := map[string]struct{}{}
	for _, tok := range labelSepRe.Split(rest, -1) {
		m := labelTokenRe.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		labels = append(labels, m[1])
	}
	return labels
}

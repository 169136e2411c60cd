package quiztext

import (
	"regexp"
	"strings"
)

// labelChars is the character class allowed in option labels: Latin letters,
// Arabic letters (أ..ي), Western digits and Arabic-indic digits.
const labelChars = `A-Za-z\x{0623}-\x{064A}0-9\x{0660}-\x{0669}`

var (
	answerMarkerRe = regexp.MustCompile(`الإجابة\s*الصحيحة`)
	optionStartRe  = regexp.MustCompile(`^([` + labelChars + `]+)[).]\s*(.*)$`)
)

// LineKind classifies one trimmed line of a quiz block.
type LineKind int

const (
	LinePlain LineKind = iota
	LineOptionStart
	LineAnswerMarker
)

func (k LineKind) String() string {
	switch k {
	case LineOptionStart:
		return "option_start"
	case LineAnswerMarker:
		return "answer_marker"
	default:
		return "plain"
	}
}

// Line is a classified line. Label is set only for LineOptionStart; Text holds
// the option text for option starts and the whole line otherwise.
type Line struct {
	Kind  LineKind
	Label string
	Text  string
}

// ClassifyLine classifies a single line. The answer marker wins over an
// option label, so "A) الإجابة الصحيحة" is a marker line.
func ClassifyLine(line string) Line {
	line = strings.TrimSpace(line)
	if answerMarkerRe.MatchString(line) {
		return Line{Kind: LineAnswerMarker, Text: line}
	}
	if m := optionStartRe.FindStringSubmatch(line); m != nil {
		return Line{Kind: LineOptionStart, Label: m[1], Text: m[2]}
	}
	return Line{Kind: LinePlain, Text: line}
}

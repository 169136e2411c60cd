package quiztext

import (
	"slices"
	"strings"
)

// State is the position of the block scanner.
type State int

const (
	StateQuestion State = iota
	StateOptions
	StateAnswer
)

func (s State) String() string {
	switch s {
	case StateOptions:
		return "options"
	case StateAnswer:
		return "answer"
	default:
		return "question"
	}
}

// Transition returns the scanner state after consuming a line of kind k.
// StateAnswer is terminal and StateOptions never returns to StateQuestion.
func Transition(s State, k LineKind) State {
	switch {
	case s == StateAnswer:
		return StateAnswer
	case k == LineAnswerMarker:
		return StateAnswer
	case k == LineOptionStart:
		return StateOptions
	default:
		return s
	}
}

// scan is the fold accumulator. step never mutates its receiver's slices.
type scan struct {
	state    State
	question string
	options  []Option
	answers  string
}

// step consumes l; rest is the block from l's raw line to the end and is only
// read when l switches the scanner into answer mode.
func (s scan) step(l Line, rest []string) scan {
	if s.state == StateAnswer {
		return s
	}
	next := s
	next.state = Transition(s.state, l.Kind)

	switch {
	case l.Kind == LineAnswerMarker:
		next.answers = strings.TrimSpace(strings.Join(rest, "\n"))
	case l.Kind == LineOptionStart:
		next.options = append(slices.Clip(s.options), Option{Label: l.Label, Text: l.Text})
	case s.state == StateOptions:
		opts := slices.Clone(s.options)
		opts[len(opts)-1].Text += " " + l.Text
		next.options = opts
	case s.question == "":
		next.question = l.Text
	default:
		next.question = s.question + "\n" + l.Text
	}
	return next
}

// ParseBlock decodes one generated multiple-choice block. It never fails:
// missing parts come back as empty strings and empty slices.
func ParseBlock(raw string) Question {
	lines := nonBlankLines(raw)

	acc := scan{options: []Option{}}
	for i, line := range lines {
		acc = acc.step(ClassifyLine(line), lines[i:])
		if acc.state == StateAnswer {
			break
		}
	}

	return Question{
		Text:               acc.question,
		Options:            acc.options,
		CorrectAnswersText: acc.answers,
		CorrectLabels:      ExtractCorrectLabels(acc.answers),
	}
}

// ParseBlocks decodes every block in order.
func ParseBlocks(raws []string) []Question {
	out := make([]Question, 0, len(raws))
	for _, r := range raws {
		out = append(out, ParseBlock(r))
	}
	return out
}

func nonBlankLines(raw string) []string {
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

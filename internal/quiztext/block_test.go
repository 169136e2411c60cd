package quiztext

import (
	"reflect"
	"testing"
)

func TestParseBlock_ArabicBlock(t *testing.T) {
	raw := "ما هي عاصمة فرنسا؟\n\nأ) باريس\nب) روما\nج) مدريد\n\nالإجابة الصحيحة هي: أ"
	q := ParseBlock(raw)

	if q.Text != "ما هي عاصمة فرنسا؟" {
		t.Fatalf("question text = %q", q.Text)
	}
	want := []Option{{Label: "أ", Text: "باريس"}, {Label: "ب", Text: "روما"}, {Label: "ج", Text: "مدريد"}}
	if !reflect.DeepEqual(q.Options, want) {
		t.Fatalf("options = %#v", q.Options)
	}
	if q.CorrectAnswersText != "الإجابة الصحيحة هي: أ" {
		t.Fatalf("correct answers text = %q", q.CorrectAnswersText)
	}
	if !reflect.DeepEqual(q.CorrectLabels, []string{"أ"}) {
		t.Fatalf("correct labels = %v", q.CorrectLabels)
	}
}

func TestParseBlock_MultiLineQuestion(t *testing.T) {
	q := ParseBlock("  first line  \nsecond line\nA. yes\nB. no\nالإجابة الصحيحة: A")
	if q.Text != "first line\nsecond line" {
		t.Fatalf("question text = %q", q.Text)
	}
	if len(q.Options) != 2 || q.Options[0].Label != "A" || q.Options[1].Text != "no" {
		t.Fatalf("options = %#v", q.Options)
	}
}

func TestParseBlock_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Q\nA) a\nB) b\nالإجابة الصحيحة: A, B",
		"Just a question",
		"Q\nA) line one\ncontinued\nالإجابة الصحيحة هي ب و ج",
	}
	for _, in := range inputs {
		a, b := ParseBlock(in), ParseBlock(in)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("ParseBlock(%q) not idempotent: %#v vs %#v", in, a, b)
		}
	}
}

func TestParseBlock_PreservesOptionOrder(t *testing.T) {
	q := ParseBlock("سؤال\nج) ثلاثة\nأ) واحد\nب) اثنان\nالإجابة الصحيحة: أ")
	got := q.Labels()
	want := []string{"ج", "أ", "ب"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
}

func TestParseBlock_DuplicateLabelsSurvive(t *testing.T) {
	q := ParseBlock("Q\nA) one\nA) two")
	if len(q.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(q.Options))
	}
}

func TestParseBlock_AnswerModeHaltsOptions(t *testing.T) {
	q := ParseBlock("Q\nA) opt1\nB) opt2\nالإجابة الصحيحة: A\nC) stray")
	if len(q.Options) != 2 {
		t.Fatalf("expected 2 options, got %#v", q.Options)
	}
	if q.CorrectAnswersText != "الإجابة الصحيحة: A\nC) stray" {
		t.Fatalf("correct answers text = %q", q.CorrectAnswersText)
	}
}

func TestParseBlock_NoAnswerMarker(t *testing.T) {
	q := ParseBlock("Just a question\nA) x\nB) y")
	if q.CorrectAnswersText != "" {
		t.Fatalf("correct answers text = %q", q.CorrectAnswersText)
	}
	if len(q.CorrectLabels) != 0 {
		t.Fatalf("correct labels = %v", q.CorrectLabels)
	}
	if len(q.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(q.Options))
	}
}

func TestParseBlock_ContinuationLine(t *testing.T) {
	q := ParseBlock("Q\nA) line one\ncontinued text\nB) line two")
	if q.Options[0].Text != "line one continued text" {
		t.Fatalf("option A text = %q", q.Options[0].Text)
	}
	if q.Options[1].Text != "line two" {
		t.Fatalf("option B text = %q", q.Options[1].Text)
	}
}

func TestParseBlock_ZeroOptions(t *testing.T) {
	q := ParseBlock("اشرح دورة الماء.\nالإجابة الصحيحة: تبخر ثم تكاثف")
	if q.Options == nil || len(q.Options) != 0 {
		t.Fatalf("expected empty non-nil options, got %#v", q.Options)
	}
	if q.Text != "اشرح دورة الماء." {
		t.Fatalf("question text = %q", q.Text)
	}
}

func TestParseBlock_EmptyInput(t *testing.T) {
	q := ParseBlock(" \n\n\t\n")
	if q.Text != "" || len(q.Options) != 0 || q.CorrectAnswersText != "" || len(q.CorrectLabels) != 0 {
		t.Fatalf("expected empty question, got %#v", q)
	}
}

func TestParseBlock_CorrectLabelsSubsetOfOptions(t *testing.T) {
	q := ParseBlock("Q\nA) a\nB) b\nC) c\nالإجابة الصحيحة: A و C")
	labels := map[string]bool{}
	for _, l := range q.Labels() {
		labels[l] = true
	}
	for _, l := range q.CorrectLabels {
		if !labels[l] {
			t.Fatalf("correct label %q not among options %v", l, q.Labels())
		}
	}
	if !q.IsCorrect("C") || q.IsCorrect("B") {
		t.Fatalf("unexpected correctness for %v", q.CorrectLabels)
	}
}

func TestParseBlocks(t *testing.T) {
	qs := ParseBlocks([]string{"Q1\nA) x", "Q2\nB) y"})
	if len(qs) != 2 || qs[1].Text != "Q2" {
		t.Fatalf("unexpected %#v", qs)
	}
}

func TestClassifyLine(t *testing.T) {
	cases := []struct {
		in    string
		kind  LineKind
		label string
		text  string
	}{
		{"A) Paris", LineOptionStart, "A", "Paris"},
		{"  b.   Rome ", LineOptionStart, "b", "Rome"},
		{"٣) ثلاثة", LineOptionStart, "٣", "ثلاثة"},
		{"12) twelve", LineOptionStart, "12", "twelve"},
		{"الإجابة الصحيحة: A", LineAnswerMarker, "", "الإجابة الصحيحة: A"},
		{"**الإجابة  الصحيحة**: ب", LineAnswerMarker, "", "**الإجابة  الصحيحة**: ب"},
		{"A) الإجابة الصحيحة", LineAnswerMarker, "", "A) الإجابة الصحيحة"},
		{"What is the capital?", LinePlain, "", "What is the capital?"},
		{"(A) bracketed", LinePlain, "", "(A) bracketed"},
	}
	for _, c := range cases {
		got := ClassifyLine(c.in)
		if got.Kind != c.kind || got.Label != c.label || got.Text != c.text {
			t.Errorf("ClassifyLine(%q) = %+v, want kind=%v label=%q text=%q", c.in, got, c.kind, c.label, c.text)
		}
	}
}

func TestTransition(t *testing.T) {
	cases := []struct {
		from State
		kind LineKind
		want State
	}{
		{StateQuestion, LinePlain, StateQuestion},
		{StateQuestion, LineOptionStart, StateOptions},
		{StateQuestion, LineAnswerMarker, StateAnswer},
		{StateOptions, LinePlain, StateOptions},
		{StateOptions, LineOptionStart, StateOptions},
		{StateOptions, LineAnswerMarker, StateAnswer},
		{StateAnswer, LinePlain, StateAnswer},
		{StateAnswer, LineOptionStart, StateAnswer},
		{StateAnswer, LineAnswerMarker, StateAnswer},
	}
	for _, c := range cases {
		if got := Transition(c.from, c.kind); got != c.want {
			t.Errorf("Transition(%v, %v) = %v, want %v", c.from, c.kind, got, c.want)
		}
	}
}

func TestScanStepDoesNotMutate(t *testing.T) {
	base := scan{state: StateOptions, options: []Option{{Label: "A", Text: "one"}}}
	next := base.step(Line{Kind: LinePlain, Text: "more"}, nil)
	if base.options[0].Text != "one" {
		t.Fatalf("receiver mutated: %q", base.options[0].Text)
	}
	if next.options[0].Text != "one more" {
		t.Fatalf("next option text = %q", next.options[0].Text)
	}
}

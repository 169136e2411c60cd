package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/quiztext"
	"github.com/mind-engage/mindengage-quiz/internal/upstream"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	kind     string
	input    string
	output   string
	upstream string
	verbose  bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("quizdecode", flag.ContinueOnError)
	fs.StringVar(&o.kind, "kind", "mcq", "What to decode: mcq, free_text or evaluation")
	fs.StringVar(&o.input, "input", "-", `Input file; {"quiz": [...]} JSON, or raw grading text for -kind evaluation ("-" reads stdin)`)
	fs.StringVar(&o.output, "output", "", "Output JSON file (defaults to stdout)")
	fs.StringVar(&o.upstream, "upstream", "", "Fetch the quiz from this AI server instead of -input")
	fs.BoolVar(&o.verbose, "verbose", false, "Enable verbose output on stderr")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch o.kind {
	case upstream.KindMCQ, upstream.KindFreeText, "evaluation":
	default:
		return options{}, fmt.Errorf("unknown -kind %q", o.kind)
	}
	if o.upstream != "" && o.kind == "evaluation" {
		return options{}, errors.New("-upstream cannot be used with -kind evaluation")
	}
	return o, nil
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	log := logger.Nop()
	if o.verbose {
		if log, err = logger.New("dev"); err != nil {
			return err
		}
		defer log.Sync()
	}

	result, err := decode(o, stdin, log)
	if err != nil {
		return err
	}

	if err := writeOutput(o.output, stdout, result); err != nil {
		return err
	}
	log.Info("done", "output", o.output)
	return nil
}

// createFile opens the -output file.
var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// writeOutput writes v as indented JSON to path, or to stdout when path is
// empty. A failed close is reported, since it can hide a short write.
func writeOutput(path string, stdout io.Writer, v interface{}) error {
	if path == "" {
		return encodeJSON(stdout, v)
	}
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := encodeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func decode(o options, stdin io.Reader, log *logger.Logger) (interface{}, error) {
	if o.kind == "evaluation" {
		b, err := readInput(o.input, stdin)
		if err != nil {
			return nil, err
		}
		ev := quiztext.ParseEvaluation(string(b))
		log.Info("decoded evaluation", "grade", ev.GradeLabel(), "band", ev.Band())
		return ev.View(), nil
	}

	raws, err := loadRaws(o, stdin, log)
	if err != nil {
		return nil, err
	}
	if o.kind == upstream.KindFreeText {
		items := quiztext.ParseFreeTexts(raws)
		log.Info("decoded free-text quiz", "items", len(items))
		return items, nil
	}
	qs := quiztext.ParseBlocks(raws)
	for i, q := range qs {
		if len(q.CorrectLabels) == 0 {
			log.Warn("question has no answer key", "index", i, "question", q.Text)
		}
	}
	log.Info("decoded quiz", "questions", len(qs))
	return qs, nil
}

func loadRaws(o options, stdin io.Reader, log *logger.Logger) ([]string, error) {
	if o.upstream != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		log.Info("fetching quiz", "upstream", o.upstream, "kind", o.kind)
		return upstream.New(upstream.Config{BaseURL: o.upstream}).FetchQuiz(ctx, o.kind)
	}
	b, err := readInput(o.input, stdin)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Quiz []string `json:"quiz"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	return payload.Quiz, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}

// Package upstream talks to the AI server that generates quizzes and grades
// free-text answers.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	KindMCQ      = "mcq"
	KindFreeText = "free_text"
)

type Client struct {
	base string
	http *http.Client
}

type Config struct {
	BaseURL string // e.g. http://localhost:8000
	Timeout time.Duration
	// Optional; copied, so Timeout never changes the caller's client.
	HTTPClient *http.Client
}

func New(cfg Config) *Client {
	h := &http.Client{}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		h = &c
	}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{base: strings.TrimSuffix(cfg.BaseURL, "/"), http: h}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Code, e.Body)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Code)
}

func quizPath(kind string) (string, error) {
	switch kind {
	case KindMCQ:
		return "/quiz/", nil
	case KindFreeText:
		return "/free-text-quiz/", nil
	default:
		return "", fmt.Errorf("unknown quiz kind %q", kind)
	}
}

// FetchQuiz returns the raw generated blocks for the current learning plan.
func (c *Client) FetchQuiz(ctx context.Context, kind string) ([]string, error) {
	p, err := quizPath(kind)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+p, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var out struct {
		Quiz []string `json:"quiz"`
	}
	if err := c.do(req, "fetch quiz", &out); err != nil {
		return nil, err
	}
	if out.Quiz == nil {
		out.Quiz = []string{}
	}
	return out.Quiz, nil
}

// Evaluate asks the server to grade answer against groundTruth and returns
// the raw grading text.
func (c *Client) Evaluate(ctx context.Context, answer, groundTruth string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"answer":       answer,
		"ground_truth": groundTruth,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/evaluate-text-quiz/", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var out struct {
		Evaluation string `json:"evaluation"`
	}
	if err := c.do(req, "evaluate", &out); err != nil {
		return "", err
	}
	return out.Evaluation, nil
}

func (c *Client) do(req *http.Request, op string, dst interface{}) error {
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return &StatusError{Op: op, Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

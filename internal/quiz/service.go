package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mind-engage/mindengage-quiz/internal/events"
	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

var ErrRawUnavailable = errors.New("raw quiz payload not archived")

// Fetcher returns raw generated quiz blocks of a kind.
type Fetcher interface {
	FetchQuiz(ctx context.Context, kind string) ([]string, error)
}

type Service struct {
	store   Store
	grader  grading.Grader
	fetcher Fetcher
	blobs   storage.BlobStore
	events  events.Recorder
	log     *logger.Logger
	workers int

	submits singleflight.Group
}

type ServiceOption func(*Service)

func WithFetcher(f Fetcher) ServiceOption             { return func(s *Service) { s.fetcher = f } }
func WithBlobStore(b storage.BlobStore) ServiceOption { return func(s *Service) { s.blobs = b } }
func WithEvents(r events.Recorder) ServiceOption      { return func(s *Service) { s.events = r } }
func WithLogger(l *logger.Logger) ServiceOption       { return func(s *Service) { s.log = l } }
func WithGradeConcurrency(n int) ServiceOption        { return func(s *Service) { s.workers = n } }

func NewService(store Store, grader grading.Grader, opts ...ServiceOption) *Service {
	s := &Service{store: store, grader: grader, log: logger.Nop(), workers: 4}
	for _, o := range opts {
		o(s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	return s
}

// Import fetches a freshly generated quiz of kind from the quiz source and
// stores it decoded.
func (s *Service) Import(ctx context.Context, kind Kind) (Quiz, error) {
	if s.fetcher == nil {
		return Quiz{}, ErrNoUpstream
	}
	raws, err := s.fetcher.FetchQuiz(ctx, string(kind))
	if err != nil {
		return Quiz{}, fmt.Errorf("fetch %s quiz: %w", kind, err)
	}
	return s.ImportRaw(ctx, kind, "upstream", raws)
}

// ImportRaw decodes raws and stores them as a new quiz.
func (s *Service) ImportRaw(ctx context.Context, kind Kind, source string, raws []string) (Quiz, error) {
	if len(raws) == 0 {
		return Quiz{}, ErrEmptyQuiz
	}
	items, err := Decode(kind, raws)
	if err != nil {
		return Quiz{}, err
	}
	q := Quiz{ID: uuid.NewString(), Kind: kind, Source: source, Items: items}

	if s.blobs != nil {
		payload, _ := json.Marshal(map[string]interface{}{"kind": kind, "quiz": raws})
		if _, err := s.blobs.Put(rawKey(q.ID), bytes.NewReader(payload)); err != nil {
			return Quiz{}, fmt.Errorf("archive raw quiz: %w", err)
		}
	}
	if err := s.store.PutQuiz(ctx, q); err != nil {
		return Quiz{}, fmt.Errorf("store quiz: %w", err)
	}
	s.record(ctx, events.TypeQuizImported, q.ID, map[string]interface{}{"kind": kind, "source": source, "items": len(items)})
	s.log.Info("quiz imported", "quiz_id", q.ID, "kind", kind, "source", source, "items", len(items))
	return s.store.GetQuizAdmin(ctx, q.ID)
}

// Quiz returns a quiz; answers are stripped unless withAnswers is set.
func (s *Service) Quiz(ctx context.Context, id string, withAnswers bool) (Quiz, error) {
	if withAnswers {
		return s.store.GetQuizAdmin(ctx, id)
	}
	return s.store.GetQuiz(ctx, id)
}

func (s *Service) List(ctx context.Context, opts ListOpts) ([]QuizSummary, error) {
	return s.store.ListQuizzes(ctx, opts)
}

// Raw opens the archived upstream payload of a quiz.
func (s *Service) Raw(ctx context.Context, id string) (io.ReadCloser, error) {
	if _, err := s.store.GetQuizAdmin(ctx, id); err != nil {
		return nil, err
	}
	if s.blobs == nil {
		return nil, ErrRawUnavailable
	}
	rc, err := s.blobs.Get(rawKey(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRawUnavailable, err)
	}
	return rc, nil
}

func (s *Service) Start(ctx context.Context, quizID, userID string) (Attempt, error) {
	return s.store.NewAttempt(ctx, quizID, userID)
}

func (s *Service) Respond(ctx context.Context, attemptID string, resp map[string]interface{}) (Attempt, error) {
	return s.store.SaveResponses(ctx, attemptID, resp)
}

func (s *Service) Attempt(ctx context.Context, id string) (Attempt, error) {
	return s.store.GetAttempt(ctx, id)
}

// Submit grades every item of the attempt and finalizes it. Submitting an
// already submitted attempt returns it unchanged. Concurrent submits of one
// attempt in this process share a single grading run; across processes only
// the submit that finalizes the row records the event.
func (s *Service) Submit(ctx context.Context, attemptID string) (Attempt, error) {
	v, err, _ := s.submits.Do(attemptID, func() (interface{}, error) {
		return s.submit(ctx, attemptID)
	})
	if err != nil {
		return Attempt{}, err
	}
	return copyAttempt(v.(Attempt)), nil
}

func (s *Service) submit(ctx context.Context, attemptID string) (Attempt, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if a.Status == StatusSubmitted {
		return a, nil
	}
	q, err := s.store.GetQuizAdmin(ctx, a.QuizID)
	if err != nil {
		return Attempt{}, fmt.Errorf("load quiz %s: %w", a.QuizID, err)
	}

	results := make([]grading.Result, len(q.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, it := range q.Items {
		g.Go(func() error {
			results[i] = s.gradeItem(gctx, q.Kind, it, a.Responses[it.ID])
			return nil
		})
	}
	_ = g.Wait()

	a.Results = make(map[string]grading.Result, len(q.Items))
	a.Score, a.MaxScore = 0, 0
	for i, it := range q.Items {
		a.Results[it.ID] = results[i]
		a.Score += results[i].Points()
		a.MaxScore += results[i].MaxPoints
	}

	saved, finalized, err := s.store.SaveResults(ctx, a)
	if err != nil {
		return Attempt{}, fmt.Errorf("save results: %w", err)
	}
	if !finalized {
		return saved, nil
	}
	s.record(ctx, events.TypeAttemptSubmitted, saved.ID, map[string]interface{}{
		"quiz_id": saved.QuizID, "user_id": saved.UserID, "score": saved.Score, "max_score": saved.MaxScore,
	})
	s.log.Info("attempt submitted", "attempt_id", saved.ID, "quiz_id", saved.QuizID, "score", saved.Score, "max_score", saved.MaxScore)
	return saved, nil
}

// Grading lists the items of a submitted attempt with the answer key, the
// response and the current result.
func (s *Service) Grading(ctx context.Context, attemptID string) ([]GradingItem, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusSubmitted {
		return nil, ErrAttemptNotSubmitted
	}
	q, err := s.store.GetQuizAdmin(ctx, a.QuizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz %s: %w", a.QuizID, err)
	}
	out := make([]GradingItem, 0, len(q.Items))
	for _, it := range q.Items {
		out = append(out, GradingItem{
			ItemID:   it.ID,
			Question: it.Question,
			FreeText: it.FreeText,
			Response: a.Responses[it.ID],
			Result:   a.Results[it.ID],
		})
	}
	return out, nil
}

// GradeManually applies a grader's scores to a submitted attempt.
func (s *Service) GradeManually(ctx context.Context, attemptID string, grades map[string]ManualGrade, gradedBy string) (Attempt, error) {
	a, err := s.store.ApplyManualGrades(ctx, attemptID, grades, gradedBy)
	if err != nil {
		return Attempt{}, err
	}
	items := make([]string, 0, len(grades))
	for id := range grades {
		items = append(items, id)
	}
	sort.Strings(items)
	s.record(ctx, events.TypeAttemptGraded, a.ID, map[string]interface{}{
		"quiz_id": a.QuizID, "graded_by": gradedBy, "items": items, "score": a.Score, "max_score": a.MaxScore,
	})
	s.log.Info("attempt graded", "attempt_id", a.ID, "graded_by", gradedBy, "items", len(items), "score", a.Score)
	return a, nil
}

func (s *Service) gradeItem(ctx context.Context, kind Kind, it Item, resp interface{}) grading.Result {
	if resp == nil {
		if kind == KindFreeText {
			resp = ""
		} else {
			resp = []string{}
		}
	}
	res, err := s.grader.Grade(ctx, it.gradingQ(kind), resp)
	if err != nil {
		s.log.Warn("invalid response", "item_id", it.ID, "error", err)
		return grading.Result{MaxPoints: it.Points, NeedsManual: true, Feedback: []string{"invalid response: " + err.Error()}}
	}
	return res
}

func (s *Service) record(ctx context.Context, typ, key string, data interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(ctx, events.Event{Type: typ, Key: key, Data: data}); err != nil {
		s.log.Warn("event append failed", "type", typ, "key", key, "error", err)
	}
}

func rawKey(quizID string) string { return path.Join("quizzes", quizID, "raw.json") }

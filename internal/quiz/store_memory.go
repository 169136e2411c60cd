package quiz

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
)

type memoryStore struct {
	mu       sync.RWMutex
	quizzes  map[string]Quiz
	attempts map[string]Attempt
	now      func() time.Time
}

// NewMemoryStore keeps everything in process memory. Used in tests and for
// throwaway offline runs.
func NewMemoryStore() Store {
	return &memoryStore{
		quizzes:  map[string]Quiz{},
		attempts: map[string]Attempt{},
		now:      time.Now,
	}
}

func (m *memoryStore) PutQuiz(_ context.Context, q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.CreatedAt == 0 {
		q.CreatedAt = m.now().Unix()
	}
	q.Items = append([]Item(nil), q.Items...)
	m.quizzes[q.ID] = q
	return nil
}

func (m *memoryStore) GetQuizAdmin(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	q.Items = append([]Item(nil), q.Items...)
	return q, nil
}

func (m *memoryStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	q, err := m.GetQuizAdmin(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	return q.StudentView(), nil
}

func (m *memoryStore) ListQuizzes(_ context.Context, opts ListOpts) ([]QuizSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]QuizSummary, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		if opts.Kind != "" && q.Kind != opts.Kind {
			continue
		}
		all = append(all, QuizSummary{ID: q.ID, Kind: q.Kind, Source: q.Source, ItemCount: len(q.Items), CreatedAt: q.CreatedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt != all[j].CreatedAt {
			return all[i].CreatedAt > all[j].CreatedAt
		}
		return all[i].ID < all[j].ID
	})
	off := max(opts.Offset, 0)
	if off >= len(all) {
		return []QuizSummary{}, nil
	}
	all = all[off:]
	if n := normLimit(opts.Limit); len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (m *memoryStore) NewAttempt(_ context.Context, quizID, userID string) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[quizID]; !ok {
		return Attempt{}, ErrQuizNotFound
	}
	a := Attempt{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		UserID:    userID,
		Status:    StatusInProgress,
		Responses: map[string]interface{}{},
		StartedAt: m.now().Unix(),
	}
	m.attempts[a.ID] = a
	return copyAttempt(a), nil
}

func (m *memoryStore) SaveResponses(_ context.Context, attemptID string, resp map[string]interface{}) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	if a.Status == StatusSubmitted {
		return Attempt{}, ErrAttemptSubmitted
	}
	a = copyAttempt(a)
	for k, v := range resp {
		a.Responses[k] = v
	}
	m.attempts[attemptID] = a
	return copyAttempt(a), nil
}

func (m *memoryStore) SaveResults(_ context.Context, in Attempt) (Attempt, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[in.ID]
	if !ok {
		return Attempt{}, false, ErrAttemptNotFound
	}
	if a.Status == StatusSubmitted {
		return copyAttempt(a), false, nil
	}
	a = copyAttempt(in)
	a.Status = StatusSubmitted
	now := m.now().Unix()
	a.SubmittedAt = &now
	m.attempts[a.ID] = a
	return copyAttempt(a), true, nil
}

func (m *memoryStore) ApplyManualGrades(_ context.Context, attemptID string, grades map[string]ManualGrade, gradedBy string) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	graded, err := applyManualGrades(copyAttempt(a), grades, gradedBy)
	if err != nil {
		return Attempt{}, err
	}
	m.attempts[attemptID] = graded
	return copyAttempt(graded), nil
}

func (m *memoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return copyAttempt(a), nil
}

func copyAttempt(a Attempt) Attempt {
	resp := make(map[string]interface{}, len(a.Responses))
	for k, v := range a.Responses {
		resp[k] = v
	}
	a.Responses = resp
	if a.Results != nil {
		res := make(map[string]grading.Result, len(a.Results))
		for k, v := range a.Results {
			res[k] = v
		}
		a.Results = res
	}
	return a
}

package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
)

type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	ij, err := json.Marshal(q.Items)
	if err != nil {
		return err
	}
	if q.CreatedAt == 0 {
		q.CreatedAt = s.now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes (id,kind,source,item_count,items_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET kind=EXCLUDED.kind, source=EXCLUDED.source,
			item_count=EXCLUDED.item_count, items_json=EXCLUDED.items_json`,
		q.ID, string(q.Kind), q.Source, len(q.Items), string(ij), q.CreatedAt)
	return err
}

func (s *SQLStore) GetQuizAdmin(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,kind,source,items_json,created_at FROM quizzes WHERE id=$1`, id)
	var q Quiz
	var kind, ijson string
	if err := row.Scan(&q.ID, &kind, &q.Source, &ijson, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, err
	}
	q.Kind = Kind(kind)
	if err := json.Unmarshal([]byte(ijson), &q.Items); err != nil {
		return Quiz{}, fmt.Errorf("decode items of quiz %s: %w", id, err)
	}
	return q, nil
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	q, err := s.GetQuizAdmin(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	return q.StudentView(), nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,kind,source,item_count,created_at FROM quizzes
		WHERE ($1 = '' OR kind = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`,
		string(opts.Kind), normLimit(opts.Limit), max(opts.Offset, 0))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []QuizSummary{}
	for rows.Next() {
		var qs QuizSummary
		var kind string
		if err := rows.Scan(&qs.ID, &kind, &qs.Source, &qs.ItemCount, &qs.CreatedAt); err != nil {
			return nil, err
		}
		qs.Kind = Kind(kind)
		out = append(out, qs)
	}
	return out, rows.Err()
}

func (s *SQLStore) NewAttempt(ctx context.Context, quizID, userID string) (Attempt, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE id=$1`, quizID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrQuizNotFound
		}
		return Attempt{}, err
	}
	a := Attempt{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		UserID:    userID,
		Status:    StatusInProgress,
		Responses: map[string]interface{}{},
		StartedAt: s.now().Unix(),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO attempts (id,quiz_id,user_id,status,score,max_score,responses_json,results_json,started_at)
		VALUES ($1,$2,$3,$4,0,0,'{}','{}',$5)`,
		a.ID, a.QuizID, a.UserID, a.Status, a.StartedAt)
	if err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) SaveResponses(ctx context.Context, attemptID string, resp map[string]interface{}) (Attempt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Attempt{}, err
	}
	defer tx.Rollback()

	a, err := scanAttempt(tx.QueryRowContext(ctx, selectAttempt, attemptID))
	if err != nil {
		return Attempt{}, err
	}
	if a.Status == StatusSubmitted {
		return Attempt{}, ErrAttemptSubmitted
	}
	for k, v := range resp {
		a.Responses[k] = v
	}
	buf, err := json.Marshal(a.Responses)
	if err != nil {
		return Attempt{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE attempts SET responses_json=$1 WHERE id=$2`, string(buf), attemptID); err != nil {
		return Attempt{}, err
	}
	if err := tx.Commit(); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) SaveResults(ctx context.Context, a Attempt) (Attempt, bool, error) {
	rj, err := json.Marshal(a.Results)
	if err != nil {
		return Attempt{}, false, err
	}
	respJSON, err := json.Marshal(a.Responses)
	if err != nil {
		return Attempt{}, false, err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE attempts SET status=$1, score=$2, max_score=$3, responses_json=$4, results_json=$5, submitted_at=$6
		WHERE id=$7 AND status=$8`,
		StatusSubmitted, a.Score, a.MaxScore, string(respJSON), string(rj), s.now().Unix(), a.ID, StatusInProgress)
	if err != nil {
		return Attempt{}, false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Attempt{}, false, err
	}
	saved, err := s.GetAttempt(ctx, a.ID)
	if err != nil {
		return Attempt{}, false, err
	}
	return saved, n == 1, nil
}

func (s *SQLStore) ApplyManualGrades(ctx context.Context, attemptID string, grades map[string]ManualGrade, gradedBy string) (Attempt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Attempt{}, err
	}
	defer tx.Rollback()

	a, err := scanAttempt(tx.QueryRowContext(ctx, selectAttempt, attemptID))
	if err != nil {
		return Attempt{}, err
	}
	graded, err := applyManualGrades(a, grades, gradedBy)
	if err != nil {
		return Attempt{}, err
	}
	rj, err := json.Marshal(graded.Results)
	if err != nil {
		return Attempt{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE attempts SET score=$1, results_json=$2 WHERE id=$3 AND status=$4`,
		graded.Score, string(rj), attemptID, StatusSubmitted); err != nil {
		return Attempt{}, err
	}
	if err := tx.Commit(); err != nil {
		return Attempt{}, err
	}
	return graded, nil
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	return scanAttempt(s.db.QueryRowContext(ctx, selectAttempt, id))
}

const selectAttempt = `SELECT id,quiz_id,user_id,status,score,max_score,responses_json,results_json,started_at,submitted_at
	FROM attempts WHERE id=$1`

func scanAttempt(row *sql.Row) (Attempt, error) {
	var a Attempt
	var rjson, resJSON string
	var submitted sql.NullInt64
	if err := row.Scan(&a.ID, &a.QuizID, &a.UserID, &a.Status, &a.Score, &a.MaxScore, &rjson, &resJSON, &a.StartedAt, &submitted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(rjson), &a.Responses); err != nil || a.Responses == nil {
		a.Responses = map[string]interface{}{}
	}
	var results map[string]grading.Result
	if err := json.Unmarshal([]byte(resJSON), &results); err == nil && len(results) > 0 {
		a.Results = results
	}
	if submitted.Valid {
		v := submitted.Int64
		a.SubmittedAt = &v
	}
	return a, nil
}

package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	TypeQuizImported     = "QuizImported"
	TypeAttemptSubmitted = "AttemptSubmitted"
	TypeAttemptGraded    = "AttemptGraded"
)

type Event struct {
	Seq       int64       `json:"seq"`
	SiteID    string      `json:"site_id"`
	Type      string      `json:"type"`
	Key       string      `json:"key"`
	Data      interface{} `json:"data,omitempty"`
	CreatedAt int64       `json:"created_at"`
}

// Recorder appends domain events. The service runs with a nil Recorder.
type Recorder interface {
	Append(ctx context.Context, e Event) error
}

type Repo struct {
	db     *sql.DB
	siteID string
}

func NewRepo(db *sql.DB, siteID string) *Repo {
	if siteID == "" {
		siteID = "local"
	}
	return &Repo{db: db, siteID: siteID}
}

func (r *Repo) Append(ctx context.Context, e Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	site := e.SiteID
	if site == "" {
		site = r.siteID
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, event_key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		site, e.Type, e.Key, string(data), time.Now().Unix())
	return err
}

// List returns events with a sequence number greater than after, oldest first.
func (r *Repo) List(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, event_key, data, created_at FROM event_log
		 WHERE seq > $1 ORDER BY seq LIMIT $2`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		var data string
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &data, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Data = json.RawMessage(data)
		out = append(out, e)
	}
	return out, rows.Err()
}

package http

import (
	"context"
	"net/http"

	"github.com/mind-engage/mindengage-quiz/internal/events"
)

type EventLister interface {
	List(ctx context.Context, after int64, limit int) ([]events.Event, error)
}

// GET /events?after=&limit=
func ListEventsHandler(ev EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after := int64(parseIntDefault(r.URL.Query().Get("after"), 0))
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		list, err := ev.List(r.Context(), after, limit)
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

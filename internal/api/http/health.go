package http

import (
	"context"
	"net/http"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/apierr"
)

func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
}

// ReadyzHandler reports 503 while check fails. A nil check is always ready.
func ReadyzHandler(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				apierr.Write(w, apierr.New(http.StatusServiceUnavailable, "not_ready", err))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

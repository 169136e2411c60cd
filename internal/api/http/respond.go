package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/mind-engage/mindengage-quiz/internal/apierr"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/upstream"
)

const maxBody = 4 << 20

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		apierr.Write(w, apierr.New(http.StatusBadRequest, "bad_json", err))
		return false
	}
	return true
}

// respondErr maps domain and upstream errors onto API errors.
func respondErr(w http.ResponseWriter, err error) {
	apierr.Write(w, classify(err))
}

func classify(err error) error {
	var se *upstream.StatusError
	var ne net.Error
	switch {
	case errors.Is(err, quiz.ErrQuizNotFound):
		return apierr.New(http.StatusNotFound, "quiz_not_found", err)
	case errors.Is(err, quiz.ErrAttemptNotFound):
		return apierr.New(http.StatusNotFound, "attempt_not_found", err)
	case errors.Is(err, quiz.ErrRawUnavailable):
		return apierr.New(http.StatusNotFound, "raw_unavailable", err)
	case errors.Is(err, quiz.ErrAttemptSubmitted):
		return apierr.New(http.StatusConflict, "attempt_submitted", err)
	case errors.Is(err, quiz.ErrAttemptNotSubmitted):
		return apierr.New(http.StatusConflict, "attempt_not_submitted", err)
	case errors.Is(err, quiz.ErrUnknownItem):
		return apierr.New(http.StatusBadRequest, "unknown_item", err)
	case errors.Is(err, quiz.ErrPointsOutOfRange):
		return apierr.New(http.StatusBadRequest, "points_out_of_range", err)
	case errors.Is(err, quiz.ErrUnknownKind):
		return apierr.New(http.StatusBadRequest, "unknown_kind", err)
	case errors.Is(err, quiz.ErrEmptyQuiz):
		return apierr.New(http.StatusBadRequest, "empty_quiz", err)
	case errors.Is(err, quiz.ErrNoUpstream):
		return apierr.New(http.StatusServiceUnavailable, "upstream_not_configured", err)
	case errors.As(err, &se):
		return apierr.New(http.StatusBadGateway, "upstream_error", err)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return apierr.New(http.StatusGatewayTimeout, "upstream_timeout", err)
	}
	return err
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

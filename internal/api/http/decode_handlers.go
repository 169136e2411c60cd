package http

import (
	"net/http"

	"github.com/mind-engage/mindengage-quiz/internal/quiztext"
)

type rawQuiz struct {
	Quiz []string `json:"quiz"`
}

// POST /decode/quiz  {"quiz": ["block", ...]} -> [Question]
func DecodeQuizHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rawQuiz
		if !decodeJSON(w, r, &req) {
			return
		}
		respondJSON(w, http.StatusOK, quiztext.ParseBlocks(req.Quiz))
	}
}

// POST /decode/free-text  {"quiz": ["item", ...]} -> [FreeText]
func DecodeFreeTextHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rawQuiz
		if !decodeJSON(w, r, &req) {
			return
		}
		respondJSON(w, http.StatusOK, quiztext.ParseFreeTexts(req.Quiz))
	}
}

// POST /decode/evaluation  {"evaluation": "..."}
func DecodeEvaluationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Evaluation string `json:"evaluation"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		respondJSON(w, http.StatusOK, quiztext.ParseEvaluation(req.Evaluation).View())
	}
}

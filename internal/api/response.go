package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"restaurant-menu-service/internal/validation"
)

// Envelope is the body of every API response.
type Envelope struct {
	OK      bool                 `json:"ok"`
	Message string               `json:"message"`
	Data    any                  `json:"data,omitempty"`
	Errors  []validation.Failure `json:"errors,omitempty"`
}

func respondWithData(w http.ResponseWriter, r *http.Request, code int, message string, data any) {
	respondWithJSON(w, r, code, Envelope{OK: true, Message: message, Data: data})
}

func respondWithMessage(w http.ResponseWriter, r *http.Request, code int, message string) {
	respondWithJSON(w, r, code, Envelope{OK: true, Message: message})
}

func respondWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	respondWithJSON(w, r, code, Envelope{OK: false, Message: message})
}

func respondWithFailures(w http.ResponseWriter, r *http.Request, failures []validation.Failure) {
	respondWithJSON(w, r, http.StatusBadRequest, Envelope{
		OK:      false,
		Message: "validation failed",
		Errors:  failures,
	})
}

func respondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode JSON response")
		code = http.StatusInternalServerError
		body = []byte(`{"ok":false,"message":"internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("failed to write response")
	}
}

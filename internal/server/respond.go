package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/politicosbr/camara-client/pkg/client"
	"github.com/politicosbr/camara-client/pkg/query"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// respondJSON writes v with a public Cache-Control matching the data's TTL.
// A zero ttl marks the response as not cacheable.
func respondJSON(w http.ResponseWriter, status int, v any, ttl time.Duration) {
	if ttl > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(ttl.Seconds())))
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg}, 0)
}

// statusClientClosedRequest is used when the caller went away mid-request.
const statusClientClosedRequest = 499

// respondQueryError maps the client error taxonomy onto proxy status codes.
func respondQueryError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{Error: http.StatusText(status), Kind: string(client.KindOf(err))}
	if status == statusClientClosedRequest {
		body.Error = "client closed request"
	}
	if status == http.StatusBadRequest || status == http.StatusNotFound {
		body.Error = err.Error()
	}
	respondJSON(w, status, body, 0)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, query.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, client.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, client.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, client.ErrUpstreamStatus),
		errors.Is(err, client.ErrNetworkUnavailable),
		errors.Is(err, client.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

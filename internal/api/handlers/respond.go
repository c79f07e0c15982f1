package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/mhasan/chatwave/internal/domain"
)

// errorStatus fixes the client-facing status of each domain error once,
// at definition time. Unknown errors fall through to 500.
var errorStatus = map[error]int{
	domain.ErrValidation:         http.StatusBadRequest,
	domain.ErrMalformedPayload:   http.StatusBadRequest,
	domain.ErrEmailExists:        http.StatusBadRequest,
	domain.ErrUnauthenticated:    http.StatusUnauthorized,
	domain.ErrInvalidCredentials: http.StatusUnauthorized,
	domain.ErrUserNotFound:       http.StatusNotFound,
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR [handlers] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	for domainErr, status := range errorStatus {
		if errors.Is(err, domainErr) {
			writeJSON(w, status, map[string]string{"message": domainErr.Error()})
			return
		}
	}

	log.Printf("ERROR [handlers] internal failure: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal Server Error"})
}

// delayResponse reproduces the deliberate response-latency policy of the
// source deployment. It respects request cancellation.
func delayResponse(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rateLimited(limit int) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RateLimit(limit, time.Minute)(inner)
}

func TestRateLimitKeyedByQueryPID(t *testing.T) {
	h := rateLimited(1)

	// Distinct participants from the same address get separate budgets.
	for _, pid := range []string{"P1", "P2", "P3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/session?pid="+pid+"&bot=1", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	h := rateLimited(1)

	// No pid in the query string (the chat endpoint's shape): keyed by IP,
	// so the second request from the same address is rejected.
	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "request %d", i+1)
	}
}

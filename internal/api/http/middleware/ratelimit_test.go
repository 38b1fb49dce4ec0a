package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/boogle-server/internal/api/http/handler"
	"github.com/dtroode/boogle-server/internal/metrics"
	"github.com/dtroode/boogle-server/internal/mocks"
	"github.com/dtroode/boogle-server/internal/ratelimit"
	"github.com/dtroode/boogle-server/internal/testutil"
)

func TestRateLimit_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		decision   ratelimit.Decision
		err        error
		wantStatus int
		wantNext   bool
		wantRetry  string
	}{
		{
			name:       "allowed",
			decision:   ratelimit.Decision{Allowed: true, Limit: 5, Remaining: 4, RetryAfter: time.Minute},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "rejected",
			decision:   ratelimit.Decision{Allowed: false, Limit: 5, Remaining: 0, RetryAfter: 1500 * time.Millisecond},
			wantStatus: http.StatusTooManyRequests,
			wantRetry:  "2",
		},
		{
			name:       "limiter down fails open",
			decision:   ratelimit.Decision{Allowed: true},
			err:        errors.New("redis error"),
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			limiter := mocks.NewLimiter(t)
			limiter.On("Allow", mock.Anything, "unmatched:10.0.0.1").Return(tt.decision, tt.err)

			m := metrics.New(prometheus.NewRegistry())
			log := testutil.MakeNoopLogger()
			mw := NewRateLimit(limiter, handler.NewResponder(log, false), m, true, log)

			var called bool
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
			rec := httptest.NewRecorder()

			mw.Handle(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, called)
			assert.Equal(t, tt.wantRetry, rec.Header().Get("Retry-After"))
			if tt.wantStatus == http.StatusTooManyRequests {
				assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
				assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RateLimitedTotal.WithLabelValues("unmatched")))
				assert.Equal(t, "Too many requests. Please try again later.", decodeError(t, rec).Message)
			}
		})
	}
}

func TestRateLimit_IgnoresForwardedHeadersByDefault(t *testing.T) {
	t.Parallel()

	limiter := mocks.NewLimiter(t)
	limiter.On("Allow", mock.Anything, "unmatched:192.0.2.1").
		Return(ratelimit.Decision{Allowed: true, Limit: 5, Remaining: 4}, nil).
		Times(3)

	log := testutil.MakeNoopLogger()
	mw := NewRateLimit(limiter, handler.NewResponder(log, false), metrics.New(prometheus.NewRegistry()), false, log)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, spoofed := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Forwarded-For", spoofed)
		req.Header.Set("X-Real-IP", spoofed)
		rec := httptest.NewRecorder()

		mw.Handle(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

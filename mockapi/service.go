// Package mockapi implements the per-resource request handlers of the mock
// back-office API. Each service owns a router over a fixture snapshot and
// implements http.Handler, so it can be mounted on the interception server or
// served directly by the dev server.
package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/storeops/backoffice-mock/framework"
	"github.com/storeops/backoffice-mock/framework/helpers"

	"golang.org/x/time/rate"
)

type serviceConfig struct {
	latency time.Duration
	limiter *rate.Limiter
	logger  framework.Logger
}

// ServiceOption is a configuration option for any of the mock services.
type ServiceOption helpers.ConfigOption[serviceConfig]

type serviceOptionLatency struct {
	latency time.Duration
}

func (o serviceOptionLatency) Configure(c *serviceConfig) error {
	c.latency = o.latency
	return nil
}

// WithLatency makes the service wait for the given duration before answering
// each request, to simulate a slow upstream. The wait is a timer, not a
// blocking sleep: it is cancelled if the request's context is cancelled, and
// it never delays other requests.
func WithLatency(latency time.Duration) ServiceOption {
	return serviceOptionLatency{latency}
}

type serviceOptionThrottle struct {
	rps   float64
	burst int
}

func (o serviceOptionThrottle) Configure(c *serviceConfig) error {
	c.limiter = rate.NewLimiter(rate.Limit(o.rps), o.burst)
	return nil
}

// WithThrottle makes the service answer 429 once the request rate exceeds
// rps (with the given burst allowance), to simulate a rate-limited upstream.
func WithThrottle(rps float64, burst int) ServiceOption {
	return serviceOptionThrottle{rps, burst}
}

type serviceOptionLogger struct {
	logger framework.Logger
}

func (o serviceOptionLogger) Configure(c *serviceConfig) error {
	c.logger = o.logger
	return nil
}

// WithLogger sets the debug logger for the service. The default discards
// output.
func WithLogger(logger framework.Logger) ServiceOption {
	return serviceOptionLogger{logger}
}

func newServiceConfig(options ...ServiceOption) serviceConfig {
	c := serviceConfig{logger: framework.NullLogger()}
	_ = helpers.ApplyOptions(&c, options...)
	return c
}

// middleware wraps a service router with the throttle and latency behaviors.
func (c serviceConfig) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.limiter != nil && !c.limiter.Allow() {
			c.logger.Printf("Throttled %s %s", r.Method, r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "simulated rate limit exceeded")
			return
		}
		if c.latency > 0 {
			if !waitFor(r.Context(), c.latency) {
				return // client gave up during the simulated delay
			}
		}
		next.ServeHTTP(w, r)
	})
}

func waitFor(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

func decodeBody(r *http.Request, target interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(target)
}

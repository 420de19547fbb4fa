// Package overrides provides per-test handler overrides for the interception
// server. A Scope is created at the start of a test case and hooks the test
// lifecycle, so every override it installs is reverted automatically when the
// test ends - callers must not rely on manual cleanup.
package overrides

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/storeops/backoffice-mock/interceptor"
)

// TestingT is the subset of *testing.T that a Scope needs.
type TestingT interface {
	Cleanup(func())
}

// Scope is a set of override registrations tied to one test case. All of its
// overrides are discarded by the reset hook when the test case exits, for any
// reason.
type Scope struct {
	server *interceptor.Server
}

// NewScope creates a Scope for the current test case and registers the reset
// hook that restores the server's base handler set at test end.
func NewScope(t TestingT, server *interceptor.Server) *Scope {
	t.Cleanup(server.ResetHandlers)
	return &Scope{server: server}
}

// MockError makes subsequent requests matching (method, pattern) answer with
// exactly the given status and an empty body.
func (s *Scope) MockError(method, pattern string, status int) {
	s.server.OverrideFunc(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// MockJSON makes subsequent matching requests answer with the given status
// and the JSON encoding of payload.
func (s *Scope) MockJSON(method, pattern string, status int, payload interface{}) {
	s.server.Override(method, pattern, jsonHandler(status, payload))
}

// MockDelayed makes subsequent matching requests answer 200 with the JSON
// encoding of payload, no earlier than delay after the request was issued.
// The delay is a timer tied to the request context, not a blocking sleep; it
// never stalls other requests, and a cancelled request stops waiting.
func (s *Scope) MockDelayed(method, pattern string, delay time.Duration, payload interface{}) {
	respond := jsonHandler(http.StatusOK, payload)
	s.server.OverrideFunc(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-r.Context().Done():
			return
		}
		respond.ServeHTTP(w, r)
	})
}

// MockNetworkFailure makes subsequent matching requests fail at the transport
// level, as if the connection could not be established.
func (s *Scope) MockNetworkFailure(method, pattern string) {
	s.server.Override(method, pattern, interceptor.NetworkFailure)
}

func jsonHandler(status int, payload interface{}) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(data)
	})
}

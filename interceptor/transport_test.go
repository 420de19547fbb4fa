package interceptor

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The .invalid TLD can never resolve, so any response proves no network I/O
// happened.
const mockedBaseURL = "http://backoffice.invalid"

func TestTransportServesMockResponse(t *testing.T) {
	s := NewServer()
	s.HandleFunc("GET", "/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{"ok": true}`))
	})
	s.Listen()
	defer s.Close()

	resp, err := s.Client().Get(mockedBaseURL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(body))
	assert.Equal(t, int64(len(body)), resp.ContentLength)
}

func TestTransportDefaultStatusIs200(t *testing.T) {
	s := NewServer()
	s.HandleFunc("GET", "/implicit", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hi"))
	})
	s.Listen()
	defer s.Close()

	resp, err := s.Client().Get(mockedBaseURL + "/implicit")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestTransportBeforeListenUsesFallback(t *testing.T) {
	fallback := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		rec := newResponseRecorder()
		httphelpers.HandlerWithStatus(418).ServeHTTP(rec, r)
		return rec.result(r), nil
	})
	s := NewServer(WithUnmatchedPolicy(Reject, fallback))
	s.Handle("GET", "/ping", httphelpers.HandlerWithStatus(200))

	// not listening yet: even a matching request goes to the fallback
	resp, err := s.Client().Get(mockedBaseURL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 418, resp.StatusCode)

	s.Listen()
	defer s.Close()
	resp2, err := s.Client().Get(mockedBaseURL + "/ping")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, 200, resp2.StatusCode)
}

func TestTransportUnmatchedRejectReturnsError(t *testing.T) {
	s := NewServer()
	s.Listen()
	defer s.Close()

	_, err := s.Client().Get(mockedBaseURL + "/nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestTransportUnmatchedPassThrough(t *testing.T) {
	realServer := httptest.NewServer(httphelpers.HandlerWithStatus(299))
	defer realServer.Close()

	s := NewServer(WithUnmatchedPolicy(PassThrough, nil))
	s.Listen()
	defer s.Close()

	resp, err := s.Client().Get(realServer.URL + "/anything")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 299, resp.StatusCode)
}

func TestTransportNetworkFailure(t *testing.T) {
	s := NewServer()
	s.Handle("GET", "/products", httphelpers.HandlerWithStatus(200))
	s.Override("GET", "/products", NetworkFailure)
	s.Listen()
	defer s.Close()

	_, err := s.Client().Get(mockedBaseURL + "/products")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkFailure)

	s.ResetHandlers()
	resp, err := s.Client().Get(mockedBaseURL + "/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestTransportAfterClose(t *testing.T) {
	s := NewServer()
	s.Listen()
	s.Close()

	_, err := s.Client().Get(mockedBaseURL + "/anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerClosed)
}

func TestTransportPostBodyReachesHandler(t *testing.T) {
	s := NewServer()
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(201))
	s.Handle("POST", "/orders", handler)
	s.Listen()
	defer s.Close()

	resp, err := s.Client().Post(mockedBaseURL+"/orders", "application/json",
		strings.NewReader(`{"customerId": "cust-1"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 201, resp.StatusCode)

	received := <-requests
	assert.JSONEq(t, `{"customerId": "cust-1"}`, string(received.Body))
}

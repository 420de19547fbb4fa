package interceptor

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Transport is an http.RoundTripper that routes outbound requests through the
// server's registry and synthesizes responses without network I/O. It is how
// the application runtime and tests consume the interception server.
type Transport struct {
	server *Server
}

// Transport returns a RoundTripper backed by this server.
func (s *Server) Transport() *Transport {
	return &Transport{server: s}
}

// Client returns an http.Client whose transport is this server.
func (s *Server) Client() *http.Client {
	return &http.Client{Transport: s.Transport()}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	s := t.server

	s.lock.Lock()
	closed, listening := s.closed, s.listening
	policy, fallback := s.unmatched, s.fallback
	s.lock.Unlock()

	if closed {
		return nil, ErrServerClosed
	}
	if !listening {
		// interception is not active, so the request goes to the network
		return fallbackOrDefault(fallback).RoundTrip(req)
	}

	s.capture(req)

	res := s.resolve(req.Method, req.URL.Path)
	if !res.matched {
		if policy == PassThrough {
			return fallbackOrDefault(fallback).RoundTrip(req)
		}
		s.logger.Printf("No handler registered for %s %s", req.Method, req.URL.Path)
		return nil, fmt.Errorf("interceptor: no handler registered for %s %s", req.Method, req.URL.Path)
	}
	if res.handler == NetworkFailure {
		return nil, ErrNetworkFailure
	}

	r2 := req.Clone(req.Context())
	u := *req.URL
	u.Path = res.path
	r2.URL = &u
	r2.RequestURI = ""
	if r2.Body == nil {
		r2.Body = http.NoBody
	}

	recorder := newResponseRecorder()
	res.handler.ServeHTTP(recorder, r2)
	if err := req.Context().Err(); err != nil {
		// the caller gave up while the handler was running (e.g. during a
		// simulated delay); report it the way a real transport would
		return nil, err
	}
	return recorder.result(req), nil
}

func fallbackOrDefault(fallback http.RoundTripper) http.RoundTripper {
	if fallback == nil {
		return http.DefaultTransport
	}
	return fallback
}

// responseRecorder collects what a handler writes so the transport can turn
// it into an *http.Response.
type responseRecorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{header: make(http.Header)}
}

func (rr *responseRecorder) Header() http.Header { return rr.header }

func (rr *responseRecorder) WriteHeader(status int) {
	if rr.status == 0 {
		rr.status = status
	}
}

func (rr *responseRecorder) Write(data []byte) (int, error) {
	if rr.status == 0 {
		rr.status = http.StatusOK
	}
	return rr.body.Write(data)
}

func (rr *responseRecorder) Flush() {}

func (rr *responseRecorder) result(req *http.Request) *http.Response {
	status := rr.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        rr.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(rr.body.Bytes())),
		ContentLength: int64(rr.body.Len()),
		Request:       req,
	}
}

// Package interceptor provides the request-interception server: a
// process-wide registry of handler registrations that answers matching HTTP
// requests with synthetic responses instead of performing network I/O. The
// same registry backs an http.RoundTripper for in-process use (application
// runtime and tests) and an http.Handler for the standalone dev server.
package interceptor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/storeops/backoffice-mock/framework"
	"github.com/storeops/backoffice-mock/framework/helpers"

	"golang.org/x/exp/slices"
)

// Somewhat arbitrary buffer size for the channel that we use as a queue for
// captured request information. If the channel is full, dispatch will *not*
// block; it will just discard the information.
const requestChannelBufferSize = 20

// ErrServerClosed is returned by the transport after Close has been called.
var ErrServerClosed = errors.New("interceptor: server is closed")

// ErrNetworkFailure is the transport-level error produced for requests
// matched to the NetworkFailure handler. The http.Client wraps it in a
// *url.Error, as it would a real connection failure.
var ErrNetworkFailure = errors.New("interceptor: simulated network failure")

// NetworkFailure is a sentinel handler. A request matched to it does not get
// a response: the transport returns ErrNetworkFailure instead, and the dev
// server answers 502.
var NetworkFailure http.Handler = networkFailureHandler{} //nolint:gochecknoglobals

type networkFailureHandler struct{}

func (networkFailureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "simulated network failure", http.StatusBadGateway)
}

// UnmatchedPolicy says what happens to a request no registration matches.
type UnmatchedPolicy int

const (
	// Reject answers unmatched requests with 501 (or a transport error) and
	// logs them. It is the default: a test that hits an unregistered
	// endpoint should fail loudly rather than silently reach the network.
	Reject UnmatchedPolicy = iota
	// PassThrough forwards unmatched requests to the fallback transport.
	PassThrough
)

type route struct {
	method  string
	pattern string
	handler http.Handler
}

func (rt route) matches(method, path string) bool {
	return rt.method == method && matchPattern(rt.pattern, path)
}

// matchPattern matches a path against a registration pattern: either an
// exact path, or a prefix pattern ending in "*".
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == path
}

type mountPoint struct {
	prefix  string
	handler http.Handler
}

// RequestInfo contains information about a request that was dispatched
// through the server, for test assertions.
type RequestInfo struct {
	Method  string
	URL     url.URL
	Headers http.Header
	Body    []byte
	Time    time.Time
}

// Server is the interception registry. Base registrations (Handle, Mount)
// describe the normal mock API; override registrations (Override) are layered
// on top and discarded by ResetHandlers, which the test lifecycle hook calls
// between test cases.
type Server struct {
	overrides []route // newest first; newest matching registration wins
	base      []route // newest first
	mounts    []mountPoint
	requests  chan RequestInfo
	listening bool
	closed    bool
	unmatched UnmatchedPolicy
	fallback  http.RoundTripper
	logger    framework.Logger
	lock      sync.Mutex
	closing   sync.Once
}

// ServerOption is a configuration option for NewServer.
type ServerOption helpers.ConfigOption[Server]

type serverOptionLogger struct {
	logger framework.Logger
}

func (o serverOptionLogger) Configure(s *Server) error {
	s.logger = o.logger
	return nil
}

// WithLogger sets the debug logger for the server. The default discards
// output.
func WithLogger(logger framework.Logger) ServerOption {
	return serverOptionLogger{logger}
}

type serverOptionUnmatched struct {
	policy   UnmatchedPolicy
	fallback http.RoundTripper
}

func (o serverOptionUnmatched) Configure(s *Server) error {
	s.unmatched = o.policy
	s.fallback = o.fallback
	return nil
}

// WithUnmatchedPolicy sets the behavior for requests no registration
// matches. Passing nil for the fallback means http.DefaultTransport. The
// fallback serves PassThrough dispatch, and also carries every transport
// request made before Listen, whatever the policy.
func WithUnmatchedPolicy(policy UnmatchedPolicy, fallback http.RoundTripper) ServerOption {
	return serverOptionUnmatched{policy, fallback}
}

// NewServer creates a Server with no registrations. It does not intercept
// anything until Listen is called.
func NewServer(options ...ServerOption) *Server {
	s := &Server{
		requests: make(chan RequestInfo, requestChannelBufferSize),
		logger:   framework.NullLogger(),
	}
	_ = helpers.ApplyOptions(s, options...)
	return s
}

// Handle installs a base registration for the (method, pattern) pair,
// replacing any existing base registration for the same pair.
func (s *Server) Handle(method, pattern string, handler http.Handler) {
	s.lock.Lock()
	s.base = upsertRoute(s.base, route{method: method, pattern: pattern, handler: handler})
	s.lock.Unlock()
}

// HandleFunc is Handle for a plain handler function.
func (s *Server) HandleFunc(method, pattern string, handler http.HandlerFunc) {
	s.Handle(method, pattern, handler)
}

// Override installs a registration layered above the base set, replacing any
// existing override for the same (method, pattern) pair. Overrides are
// discarded by ResetHandlers.
func (s *Server) Override(method, pattern string, handler http.Handler) {
	s.lock.Lock()
	s.overrides = upsertRoute(s.overrides, route{method: method, pattern: pattern, handler: handler})
	s.lock.Unlock()
	s.logger.Printf("Installed override for %s %s", method, pattern)
}

// OverrideFunc is Override for a plain handler function.
func (s *Server) OverrideFunc(method, pattern string, handler http.HandlerFunc) {
	s.Override(method, pattern, handler)
}

// upsertRoute removes any registration for the same (method, pattern) pair
// and prepends the new one, so at most one response function is active per
// pair and the newest matching registration wins.
func upsertRoute(routes []route, newRoute route) []route {
	routes = slices.DeleteFunc(slices.Clone(routes), func(rt route) bool {
		return rt.method == newRoute.method && rt.pattern == newRoute.pattern
	})
	return append([]route{newRoute}, routes...)
}

// Mount attaches a whole handler (normally one of the mockapi services) under
// a path prefix. The prefix is stripped before the handler sees the request,
// so services route on paths relative to their mount point.
func (s *Server) Mount(prefix string, handler http.Handler) {
	prefix = "/" + strings.Trim(prefix, "/")
	s.lock.Lock()
	for i, m := range s.mounts {
		if m.prefix == prefix {
			s.mounts[i].handler = handler
			s.lock.Unlock()
			return
		}
	}
	s.mounts = append(s.mounts, mountPoint{prefix: prefix, handler: handler})
	s.lock.Unlock()
}

// Listen activates interception. Until it is called, transports created from
// this server defer every request to the unmatched fallback. It is
// idempotent.
func (s *Server) Listen() {
	s.lock.Lock()
	s.listening = true
	s.lock.Unlock()
	s.logger.Printf("Interception active")
}

// ResetHandlers discards all override registrations, restoring the base
// handler set. Base registrations and mounts are unaffected.
func (s *Server) ResetHandlers() {
	s.lock.Lock()
	n := len(s.overrides)
	s.overrides = nil
	s.lock.Unlock()
	if n > 0 {
		s.logger.Printf("Discarded %d override registration(s)", n)
	}
}

// Close deactivates interception and releases the request-capture channel.
// Requests dispatched after Close receive an error response.
func (s *Server) Close() {
	s.closing.Do(func() {
		s.lock.Lock()
		s.closed = true
		s.listening = false
		close(s.requests)
		s.requests = nil
		s.lock.Unlock()
		s.logger.Printf("Interception closed")
	})
}

type resolution struct {
	matched bool
	handler http.Handler
	path    string // request path after any mount-prefix stripping
}

func (s *Server) resolve(method, path string) resolution {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, rt := range s.overrides {
		if rt.matches(method, path) {
			return resolution{matched: true, handler: rt.handler, path: path}
		}
	}
	for _, rt := range s.base {
		if rt.matches(method, path) {
			return resolution{matched: true, handler: rt.handler, path: path}
		}
	}

	best := -1
	for i, m := range s.mounts {
		if path == m.prefix || strings.HasPrefix(path, m.prefix+"/") {
			if best < 0 || len(m.prefix) > len(s.mounts[best].prefix) {
				best = i
			}
		}
	}
	if best >= 0 {
		m := s.mounts[best]
		subpath := strings.TrimPrefix(path, m.prefix)
		if subpath == "" {
			subpath = "/"
		}
		return resolution{matched: true, handler: m.handler, path: subpath}
	}

	return resolution{}
}

// capture records the request in the capture channel, restoring the body so
// the handler can still read it. The push is non-blocking; overflow is
// logged and dropped.
func (s *Server) capture(r *http.Request) {
	var body []byte
	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err == nil {
			body = data
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	info := RequestInfo{
		Method:  r.Method,
		URL:     *r.URL,
		Headers: r.Header.Clone(),
		Body:    body,
		Time:    time.Now(),
	}

	s.lock.Lock()
	requests := s.requests
	s.lock.Unlock()
	if requests == nil {
		return
	}
	if !helpers.NonBlockingSend(requests, info) {
		s.logger.Printf("Request capture channel was full for %s %s", r.Method, r.URL)
	}
}

// AwaitRequest waits for the next captured request.
func (s *Server) AwaitRequest(timeout time.Duration) (RequestInfo, error) {
	s.lock.Lock()
	requests := s.requests
	s.lock.Unlock()
	if requests == nil {
		return RequestInfo{}, ErrServerClosed
	}
	maybeReq := helpers.TryReceive(requests, timeout)
	if maybeReq.IsDefined() {
		return maybeReq.Value(), nil
	}
	return RequestInfo{}, fmt.Errorf("timed out waiting for a request to the interception server")
}

// RequireRequest waits for the next captured request, and causes the test to
// fail and terminate if it timed out.
func (s *Server) RequireRequest(t helpers.TestContext, timeout time.Duration) RequestInfo {
	s.lock.Lock()
	requests := s.requests
	s.lock.Unlock()
	return helpers.RequireValueWithMessage(t, requests, timeout,
		"timed out waiting for a request to the interception server")
}

// RequireNoMoreRequests causes the test to fail and terminate if another
// request is dispatched within the timeout.
func (s *Server) RequireNoMoreRequests(t helpers.TestContext, timeout time.Duration) {
	s.lock.Lock()
	requests := s.requests
	s.lock.Unlock()
	helpers.RequireNoMoreValuesWithMessage(t, requests, timeout,
		"did not expect another request to the interception server, but got one")
}

// ServeHTTP dispatches through the registry, which lets the same server back
// the standalone dev server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	closed := s.closed
	s.lock.Unlock()
	if closed {
		s.logger.Printf("Received request to already-closed server: %s %s", r.Method, r.URL)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.capture(r)

	res := s.resolve(r.Method, r.URL.Path)
	if !res.matched {
		s.serveUnmatched(w, r)
		return
	}

	r2 := r
	if res.path != r.URL.Path {
		u := *r.URL
		u.Path = res.path
		r2 = r.Clone(r.Context())
		r2.URL = &u
	}
	res.handler.ServeHTTP(w, r2)
}

func (s *Server) serveUnmatched(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	policy := s.unmatched
	fallback := s.fallback
	s.lock.Unlock()

	if policy == PassThrough {
		s.forward(w, r, fallback)
		return
	}
	s.logger.Printf("No handler registered for %s %s", r.Method, r.URL.Path)
	w.WriteHeader(http.StatusNotImplemented)
}

// forward replays the request against the fallback transport and copies the
// response back, for PassThrough mode on the dev server.
func (s *Server) forward(w http.ResponseWriter, r *http.Request, fallback http.RoundTripper) {
	if fallback == nil {
		fallback = http.DefaultTransport
	}
	outURL := *r.URL
	if !outURL.IsAbs() {
		outURL.Scheme = "http"
		outURL.Host = r.Host
	}
	out := r.Clone(r.Context())
	out.URL = &outURL
	out.RequestURI = "" // client requests must not set this

	resp, err := fallback.RoundTrip(out)
	if err != nil {
		s.logger.Printf("Pass-through request for %s %s failed: %s", r.Method, r.URL.Path, err)
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	defer func() { _ = resp.Body.Close() }()
	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

package main

import (
	_ "embed" // this is required in order for go:embed to work
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/storeops/backoffice-mock/fixtures"
	"github.com/storeops/backoffice-mock/framework"
	"github.com/storeops/backoffice-mock/interceptor"
	"github.com/storeops/backoffice-mock/mockapi"
)

const defaultPort = 8480
const throttleBurst = 5

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

func main() {
	fmt.Printf("backoffice-mock v%s\n", strings.TrimSpace(versionString))

	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	if err := run(params); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(params commandParams) error {
	data := fixtures.Default()
	if params.fixturesDir != "" {
		var err error
		data, err = fixtures.LoadDir(params.fixturesDir)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded fixture overrides from %s\n", params.fixturesDir)
	}

	debugLogger := framework.NullLogger()
	if params.debug {
		debugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	serverOptions := []interceptor.ServerOption{interceptor.WithLogger(debugLogger)}
	if params.passthrough != "" {
		base, err := url.Parse(params.passthrough)
		if err != nil || base.Scheme == "" || base.Host == "" {
			return fmt.Errorf("invalid -passthrough URL %q", params.passthrough)
		}
		serverOptions = append(serverOptions,
			interceptor.WithUnmatchedPolicy(interceptor.PassThrough, upstreamTransport{base}))
		fmt.Printf("Forwarding unmatched requests to %s\n", params.passthrough)
	}
	server := interceptor.NewServer(serverOptions...)

	serviceOptions := []mockapi.ServiceOption{mockapi.WithLogger(debugLogger)}
	if params.latency > 0 {
		serviceOptions = append(serviceOptions, mockapi.WithLatency(params.latency))
		fmt.Printf("Adding %s of latency to every response\n", params.latency)
	}
	if params.throttle > 0 {
		serviceOptions = append(serviceOptions, mockapi.WithThrottle(params.throttle, throttleBurst))
		fmt.Printf("Throttling to %g requests per second\n", params.throttle)
	}
	mockapi.MountAll(server, data, serviceOptions...)
	server.Listen()

	addr := net.JoinHostPort(params.host, strconv.Itoa(params.port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", addr, err)
	}
	fmt.Printf("Serving mock back-office API at http://%s\n", addr)
	return http.Serve(listener, withRequestLog(server))
}

// upstreamTransport redirects pass-through requests to the configured
// upstream, since the URL the server reconstructs points at itself.
type upstreamTransport struct {
	base *url.URL
}

func (t upstreamTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	outURL := *req.URL
	outURL.Scheme = t.base.Scheme
	outURL.Host = t.base.Host
	out := req.Clone(req.Context())
	out.URL = &outURL
	out.Host = t.base.Host
	return http.DefaultTransport.RoundTrip(out)
}

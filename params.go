package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

type commandParams struct {
	host        string
	port        int
	fixturesDir string
	latency     time.Duration
	throttle    float64
	passthrough string
	debug       bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.host, "host", "localhost", "hostname or address the server will bind to")
	fs.IntVar(&c.port, "port", defaultPort, "port that the mock API server will listen on")
	fs.StringVar(&c.fixturesDir, "fixtures", "", "directory of fixture files overriding the embedded data set")
	fs.DurationVar(&c.latency, "latency", 0, "artificial delay added to every response (e.g. 250ms)")
	fs.Float64Var(&c.throttle, "throttle", 0, "rate limit in requests per second (0 disables throttling)")
	fs.StringVar(&c.passthrough, "passthrough", "", "base URL to forward unmatched requests to")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if c.throttle < 0 {
		fmt.Fprintln(os.Stderr, "-throttle must not be negative")
		fs.Usage()
		return false
	}
	if c.latency < 0 {
		fmt.Fprintln(os.Stderr, "-latency must not be negative")
		fs.Usage()
		return false
	}
	return true
}

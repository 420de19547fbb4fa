package main

import (
	"net/http"
	"time"

	"github.com/fatih/color"
)

var requestOKColor = color.New(color.Faint)           //nolint:gochecknoglobals
var requestClientErrColor = color.New(color.FgYellow) //nolint:gochecknoglobals
var requestServerErrColor = color.New(color.FgRed)    //nolint:gochecknoglobals

// statusWriter records the status code a handler wrote, for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(data []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(data)
}

// withRequestLog prints one line per request, colored by status class.
func withRequestLog(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		startTime := time.Now()
		handler.ServeHTTP(sw, r)
		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		c := requestOKColor
		switch {
		case status >= 500:
			c = requestServerErrColor
		case status >= 400:
			c = requestClientErrColor
		}
		_, _ = c.Printf("%s %s %d (%s)\n", r.Method, r.URL.RequestURI(), status,
			time.Since(startTime).Truncate(time.Millisecond))
	})
}

package playlistserver

import (
	"net/http"
	"strconv"

	"github.com/a13labs/m3uflat/pkg/m3uparser"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3uflat_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	EntriesServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3uflat_entries_served_total",
			Help: "Total number of playlist entries served",
		},
		[]string{"playlist"},
	)

	DiagnosticsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3uflat_parser_diagnostics_total",
			Help: "Lines and nested playlists skipped or altered while parsing",
		},
		[]string{"kind"},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metrics counts requests by route template, so path variables do not
// create new series.
func metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}

		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.statusCode)).Inc()
	})
}

func countDiagnostics(next m3uparser.DiagnosticFunc) m3uparser.DiagnosticFunc {
	return func(d m3uparser.Diagnostic) {
		DiagnosticsTotal.WithLabelValues(d.Kind.String()).Inc()
		if next != nil {
			next(d)
		}
	}
}

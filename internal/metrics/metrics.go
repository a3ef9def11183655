// Package metrics exports wizard telemetry in the Prometheus format.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/crossjob/internal/wizard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crossjob"

// Schema load outcomes.
const (
	OutcomeReady  = "ready"
	OutcomeFailed = "failed"
	OutcomeStale  = "stale"
)

// Observer records engine telemetry as Prometheus metrics. It implements
// wizard.Observer.
type Observer struct {
	saves        *prometheus.CounterVec
	saveSeconds  *prometheus.HistogramVec
	schemaLoads  *prometheus.CounterVec
	schemaFields prometheus.Histogram
}

var _ wizard.Observer = (*Observer)(nil)

// NewObserver creates the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "autosave",
			Name:      "saves_total",
			Help:      "Step persistence attempts by step and result.",
		}, []string{"step", "result"}),
		saveSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "autosave",
			Name:      "save_duration_seconds",
			Help:      "Latency of a single step save.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"step"}),
		schemaLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schema",
			Name:      "loads_total",
			Help:      "DELTA schema loads by classification code and outcome.",
		}, []string{"code", "outcome"}),
		schemaFields: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "schema",
			Name:      "fields",
			Help:      "Number of fields in successfully loaded schemas.",
			Buckets:   prometheus.LinearBuckets(0, 2, 8),
		}),
	}
	for _, c := range []prometheus.Collector{o.saves, o.saveSeconds, o.schemaLoads, o.schemaFields} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Observer) ObserveSave(_ context.Context, event wizard.SaveEvent) {
	result := "ok"
	if event.Err != nil {
		result = "error"
	}
	step := string(event.Step)
	o.saves.WithLabelValues(step, result).Inc()
	o.saveSeconds.WithLabelValues(step).Observe(event.Duration.Seconds())
}

func (o *Observer) ObserveSchemaLoad(_ context.Context, event wizard.SchemaEvent) {
	switch {
	case event.Stale:
		o.schemaLoads.WithLabelValues(event.Code, OutcomeStale).Inc()
	case event.Err != nil:
		o.schemaLoads.WithLabelValues(event.Code, OutcomeFailed).Inc()
	default:
		o.schemaLoads.WithLabelValues(event.Code, OutcomeReady).Inc()
		o.schemaFields.Observe(float64(event.FieldCount))
	}
}

// Server serves /metrics for a registry.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer builds a server for addr exposing the metrics gathered by g.
func NewServer(addr string, g prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start listens on the configured address and serves in the background. It
// returns the bound address, which differs from the configured one for ":0".
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return "", err
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server stopped", "error", err)
		}
	}()
	s.logger.Debug("metrics server listening", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Shutdown stops the server, waiting for in-flight scrapes until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

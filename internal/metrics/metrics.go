package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ClassifyRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scenerank_classify_runs_total",
		Help: "Total classification runs",
	})
	ClassifyErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scenerank_classify_errors_total",
		Help: "Total classification run errors",
	})
	ClassifyDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scenerank_classify_duration_seconds",
		Help:    "Classification run duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	ProfilesClassified = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scenerank_profiles_classified_total",
		Help: "Total profile rows emitted",
	})
	PassAdmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scenerank_pass_admissions_total",
		Help: "Profiles admitted to the affinity set, per phase",
	}, []string{"phase"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scenerank_command_runs_total",
		Help: "Total command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scenerank_command_errors_total",
		Help: "Total command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(ClassifyRuns, ClassifyErrors, ClassifyDuration,
		ProfilesClassified, PassAdmissions, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g. ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, nil) }()
}

// ObserveClassifyDuration records a run duration.
func ObserveClassifyDuration(start time.Time) {
	ClassifyDuration.Observe(time.Since(start).Seconds())
}

// IncAdmissions adds n admissions for a phase.
func IncAdmissions(phase string, n int) {
	PassAdmissions.WithLabelValues(phase).Add(float64(n))
}

// IncCommandRun counts a command invocation.
func IncCommandRun(cmd string) { CommandRuns.WithLabelValues(cmd).Inc() }

// IncCommandError counts a command failure.
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
)

const (
	RoundOk        = "ok"
	RoundEmpty     = "empty"
	RoundTimeout   = "timeout"
	RoundMalformed = "malformed"

	SourceAPI   = "api"
	SourceDOM   = "dom"
	SourceCache = "cache"
	SourceNone  = "none"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	ListingRounds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_listing_rounds_total",
			Help: "Listing rounds by outcome.",
		},
		[]string{"outcome"},
	)
	RecordsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_records_total",
			Help: "Normalized listing records by result.",
		},
		[]string{"result"},
	)
	DetailFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_detail_fetches_total",
			Help: "Description fetches by the source that produced the text.",
		},
		[]string{"source"},
	)
	SnapshotWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_snapshot_writes_total",
			Help: "Snapshot writes by result.",
		},
		[]string{"result"},
	)
	PassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harvester_pass_duration_seconds",
			Help:    "Duration of one keyword and city pass in seconds.",
			Buckets: []float64{60, 300, 900, 1800, 3600},
		},
	)
)

func init() {
	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(ListingRounds)
	prometheus.MustRegister(RecordsCounter)
	prometheus.MustRegister(DetailFetches)
	prometheus.MustRegister(SnapshotWrites)
	prometheus.MustRegister(PassDuration)
}

// StartMetricsServer exposes /metrics on addr in the background.
func StartMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Errorf("metrics server stopped: %v", err)
		}
	}()
}

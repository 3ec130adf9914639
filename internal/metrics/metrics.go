package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	videosTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vidmgr_videos_total",
		Help: "Total number of videos in the catalog",
	})

	operationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vidmgr_operations_total",
		Help: "Total number of catalog operations",
	}, []string{"op", "status"})

	playsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vidmgr_plays_total",
		Help: "Total number of videos handed to the player",
	})

	metadataFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vidmgr_metadata_fetches_total",
		Help: "Total number of page metadata lookups",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(videosTotal)
	prometheus.MustRegister(operationsTotal)
	prometheus.MustRegister(playsTotal)
	prometheus.MustRegister(metadataFetchesTotal)
}

// SetVideoCount updates the videos_total gauge
func SetVideoCount(count int64) {
	videosTotal.Set(float64(count))
}

// RecordOperation records the outcome of a catalog operation
func RecordOperation(op, status string) {
	operationsTotal.WithLabelValues(op, status).Inc()
}

// RecordPlay records a video handed to the player
func RecordPlay() {
	playsTotal.Inc()
}

// RecordMetadataFetch records the outcome of a metadata lookup
func RecordMetadataFetch(status string) {
	metadataFetchesTotal.WithLabelValues(status).Inc()
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tolet.dev/backend/internal/constant"
)

var (
	ListingResolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(constant.ServiceName, "listing", "resolve_duration_seconds"),
		Help:    "Duration of resolving a property listing for a requester in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	}, []string{"role"})
	ListingResultSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(constant.ServiceName, "listing", "result_size"),
		Help:    "Number of properties visible in a resolved listing",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"role", "filtered"})
	ListingSnapshotRefresh = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(constant.ServiceName, "listing", "snapshot_refresh_total"),
		Help: "Number of listing snapshot reloads from the database",
	}, []string{"result"})
	DomainEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(constant.ServiceName, "domain", "events_total"),
		Help: "Domain events by type",
	}, []string{"event"})
)

package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	documentsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admitwise_documents_saved_total",
			Help: "Total number of parsed documents saved",
		},
		[]string{"document_type"},
	)

	documentSaveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "admitwise_document_save_failures_total",
			Help: "Total number of parsed documents that could not be saved",
		},
	)

	profileMerges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "admitwise_profile_merges_total",
			Help: "Total number of documents merged into a persisted profile",
		},
	)

	profileWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "admitwise_profile_write_failures_total",
			Help: "Total number of merged profiles that failed to persist",
		},
	)

	extractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admitwise_extraction_failures_total",
			Help: "Total number of extractor failures",
		},
		[]string{"extractor"},
	)

	recommendationsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admitwise_recommendations_generated_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	recommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "admitwise_recommendation_duration_seconds",
			Help:    "Duration of recommendation generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	catalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admitwise_catalog_loads_total",
			Help: "Total number of catalog loads by origin",
		},
		[]string{"origin"},
	)

	catalogFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "admitwise_catalog_fetch_failures_total",
			Help: "Total number of failed catalog fetches",
		},
	)
)

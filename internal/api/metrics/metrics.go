// Package metrics defines and registers all custom Prometheus metrics for the
// curation board API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics register with the default Prometheus registry at init time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "curation"

// ── Board metrics ─────────────────────────────────────────────────────────────

// BoardsCreatedTotal counts newly created boards.
// Label:
//   - source: "scratch" (blank board) or "template"
var BoardsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "boards_created_total",
		Help:      "Total number of boards created, by creation source.",
	},
	[]string{"source"},
)

// BoardsDeletedTotal counts boards deleted by their owners.
var BoardsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "boards_deleted_total",
		Help:      "Total number of boards deleted by their owners.",
	},
)

// TemplatesCreatedTotal counts newly created templates.
// Label:
//   - type: "official" or "custom"
var TemplatesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "templates_created_total",
		Help:      "Total number of templates created, by template type.",
	},
	[]string{"type"},
)

// ── Preview image metrics ─────────────────────────────────────────────────────

// PreviewRenderedTotal counts preview image renders.
// Label:
//   - kind: "board" (board-specific image) or "fallback"
var PreviewRenderedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "preview_rendered_total",
		Help:      "Total number of preview images rendered, by kind.",
	},
	[]string{"kind"},
)

// PreviewCacheTotal counts preview cache lookups.
// Label:
//   - result: "hit" or "miss"
var PreviewCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "preview_cache_total",
		Help:      "Total number of preview cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// PreviewRenderDuration measures how long a single preview render takes.
// Label:
//   - kind: "board" or "fallback"
var PreviewRenderDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "preview_render_duration_seconds",
		Help:      "Duration of a single preview image render.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// RenderQueueDepth tracks the current number of warm-up jobs waiting in each
// render worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RenderQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "render_queue_depth",
		Help:      "Current number of warm-up jobs pending in each render worker channel.",
	},
	[]string{"worker_id"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "new_user", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

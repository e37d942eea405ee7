// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// contact.Metrics、request.Metrics、store.LatencyObserverの各インターフェースを満たす。
type Collector struct {
	signins           prometheus.Counter
	interactions      prometheus.Counter
	requestsAccepted  prometheus.Counter
	requestsDeclined  prometheus.Counter
	scoresRecomputed  prometheus.Counter
	httpStatus        *prometheus.CounterVec
	storeLatency      *prometheus.HistogramVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relink_signin_total",
			Help: "サインインの合計数",
		}),
		interactions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relink_interactions_total",
			Help: "記録されたインタラクションの合計数",
		}),
		requestsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relink_requests_accepted_total",
			Help: "承認された友達リクエストの合計数",
		}),
		requestsDeclined: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relink_requests_declined_total",
			Help: "辞退された友達リクエストの合計数",
		}),
		scoresRecomputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relink_scores_recomputed_total",
			Help: "再計算されたつながりスコアの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relink_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relink_store_latency_seconds",
			Help:    "コレクションストア操作のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(
		c.signins,
		c.interactions,
		c.requestsAccepted,
		c.requestsDeclined,
		c.scoresRecomputed,
		c.httpStatus,
		c.storeLatency,
	)

	return c
}

// IncSignIns はサインインを記録する。
func (c *Collector) IncSignIns() {
	c.signins.Inc()
}

// IncInteractions はインタラクションの記録を記録する。
func (c *Collector) IncInteractions() {
	c.interactions.Inc()
}

// IncRequestsAccepted は友達リクエストの承認を記録する。
func (c *Collector) IncRequestsAccepted() {
	c.requestsAccepted.Inc()
}

// IncRequestsDeclined は友達リクエストの辞退を記録する。
func (c *Collector) IncRequestsDeclined() {
	c.requestsDeclined.Inc()
}

// IncScoresRecomputed はスコア再計算を記録する。
func (c *Collector) IncScoresRecomputed() {
	c.scoresRecomputed.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// ObserveStoreLatency はストア操作のレイテンシを記録する。
// store.LatencyObserverを実装する。
func (c *Collector) ObserveStoreLatency(operation string, seconds float64) {
	c.storeLatency.WithLabelValues(operation).Observe(seconds)
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

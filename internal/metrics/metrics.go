// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやニュース取り込みワーカーから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordListRequest(resource string)
	RecordSnippetShare(platform string)
	RecordPackPurchase(packID string)
	RecordChecklistToggle()
	RecordNewsFetchSuccess(sourceID string)
	RecordNewsFetchFailure(sourceID string, reason string)
	RecordNewsParseFailure(sourceID string)
	RecordNewsFetchLatency(duration time.Duration)
	RecordSnippetsUpserted(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus       *prometheus.CounterVec
	listRequests     *prometheus.CounterVec
	snippetShares    *prometheus.CounterVec
	packPurchases    *prometheus.CounterVec
	checklistToggles prometheus.Counter
	newsFetchSuccess prometheus.Counter
	newsFetchFail    prometheus.Counter
	newsParseFail    prometheus.Counter
	newsFetchLatency prometheus.Histogram
	snippetsUpserted prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rightsguardian_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		listRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rightsguardian_list_requests_total",
			Help: "リソース別の一覧リクエスト数",
		}, []string{"resource"}),
		snippetShares: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rightsguardian_snippet_shares_total",
			Help: "プラットフォーム別のスニペット共有数",
		}, []string{"platform"}),
		packPurchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rightsguardian_pack_purchases_total",
			Help: "パック別の購入数",
		}, []string{"pack_id"}),
		checklistToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rightsguardian_checklist_toggles_total",
			Help: "チェックリスト項目のトグル操作の合計数",
		}),
		newsFetchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rightsguardian_news_fetch_success_total",
			Help: "ニュースフィード取得成功の合計数",
		}),
		newsFetchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rightsguardian_news_fetch_fail_total",
			Help: "ニュースフィード取得失敗の合計数",
		}),
		newsParseFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rightsguardian_news_parse_fail_total",
			Help: "ニュースフィードパース失敗の合計数",
		}),
		newsFetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rightsguardian_news_fetch_latency_seconds",
			Help:    "ニュースフィード取得のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		snippetsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rightsguardian_snippets_upserted_total",
			Help: "アップサートされたスニペットの合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.listRequests,
		c.snippetShares,
		c.packPurchases,
		c.checklistToggles,
		c.newsFetchSuccess,
		c.newsFetchFail,
		c.newsParseFail,
		c.newsFetchLatency,
		c.snippetsUpserted,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordListRequest はリソース一覧のリクエストを記録する。
func (c *Collector) RecordListRequest(resource string) {
	c.listRequests.WithLabelValues(resource).Inc()
}

// RecordSnippetShare はスニペット共有を記録する。
func (c *Collector) RecordSnippetShare(platform string) {
	c.snippetShares.WithLabelValues(platform).Inc()
}

// RecordPackPurchase はプレミアムパック購入を記録する。
func (c *Collector) RecordPackPurchase(packID string) {
	c.packPurchases.WithLabelValues(packID).Inc()
}

// RecordChecklistToggle はチェックリスト項目のトグルを記録する。
func (c *Collector) RecordChecklistToggle() {
	c.checklistToggles.Inc()
}

// RecordNewsFetchSuccess はニュースフィード取得成功を記録する。
func (c *Collector) RecordNewsFetchSuccess(sourceID string) {
	c.newsFetchSuccess.Inc()
}

// RecordNewsFetchFailure はニュースフィード取得失敗を記録する。
func (c *Collector) RecordNewsFetchFailure(sourceID string, reason string) {
	c.newsFetchFail.Inc()
}

// RecordNewsParseFailure はニュースフィードのパース失敗を記録する。
func (c *Collector) RecordNewsParseFailure(sourceID string) {
	c.newsParseFail.Inc()
}

// RecordNewsFetchLatency はニュースフィード取得のレイテンシを記録する。
func (c *Collector) RecordNewsFetchLatency(duration time.Duration) {
	c.newsFetchLatency.Observe(duration.Seconds())
}

// RecordSnippetsUpserted はアップサートされたスニペット数を記録する。
func (c *Collector) RecordSnippetsUpserted(count int) {
	c.snippetsUpserted.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

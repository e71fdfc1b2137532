package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はHTTPステータスカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "rightsguardian_http_status_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "200":
					if val != 2 {
						t.Errorf("http_status_total{status_code=200} = %v, want 2", val)
					}
				case "404":
					if val != 1 {
						t.Errorf("http_status_total{status_code=404} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected label value: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("rightsguardian_http_status_total metric not found")
	}
}

// TestRecordListRequest_IncrementsCounterPerResource はリソース別カウンタが増加することを検証する。
func TestRecordListRequest_IncrementsCounterPerResource(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordListRequest("guides")
	c.RecordListRequest("guides")
	c.RecordListRequest("contacts")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "rightsguardian_list_requests_total" {
			found = true
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "guides":
					if val != 2 {
						t.Errorf("list_requests_total{resource=guides} = %v, want 2", val)
					}
				case "contacts":
					if val != 1 {
						t.Errorf("list_requests_total{resource=contacts} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected label value: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("rightsguardian_list_requests_total metric not found")
	}
}

// TestRecordSnippetShare_IncrementsCounterPerPlatform はプラットフォーム別共有カウンタが増加することを検証する。
func TestRecordSnippetShare_IncrementsCounterPerPlatform(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSnippetShare("twitter")
	c.RecordSnippetShare("twitter")
	c.RecordSnippetShare("copy")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "rightsguardian_snippet_shares_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("rightsguardian_snippet_shares_total metric not found")
	}
}

// TestRecordPackPurchase_IncrementsCounter はパック購入カウンタが増加することを検証する。
func TestRecordPackPurchase_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPackPurchase("premium-all")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "rightsguardian_pack_purchases_total" {
			found = true
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 1 {
				t.Errorf("pack_purchases_total = %v, want 1", val)
			}
		}
	}
	if !found {
		t.Error("rightsguardian_pack_purchases_total metric not found")
	}
}

// TestRecordChecklistToggle_IncrementsCounter はチェックリストトグルカウンタが増加することを検証する。
func TestRecordChecklistToggle_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordChecklistToggle()
	c.RecordChecklistToggle()
	c.RecordChecklistToggle()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "rightsguardian_checklist_toggles_total" {
			found = true
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 3 {
				t.Errorf("checklist_toggles_total = %v, want 3", val)
			}
		}
	}
	if !found {
		t.Error("rightsguardian_checklist_toggles_total metric not found")
	}
}

// TestRecordNewsFetch_Counters はニュース取得の成功・失敗・パース失敗カウンタを検証する。
func TestRecordNewsFetch_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordNewsFetchSuccess("source-1")
	c.RecordNewsFetchSuccess("source-1")
	c.RecordNewsFetchFailure("source-2", "timeout")
	c.RecordNewsParseFailure("source-3")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	want := map[string]float64{
		"rightsguardian_news_fetch_success_total": 2,
		"rightsguardian_news_fetch_fail_total":    1,
		"rightsguardian_news_parse_fail_total":    1,
	}
	for _, mf := range metrics {
		if expected, ok := want[mf.GetName()]; ok {
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != expected {
				t.Errorf("%s = %v, want %v", mf.GetName(), val, expected)
			}
			delete(want, mf.GetName())
		}
	}
	for name := range want {
		t.Errorf("%s metric not found", name)
	}
}

// TestRecordNewsFetchLatency_ObservesHistogram は取得レイテンシのヒストグラムに値が記録されることを検証する。
func TestRecordNewsFetchLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordNewsFetchLatency(100 * time.Millisecond)
	c.RecordNewsFetchLatency(2 * time.Second)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "rightsguardian_news_fetch_latency_seconds" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("sample_count = %d, want 2", h.GetSampleCount())
			}
			// 合計は0.1 + 2.0 = 2.1秒
			if h.GetSampleSum() < 2.0 || h.GetSampleSum() > 2.2 {
				t.Errorf("sample_sum = %v, want ~2.1", h.GetSampleSum())
			}
		}
	}
	if !found {
		t.Error("rightsguardian_news_fetch_latency_seconds metric not found")
	}
}

// TestRecordSnippetsUpserted_IncrementsCounter はスニペットアップサートカウンタが増加することを検証する。
func TestRecordSnippetsUpserted_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSnippetsUpserted(10)
	c.RecordSnippetsUpserted(5)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "rightsguardian_snippets_upserted_total" {
			found = true
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 15 {
				t.Errorf("snippets_upserted_total = %v, want 15", val)
			}
		}
	}
	if !found {
		t.Error("rightsguardian_snippets_upserted_total metric not found")
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	// いくつかのメトリクスを記録
	c.RecordHTTPStatus(200)
	c.RecordListRequest("guides")
	c.RecordSnippetShare("copy")
	c.RecordNewsFetchLatency(500 * time.Millisecond)
	c.RecordSnippetsUpserted(3)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	// Prometheus形式のメトリクスが含まれていることを確認
	expectedMetrics := []string{
		"rightsguardian_http_status_total",
		"rightsguardian_list_requests_total",
		"rightsguardian_snippet_shares_total",
		"rightsguardian_news_fetch_latency_seconds",
		"rightsguardian_snippets_upserted_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorがMetricsCollectorインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}

// TestMultipleCollectors_IndependentRegistries は異なるレジストリで独立に動作することを検証する。
func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()
	c1 := NewCollector(reg1)
	c2 := NewCollector(reg2)

	c1.RecordChecklistToggle()
	c2.RecordChecklistToggle()
	c2.RecordChecklistToggle()

	metrics1, _ := reg1.Gather()
	metrics2, _ := reg2.Gather()

	var val1, val2 float64
	for _, mf := range metrics1 {
		if mf.GetName() == "rightsguardian_checklist_toggles_total" {
			val1 = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	for _, mf := range metrics2 {
		if mf.GetName() == "rightsguardian_checklist_toggles_total" {
			val2 = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}

	if val1 != 1 {
		t.Errorf("reg1 checklist_toggles = %v, want 1", val1)
	}
	if val2 != 2 {
		t.Errorf("reg2 checklist_toggles = %v, want 2", val2)
	}
}

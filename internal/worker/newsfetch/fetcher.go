package newsfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/repository"
)

// importedCategory はニュース由来スニペットに付与するカテゴリ。
const importedCategory = "Legal News"

// importedTag はニュース由来スニペットに付与するタグ。
const importedTag = "news"

// SSRFValidator はSSRF検証のインターフェース。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// TextSanitizer は取り込みテキストのサニタイズインターフェース。
type TextSanitizer interface {
	SanitizeText(raw string) string
}

// NewsMetricsRecorder はインポート結果のメトリクス記録インターフェース。
type NewsMetricsRecorder interface {
	RecordNewsFetchSuccess(sourceID string)
	RecordNewsFetchFailure(sourceID string, reason string)
	RecordNewsParseFailure(sourceID string)
	RecordNewsFetchLatency(duration time.Duration)
	RecordSnippetsUpserted(count int)
}

// Fetcher は個別ニュースソースのHTTPフェッチとパースを行う。
// SSRF検証、gofeedによるパース、bluemondayによるサニタイズを経て、
// 記事を教育スニペットとしてUPSERTする。重複はSourceGUIDで判定する。
type Fetcher struct {
	snippetRepo repository.SnippetRepository
	ssrfGuard   SSRFValidator
	sanitizer   TextSanitizer
	metrics     NewsMetricsRecorder
	logger      *slog.Logger
	timeout     time.Duration
	maxBodySize int64
}

// NewFetcher はFetcherの新しいインスタンスを生成する。
// metricsはnil可（記録をスキップする）。
func NewFetcher(
	snippetRepo repository.SnippetRepository,
	ssrfGuard SSRFValidator,
	sanitizer TextSanitizer,
	metrics NewsMetricsRecorder,
	logger *slog.Logger,
	timeout time.Duration,
	maxBodySize int64,
) *Fetcher {
	return &Fetcher{
		snippetRepo: snippetRepo,
		ssrfGuard:   ssrfGuard,
		sanitizer:   sanitizer,
		metrics:     metrics,
		logger:      logger,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// FetchSource はニュースソースを1件フェッチし、記事をスニペットとして取り込む。
// SourceFetcherインターフェースを実装する。
func (f *Fetcher) FetchSource(ctx context.Context, sourceURL string) error {
	start := time.Now()

	// SSRF検証
	if err := f.ssrfGuard.ValidateURL(sourceURL); err != nil {
		f.logger.Error("SSRF検証に失敗しました",
			slog.String("source_url", sourceURL),
			slog.String("error", err.Error()),
		)
		f.recordFailure(sourceURL, "ssrf_blocked")
		return fmt.Errorf("SSRF検証に失敗: %w", err)
	}

	// HTTPリクエスト構築
	client := f.ssrfGuard.NewSafeClient(f.timeout, f.maxBodySize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		f.recordFailure(sourceURL, "request_build")
		return fmt.Errorf("リクエスト作成に失敗: %w", err)
	}

	req.Header.Set("User-Agent", "RightsGuardian/1.0 News Importer")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	// HTTPリクエスト実行
	resp, err := client.Do(req)
	if err != nil {
		f.logger.Error("HTTPリクエストに失敗しました",
			slog.String("source_url", sourceURL),
			slog.String("error", err.Error()),
		)
		f.recordFailure(sourceURL, "http_error")
		return fmt.Errorf("HTTPリクエスト失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("ニュースソースが異常ステータスを返しました",
			slog.String("source_url", sourceURL),
			slog.Int("http_status", resp.StatusCode),
		)
		f.recordFailure(sourceURL, fmt.Sprintf("http_%d", resp.StatusCode))
		return fmt.Errorf("異常なHTTPステータス: %d", resp.StatusCode)
	}

	// レスポンスボディを読み込み（最大サイズ制限付き）
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		f.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.String("source_url", sourceURL),
			slog.String("error", err.Error()),
		)
		f.recordFailure(sourceURL, "read_body")
		return fmt.Errorf("レスポンス読み取り失敗: %w", err)
	}

	duration := time.Since(start)
	if f.metrics != nil {
		f.metrics.RecordNewsFetchLatency(duration)
	}

	// gofeedでフィードをパース
	parser := gofeed.NewParser()
	parsedFeed, err := parser.ParseString(string(body))
	if err != nil {
		f.logger.Error("フィードのパースに失敗しました",
			slog.String("source_url", sourceURL),
			slog.String("error", err.Error()),
		)
		if f.metrics != nil {
			f.metrics.RecordNewsParseFailure(sourceURL)
		}
		// パース失敗はワーカーを止めない
		return nil
	}

	upserted, skipped := f.importItems(ctx, sourceURL, parsedFeed.Items)

	if f.metrics != nil {
		f.metrics.RecordNewsFetchSuccess(sourceURL)
		if upserted > 0 {
			f.metrics.RecordSnippetsUpserted(upserted)
		}
	}

	f.logger.Info("ニュースインポートが完了しました",
		slog.String("source_url", sourceURL),
		slog.Int("items_total", len(parsedFeed.Items)),
		slog.Int("items_imported", upserted),
		slog.Int("items_skipped", skipped),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// importItems はパース済み記事をスニペットとして取り込む。
// 取り込み件数とスキップ件数を返す。個別記事の失敗は全体を止めない。
func (f *Fetcher) importItems(ctx context.Context, sourceURL string, items []*gofeed.Item) (int, int) {
	upserted := 0
	skipped := 0

	for _, item := range items {
		if item == nil {
			skipped++
			continue
		}

		guid := item.GUID
		if guid == "" {
			guid = item.Link
		}
		title := f.sanitizer.SanitizeText(item.Title)
		if guid == "" || title == "" {
			// 重複判定キーもタイトルもない記事は取り込まない
			skipped++
			continue
		}

		existing, err := f.snippetRepo.FindBySourceGUID(ctx, guid)
		if err != nil {
			f.logger.Error("スニペットの重複確認に失敗しました",
				slog.String("source_url", sourceURL),
				slog.String("source_guid", guid),
				slog.String("error", err.Error()),
			)
			skipped++
			continue
		}
		if existing != nil {
			skipped++
			continue
		}

		body := f.sanitizer.SanitizeText(item.Content)
		if body == "" {
			body = f.sanitizer.SanitizeText(item.Description)
		}

		snippet := &model.EducationSnippet{
			ID:         uuid.NewString(),
			Title:      title,
			Body:       body,
			Category:   importedCategory,
			ShareCount: 0,
			Tags:       []string{importedTag},
			SourceGUID: guid,
		}

		if err := f.snippetRepo.Save(ctx, snippet); err != nil {
			f.logger.Error("スニペットの保存に失敗しました",
				slog.String("source_url", sourceURL),
				slog.String("source_guid", guid),
				slog.String("error", err.Error()),
			)
			skipped++
			continue
		}

		upserted++
	}

	return upserted, skipped
}

func (f *Fetcher) recordFailure(sourceURL, reason string) {
	if f.metrics != nil {
		f.metrics.RecordNewsFetchFailure(sourceURL, reason)
	}
}

// Package newsfetch はリーガルニュースのバックグラウンドインポートを提供する。
// 設定されたRSS/AtomフィードをSSRF防止付きクライアントで取得し、
// 記事を教育スニペットとして取り込む。
package newsfetch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SourceFetcher はニュースソースフェッチの実行インターフェース。
type SourceFetcher interface {
	// FetchSource は指定URLのフィードをフェッチし、記事を取り込む。
	FetchSource(ctx context.Context, sourceURL string) error
}

// Scheduler はニュースインポートのスケジューリングと並列制御を行う。
// ティッカーで定期的にインポートサイクルを起動し、
// semaphoreパターンで最大並列数を制御しながらソースをフェッチする。
type Scheduler struct {
	sources        []string
	fetcher        SourceFetcher
	logger         *slog.Logger
	maxConcurrency int
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
// maxConcurrencyが0以下の場合はデフォルト値4を使用する。
func NewScheduler(
	sources []string,
	fetcher SourceFetcher,
	logger *slog.Logger,
	maxConcurrency int,
) *Scheduler {
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	return &Scheduler{
		sources:        sources,
		fetcher:        fetcher,
		logger:         logger,
		maxConcurrency: maxConcurrency,
	}
}

// Start は指定間隔のティッカーでスケジューラを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("ニュースインポートスケジューラを開始しました",
		slog.Duration("interval", interval),
		slog.Int("source_count", len(s.sources)),
		slog.Int("max_concurrency", s.maxConcurrency),
	)

	// 起動直後に1回実行
	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ニュースインポートスケジューラを停止しました")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce は設定された全ソースを1回フェッチする。
// semaphoreパターンで最大並列数を制御する。個別ソースの失敗は
// ログとメトリクスに記録し、サイクル全体は継続する。
func (s *Scheduler) RunOnce(ctx context.Context) {
	if len(s.sources) == 0 {
		s.logger.Info("インポート対象のニュースソースはありません")
		return
	}

	start := time.Now()
	s.logger.Info("ニュースインポートサイクルを開始します",
		slog.Int("source_count", len(s.sources)),
	)

	sem := make(chan struct{}, s.maxConcurrency)
	var wg sync.WaitGroup

	for _, source := range s.sources {
		wg.Add(1)
		sem <- struct{}{} // semaphore取得（ブロック）

		go func(url string) {
			defer wg.Done()
			defer func() { <-sem }() // semaphore解放

			if err := s.fetcher.FetchSource(ctx, url); err != nil {
				s.logger.Error("ニュースソースのフェッチに失敗しました",
					slog.String("source_url", url),
					slog.String("error", err.Error()),
				)
			}
		}(source)
	}

	wg.Wait()

	duration := time.Since(start)
	s.logger.Info("ニュースインポートサイクルが完了しました",
		slog.Int("source_count", len(s.sources)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)
}

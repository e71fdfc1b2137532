package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/rightsguardian/internal/catalog"
	"github.com/hitoshi/rightsguardian/internal/checklist"
	"github.com/hitoshi/rightsguardian/internal/config"
	"github.com/hitoshi/rightsguardian/internal/contact"
	"github.com/hitoshi/rightsguardian/internal/database"
	"github.com/hitoshi/rightsguardian/internal/education"
	"github.com/hitoshi/rightsguardian/internal/guide"
	"github.com/hitoshi/rightsguardian/internal/handler"
	"github.com/hitoshi/rightsguardian/internal/logger"
	"github.com/hitoshi/rightsguardian/internal/metrics"
	"github.com/hitoshi/rightsguardian/internal/middleware"
	"github.com/hitoshi/rightsguardian/internal/premium"
	"github.com/hitoshi/rightsguardian/internal/repository"
	"github.com/hitoshi/rightsguardian/internal/security"
	"github.com/hitoshi/rightsguardian/internal/sessionlog"
	"github.com/hitoshi/rightsguardian/internal/user"
	"github.com/hitoshi/rightsguardian/internal/worker/newsfetch"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// stores はサーバー/ワーカーが使用するリポジトリ一式。
type stores struct {
	db        *sql.DB // インメモリ構成の場合はnil
	users     repository.UserRepository
	checklist repository.ChecklistRepository
	logs      repository.SessionLogRepository
	snippets  repository.SnippetRepository
}

// openStores はDATABASE_URLの有無に応じてストレージ実装を選択する。
// 未設定の場合はインメモリストア、設定されている場合はPostgreSQLを使用する。
func openStores(cfg *config.Config) (*stores, error) {
	if cfg.DatabaseURL == "" {
		slog.Info("using in-memory stores (DATABASE_URL not set)")
		return &stores{
			users:     repository.NewMemoryUserRepo(),
			checklist: repository.NewMemoryChecklistRepo(),
			logs:      repository.NewMemorySessionLogRepo(cfg.SessionLogCapacity),
			snippets:  repository.NewMemorySnippetRepo(),
		}, nil
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	return &stores{
		db:        db,
		users:     repository.NewPostgresUserRepo(db),
		checklist: repository.NewPostgresChecklistRepo(db),
		logs:      repository.NewPostgresSessionLogRepo(db, cfg.SessionLogCapacity),
		snippets:  repository.NewPostgresSnippetRepo(db),
	}, nil
}

// Close はDB接続を閉じる。インメモリ構成では何もしない。
func (s *stores) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// seedSnippets はカタログのシードスニペットをリポジトリに投入する。
// 既存のスニペットは共有カウントを保持するためスキップする。
func seedSnippets(ctx context.Context, repo repository.SnippetRepository, cat *catalog.Catalog) error {
	seeded := 0
	for _, snippet := range cat.Snippets() {
		existing, err := repo.FindByID(ctx, snippet.ID)
		if err != nil {
			return fmt.Errorf("シードスニペットの確認に失敗しました: %w", err)
		}
		if existing != nil {
			continue
		}

		s := snippet
		if err := repo.Save(ctx, &s); err != nil {
			return fmt.Errorf("シードスニペットの投入に失敗しました: %w", err)
		}
		seeded++
	}

	slog.Info("snippet seeding completed",
		slog.Int("seeded", seeded),
		slog.Int("total", len(cat.Snippets())),
	)
	return nil
}

// runServe はAPIサーバーモードで起動する。
// カタログを読み込み、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. セキュリティサービスとカタログ
	sanitizer := security.NewTextSanitizer()
	cat, err := catalog.Load(cfg.CatalogPath, sanitizer)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	slog.Info("catalog loaded",
		slog.Int("guides", len(cat.Guides())),
		slog.Int("contacts", len(cat.Contacts())),
		slog.Int("snippets", len(cat.Snippets())),
	)

	// 2. ストレージ
	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := seedSnippets(context.Background(), st.snippets, cat); err != nil {
		return err
	}

	// 3. メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. ドメインサービス
	logService := sessionlog.NewSessionLogService(st.logs)
	userService := user.NewUserService(st.users, logService)
	premiumService := premium.NewPremiumService(st.users, userService, logService)
	guideService := guide.NewGuideService(cat, logService)
	contactService := contact.NewContactService(cat)
	educationService := education.NewEducationService(st.snippets, logService, cfg.BaseURL)
	checklistService := checklist.NewChecklistService(st.checklist, cat, logService)

	// 5. レート制限（設定はreq/min単位、rate.Limitはreq/sec単位）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.PurchaseRate = rate.Limit(float64(cfg.RateLimitPurchase) / 60.0)
	rateLimiterCfg.PurchaseBurst = cfg.RateLimitPurchase
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 6. ルーターの構築
	deps := &handler.RouterDeps{
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		Metrics:  collector,
		Gatherer: registry,

		GuideService:      guideService,
		ContactService:    contactService,
		EducationService:  educationService,
		ChecklistService:  checklistService,
		UserService:       userService,
		PurchaseService:   premiumService,
		SessionLogService: logService,
	}
	if st.db != nil {
		deps.DBPinger = st.db
	}

	router := handler.NewRouter(deps)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 7. インメモリ構成ではニュースインポーターを同一プロセスで動かす。
	// ストアがプロセスローカルのため、独立ワーカーでは取り込み結果を
	// サーバーから参照できない。
	if st.db == nil && len(cfg.NewsFeedURLs) > 0 {
		scheduler := newNewsScheduler(cfg, st.snippets, sanitizer, collector)
		go scheduler.Start(ctx, cfg.NewsFetchInterval)
	}

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// newNewsScheduler はニュースインポーターのフェッチャーとスケジューラを構築する。
func newNewsScheduler(
	cfg *config.Config,
	snippets repository.SnippetRepository,
	sanitizer security.TextSanitizerService,
	collector *metrics.Collector,
) *newsfetch.Scheduler {
	fetcher := newsfetch.NewFetcher(
		snippets,
		security.NewSSRFGuard(),
		sanitizer,
		collector,
		slog.Default(),
		cfg.FetchTimeout,
		cfg.FetchMaxSize,
	)
	return newsfetch.NewScheduler(
		cfg.NewsFeedURLs, fetcher, slog.Default(), cfg.FetchMaxConcurrent,
	)
}

// runWorker はワーカーモードで起動する。
// ニュースインポートスケジューラを起動し、取り込んだ記事を
// スニペットストアにUPSERTする。PostgreSQL構成での利用を想定している
// （インメモリ構成ではserveモードがインポーターを内包する）。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	if len(cfg.NewsFeedURLs) == 0 {
		return fmt.Errorf("NEWS_FEED_URLS is not configured")
	}
	if cfg.DatabaseURL == "" {
		slog.Warn("worker started without DATABASE_URL; imported snippets are not shared with the API server")
	}

	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// ワーカーはニュースメトリクスのみ記録する（公開エンドポイントは持たない）
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	scheduler := newNewsScheduler(cfg, st.snippets, security.NewTextSanitizer(), collector)

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("fetch_interval", cfg.NewsFetchInterval),
		slog.Int("source_count", len(cfg.NewsFeedURLs)),
		slog.Int("max_concurrent", cfg.FetchMaxConcurrent),
	)

	// スケジューラをメインgoroutineで実行（ブロッキング）
	scheduler.Start(ctx, cfg.NewsFetchInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for migrations")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /healthz エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}

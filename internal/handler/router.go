package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/rightsguardian/internal/metrics"
	"github.com/hitoshi/rightsguardian/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス
	Metrics  MetricsRecorder
	Gatherer prometheus.Gatherer

	// コンテンツ
	GuideService   GuideServiceInterface
	ContactService ContactServiceInterface

	// 教育スニペット
	EducationService EducationServiceInterface

	// チェックリスト
	ChecklistService ChecklistServiceInterface

	// ユーザー
	UserService     UserServiceInterface
	PurchaseService PurchaseServiceInterface

	// セッションログ
	SessionLogService SessionLogServiceInterface

	// ヘルスチェック（DB未構成の場合はnil）
	DBPinger Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Identity → Logging → RateLimit(General)
//
// ヘルスチェック（/healthz）とメトリクス（/metrics）はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())

	guideHandler := NewGuideHandler(deps.GuideService, deps.UserService, deps.Metrics)
	contactHandler := NewContactHandler(deps.ContactService, deps.UserService, deps.Metrics)
	educationHandler := NewEducationHandler(deps.EducationService, deps.Metrics)
	checklistHandler := NewChecklistHandler(deps.ChecklistService, deps.Metrics)
	userHandler := NewUserHandler(deps.UserService, deps.PurchaseService, deps.Metrics)
	logHandler := NewLogHandler(deps.SessionLogService)
	healthHandler := NewHealthHandler(deps.DBPinger)

	// --- 運用ルート（レート制限の外） ---

	r.Get("/healthz", healthHandler.Healthz)

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- APIルート ---
	// ミドルウェアスタック: Identity → Logging → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewIdentityMiddleware())
		if deps.Logger != nil {
			var recordStatus middleware.StatusRecordFunc
			if deps.Metrics != nil {
				recordStatus = deps.Metrics.RecordHTTPStatus
			}
			r.Use(middleware.NewLoggingMiddleware(deps.Logger, recordStatus))
		}
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ガイド
		r.Route("/api/guides", func(r chi.Router) {
			r.Get("/", guideHandler.ListGuides)
			r.Get("/{id}", guideHandler.GetGuide)
		})

		// 緊急連絡先
		r.Route("/api/contacts", func(r chi.Router) {
			r.Get("/", contactHandler.ListContacts)
			r.Get("/{id}", contactHandler.GetContact)
		})

		// 教育スニペット
		r.Route("/api/education", func(r chi.Router) {
			r.Get("/", educationHandler.ListSnippets)
			r.Post("/{id}/share", educationHandler.ShareSnippet)
		})

		// チェックリスト
		r.Route("/api/checklist/{guideId}", func(r chi.Router) {
			r.Get("/", checklistHandler.GetChecklist)
			r.Post("/toggle", checklistHandler.ToggleChecklistItem)
			r.Post("/reset", checklistHandler.ResetChecklist)
		})

		// ユーザー
		r.Route("/api/user", func(r chi.Router) {
			r.Get("/", userHandler.GetUser)
			r.Put("/preferences", userHandler.UpdatePreferences)

			// POST /api/user/purchase - パック購入（購入専用レート制限を追加）
			r.With(deps.RateLimiter.PurchaseMiddleware()).Post("/purchase", userHandler.Purchase)
		})

		// セッションログ・分析
		r.Route("/api/logs", func(r chi.Router) {
			r.Get("/", logHandler.ListLogs)
			r.Post("/", logHandler.RecordAction)
		})
		r.Get("/api/analytics", logHandler.GetAnalytics)
	})

	return r
}

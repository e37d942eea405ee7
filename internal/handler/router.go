package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/relinkhq/relink/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	Logger            *slog.Logger
	StatusRecorder    middleware.HTTPStatusRecorder // nil可

	// 認証
	AuthService    AuthServiceInterface
	AuthConfig     AuthHandlerConfig
	SignInRecorder SignInRecorder // nil可

	// プロフィール
	ProfileService ProfileServiceInterface

	// 連絡先
	ContactService ContactServiceInterface
	XPAwarder      XPAwarder

	// 友達リクエスト
	RequestService RequestServiceInterface

	// 運用
	HealthChecker  HealthChecker
	MetricsHandler http.Handler // nil可
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging →
//	（認証ルートのみ）Session → CSRF → RateLimit(General)
//
// サインイン（POST /auth/signin）は認証不要だがIP単位のレート制限がかかる。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusRecorder))

	authHandler := NewAuthHandler(deps.AuthService, deps.SignInRecorder, deps.AuthConfig)
	profileHandler := NewProfileHandler(deps.ProfileService)
	contactHandler := NewContactHandler(deps.ContactService, deps.XPAwarder)
	requestHandler := NewRequestHandler(deps.RequestService)

	// --- 認証不要のルート ---

	// サインイン（IP単位のレート制限付き）
	r.With(deps.RateLimiter.SignInMiddleware()).Post("/auth/signin", authHandler.SignIn)

	// CSRFトークン取得（サインイン前でも取得可能）
	r.Get("/auth/csrf", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	// ヘルスチェック
	r.Get("/health", NewHealthHandler(deps.HealthChecker))

	// Prometheusメトリクス
	if deps.MetricsHandler != nil {
		r.Get("/metrics", deps.MetricsHandler.ServeHTTP)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// セッション管理
		r.Post("/auth/signout", authHandler.SignOut)
		r.Get("/auth/me", authHandler.Me)

		// プロフィール管理
		r.Route("/api/profile", func(r chi.Router) {
			r.Patch("/", profileHandler.UpdateProfile)
			r.Put("/status", profileHandler.UpdateStatus)
			r.Post("/xp", profileHandler.AwardXP)
		})

		// 連絡先管理
		r.Route("/api/contacts", func(r chi.Router) {
			r.Get("/", contactHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", contactHandler.Get)
				r.Get("/suggestion", contactHandler.Suggestion)
				r.Post("/interactions", contactHandler.LogInteraction)
			})
		})

		// 友達リクエスト管理
		r.Route("/api/requests", func(r chi.Router) {
			r.Get("/", requestHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/accept", requestHandler.Accept)
				r.Delete("/", requestHandler.Decline)
			})
		})
	})

	return r
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/relinkhq/relink/internal/middleware"
	"github.com/relinkhq/relink/internal/model"
)

// HealthChecker は永続化層の疎通確認に必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// healthResponse はヘルスチェックのAPIレスポンス。
type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthHandler はヘルスチェックエンドポイントのハンドラーを返す。
// データベースに疎通できない場合は503を返す。
// GET /health
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := checker.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			middleware.WriteErrorResponse(w, http.StatusServiceUnavailable,
				model.NewStorageUnavailableError(err))
			return
		}

		writeJSONResponse(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/relinkhq/relink/internal/model"
)

// RequestServiceInterface は友達リクエストハンドラーが必要とするサービスインターフェース。
type RequestServiceInterface interface {
	// List は全友達リクエストを返す。
	List(ctx context.Context) ([]model.FriendRequest, error)
	// Accept はリクエストを承認し、新しい連絡先を返す。
	Accept(ctx context.Context, requestID string) (*model.Contact, error)
	// Decline はリクエストを辞退して削除する。
	Decline(ctx context.Context, requestID string) error
}

// RequestHandler は友達リクエスト管理のHTTPハンドラー。
type RequestHandler struct {
	service RequestServiceInterface
}

// NewRequestHandler はRequestHandlerを生成する。
func NewRequestHandler(service RequestServiceInterface) *RequestHandler {
	return &RequestHandler{service: service}
}

// List は友達リクエスト一覧を返す。
// GET /api/requests
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, requests)
}

// Accept はリクエストの承認を処理する。
// 承認により送信者が新しい連絡先として追加される。
// POST /api/requests/{id}/accept
func (h *RequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	newContact, err := h.service.Accept(r.Context(), requestID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, newContact)
}

// Decline はリクエストの辞退を処理する。
// DELETE /api/requests/{id}
func (h *RequestHandler) Decline(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	if err := h.service.Decline(r.Context(), requestID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

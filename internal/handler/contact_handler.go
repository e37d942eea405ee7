package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/relinkhq/relink/internal/contact"
	"github.com/relinkhq/relink/internal/middleware"
	"github.com/relinkhq/relink/internal/model"
	"github.com/relinkhq/relink/internal/scoring"
)

// ContactServiceInterface は連絡先ハンドラーが必要とするサービスインターフェース。
type ContactServiceInterface interface {
	// List は全連絡先をスコア再計算済みで返す。
	List(ctx context.Context) ([]model.Contact, error)
	// GetByID は指定IDの連絡先をスコア再計算済みで返す。
	GetByID(ctx context.Context, contactID string) (*model.Contact, error)
	// Suggestion は連絡先の現在の状態から会話の提案を生成する。
	Suggestion(ctx context.Context, contactID string) (*scoring.Suggestion, error)
	// LogInteraction はインタラクションを記録し、更新後の連絡先と獲得XPを返す。
	LogInteraction(ctx context.Context, contactID string, input contact.InteractionInput) (*model.Contact, int, error)
}

// XPAwarder はインタラクション記録後にユーザーへXPを付与するインターフェース。
// session.Serviceの部分集合として定義する。
type XPAwarder interface {
	AwardXP(ctx context.Context, userID string, amount int) (*model.User, error)
}

// ContactHandler は連絡先管理のHTTPハンドラー。
type ContactHandler struct {
	service ContactServiceInterface
	awarder XPAwarder
}

// NewContactHandler はContactHandlerを生成する。
func NewContactHandler(service ContactServiceInterface, awarder XPAwarder) *ContactHandler {
	return &ContactHandler{
		service: service,
		awarder: awarder,
	}
}

// logInteractionRequest はインタラクション記録リクエストのボディ。
type logInteractionRequest struct {
	Type            string `json:"type"`
	DurationMinutes int    `json:"durationMinutes"`
	Mode            string `json:"mode"`
	Rating          int    `json:"rating"`
	Notes           string `json:"notes"`
}

// logInteractionResponse はインタラクション記録のAPIレスポンス。
// 更新後の連絡先、獲得XP、XP加算後のユーザーを含む。
type logInteractionResponse struct {
	Contact  *model.Contact `json:"contact"`
	XPEarned int            `json:"xpEarned"`
	User     *model.User    `json:"user,omitempty"`
}

// List は連絡先一覧を返す。
// GET /api/contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, contacts)
}

// Get は指定IDの連絡先を返す。
// GET /api/contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")

	found, err := h.service.GetByID(r.Context(), contactID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, found)
}

// Suggestion は連絡先への会話提案を返す。
// GET /api/contacts/{id}/suggestion
func (h *ContactHandler) Suggestion(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")

	suggestion, err := h.service.Suggestion(r.Context(), contactID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, suggestion)
}

// LogInteraction はインタラクションの記録を処理する。
// 記録で獲得したXPはサインイン中のユーザーにも加算される。
// POST /api/contacts/{id}/interactions
func (h *ContactHandler) LogInteraction(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotSignedInError())
		return
	}

	contactID := chi.URLParam(r, "id")

	var req logInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの形式が不正です。",
			Category: "validation",
			Action:   "type、durationMinutes、rating を含むJSONを送信してください。",
		})
		return
	}

	input := contact.InteractionInput{
		Type:            model.InteractionType(req.Type),
		DurationMinutes: req.DurationMinutes,
		Mode:            model.CallMode(req.Mode),
		Rating:          req.Rating,
		Notes:           req.Notes,
	}

	updated, xpEarned, err := h.service.LogInteraction(r.Context(), contactID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 獲得XPをユーザーにも加算する。
	// 失敗してもインタラクション自体は記録済みのため、エラーにはしない。
	var user *model.User
	if h.awarder != nil {
		user, err = h.awarder.AwardXP(r.Context(), userID, xpEarned)
		if err != nil {
			slog.Error("failed to award XP after interaction",
				slog.String("user_id", userID),
				slog.Int("xp_earned", xpEarned),
				slog.String("error", err.Error()),
			)
			user = nil
		}
	}

	writeJSONResponse(w, http.StatusCreated, logInteractionResponse{
		Contact:  updated,
		XPEarned: xpEarned,
		User:     user,
	})
}

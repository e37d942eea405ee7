package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/relinkhq/relink/internal/middleware"
	"github.com/relinkhq/relink/internal/model"
	"github.com/relinkhq/relink/internal/session"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	// UpdateProfile はユーザーのプロフィールを部分更新する。
	UpdateProfile(ctx context.Context, userID string, update session.ProfileUpdate) (*model.User, error)
	// UpdateStatus はステータスメッセージのみを更新する。
	UpdateStatus(ctx context.Context, userID string, status string) (*model.User, error)
	// AwardXP はユーザーにXPを加算する。
	AwardXP(ctx context.Context, userID string, amount int) (*model.User, error)
}

// ProfileHandler はプロフィール管理のHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
// nilのフィールドは変更しない。
type updateProfileRequest struct {
	Name               *string  `json:"name"`
	AvatarURL          *string  `json:"avatarUrl"`
	Interests          []string `json:"interests"`
	ConnectionStyle    *string  `json:"connectionStyle"`
	OnboardingComplete *bool    `json:"onboardingComplete"`
	CurrentStatusMsg   *string  `json:"currentStatusMsg"`
}

// updateStatusRequest はステータスメッセージ更新リクエストのボディ。
type updateStatusRequest struct {
	Status string `json:"status"`
}

// awardXPRequest はXP付与リクエストのボディ。
type awardXPRequest struct {
	Amount int `json:"amount"`
}

// UpdateProfile はプロフィールの部分更新を処理する。
// PATCH /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotSignedInError())
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの形式が不正です。",
			Category: "validation",
			Action:   "プロフィール更新フィールドを含むJSONを送信してください。",
		})
		return
	}

	update := session.ProfileUpdate{
		Name:               req.Name,
		AvatarURL:          req.AvatarURL,
		Interests:          req.Interests,
		OnboardingComplete: req.OnboardingComplete,
		CurrentStatusMsg:   req.CurrentStatusMsg,
	}
	if req.ConnectionStyle != nil {
		style := model.ConnectionVibe(*req.ConnectionStyle)
		update.ConnectionStyle = &style
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, user)
}

// UpdateStatus はステータスメッセージの更新を処理する。
// PUT /api/profile/status
func (h *ProfileHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotSignedInError())
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの形式が不正です。",
			Category: "validation",
			Action:   "status フィールドを含むJSONを送信してください。",
		})
		return
	}

	user, err := h.service.UpdateStatus(r.Context(), userID, req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, user)
}

// AwardXP はXPの付与を処理する。
// POST /api/profile/xp
func (h *ProfileHandler) AwardXP(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotSignedInError())
		return
	}

	var req awardXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの形式が不正です。",
			Category: "validation",
			Action:   "amount フィールドを含むJSONを送信してください。",
		})
		return
	}
	if req.Amount < 0 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "XPの付与量は0以上で指定してください。",
			Category: "validation",
			Action:   "amount に0以上の整数を指定してください。",
		})
		return
	}

	user, err := h.service.AwardXP(r.Context(), userID, req.Amount)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, user)
}

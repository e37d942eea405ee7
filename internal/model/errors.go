// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, storage, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// AsAPIError はエラーチェーンからAPIErrorを取り出す。
// fmt.Errorfの%wでラップされたエラーにも対応する。
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// 定義済みエラーコード
const (
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeNotSignedIn        = "NOT_SIGNED_IN"
	ErrCodeRecordNotFound     = "RECORD_NOT_FOUND"
	ErrCodeContactNotFound    = "CONTACT_NOT_FOUND"
	ErrCodeRequestNotFound    = "REQUEST_NOT_FOUND"
	ErrCodeInvalidRating      = "INVALID_RATING"
	ErrCodeInvalidAvatarURL   = "INVALID_AVATAR_URL"
)

// NewStorageUnavailableError は永続化層が利用できない場合のエラーを生成する。
// 呼び出し側はこのエラーを致命的として扱ってはならない（一時的な通知表示に留める）。
func NewStorageUnavailableError(err error) *APIError {
	return &APIError{
		Code:     ErrCodeStorageUnavailable,
		Message:  fmt.Sprintf("データの保存領域にアクセスできません: %v", err),
		Category: "storage",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewNotSignedInError はサインインしていない状態での変更操作エラーを生成する。
func NewNotSignedInError() *APIError {
	return &APIError{
		Code:     ErrCodeNotSignedIn,
		Message:  "サインインしていません。",
		Category: "auth",
		Action:   "サインインしてから再度お試しください。",
	}
}

// NewContactNotFoundError は連絡先が見つからない場合のエラーを生成する。
func NewContactNotFoundError(contactID string) *APIError {
	return &APIError{
		Code:     ErrCodeContactNotFound,
		Message:  fmt.Sprintf("指定された連絡先が見つかりません: %s", contactID),
		Category: "validation",
		Action:   "連絡先IDを確認してください。",
	}
}

// NewRequestNotFoundError は友達リクエストが見つからない場合のエラーを生成する。
func NewRequestNotFoundError(requestID string) *APIError {
	return &APIError{
		Code:     ErrCodeRequestNotFound,
		Message:  fmt.Sprintf("指定された友達リクエストが見つかりません: %s", requestID),
		Category: "validation",
		Action:   "リクエスト一覧を再読み込みしてください。",
	}
}

// NewInvalidRatingError は評価値が1-5の範囲外の場合のエラーを生成する。
func NewInvalidRatingError(rating int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRating,
		Message:  fmt.Sprintf("無効な評価値です: %d", rating),
		Category: "validation",
		Action:   "評価は1から5の整数で指定してください。",
	}
}

// NewInvalidAvatarURLError はアバターURLが検証を通らなかった場合のエラーを生成する。
func NewInvalidAvatarURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAvatarURL,
		Message:  fmt.Sprintf("無効なアバターURLです: %s", reason),
		Category: "validation",
		Action:   "https:// で始まる公開画像のURLを指定してください。",
	}
}

// Package model はドメインモデルを定義する。
package model

// RequestStatus は友達リクエストの状態を表す。
type RequestStatus string

const (
	// RequestPending は未処理のリクエスト。
	RequestPending RequestStatus = "pending"
	// RequestAccepted は承認済みのリクエスト。
	// 承認時にレコードは削除されるため、永続化上は一時的な状態。
	RequestAccepted RequestStatus = "accepted"
	// RequestRejected は拒否されたリクエスト。
	RequestRejected RequestStatus = "rejected"
)

// RequestSender は友達リクエストの送信者サマリを表す。
type RequestSender struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// FriendRequest はディスカバリー画面の「つながる」操作で生成される友達リクエストを表す。
// 承認時にContactレコードへ変換されて削除され、拒否時は単に削除される。
type FriendRequest struct {
	ID        string        `json:"id"`
	From      RequestSender `json:"from"`
	Timestamp string        `json:"timestamp"` // ISO-8601
	Status    RequestStatus `json:"status"`
}

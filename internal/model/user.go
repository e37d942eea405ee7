// Package model はドメインモデルを定義する。
package model

import "time"

// ConnectionVibe はユーザーが選ぶつながり方のスタイルを表す。
// オンボーディング完了までは未設定（空文字）でありうる。
type ConnectionVibe string

const (
	// VibeChill は低プレッシャーなゆるい会話スタイル。
	VibeChill ConnectionVibe = "Chill"
	// VibeDeep は深い対話スタイル。
	VibeDeep ConnectionVibe = "Deep"
	// VibeEnergetic はテンポの速い盛り上がりスタイル。
	VibeEnergetic ConnectionVibe = "Energetic"
	// VibeLateNight は深夜帯の通話スタイル。
	VibeLateNight ConnectionVibe = "Late Night"
	// VibeGamer はゲームをしながらのボイスチャットスタイル。
	VibeGamer ConnectionVibe = "Gamer"
)

// User はサインイン中のユーザーを表す。
// サインイン直後はオンボーディング未完了・XP 0・レベル1で生成される。
type User struct {
	ID                 string         `json:"id"`
	Email              string         `json:"email"`
	Name               string         `json:"name"`
	AvatarURL          string         `json:"avatarUrl"`
	Interests          []string       `json:"interests,omitempty"`
	ConnectionStyle    ConnectionVibe `json:"connectionStyle,omitempty"`
	OnboardingComplete bool           `json:"onboardingComplete"`
	XP                 int            `json:"xp"`
	Level              int            `json:"level"`
	CurrentStatusMsg   string         `json:"currentStatusMsg,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// Session はユーザーのサインインセッションを表す。
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired はセッションが有効期限切れかを返す。
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

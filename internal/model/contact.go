// Package model はドメインモデルを定義する。
package model

import "time"

// RelationshipCategory は連絡先との関係カテゴリを表す。
// カテゴリは相互排他で、順序関係は持たない（Fadingのみスコア減衰に影響する）。
type RelationshipCategory string

const (
	// CategoryClose は親密な関係を表す。
	CategoryClose RelationshipCategory = "Close"
	// CategoryImportant は重要な関係を表す。
	CategoryImportant RelationshipCategory = "Important"
	// CategoryCasual はカジュアルな関係を表す。
	CategoryCasual RelationshipCategory = "Casual"
	// CategoryFading は疎遠になりつつある関係を表す。
	// スコア計算で0.8倍のペナルティが適用される。
	CategoryFading RelationshipCategory = "Fading"
)

// PresenceStatus は連絡先のプレゼンス状態を表す。
type PresenceStatus string

const (
	// PresenceOnline はオンライン状態。
	PresenceOnline PresenceStatus = "online"
	// PresenceOffline はオフライン状態。
	PresenceOffline PresenceStatus = "offline"
	// PresenceInCall は通話中の状態。
	PresenceInCall PresenceStatus = "in-call"
	// PresenceGaming はゲーム中の状態。
	PresenceGaming PresenceStatus = "gaming"
)

// InteractionType はインタラクションの種別を表す。
type InteractionType string

const (
	// InteractionVoice は音声通話。
	InteractionVoice InteractionType = "voice"
	// InteractionText はテキストチャット。
	InteractionText InteractionType = "text"
	// InteractionGame は一緒に遊んだゲームセッション。
	InteractionGame InteractionType = "game"
)

// CallMode は通話の目的モードを表す。
type CallMode string

const (
	// CallModeCatchUp は近況報告の通話。
	CallModeCatchUp CallMode = "CatchUp"
	// CallModeDeep は深い対話の通話。
	CallModeDeep CallMode = "Deep"
	// CallModeRepair は関係修復の通話。
	CallModeRepair CallMode = "Repair"
	// CallModeCelebration はお祝いの通話。
	CallModeCelebration CallMode = "Celebration"
	// CallModeFun は雑談・遊びの通話。
	CallModeFun CallMode = "Fun"
)

// Interaction は連絡先との1回のやり取り（通話/テキスト/ゲーム）を表す。
// 作成後は不変であり、Contactのインタラクション列の先頭に追加される。
type Interaction struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"` // ISO-8601
	Type            InteractionType `json:"type"`
	DurationMinutes int             `json:"durationMinutes"`
	Mode            CallMode        `json:"mode,omitempty"`
	Rating          int             `json:"rating"` // 1-5
	Notes           string          `json:"notes,omitempty"`
	XPEarned        int             `json:"xpEarned"`
}

// Contact は連絡先（友人）を表す。
// InteractionsはAPI契約として新しい順（先頭が最新）で保持される。
// スコア計算は先頭5件のみを参照する。
// ConnectionScoreは導出値であり、読み取り時に常に再計算される。
// 永続化された値はワーカーが定期更新するキャッシュにすぎない。
type Contact struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	AvatarURL           string               `json:"avatarUrl"`
	Category            RelationshipCategory `json:"category"`
	ConnectionScore     int                  `json:"connectionScore"` // 0-100
	LastInteractionDate string               `json:"lastInteractionDate,omitempty"`
	Interactions        []Interaction        `json:"interactions,omitempty"`
	Streak              int                  `json:"streak"`
	Status              PresenceStatus       `json:"status"`
	Interests           []string             `json:"interests,omitempty"`
	CurrentStatusMsg    string               `json:"currentStatusMsg,omitempty"`
	XP                  int                  `json:"xp"`
	Level               int                  `json:"level"`
	CreatedAt           string               `json:"createdAt,omitempty"`
}

// LastInteractionTime はLastInteractionDateをtime.Timeとして返す。
// 未設定またはパース不能な場合はゼロ値とfalseを返す。
// スキーマ移行を持たないストアのため、壊れた日付はエラーではなく
// 「未インタラクション」として扱う。
func (c *Contact) LastInteractionTime() (time.Time, bool) {
	if c.LastInteractionDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, c.LastInteractionDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// RecentInteractions は最新5件（足りなければ全件）のインタラクションを返す。
func (c *Contact) RecentInteractions() []Interaction {
	if len(c.Interactions) <= 5 {
		return c.Interactions
	}
	return c.Interactions[:5]
}

// Package contact は連絡先の一覧・取得、インタラクション記録、会話提案を提供する。
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/relinkhq/relink/internal/model"
	"github.com/relinkhq/relink/internal/scoring"
	"github.com/relinkhq/relink/internal/security"
	"github.com/relinkhq/relink/internal/store"
)

// baseXPPerCall は通話1回あたりの基本XP。
// 実際の付与量は duration/10 + baseXPPerCall となる。
const baseXPPerCall = 50

// InteractionInput はインタラクション記録の入力を表す。
type InteractionInput struct {
	Type            model.InteractionType
	DurationMinutes int
	Mode            model.CallMode
	Rating          int
	Notes           string
}

// Metrics はサービスが発行するカウンタのインターフェース。
type Metrics interface {
	IncInteractions()
	IncScoresRecomputed()
}

// Service は連絡先に関するビジネスロジックを提供する。
// 返却される連絡先のconnectionScoreは常に読み出し時に再計算され、
// 保存された値はワーカーが更新するキャッシュとしてのみ扱われる。
type Service struct {
	store     store.CollectionStore
	sanitizer security.ContentSanitizerService
	metrics   Metrics // nil可
}

// NewService はServiceを生成する。metricsはnilを許容する。
func NewService(st store.CollectionStore, sanitizer security.ContentSanitizerService, metrics Metrics) *Service {
	return &Service{
		store:     st,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// List は全連絡先をスコア再計算済みで返す。
func (s *Service) List(ctx context.Context) ([]model.Contact, error) {
	records, err := s.store.Get(ctx, string(store.CollectionFriends))
	if err != nil {
		return nil, fmt.Errorf("連絡先の取得に失敗しました: %w", err)
	}

	now := time.Now()
	contacts := make([]model.Contact, 0, len(records))
	for _, record := range records {
		var contact model.Contact
		if err := store.Decode(record, &contact); err != nil {
			return nil, fmt.Errorf("連絡先のデコードに失敗しました: %w", err)
		}
		contact.ConnectionScore = scoring.ConnectionScore(&contact, now)
		s.incScoresRecomputed()
		contacts = append(contacts, contact)
	}

	return contacts, nil
}

// GetByID は指定IDの連絡先をスコア再計算済みで返す。
// 見つからない場合はCONTACT_NOT_FOUNDエラーを返す。
func (s *Service) GetByID(ctx context.Context, contactID string) (*model.Contact, error) {
	contact, err := s.findByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, model.NewContactNotFoundError(contactID)
	}

	contact.ConnectionScore = scoring.ConnectionScore(contact, time.Now())
	s.incScoresRecomputed()
	return contact, nil
}

// Suggestion は連絡先の現在の状態から会話の提案を生成する。
func (s *Service) Suggestion(ctx context.Context, contactID string) (*scoring.Suggestion, error) {
	contact, err := s.findByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, model.NewContactNotFoundError(contactID)
	}

	suggestion := scoring.SmartSuggestion(contact, time.Now(), nil)
	return &suggestion, nil
}

// LogInteraction はインタラクションを記録し、更新後の連絡先と獲得XPを返す。
// 新しいインタラクションは履歴の先頭に追加され（新しい順）、
// lastInteractionDateとstreakが更新される。
// 記録後のconnectionScoreはキャッシュとして永続化される。
func (s *Service) LogInteraction(ctx context.Context, contactID string, input InteractionInput) (*model.Contact, int, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, 0, model.NewInvalidRatingError(input.Rating)
	}

	contact, err := s.findByID(ctx, contactID)
	if err != nil {
		return nil, 0, err
	}
	if contact == nil {
		return nil, 0, model.NewContactNotFoundError(contactID)
	}

	now := time.Now().UTC()
	xpEarned := input.DurationMinutes/10 + baseXPPerCall

	interaction := model.Interaction{
		ID:              uuid.New().String(),
		Date:            now.Format(time.RFC3339),
		Type:            input.Type,
		DurationMinutes: input.DurationMinutes,
		Mode:            input.Mode,
		Rating:          input.Rating,
		Notes:           s.sanitizer.SanitizeText(input.Notes),
		XPEarned:        xpEarned,
	}

	// 新しい順を維持するため先頭に追加する
	contact.Interactions = append([]model.Interaction{interaction}, contact.Interactions...)
	contact.LastInteractionDate = interaction.Date
	contact.Streak++
	contact.ConnectionScore = scoring.ConnectionScore(contact, now)

	partial := store.Record{
		"interactions":        contact.Interactions,
		"lastInteractionDate": contact.LastInteractionDate,
		"streak":              contact.Streak,
		"connectionScore":     contact.ConnectionScore,
	}
	if err := s.store.Update(ctx, string(store.CollectionFriends), contactID, partial); err != nil {
		return nil, 0, fmt.Errorf("インタラクションの保存に失敗しました: %w", err)
	}

	s.incInteractions()
	slog.Info("interaction logged",
		slog.String("contact_id", contactID),
		slog.String("type", string(input.Type)),
		slog.Int("duration_minutes", input.DurationMinutes),
		slog.Int("xp_earned", xpEarned),
	)

	return contact, xpEarned, nil
}

// findByID はIDで連絡先を検索する。見つからない場合は (nil, nil) を返す。
func (s *Service) findByID(ctx context.Context, contactID string) (*model.Contact, error) {
	records, err := s.store.Get(ctx, string(store.CollectionFriends))
	if err != nil {
		return nil, fmt.Errorf("連絡先の取得に失敗しました: %w", err)
	}
	for _, record := range records {
		if record.ID() == contactID {
			var contact model.Contact
			if err := store.Decode(record, &contact); err != nil {
				return nil, fmt.Errorf("連絡先のデコードに失敗しました: %w", err)
			}
			return &contact, nil
		}
	}
	return nil, nil
}

func (s *Service) incInteractions() {
	if s.metrics != nil {
		s.metrics.IncInteractions()
	}
}

func (s *Service) incScoresRecomputed() {
	if s.metrics != nil {
		s.metrics.IncScoresRecomputed()
	}
}

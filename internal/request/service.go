// Package request は友達リクエストの一覧・承認・辞退を提供する。
package request

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/relinkhq/relink/internal/model"
	"github.com/relinkhq/relink/internal/security"
	"github.com/relinkhq/relink/internal/store"
)

// Metrics はサービスが発行するカウンタのインターフェース。
type Metrics interface {
	IncRequestsAccepted()
	IncRequestsDeclined()
}

// Service は友達リクエストに関するビジネスロジックを提供する。
type Service struct {
	store   store.CollectionStore
	avatars security.AvatarGuardService // nil可
	metrics Metrics                     // nil可
}

// NewService はServiceを生成する。avatarsとmetricsはnilを許容する。
func NewService(st store.CollectionStore, avatars security.AvatarGuardService, metrics Metrics) *Service {
	return &Service{
		store:   st,
		avatars: avatars,
		metrics: metrics,
	}
}

// List は全友達リクエストを返す。
func (s *Service) List(ctx context.Context) ([]model.FriendRequest, error) {
	records, err := s.store.Get(ctx, string(store.CollectionRequests))
	if err != nil {
		return nil, fmt.Errorf("リクエストの取得に失敗しました: %w", err)
	}

	requests := make([]model.FriendRequest, 0, len(records))
	for _, record := range records {
		var request model.FriendRequest
		if err := store.Decode(record, &request); err != nil {
			return nil, fmt.Errorf("リクエストのデコードに失敗しました: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, nil
}

// Accept はリクエストを承認する。送信者を新しい友人として追加したのち、
// リクエストを削除する。追加が先であるため、途中で失敗しても
// リクエストが失われることはない（再実行でfriendsの同名重複排除が効く）。
func (s *Service) Accept(ctx context.Context, requestID string) (*model.Contact, error) {
	request, err := s.findByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, model.NewRequestNotFoundError(requestID)
	}

	// 送信者のアバターURLは外部入力のため検証する。承認操作自体は
	// 受信者の操作であり、不正なURLは空に落とすだけで失敗にはしない。
	avatarURL := request.From.AvatarURL
	if s.avatars != nil && avatarURL != "" {
		if err := s.avatars.ValidateURL(avatarURL); err != nil {
			slog.Warn("request sender avatar rejected",
				slog.String("request_id", requestID),
				slog.String("reason", err.Error()),
			)
			avatarURL = ""
		}
	}

	// 新しい友人の初期値: カジュアル関係・スコア50・オンラインで開始する
	newFriend := store.Record{
		"name":                request.From.Name,
		"avatarUrl":           avatarURL,
		"category":            string(model.CategoryCasual),
		"connectionScore":     50,
		"status":              string(model.PresenceOnline),
		"interests":           []string{"New Friend"},
		"xp":                  0,
		"level":               1,
		"lastInteractionDate": time.Now().UTC().Format(time.RFC3339),
		"currentStatusMsg":    "Connected!",
	}

	added, err := s.store.Add(ctx, string(store.CollectionFriends), newFriend)
	if err != nil {
		return nil, fmt.Errorf("友人の追加に失敗しました: %w", err)
	}

	if err := s.store.Delete(ctx, string(store.CollectionRequests), requestID); err != nil {
		return nil, fmt.Errorf("リクエストの削除に失敗しました: %w", err)
	}

	var contact model.Contact
	if err := store.Decode(added, &contact); err != nil {
		return nil, fmt.Errorf("友人のデコードに失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncRequestsAccepted()
	}
	slog.Info("friend request accepted",
		slog.String("request_id", requestID),
		slog.String("contact_id", contact.ID),
		slog.String("name", contact.Name),
	)

	return &contact, nil
}

// Decline はリクエストを辞退して削除する。
func (s *Service) Decline(ctx context.Context, requestID string) error {
	request, err := s.findByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return model.NewRequestNotFoundError(requestID)
	}

	if err := s.store.Delete(ctx, string(store.CollectionRequests), requestID); err != nil {
		return fmt.Errorf("リクエストの削除に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncRequestsDeclined()
	}
	slog.Info("friend request declined", slog.String("request_id", requestID))

	return nil
}

// findByID はIDでリクエストを検索する。見つからない場合は (nil, nil) を返す。
func (s *Service) findByID(ctx context.Context, requestID string) (*model.FriendRequest, error) {
	records, err := s.store.Get(ctx, string(store.CollectionRequests))
	if err != nil {
		return nil, fmt.Errorf("リクエストの取得に失敗しました: %w", err)
	}
	for _, record := range records {
		if record.ID() == requestID {
			var request model.FriendRequest
			if err := store.Decode(record, &request); err != nil {
				return nil, fmt.Errorf("リクエストのデコードに失敗しました: %w", err)
			}
			return &request, nil
		}
	}
	return nil, nil
}

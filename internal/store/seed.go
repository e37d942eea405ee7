package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Seeder は空のストアに対するデモデータの初期投入を行う。
// 各コレクションが空の場合のみ投入するため、再実行は安全（冪等）。
type Seeder struct {
	store  CollectionStore
	logger *slog.Logger
}

// NewSeeder はSeederを生成する。
func NewSeeder(store CollectionStore, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:  store,
		logger: logger,
	}
}

// Run はfriendsとrequestsコレクションが空の場合にデモデータを投入する。
// 既にレコードが存在するコレクションには何もしない。
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedFriends(ctx); err != nil {
		return err
	}
	if err := s.seedRequests(ctx); err != nil {
		return err
	}
	return nil
}

// seedFriends はfriendsコレクションが空の場合にデモ連絡先を投入する。
func (s *Seeder) seedFriends(ctx context.Context) error {
	existing, err := s.store.Get(ctx, string(CollectionFriends))
	if err != nil {
		return fmt.Errorf("デモデータ投入前の確認に失敗しました: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now()
	daysAgo := func(d int) string {
		return now.AddDate(0, 0, -d).UTC().Format(time.RFC3339)
	}

	friends := []Record{
		{
			"name": "Ananya", "status": "online", "category": "Close", "connectionScore": 92,
			"avatarUrl":           "https://images.unsplash.com/photo-1534528741775-53994a69daeb?auto=format&fit=crop&w=200&h=200",
			"xp": 1200, "level": 3, "interests": []string{"Sushi", "Travel", "Reality TV"},
			"lastInteractionDate": daysAgo(0),
			"currentStatusMsg":    "Craving pani puri rn",
		},
		{
			"name": "Arjun", "status": "in-call", "category": "Important", "connectionScore": 65,
			"avatarUrl":           "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?auto=format&fit=crop&w=200&h=200",
			"xp": 450, "level": 2, "interests": []string{"Tech", "Coding", "Startups"},
			"lastInteractionDate": daysAgo(5),
			"currentStatusMsg":    "Coding marathon",
		},
		{
			"name": "Diya", "status": "gaming", "category": "Casual", "connectionScore": 40,
			"avatarUrl":           "https://images.unsplash.com/photo-1524504388940-b1c1722653e1?auto=format&fit=crop&w=200&h=200",
			"xp": 120, "level": 1, "interests": []string{"Gaming", "Anime", "Design"},
			"lastInteractionDate": daysAgo(12),
			"currentStatusMsg":    "Ranked match, do not disturb",
		},
		{
			"name": "Vivaan", "status": "offline", "category": "Fading", "connectionScore": 25,
			"avatarUrl":           "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?auto=format&fit=crop&w=200&h=200",
			"xp": 800, "level": 2, "interests": []string{"Basketball", "Sneakers", "Hip Hop"},
			"lastInteractionDate": daysAgo(25),
			"currentStatusMsg":    "Studying...",
		},
		{
			"name": "Zara", "status": "online", "category": "Close", "connectionScore": 88,
			"avatarUrl":           "https://images.unsplash.com/photo-1494790108377-be9c29b29330?auto=format&fit=crop&w=200&h=200",
			"xp": 1500, "level": 4, "interests": []string{"Art", "Museums", "Wine"},
			"lastInteractionDate": daysAgo(2),
			"currentStatusMsg":    "Art gallery walk?",
		},
		{
			"name": "Uncle Raj", "status": "offline", "category": "Important", "connectionScore": 55,
			"avatarUrl":           "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?auto=format&fit=crop&w=200&h=200",
			"xp": 200, "level": 1, "interests": []string{"Fishing", "Politics", "BBQ"},
			"lastInteractionDate": daysAgo(10),
			"currentStatusMsg":    "Walking in park",
		},
	}

	for _, friend := range friends {
		if _, err := s.store.Add(ctx, string(CollectionFriends), friend); err != nil {
			return fmt.Errorf("デモ連絡先の投入に失敗しました: %w", err)
		}
	}

	s.logger.Info("デモ連絡先を投入しました",
		slog.Int("count", len(friends)),
	)

	return nil
}

// seedRequests はrequestsコレクションが空の場合にデモリクエストを投入する。
func (s *Seeder) seedRequests(ctx context.Context) error {
	existing, err := s.store.Get(ctx, string(CollectionRequests))
	if err != nil {
		return fmt.Errorf("デモデータ投入前の確認に失敗しました: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	request := Record{
		"from": map[string]any{
			"name":      "Priya",
			"avatarUrl": "https://images.unsplash.com/photo-1517841905240-472988babdf9?auto=format&fit=crop&w=200&h=200",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    "pending",
	}

	if _, err := s.store.Add(ctx, string(CollectionRequests), request); err != nil {
		return fmt.Errorf("デモリクエストの投入に失敗しました: %w", err)
	}

	s.logger.Info("デモ友達リクエストを投入しました")

	return nil
}

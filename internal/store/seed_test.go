package store

import (
	"context"
	"log/slog"
	"strconv"
	"testing"
)

// memStore はテスト用のインメモリCollectionStore実装。
type memStore struct {
	collections map[string][]Record
	nextID      int
}

func newMemStore() *memStore {
	return &memStore{collections: make(map[string][]Record)}
}

func (m *memStore) Add(ctx context.Context, collection string, record Record) (Record, error) {
	if collection == string(CollectionFriends) && record.Name() != "" {
		for _, existing := range m.collections[collection] {
			if existing.Name() == record.Name() {
				return existing.Clone(), nil
			}
		}
	}
	stored := record.Clone()
	if stored.ID() == "" {
		m.nextID++
		stored["id"] = "mem-" + strconv.Itoa(m.nextID)
	}
	stored["createdAt"] = "2026-01-01T00:00:00Z"
	m.collections[collection] = append(m.collections[collection], stored)
	return stored.Clone(), nil
}

func (m *memStore) Get(ctx context.Context, collection string) ([]Record, error) {
	records := make([]Record, 0, len(m.collections[collection]))
	for _, r := range m.collections[collection] {
		records = append(records, r.Clone())
	}
	return records, nil
}

func (m *memStore) Update(ctx context.Context, collection, id string, partial Record) error {
	for _, r := range m.collections[collection] {
		if r.ID() == id {
			for k, v := range partial {
				r[k] = v
			}
			return nil
		}
	}
	return nil
}

func (m *memStore) Delete(ctx context.Context, collection, id string) error {
	records := m.collections[collection]
	for i, r := range records {
		if r.ID() == id {
			m.collections[collection] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return nil
}

var _ CollectionStore = (*memStore)(nil)

// 空のストアに対してデモデータが投入されることを検証
func TestSeeder_Run_SeedsEmptyStore(t *testing.T) {
	ms := newMemStore()
	seeder := NewSeeder(ms, slog.Default())

	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	friends, _ := ms.Get(context.Background(), "friends")
	if len(friends) != 6 {
		t.Errorf("expected 6 demo friends, got %d", len(friends))
	}

	requests, _ := ms.Get(context.Background(), "requests")
	if len(requests) != 1 {
		t.Errorf("expected 1 demo request, got %d", len(requests))
	}
	if requests[0]["status"] != "pending" {
		t.Errorf("demo request status = %v, want %q", requests[0]["status"], "pending")
	}
}

// 2回実行してもレコードが重複しないことを検証（冪等性）
func TestSeeder_Run_IdempotentOnSeededStore(t *testing.T) {
	ms := newMemStore()
	seeder := NewSeeder(ms, slog.Default())

	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}

	friends, _ := ms.Get(context.Background(), "friends")
	if len(friends) != 6 {
		t.Errorf("seeding should be idempotent: expected 6 friends, got %d", len(friends))
	}

	requests, _ := ms.Get(context.Background(), "requests")
	if len(requests) != 1 {
		t.Errorf("seeding should be idempotent: expected 1 request, got %d", len(requests))
	}
}

// 既にデータがあるコレクションには投入しないことを検証
func TestSeeder_Run_SkipsNonEmptyCollection(t *testing.T) {
	ms := newMemStore()
	if _, err := ms.Add(context.Background(), "friends", Record{"name": "Existing"}); err != nil {
		t.Fatal(err)
	}

	seeder := NewSeeder(ms, slog.Default())
	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	friends, _ := ms.Get(context.Background(), "friends")
	if len(friends) != 1 {
		t.Errorf("non-empty friends collection should not be seeded, got %d records", len(friends))
	}
}

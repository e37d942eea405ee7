package store

import "testing"

// 定義済みコレクションが固定の永続化キーに解決されることを検証
func TestRegistry_StorageKey_KnownCollections(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		collection string
		want       string
	}{
		{"users", "relink_users"},
		{"sessions", "relink_sessions"},
		{"friends", "relink_friends"},
		{"requests", "relink_requests"},
	}

	for _, tt := range tests {
		if got := r.StorageKey(tt.collection); got != tt.want {
			t.Errorf("StorageKey(%q) = %q, want %q", tt.collection, got, tt.want)
		}
	}
}

// 未知のコレクション名にはプレフィックスが付与されることを検証
func TestRegistry_StorageKey_UnknownCollection(t *testing.T) {
	r := NewRegistry()

	if got := r.StorageKey("circles"); got != "relink_circles" {
		t.Errorf("StorageKey(%q) = %q, want %q", "circles", got, "relink_circles")
	}
}

// nameによる重複排除がfriendsコレクションのみに適用されることを検証
func TestRegistry_DedupeByName_OnlyFriends(t *testing.T) {
	r := NewRegistry()

	if !r.DedupeByName("friends") {
		t.Error("DedupeByName(friends) should be true")
	}
	for _, name := range []string{"users", "sessions", "requests", "circles"} {
		if r.DedupeByName(name) {
			t.Errorf("DedupeByName(%q) should be false", name)
		}
	}
}

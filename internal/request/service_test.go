package request

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/relinkhq/relink/internal/model"
	"github.com/relinkhq/relink/internal/security"
	"github.com/relinkhq/relink/internal/store"
)

// fakeStore はテスト用のインメモリCollectionStore実装。
// friendsコレクションでは実装と同じくnameによる重複排除を行う。
type fakeStore struct {
	collections map[string][]store.Record
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: make(map[string][]store.Record)}
}

func (f *fakeStore) Add(ctx context.Context, collection string, record store.Record) (store.Record, error) {
	if collection == "friends" && record.Name() != "" {
		for _, existing := range f.collections[collection] {
			if existing.Name() == record.Name() {
				return existing.Clone(), nil
			}
		}
	}
	stored := record.Clone()
	if stored.ID() == "" {
		f.nextID++
		stored["id"] = "r-" + strconv.Itoa(f.nextID)
	}
	stored["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	f.collections[collection] = append(f.collections[collection], stored)
	return stored.Clone(), nil
}

func (f *fakeStore) Get(ctx context.Context, collection string) ([]store.Record, error) {
	records := make([]store.Record, 0, len(f.collections[collection]))
	for _, r := range f.collections[collection] {
		records = append(records, r.Clone())
	}
	return records, nil
}

func (f *fakeStore) Update(ctx context.Context, collection, id string, partial store.Record) error {
	for _, r := range f.collections[collection] {
		if r.ID() == id {
			for k, v := range partial {
				r[k] = v
			}
			return nil
		}
	}
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, collection, id string) error {
	records := f.collections[collection]
	for i, r := range records {
		if r.ID() == id {
			f.collections[collection] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return nil
}

var _ store.CollectionStore = (*fakeStore)(nil)

// rejectingAvatarGuard は常にURLを拒否するフェイク。
type rejectingAvatarGuard struct{}

func (g *rejectingAvatarGuard) NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client {
	return http.DefaultClient
}

func (g *rejectingAvatarGuard) ValidateURL(rawURL string) error {
	return errors.New("blocked host")
}

var _ security.AvatarGuardService = (*rejectingAvatarGuard)(nil)

// countingMetrics はMetricsの呼び出し回数を記録するフェイク。
type countingMetrics struct {
	accepted int
	declined int
}

func (m *countingMetrics) IncRequestsAccepted() { m.accepted++ }
func (m *countingMetrics) IncRequestsDeclined() { m.declined++ }

// addPendingRequest はテスト用の保留中リクエストをストアに投入する。
func addPendingRequest(t *testing.T, fs *fakeStore, name string) string {
	t.Helper()
	added, err := fs.Add(context.Background(), "requests", store.Record{
		"from": map[string]any{
			"name":      name,
			"avatarUrl": "https://example.com/" + name + ".jpg",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    "pending",
	})
	if err != nil {
		t.Fatal(err)
	}
	return added.ID()
}

// Listが全リクエストを返すことを検証
func TestList_ReturnsRequests(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, nil, nil)

	addPendingRequest(t, fs, "Priya")

	requests, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	if requests[0].From.Name != "Priya" {
		t.Errorf("From.Name = %q, want %q", requests[0].From.Name, "Priya")
	}
	if requests[0].Status != model.RequestPending {
		t.Errorf("Status = %q, want %q", requests[0].Status, model.RequestPending)
	}
}

// Acceptが送信者を友人に追加し、リクエストを削除することを検証
func TestAccept_AddsFriendAndDeletesRequest(t *testing.T) {
	fs := newFakeStore()
	metrics := &countingMetrics{}
	svc := NewService(fs, nil, metrics)

	id := addPendingRequest(t, fs, "Priya")

	contact, err := svc.Accept(context.Background(), id)
	if err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}

	// 新しい友人の初期値
	if contact.Name != "Priya" {
		t.Errorf("Name = %q, want %q", contact.Name, "Priya")
	}
	if contact.Category != model.CategoryCasual {
		t.Errorf("Category = %q, want %q", contact.Category, model.CategoryCasual)
	}
	if contact.ConnectionScore != 50 {
		t.Errorf("ConnectionScore = %d, want 50", contact.ConnectionScore)
	}
	if contact.Status != model.PresenceOnline {
		t.Errorf("Status = %q, want %q", contact.Status, model.PresenceOnline)
	}
	if len(contact.Interests) != 1 || contact.Interests[0] != "New Friend" {
		t.Errorf("Interests = %v, want [New Friend]", contact.Interests)
	}
	if contact.CurrentStatusMsg != "Connected!" {
		t.Errorf("CurrentStatusMsg = %q, want %q", contact.CurrentStatusMsg, "Connected!")
	}
	if contact.LastInteractionDate == "" {
		t.Error("lastInteractionDate should be set to now")
	}

	// リクエストは削除済み
	requests, _ := fs.Get(context.Background(), "requests")
	if len(requests) != 0 {
		t.Errorf("request should be deleted, %d remain", len(requests))
	}
	friends, _ := fs.Get(context.Background(), "friends")
	if len(friends) != 1 {
		t.Errorf("expected 1 friend, got %d", len(friends))
	}
	if metrics.accepted != 1 {
		t.Errorf("accepted counter = %d, want 1", metrics.accepted)
	}
}

// 既存の友人と同名のリクエスト承認が重複レコードを作らないことを検証
func TestAccept_DedupesExistingFriend(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, nil, nil)

	if _, err := fs.Add(context.Background(), "friends", store.Record{
		"name": "Priya", "category": "Close", "connectionScore": 80,
	}); err != nil {
		t.Fatal(err)
	}
	id := addPendingRequest(t, fs, "Priya")

	contact, err := svc.Accept(context.Background(), id)
	if err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}

	// 既存レコードが返り、上書きされない
	if contact.Category != model.CategoryClose {
		t.Errorf("existing friend should be preserved, Category = %q", contact.Category)
	}
	friends, _ := fs.Get(context.Background(), "friends")
	if len(friends) != 1 {
		t.Errorf("expected 1 friend after dedupe, got %d", len(friends))
	}
	requests, _ := fs.Get(context.Background(), "requests")
	if len(requests) != 0 {
		t.Error("request should still be deleted")
	}
}

// 検証を通らない送信者アバターURLが空に落とされ、承認自体は成功することを検証
func TestAccept_DropsRejectedAvatarURL(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, &rejectingAvatarGuard{}, nil)

	id := addPendingRequest(t, fs, "Priya")

	contact, err := svc.Accept(context.Background(), id)
	if err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if contact.AvatarURL != "" {
		t.Errorf("AvatarURL = %q, want empty after rejection", contact.AvatarURL)
	}
	requests, _ := fs.Get(context.Background(), "requests")
	if len(requests) != 0 {
		t.Error("request should still be deleted after avatar rejection")
	}
}

// Acceptが存在しないIDにREQUEST_NOT_FOUNDを返すことを検証
func TestAccept_NotFound(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, nil, nil)

	_, err := svc.Accept(context.Background(), "no-such-request")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.ErrCodeRequestNotFound {
		t.Errorf("expected REQUEST_NOT_FOUND, got %v", err)
	}
}

// Declineがリクエストを削除し、友人を追加しないことを検証
func TestDecline_DeletesRequestOnly(t *testing.T) {
	fs := newFakeStore()
	metrics := &countingMetrics{}
	svc := NewService(fs, nil, metrics)

	id := addPendingRequest(t, fs, "Priya")

	if err := svc.Decline(context.Background(), id); err != nil {
		t.Fatalf("Decline returned error: %v", err)
	}

	requests, _ := fs.Get(context.Background(), "requests")
	if len(requests) != 0 {
		t.Errorf("request should be deleted, %d remain", len(requests))
	}
	friends, _ := fs.Get(context.Background(), "friends")
	if len(friends) != 0 {
		t.Errorf("decline should not add friends, got %d", len(friends))
	}
	if metrics.declined != 1 {
		t.Errorf("declined counter = %d, want 1", metrics.declined)
	}
}

// Declineが存在しないIDにREQUEST_NOT_FOUNDを返すことを検証
func TestDecline_NotFound(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, nil, nil)

	err := svc.Decline(context.Background(), "no-such-request")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.ErrCodeRequestNotFound {
		t.Errorf("expected REQUEST_NOT_FOUND, got %v", err)
	}
}

// Package session はサインインセッションとプロフィールの管理を提供する。
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/relinkhq/relink/internal/model"
	"github.com/relinkhq/relink/internal/security"
	"github.com/relinkhq/relink/internal/store"
)

// defaultAvatarURL は新規ユーザーに割り当てる初期アバター。
const defaultAvatarURL = "https://images.unsplash.com/photo-1539571696357-5a69c17a67c6?auto=format&fit=crop&w=200&h=200"

// xpPerLevel はレベルアップに必要なXPの係数。
// 現在のレベル×500を超えたXPでレベルが1上がる。
const xpPerLevel = 500

// ServiceConfig はセッションサービスの設定。
type ServiceConfig struct {
	SessionMaxAge int           // セッション有効期間（秒）
	SignInDelay   time.Duration // サインイン時の擬似レイテンシ

	// AvatarFetchTimeoutが0より大きい場合、プロフィール更新時に
	// アバターURLへの事前取得プローブを行う。取得失敗はログのみ。
	AvatarFetchTimeout time.Duration
	AvatarMaxSize      int64
}

// ProfileUpdate はプロフィールの部分更新を表す。
// nilのフィールドは変更しない。
type ProfileUpdate struct {
	Name               *string
	AvatarURL          *string
	Interests          []string
	ConnectionStyle    *model.ConnectionVibe
	OnboardingComplete *bool
	CurrentStatusMsg   *string
}

// Service はサインイン、サインアウト、プロフィール更新のビジネスロジックを提供する。
type Service struct {
	store     store.CollectionStore
	sanitizer security.ContentSanitizerService
	avatars   security.AvatarGuardService
	config    ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	st store.CollectionStore,
	sanitizer security.ContentSanitizerService,
	avatars security.AvatarGuardService,
	config ServiceConfig,
) *Service {
	return &Service{
		store:     st,
		sanitizer: sanitizer,
		avatars:   avatars,
		config:    config,
	}
}

// SignIn はメールアドレスでサインインし、セッションを発行する。
// 未登録のメールアドレスの場合はオンボーディング未完了の新規ユーザーを作成する。
// 設定された擬似レイテンシ分だけ待機する（コンテキストのキャンセルで中断可能）。
func (s *Service) SignIn(ctx context.Context, email string) (*model.User, *model.Session, error) {
	if email == "" {
		return nil, nil, fmt.Errorf("email is required")
	}

	// 1. 擬似レイテンシ（実APIの応答時間の再現）
	if s.config.SignInDelay > 0 {
		timer := time.NewTimer(s.config.SignInDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}

	// 2. 既存ユーザーの検索
	user, err := s.findUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}

	if user == nil {
		// 3. 新規ユーザーの作成（オンボーディング未完了の状態で開始）
		fresh := &model.User{
			Email:     email,
			Name:      "You",
			AvatarURL: defaultAvatarURL,
			XP:        0,
			Level:     1,
			UpdatedAt: time.Now().UTC(),
		}
		record, err := store.Encode(fresh)
		if err != nil {
			return nil, nil, fmt.Errorf("ユーザーのエンコードに失敗しました: %w", err)
		}
		added, err := s.store.Add(ctx, string(store.CollectionUsers), record)
		if err != nil {
			return nil, nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
		}
		user = &model.User{}
		if err := store.Decode(added, user); err != nil {
			return nil, nil, fmt.Errorf("ユーザーのデコードに失敗しました: %w", err)
		}
		slog.Info("new user created",
			slog.String("user_id", user.ID),
			slog.String("email", email),
		)
	} else {
		slog.Info("existing user signed in",
			slog.String("user_id", user.ID),
		)
	}

	// 4. セッションの発行
	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	return user, session, nil
}

// SignOut はセッションを破棄する。
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.store.Delete(ctx, string(store.CollectionSessions), sessionID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	slog.Info("user signed out", slog.String("session_id", sessionID))
	return nil
}

// FindSession はセッションIDから有効なセッションを取得する。
// 見つからない場合や期限切れの場合は (nil, nil) を返す。
func (s *Service) FindSession(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, nil
	}

	records, err := s.store.Get(ctx, string(store.CollectionSessions))
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}

	for _, record := range records {
		if record.ID() != sessionID {
			continue
		}
		var session model.Session
		if err := store.Decode(record, &session); err != nil {
			return nil, fmt.Errorf("セッションのデコードに失敗しました: %w", err)
		}
		if session.Expired(time.Now()) {
			return nil, nil
		}
		return &session, nil
	}

	return nil, nil
}

// CurrentUser はセッションから現在のユーザーを取得する。
// セッションが無効な場合はNOT_SIGNED_INエラーを返す。
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	session, err := s.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, model.NewNotSignedInError()
	}

	user, err := s.findUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewNotSignedInError()
	}

	return user, nil
}

// UpdateProfile はユーザーのプロフィールを部分更新する。
// 名前とステータスメッセージはサニタイズされ、
// アバターURLはSSRF防止の検証を通過したもののみ保存される。
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*model.User, error) {
	partial := store.Record{}

	if update.Name != nil {
		partial["name"] = s.sanitizer.SanitizeText(*update.Name)
	}
	if update.AvatarURL != nil {
		if err := s.avatars.ValidateURL(*update.AvatarURL); err != nil {
			return nil, model.NewInvalidAvatarURLError(err.Error())
		}
		s.probeAvatarURL(ctx, userID, *update.AvatarURL)
		partial["avatarUrl"] = *update.AvatarURL
	}
	if update.Interests != nil {
		interests := make([]string, 0, len(update.Interests))
		for _, interest := range update.Interests {
			if cleaned := s.sanitizer.SanitizeText(interest); cleaned != "" {
				interests = append(interests, cleaned)
			}
		}
		partial["interests"] = interests
	}
	if update.ConnectionStyle != nil {
		partial["connectionStyle"] = string(*update.ConnectionStyle)
	}
	if update.OnboardingComplete != nil {
		partial["onboardingComplete"] = *update.OnboardingComplete
	}
	if update.CurrentStatusMsg != nil {
		partial["currentStatusMsg"] = s.sanitizer.SanitizeText(*update.CurrentStatusMsg)
	}

	if len(partial) == 0 {
		return s.requireUser(ctx, userID)
	}

	partial["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	if err := s.store.Update(ctx, string(store.CollectionUsers), userID, partial); err != nil {
		return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}

	return s.requireUser(ctx, userID)
}

// UpdateStatus はステータスメッセージのみを更新する。
func (s *Service) UpdateStatus(ctx context.Context, userID string, status string) (*model.User, error) {
	return s.UpdateProfile(ctx, userID, ProfileUpdate{CurrentStatusMsg: &status})
}

// AwardXP はユーザーにXPを加算する。
// 加算後のXPが現在のレベル×500を超えた場合、レベルが1上がる。
func (s *Service) AwardXP(ctx context.Context, userID string, amount int) (*model.User, error) {
	if amount < 0 {
		return nil, fmt.Errorf("XP amount must be non-negative: %d", amount)
	}

	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.XP += amount
	if user.XP > user.Level*xpPerLevel {
		user.Level++
		slog.Info("user leveled up",
			slog.String("user_id", userID),
			slog.Int("level", user.Level),
		)
	}

	partial := store.Record{
		"xp":        user.XP,
		"level":     user.Level,
		"updatedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.Update(ctx, string(store.CollectionUsers), userID, partial); err != nil {
		return nil, fmt.Errorf("XPの更新に失敗しました: %w", err)
	}

	return user, nil
}

// probeAvatarURL はアバターURLにサイズ制限付きの事前取得を行う。
// DNS再バインディング対策のためSSRF防止クライアントを使用する。
// 取得の失敗は警告ログのみで、プロフィール更新は継続する。
func (s *Service) probeAvatarURL(ctx context.Context, userID, avatarURL string) {
	if s.config.AvatarFetchTimeout <= 0 {
		return
	}

	client := s.avatars.NewSafeClient(s.config.AvatarFetchTimeout, s.config.AvatarMaxSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		slog.Warn("avatar probe request build failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("avatar probe fetch failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		slog.Warn("avatar probe returned error status",
			slog.String("user_id", userID),
			slog.Int("status", resp.StatusCode),
		)
	}
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	record, err := store.Encode(session)
	if err != nil {
		return nil, fmt.Errorf("セッションのエンコードに失敗しました: %w", err)
	}
	if _, err := s.store.Add(ctx, string(store.CollectionSessions), record); err != nil {
		return nil, fmt.Errorf("セッションの保存に失敗しました: %w", err)
	}

	return session, nil
}

// requireUser はユーザーを取得し、存在しない場合はNOT_SIGNED_INエラーを返す。
func (s *Service) requireUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.findUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewNotSignedInError()
	}
	return user, nil
}

// findUserByID はIDでユーザーを検索する。見つからない場合は (nil, nil) を返す。
func (s *Service) findUserByID(ctx context.Context, userID string) (*model.User, error) {
	records, err := s.store.Get(ctx, string(store.CollectionUsers))
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.ID() == userID {
			var user model.User
			if err := store.Decode(record, &user); err != nil {
				return nil, err
			}
			return &user, nil
		}
	}
	return nil, nil
}

// findUserByEmail はメールアドレスでユーザーを検索する。見つからない場合は (nil, nil) を返す。
func (s *Service) findUserByEmail(ctx context.Context, email string) (*model.User, error) {
	records, err := s.store.Get(ctx, string(store.CollectionUsers))
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if value, _ := record["email"].(string); value == email {
			var user model.User
			if err := store.Decode(record, &user); err != nil {
				return nil, err
			}
			return &user, nil
		}
	}
	return nil, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

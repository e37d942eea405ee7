package scoring

import (
	"strings"
	"testing"

	"github.com/relinkhq/relink/internal/model"
)

// firstInterest は常に先頭の興味を選ぶ決定的なピッカー。
func firstInterest(n int) int { return 0 }

// 低スコアの連絡先には再接続の提案が返ることを検証
func TestSmartSuggestion_LowScore_Reconnect(t *testing.T) {
	c := contactWithRatings(model.CategoryCasual, 60, []int{2})
	c.Interests = []string{"Cricket"}

	got := SmartSuggestion(c, testNow, firstInterest)
	if got.Topic != "Reconnect" {
		t.Errorf("Topic = %q, want %q", got.Topic, "Reconnect")
	}
	if got.Icon != "👋" {
		t.Errorf("Icon = %q, want 👋", got.Icon)
	}
	if !strings.Contains(got.Prompt, "Cricket") {
		t.Errorf("Prompt should mention the interest, got %q", got.Prompt)
	}
}

// 興味が未設定の低スコア連絡先には汎用プロンプトが返ることを検証
func TestSmartSuggestion_LowScore_NoInterests(t *testing.T) {
	c := contactWithRatings(model.CategoryCasual, 60, []int{2})

	got := SmartSuggestion(c, testNow, firstInterest)
	if got.Prompt != "It's been a while. Ask how life is going." {
		t.Errorf("Prompt = %q", got.Prompt)
	}
}

// Closeカテゴリで興味があれば深掘り提案になることを検証
func TestSmartSuggestion_Close_DeepDive(t *testing.T) {
	c := contactWithRatings(model.CategoryClose, 1, []int{5, 5})
	c.Interests = []string{"Photography", "Jazz"}

	got := SmartSuggestion(c, testNow, firstInterest)
	if got.Topic != "Deep Dive: Photography" {
		t.Errorf("Topic = %q, want %q", got.Topic, "Deep Dive: Photography")
	}
	if got.Icon != "🧠" {
		t.Errorf("Icon = %q, want 🧠", got.Icon)
	}
}

// Closeカテゴリで興味が無ければ感情チェックインになることを検証
func TestSmartSuggestion_Close_EmotionalCheckin(t *testing.T) {
	c := contactWithRatings(model.CategoryClose, 1, []int{5, 5})

	got := SmartSuggestion(c, testNow, firstInterest)
	if got.Topic != "Emotional Check-in" {
		t.Errorf("Topic = %q, want %q", got.Topic, "Emotional Check-in")
	}
	if got.Icon != "❤️" {
		t.Errorf("Icon = %q, want ❤️", got.Icon)
	}
}

// それ以外のカテゴリには軽いキャッチアップ提案が返ることを検証
func TestSmartSuggestion_Default_CatchUp(t *testing.T) {
	c := contactWithRatings(model.CategoryImportant, 1, []int{4, 4})
	c.Interests = []string{"Gaming"}

	got := SmartSuggestion(c, testNow, firstInterest)
	if got.Topic != "Catch Up" {
		t.Errorf("Topic = %q, want %q", got.Topic, "Catch Up")
	}
	if got.Icon != "⚡" {
		t.Errorf("Icon = %q, want ⚡", got.Icon)
	}
	if !strings.Contains(got.Prompt, "Gaming") {
		t.Errorf("Prompt should mention the interest, got %q", got.Prompt)
	}
}

// ピッカー未指定（nil）でもパニックせず提案が返ることを検証
func TestSmartSuggestion_NilPicker(t *testing.T) {
	c := contactWithRatings(model.CategoryCasual, 1, []int{4})
	c.Interests = []string{"A", "B", "C"}

	got := SmartSuggestion(c, testNow, nil)
	if got.Topic == "" || got.Prompt == "" || got.Icon == "" {
		t.Errorf("suggestion should be fully populated, got %+v", got)
	}
}

package scoring

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/relinkhq/relink/internal/model"
)

// Suggestion は次の会話のきっかけを表す。
type Suggestion struct {
	Topic  string `json:"topic"`
	Prompt string `json:"prompt"`
	Icon   string `json:"icon"`
}

// InterestPicker はn個の興味からひとつ選ぶインデックスを返す。
// テストで決定的な選択を注入するための型。
type InterestPicker func(n int) int

// SmartSuggestion は連絡先の現在スコアとカテゴリから会話の提案を生成する。
//
// 優先順位:
//  1. スコアが40未満 → 再接続の促し
//  2. Closeカテゴリ → 深掘りまたは感情チェックイン
//  3. それ以外 → 軽いキャッチアップ
//
// pickがnilの場合はmath/randで興味を選ぶ。
func SmartSuggestion(c *model.Contact, now time.Time, pick InterestPicker) Suggestion {
	if pick == nil {
		pick = rand.Intn
	}

	var randomInterest string
	if len(c.Interests) > 0 {
		randomInterest = c.Interests[pick(len(c.Interests))]
	}

	score := ConnectionScore(c, now)

	if score < 40 {
		prompt := "It's been a while. Ask how life is going."
		if randomInterest != "" {
			prompt = fmt.Sprintf("It's been a while. Ask how their %s is going.", randomInterest)
		}
		return Suggestion{Topic: "Reconnect", Prompt: prompt, Icon: "👋"}
	}

	if c.Category == model.CategoryClose {
		if randomInterest != "" {
			return Suggestion{
				Topic:  fmt.Sprintf("Deep Dive: %s", randomInterest),
				Prompt: fmt.Sprintf("Ask what excites them most about %s right now.", randomInterest),
				Icon:   "🧠",
			}
		}
		return Suggestion{
			Topic:  "Emotional Check-in",
			Prompt: "Ask: 'What's been weighing on your mind lately?'",
			Icon:   "❤️",
		}
	}

	subject := "something funny"
	if randomInterest != "" {
		subject = randomInterest
	}
	return Suggestion{
		Topic:  "Catch Up",
		Prompt: fmt.Sprintf("Send a meme about %s or call for 5 mins.", subject),
		Icon:   "⚡",
	}
}

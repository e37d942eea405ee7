// Package scoring はつながりスコアの計算と会話提案の生成を提供する。
//
// すべて純粋関数であり、永続化層には依存しない。スコアは常に
// インタラクション履歴とカテゴリから導出され、保存された値は
// 信頼できるソースとして扱わない。
package scoring

import (
	"math"
	"time"

	"github.com/relinkhq/relink/internal/model"
)

// baselineScore は一度もインタラクションがない連絡先の固定スコア。
const baselineScore = 10

// ConnectionScore はつながりスコア（0-100の整数）を計算する。
//
// 内訳:
//   - 直近性（最大50）: 50 - 経過日数×1.5。ただし経過3日未満は減衰させず50に固定する。
//   - 深さ（最大30）: 直近5件の評価（1-5）の平均を30点満点に換算。
//   - 履歴ボーナス（最大20）: 直近5件の件数×4。
//
// カテゴリがFadingの場合は合算後に0.8倍のペナルティを適用する。
// 最後に[0, 100]へクランプし、小数点以下を切り捨てる。
func ConnectionScore(c *model.Contact, now time.Time) int {
	last, ok := c.LastInteractionTime()
	if !ok {
		return baselineScore
	}

	daysSince := int(math.Floor(now.Sub(last).Hours() / 24))

	recency := math.Max(0, 50-float64(daysSince)*1.5)
	if daysSince < 3 {
		// ごく最近の接触には線形減衰を適用しない（意図的なフロア）
		recency = 50
	}

	recent := c.RecentInteractions()
	depthAvg := 0.0
	if len(recent) > 0 {
		sum := 0
		for _, interaction := range recent {
			sum += interaction.Rating
		}
		depthAvg = float64(sum) / float64(len(recent))
	}
	depth := (depthAvg / 5) * 30

	historyBonus := math.Min(20, float64(len(recent))*4)

	total := recency + depth + historyBonus

	if c.Category == model.CategoryFading {
		total = total * 0.8
	}

	score := int(math.Floor(total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// ScoreColor はスコア帯に対応する表示トークンを返す。
// 境界値は80、50、30。
func ScoreColor(score int) string {
	switch {
	case score >= 80:
		return "neon"
	case score >= 50:
		return "cyan"
	case score >= 30:
		return "amber"
	default:
		return "rose"
	}
}

// CategoryColor は関係カテゴリに対応する表示トークンを返す。
func CategoryColor(category model.RelationshipCategory) string {
	switch category {
	case model.CategoryClose:
		return "violet"
	case model.CategoryImportant:
		return "lime"
	case model.CategoryCasual:
		return "cyan"
	case model.CategoryFading:
		return "slate"
	default:
		return "neutral"
	}
}

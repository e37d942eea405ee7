// Package refresh はつながりスコアキャッシュの定期更新ジョブを提供する。
// 読み出し時には常にスコアが再計算されるため、永続化された値は
// 一覧表示のソートなどに使われるキャッシュにすぎない。このジョブは
// そのキャッシュを定期的に実際の値へ追従させる。
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/relinkhq/relink/internal/model"
	"github.com/relinkhq/relink/internal/scoring"
	"github.com/relinkhq/relink/internal/store"
)

// Metrics はジョブが発行するカウンタのインターフェース。
type Metrics interface {
	IncScoresRecomputed()
}

// RefreshJob は全連絡先のつながりスコアを再計算し、
// 保存値と異なる場合のみ更新するバッチジョブ。冪等に実行できる。
type RefreshJob struct {
	store   store.CollectionStore
	logger  *slog.Logger
	metrics Metrics // nil可
}

// NewRefreshJob はRefreshJobを生成する。metricsはnilを許容する。
func NewRefreshJob(st store.CollectionStore, logger *slog.Logger, metrics Metrics) *RefreshJob {
	return &RefreshJob{
		store:   st,
		logger:  logger,
		metrics: metrics,
	}
}

// Run は全連絡先のスコアを再計算し、キャッシュとの差分を永続化する。
// 更新対象がない場合でもエラーにならない。
func (j *RefreshJob) Run(ctx context.Context) error {
	start := time.Now()

	records, err := j.store.Get(ctx, string(store.CollectionFriends))
	if err != nil {
		j.logger.Error("スコア更新ジョブの連絡先取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("連絡先の取得に失敗: %w", err)
	}

	now := time.Now()
	updated := 0
	for _, record := range records {
		var contact model.Contact
		if err := store.Decode(record, &contact); err != nil {
			j.logger.Error("連絡先のデコードに失敗しました",
				slog.String("contact_id", record.ID()),
				slog.String("error", err.Error()),
			)
			continue
		}

		score := scoring.ConnectionScore(&contact, now)
		if j.metrics != nil {
			j.metrics.IncScoresRecomputed()
		}
		if score == contact.ConnectionScore {
			continue
		}

		partial := store.Record{"connectionScore": score}
		if err := j.store.Update(ctx, string(store.CollectionFriends), contact.ID, partial); err != nil {
			j.logger.Error("スコアキャッシュの更新に失敗しました",
				slog.String("contact_id", contact.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		updated++
	}

	duration := time.Since(start)
	j.logger.Info("スコア更新ジョブが完了しました",
		slog.Int("total_count", len(records)),
		slog.Int("updated_count", updated),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Start は指定間隔のティッカーでジョブを繰り返し実行する。
// 起動直後に1回実行し、コンテキストがキャンセルされるまで継続する。
func (j *RefreshJob) Start(ctx context.Context, interval time.Duration) {
	j.logger.Info("スコア更新ジョブを開始しました",
		slog.Duration("interval", interval),
	)

	if err := j.Run(ctx); err != nil {
		j.logger.Error("score refresh failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("score refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/relinkhq/relink/internal/model"
)

// PostgresStore はPostgreSQLのJSONB列を使用したコレクションストア。
// 全操作はレコード単位の全件書き込み（last-write-wins）であり、
// 部分書き込みの復旧は提供しない。
type PostgresStore struct {
	db       *sql.DB
	registry *Registry
	observer LatencyObserver // nil可
}

// NewPostgresStore はPostgresStoreを生成する。
// observerはnilを許容する（レイテンシ計測なし）。
func NewPostgresStore(db *sql.DB, registry *Registry, observer LatencyObserver) *PostgresStore {
	return &PostgresStore{
		db:       db,
		registry: registry,
		observer: observer,
	}
}

// Add はレコードを挿入し、作成日時を付与して返す。
// idが未設定の場合はUUIDを生成して割り当てる（セッションのように
// 呼び出し側がIDを管理するコレクションでは既存のidを尊重する）。
// friendsコレクションでは同名レコードが既に存在する場合、
// 挿入せず既存レコードを返す（名前をキーとした冪等性保証）。
func (s *PostgresStore) Add(ctx context.Context, collection string, record Record) (Record, error) {
	defer s.observe("add", time.Now())

	key := s.registry.StorageKey(collection)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, model.NewStorageUnavailableError(err)
	}
	defer tx.Rollback()

	// 名前による重複チェック（friendsのみ）
	if s.registry.DedupeByName(collection) && record.Name() != "" {
		var raw []byte
		err := tx.QueryRowContext(ctx,
			`SELECT record FROM collection_records
			 WHERE storage_key = $1 AND record ->> 'name' = $2
			 ORDER BY seq LIMIT 1`,
			key, record.Name(),
		).Scan(&raw)
		if err != nil && err != sql.ErrNoRows {
			return nil, model.NewStorageUnavailableError(err)
		}
		if err == nil {
			existing, decodeErr := unmarshalRecord(raw)
			if decodeErr != nil {
				return nil, decodeErr
			}
			return existing, nil
		}
	}

	stored := record.Clone()
	if stored.ID() == "" {
		stored["id"] = uuid.New().String()
	}
	stored["createdAt"] = time.Now().UTC().Format(time.RFC3339)

	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO collection_records (storage_key, id, record)
		 VALUES ($1, $2, $3)`,
		key, stored.ID(), raw,
	)
	if err != nil {
		return nil, model.NewStorageUnavailableError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, model.NewStorageUnavailableError(err)
	}

	return stored, nil
}

// Get はコレクションの全レコードを挿入順のスナップショットとして返す。
func (s *PostgresStore) Get(ctx context.Context, collection string) ([]Record, error) {
	defer s.observe("get", time.Now())

	key := s.registry.StorageKey(collection)

	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM collection_records
		 WHERE storage_key = $1
		 ORDER BY seq`,
		key,
	)
	if err != nil {
		return nil, model.NewStorageUnavailableError(err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, model.NewStorageUnavailableError(err)
		}
		record, decodeErr := unmarshalRecord(raw)
		if decodeErr != nil {
			return nil, decodeErr
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorageUnavailableError(err)
	}

	return records, nil
}

// Update は指定IDのレコードにpartialのフィールドをトップレベルでマージする。
// JSONBの連結演算子による原子的な部分更新。IDが存在しない場合は何もしない。
func (s *PostgresStore) Update(ctx context.Context, collection string, id string, partial Record) error {
	defer s.observe("update", time.Now())

	if len(partial) == 0 {
		return nil
	}

	key := s.registry.StorageKey(collection)

	raw, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("failed to marshal partial record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE collection_records
		 SET record = record || $3::jsonb
		 WHERE storage_key = $1 AND id = $2`,
		key, id, raw,
	)
	if err != nil {
		return model.NewStorageUnavailableError(err)
	}

	return nil
}

// Delete は指定IDのレコードを削除する。IDが存在しない場合は何もしない。
func (s *PostgresStore) Delete(ctx context.Context, collection string, id string) error {
	defer s.observe("delete", time.Now())

	key := s.registry.StorageKey(collection)

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM collection_records
		 WHERE storage_key = $1 AND id = $2`,
		key, id,
	)
	if err != nil {
		return model.NewStorageUnavailableError(err)
	}

	return nil
}

// observe はストア操作のレイテンシを記録する。
func (s *PostgresStore) observe(operation string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveStoreLatency(operation, time.Since(start).Seconds())
	}
}

// unmarshalRecord はJSONBバイト列をRecordにデコードする。
func unmarshalRecord(raw []byte) (Record, error) {
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored record: %w", err)
	}
	return record, nil
}

// compile-time interface check
var _ CollectionStore = (*PostgresStore)(nil)

// Package store は名前付きコレクションに対する汎用的な永続化層を提供する。
//
// コレクションはスキーマレスなレコード（文字列キー→値のマッピング）の
// 挿入順リストとして扱われ、PostgreSQLのJSONB列に永続化される。
// 呼び出し側が受け取るレコードは常にスナップショットのコピーであり、
// ストア内部の表現への参照は渡されない。
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Record はコレクションに格納される1件のスキーマレスなレコードを表す。
// フィールド "id" と "createdAt" はAdd時にストアが付与する。
type Record map[string]any

// ID はレコードのid フィールドを返す。未設定の場合は空文字を返す。
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Name はレコードのnameフィールドを返す。未設定の場合は空文字を返す。
func (r Record) Name() string {
	name, _ := r["name"].(string)
	return name
}

// Clone はレコードのディープコピーを返す。
// JSONラウンドトリップによるコピーのため、JSON化できない値は保持されない。
func (r Record) Clone() Record {
	data, err := json.Marshal(r)
	if err != nil {
		// Recordは常にJSON化可能な値のみを保持する契約
		return Record{}
	}
	var out Record
	if err := json.Unmarshal(data, &out); err != nil {
		return Record{}
	}
	return out
}

// Decode はレコードを任意の構造体にデコードする。
// 欠落フィールドはエラーにせずゼロ値のまま残す（スキーマ移行を持たないための防御）。
func Decode(r Record, v any) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}

// Encode は任意の構造体をレコードに変換する。
func Encode(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return r, nil
}

// CollectionStore は名前付きコレクションへのCRUD操作のインターフェース。
type CollectionStore interface {
	// Add はレコードを新規IDで挿入し、作成日時を付与して返す。
	// 名前の一意性を要求するコレクション（friends）では、同名レコードが
	// 既に存在する場合は挿入せず既存レコードをそのまま返す（冪等）。
	Add(ctx context.Context, collection string, record Record) (Record, error)

	// Get はコレクションの全レコードを挿入順のスナップショットとして返す。
	Get(ctx context.Context, collection string) ([]Record, error)

	// Update は指定IDのレコードにpartialのフィールドをマージする。
	// IDが存在しない場合はエラーにせず何もしない。
	Update(ctx context.Context, collection string, id string, partial Record) error

	// Delete は指定IDのレコードを削除する。IDが存在しない場合は何もしない。
	Delete(ctx context.Context, collection string, id string) error
}

// LatencyObserver はストア操作のレイテンシ計測のインターフェース。
// metricsパッケージのCollectorが実装する。
type LatencyObserver interface {
	ObserveStoreLatency(operation string, seconds float64)
}

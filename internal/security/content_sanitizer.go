// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はユーザー入力のテキスト（ステータスメッセージや
// 通話メモ）をサニタイズし、XSS攻撃などのセキュリティリスクからユーザーを
// 保護する。bluemondayライブラリの許可リストベースのポリシーを使用する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はテキストのサニタイズ機能のインターフェースを定義する。
// プロフィール更新時とインタラクション記録時に使用される。
type ContentSanitizerService interface {
	// SanitizeText はユーザー入力をプレーンテキストとしてサニタイズする。
	// すべてのHTMLタグを除去し、前後の空白をトリムする。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeText(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// ステータスメッセージと通話メモはリッチテキストを必要としないため、
// タグを一切許可しないStrictPolicyを使用する。
// script, iframe, styleタグおよびon*イベント属性はすべて除去される。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText はユーザー入力をプレーンテキストとしてサニタイズする。
func (s *contentSanitizer) SanitizeText(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

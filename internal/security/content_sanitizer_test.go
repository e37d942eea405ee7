package security

import (
	"strings"
	"testing"
)

// TestSanitizeText_PlainTextPassesThrough はプレーンテキストがそのまま通過することを検証する。
func TestSanitizeText_PlainTextPassesThrough(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []string{
		"Grinding Elden Ring 🎮",
		"On a mission to reconnect",
		"最高の一週間だった",
	}
	for _, input := range tests {
		if got := sanitizer.SanitizeText(input); got != input {
			t.Errorf("SanitizeText(%q) = %q, want unchanged", input, got)
		}
	}
}

// TestSanitizeText_StripsAllTags はすべてのHTMLタグが除去されることを検証する。
func TestSanitizeText_StripsAllTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name       string
		input      string
		wantAbsent []string
	}{
		{
			name:       "scriptタグが除去される",
			input:      `hello <script>alert('xss')</script> world`,
			wantAbsent: []string{"<script", "alert"},
		},
		{
			name:       "imgタグのonerror属性が除去される",
			input:      `<img src="x" onerror="alert(1)">status`,
			wantAbsent: []string{"<img", "onerror"},
		},
		{
			name:       "単純な装飾タグも除去される",
			input:      "<strong>great</strong> call",
			wantAbsent: []string{"<strong>", "</strong>"},
		},
		{
			name:       "iframeタグが除去される",
			input:      `notes <iframe src="https://evil.example"></iframe>`,
			wantAbsent: []string{"<iframe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.SanitizeText(tt.input)
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("SanitizeText(%q) = %q, should not contain %q", tt.input, got, absent)
				}
			}
		})
	}
}

// TestSanitizeText_TrimsWhitespace は前後の空白がトリムされることを検証する。
func TestSanitizeText_TrimsWhitespace(t *testing.T) {
	sanitizer := NewContentSanitizer()

	if got := sanitizer.SanitizeText("  spaced out  "); got != "spaced out" {
		t.Errorf("SanitizeText = %q, want %q", got, "spaced out")
	}
}

// TestSanitizeText_EmptyInput は空文字列に空文字列を返すことを検証する。
func TestSanitizeText_EmptyInput(t *testing.T) {
	sanitizer := NewContentSanitizer()

	if got := sanitizer.SanitizeText(""); got != "" {
		t.Errorf("SanitizeText(\"\") = %q, want empty", got)
	}
}

// TestSanitizeText_Idempotent は同一入力に対して常に同一出力を返すことを検証する。
func TestSanitizeText_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	input := `<b>bold</b> status & more`
	first := sanitizer.SanitizeText(input)
	second := sanitizer.SanitizeText(first)
	if first != second {
		t.Errorf("sanitization is not idempotent: first=%q second=%q", first, second)
	}
}

package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{
			name:       "short text stays whole",
			text:       "hello world",
			chunkSize:  100,
			overlap:    10,
			wantChunks: 1,
		},
		{
			name:       "exact boundary stays whole",
			text:       strings.Repeat("a", 100),
			chunkSize:  100,
			overlap:    10,
			wantChunks: 1,
		},
		{
			name:       "long text splits with overlap",
			text:       strings.Repeat("a", 250),
			chunkSize:  100,
			overlap:    20,
			wantChunks: 3,
		},
		{
			name:       "overlap larger than chunk falls back to plain steps",
			text:       strings.Repeat("a", 200),
			chunkSize:  50,
			overlap:    60,
			wantChunks: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)
			if len(chunks) != tt.wantChunks {
				t.Errorf("got %d chunks, want %d", len(chunks), tt.wantChunks)
			}
			for i, chunk := range chunks {
				if len([]rune(chunk)) > tt.chunkSize {
					t.Errorf("chunk %d exceeds size limit: %d runes", i, len([]rune(chunk)))
				}
			}
		})
	}
}

func TestSplitTextPreservesOverlap(t *testing.T) {
	text := "0123456789abcdefghij"
	chunks := SplitText(text, 10, 4)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	first := chunks[0]
	second := chunks[1]
	tail := first[len(first)-4:]
	if !strings.HasPrefix(second, tail) {
		t.Errorf("second chunk %q does not start with overlap %q", second, tail)
	}
}

func TestSplitTextHandlesMultibyteRunes(t *testing.T) {
	text := strings.Repeat("日本語のテキスト", 50)
	chunks := SplitText(text, 100, 10)

	for i, chunk := range chunks {
		if len([]rune(chunk)) > 100 {
			t.Errorf("chunk %d exceeds rune limit", i)
		}
	}

	joined := strings.Join(chunks, "")
	if !strings.Contains(joined, "日本語") {
		t.Error("chunks lost multibyte content")
	}
}

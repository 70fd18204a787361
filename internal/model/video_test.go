package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnippet_Marker(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		want  string
	}{
		{name: "zero", start: 0, want: "0:00"},
		{name: "seconds only", start: 10, want: "0:10"},
		{name: "minute boundary", start: 60, want: "1:00"},
		{name: "fractional seconds truncate", start: 121.9, want: "2:01"},
		{name: "over an hour stays minutes", start: 3723, want: "62:03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snippet := Snippet{Start: tt.start}
			assert.Equal(t, tt.want, snippet.Marker())
		})
	}
}

func TestComposedContext_Empty(t *testing.T) {
	assert.True(t, ComposedContext{}.Empty())
	assert.False(t, ComposedContext{SpeechBlock: "x"}.Empty())
	assert.False(t, ComposedContext{VisualBlock: "y"}.Empty())
}

func TestRetrievalResult_All(t *testing.T) {
	result := RetrievalResult{
		Speech: []*ScoredSnippet{{Snippet: &Snippet{Text: "a"}}},
		Visual: []*ScoredSnippet{{Snippet: &Snippet{Text: "b"}}},
	}

	all := result.All()
	assert.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Snippet.Text)
	assert.Equal(t, "b", all[1].Snippet.Text)
}

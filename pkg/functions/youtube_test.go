package functions

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/campaigncanvas/pkg/ai"
	"github.com/matzehuels/campaigncanvas/pkg/config"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=short", ""},
		{"https://vimeo.com/123456789", ""},
		{"https://www.youtube.com/channel/UC123", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := VideoID(tt.in)
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizeYouTube(t *testing.T) {
	oembed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", r.URL.Query().Get("url"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Launch Recap","author_name":"Acme","thumbnail_url":"https://i.ytimg.com/vi/dQw4w9WgXcQ/maxres.jpg"}`))
	}))
	defer oembed.Close()

	cfg := config.Default().Functions
	cfg.OEmbedBaseURL = oembed.URL
	var last ai.Request
	s := newTestService(answer("```json\n{\"summary\":\"A recap.\",\"keyPoints\":[\"One\",\"Two\"]}\n```", &last), &cfg)

	rec, out := call(t, s, SummarizeYouTube, http.MethodPost, `{"url":"https://youtu.be/dQw4w9WgXcQ"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]any{
		"videoId":      "dQw4w9WgXcQ",
		"title":        "Launch Recap",
		"author":       "Acme",
		"thumbnailUrl": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxres.jpg",
		"summary":      "A recap.",
		"keyPoints":    []any{"One", "Two"},
	}, out)
	assert.Contains(t, last.Prompt, "Launch Recap")
}

func TestSummarizeYouTube_OEmbedFailure(t *testing.T) {
	oembed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer oembed.Close()

	cfg := config.Default().Functions
	cfg.OEmbedBaseURL = oembed.URL
	s := newTestService(answer(`{"summary":"Still works"}`, nil), &cfg)

	out, err := s.Invoke(t.Context(), SummarizeYouTube, []byte(`{"url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`))
	require.NoError(t, err)
	resp := out.(*YouTubeResponse)
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", resp.ThumbnailURL)
	assert.Equal(t, "", resp.Title)
	assert.Equal(t, "Still works", resp.Summary)
	assert.Equal(t, []string{}, resp.KeyPoints)
}

func TestSummarizeYouTube_Errors(t *testing.T) {
	cfg := config.Default().Functions
	cfg.OEmbedBaseURL = "http://127.0.0.1:1"

	s := newTestService(answer("Here is a summary in prose.", nil), &cfg)
	rec, out := call(t, s, SummarizeYouTube, http.MethodPost, `{"url":"https://youtu.be/dQw4w9WgXcQ"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to parse AI response", out["error"])

	rec, _ = call(t, s, SummarizeYouTube, http.MethodPost, `{"url":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = call(t, s, SummarizeYouTube, http.MethodPost, `{"url":"https://vimeo.com/1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

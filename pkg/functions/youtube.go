package functions

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/campaigncanvas/pkg/ai"
	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
)

// YouTubeRequest is the summarize-youtube body.
type YouTubeRequest struct {
	URL string `json:"url"`
}

// YouTubeResponse is the summarize-youtube answer.
type YouTubeResponse struct {
	VideoID      string   `json:"videoId"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Summary      string   `json:"summary"`
	KeyPoints    []string `json:"keyPoints"`
}

// oEmbed is the subset of the oEmbed document we use.
type oEmbed struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

const youtubeSystem = `You summarize YouTube videos for marketing teams.
Answer with JSON: {"summary":"2-3 sentences","keyPoints":["..."]} with 3 to 6 key points.`

var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

func (s *Service) summarizeYouTube(ctx context.Context, body []byte) (any, error) {
	var req YouTubeRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return nil, cerrors.New(cerrors.ErrCodeMissingField, "url is required")
	}
	id, ok := VideoID(raw)
	if !ok {
		return nil, cerrors.New(cerrors.ErrCodeInvalidURL, "not a YouTube video URL: %s", raw)
	}

	out := &YouTubeResponse{
		VideoID:      id,
		ThumbnailURL: "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg",
		KeyPoints:    []string{},
	}
	canonical := "https://www.youtube.com/watch?v=" + id
	if meta, err := s.oembed(ctx, canonical); err != nil {
		s.logger.Warn("oembed lookup failed", "video", id, "err", err)
	} else {
		out.Title = meta.Title
		out.Author = meta.AuthorName
		if meta.ThumbnailURL != "" {
			out.ThumbnailURL = meta.ThumbnailURL
		}
	}

	prompt := fmt.Sprintf("Summarize the YouTube video %s.", canonical)
	if out.Title != "" {
		prompt += fmt.Sprintf("\nTitle: %s", out.Title)
	}
	if out.Author != "" {
		prompt += fmt.Sprintf("\nChannel: %s", out.Author)
	}
	answer, err := s.model.Complete(ctx, ai.Request{System: youtubeSystem, Prompt: prompt, JSON: true})
	if err != nil {
		return nil, err
	}
	doc, err := ai.ExtractJSON(answer)
	if err != nil {
		return nil, err
	}
	out.Summary = strings.TrimSpace(doc.Get("summary").String())
	if out.Summary == "" {
		return nil, cerrors.New(cerrors.ErrCodeParseFailed, "AI response has no summary")
	}
	out.KeyPoints = stringList(firstExisting(doc, "keyPoints", "key_points"), 10)
	return out, nil
}

func (s *Service) oembed(ctx context.Context, videoURL string) (*oEmbed, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("no fetch client")
	}
	base := s.cfg.OEmbedBaseURL
	if base == "" {
		base = "https://www.youtube.com/oembed"
	}
	q := url.Values{"url": {videoURL}, "format": {"json"}}
	var meta oEmbed
	if err := s.fetcher.GetJSON(ctx, base+"?"+q.Encode(), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func firstExisting(doc gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// VideoID extracts the 11-character video ID from watch, shorts, embed, live
// and youtu.be URLs, or accepts a bare ID.
func VideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if videoIDRe.MatchString(raw) {
		return raw, true
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segs[0]
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch {
		case segs[0] == "watch":
			id = u.Query().Get("v")
		case len(segs) >= 2 && (segs[0] == "shorts" || segs[0] == "embed" || segs[0] == "live" || segs[0] == "v"):
			id = segs[1]
		}
	}
	if !videoIDRe.MatchString(id) {
		return "", false
	}
	return id, true
}

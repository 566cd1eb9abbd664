package functions

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/campaigncanvas/pkg/ai"
	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
)

// maxSentimentInput bounds the text sent to the model, in runes.
const maxSentimentInput = 20000

// Sentiment labels.
const (
	Positive = "positive"
	Neutral  = "neutral"
	Negative = "negative"
	Mixed    = "mixed"
)

// SentimentRequest is the analyze-sentiment body.
type SentimentRequest struct {
	Content string `json:"content"`
}

// SentimentResponse is the analyze-sentiment answer. Score is in [-1, 1] and
// Confidence in [0, 1].
type SentimentResponse struct {
	Sentiment  string   `json:"sentiment"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Emotions   []string `json:"emotions"`
	Keywords   []string `json:"keywords"`
	Summary    string   `json:"summary"`
}

const sentimentSystem = `You analyze the sentiment of marketing and sales copy.
Answer with JSON: {"sentiment":"positive|neutral|negative|mixed","score":-1..1,"confidence":0..1,"emotions":["..."],"keywords":["..."],"summary":"one sentence"}.`

func (s *Service) analyzeSentiment(ctx context.Context, body []byte) (any, error) {
	var req SentimentRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, cerrors.New(cerrors.ErrCodeMissingField, "content is required")
	}
	if utf8.RuneCountInString(content) > maxSentimentInput {
		content = string([]rune(content)[:maxSentimentInput])
	}

	answer, err := s.model.Complete(ctx, ai.Request{
		System: sentimentSystem,
		Prompt: "Analyze the sentiment of the following content:\n\n" + content,
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	doc, err := ai.ExtractJSON(answer)
	if err != nil {
		return nil, err
	}
	if !doc.IsObject() {
		return nil, cerrors.New(cerrors.ErrCodeParseFailed, "sentiment answer is not an object")
	}
	return parseSentiment(doc), nil
}

func parseSentiment(doc gjson.Result) *SentimentResponse {
	out := &SentimentResponse{
		Score:      clamp(doc.Get("score").Float(), -1, 1),
		Confidence: clamp(doc.Get("confidence").Float(), 0, 1),
		Emotions:   stringList(doc.Get("emotions"), 10),
		Keywords:   stringList(doc.Get("keywords"), 20),
		Summary:    strings.TrimSpace(doc.Get("summary").String()),
	}
	out.Sentiment = strings.ToLower(strings.TrimSpace(doc.Get("sentiment").String()))
	switch out.Sentiment {
	case Positive, Neutral, Negative, Mixed:
	default:
		out.Sentiment = labelForScore(out.Score)
	}
	return out
}

// labelForScore derives a label when the model gave none or an unknown one.
func labelForScore(score float64) string {
	switch {
	case score > 0.2:
		return Positive
	case score < -0.2:
		return Negative
	default:
		return Neutral
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// stringList reads a JSON array of strings, dropping blanks and duplicates.
// The result is never nil.
func stringList(r gjson.Result, limit int) []string {
	out := []string{}
	seen := make(map[string]bool)
	r.ForEach(func(_, v gjson.Result) bool {
		str := strings.TrimSpace(v.String())
		key := strings.ToLower(str)
		if str != "" && !seen[key] {
			seen[key] = true
			out = append(out, str)
		}
		return len(out) < limit
	})
	return out
}

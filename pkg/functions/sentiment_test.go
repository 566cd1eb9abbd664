package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/campaigncanvas/pkg/ai"
	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
)

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want SentimentResponse
	}{
		{
			name: "complete",
			doc:  `{"sentiment":"Positive","score":0.7,"confidence":0.9,"emotions":["joy","Joy"," "],"keywords":["launch"],"summary":" Upbeat. "}`,
			want: SentimentResponse{Sentiment: Positive, Score: 0.7, Confidence: 0.9, Emotions: []string{"joy"}, Keywords: []string{"launch"}, Summary: "Upbeat."},
		},
		{
			name: "clamped",
			doc:  `{"sentiment":"negative","score":-4,"confidence":3}`,
			want: SentimentResponse{Sentiment: Negative, Score: -1, Confidence: 1, Emotions: []string{}, Keywords: []string{}},
		},
		{
			name: "label from score",
			doc:  `{"sentiment":"ecstatic","score":0.5}`,
			want: SentimentResponse{Sentiment: Positive, Score: 0.5, Emotions: []string{}, Keywords: []string{}},
		},
		{
			name: "missing label is neutral",
			doc:  `{"score":0.1}`,
			want: SentimentResponse{Sentiment: Neutral, Score: 0.1, Emotions: []string{}, Keywords: []string{}},
		},
		{
			name: "mixed kept",
			doc:  `{"sentiment":"mixed","score":0}`,
			want: SentimentResponse{Sentiment: Mixed, Emotions: []string{}, Keywords: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSentiment(gjson.Parse(tt.doc))
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestLabelForScore(t *testing.T) {
	assert.Equal(t, Positive, labelForScore(0.21))
	assert.Equal(t, Neutral, labelForScore(0.2))
	assert.Equal(t, Neutral, labelForScore(-0.2))
	assert.Equal(t, Negative, labelForScore(-0.5))
}

func TestAnalyzeSentiment(t *testing.T) {
	var last ai.Request
	s := newTestService(answer(`Sure! {"sentiment":"negative","score":-0.6,"confidence":0.8,"keywords":["refund"]}`, &last), nil)

	out, err := s.Invoke(t.Context(), AnalyzeSentiment, []byte(`{"content":"  I want a refund  "}`))
	require.NoError(t, err)
	resp := out.(*SentimentResponse)
	assert.Equal(t, Negative, resp.Sentiment)
	assert.Equal(t, []string{"refund"}, resp.Keywords)
	assert.Contains(t, last.Prompt, "I want a refund")
	assert.True(t, last.JSON)

	_, err = s.Invoke(t.Context(), AnalyzeSentiment, []byte(`{"content":"   "}`))
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeMissingField, cerrors.GetCode(err))
	assert.Equal(t, "content is required", cerrors.UserMessage(err))
}

func TestAnalyzeSentiment_ArrayAnswer(t *testing.T) {
	s := newTestService(answer(`["positive"]`, nil), nil)
	_, err := s.Invoke(t.Context(), AnalyzeSentiment, []byte(`{"content":"x"}`))
	require.Error(t, err)
}

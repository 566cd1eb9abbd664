package functions

import (
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/campaigncanvas/pkg/ai"
	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestDecodeImage(t *testing.T) {
	enc := base64.StdEncoding.EncodeToString(pngBytes)

	tests := []struct {
		name     string
		data     string
		mime     string
		wantMIME string
		code     cerrors.Code
	}{
		{name: "plain", data: enc, mime: "image/png", wantMIME: "image/png"},
		{name: "default mime", data: enc, wantMIME: "image/png"},
		{name: "data url", data: "data:image/webp;base64," + enc, mime: "image/png", wantMIME: "image/webp"},
		{name: "unpadded", data: base64.RawStdEncoding.EncodeToString(pngBytes), mime: "image/jpeg", wantMIME: "image/jpeg"},
		{name: "empty", data: " ", code: cerrors.ErrCodeMissingField},
		{name: "bad mime", data: enc, mime: "application/pdf", code: cerrors.ErrCodeInvalidImage},
		{name: "bad base64", data: "!!!", mime: "image/png", code: cerrors.ErrCodeInvalidImage},
		{name: "malformed data url", data: "data:image/png;base64", code: cerrors.ErrCodeInvalidImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, mime, err := decodeImage(tt.data, tt.mime)
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, cerrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, pngBytes, data)
			assert.Equal(t, tt.wantMIME, mime)
		})
	}
}

func TestParseTable(t *testing.T) {
	got := parseTable(gjson.Parse(`{"headers":["Name","Spend"],"rows":[["Search","$1,200","extra"],["Social"],{"Name":"Email","Spend":"$90"}]}`))
	assert.Equal(t, []string{"Name", "Spend"}, got.Headers)
	assert.Equal(t, [][]string{{"Search", "$1,200"}, {"Social", ""}, {"Email", "$90"}}, got.Rows)
	assert.Equal(t, "| Name | Spend |\n| --- | --- |\n| Search | $1,200 |\n| Social |  |\n| Email | $90 |\n", got.Markdown)
}

func TestParseTable_NoHeaders(t *testing.T) {
	got := parseTable(gjson.Parse(`{"rows":[["a"],["b","c"]]}`))
	assert.Equal(t, []string{"Column 1", "Column 2"}, got.Headers)
	assert.Equal(t, [][]string{{"a", ""}, {"b", "c"}}, got.Rows)
}

func TestMarkdown(t *testing.T) {
	assert.Equal(t, "", Markdown(nil, nil))
	assert.Equal(t, "| a\\|b |\n| --- |\n| x y |\n", Markdown([]string{"a|b"}, [][]string{{"x\ny"}}))
}

func TestExtractTable(t *testing.T) {
	var last ai.Request
	s := newTestService(answer(`{"headers":["Channel","Clicks"],"rows":[["Ads","10"]]}`, &last), nil)
	body := `{"imageBase64":"data:image/png;base64,` + base64.StdEncoding.EncodeToString(pngBytes) + `"}`

	rec, out := call(t, s, ExtractTable, http.MethodPost, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []any{"Channel", "Clicks"}, out["headers"])
	assert.Contains(t, out["markdown"], "| Ads | 10 |")

	require.Len(t, last.Images, 1)
	assert.Equal(t, pngBytes, last.Images[0].Data)
	assert.Equal(t, "image/png", last.Images[0].MIME)
}

func TestExtractTable_EmptyAnswer(t *testing.T) {
	s := newTestService(answer(`{"headers":[],"rows":[]}`, nil), nil)
	body := `{"imageBase64":"` + base64.StdEncoding.EncodeToString(pngBytes) + `","imageMimeType":"image/png"}`
	rec, _ := call(t, s, ExtractTable, http.MethodPost, body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

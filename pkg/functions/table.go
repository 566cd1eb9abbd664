package functions

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/campaigncanvas/pkg/ai"
	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
)

// TableRequest is the extract-table body. ImageBase64 may carry a data: URL
// prefix.
type TableRequest struct {
	ImageBase64   string `json:"imageBase64"`
	ImageMimeType string `json:"imageMimeType"`
}

// TableResponse is the extract-table answer. Every row has len(Headers)
// cells.
type TableResponse struct {
	Headers  []string   `json:"headers"`
	Rows     [][]string `json:"rows"`
	Markdown string     `json:"markdown"`
}

const tableSystem = `You extract tabular data from screenshots.
Answer with JSON: {"headers":["..."],"rows":[["..."]]}. Keep cell text verbatim and use "" for empty cells.`

func (s *Service) extractTable(ctx context.Context, body []byte) (any, error) {
	var req TableRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	data, mime, err := decodeImage(req.ImageBase64, req.ImageMimeType)
	if err != nil {
		return nil, err
	}

	answer, err := s.model.Complete(ctx, ai.Request{
		System:    tableSystem,
		Prompt:    "Extract the table shown in this image.",
		Images:    []ai.Image{{Data: data, MIME: mime}},
		JSON:      true,
		MaxTokens: 4096,
	})
	if err != nil {
		return nil, err
	}
	doc, err := ai.ExtractJSON(answer)
	if err != nil {
		return nil, err
	}
	resp := parseTable(doc)
	if len(resp.Headers) == 0 && len(resp.Rows) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeParseFailed, "no table found in AI response")
	}
	return resp, nil
}

// decodeImage strips an optional data: URL prefix and decodes the payload.
// A MIME type in the prefix wins over the explicit one.
func decodeImage(encoded, mime string) ([]byte, string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, "", cerrors.New(cerrors.ErrCodeMissingField, "imageBase64 is required")
	}
	if rest, ok := strings.CutPrefix(encoded, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", cerrors.New(cerrors.ErrCodeInvalidImage, "malformed data URL")
		}
		if m, _, _ := strings.Cut(meta, ";"); m != "" {
			mime = m
		}
		encoded = payload
	}
	if mime == "" {
		mime = "image/png"
	}
	if err := cerrors.ValidateImageMIME(mime); err != nil {
		return nil, "", err
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
	}
	if err != nil || len(data) == 0 {
		return nil, "", cerrors.New(cerrors.ErrCodeInvalidImage, "imageBase64 is not valid base64")
	}
	return data, strings.ToLower(mime), nil
}

// parseTable reads headers and rows, padding or trimming rows to the header
// width. Without headers, the widest row sets the width and the headers are
// named "Column N".
func parseTable(doc gjson.Result) *TableResponse {
	headers := []string{}
	doc.Get("headers").ForEach(func(_, v gjson.Result) bool {
		headers = append(headers, strings.TrimSpace(v.String()))
		return true
	})

	rows := [][]string{}
	width := len(headers)
	doc.Get("rows").ForEach(func(_, row gjson.Result) bool {
		var cells []string
		if row.IsArray() {
			row.ForEach(func(_, c gjson.Result) bool {
				cells = append(cells, strings.TrimSpace(c.String()))
				return true
			})
		} else if row.IsObject() {
			for _, h := range headers {
				cells = append(cells, strings.TrimSpace(row.Get(gjson.Escape(h)).String()))
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
			if len(headers) == 0 {
				width = max(width, len(cells))
			}
		}
		return true
	})

	for i := len(headers); i < width; i++ {
		headers = append(headers, "Column "+strconv.Itoa(i+1))
	}
	for i, r := range rows {
		rows[i] = fitRow(r, width)
	}
	return &TableResponse{Headers: headers, Rows: rows, Markdown: Markdown(headers, rows)}
}

func fitRow(cells []string, width int) []string {
	if len(cells) >= width {
		return cells[:width]
	}
	out := make([]string, width)
	copy(out, cells)
	return out
}

// Markdown renders a GitHub-flavored markdown table.
func Markdown(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(escapeCell(c))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	writeRow(headers)
	b.WriteString("|")
	for range headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, r := range rows {
		writeRow(r)
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

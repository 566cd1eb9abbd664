package ai

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)```")

// maxCandidates bounds how many bracket spans are tried in prose.
const maxCandidates = 16

// ExtractJSON finds the JSON document in a model answer. It accepts a bare
// document, a fenced ```json block, or the first valid balanced {...} or
// [...] span embedded in prose, trying at most maxCandidates spans. Answers
// without valid JSON yield an ErrCodeParseFailed error.
func ExtractJSON(text string) (gjson.Result, error) {
	s := strings.TrimSpace(text)
	if gjson.Valid(s) && (strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")) {
		return gjson.Parse(s), nil
	}
	for _, m := range fenceRe.FindAllStringSubmatch(s, -1) {
		body := strings.TrimSpace(m[1])
		if gjson.Valid(body) {
			return gjson.Parse(body), nil
		}
	}
	for i, tries := 0, 0; i < len(s) && tries < maxCandidates; i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		tries++
		end := matchBracket(s, i)
		if end < 0 {
			continue
		}
		if cand := s[i : end+1]; gjson.Valid(cand) {
			return gjson.Parse(cand), nil
		}
		i = end
	}
	return gjson.Result{}, cerrors.New(cerrors.ErrCodeParseFailed, "failed to parse AI response")
}

// matchBracket returns the index of the bracket closing the one at start,
// skipping over string literals, or -1.
func matchBracket(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

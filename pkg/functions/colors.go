package functions

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/campaigncanvas/pkg/ai"
	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
)

// maxColors caps the palette returned by extract-colors.
const maxColors = 8

// Color roles reported by extract-colors.
const (
	RolePrimary    = "primary"
	RoleSecondary  = "secondary"
	RoleAccent     = "accent"
	RoleBackground = "background"
	RoleText       = "text"
)

// ColorsRequest is the extract-colors body.
type ColorsRequest struct {
	ImageURLs []string `json:"imageUrls"`
}

// Color is one palette entry.
type Color struct {
	Hex  string `json:"hex"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ColorsResponse is the extract-colors answer.
type ColorsResponse struct {
	Colors  []Color  `json:"colors"`
	Palette []string `json:"palette"`
}

const colorsSystem = `You are a brand designer. Identify the dominant brand colors in the images.
Answer with JSON: {"colors":[{"hex":"#rrggbb","name":"short color name","role":"primary|secondary|accent|background|text"}]}.
Return at most 8 colors ordered by prominence.`

var hexRe = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)

func (s *Service) extractColors(ctx context.Context, body []byte) (any, error) {
	var req ColorsRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(req.ImageURLs))
	for _, u := range req.ImageURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeMissingField, "imageUrls is required")
	}
	if limit := s.cfg.MaxImageURLs; limit > 0 && len(urls) > limit {
		urls = urls[:limit]
	}
	images := make([]ai.Image, 0, len(urls))
	for _, u := range urls {
		if err := cerrors.ValidateURL(u); err != nil {
			return nil, err
		}
		images = append(images, ai.Image{URL: u})
	}

	answer, err := s.model.Complete(ctx, ai.Request{
		System: colorsSystem,
		Prompt: fmt.Sprintf("Extract the brand color palette from these %d image(s).", len(images)),
		Images: images,
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	var colors []Color
	if doc, err := ai.ExtractJSON(answer); err == nil {
		colors = parseColors(doc)
	}
	if len(colors) == 0 {
		colors = scanHexColors(answer)
	}
	if len(colors) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeParseFailed, "no colors found in AI response")
	}

	resp := &ColorsResponse{Colors: colors, Palette: make([]string, len(colors))}
	for i, c := range colors {
		resp.Palette[i] = c.Hex
	}
	return resp, nil
}

// parseColors reads {"colors":[...]} or a bare array of entries. Entries may
// be objects or plain hex strings.
func parseColors(doc gjson.Result) []Color {
	list := doc
	if doc.IsObject() {
		list = doc.Get("colors")
		if !list.Exists() {
			list = doc.Get("palette")
		}
	}
	if !list.IsArray() {
		return nil
	}
	var b paletteBuilder
	list.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			b.add(v.String(), "", "")
		} else {
			b.add(v.Get("hex").String(), v.Get("name").String(), v.Get("role").String())
		}
		return !b.full()
	})
	return b.colors
}

// scanHexColors picks hex codes out of free text.
func scanHexColors(text string) []Color {
	var b paletteBuilder
	for _, m := range hexRe.FindAllString(text, -1) {
		b.add(m, "", "")
		if b.full() {
			break
		}
	}
	return b.colors
}

type paletteBuilder struct {
	colors []Color
	seen   map[string]bool
}

func (b *paletteBuilder) full() bool { return len(b.colors) >= maxColors }

func (b *paletteBuilder) add(hex, name, role string) {
	norm, ok := NormalizeHex(hex)
	if !ok || b.full() {
		return
	}
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	if b.seen[norm] {
		return
	}
	b.seen[norm] = true

	c, _ := colorful.Hex(norm)
	name = strings.TrimSpace(name)
	if name == "" {
		name = NearestName(c)
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if !validRole(role) {
		role = defaultRole(len(b.colors))
	}
	b.colors = append(b.colors, Color{Hex: norm, Name: name, Role: role})
}

// NormalizeHex returns s as lowercase #rrggbb. Three-digit shorthand is
// expanded and a missing leading # is tolerated.
func NormalizeHex(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", false
	}
	return c.Hex(), true
}

func validRole(role string) bool {
	switch role {
	case RolePrimary, RoleSecondary, RoleAccent, RoleBackground, RoleText:
		return true
	}
	return false
}

func defaultRole(i int) string {
	switch i {
	case 0:
		return RolePrimary
	case 1:
		return RoleSecondary
	default:
		return RoleAccent
	}
}

var namedColors = []struct {
	name string
	hex  string
}{
	{"black", "#000000"},
	{"white", "#ffffff"},
	{"gray", "#808080"},
	{"silver", "#c0c0c0"},
	{"red", "#e53935"},
	{"maroon", "#800000"},
	{"orange", "#fb8c00"},
	{"gold", "#ffd700"},
	{"yellow", "#fdd835"},
	{"olive", "#808000"},
	{"lime", "#7cb342"},
	{"green", "#43a047"},
	{"teal", "#00897b"},
	{"cyan", "#00bcd4"},
	{"sky blue", "#87ceeb"},
	{"blue", "#1e88e5"},
	{"navy", "#000080"},
	{"indigo", "#3949ab"},
	{"purple", "#8e24aa"},
	{"magenta", "#d81b60"},
	{"pink", "#f48fb1"},
	{"brown", "#6d4c41"},
	{"beige", "#f5f5dc"},
	{"cream", "#fffdd0"},
}

// NearestName returns the closest entry of a small named palette, measured
// by CIEDE2000 distance.
func NearestName(c colorful.Color) string {
	best, bestDist := "", math.Inf(1)
	for _, nc := range namedColors {
		ref, _ := colorful.Hex(nc.hex)
		if d := c.DistanceCIEDE2000(ref); d < bestDist {
			best, bestDist = nc.name, d
		}
	}
	return best
}

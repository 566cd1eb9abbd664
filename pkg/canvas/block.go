package canvas

import (
	"maps"

	"github.com/google/uuid"

	"github.com/matzehuels/campaigncanvas/pkg/geometry"
)

// BlockType classifies a block's content. The set is open; these are the
// types the dashboards create.
type BlockType string

const (
	BlockText  BlockType = "text"
	BlockImage BlockType = "image"
	BlockVideo BlockType = "video"
	BlockCopy  BlockType = "copy"
	BlockCTA   BlockType = "cta"
	BlockNote  BlockType = "note"
)

// Block is a positioned rectangle of content on the canvas.
type Block struct {
	ID      string            `json:"id" bson:"id"`
	Type    BlockType         `json:"type,omitempty" bson:"type,omitempty"`
	X       float64           `json:"x" bson:"x"`
	Y       float64           `json:"y" bson:"y"`
	Width   float64           `json:"width" bson:"width"`
	Height  float64           `json:"height" bson:"height"`
	Content string            `json:"content,omitempty" bson:"content,omitempty"`
	Color   string            `json:"color,omitempty" bson:"color,omitempty"`
	Meta    map[string]string `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Rect returns the block's bounding box.
func (b Block) Rect() geometry.Rect {
	return geometry.Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}
}

// Clone returns a deep copy of b.
func (b Block) Clone() Block {
	b.Meta = maps.Clone(b.Meta)
	return b
}

// CloneBlocks deep-copies a block collection, preserving order. A nil slice
// stays nil and an empty slice stays empty.
func CloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.Clone()
	}
	return out
}

// NewID returns a fresh random identifier for a board, block, or edge.
func NewID() string {
	return uuid.NewString()
}

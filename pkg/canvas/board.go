package canvas

import (
	"fmt"
	"time"

	"github.com/matzehuels/campaigncanvas/pkg/geometry"
)

// Edge is a directed connection between two blocks.
type Edge struct {
	ID     string         `json:"id" bson:"id"`
	Source string         `json:"source" bson:"source"`
	Target string         `json:"target" bson:"target"`
	Style  geometry.Style `json:"style,omitempty" bson:"style,omitempty"`
	Color  string         `json:"color,omitempty" bson:"color,omitempty"`
}

// Board is a canvas document: a tenant-scoped set of blocks and edges.
type Board struct {
	ID        string    `json:"id" bson:"id"`
	Tenant    string    `json:"tenant" bson:"tenant"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Blocks    []Block   `json:"blocks" bson:"blocks"`
	Edges     []Edge    `json:"edges" bson:"edges"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Block returns the block with the given ID.
func (b *Board) Block(id string) (Block, bool) {
	for _, blk := range b.Blocks {
		if blk.ID == id {
			return blk, true
		}
	}
	return Block{}, false
}

// Validate checks the invariants renderers and stores rely on: unique,
// non-empty block and edge IDs, finite coordinates, non-negative sizes and
// known edge styles. Edges pointing at missing blocks are allowed; they are
// skipped when routed.
func (b *Board) Validate() error {
	seen := make(map[string]bool, len(b.Blocks))
	for i, blk := range b.Blocks {
		if blk.ID == "" {
			return fmt.Errorf("block %d: empty id", i)
		}
		if seen[blk.ID] {
			return fmt.Errorf("block %s: duplicate id", blk.ID)
		}
		seen[blk.ID] = true
		if !blk.Rect().Finite() {
			return fmt.Errorf("block %s: non-finite geometry", blk.ID)
		}
		if blk.Width < 0 || blk.Height < 0 {
			return fmt.Errorf("block %s: negative size %gx%g", blk.ID, blk.Width, blk.Height)
		}
	}
	edges := make(map[string]bool, len(b.Edges))
	for i, e := range b.Edges {
		if e.ID == "" {
			return fmt.Errorf("edge %d: empty id", i)
		}
		if edges[e.ID] {
			return fmt.Errorf("edge %s: duplicate id", e.ID)
		}
		edges[e.ID] = true
		if e.Source == "" || e.Target == "" {
			return fmt.Errorf("edge %s: source and target are required", e.ID)
		}
		if _, err := geometry.ParseStyle(string(e.Style)); err != nil {
			return fmt.Errorf("edge %s: %w", e.ID, err)
		}
	}
	return nil
}

// Bounds returns the bounding box of all blocks, or the zero rectangle for
// an empty board.
func (b *Board) Bounds() geometry.Rect {
	if len(b.Blocks) == 0 {
		return geometry.Rect{}
	}
	r := b.Blocks[0].Rect()
	for _, blk := range b.Blocks[1:] {
		r = r.Union(blk.Rect())
	}
	return r
}

// Rects indexes block rectangles by block ID.
func (b *Board) Rects() map[string]geometry.Rect {
	m := make(map[string]geometry.Rect, len(b.Blocks))
	for _, blk := range b.Blocks {
		m[blk.ID] = blk.Rect()
	}
	return m
}

// Connections converts the board's edges to routing inputs.
func (b *Board) Connections() []geometry.Connection {
	out := make([]geometry.Connection, len(b.Edges))
	for i, e := range b.Edges {
		out[i] = geometry.Connection{ID: e.ID, Source: e.Source, Target: e.Target, Style: e.Style, Color: e.Color}
	}
	return out
}

// Route resolves every drawable edge on the board. Edges referencing
// missing blocks are left out.
func (b *Board) Route(curvature float64) []geometry.RoutedEdge {
	return geometry.Route(b.Connections(), b.Rects(), curvature)
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	c.Blocks = CloneBlocks(b.Blocks)
	if b.Edges != nil {
		c.Edges = append([]Edge(nil), b.Edges...)
	}
	return &c
}

package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
)

// ReadJSON decodes a board document from r.
//
// Missing block and edge IDs are generated. The decoded board is validated
// with [canvas.Board.Validate]; unknown top-level fields are rejected so that
// typos in hand-written files surface early.
func ReadJSON(r io.Reader) (*canvas.Board, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var b canvas.Board
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	for i := range b.Blocks {
		if b.Blocks[i].ID == "" {
			b.Blocks[i].ID = canvas.NewID()
		}
	}
	for i := range b.Edges {
		if b.Edges[i].ID == "" {
			b.Edges[i].ID = canvas.NewID()
		}
	}
	if b.Blocks == nil {
		b.Blocks = []canvas.Block{}
	}
	if b.Edges == nil {
		b.Edges = []canvas.Edge{}
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board: %w", err)
	}
	return &b, nil
}

// ImportJSON reads a board document from the file at path.
func ImportJSON(path string) (*canvas.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	b, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

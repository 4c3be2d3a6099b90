package core

import "github.com/huangsam/dashline/schema"

// ColorSource hands out line colors one at a time.
type ColorSource interface {
	Next() string
}

// Colors cycles through a palette. It is not safe for concurrent use;
// create one per build.
type Colors struct {
	palette []string
	idx     int
}

// NewColors returns a cursor positioned at the start of palette.
// An empty palette falls back to schema.DefaultPalette.
func NewColors(palette []string) *Colors {
	if len(palette) == 0 {
		palette = schema.DefaultPalette
	}
	return &Colors{palette: palette}
}

// Next returns the current color and advances, wrapping after the last one.
func (c *Colors) Next() string {
	color := c.palette[c.idx%len(c.palette)]
	c.idx++
	return color
}

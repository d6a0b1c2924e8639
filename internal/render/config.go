package render

import "image/color"

// Global render configuration shared by the hosts.
var (
	// Background is what the transparent starfield is flattened onto.
	Background = color.RGBA{R: 0x05, G: 0x07, B: 0x0c, A: 0xFF}

	// CaptionColor is used for host content text.
	CaptionColor = color.RGBA{R: 0xF4, G: 0xEA, B: 0xD5, A: 0xFF}

	// ContentMaxWidth is the share of the surface width host content may take.
	ContentMaxWidth = 0.25

	// ContentPadding keeps the content image off the surface edges.
	ContentPadding = 16

	// Terminal cells are treated as CellWidth×CellHeight logical pixels and
	// rendered as two vertical half-block pixels.
	CellWidth  = 8
	CellHeight = 16
)

// MaxViewportSide bounds sizes requested through Resizer, in logical pixels.
const MaxViewportSide = 8192

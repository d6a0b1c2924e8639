package layout

import "image"

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	height := rect.Dy()
	topHeightPx = clamp(topHeightPx, 0, height)
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// Fit scales a srcW×srcH box down to fit in maxW×maxH, keeping its aspect
// ratio. It never scales up.
func Fit(srcW, srcH, maxW, maxH int) (width int, height int) {
	if srcW <= 0 || srcH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	scale := 1.0
	if sx := float64(maxW) / float64(srcW); sx < scale {
		scale = sx
	}
	if sy := float64(maxH) / float64(srcH); sy < scale {
		scale = sy
	}
	return max(1, int(float64(srcW)*scale)), max(1, int(float64(srcH)*scale))
}

// Center returns a widthPx×heightPx rectangle centered in rect. The size is
// clamped to rect.
func Center(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx = clamp(widthPx, 0, rect.Dx())
	heightPx = clamp(heightPx, 0, rect.Dy())
	x := rect.Min.X + (rect.Dx()-widthPx)/2
	y := rect.Min.Y + (rect.Dy()-heightPx)/2
	return image.Rect(x, y, x+widthPx, y+heightPx)
}

// Offset moves rect by dy but keeps it inside bounds.
func Offset(rect image.Rectangle, dy int, bounds image.Rectangle) image.Rectangle {
	out := rect.Add(image.Pt(0, dy))
	if out.Min.Y < bounds.Min.Y {
		out = out.Add(image.Pt(0, bounds.Min.Y-out.Min.Y))
	}
	if out.Max.Y > bounds.Max.Y {
		out = out.Add(image.Pt(0, bounds.Max.Y-out.Max.Y))
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/rook-computer/starlight/internal/render/layout"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Content is what the host shows besides the starfield: an optional image
// and caption, stacked above or below the stars depending on the mount's
// z-index.
type Content struct {
	Image   image.Image
	Caption string
	Face    font.Face
}

// LoadContent reads the content image and caption font. Empty paths are
// skipped.
func LoadContent(imagePath, caption, fontPath string, fontSize float64) (*Content, error) {
	if imagePath == "" && caption == "" {
		return nil, nil
	}
	content := &Content{Caption: caption}
	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return nil, fmt.Errorf("open content image: %w", err)
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode content image %s: %w", imagePath, err)
		}
		content.Image = img
	}
	if caption != "" {
		face, err := LoadFace(fontPath, fontSize)
		if err != nil {
			return nil, err
		}
		content.Face = face
	}
	return content, nil
}

// LoadFace parses an OpenType or TrueType font file. An empty path selects
// the built-in bitmap face.
func LoadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}
	if size <= 0 {
		size = 24
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	if fnt, err := opentype.Parse(data); err == nil {
		face, ferr := opentype.NewFace(fnt, &opentype.FaceOptions{Size: size, DPI: 96, Hinting: font.HintingFull})
		if ferr == nil {
			return face, nil
		}
	}
	tt, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return truetype.NewFace(tt, &truetype.Options{Size: size, DPI: 96, Hinting: font.HintingFull}), nil
}

// Compositor flattens the transparent starfield onto the background and
// stacks host content with it.
type Compositor struct {
	Background color.RGBA
	Content    *Content

	out       *image.RGBA
	layer     *image.RGBA
	layerSize image.Point
}

func NewCompositor(content *Content) *Compositor {
	return &Compositor{Background: Background, Content: content}
}

// Compose returns the composed frame of the given pixel size. stars may be
// nil when the mount has no child. The returned image is reused by the next
// call.
func (c *Compositor) Compose(stars *image.RGBA, size image.Point, zIndex int) *image.RGBA {
	if c.out == nil || c.out.Bounds().Size() != size {
		c.out = image.NewRGBA(image.Rectangle{Max: size})
	}
	draw.Draw(c.out, c.out.Bounds(), &image.Uniform{C: c.Background}, image.Point{}, draw.Src)

	layer := c.contentLayer(size)
	if zIndex < 0 {
		c.drawOver(stars)
		c.drawOver(layer)
	} else {
		c.drawOver(layer)
		c.drawOver(stars)
	}
	return c.out
}

func (c *Compositor) drawOver(img *image.RGBA) {
	if img == nil {
		return
	}
	draw.Draw(c.out, c.out.Bounds().Intersect(img.Bounds()), img, image.Point{}, draw.Over)
}

// contentLayer renders the content once per size.
func (c *Compositor) contentLayer(size image.Point) *image.RGBA {
	if c.Content == nil || (c.Content.Image == nil && c.Content.Caption == "") {
		return nil
	}
	if c.layer != nil && c.layerSize == size {
		return c.layer
	}
	c.layer = image.NewRGBA(image.Rectangle{Max: size})
	c.layerSize = size
	area := c.layer.Bounds()

	var imgRect image.Rectangle
	if img := c.Content.Image; img != nil {
		area := layout.Inset(area, min(ContentPadding, area.Dx()/4, area.Dy()/4))
		maxWidth := int(float64(area.Dx()) * ContentMaxWidth)
		w, h := layout.Fit(img.Bounds().Dx(), img.Bounds().Dy(), maxWidth, area.Dy()/2)
		imgRect = layout.Center(area, w, h)
		// Lift the image slightly so a caption fits below it.
		imgRect = layout.Offset(imgRect, -h/4, area)
		xdraw.CatmullRom.Scale(c.layer, imgRect, img, img.Bounds(), xdraw.Over, nil)
	}
	if c.Content.Caption != "" {
		drawCaption(c.layer, c.Content.Caption, c.Content.Face, imgRect)
	}
	return c.layer
}

// drawCaption centers text horizontally, below above when it is set and at
// the vertical center otherwise.
func drawCaption(dst *image.RGBA, text string, face font.Face, above image.Rectangle) {
	if face == nil {
		face = basicfont.Face7x13
	}
	area := dst.Bounds()
	ascent := face.Metrics().Ascent.Ceil()
	baseline := area.Dy()/2 + ascent/2
	if !above.Empty() {
		_, below := layout.SplitHorizontal(area, above.Max.Y-area.Min.Y)
		margin := max(2, area.Dy()/40)
		baseline = below.Min.Y + margin + ascent
	}
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(CaptionColor),
		Face: face,
	}
	textWidth := drawer.MeasureString(text).Ceil()
	xPos := area.Min.X + (area.Dx()-textWidth)/2
	drawer.Dot = fixed.P(xPos, baseline)
	drawer.DrawString(text)
}

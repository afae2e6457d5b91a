// Package ogimage renders the 1200x630 social-preview image for a board,
// replicating the on-screen grid layout: 3 columns by 6 rows, so at most 18
// of the 21 items appear; trailing items are silently truncated.
//
// Rendering is a pure function of the board record. The background image URL
// is never fetched: when one is set, the fixed dark overlay is drawn over
// the background color so the output stays deterministic.
package ogimage

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/curationlink/board-api/internal/core/domain"
)

const (
	// Width and Height are the standard social-preview dimensions.
	Width  = 1200
	Height = 630

	gridColumns = 3
	gridRows    = 6

	canvasPadding = 40
	cellGap       = 8
	cellPadding   = 8
	cellRadius    = 8

	titleSize       = 48
	titleMargin     = 20
	labelSize       = 12
	valueSize       = 16
	brandSize       = 64
	labelAlpha      = 0.8
	overlayAlpha    = 0.2
	cellFillAlpha   = 0.1
	cellBorderAlpha = 0.5
)

// brandTitle is drawn on the generic fallback image.
const brandTitle = "キュレーションリンク"

var (
	defaultBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	defaultText       = color.RGBA{A: 0xff}
)

// Renderer holds the parsed font faces. Construct once at startup and share;
// rendering itself is stateless.
type Renderer struct {
	titleFace font.Face
	labelFace font.Face
	valueFace font.Face
	brandFace font.Face
}

// NewRenderer builds a renderer on the bundled Go fonts. Their glyph
// coverage is Latin-centric, so Japanese titles and labels render as missing
// glyphs; deployments serving CJK content should use NewRendererFromFile
// with a JP-capable face such as Noto Sans JP.
func NewRenderer() (*Renderer, error) {
	return newRenderer(gobold.TTF, goregular.TTF)
}

// NewRendererFromFile builds a renderer from a single font file used for
// every face, bold and regular alike. Weight contrast is lost, glyph
// coverage is whatever the file carries.
func NewRendererFromFile(path string) (*Renderer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("og font: %w", err)
	}
	return newRenderer(data, data)
}

func newRenderer(boldTTF, regularTTF []byte) (*Renderer, error) {
	bold, err := opentype.Parse(boldTTF)
	if err != nil {
		return nil, err
	}
	regular, err := opentype.Parse(regularTTF)
	if err != nil {
		return nil, err
	}

	r := &Renderer{}
	for _, f := range []struct {
		dst  *font.Face
		src  *opentype.Font
		size float64
	}{
		{&r.titleFace, bold, titleSize},
		{&r.labelFace, regular, labelSize},
		{&r.valueFace, bold, valueSize},
		{&r.brandFace, bold, brandSize},
	} {
		face, err := opentype.NewFace(f.src, &opentype.FaceOptions{
			Size:    f.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, err
		}
		*f.dst = face
	}
	return r, nil
}

// RenderBoard produces the board-specific preview PNG.
func (r *Renderer) RenderBoard(b *domain.Board) ([]byte, error) {
	dc := gg.NewContext(Width, Height)

	background := parseHexColor(b.StyleBackgroundColor, defaultBackground)
	text := parseHexColor(b.StyleTextColor, defaultText)

	dc.SetColor(background)
	dc.Clear()

	// Legibility overlay standing in for the background image.
	if b.BackgroundImageURL != "" {
		dc.SetRGBA(0, 0, 0, overlayAlpha)
		dc.DrawRectangle(0, 0, Width, Height)
		dc.Fill()
	}

	gridTop := float64(canvasPadding)
	if b.Title != "" {
		dc.SetFontFace(r.titleFace)
		dc.SetColor(text)
		dc.DrawStringAnchored(b.Title, Width/2, gridTop+titleSize/2, 0.5, 0.5)
		gridTop += titleSize + titleMargin
	}

	gridWidth := float64(Width - 2*canvasPadding)
	gridHeight := float64(Height) - gridTop - canvasPadding
	cellWidth := (gridWidth - (gridColumns-1)*cellGap) / gridColumns
	cellHeight := (gridHeight - (gridRows-1)*cellGap) / gridRows

	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridColumns; col++ {
			x := canvasPadding + float64(col)*(cellWidth+cellGap)
			y := gridTop + float64(row)*(cellHeight+cellGap)

			dc.DrawRoundedRectangle(x, y, cellWidth, cellHeight, cellRadius)
			dc.SetRGBA(1, 1, 1, cellFillAlpha)
			dc.FillPreserve()
			dc.SetRGBA(1, 1, 1, cellBorderAlpha)
			dc.SetLineWidth(1)
			dc.Stroke()

			index := row*gridColumns + col
			if index >= len(b.Items) {
				continue
			}
			r.drawItem(dc, b.Items[index], text, x, y, cellWidth, cellHeight)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawItem renders one cell's label and value. An absent sub-field renders
// nothing, not a placeholder.
func (r *Renderer) drawItem(dc *gg.Context, item domain.BoardItem, text color.Color, x, y, w, h float64) {
	innerX := x + cellPadding
	innerW := w - 2*cellPadding

	if item.Label != "" {
		dc.SetFontFace(r.labelFace)
		dc.SetColor(withAlpha(text, labelAlpha))
		dc.DrawStringAnchored(truncate(dc, item.Label, innerW), innerX, y+cellPadding+labelSize/2, 0, 0.5)
	}

	if item.Value != "" {
		valueTop := y + cellPadding + labelSize + 4
		valueHeight := h - (valueTop - y) - cellPadding
		dc.SetFontFace(r.valueFace)
		dc.SetColor(text)
		dc.DrawStringWrapped(item.Value, x+w/2, valueTop+valueHeight/2, 0.5, 0.5, innerW, 1.2, gg.AlignCenter)
	}
}

// RenderFallback produces the generic branded image: white background, brand
// title centered.
func (r *Renderer) RenderFallback() ([]byte, error) {
	dc := gg.NewContext(Width, Height)
	dc.SetColor(defaultBackground)
	dc.Clear()

	dc.SetFontFace(r.brandFace)
	dc.SetColor(defaultText)
	dc.DrawStringAnchored(brandTitle, Width/2, Height/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// truncate shortens s with an ellipsis until it fits maxWidth under the
// current font face.
func truncate(dc *gg.Context, s string, maxWidth float64) string {
	if w, _ := dc.MeasureString(s); w <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= maxWidth {
			return candidate
		}
	}
	return ""
}

// parseHexColor parses #RGB or #RRGGBB, falling back when the value is
// malformed rather than failing the render.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hex := s[1:]

	var r, g, b uint8
	switch len(hex) {
	case 3:
		rv, ok1 := hexNibble(hex[0])
		gv, ok2 := hexNibble(hex[1])
		bv, ok3 := hexNibble(hex[2])
		if !ok1 || !ok2 || !ok3 {
			return fallback
		}
		r, g, b = rv*17, gv*17, bv*17
	case 6:
		rv, ok1 := hexByte(hex[0], hex[1])
		gv, ok2 := hexByte(hex[2], hex[3])
		bv, ok3 := hexByte(hex[4], hex[5])
		if !ok1 || !ok2 || !ok3 {
			return fallback
		}
		r, g, b = rv, gv, bv
	default:
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func hexByte(hi, lo byte) (uint8, bool) {
	h, ok1 := hexNibble(hi)
	l, ok2 := hexNibble(lo)
	return h<<4 | l, ok1 && ok2
}

func withAlpha(c color.Color, alpha float64) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(alpha * 0xff),
	}
}

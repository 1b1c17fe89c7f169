package creator

import (
	"fmt"
	"image/color"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Branding is the footer line printed on every card.
const Branding = "@11ELEVENAPP · 11ELEVEN.APP"

// Renderer rasterizes a prophecy onto a square PNG card.
type Renderer interface {
	Render(w io.Writer, text, kind string) error
}

// Template is the palette of one card style.
type Template struct {
	Name   string
	Top    color.Color
	Bottom color.Color
	Accent color.Color
	Text   color.Color
}

var templates = map[string]Template{
	"goldfoil": {
		Name:   "goldfoil",
		Top:    color.RGBA{0x1a, 0x14, 0x0a, 0xff},
		Bottom: color.RGBA{0x3d, 0x2e, 0x12, 0xff},
		Accent: color.RGBA{0xd4, 0xaf, 0x37, 0xff},
		Text:   color.RGBA{0xf8, 0xee, 0xd4, 0xff},
	},
	"hybrid": {
		Name:   "hybrid",
		Top:    color.RGBA{0x14, 0x12, 0x2e, 0xff},
		Bottom: color.RGBA{0x4a, 0x2f, 0x1c, 0xff},
		Accent: color.RGBA{0xe8, 0xc2, 0x7a, 0xff},
		Text:   color.RGBA{0xf4, 0xf0, 0xff, 0xff},
	},
	"aura": {
		Name:   "aura",
		Top:    color.RGBA{0x24, 0x0b, 0x36, 0xff},
		Bottom: color.RGBA{0x0b, 0x1f, 0x3a, 0xff},
		Accent: color.RGBA{0xb9, 0x8c, 0xff, 0xff},
		Text:   color.RGBA{0xf1, 0xea, 0xff, 0xff},
	},
}

// TemplateFor picks the card style for a kind: aura for deep readings,
// hybrid for early access and gold foil for everything else.
func TemplateFor(kind string) Template {
	switch kind {
	case KindDeep:
		return templates["aura"]
	case KindEarly:
		return templates["hybrid"]
	default:
		return templates["goldfoil"]
	}
}

// CardRenderer draws cards with gg. With no FontPath the embedded Go
// Regular face is used.
type CardRenderer struct {
	Size     int
	FontPath string
}

// NewCardRenderer returns a renderer for size×size cards.
func NewCardRenderer(size int, fontPath string) *CardRenderer {
	if size <= 0 {
		size = 1080
	}
	return &CardRenderer{Size: size, FontPath: fontPath}
}

func (r *CardRenderer) Render(w io.Writer, text, kind string) error {
	tpl := TemplateFor(kind)
	s := float64(r.Size)
	dc := gg.NewContext(r.Size, r.Size)

	bg := gg.NewLinearGradient(0, 0, 0, s)
	bg.AddColorStop(0, tpl.Top)
	bg.AddColorStop(1, tpl.Bottom)
	dc.SetFillStyle(bg)
	dc.DrawRectangle(0, 0, s, s)
	dc.Fill()

	margin := s * 0.06
	dc.SetColor(tpl.Accent)
	dc.SetLineWidth(s * 0.004)
	dc.DrawRoundedRectangle(margin, margin, s-2*margin, s-2*margin, s*0.03)
	dc.Stroke()

	if kind == KindPortal {
		if err := r.face(dc, s*0.05); err != nil {
			return err
		}
		dc.DrawStringAnchored("11:11", s/2, margin*2.4, 0.5, 0.5)
	}

	if err := r.face(dc, s*0.045); err != nil {
		return err
	}
	dc.SetColor(tpl.Text)
	dc.DrawStringWrapped(text, s/2, s/2, 0.5, 0.5, s-4*margin, 1.5, gg.AlignCenter)

	if err := r.face(dc, s*0.022); err != nil {
		return err
	}
	dc.SetColor(tpl.Accent)
	dc.DrawStringAnchored(Branding, s/2, s-margin*1.8, 0.5, 0.5)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode card: %w", err)
	}
	return nil
}

var (
	goRegular     *truetype.Font
	goRegularErr  error
	goRegularOnce sync.Once
)

func (r *CardRenderer) face(dc *gg.Context, points float64) error {
	if r.FontPath != "" {
		if err := dc.LoadFontFace(r.FontPath, points); err != nil {
			return fmt.Errorf("load font %s: %w", r.FontPath, err)
		}
		return nil
	}
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = truetype.Parse(goregular.TTF)
	})
	if goRegularErr != nil {
		return fmt.Errorf("parse embedded font: %w", goRegularErr)
	}
	dc.SetFontFace(truetype.NewFace(goRegular, &truetype.Options{Size: points}))
	return nil
}

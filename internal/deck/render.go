package deck

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	slideBackground = color.RGBA{R: 24, G: 28, B: 38, A: 255}
	titleColor      = color.RGBA{R: 240, G: 242, B: 246, A: 255}
	bodyColor       = color.RGBA{R: 200, G: 206, B: 216, A: 255}
	accentColor     = color.RGBA{R: 90, G: 160, B: 255, A: 255}
)

// renderer rasterizes slides at a fixed frame size.
type renderer struct {
	width  int
	height int
	title  font.Face
	body   font.Face
	small  font.Face
}

func newRenderer(width, height int) (*renderer, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}

	titleFace, err := opentype.NewFace(bold, &opentype.FaceOptions{Size: 52, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("title face: %w", err)
	}
	bodyFace, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: 28, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("body face: %w", err)
	}
	smallFace, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: 22, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("small face: %w", err)
	}

	return &renderer{
		width:  width,
		height: height,
		title:  titleFace,
		body:   bodyFace,
		small:  smallFace,
	}, nil
}

// render draws one slide. Title slides (intro/outro) center their text;
// topic slides put bullets on the left half and the image, when present,
// on the right half.
func (r *renderer) render(s Slide) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(slideBackground), image.Point{}, draw.Src)

	switch s.Kind {
	case KindTopic:
		r.renderTopic(img, s)
	default:
		r.renderTitleSlide(img, s)
	}
	return img
}

func (r *renderer) renderTitleSlide(img *image.RGBA, s Slide) {
	centerY := r.height / 2
	r.drawCentered(img, r.title, titleColor, centerY-20, s.Title)
	if s.Subtitle != "" {
		r.drawCentered(img, r.body, accentColor, centerY+40, s.Subtitle)
	}
}

func (r *renderer) renderTopic(img *image.RGBA, s Slide) {
	margin := r.width / 24
	r.drawText(img, r.title, titleColor, margin, margin+48, s.Title)

	// Bullets fill the left half, or the full width when no image fits
	textWidth := r.width/2 - margin*2
	if s.Image == "" {
		textWidth = r.width - margin*2
	}

	y := margin + 130
	lineHeight := 34
	for _, bullet := range s.Bullets {
		bullet = strings.TrimSpace(bullet)
		if bullet == "" {
			continue
		}
		for i, line := range r.wrap(r.small, bullet, textWidth) {
			if y > r.height-margin {
				return
			}
			if i == 0 {
				r.drawText(img, r.small, accentColor, margin, y, "-")
			}
			r.drawText(img, r.small, bodyColor, margin+24, y, line)
			y += lineHeight
		}
		y += 6
	}

	if s.Image != "" {
		r.drawSideImage(img, s.Image)
	}
}

// drawSideImage composites the topic image, scaled to fit, into the
// right half of the slide. A broken image file is skipped rather than
// failing the slide, matching how the deck was built upstream.
func (r *renderer) drawSideImage(img *image.RGBA, path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return
	}

	boxW := uint(r.width/2 - r.width/12)
	boxH := uint(r.height - r.height/3)
	scaled := resize.Thumbnail(boxW, boxH, src, resize.Lanczos3)

	b := scaled.Bounds()
	x0 := r.width/2 + (r.width/2-b.Dx())/2
	y0 := (r.height - b.Dy()) / 2
	target := image.Rect(x0, y0, x0+b.Dx(), y0+b.Dy())
	draw.Draw(img, target, scaled, b.Min, draw.Over)
}

func (r *renderer) drawText(img *image.RGBA, face font.Face, col color.Color, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func (r *renderer) drawCentered(img *image.RGBA, face font.Face, col color.Color, y int, text string) {
	for _, line := range r.wrap(face, text, r.width-r.width/8) {
		w := font.MeasureString(face, line).Ceil()
		r.drawText(img, face, col, (r.width-w)/2, y, line)
		y += face.Metrics().Height.Ceil() + 8
	}
}

// wrap breaks text into lines that fit maxWidth when drawn with face.
func (r *renderer) wrap(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = w
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

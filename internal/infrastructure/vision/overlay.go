package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

var (
	colorOrganic   = color.NRGBA{G: 200, A: 255}
	colorInorganic = color.NRGBA{R: 220, A: 255}
	colorUnknown   = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	colorObstacle  = color.NRGBA{R: 255, G: 140, A: 255}
	colorExclusion = color.NRGBA{R: 255, G: 220, A: 255}
	colorSafe      = color.NRGBA{G: 160, A: 255}
	colorWarning   = color.NRGBA{R: 230, G: 160, A: 255}
	colorDanger    = color.NRGBA{R: 200, A: 255}
)

const bannerHeight = 18

// Renderer рисует отчёт поверх кадра: банки, обручи, препятствия с зонами и полосу состояния границы.
type Renderer struct {
	Quality int
}

var _ port.ReportRenderer = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{Quality: 90}
}

// Render возвращает JPEG; исходный кадр не меняется.
func (r *Renderer) Render(img image.Image, report *entity.DetectionReport) ([]byte, error) {
	if img == nil || report == nil {
		return nil, entity.NewImagingError("render", fmt.Errorf("nothing to render"))
	}
	canvas := imaging.Clone(img)
	off := canvas.Bounds().Min

	for _, o := range report.Obstacles {
		strokeRect(canvas, o.ExclusionZone.Rect().Add(off), colorExclusion, 1)
		strokeRect(canvas, o.Box.Rect().Add(off), colorObstacle, 2)
		label(canvas, o.Box.X+off.X, o.Box.Y+off.Y-2, fmt.Sprintf("%s %.0fcm", o.Type, o.DistanceEstimate), colorObstacle)
	}
	for _, c := range report.Containers {
		col := colorInorganic
		if c.Color == entity.ContainerGreen {
			col = colorOrganic
		}
		strokeCircle(canvas, c.Center.X+off.X, c.Center.Y+off.Y, c.Radius, col)
		label(canvas, c.Center.X+off.X-c.Radius, c.Center.Y+off.Y-c.Radius-2,
			fmt.Sprintf("%s %.0fcm %+.0fdeg", c.Color, c.DistanceEstimate, c.BearingDegrees), col)
	}
	for _, c := range report.Cans {
		col := colorUnknown
		switch c.Type {
		case entity.CanOrganic:
			col = colorOrganic
		case entity.CanInorganic:
			col = colorInorganic
		}
		strokeRect(canvas, c.Box.Rect().Add(off), col, 2)
		label(canvas, c.Box.X+off.X, c.Box.Y+off.Y-2, fmt.Sprintf("#%d %s %.2f", c.ID, c.Type, c.Confidence), col)
	}
	banner(canvas, report.Boundary)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: r.Quality}); err != nil {
		return nil, entity.NewImagingError("render", err)
	}
	return buf.Bytes(), nil
}

func banner(img *image.NRGBA, b entity.BoundaryStatus) {
	col := colorSafe
	switch b.State {
	case entity.BoundaryWarning:
		col = colorWarning
	case entity.BoundaryDanger:
		col = colorDanger
	}
	bounds := img.Bounds()
	bar := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, min(bounds.Max.Y, bounds.Min.Y+bannerHeight))
	draw.Draw(img, bar, image.NewUniform(col), image.Point{}, draw.Src)

	text := fmt.Sprintf("boundary %s (raw %s) blue %.0f%%", b.State, b.RawState, b.BlueRatio*100)
	if b.SafeDirectionDegrees != nil {
		text += fmt.Sprintf(" go %+.0fdeg", *b.SafeDirectionDegrees)
	}
	label(img, bounds.Min.X+4, bounds.Min.Y+13, text, color.White)
}

func label(img *image.NRGBA, x, y int, text string, col color.Color) {
	if y < img.Bounds().Min.Y+bannerHeight+11 {
		y = img.Bounds().Min.Y + bannerHeight + 11
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func strokeRect(img *image.NRGBA, r image.Rectangle, col color.Color, width int) {
	src := image.NewUniform(col)
	for i := 0; i < width; i++ {
		rr := r.Inset(i)
		if rr.Empty() {
			return
		}
		draw.Draw(img, image.Rect(rr.Min.X, rr.Min.Y, rr.Max.X, rr.Min.Y+1), src, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(rr.Min.X, rr.Max.Y-1, rr.Max.X, rr.Max.Y), src, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(rr.Min.X, rr.Min.Y, rr.Min.X+1, rr.Max.Y), src, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(rr.Max.X-1, rr.Min.Y, rr.Max.X, rr.Max.Y), src, image.Point{}, draw.Src)
	}
}

func strokeCircle(img *image.NRGBA, cx, cy, radius int, col color.Color) {
	n := int(math.Ceil(2 * math.Pi * float64(radius)))
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		for _, rr := range []int{radius - 1, radius, radius + 1} {
			x := cx + int(math.Round(float64(rr)*math.Cos(a)))
			y := cy + int(math.Round(float64(rr)*math.Sin(a)))
			if (image.Point{X: x, Y: y}).In(img.Bounds()) {
				img.Set(x, y, col)
			}
		}
	}
}

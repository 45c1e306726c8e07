package vision

import (
	"image"
	"math"
	"sort"

	"beach-vision/internal/domain/entity"
)

const (
	houghAngleStep = 10  // шаг голосования в градусах
	houghMinVotes  = 0.3 // доля от 360/houghAngleStep голосов для кандидата
	houghPeakRange = 5   // окрестность локального максимума
	minCircleScore = 0.5 // доля окружности, подтверждённая границей
)

// findCircles преобразование Хафа по граничным пикселям маски. Кандидаты
// проверяются прямым обходом окружности: Score: доля точек окружности,
// попавших на границу. Результат отсортирован по Score, дубликаты с близкими центрами убраны.
func findCircles(mask entity.Mask, minRadius, maxRadius int) []entity.Circle {
	r := mask.Rect
	// внутренняя кромка обруча дала бы вторую концентрическую окружность
	edges := boundaryPixels(fillHoles(mask))
	if len(edges) == 0 {
		return nil
	}
	w, h := r.Dx(), r.Dy()
	isEdge := make([]bool, w*h)
	for _, p := range edges {
		isEdge[(p.Y-r.Min.Y)*w+(p.X-r.Min.X)] = true
	}

	samples := 360 / houghAngleStep
	cosTab := make([]float64, samples)
	sinTab := make([]float64, samples)
	for i := 0; i < samples; i++ {
		a := float64(i*houghAngleStep) * math.Pi / 180
		cosTab[i], sinTab[i] = math.Cos(a), math.Sin(a)
	}
	threshold := int(math.Ceil(float64(samples) * houghMinVotes))

	acc := make([]int32, w*h)
	var candidates []entity.Circle
	for radius := minRadius; radius <= maxRadius; radius++ {
		clear(acc)
		for _, p := range edges {
			for i := 0; i < samples; i++ {
				cx := p.X - r.Min.X - int(math.Round(float64(radius)*cosTab[i]))
				cy := p.Y - r.Min.Y - int(math.Round(float64(radius)*sinTab[i]))
				if cx >= 0 && cx < w && cy >= 0 && cy < h {
					acc[cy*w+cx]++
				}
			}
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := acc[y*w+x]
				if int(v) < threshold || !isPeak(acc, w, h, x, y) {
					continue
				}
				center := image.Pt(x+r.Min.X, y+r.Min.Y)
				score := circleSupport(isEdge, r, center, radius)
				if score < minCircleScore {
					continue
				}
				candidates = append(candidates, entity.Circle{
					Center: entity.Point{X: center.X, Y: center.Y},
					Radius: radius,
					Score:  score,
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Radius > candidates[j].Radius
	})
	return filterDuplicateCircles(candidates)
}

func isPeak(acc []int32, w, h, x, y int) bool {
	v := acc[y*w+x]
	for dy := -houghPeakRange; dy <= houghPeakRange; dy++ {
		for dx := -houghPeakRange; dx <= houghPeakRange; dx++ {
			nx, ny := x+dx, y+dy
			if (dx == 0 && dy == 0) || nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if acc[ny*w+nx] > v {
				return false
			}
		}
	}
	return true
}

// scoreCircle доля окружности c, лежащая на внешней границе маски.
func scoreCircle(mask entity.Mask, c entity.Circle) float64 {
	r := mask.Rect
	isEdge := make([]bool, r.Dx()*r.Dy())
	for _, p := range boundaryPixels(fillHoles(mask)) {
		isEdge[(p.Y-r.Min.Y)*r.Dx()+(p.X-r.Min.X)] = true
	}
	return circleSupport(isEdge, r, image.Pt(c.Center.X, c.Center.Y), c.Radius)
}

// circleSupport доля точек окружности, лежащих на граничных пикселях.
func circleSupport(isEdge []bool, r image.Rectangle, center image.Point, radius int) float64 {
	n := int(math.Ceil(2 * math.Pi * float64(radius)))
	w := r.Dx()
	hits := 0
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x := center.X + int(math.Round(float64(radius)*math.Cos(a)))
		y := center.Y + int(math.Round(float64(radius)*math.Sin(a)))
		if !(image.Point{X: x, Y: y}.In(r)) {
			continue
		}
		if isEdge[(y-r.Min.Y)*w+(x-r.Min.X)] {
			hits++
		}
	}
	return math.Min(float64(hits)/float64(n), 1)
}

// boundaryPixels пиксели переднего плана, у которых есть сосед-фон по 4-связности внутри маски.
func boundaryPixels(mask entity.Mask) []image.Point {
	r := mask.Rect
	var out []image.Point
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !mask.IsSet(x, y) {
				continue
			}
			for _, d := range neighbours4 {
				q := image.Pt(x, y).Add(d)
				if q.In(r) && !mask.IsSet(q.X, q.Y) {
					out = append(out, image.Pt(x, y))
					break
				}
			}
		}
	}
	return out
}

// fillHoles закрашивает фон, не связанный с краем маски.
func fillHoles(mask entity.Mask) entity.Mask {
	r := mask.Rect
	w := r.Dx()
	outside := outsideBackground(mask)

	out := entity.NewMask(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !outside[(y-r.Min.Y)*w+(x-r.Min.X)] {
				out.Mark(x, y)
			}
		}
	}
	return out
}

// outsideBackground фон, достижимый от края кадра по 4-связности. Индекс построчный
// относительно mask.Rect.Min.
func outsideBackground(mask entity.Mask) []bool {
	r := mask.Rect
	w, h := r.Dx(), r.Dy()
	outside := make([]bool, w*h)
	var stack []image.Point
	push := func(p image.Point) {
		i := (p.Y-r.Min.Y)*w + (p.X - r.Min.X)
		if outside[i] || mask.IsSet(p.X, p.Y) {
			return
		}
		outside[i] = true
		stack = append(stack, p)
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		push(image.Pt(x, r.Min.Y))
		push(image.Pt(x, r.Max.Y-1))
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		push(image.Pt(r.Min.X, y))
		push(image.Pt(r.Max.X-1, y))
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range neighbours4 {
			if q := p.Add(d); q.In(r) {
				push(q)
			}
		}
	}
	return outside
}

// filterDuplicateCircles оставляет первую окружность из группы с близкими центрами:
// центры ближе полусуммы радиусов считаются одной окружностью.
func filterDuplicateCircles(circles []entity.Circle) []entity.Circle {
	filtered := make([]entity.Circle, 0, len(circles))
	for _, c := range circles {
		duplicate := false
		for _, f := range filtered {
			dx := float64(c.Center.X - f.Center.X)
			dy := float64(c.Center.Y - f.Center.Y)
			if math.Hypot(dx, dy) < float64(c.Radius+f.Radius)/2 {
				duplicate = true
				break
			}
		}
		if !duplicate {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

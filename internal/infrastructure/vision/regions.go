package vision

import (
	"image"
	"math"

	"beach-vision/internal/domain/entity"
)

// findRegions внешние связные области (8-связность) в порядке обхода строк.
// Области внутри дыр других областей пропускаются. Площадь: число пикселей,
// контур: внешняя граница обходом Мура.
func findRegions(mask entity.Mask) []entity.Region {
	r := mask.Rect
	if r.Empty() {
		return nil
	}
	w := r.Dx()
	visited := make([]bool, w*r.Dy())
	idx := func(p image.Point) int { return (p.Y-r.Min.Y)*w + (p.X - r.Min.X) }
	outside := outsideBackground(mask)
	// внешняя область касается края кадра или фона, достижимого от края
	touchesOutside := func(p image.Point) bool {
		for _, d := range neighbours4 {
			q := p.Add(d)
			if !q.In(r) || outside[idx(q)] {
				return true
			}
		}
		return false
	}

	var (
		regions []entity.Region
		stack   []image.Point
	)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			start := image.Pt(x, y)
			if visited[idx(start)] || !mask.IsSet(x, y) {
				continue
			}

			var (
				area     int
				external bool
				sx, sy   float64
				bounds = image.Rectangle{Min: start, Max: start.Add(image.Pt(1, 1))}
			)
			visited[idx(start)] = true
			stack = append(stack[:0], start)
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				area++
				external = external || touchesOutside(p)
				sx += float64(p.X)
				sy += float64(p.Y)
				bounds = bounds.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
				for _, d := range neighbours8 {
					q := p.Add(d)
					if !q.In(r) || visited[idx(q)] || !mask.IsSet(q.X, q.Y) {
						continue
					}
					visited[idx(q)] = true
					stack = append(stack, q)
				}
			}

			if !external {
				continue
			}
			contour, perimeter := traceBoundary(mask, start)
			regions = append(regions, entity.Region{
				Area:        area,
				ContourArea: entity.ContourArea(contour),
				Perimeter:   perimeter,
				Box:         entity.BoxFromRect(bounds),
				CentroidX:   sx / float64(area),
				CentroidY:   sy / float64(area),
				Contour:     contour,
			})
		}
	}
	return regions
}

// traceBoundary обход Мура по часовой стрелке от верхнего левого пикселя области.
// Останавливается, когда вернулся в начало и собирается повторить первый шаг.
func traceBoundary(mask entity.Mask, start image.Point) ([]image.Point, float64) {
	contour := []image.Point{start}
	// поиск начинается с запада: там заведомо фон
	dir, ok := nextDirection(mask, start, 4)
	if !ok {
		return contour, 0
	}
	first := dir
	cur := start
	var length float64
	limit := 4*mask.Rect.Dx()*mask.Rect.Dy() + 8
	for step := 0; step < limit; step++ {
		cur = cur.Add(neighbours8[dir])
		if dir%2 == 0 {
			length++
		} else {
			length += math.Sqrt2
		}
		back := (dir + 6) % 8
		if dir%2 == 1 {
			back = (dir + 5) % 8
		}
		next, _ := nextDirection(mask, cur, back)
		if cur == start && next == first {
			break
		}
		contour = append(contour, cur)
		dir = next
	}
	return contour, length
}

func nextDirection(mask entity.Mask, p image.Point, from int) (int, bool) {
	for i := 0; i < 8; i++ {
		d := (from + i) % 8
		q := p.Add(neighbours8[d])
		if mask.IsSet(q.X, q.Y) {
			return d, true
		}
	}
	return 0, false
}

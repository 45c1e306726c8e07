package vision

import (
	"image"

	"beach-vision/internal/domain/entity"
)

var neighbours8 = []image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var neighbours4 = []image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// morph эрозия или дилатация квадратным ядром. Квадрат раскладывается на
// горизонтальный и вертикальный проходы. За краем маски при эрозии считается
// передний план, при дилатации: фон, как у OpenCV с границей по умолчанию.
func morph(src entity.Mask, kernelSize, iterations int, erode bool) entity.Mask {
	cur := src.Clone()
	if iterations <= 0 || kernelSize == 1 {
		return cur
	}
	radius := kernelSize / 2
	w, h := cur.Rect.Dx(), cur.Rect.Dy()
	line := make([]uint8, max(w, h))
	prefix := make([]int, max(w, h)+1)

	for i := 0; i < iterations; i++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				line[x] = cur.Pix[cur.PixOffset(cur.Rect.Min.X+x, cur.Rect.Min.Y+y)]
			}
			slide(line[:w], prefix, radius, erode)
			for x := 0; x < w; x++ {
				cur.Pix[cur.PixOffset(cur.Rect.Min.X+x, cur.Rect.Min.Y+y)] = line[x]
			}
		}
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				line[y] = cur.Pix[cur.PixOffset(cur.Rect.Min.X+x, cur.Rect.Min.Y+y)]
			}
			slide(line[:h], prefix, radius, erode)
			for y := 0; y < h; y++ {
				cur.Pix[cur.PixOffset(cur.Rect.Min.X+x, cur.Rect.Min.Y+y)] = line[y]
			}
		}
	}
	return cur
}

// slide одномерный минимум (эрозия) или максимум (дилатация) в окне 2*radius+1.
func slide(line []uint8, prefix []int, radius int, erode bool) {
	n := len(line)
	prefix[0] = 0
	for i, v := range line {
		prefix[i+1] = prefix[i]
		if v != 0 {
			prefix[i+1]++
		}
	}
	for i := 0; i < n; i++ {
		lo, hi := max(0, i-radius), min(n-1, i+radius)
		set := prefix[hi+1] - prefix[lo]
		on := set > 0
		if erode {
			on = set == hi-lo+1
		}
		if on {
			line[i] = 255
		} else {
			line[i] = 0
		}
	}
}

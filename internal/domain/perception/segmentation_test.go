package perception

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"beach-vision/internal/domain/entity"
)

func TestSegmenter_MaskFor_RedWrapsHue(t *testing.T) {
	f := &fakeImaging{}
	seg := newTestSegmenter(f, DefaultConfig())
	img := newHSV(10, 1)
	img.SetHSV(1, 0, hsvRedLo)
	img.SetHSV(2, 0, hsvRedHi)
	img.SetHSV(3, 0, hsvGreen)

	mask, err := seg.MaskFor(img, "red")
	require.NoError(t, err)
	require.True(t, mask.IsSet(1, 0))
	require.True(t, mask.IsSet(2, 0))
	require.False(t, mask.IsSet(3, 0))
	require.Equal(t, 2, mask.Count())
}

func TestSegmenter_MaskFor_UnknownColor(t *testing.T) {
	seg := newTestSegmenter(&fakeImaging{}, DefaultConfig())

	_, err := seg.MaskFor(newHSV(4, 4), "purple")
	requireConfigKey(t, err, "colors.purple")
}

func TestSegmenter_MaskForAll(t *testing.T) {
	seg := newTestSegmenter(&fakeImaging{}, DefaultConfig())
	img := newHSV(20, 20)
	fillHSV(img, image.Rect(0, 0, 10, 20), hsvBlue)

	masks, err := seg.MaskForAll(img)
	require.NoError(t, err)
	require.Len(t, masks, 5)
	require.Equal(t, 200, masks["blue"].Count())
	require.Zero(t, masks["black"].Count())
}

func TestSegmenter_Cleanup(t *testing.T) {
	t.Run("even kernel rounds up", func(t *testing.T) {
		f := &fakeImaging{}
		seg := newTestSegmenter(f, DefaultConfig())
		_, err := seg.Cleanup(entity.NewMask(image.Rect(0, 0, 4, 4)), 4, 1, 2)
		require.NoError(t, err)
		require.Equal(t, []int{5, 5}, f.kernels)
	})

	t.Run("zero iterations skip", func(t *testing.T) {
		f := &fakeImaging{}
		seg := newTestSegmenter(f, DefaultConfig())
		_, err := seg.Cleanup(entity.NewMask(image.Rect(0, 0, 4, 4)), 3, 0, 0)
		require.NoError(t, err)
		require.Zero(t, f.morphCalled)
	})

	t.Run("non-positive kernel", func(t *testing.T) {
		seg := newTestSegmenter(&fakeImaging{}, DefaultConfig())
		_, err := seg.Cleanup(entity.NewMask(image.Rect(0, 0, 4, 4)), 0, 1, 1)
		requireConfigKey(t, err, "morphology.kernel_size")
	})
}

func TestSegmenter_LargestRegion(t *testing.T) {
	f := &fakeImaging{regionsFn: func(entity.Mask) ([]entity.Region, error) {
		return []entity.Region{
			{Area: 10, Box: entity.Box{X: 0}},
			{Area: 30, Box: entity.Box{X: 1}},
			{Area: 30, Box: entity.Box{X: 2}},
		}, nil
	}}
	seg := newTestSegmenter(f, DefaultConfig())

	r, ok, err := seg.LargestRegion(entity.NewMask(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, r.Box.X)

	f.regionsFn = nil
	_, ok, err = seg.LargestRegion(entity.NewMask(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSegmenter_Regions_WrapsBackendError(t *testing.T) {
	f := &fakeImaging{regionsFn: func(entity.Mask) ([]entity.Region, error) {
		return nil, errors.New("bad mask depth")
	}}
	seg := newTestSegmenter(f, DefaultConfig())

	_, err := seg.Regions(entity.NewMask(image.Rect(0, 0, 4, 4)))
	var imgErr *entity.ImagingOperationError
	require.ErrorAs(t, err, &imgErr)
	require.Equal(t, "find_regions", imgErr.Op)
}

func TestCoverageRatio(t *testing.T) {
	mask := entity.NewMask(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		mask.Mark(x, 0)
	}
	require.InDelta(t, 0.1, CoverageRatio(mask), 1e-9)
	require.InDelta(t, 0.5, CoverageRatioOf(mask, 20), 1e-9)
	require.Zero(t, CoverageRatioOf(mask, 0))
	require.Zero(t, CoverageRatio(entity.Mask{}))
}

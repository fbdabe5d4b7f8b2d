package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoRows() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{0, 0, 255, 255})
	return img
}

func TestDecodeRGBA(t *testing.T) {
	data := DecodeRGBA(twoRows(), &ImageParams{})
	assert.Equal(t, uint32(2), data.Width)
	assert.Equal(t, uint32(2), data.Height)
	assert.Equal(t, uint8(4), data.Channels)
	assert.Equal(t, []byte{255, 0, 0, 255}, data.Pixels[:4])
	assert.Equal(t, []byte{0, 0, 255, 255}, data.Pixels[8:12])
}

func TestDecodeRGBAFlip(t *testing.T) {
	data := DecodeRGBA(twoRows(), &ImageParams{FlipY: true})
	assert.Equal(t, []byte{0, 0, 255, 255}, data.Pixels[:4])
	assert.Equal(t, []byte{255, 0, 0, 255}, data.Pixels[8:12])
}

func TestDecodeRGBAMaxDimension(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 32))
	data := DecodeRGBA(src, &ImageParams{MaxDimension: 16})
	assert.Equal(t, uint32(16), data.Width)
	assert.Equal(t, uint32(8), data.Height)
	assert.Len(t, data.Pixels, 16*8*4)

	data = DecodeRGBA(src, &ImageParams{MaxDimension: 128})
	assert.Equal(t, uint32(64), data.Width)
}

func TestImageLoaderLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, twoRows()))
	require.NoError(t, f.Close())

	res, err := (&ImageLoader{}).Load(path, metadata.ResourceTypeImage, nil)
	require.NoError(t, err)
	data := res.Data.(*metadata.ImageData)
	assert.Equal(t, uint64(16), res.DataSize)
	assert.Equal(t, []byte{255, 0, 0, 255}, data.Pixels[:4])

	_, err = (&ImageLoader{}).Load(filepath.Join(t.TempDir(), "missing.png"), metadata.ResourceTypeImage, nil)
	assert.Error(t, err)
}

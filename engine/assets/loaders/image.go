package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

type ImageParams struct {
	// FlipY stores the bottom row first.
	FlipY bool
	// MaxDimension downscales images whose larger side exceeds it. Zero keeps the source size.
	MaxDimension uint32
}

type ImageLoader struct{}

func (il *ImageLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	p := &ImageParams{}
	if typed, ok := params.(*ImageParams); ok && typed != nil {
		p = typed
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		err = fmt.Errorf("failed to decode image %s: %w", path, err)
		core.LogError("%s", err)
		return nil, err
	}
	core.LogDebug("decoded %s image %s (%dx%d)", format, path, src.Bounds().Dx(), src.Bounds().Dy())

	data := DecodeRGBA(src, p)
	return &metadata.Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     metadata.ResourceTypeImage,
		DataSize: uint64(len(data.Pixels)),
		Data:     data,
	}, nil
}

func (il *ImageLoader) Unload(r *metadata.Resource) error {
	r.Data = nil
	return nil
}

// DecodeRGBA converts src to tightly packed RGBA8 applying the scaling and flip options.
func DecodeRGBA(src image.Image, p *ImageParams) *metadata.ImageData {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if p.MaxDimension > 0 {
		longest := max(w, h)
		if longest > int(p.MaxDimension) {
			w = max(1, w*int(p.MaxDimension)/longest)
			h = max(1, h*int(p.MaxDimension)/longest)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	if p.FlipY {
		row := make([]byte, dst.Stride)
		for y := 0; y < h/2; y++ {
			top := dst.Pix[y*dst.Stride : (y+1)*dst.Stride]
			bottom := dst.Pix[(h-1-y)*dst.Stride : (h-y)*dst.Stride]
			copy(row, top)
			copy(top, bottom)
			copy(bottom, row)
		}
	}

	return &metadata.ImageData{
		Width:    uint32(w),
		Height:   uint32(h),
		Channels: 4,
		Pixels:   dst.Pix,
	}
}

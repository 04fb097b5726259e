package render

import (
	"image"
	"image/color"
)

// blendFunc combines one premultiplied destination channel d with source
// channel s at coverage m (all 0..255).
type blendFunc func(d, s, m uint32) uint8

func lerp(d, s, m uint32) uint8 {
	return uint8((s*m + d*(255-m) + 127) / 255)
}

func difference(d, s, m uint32) uint8 {
	diff := d - s
	if s > d {
		diff = s - d
	}
	return uint8((diff*m + d*(255-m) + 127) / 255)
}

// blend applies f to every pixel in area with non-zero mask coverage. With
// withAlpha unset the destination alpha is kept, raised only as far as needed
// to stay a valid premultiplied colour.
func blend(dst *image.RGBA, area image.Rectangle, mask *image.Alpha, col color.RGBA, f blendFunc, withAlpha bool) {
	src := [4]uint32{uint32(col.R), uint32(col.G), uint32(col.B), uint32(col.A)}
	channels := 3
	if withAlpha {
		channels = 4
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			m := uint32(mask.AlphaAt(x, y).A)
			if m == 0 {
				continue
			}
			i := dst.PixOffset(x, y)
			px := dst.Pix[i : i+4 : i+4]
			for c := 0; c < channels; c++ {
				px[c] = f(uint32(px[c]), src[c], m)
			}
			if !withAlpha {
				for c := 0; c < 3; c++ {
					if px[c] > px[3] {
						px[3] = px[c]
					}
				}
			}
		}
	}
}

// Package clipboard moves images and text through the desktop clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/example/rasterpad/internal/codec"
)

// ErrEmpty is returned when the clipboard holds nothing of the requested
// kind.
var ErrEmpty = errors.New("clipboard is empty")

// System is the desktop clipboard as a value, for callers that take the
// clipboard as an interface.
type System struct{}

func (System) ReadImage() (image.Image, error) { return ReadImage() }
func (System) WriteImage(img image.Image) error { return WriteImage(img) }
func (System) ReadText() (string, error) { return ReadText() }
func (System) WriteText(s string) error { return WriteText(s) }

// Images are published as PNG.
func encodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, img, codec.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeImage accepts any format the codec reads, since other programs
// may offer BMP, TIFF or JPEG.
func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("read image: %w", ErrEmpty)
	}
	img, _, err := codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return img, nil
}

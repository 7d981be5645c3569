package preprocess

import (
	"bytes"
	"errors"
	"image"
	"image/color"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyImage = errors.New("image data is empty")
	ErrNoPixels   = errors.New("image has no pixels")
)

// DecodeError is returned when the uploaded bytes cannot be turned into an
// image. Its message is the decoder's own message.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode decodes data with any registered image format and returns the
// format name reported by the decoder.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", &DecodeError{Err: ErrEmptyImage}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}

	if img.Bounds().Empty() {
		return nil, "", &DecodeError{Err: ErrNoPixels}
	}

	return img, format, nil
}

// ToRGB drops the alpha channel of img. Colour is taken un-premultiplied, so
// a fully transparent pixel keeps whatever colour it was stored with.
func ToRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := dst.PixOffset(x-bounds.Min.X, y-bounds.Min.Y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 0xff
		}
	}

	return dst
}

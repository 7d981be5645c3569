// Package preprocess turns uploaded image bytes into the normalized input
// tensor expected by a detection model.
package preprocess

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
)

const (
	Channels = 3
	Size     = 224
)

// Per-channel normalization constants, in R, G, B order.
var (
	Mean = [Channels]float32{0.485, 0.456, 0.406}
	Std  = [Channels]float32{0.229, 0.224, 0.225}
)

// Tensor holds a Channels x Size x Size image in planar (CHW) layout.
type Tensor struct {
	Data []float32
}

func NewTensor() *Tensor {
	return &Tensor{Data: make([]float32, Channels*Size*Size)}
}

func (t *Tensor) Shape() [3]int {
	return [3]int{Channels, Size, Size}
}

func (t *Tensor) At(c, y, x int) float32 {
	return t.Data[c*Size*Size+y*Size+x]
}

func (t *Tensor) set(c, y, x int, v float32) {
	t.Data[c*Size*Size+y*Size+x] = v
}

// ChannelMean returns the average value of channel c.
func (t *Tensor) ChannelMean(c int) float32 {
	plane := t.Data[c*Size*Size : (c+1)*Size*Size]

	var sum float64
	for _, v := range plane {
		sum += float64(v)
	}

	return float32(sum / float64(len(plane)))
}

// Normalize maps a [0,1] intensity of channel c to model space.
func Normalize(c int, v float32) float32 {
	return (v - Mean[c]) / Std[c]
}

// Preprocess decodes data and converts it into a normalized tensor. Any
// decoding failure is reported as a *DecodeError.
func Preprocess(data []byte) (*Tensor, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return FromImage(img), nil
}

// FromImage resizes img to Size x Size, ignoring its aspect ratio, and
// normalizes every channel.
func FromImage(img image.Image) *Tensor {
	resized := resize(ToRGB(img))

	tensor := NewTensor()
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			i := resized.PixOffset(x, y)
			for c := 0; c < Channels; c++ {
				v := float32(resized.Pix[i+c]) / 255
				tensor.set(c, y, x, Normalize(c, v))
			}
		}
	}

	return tensor
}

func resize(img *image.RGBA) *image.RGBA {
	if img.Bounds().Dx() == Size && img.Bounds().Dy() == Size {
		return img
	}

	return transform.Resize(img, Size, Size, transform.Linear)
}

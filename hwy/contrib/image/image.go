// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package image

import (
	"fmt"
	"unsafe"

	"github.com/ajroetker/go-blur/hwy"
	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// Component is the set of pixel component types the blur engine accepts.
type Component interface {
	uint8 | uint16 | hwy.Float16 | float32
}

// Channels is the number of interleaved components per pixel.
type Channels int

const (
	Plane Channels = 1
	RGB   Channels = 3
	RGBA  Channels = 4
)

// Valid reports whether c is one of Plane, RGB or RGBA.
func (c Channels) Valid() bool {
	return c == Plane || c == RGB || c == RGBA
}

func (c Channels) String() string {
	switch c {
	case Plane:
		return "plane"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	default:
		return fmt.Sprintf("channels(%d)", int(c))
	}
}

var (
	// ErrDimensions is returned for negative widths or heights.
	ErrDimensions = errors.New("image: invalid dimensions")
	// ErrChannels is returned for channel counts other than 1, 3 or 4.
	ErrChannels = errors.New("image: unsupported channel count")
	// ErrStride is returned when a row cannot hold width*channels components.
	ErrStride = errors.New("image: stride smaller than row length")
	// ErrBufferTooSmall is returned when the backing slice is shorter than
	// the last row it must contain.
	ErrBufferTooSmall = errors.New("image: buffer too small")
)

// Image is an interleaved 2D image with an explicit row stride.
// Row y starts at pix[y*stride] and holds width*channels components;
// anything between the row length and the stride is padding and is never
// touched by the blur passes.
type Image[T Component] struct {
	pix      []T
	width    int
	height   int
	stride   int // components per row, including padding
	channels Channels
}

// NewImage allocates an image with rows padded to a multiple of the SIMD
// lane count for T at the current dispatch level.
func NewImage[T Component](width, height int, channels Channels) *Image[T] {
	if width <= 0 || height <= 0 {
		return &Image[T]{channels: channels}
	}

	lanes := hwy.CurrentWidth() / int(unsafe.Sizeof(*new(T)))
	rowLen := width * int(channels)
	stride := rowLen
	if lanes > 1 {
		stride = ((rowLen + lanes - 1) / lanes) * lanes
	}

	return &Image[T]{
		pix:      make([]T, stride*height),
		width:    width,
		height:   height,
		stride:   stride,
		channels: channels,
	}
}

// FromSlice wraps a caller-owned buffer without copying. The result is not
// validated; call Validate before handing it to code that indexes rows.
func FromSlice[T Component](pix []T, width, height, stride int, channels Channels) *Image[T] {
	return &Image[T]{
		pix:      pix,
		width:    width,
		height:   height,
		stride:   stride,
		channels: channels,
	}
}

// Width returns the image width in pixels.
func (img *Image[T]) Width() int {
	return img.width
}

// Height returns the image height in pixels.
func (img *Image[T]) Height() int {
	return img.height
}

// Stride returns the number of components per row (including padding).
func (img *Image[T]) Stride() int {
	return img.stride
}

// Channels returns the number of interleaved components per pixel.
func (img *Image[T]) Channels() Channels {
	return img.channels
}

// RowLen returns the number of meaningful components per row.
func (img *Image[T]) RowLen() int {
	return img.width * int(img.channels)
}

// Pix returns the backing slice.
func (img *Image[T]) Pix() []T {
	return img.pix
}

// Empty reports whether the image has no pixels.
func (img *Image[T]) Empty() bool {
	return img.width == 0 || img.height == 0
}

// Validate checks the layout invariants the blur passes rely on.
func (img *Image[T]) Validate() error {
	if img.width < 0 || img.height < 0 {
		return errors.Wrapf(ErrDimensions, "%dx%d", img.width, img.height)
	}
	if !img.channels.Valid() {
		return errors.Wrapf(ErrChannels, "%d", int(img.channels))
	}
	if img.Empty() {
		return nil
	}
	if img.stride < img.RowLen() {
		return errors.Wrapf(ErrStride, "stride %d, row length %d", img.stride, img.RowLen())
	}
	// The last row may omit its padding.
	if need := img.stride*(img.height-1) + img.RowLen(); len(img.pix) < need {
		return errors.Wrapf(ErrBufferTooSmall, "have %d components, need %d", len(img.pix), need)
	}
	return nil
}

// Row returns the slice for row y including padding. The last row is cut
// at the end of the buffer when the buffer omits its padding.
func (img *Image[T]) Row(y int) []T {
	if y < 0 || y >= img.height || img.pix == nil {
		return nil
	}
	start := y * img.stride
	return img.pix[start:min(start+img.stride, len(img.pix))]
}

// RowSlice returns the meaningful width*channels components of row y.
func (img *Image[T]) RowSlice(y int) []T {
	if y < 0 || y >= img.height || img.pix == nil {
		return nil
	}
	start := y * img.stride
	return img.pix[start : start+img.RowLen()]
}

// Rows returns the sub-slice owning rows [y0, y1): it starts at row y0 and
// ends after the last meaningful component of row y1-1. Slices for disjoint
// row ranges never overlap, and their capacity is capped so appends cannot
// reach a neighbour's rows.
func (img *Image[T]) Rows(y0, y1 int) []T {
	if y0 < 0 || y1 > img.height || y0 >= y1 {
		return nil
	}
	start := y0 * img.stride
	end := (y1-1)*img.stride + img.RowLen()
	return img.pix[start:end:end]
}

// At returns component c of pixel (x, y).
func (img *Image[T]) At(x, y, c int) T {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || c < 0 || c >= int(img.channels) {
		var zero T
		return zero
	}
	return img.pix[y*img.stride+x*int(img.channels)+c]
}

// Set sets component c of pixel (x, y).
func (img *Image[T]) Set(x, y, c int, value T) {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || c < 0 || c >= int(img.channels) {
		return
	}
	img.pix[y*img.stride+x*int(img.channels)+c] = value
}

// SameShape returns true if both images have the same dimensions and
// channel count. Strides may differ.
func SameShape[T, U Component](a *Image[T], b *Image[U]) bool {
	return a.width == b.width && a.height == b.height && a.channels == b.channels
}

// Clone creates a deep copy of the image with the same stride.
func (img *Image[T]) Clone() *Image[T] {
	clone := &Image[T]{
		width:    img.width,
		height:   img.height,
		stride:   img.stride,
		channels: img.channels,
	}
	if img.pix != nil {
		clone.pix = make([]T, len(img.pix))
		copy(clone.pix, img.pix)
	}
	return clone
}

// Fill sets every meaningful component to value. Padding is left alone.
func (img *Image[T]) Fill(value T) {
	for y := range img.height {
		row := img.RowSlice(y)
		for i := range row {
			row[i] = value
		}
	}
}

// Digest returns the xxHash64 of the meaningful components, row by row.
// Padding does not contribute, so images with different strides but the
// same pixels hash the same. The value depends on host byte order.
func (img *Image[T]) Digest() uint64 {
	d := xxhash.New()
	size := int(unsafe.Sizeof(*new(T)))
	for y := range img.height {
		row := img.RowSlice(y)
		if len(row) == 0 {
			continue
		}
		_, _ = d.Write(unsafe.Slice((*byte)(unsafe.Pointer(&row[0])), len(row)*size))
	}
	return d.Sum64()
}

// Equal reports whether a and b have the same shape and components.
func Equal[T Component](a, b *Image[T]) bool {
	if !SameShape(a, b) {
		return false
	}
	for y := range a.height {
		ra, rb := a.RowSlice(y), b.RowSlice(y)
		for i := range ra {
			if ra[i] != rb[i] {
				return false
			}
		}
	}
	return true
}

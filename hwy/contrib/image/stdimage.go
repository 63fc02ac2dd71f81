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
	stdimage "image"

	"github.com/ajroetker/go-blur/hwy"
	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
)

// FromRGBA converts any image to premultiplied 8-bit RGBA. The result wraps
// the pixel buffer of the converted copy, so it does not alias src.
func FromRGBA(src stdimage.Image) *Image[uint8] {
	rgba := clone.AsRGBA(src)
	b := rgba.Bounds()
	return FromSlice(rgba.Pix, b.Dx(), b.Dy(), rgba.Stride, RGBA)
}

// FromNRGBA converts any image to non-premultiplied 8-bit RGBA.
func FromNRGBA(src stdimage.Image) *Image[uint8] {
	nrgba := imaging.Clone(src)
	b := nrgba.Bounds()
	return FromSlice(nrgba.Pix, b.Dx(), b.Dy(), nrgba.Stride, RGBA)
}

// FromGray converts any image to an 8-bit single plane.
func FromGray(src stdimage.Image) *Image[uint8] {
	b := src.Bounds()
	gray := stdimage.NewGray(stdimage.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(gray, gray.Bounds(), src, b.Min, xdraw.Src)
	return FromSlice(gray.Pix, b.Dx(), b.Dy(), gray.Stride, Plane)
}

// FromRGBA64 converts any image to premultiplied 16-bit RGBA.
func FromRGBA64(src stdimage.Image) *Image[uint16] {
	b := src.Bounds()
	rgba := stdimage.NewRGBA64(stdimage.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), src, b.Min, xdraw.Src)

	img := NewImage[uint16](b.Dx(), b.Dy(), RGBA)
	for y := range img.height {
		in := rgba.Pix[y*rgba.Stride:]
		out := img.RowSlice(y)
		for i := range out {
			out[i] = uint16(in[2*i])<<8 | uint16(in[2*i+1])
		}
	}
	return img
}

// ToRGBA copies a 4-channel 8-bit image into a new *image.RGBA.
func ToRGBA(img *Image[uint8]) (*stdimage.RGBA, error) {
	if img.channels != RGBA {
		return nil, errors.Wrapf(ErrChannels, "ToRGBA needs rgba, have %v", img.channels)
	}
	dst := stdimage.NewRGBA(stdimage.Rect(0, 0, img.width, img.height))
	for y := range img.height {
		copy(dst.Pix[y*dst.Stride:], img.RowSlice(y))
	}
	return dst, nil
}

// ToNRGBA copies a 4-channel 8-bit image into a new *image.NRGBA.
func ToNRGBA(img *Image[uint8]) (*stdimage.NRGBA, error) {
	if img.channels != RGBA {
		return nil, errors.Wrapf(ErrChannels, "ToNRGBA needs rgba, have %v", img.channels)
	}
	dst := stdimage.NewNRGBA(stdimage.Rect(0, 0, img.width, img.height))
	for y := range img.height {
		copy(dst.Pix[y*dst.Stride:], img.RowSlice(y))
	}
	return dst, nil
}

// ToGray copies a single-plane 8-bit image into a new *image.Gray.
func ToGray(img *Image[uint8]) (*stdimage.Gray, error) {
	if img.channels != Plane {
		return nil, errors.Wrapf(ErrChannels, "ToGray needs plane, have %v", img.channels)
	}
	dst := stdimage.NewGray(stdimage.Rect(0, 0, img.width, img.height))
	for y := range img.height {
		copy(dst.Pix[y*dst.Stride:], img.RowSlice(y))
	}
	return dst, nil
}

// ToRGBA64 copies a 4-channel 16-bit image into a new *image.RGBA64.
func ToRGBA64(img *Image[uint16]) (*stdimage.RGBA64, error) {
	if img.channels != RGBA {
		return nil, errors.Wrapf(ErrChannels, "ToRGBA64 needs rgba, have %v", img.channels)
	}
	dst := stdimage.NewRGBA64(stdimage.Rect(0, 0, img.width, img.height))
	for y := range img.height {
		out := dst.Pix[y*dst.Stride:]
		for i, v := range img.RowSlice(y) {
			out[2*i] = uint8(v >> 8)
			out[2*i+1] = uint8(v)
		}
	}
	return dst, nil
}

// Convert copies src into a new image of component type U. Values are
// converted numerically without rescaling: 255 as uint8 becomes 255.0 as
// float32. Conversions into integer types round to nearest and saturate.
func Convert[U, T Component](src *Image[T]) *Image[U] {
	dst := NewImage[U](src.width, src.height, src.channels)
	from := toFloat64[T]()
	to := fromFloat64[U]()
	for y := range src.height {
		in, out := src.RowSlice(y), dst.RowSlice(y)
		for i, v := range in {
			out[i] = to(from(v))
		}
	}
	return dst
}

func toFloat64[T Component]() func(T) float64 {
	switch any(*new(T)).(type) {
	case hwy.Float16:
		return func(v T) float64 { return hwy.Float16(v).Float64() }
	default:
		return func(v T) float64 { return float64(v) }
	}
}

func fromFloat64[T Component]() func(float64) T {
	switch any(*new(T)).(type) {
	case uint8:
		return func(v float64) T { return T(saturate(v, 255)) }
	case uint16:
		return func(v float64) T { return T(saturate(v, 65535)) }
	case hwy.Float16:
		return func(v float64) T { return T(hwy.NewFloat16FromFloat64(v)) }
	default:
		return func(v float64) T { return T(v) }
	}
}

func saturate(v, hi float64) float64 {
	v += 0.5
	if v <= 0 {
		return 0
	}
	if v >= hi {
		return hi
	}
	return float64(int64(v))
}

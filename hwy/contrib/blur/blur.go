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

package blur

import (
	"fmt"

	"github.com/ajroetker/go-blur/hwy/contrib/image"
	"github.com/ajroetker/go-blur/hwy/contrib/workerpool"
	"github.com/pkg/errors"
)

// Precision selects the arithmetic of GaussianBlur.
type Precision int

const (
	// Exact convolves in float32 and rounds once per pass.
	Exact Precision = iota
	// Integral convolves uint8 and uint16 images with Q14 fixed-point
	// weights. On uint8 it may differ from Exact by one unit per pass.
	// Kernels Q14 cannot represent to within half a uint8 step, such as
	// very wide ones, use Exact instead. Float images always use Exact.
	Integral
)

func (p Precision) String() string {
	switch p {
	case Exact:
		return "exact"
	case Integral:
		return "integral"
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

// Options configures a blur call. The zero value clamps at the borders,
// picks the thread count from the image area, runs waves on scoped
// goroutines and uses the executor for the detected CPU.
type Options struct {
	// Edge resolves taps outside the image.
	Edge EdgeMode
	// Fill is the per-channel border value for EdgeConstant, in component
	// units (0..255 for uint8, 0..65535 for uint16). Values are rounded and
	// saturated to the component type.
	Fill [4]float64
	// Threading sets the number of bands per wave.
	Threading ThreadingPolicy
	// Pool, when set, runs the waves on a persistent worker pool instead of
	// per-call goroutines.
	Pool *workerpool.Pool
	// Precision applies to GaussianBlur only.
	Precision Precision
	// Executor overrides the vertical pass executor. The zero value means
	// DefaultExecutor.
	Executor Executor
}

// Validate reports the first invalid field.
func (o Options) Validate() error {
	if !o.Edge.Valid() {
		return errors.Wrapf(ErrEdgeMode, "edge mode %d", int(o.Edge))
	}
	if err := o.Threading.Validate(); err != nil {
		return err
	}
	if o.Precision != Exact && o.Precision != Integral {
		return errors.Wrapf(ErrPrecision, "precision %d", int(o.Precision))
	}
	return nil
}

func (o Options) executor() Executor {
	if o.Executor.valid() {
		return o.Executor
	}
	return DefaultExecutor
}

// CheckImages validates the layout of src and dst and checks that they
// have the same shape. Every blur function panics with this error when it
// is non-nil; call it first to handle bad input gracefully.
func CheckImages[T image.Component](src, dst *image.Image[T]) error {
	if src == nil || dst == nil {
		return errors.Wrap(ErrDimensions, "nil image")
	}
	if err := src.Validate(); err != nil {
		return errors.WithMessage(err, "source")
	}
	if err := dst.Validate(); err != nil {
		return errors.WithMessage(err, "destination")
	}
	if !image.SameShape(src, dst) {
		return errors.Wrapf(ErrSizeMismatch, "%dx%dx%d into %dx%dx%d",
			src.Width(), src.Height(), int(src.Channels()),
			dst.Width(), dst.Height(), int(dst.Channels()))
	}
	return nil
}

// GaussianBlur convolves src with a sampled gaussian of kernelSize taps
// and writes the result to dst, which may be src.
//
// A non-positive kernelSize is derived from sigma as 2*ceil(3*sigma)+1; if
// sigma is not positive either, the image is copied unchanged. Even sizes
// are rounded up to the next odd size. A non-positive sigma is derived from
// kernelSize.
func GaussianBlur[T image.Component](src, dst *image.Image[T], kernelSize int, sigma float64, opts Options) {
	if kernelSize <= 0 {
		if sigma <= 0 {
			copyImage(src, dst)
			return
		}
		kernelSize = KernelSizeForSigma(sigma)
	}
	if kernelSize%2 == 0 {
		kernelSize++
	}
	if sigma <= 0 {
		sigma = DefaultSigma(kernelSize)
	}
	k := NewGaussianKernel(kernelSize/2, sigma)

	if _, integer := componentMax[T](); integer && opts.Precision == Integral {
		fk := QuantizeKernel(k)
		e := FixedError(k, fk)
		if e <= maxFixedError {
			separable(fmt.Sprintf("gaussian(%d, %.3g, integral)", kernelSize, sigma), src, dst, opts,
				func(dim int) linePass[T] { return newFixedConvPass[T](fk, dim, opts.Edge) })
			return
		}
		Logger().Debug("blur: kernel too wide for fixed point, using exact",
			"size", kernelSize, "sigma", sigma, "error", e)
	}
	separable(fmt.Sprintf("gaussian(%d, %.3g)", kernelSize, sigma), src, dst, opts,
		func(dim int) linePass[T] { return newConvPass[T](k, dim, opts.Edge) })
}

// ConvolveBlur filters src with k along both axes and writes the result to
// dst, which may be src. It always uses exact float32 arithmetic.
func ConvolveBlur[T image.Component](src, dst *image.Image[T], k Kernel, opts Options) {
	k.check()
	separable(fmt.Sprintf("convolve(%d)", len(k.Weights)), src, dst, opts,
		func(dim int) linePass[T] { return newConvPass[T](k, dim, opts.Edge) })
}

// BoxBlur averages the (2*radius+1)^2 neighborhood of every pixel. Integer
// components round halves up. Radius 0 copies src to dst.
func BoxBlur[T image.Component](src, dst *image.Image[T], radius int, opts Options) {
	if radius < 0 {
		panic(fmt.Sprintf("blur: negative box radius %d", radius))
	}
	if radius == 0 {
		copyImage(src, dst)
		return
	}
	separable(fmt.Sprintf("box(%d)", radius), src, dst, opts,
		func(int) linePass[T] { return newBoxPass[T](radius, opts.Edge) })
}

// TentBlur applies BoxBlur twice, which gives triangular weights of width
// 4*radius+1 along each axis.
func TentBlur[T image.Component](src, dst *image.Image[T], radius int, opts Options) {
	BoxBlur(src, dst, radius, opts)
	BoxBlur(dst, dst, radius, opts)
}

// GaussianBoxBlur approximates a gaussian of the given sigma with three box
// blurs whose widths come from BoxesForGauss. Sigma <= 0 copies src to dst.
func GaussianBoxBlur[T image.Component](src, dst *image.Image[T], sigma float64, opts Options) {
	if sigma <= 0 {
		copyImage(src, dst)
		return
	}
	in := src
	for _, size := range BoxesForGauss(sigma, 3) {
		BoxBlur(in, dst, (size-1)/2, opts)
		in = dst
	}
	if in == src {
		copyImage(src, dst)
	}
}

// FastGaussianBlur approximates a gaussian by a box of width radius applied
// twice along each axis, in O(1) per pixel. Radius is clamped to at least
// 1. Radii above MaxFastGaussianRadius(2) run as an exact convolution with
// the same weights.
func FastGaussianBlur[T image.Component](src, dst *image.Image[T], radius int, opts Options) {
	fastGaussian(src, dst, radius, 2, opts)
}

// FastGaussianNextBlur is FastGaussianBlur with the box applied three
// times, which is closer to a gaussian. Radii above MaxFastGaussianRadius(3)
// run as an exact convolution with the same weights.
func FastGaussianNextBlur[T image.Component](src, dst *image.Image[T], radius int, opts Options) {
	fastGaussian(src, dst, radius, 3, opts)
}

func fastGaussian[T image.Component](src, dst *image.Image[T], radius, order int, opts Options) {
	radius = max(radius, 1)
	if limit := MaxFastGaussianRadius(order); radius > limit {
		Logger().Debug("blur: fast gaussian radius exceeds history, using convolution",
			"radius", radius, "order", order, "max", limit)
		ConvolveBlur(src, dst, FastGaussianKernel(radius, order), opts)
		return
	}
	separable(fmt.Sprintf("fastgaussian(%d, order %d)", radius, order), src, dst, opts,
		func(int) linePass[T] { return newFastGaussianPass[T](radius, order, opts.Edge) })
}

// StackBlur filters with triangular weights r+1-|d| along each axis, in
// O(1) per pixel. Radii below MinStackRadius are raised to it.
func StackBlur[T image.Component](src, dst *image.Image[T], radius int, opts Options) {
	if radius < MinStackRadius {
		Logger().Debug("blur: stack blur radius raised", "radius", radius, "min", MinStackRadius)
		radius = MinStackRadius
	}
	separable(fmt.Sprintf("stack(%d)", radius), src, dst, opts,
		func(int) linePass[T] { return newStackBlurPass[T](radius, opts.Edge) })
}

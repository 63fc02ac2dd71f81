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
	"bytes"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/ajroetker/go-blur/hwy/contrib/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refFilter is an integer kernel applied by brute force: every output is
// sum(weights[i] * x[p-anchor+i]) divided by norm, rounding halves up.
type refFilter struct {
	weights []int64
	anchor  int
	norm    int64
}

func boxRef(r int) refFilter {
	w := make([]int64, 2*r+1)
	for i := range w {
		w[i] = 1
	}
	return refFilter{weights: w, anchor: r, norm: int64(2*r + 1)}
}

func stackRef(r int) refFilter {
	w := make([]int64, 2*r+1)
	for i := range w {
		d := i - r
		w[i] = int64(r + 1 - max(d, -d))
	}
	return refFilter{weights: w, anchor: r, norm: int64((r + 1) * (r + 1))}
}

func fastGaussianRef(r, order int) refFilter {
	w := []int64{1}
	norm := int64(1)
	for range order {
		next := make([]int64, len(w)+r-1)
		for i, v := range w {
			for j := range r {
				next[i+j] += v
			}
		}
		w = next
		norm *= int64(r)
	}
	return refFilter{weights: w, anchor: fastGaussianAnchor(r, order), norm: norm}
}

// refApply filters rows then columns, rounding after each pass like the
// engine does. fill holds the EdgeConstant value per channel.
func refApply[T uint8 | uint16](f refFilter, src *image.Image[T], edge EdgeMode, fill []int64) *image.Image[T] {
	w, h, ch := src.Width(), src.Height(), int(src.Channels())
	hi := int64(^T(0))
	round := func(s int64) int64 { return min((s+f.norm/2)/f.norm, hi) }

	tmp := make([]int64, w*h*ch)
	for y := range h {
		for x := range w {
			for c := range ch {
				var s int64
				for i, wt := range f.weights {
					v := fill[c]
					if q, ok := Resolve(x-f.anchor+i, w, edge); ok {
						v = int64(src.At(q, y, c))
					}
					s += wt * v
				}
				tmp[(y*w+x)*ch+c] = round(s)
			}
		}
	}

	out := image.NewImage[T](w, h, src.Channels())
	for y := range h {
		for x := range w {
			for c := range ch {
				var s int64
				for i, wt := range f.weights {
					v := fill[c]
					if q, ok := Resolve(y-f.anchor+i, h, edge); ok {
						v = tmp[(q*w+x)*ch+c]
					}
					s += wt * v
				}
				out.Set(x, y, c, T(round(s)))
			}
		}
	}
	return out
}

// refConvolve is the float64 brute-force counterpart of ConvolveBlur.
func refConvolve(k Kernel, src *image.Image[float32], edge EdgeMode, fill []float64) *image.Image[float32] {
	w, h, ch := src.Width(), src.Height(), int(src.Channels())
	tmp := make([]float32, w*h*ch)
	for y := range h {
		for x := range w {
			for c := range ch {
				var s float64
				for i, wt := range k.Weights {
					v := fill[c]
					if q, ok := Resolve(x-k.Anchor+i, w, edge); ok {
						v = float64(src.At(q, y, c))
					}
					s += float64(wt) * v
				}
				tmp[(y*w+x)*ch+c] = float32(s)
			}
		}
	}
	out := image.NewImage[float32](w, h, src.Channels())
	for y := range h {
		for x := range w {
			for c := range ch {
				var s float64
				for i, wt := range k.Weights {
					v := fill[c]
					if q, ok := Resolve(y-k.Anchor+i, h, edge); ok {
						v = float64(tmp[(q*w+x)*ch+c])
					}
					s += float64(wt) * v
				}
				out.Set(x, y, c, float32(s))
			}
		}
	}
	return out
}

func randomImage[T uint8 | uint16](rng *rand.Rand, w, h int, ch image.Channels) *image.Image[T] {
	img := image.NewImage[T](w, h, ch)
	hi := uint64(^T(0))
	for y := range h {
		row := img.RowSlice(y)
		for i := range row {
			row[i] = T(rng.Uint64N(hi + 1))
		}
	}
	return img
}

func randomFloatImage(rng *rand.Rand, w, h int, ch image.Channels) *image.Image[float32] {
	img := image.NewImage[float32](w, h, ch)
	for y := range h {
		row := img.RowSlice(y)
		for i := range row {
			row[i] = rng.Float32()
		}
	}
	return img
}

var (
	testFill    = [4]float64{200, 13, 90, 255}
	testFillInt = []int64{200, 13, 90, 255}
)

func requireSameImage[T image.Component](t *testing.T, want, got *image.Image[T], msg string) {
	t.Helper()
	require.True(t, image.SameShape(want, got), msg)
	for y := range want.Height() {
		require.Equal(t, want.RowSlice(y), got.RowSlice(y), "%s row %d", msg, y)
	}
}

func requireClose(t *testing.T, want, got *image.Image[float32], tol float64, msg string) {
	t.Helper()
	for y := range want.Height() {
		a, b := want.RowSlice(y), got.RowSlice(y)
		for i := range a {
			require.InDelta(t, a[i], b[i], tol, "%s row %d index %d", msg, y, i)
		}
	}
}

func TestBoxBlurMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for _, ch := range []image.Channels{image.Plane, image.RGB} {
		src := randomImage[uint8](rng, 16, 16, ch)
		for _, edge := range allEdgeModes {
			for r := 1; r <= 7; r++ {
				name := fmt.Sprintf("%v/%v/r=%d", ch, edge, r)
				dst := image.NewImage[uint8](16, 16, ch)
				BoxBlur(src, dst, r, Options{Edge: edge, Fill: testFill, Threading: Single})
				requireSameImage(t, refApply(boxRef(r), src, edge, testFillInt), dst, name)
			}
		}
	}
}

func TestBoxBlurUint16MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	src := randomImage[uint16](rng, 13, 9, image.RGBA)
	for _, edge := range allEdgeModes {
		dst := image.NewImage[uint16](13, 9, image.RGBA)
		BoxBlur(src, dst, 4, Options{Edge: edge, Fill: testFill})
		requireSameImage(t, refApply(boxRef(4), src, edge, testFillInt), dst, edge.String())
	}
}

func TestBoxBlurRadiusLargerThanImage(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	src := randomImage[uint8](rng, 5, 3, image.Plane)
	for _, edge := range allEdgeModes {
		dst := image.NewImage[uint8](5, 3, image.Plane)
		BoxBlur(src, dst, 9, Options{Edge: edge, Fill: testFill})
		requireSameImage(t, refApply(boxRef(9), src, edge, testFillInt), dst, edge.String())
	}
}

func TestStackBlurMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	src := randomImage[uint8](rng, 16, 16, image.RGB)
	for _, edge := range allEdgeModes {
		for _, r := range []int{2, 3, 4, 7, 300} {
			name := fmt.Sprintf("%v/r=%d", edge, r)
			dst := image.NewImage[uint8](16, 16, image.RGB)
			StackBlur(src, dst, r, Options{Edge: edge, Fill: testFill})
			requireSameImage(t, refApply(stackRef(r), src, edge, testFillInt), dst, name)
		}
	}
}

func TestFastGaussianMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	src := randomImage[uint8](rng, 16, 16, image.Plane)
	for _, edge := range allEdgeModes {
		for _, order := range []int{2, 3} {
			for r := 1; r <= 6; r++ {
				name := fmt.Sprintf("%v/order=%d/r=%d", edge, order, r)
				dst := image.NewImage[uint8](16, 16, image.Plane)
				opts := Options{Edge: edge, Fill: testFill}
				if order == 2 {
					FastGaussianBlur(src, dst, r, opts)
				} else {
					FastGaussianNextBlur(src, dst, r, opts)
				}
				requireSameImage(t, refApply(fastGaussianRef(r, order), src, edge, testFillInt), dst, name)
			}
		}
	}
}

func TestFastGaussianMatchesKernel(t *testing.T) {
	// The running sums and the materialized kernel must be centered alike,
	// including odd spans (order 3, even radius).
	rng := rand.New(rand.NewPCG(13, 14))
	src := randomFloatImage(rng, 20, 12, image.Plane)
	for _, order := range []int{2, 3} {
		for _, r := range []int{2, 3, 4, 5} {
			name := fmt.Sprintf("order=%d/r=%d", order, r)
			got := image.NewImage[float32](20, 12, image.Plane)
			if order == 2 {
				FastGaussianBlur(src, got, r, Options{Edge: EdgeReflect})
			} else {
				FastGaussianNextBlur(src, got, r, Options{Edge: EdgeReflect})
			}
			want := refConvolve(FastGaussianKernel(r, order), src, EdgeReflect, []float64{0})
			requireClose(t, want, got, 1e-5, name)
		}
	}
}

func TestConvolveUniformKernelMatchesBox(t *testing.T) {
	rng := rand.New(rand.NewPCG(15, 16))
	src := randomFloatImage(rng, 16, 16, image.RGB)
	for _, edge := range allEdgeModes {
		for r := 1; r <= 5; r++ {
			name := fmt.Sprintf("%v/r=%d", edge, r)
			opts := Options{Edge: edge, Fill: [4]float64{0.25, 0.5, 0.75, 1}}
			box := image.NewImage[float32](16, 16, image.RGB)
			conv := image.NewImage[float32](16, 16, image.RGB)
			BoxBlur(src, box, r, opts)
			ConvolveBlur(src, conv, BoxKernel(r), opts)
			requireClose(t, box, conv, 1e-5, name)
		}
	}
}

func TestConvolveMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 18))
	src := randomFloatImage(rng, 14, 11, image.RGBA)
	k := NewGaussianKernel(3, 1.4)
	fill := []float64{0.1, 0.2, 0.3, 0.4}
	for _, edge := range allEdgeModes {
		got := image.NewImage[float32](14, 11, image.RGBA)
		ConvolveBlur(src, got, k, Options{Edge: edge, Fill: [4]float64{0.1, 0.2, 0.3, 0.4}})
		requireClose(t, refConvolve(k, src, edge, fill), got, 1e-5, edge.String())
	}
}

func TestAsymmetricKernel(t *testing.T) {
	// A one-sided kernel shifts the image: out(x, y) = in(x-1, y-1).
	src := image.NewImage[float32](5, 4, image.Plane)
	for y := range 4 {
		for x := range 5 {
			src.Set(x, y, 0, float32(10*y+x))
		}
	}
	dst := image.NewImage[float32](5, 4, image.Plane)
	ConvolveBlur(src, dst, Kernel{Weights: []float32{1, 0}, Anchor: 1}, Options{Edge: EdgeClamp})
	for y := range 4 {
		for x := range 5 {
			want := float32(10*max(y-1, 0) + max(x-1, 0))
			assert.Equal(t, want, dst.At(x, y, 0), "(%d, %d)", x, y)
		}
	}
}

func TestIntegralGaussianCloseToExact(t *testing.T) {
	rng := rand.New(rand.NewPCG(19, 20))
	src := randomImage[uint8](rng, 24, 17, image.RGB)
	for _, edge := range allEdgeModes {
		exact := image.NewImage[uint8](24, 17, image.RGB)
		fixed := image.NewImage[uint8](24, 17, image.RGB)
		GaussianBlur(src, exact, 7, 1.5, Options{Edge: edge, Fill: testFill})
		GaussianBlur(src, fixed, 7, 1.5, Options{Edge: edge, Fill: testFill, Precision: Integral})
		for y := range 17 {
			a, b := exact.RowSlice(y), fixed.RowSlice(y)
			for i := range a {
				require.InDelta(t, a[i], b[i], 2, "%v row %d index %d", edge, y, i)
			}
		}
	}
}

func TestIntegralWideKernelMatchesExact(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	src := image.FromSlice([]uint8{0, 255, 255}, 3, 1, 3, image.Plane)
	exact := image.NewImage[uint8](3, 1, image.Plane)
	fixed := image.NewImage[uint8](3, 1, image.Plane)
	GaussianBlur(src, exact, 20001, 1e6, Options{})
	GaussianBlur(src, fixed, 20001, 1e6, Options{Precision: Integral})
	requireSameImage(t, exact, fixed, "wide kernel")
	for x := range 3 {
		assert.InDelta(t, 128, exact.At(x, 0, 0), 1, "x=%d", x)
	}
	assert.Contains(t, buf.String(), "using exact")

	// Narrow kernels stay on the fixed-point path.
	buf.Reset()
	GaussianBlur(src, fixed, 7, 1.5, Options{Precision: Integral})
	assert.Contains(t, buf.String(), "integral")
	assert.NotContains(t, buf.String(), "using exact")
}

func TestPassConstructorsPanic(t *testing.T) {
	assert.Panics(t, func() { newBoxPass[uint8](-1, EdgeClamp) })
	assert.Panics(t, func() { newStackBlurPass[uint8](1, EdgeClamp) })
	assert.Panics(t, func() { newFastGaussianPass[uint8](MaxFastGaussianRadius(2)+1, 2, EdgeClamp) })
	assert.Panics(t, func() { newFastGaussianPass[uint8](MaxFastGaussianRadius(3)+1, 3, EdgeClamp) })
	assert.Panics(t, func() { newFastGaussianPass[float32](4, 4, EdgeClamp) })
	assert.NotPanics(t, func() { newFastGaussianPass[uint8](MaxFastGaussianRadius(3), 3, EdgeClamp) })
}

func TestConvPassLengthMismatchPanics(t *testing.T) {
	pass := newConvPass[uint8](BoxKernel(1), 8, EdgeClamp)
	src := make([]uint8, 6)
	dst := make([]uint8, 6)
	l := lineSet[uint8]{src: src, pitch: 1, dim: 6, dst: dst, dstPitch: 1, p1: 6, k: 1, ch: 1}
	assert.Panics(t, func() { pass.newWorker().run(&l) })
}

func TestNextPow2(t *testing.T) {
	for _, tt := range []struct{ n, want int }{{1, 1}, {2, 2}, {3, 4}, {16, 16}, {17, 32}} {
		assert.Equal(t, tt.want, nextPow2(tt.n))
	}
}

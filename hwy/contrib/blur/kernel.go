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
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/chewxy/math32"
)

// Fixed-point parameters of the Integral precision path. Weights are Q14,
// so a u16 sample times the full weight sum still fits an int32.
const (
	FixedPrecision = 14
	RoundingApprox = 1 << (FixedPrecision - 1)
	fixedOne       = 1 << FixedPrecision
)

// Kernel is a 1-D filter. Output position p reads source positions
// p-Anchor .. p-Anchor+len(Weights)-1.
type Kernel struct {
	Weights []float32
	Anchor  int
}

// Radius returns the larger of the two half-widths.
func (k Kernel) Radius() int {
	return max(k.Anchor, len(k.Weights)-1-k.Anchor)
}

func (k Kernel) check() {
	if len(k.Weights) == 0 || k.Anchor < 0 || k.Anchor >= len(k.Weights) {
		panic(fmt.Sprintf("blur: kernel of %d taps with anchor %d", len(k.Weights), k.Anchor))
	}
}

// DefaultSigma is the sigma used for a kernel of size k when the caller
// passes sigma <= 0. It is positive for every k >= 1.
func DefaultSigma(k int) float64 {
	return 0.3*(float64(k-1)*0.5-1) + 0.8
}

// KernelSizeForSigma returns the odd kernel size covering +-3 sigma.
func KernelSizeForSigma(sigma float64) int {
	if sigma <= 0 {
		return 1
	}
	return 2*int(math.Ceil(3*sigma)) + 1
}

// GaussianKernel samples exp(-x^2 / 2 sigma^2) at x in [-radius, radius] and
// renormalizes the taps to sum to 1. A sigma <= 0 is replaced by
// DefaultSigma(2*radius+1).
func GaussianKernel(radius int, sigma float64) []float32 {
	if radius < 0 {
		panic(fmt.Sprintf("blur: negative kernel radius %d", radius))
	}
	if sigma <= 0 {
		sigma = DefaultSigma(2*radius + 1)
	}
	weights := make([]float32, 2*radius+1)
	scale := float32(-0.5 / (sigma * sigma))
	var sum float64
	for i := range weights {
		x := float32(i - radius)
		weights[i] = math32.Exp(x * x * scale)
		sum += float64(weights[i])
	}
	inv := 1 / sum
	for i := range weights {
		weights[i] = float32(float64(weights[i]) * inv)
	}
	return weights
}

// NewGaussianKernel wraps GaussianKernel with its centered anchor.
func NewGaussianKernel(radius int, sigma float64) Kernel {
	return Kernel{Weights: GaussianKernel(radius, sigma), Anchor: radius}
}

// BoxKernel materializes the uniform kernel of the box pass. The box pass
// itself never builds it; this is for cross-checks.
func BoxKernel(radius int) Kernel {
	w := make([]float32, 2*radius+1)
	for i := range w {
		w[i] = 1 / float32(len(w))
	}
	return Kernel{Weights: w, Anchor: radius}
}

// FastGaussianKernel materializes the filter computed by the running-sum
// fast gaussian of the given order (2 or 3): a box of width radius
// convolved with itself order times, normalized, with the anchor the
// running-sum pass uses. The engine falls back to convolving with it when
// the radius exceeds the running-sum history.
func FastGaussianKernel(radius, order int) Kernel {
	if order != 2 && order != 3 {
		panic(fmt.Sprintf("blur: fast gaussian order %d", order))
	}
	radius = max(radius, 1)

	taps := []float64{1}
	for range order {
		next := make([]float64, len(taps)+radius-1)
		for i, w := range taps {
			for j := range radius {
				next[i+j] += w
			}
		}
		taps = next
	}

	total := math.Pow(float64(radius), float64(order))
	weights := make([]float32, len(taps))
	for i, w := range taps {
		weights[i] = float32(w / total)
	}
	return Kernel{Weights: weights, Anchor: fastGaussianAnchor(radius, order)}
}

func fastGaussianAnchor(radius, order int) int {
	return order * (radius - 1) / 2
}

// Filter is the clipped window of one output position: it reads
// Weights[i] * src[Start+i], all in bounds.
type Filter struct {
	Start   int
	Weights []float32
}

// ClippedFilters builds one Filter per output position of an axis of dim
// samples. Taps that fall outside the axis are folded into the first or
// last in-bounds tap, which is exactly EdgeClamp. Other edge modes must
// resolve each tap instead.
func ClippedFilters(k Kernel, dim int) []Filter {
	k.check()
	filters := make([]Filter, dim)
	for p := range filters {
		start, w := clipWeights(k.Weights, p-k.Anchor, dim)
		filters[p] = Filter{Start: start, Weights: w}
	}
	return filters
}

// clipWeights folds the taps of a window starting at source position first
// into [0, dim-1] and returns the first in-bounds position with the folded
// weights.
func clipWeights[W int16 | float32](weights []W, first, dim int) (int, []W) {
	start := max(first, 0)
	end := min(first+len(weights)-1, dim-1)
	if end < start {
		// The whole window lies on one side of the axis.
		if first > dim-1 {
			start, end = dim-1, dim-1
		} else {
			start, end = 0, 0
		}
	}
	out := make([]W, end-start+1)
	for i, w := range weights {
		out[min(max(first+i, start), end)-start] += w
	}
	return start, out
}

// FixedKernel is a Q14 quantized kernel whose weights sum to exactly
// 1 << FixedPrecision.
type FixedKernel struct {
	Weights []int16
	Anchor  int
}

// QuantizeKernel rounds the weights to Q14 by largest remainder: every
// scaled weight is floored, then the taps with the largest fractional parts
// get one more unit until the weights sum to exactly 1 << FixedPrecision.
// Each quantized weight stays within one unit of its scaled weight, so a
// non-negative kernel quantizes to non-negative weights. The rounding bias
// is not part of the kernel; consumers add RoundingApprox before shifting.
func QuantizeKernel(k Kernel) FixedKernel {
	k.check()
	n := len(k.Weights)
	w := make([]int16, n)
	frac := make([]float64, n)
	sum := 0
	for i, f := range k.Weights {
		scaled := float64(f) * fixedOne
		q := math.Floor(scaled)
		w[i] = int16(q)
		frac[i] = scaled - q
		sum += int(q)
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(frac[b], frac[a]) })
	for i := 0; sum < fixedOne; i++ {
		w[order[i%n]]++
		sum++
	}
	for i := 0; sum > fixedOne; i++ {
		w[order[n-1-i%n]]--
		sum--
	}
	return FixedKernel{Weights: w, Anchor: k.Anchor}
}

// maxFixedError is the largest FixedError the Integral path accepts: half
// a uint8 step.
const maxFixedError = 0.5 / 255

// FixedError returns the L1 distance between k and its quantization fk as a
// fraction of the weight sum. Filtering with fk instead of k moves an output
// by at most FixedError times the largest component value, before rounding.
func FixedError(k Kernel, fk FixedKernel) float64 {
	var e float64
	for i, f := range k.Weights {
		e += math.Abs(float64(fk.Weights[i])/fixedOne - float64(f))
	}
	return e
}

// FixedFilter is the quantized counterpart of Filter.
type FixedFilter struct {
	Start   int
	Weights []int16
}

// ClippedFixedFilters mirrors ClippedFilters for a quantized kernel. Folding
// preserves the weight sum, so every filter still sums to 1 << FixedPrecision.
func ClippedFixedFilters(k FixedKernel, dim int) []FixedFilter {
	if len(k.Weights) == 0 || k.Anchor < 0 || k.Anchor >= len(k.Weights) {
		panic(fmt.Sprintf("blur: kernel of %d taps with anchor %d", len(k.Weights), k.Anchor))
	}
	filters := make([]FixedFilter, dim)
	for p := range filters {
		start, w := clipWeights(k.Weights, p-k.Anchor, dim)
		filters[p] = FixedFilter{Start: start, Weights: w}
	}
	return filters
}

// BoxesForGauss returns n odd box widths whose successive application
// approximates a gaussian of the given sigma.
func BoxesForGauss(sigma float64, n int) []int {
	if n < 1 {
		panic(fmt.Sprintf("blur: BoxesForGauss with %d boxes", n))
	}
	sizes := make([]int, n)
	if sigma <= 0 {
		for i := range sizes {
			sizes[i] = 1
		}
		return sizes
	}
	nf := float64(n)
	ideal := math.Sqrt(12*sigma*sigma/nf + 1)
	wl := int(math.Floor(ideal))
	if wl%2 == 0 {
		wl--
	}
	wl = max(wl, 1)
	wu := wl + 2
	fl := float64(wl)
	mIdeal := (12*sigma*sigma - nf*fl*fl - 4*nf*fl - 3*nf) / (-4*fl - 4)
	m := int(math.Round(mIdeal))
	for i := range sizes {
		if i < m {
			sizes[i] = wl
		} else {
			sizes[i] = wu
		}
	}
	return sizes
}

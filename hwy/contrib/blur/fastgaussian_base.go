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
)

// HistorySize is the number of samples the fast gaussian passes remember
// per lane. A pass of order n reads samples up to n*radius steps back, so
// the largest radius is HistorySize/n.
const HistorySize = 1024

// MaxFastGaussianRadius returns the largest radius the running-sum fast
// gaussian of the given order supports: 512 for order 2, 341 for order 3.
func MaxFastGaussianRadius(order int) int {
	return HistorySize / order
}

// fastGaussianPass convolves each line with a box of width r applied order
// times, using order levels of running sums over lag-r differences:
//
//	order 2: d1 += x[i] - 2x[i-r] + x[i-2r];              s += d1
//	order 3: d1 += x[i] - 3x[i-r] + 3x[i-2r] - x[i-3r];   d2 += d1; s += d2
//
// After step i, s holds the weighted sum of x[i-n(r-1)] through x[i]. With
// the anchor a of FastGaussianKernel that is the output at i-(n(r-1)-a), so
// the pass and the materialized kernel agree tap for tap. Integer components divide by r^order rounding halves up;
// float components multiply by 1/r^order.
type fastGaussianPass[T image.Component, A int64 | float64] struct {
	radius int
	order  int
	edge   EdgeMode
	num    Numeric[T, A]
	finish func(A) T
}

func newFastGaussianPass[T image.Component](radius, order int, edge EdgeMode) linePass[T] {
	if order != 2 && order != 3 {
		panic(fmt.Sprintf("blur: fast gaussian order %d", order))
	}
	radius = max(radius, 1)
	if radius > MaxFastGaussianRadius(order) {
		panic(fmt.Sprintf("blur: fast gaussian radius %d exceeds %d for order %d",
			radius, MaxFastGaussianRadius(order), order))
	}
	norm := uint64(1)
	for range order {
		norm *= uint64(radius)
	}
	if _, integer := componentMax[T](); integer {
		num := IntegralNumeric[T]()
		d := newDivisor(norm)
		return &fastGaussianPass[T, int64]{
			radius: radius, order: order, edge: edge, num: num,
			finish: func(s int64) T { return num.Store(int64(d.roundDiv(uint64(s)))) },
		}
	}
	num := FloatNumeric[T]()
	inv := 1 / float64(norm)
	return &fastGaussianPass[T, float64]{
		radius: radius, order: order, edge: edge, num: num,
		finish: func(s float64) T { return num.Store(s * inv) },
	}
}

func (f *fastGaussianPass[T, A]) newWorker() lineWorker[T] {
	return &fastGaussianWorker[T, A]{pass: f}
}

type fastGaussianWorker[T image.Component, A int64 | float64] struct {
	pass      *fastGaussianPass[T, A]
	ring      []A
	d1, d2, s []A
}

func (w *fastGaussianWorker[T, A]) run(l *lineSet[T]) {
	f := w.pass
	r, n := f.radius, f.order
	const mask = HistorySize - 1

	span := n * (r - 1)
	lead := span - fastGaussianAnchor(r, n)
	first := l.p0 + lead
	start := first - span
	last := l.p1 - 1 + lead

	w.ring = grow(w.ring, l.k*HistorySize)
	w.d1 = grow(w.d1, l.k)
	w.d2 = grow(w.d2, l.k)
	w.s = grow(w.s, l.k)
	ring, d1, d2, s := w.ring, w.d1, w.d2, w.s
	clear(d1)
	clear(d2)
	clear(s)

	// The state starts from zero, as if every sample before start were
	// zero. Only the slots read before being written need clearing.
	for j := range l.k {
		for t := start - n*r; t < start; t++ {
			ring[j*HistorySize+t&mask] = 0
		}
	}

	for i := start; i <= last; i++ {
		s1, s2, s3 := (i-r)&mask, (i-2*r)&mask, (i-3*r)&mask
		for j := range l.k {
			h := ring[j*HistorySize : (j+1)*HistorySize]
			x := sample(l, &f.num, f.edge, i, j)
			x1, x2 := h[s1], h[s2]
			if n == 2 {
				h[i&mask] = x
				d1[j] += x - 2*x1 + x2
				s[j] += d1[j]
				continue
			}
			x3 := h[s3]
			h[i&mask] = x
			d1[j] += x - 3*x1 + 3*x2 - x3
			d2[j] += d1[j]
			s[j] += d2[j]
		}
		if i >= first {
			p := i - lead
			for j, v := range s {
				l.set(p, j, f.finish(v))
			}
		}
	}
}

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

// convPass is the exact separable convolution: every output is the float32
// dot product of the kernel with its neighborhood. With EdgeClamp it walks
// precomputed clipped filters and never resolves a tap; other modes resolve
// each tap, and EdgeConstant taps contribute fill*weight.
type convPass[T image.Component] struct {
	kernel  Kernel
	dim     int
	edge    EdgeMode
	filters []Filter
	num     Numeric[T, float32]
}

func newConvPass[T image.Component](k Kernel, dim int, edge EdgeMode) *convPass[T] {
	k.check()
	c := &convPass[T]{kernel: k, dim: dim, edge: edge, num: ConvNumeric[T]()}
	if edge == EdgeClamp {
		c.filters = ClippedFilters(k, dim)
	}
	return c
}

func (c *convPass[T]) newWorker() lineWorker[T] {
	return &convWorker[T]{pass: c}
}

type convWorker[T image.Component] struct {
	pass *convPass[T]
	acc  []float32
}

func (w *convWorker[T]) run(l *lineSet[T]) {
	c := w.pass
	if l.dim != c.dim {
		panic(fmt.Sprintf("blur: convolution built for %d samples run on %d", c.dim, l.dim))
	}
	w.acc = grow(w.acc, l.k)
	acc := w.acc
	load := c.num.Load

	for p := l.p0; p < l.p1; p++ {
		clear(acc)
		if c.filters != nil {
			f := &c.filters[p]
			for i, wt := range f.Weights {
				q := f.Start + i
				for j := range acc {
					acc[j] += wt * load(l.at(q, j))
				}
			}
		} else {
			first := p - c.kernel.Anchor
			for i, wt := range c.kernel.Weights {
				q, ok := first+i, true
				if q < 0 || q >= l.dim {
					q, ok = Resolve(q, l.dim, c.edge)
				}
				for j := range acc {
					if ok {
						acc[j] += wt * load(l.at(q, j))
					} else {
						acc[j] += wt * load(l.fillAt(j))
					}
				}
			}
		}
		for j, v := range acc {
			l.set(p, j, c.num.Store(v))
		}
	}
}

// fixedConvPass is the Integral precision convolution for uint8 and uint16
// components: Q14 weights, int32 accumulation, and a rounding shift at the
// end. It differs from convPass by at most one unit per pass.
type fixedConvPass[T image.Component] struct {
	kernel  FixedKernel
	dim     int
	edge    EdgeMode
	filters []FixedFilter
	num     Numeric[T, int32]
}

func newFixedConvPass[T image.Component](fk FixedKernel, dim int, edge EdgeMode) *fixedConvPass[T] {
	c := &fixedConvPass[T]{kernel: fk, dim: dim, edge: edge, num: FixedNumeric[T]()}
	if edge == EdgeClamp {
		c.filters = ClippedFixedFilters(fk, dim)
	}
	return c
}

func (c *fixedConvPass[T]) newWorker() lineWorker[T] {
	return &fixedConvWorker[T]{pass: c}
}

type fixedConvWorker[T image.Component] struct {
	pass *fixedConvPass[T]
	acc  []int32
}

func (w *fixedConvWorker[T]) run(l *lineSet[T]) {
	c := w.pass
	if l.dim != c.dim {
		panic(fmt.Sprintf("blur: convolution built for %d samples run on %d", c.dim, l.dim))
	}
	w.acc = grow(w.acc, l.k)
	acc := w.acc
	load := c.num.Load

	for p := l.p0; p < l.p1; p++ {
		clear(acc)
		if c.filters != nil {
			f := &c.filters[p]
			for i, wt := range f.Weights {
				q := f.Start + i
				for j := range acc {
					acc[j] += int32(wt) * load(l.at(q, j))
				}
			}
		} else {
			first := p - c.kernel.Anchor
			for i, wt := range c.kernel.Weights {
				q, ok := first+i, true
				if q < 0 || q >= l.dim {
					q, ok = Resolve(q, l.dim, c.edge)
				}
				for j := range acc {
					if ok {
						acc[j] += int32(wt) * load(l.at(q, j))
					} else {
						acc[j] += int32(wt) * load(l.fillAt(j))
					}
				}
			}
		}
		for j, v := range acc {
			l.set(p, j, c.num.Store(finishFixed(v)))
		}
	}
}

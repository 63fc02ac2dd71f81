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

// boxPass is the sliding-window box filter of width 2r+1. The window sum is
// primed once per line set in O(r) and then updated in O(1) per output by
// adding the incoming sample and subtracting the outgoing one. Samples are
// kept in a power-of-two history ring of at least 2r+2 slots so outgoing
// samples are never resolved twice.
type boxPass[T image.Component, A int64 | float64] struct {
	radius int
	edge   EdgeMode
	num    Numeric[T, A]
	finish func(A) T
	size   int
}

func newBoxPass[T image.Component](radius int, edge EdgeMode) linePass[T] {
	if radius < 0 {
		panic(fmt.Sprintf("blur: box radius %d", radius))
	}
	size := nextPow2(2*radius + 2)
	if _, integer := componentMax[T](); integer {
		num := IntegralNumeric[T]()
		d := newDivisor(uint64(2*radius + 1))
		return &boxPass[T, int64]{
			radius: radius, edge: edge, num: num, size: size,
			finish: func(s int64) T { return num.Store(int64(d.roundDiv(uint64(s)))) },
		}
	}
	num := FloatNumeric[T]()
	inv := 1 / float64(2*radius+1)
	return &boxPass[T, float64]{
		radius: radius, edge: edge, num: num, size: size,
		finish: func(s float64) T { return num.Store(s * inv) },
	}
}

func (b *boxPass[T, A]) newWorker() lineWorker[T] {
	return &boxWorker[T, A]{pass: b}
}

type boxWorker[T image.Component, A int64 | float64] struct {
	pass *boxPass[T, A]
	ring []A
	sum  []A
}

func (w *boxWorker[T, A]) run(l *lineSet[T]) {
	b := w.pass
	r, size, mask := b.radius, b.size, b.size-1
	w.ring = grow(w.ring, l.k*size)
	w.sum = grow(w.sum, l.k)
	ring, sum := w.ring, w.sum
	clear(sum)

	for t := l.p0 - r; t <= l.p0+r; t++ {
		for j := range sum {
			v := sample(l, &b.num, b.edge, t, j)
			ring[j*size+t&mask] = v
			sum[j] += v
		}
	}

	for p := l.p0; p < l.p1; p++ {
		for j, s := range sum {
			l.set(p, j, b.finish(s))
		}
		if p+1 == l.p1 {
			break
		}
		in, out := (p+r+1)&mask, (p-r)&mask
		for j := range sum {
			v := sample(l, &b.num, b.edge, p+r+1, j)
			sum[j] += v - ring[j*size+out]
			ring[j*size+in] = v
		}
	}
}

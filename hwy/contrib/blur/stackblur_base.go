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

// MinStackRadius is the smallest radius the stack blur pass accepts. The
// public API promotes smaller radii to it.
const MinStackRadius = 2

// stackBlurPass filters with the triangular weights r+1-|d| for d in
// [-r, r], normalized by their sum (r+1)^2. It keeps the last 2r+1 samples
// in an explicit stack and three accumulators:
//
//	sum    = sum of weight*sample over the window
//	sumIn  = samples right of the center
//	sumOut = samples left of and at the center
//
// Moving the window by one subtracts sumOut from sum and adds the updated
// sumIn, which is O(1) per output.
type stackBlurPass[T image.Component, A int64 | float64] struct {
	radius int
	edge   EdgeMode
	num    Numeric[T, A]
	finish func(A) T
}

func newStackBlurPass[T image.Component](radius int, edge EdgeMode) linePass[T] {
	if radius < MinStackRadius {
		panic(fmt.Sprintf("blur: stack blur radius %d below %d", radius, MinStackRadius))
	}
	if _, integer := componentMax[T](); integer {
		num := IntegralNumeric[T]()
		d := stackDivisor(radius)
		return &stackBlurPass[T, int64]{
			radius: radius, edge: edge, num: num,
			finish: func(s int64) T { return num.Store(int64(d.roundDiv(uint64(s)))) },
		}
	}
	num := FloatNumeric[T]()
	inv := 1 / float64(stackWeightSum(radius))
	return &stackBlurPass[T, float64]{
		radius: radius, edge: edge, num: num,
		finish: func(s float64) T { return num.Store(s * inv) },
	}
}

func (sb *stackBlurPass[T, A]) newWorker() lineWorker[T] {
	return &stackBlurWorker[T, A]{pass: sb}
}

type stackBlurWorker[T image.Component, A int64 | float64] struct {
	pass               *stackBlurPass[T, A]
	stack              []A
	sum, sumIn, sumOut []A
}

func (w *stackBlurWorker[T, A]) run(l *lineSet[T]) {
	sb := w.pass
	r := sb.radius
	div := 2*r + 1

	w.stack = grow(w.stack, l.k*div)
	w.sum = grow(w.sum, l.k)
	w.sumIn = grow(w.sumIn, l.k)
	w.sumOut = grow(w.sumOut, l.k)
	stack, sum, sumIn, sumOut := w.stack, w.sum, w.sumIn, w.sumOut
	clear(sum)
	clear(sumIn)
	clear(sumOut)

	// Sample p0+d lives in slot d+r until the window moves.
	for d := -r; d <= r; d++ {
		weight := A(r + 1 - max(d, -d))
		for j := range sum {
			v := sample(l, &sb.num, sb.edge, l.p0+d, j)
			stack[j*div+d+r] = v
			sum[j] += weight * v
			if d > 0 {
				sumIn[j] += v
			} else {
				sumOut[j] += v
			}
		}
	}

	// sp is the slot of the outgoing sample p-r, which the incoming sample
	// p+r+1 replaces; mid is the slot of p+1.
	sp, mid := 0, r+1
	for p := l.p0; p < l.p1; p++ {
		for j, s := range sum {
			l.set(p, j, sb.finish(s))
		}
		if p+1 == l.p1 {
			break
		}
		for j := range sum {
			st := stack[j*div : (j+1)*div]
			sum[j] -= sumOut[j]
			sumOut[j] -= st[sp]
			in := sample(l, &sb.num, sb.edge, p+r+1, j)
			st[sp] = in
			sumIn[j] += in
			sum[j] += sumIn[j]
			next := st[mid]
			sumOut[j] += next
			sumIn[j] -= next
		}
		if sp++; sp == div {
			sp = 0
		}
		if mid++; mid == div {
			mid = 0
		}
	}
}

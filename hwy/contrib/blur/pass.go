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

import "github.com/ajroetker/go-blur/hwy/contrib/image"

// lineSet is k parallel 1-D lines that a pass filters together. Lane j of
// position p lives at src[base+p*pitch+j]. A horizontal pass sees one row
// with k = channels and pitch = channels; a vertical pass sees k adjacent
// components of every row with pitch = stride.
//
// Output positions [p0, p1) are written to dst[dstBase+(p-p0)*dstPitch+j].
// dst is the caller's exclusive band, so p0 maps to its start.
type lineSet[T image.Component] struct {
	src   []T
	base  int
	pitch int
	dim   int

	dst      []T
	dstBase  int
	dstPitch int
	p0, p1   int

	k     int
	chan0 int // channel of lane 0
	ch    int
	fill  []T // per channel, for EdgeConstant
}

func (l *lineSet[T]) at(p, j int) T {
	return l.src[l.base+p*l.pitch+j]
}

func (l *lineSet[T]) set(p, j int, v T) {
	l.dst[l.dstBase+(p-l.p0)*l.dstPitch+j] = v
}

func (l *lineSet[T]) fillAt(j int) T {
	return l.fill[(l.chan0+j)%l.ch]
}

// sample loads lane j at position p, resolving p with the edge mode when
// it falls outside the line.
func sample[T image.Component, A Accumulator](l *lineSet[T], num *Numeric[T, A], edge EdgeMode, p, j int) A {
	if p >= 0 && p < l.dim {
		return num.Load(l.at(p, j))
	}
	idx, ok := Resolve(p, l.dim, edge)
	if !ok {
		return num.Load(l.fillAt(j))
	}
	return num.Load(l.at(idx, j))
}

// linePass is one separable 1-D filter bound to an axis length. A pass is
// immutable and shared by all tasks of a wave; each task asks for its own
// worker, which owns the scratch state (history rings, stacks) and reuses
// it line after line.
type linePass[T image.Component] interface {
	newWorker() lineWorker[T]
}

type lineWorker[T image.Component] interface {
	run(l *lineSet[T])
}

// grow returns s resized to n elements, reallocating only when needed.
// The contents are not preserved.
func grow[A any](s []A, n int) []A {
	if cap(s) < n {
		return make([]A, n)
	}
	return s[:n]
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

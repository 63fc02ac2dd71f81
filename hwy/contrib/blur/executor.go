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

	"github.com/ajroetker/go-blur/hwy"
	"github.com/ajroetker/go-blur/hwy/contrib/image"
)

// Executor decides how many adjacent components a vertical pass filters per
// step. Every lane runs the same operations in the same order as the scalar
// path, so all executors produce bit-identical output; wider blocks only
// amortize the per-step bookkeeping and keep the row accesses contiguous.
//
// Horizontal passes always step one pixel (all its channels) at a time.
type Executor struct {
	Level hwy.DispatchLevel
	Lanes int
}

// NewExecutor returns the executor for a dispatch level: one component per
// step for scalar, and a register of float32 lanes otherwise (4 for
// SSE4.1 and NEON, 8 for AVX2).
func NewExecutor(level hwy.DispatchLevel) Executor {
	return Executor{Level: level, Lanes: hwy.LanesFor[float32](level)}
}

// ScalarExecutor is the reference executor.
var ScalarExecutor = NewExecutor(hwy.DispatchScalar)

// DefaultExecutor is picked once from the detected CPU, or scalar when
// HWY_NO_SIMD is set.
var DefaultExecutor = NewExecutor(hwy.CurrentLevel())

func (e Executor) String() string {
	return fmt.Sprintf("%v/%d", e.Level, e.Lanes)
}

func (e Executor) valid() bool {
	return e.Lanes >= 1
}

// filterRows runs the horizontal pass over rows [y0, y1) of src. out is the
// exclusive slice of those rows in the intermediate image, whose row stride
// is outStride.
func filterRows[T image.Component](w lineWorker[T], src *image.Image[T], out []T, outStride, y0, y1 int, fill []T) {
	ch := int(src.Channels())
	l := lineSet[T]{
		src:      src.Pix(),
		pitch:    ch,
		dim:      src.Width(),
		dst:      out,
		dstPitch: ch,
		p0:       0,
		p1:       src.Width(),
		k:        ch,
		ch:       ch,
		fill:     fill,
	}
	for y := y0; y < y1; y++ {
		l.base = y * src.Stride()
		l.dstBase = (y - y0) * outStride
		w.run(&l)
	}
}

// filterColumns runs the vertical pass for output rows [y0, y1), reading
// every row of src. out is the exclusive slice of those rows in the
// destination, whose row stride is outStride. Columns are taken in blocks
// of e.Lanes adjacent components.
func filterColumns[T image.Component](e Executor, w lineWorker[T], src *image.Image[T], out []T, outStride, y0, y1 int, fill []T) {
	ch := int(src.Channels())
	rowLen := src.RowLen()
	l := lineSet[T]{
		src:      src.Pix(),
		pitch:    src.Stride(),
		dim:      src.Height(),
		dst:      out,
		dstPitch: outStride,
		p0:       y0,
		p1:       y1,
		ch:       ch,
		fill:     fill,
	}
	for x0 := 0; x0 < rowLen; x0 += e.Lanes {
		l.base = x0
		l.dstBase = x0
		l.k = min(e.Lanes, rowLen-x0)
		l.chan0 = x0 % ch
		w.run(&l)
	}
}

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
	"context"
	"log/slog"
	"sync"

	"github.com/ajroetker/go-blur/hwy"
	"github.com/ajroetker/go-blur/hwy/contrib/image"
)

// passFactory builds the 1-D pass for an axis of the given length. Passes
// that do not depend on the length ignore it.
type passFactory[T image.Component] func(dim int) linePass[T]

// Intermediate buffers, one pool per component type. They hold *[]T.
var (
	tmpU8  sync.Pool
	tmpU16 sync.Pool
	tmpF16 sync.Pool
	tmpF32 sync.Pool
)

func tmpPool[T image.Component]() *sync.Pool {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return &tmpU8
	case uint16:
		return &tmpU16
	case hwy.Float16:
		return &tmpF16
	default:
		return &tmpF32
	}
}

// intermediate returns a compact image (stride == row length) shaped like
// img, and the function that gives its buffer back. The contents are
// undefined; the horizontal wave overwrites every component.
func intermediate[T image.Component](img *image.Image[T]) (*image.Image[T], func()) {
	n := img.RowLen() * img.Height()
	pool := tmpPool[T]()
	var buf *[]T
	if v, ok := pool.Get().(*[]T); ok && cap(*v) >= n {
		buf = v
	} else {
		s := make([]T, n)
		buf = &s
	}
	*buf = (*buf)[:n]
	tmp := image.FromSlice(*buf, img.Width(), img.Height(), img.RowLen(), img.Channels())
	return tmp, func() { pool.Put(buf) }
}

// fillValues converts the per-channel constant border values to T.
func fillValues[T image.Component](fill [4]float64, ch image.Channels) []T {
	num := FloatNumeric[T]()
	out := make([]T, ch)
	for c := range out {
		out[c] = num.Store(fill[c])
	}
	return out
}

// separable validates src and dst, then filters src horizontally into a
// pooled intermediate and that vertically into dst. dst may be src.
// Invalid images or options panic with the wrapped validation error.
func separable[T image.Component](name string, src, dst *image.Image[T], opts Options, build passFactory[T]) {
	if err := CheckImages(src, dst); err != nil {
		panic(err)
	}
	if err := opts.Validate(); err != nil {
		panic(err)
	}
	if src.Empty() {
		return
	}

	width, height := src.Width(), src.Height()
	exec := opts.executor()
	threads := opts.Threading.Threads(width, height)
	fill := fillValues[T](opts.Fill, src.Channels())

	log := Logger()
	if log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("blur: separable filter",
			slog.String("filter", name),
			slog.Int("width", width),
			slog.Int("height", height),
			slog.String("channels", src.Channels().String()),
			slog.String("edge", opts.Edge.String()),
			slog.String("executor", exec.String()),
			slog.Bool("f16_hardware", hwy.HasF16C() || hwy.HasARMFP16()),
			slog.Int("threads", threads),
			slog.Uint64("digest", src.Digest()))
	}

	tmp, release := intermediate(src)
	defer release()
	hp, vp := build(width), build(height)
	s := newScheduler(threads, opts.Pool)

	// Every task gets its exclusive destination rows before anything runs.
	bands := Partition(height, threads)
	tasks := make([]func(), 0, len(bands))
	for _, b := range bands {
		out := tmp.Rows(b.Y0, b.Y1)
		tasks = append(tasks, func() {
			filterRows(hp.newWorker(), src, out, tmp.Stride(), b.Y0, b.Y1, fill)
		})
	}
	s.horizontal(tasks)

	tasks = tasks[:0]
	for _, b := range bands {
		out := dst.Rows(b.Y0, b.Y1)
		tasks = append(tasks, func() {
			filterColumns(exec, vp.newWorker(), tmp, out, dst.Stride(), b.Y0, b.Y1, fill)
		})
	}
	s.vertical(tasks)
}

// copyImage copies the meaningful components of src into dst.
func copyImage[T image.Component](src, dst *image.Image[T]) {
	if err := CheckImages(src, dst); err != nil {
		panic(err)
	}
	if src == dst {
		return
	}
	for y := range src.Height() {
		copy(dst.RowSlice(y), src.RowSlice(y))
	}
}

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

// Package blur provides separable blur filters for interleaved images of
// uint8, uint16, Float16 and float32 components with 1, 3 or 4 channels.
//
// Every filter runs as two 1-D passes: rows of the source into a pooled
// intermediate image, then columns of the intermediate into the
// destination. The destination may be the source.
//
// # Filters
//
//   - GaussianBlur: exact float32 convolution with a sampled gaussian, or
//     Q14 fixed point with [Integral] precision.
//   - BoxBlur, TentBlur, GaussianBoxBlur: running-sum box filters, O(1) per
//     pixel regardless of radius.
//   - FastGaussianBlur, FastGaussianNextBlur: a box of width radius applied
//     two or three times, kept as nested running sums over a history ring of
//     [HistorySize] samples.
//   - StackBlur: triangular weights kept in an explicit stack.
//   - ConvolveBlur: any [Kernel].
//
// # Borders
//
// [EdgeMode] chooses how taps outside the image are resolved: clamp, wrap,
// mirror with or without repeating the edge sample, or a constant per
// channel value from [Options.Fill].
//
// # Concurrency
//
// Each pass is split into bands of output rows, one task per band. A task
// only ever writes its own rows, and the vertical pass starts after every
// horizontal task has finished. Tasks run on scoped goroutines or on a
// [workerpool.Pool] passed in [Options.Pool]; a panic in any task is
// re-raised on the calling goroutine.
//
// # Errors
//
// The filters panic on invalid input: bad layouts, mismatched shapes,
// unknown edge modes. [CheckImages] and [Options.Validate] return the same
// conditions as errors matching [ErrBufferTooSmall], [ErrStride],
// [ErrChannels], [ErrDimensions], [ErrSizeMismatch], [ErrEdgeMode],
// [ErrThreads] and [ErrPrecision] through errors.Is.
//
// Example:
//
//	img := image.FromRGBA(src)
//	out := image.NewImage[uint8](img.Width(), img.Height(), img.Channels())
//	blur.StackBlur(img, out, 8, blur.Options{Edge: blur.EdgeReflect101})
package blur

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

package image

// Coordinate helpers for out-of-bounds sample positions. All of them
// require size >= 1 and return a value in [0, size).

// Mirror reflects index at the boundaries, repeating the edge sample:
// -1 maps to 0 and size maps to size-1. The period is 2*size.
func Mirror(index, size int) int {
	period := 2 * size
	index %= period
	if index < 0 {
		index += period
	}
	if index >= size {
		index = period - index - 1
	}
	return index
}

// Mirror101 reflects index about the edge samples without repeating them:
// -1 maps to 1 and size maps to size-2. The period is 2*size-2, and a
// single-sample axis always maps to 0.
func Mirror101(index, size int) int {
	if size == 1 {
		return 0
	}
	period := 2*size - 2
	index %= period
	if index < 0 {
		index += period
	}
	if index >= size {
		index = period - index
	}
	return index
}

// Clamp returns index clamped to [0, size-1].
func Clamp(index, size int) int {
	if index < 0 {
		return 0
	}
	if index >= size {
		return size - 1
	}
	return index
}

// Wrap returns index wrapped to [0, size) using modulo.
func Wrap(index, size int) int {
	index %= size
	if index < 0 {
		index += size
	}
	return index
}

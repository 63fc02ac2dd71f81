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

// Package image provides strided, interleaved 2D image buffers for the blur
// engine.
//
// An Image[T] holds width*channels components per row, followed by optional
// padding up to the stride. Components are uint8, uint16, hwy.Float16 or
// float32, with 1 (Plane), 3 (RGB) or 4 (RGBA) channels.
//
// # Ownership
//
// Rows are the unit of ownership. Rows(y0, y1) hands out the sub-slice for a
// row range; slices for disjoint ranges never overlap, which is what lets
// parallel workers write their bands without synchronization:
//
//	top := img.Rows(0, h/2)
//	bottom := img.Rows(h/2, h)
//
// # Interop
//
// FromRGBA, FromNRGBA, FromGray and FromRGBA64 import any image.Image;
// ToRGBA, ToNRGBA, ToGray and ToRGBA64 export back.
//
// # Edge Handling
//
// Coordinate helpers map out-of-bounds sample positions into [0, size):
//
//	Mirror(index, size)    - reflect, repeating the edge sample
//	Mirror101(index, size) - reflect about the edge sample
//	Clamp(index, size)     - repeat edge samples
//	Wrap(index, size)      - tile
package image

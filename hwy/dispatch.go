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

package hwy

import (
	"os"
	"strconv"
	"unsafe"
)

// DispatchLevel represents the instruction set the blur kernels are tuned for.
type DispatchLevel int

const (
	// DispatchScalar indicates no SIMD, one pixel per step.
	DispatchScalar DispatchLevel = iota

	// DispatchSSE41 indicates SSE4.1 (128-bit) on x86-64.
	DispatchSSE41

	// DispatchAVX2 indicates AVX2 (256-bit) on x86-64.
	DispatchAVX2

	// DispatchNEON indicates ARM NEON (128-bit).
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE41:
		return "sse4.1"
	case DispatchAVX2:
		return "avx2"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Width returns the register width in bytes for the level.
func (d DispatchLevel) Width() int {
	switch d {
	case DispatchAVX2:
		return 32
	case DispatchSSE41, DispatchNEON:
		return 16
	default:
		return 0
	}
}

// currentLevel is the detected SIMD level for this runtime.
// Set by init() in dispatch_*.go files.
var currentLevel DispatchLevel

// currentWidth is the register width in bytes for the current level.
// Zero in scalar mode.
var currentWidth int

// CurrentLevel returns the instruction set selected at startup.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the SIMD register width in bytes, or 0 for scalar.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns a human-readable name for the current SIMD target.
func CurrentName() string {
	return currentLevel.String()
}

func setLevel(level DispatchLevel) {
	currentLevel = level
	currentWidth = level.Width()
}

// NoSimdEnv checks if the HWY_NO_SIMD environment variable is set.
// When set, the scalar level is used regardless of CPU capabilities.
// This is useful for testing and debugging.
func NoSimdEnv() bool {
	val := os.Getenv("HWY_NO_SIMD")
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// MaxLanes returns the number of lanes of type T that fit the current
// register width. Scalar mode reports a single lane.
//
// For example, with AVX2 (32 bytes):
//   - float32: 32/4 = 8 lanes
//   - uint16: 32/2 = 16 lanes
func MaxLanes[T Lanes]() int {
	return LanesFor[T](currentLevel)
}

// LanesFor returns the number of lanes of type T for the given level.
func LanesFor[T Lanes](level DispatchLevel) int {
	var dummy T
	elementSize := int(unsafe.Sizeof(dummy))
	width := level.Width()
	if width == 0 || elementSize == 0 {
		return 1
	}
	return width / elementSize
}

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

// Package hwy holds the target-independent pieces shared by the blur kernels:
// runtime CPU dispatch, the half-precision Float16 storage type and the
// numeric constraints used by generic code.
//
// The dispatch level is detected once at startup with golang.org/x/sys/cpu:
//
//	switch hwy.CurrentLevel() {
//	case hwy.DispatchAVX2:
//	    // 32-byte blocks
//	case hwy.DispatchSSE41, hwy.DispatchNEON:
//	    // 16-byte blocks
//	default:
//	    // one pixel per step
//	}
//
// Setting HWY_NO_SIMD=1 forces the scalar level.
package hwy

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all types that can be stored in SIMD lanes.
type Lanes interface {
	Floats | Integers
}

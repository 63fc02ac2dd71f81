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
	"math"

	"github.com/ajroetker/go-blur/hwy"
	"github.com/ajroetker/go-blur/hwy/contrib/image"
	"github.com/chewxy/math32"
)

// Accumulator is the set of types a pass accumulates in.
type Accumulator interface {
	int32 | int64 | float32 | float64
}

// Numeric is the load and store policy for components of type T
// accumulated in A. Store takes an already normalized value and rounds to
// nearest and clamps to [0, Max] for integer components; float components
// pass through unclamped.
//
// The function fields are chosen once per type so the passes never switch
// on the component type inside their loops.
type Numeric[T image.Component, A Accumulator] struct {
	Load    func(T) A
	Store   func(A) T
	Max     A    // largest integer component value, 0 for float components
	Integer bool // components are uint8 or uint16
}

// componentMax returns the largest value of an integer component type and
// false for float components.
func componentMax[T image.Component]() (int64, bool) {
	switch any(*new(T)).(type) {
	case uint8:
		return math.MaxUint8, true
	case uint16:
		return math.MaxUint16, true
	default:
		return 0, false
	}
}

func isFloat16[T image.Component]() bool {
	_, ok := any(*new(T)).(hwy.Float16)
	return ok
}

// IntegralNumeric accumulates uint8 and uint16 components in int64. It is
// used by the integer running-sum passes.
func IntegralNumeric[T image.Component]() Numeric[T, int64] {
	hi, ok := componentMax[T]()
	if !ok {
		panic(fmt.Sprintf("blur: IntegralNumeric on %T", *new(T)))
	}
	return Numeric[T, int64]{
		Load: func(v T) int64 { return int64(v) },
		Store: func(a int64) T {
			return T(min(max(a, 0), hi))
		},
		Max:     hi,
		Integer: true,
	}
}

// FloatNumeric accumulates any component in float64. It is used by the
// running-sum passes over Float16 and float32 components.
func FloatNumeric[T image.Component]() Numeric[T, float64] {
	n := Numeric[T, float64]{Load: func(v T) float64 { return float64(v) }}
	if isFloat16[T]() {
		n.Load = func(v T) float64 { return hwy.Float16(v).Float64() }
	}

	hi, integer := componentMax[T]()
	switch {
	case integer:
		fhi := float64(hi)
		n.Store = func(a float64) T { return T(min(max(math.Round(a), 0), fhi)) }
		n.Max, n.Integer = fhi, true
	case isFloat16[T]():
		n.Store = func(a float64) T { return T(hwy.NewFloat16FromFloat64(a)) }
	default:
		n.Store = func(a float64) T { return T(a) }
	}
	return n
}

// ConvNumeric accumulates in float32. It is used by the exact convolution
// pass for every component type.
func ConvNumeric[T image.Component]() Numeric[T, float32] {
	n := Numeric[T, float32]{Load: func(v T) float32 { return float32(v) }}
	if isFloat16[T]() {
		n.Load = func(v T) float32 { return hwy.Float16(v).Float32() }
	}

	hi, integer := componentMax[T]()
	switch {
	case integer:
		fhi := float32(hi)
		n.Store = func(a float32) T { return T(min(max(math32.Round(a), 0), fhi)) }
		n.Max, n.Integer = fhi, true
	case isFloat16[T]():
		n.Store = func(a float32) T { return T(hwy.NewFloat16(a)) }
	default:
		n.Store = func(a float32) T { return T(a) }
	}
	return n
}

// FixedNumeric accumulates uint8 and uint16 components in int32 for the Q14
// convolution. Store expects the accumulator after the rounding shift.
func FixedNumeric[T image.Component]() Numeric[T, int32] {
	hi, ok := componentMax[T]()
	if !ok {
		panic(fmt.Sprintf("blur: FixedNumeric on %T", *new(T)))
	}
	hi32 := int32(hi)
	return Numeric[T, int32]{
		Load: func(v T) int32 { return int32(v) },
		Store: func(a int32) T {
			return T(min(max(a, 0), hi32))
		},
		Max:     hi32,
		Integer: true,
	}
}

// finishFixed applies the rounding bias and drops the Q14 fraction.
func finishFixed(acc int32) int32 {
	return (acc + RoundingApprox) >> FixedPrecision
}

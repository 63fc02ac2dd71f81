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

import "math"

// Float16 represents an IEEE 754 half-precision (binary16) floating-point number.
// It wraps uint16 for storage; arithmetic happens after widening to float32.
//
// Format: Sign (1 bit) | Exponent (5 bits) | Mantissa (10 bits)
//
//	S | EEEEE | MMMMMMMMMM
//
// Max finite value is 65504, the smallest normal is 2^-14.
type Float16 uint16

// Float16 constants for special values.
const (
	Float16Zero     Float16 = 0x0000 // Positive zero
	Float16One      Float16 = 0x3C00 // 1.0
	Float16MaxValue Float16 = 0x7BFF // 65504 (max finite value)
	Float16Inf      Float16 = 0x7C00 // Positive infinity
	Float16NegInf   Float16 = 0xFC00 // Negative infinity
	Float16NaN      Float16 = 0x7E00 // Quiet NaN (canonical)

	float16ExpBias  = 15
	float32ExpBias  = 127
	float16ExpMask  = 0x1F
	float16MantMask = 0x3FF
)

// Float16ToFloat32 converts a single Float16 to float32. The conversion is
// exact: every half value is representable in single precision.
func Float16ToFloat32(h Float16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & float16ExpMask
	mant := uint32(h) & float16MantMask

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Denormal: value = mant * 2^-24.
		v := float32(mant) * (1.0 / (1 << 24))
		if sign != 0 {
			v = -v
		}
		return v
	case float16ExpMask:
		if mant == 0 {
			return math.Float32frombits(sign | 0x7F800000)
		}
		return math.Float32frombits(sign | 0x7FC00000 | mant<<13)
	}
	exp += float32ExpBias - float16ExpBias
	return math.Float32frombits(sign | exp<<23 | mant<<13)
}

// Float32ToFloat16 converts a float32 to Float16 with round-to-nearest-even.
// Values beyond the half range become infinities, tiny values flush through
// the denormal range to zero.
func Float32ToFloat16(f float32) Float16 {
	bits := math.Float32bits(f)
	sign := (bits >> 16) & 0x8000
	exp := int32(bits>>23) & 0xFF
	mant := bits & 0x7FFFFF

	if exp == 0xFF {
		if mant != 0 {
			return Float16(sign | 0x7E00)
		}
		return Float16(sign | 0x7C00)
	}

	e := exp - float32ExpBias + float16ExpBias
	if e >= float16ExpMask {
		return Float16(sign | 0x7C00)
	}
	if e <= 0 {
		if e < -10 {
			return Float16(sign)
		}
		// Denormal half: mantissa counts units of 2^-24.
		m := mant | 0x800000
		shift := uint32(14 - e)
		half := m >> shift
		rem := m & (1<<shift - 1)
		halfway := uint32(1) << (shift - 1)
		if rem > halfway || (rem == halfway && half&1 == 1) {
			half++
		}
		return Float16(sign | half)
	}

	half := uint32(e)<<10 | mant>>13
	rem := mant & 0x1FFF
	if rem > 0x1000 || (rem == 0x1000 && half&1 == 1) {
		// A carry out of the mantissa bumps the exponent, possibly to Inf.
		half++
	}
	return Float16(sign | half)
}

// IsNaN returns true if h is a NaN value.
func (h Float16) IsNaN() bool {
	return (h>>10)&float16ExpMask == float16ExpMask && h&float16MantMask != 0
}

// IsInf returns true if h is positive or negative infinity.
func (h Float16) IsInf() bool {
	return (h>>10)&float16ExpMask == float16ExpMask && h&float16MantMask == 0
}

// Float32 converts this Float16 to float32.
func (h Float16) Float32() float32 {
	return Float16ToFloat32(h)
}

// Float64 converts this Float16 to float64.
func (h Float16) Float64() float64 {
	return float64(Float16ToFloat32(h))
}

// NewFloat16 creates a Float16 from a float32 value.
func NewFloat16(f float32) Float16 {
	return Float32ToFloat16(f)
}

// NewFloat16FromFloat64 creates a Float16 from a float64 value.
func NewFloat16FromFloat64(f float64) Float16 {
	return Float32ToFloat16(float32(f))
}

// Bits returns the raw uint16 representation.
func (h Float16) Bits() uint16 {
	return uint16(h)
}

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
	"math/bits"
)

// divisorBits is the numerator width for which divisor is exact.
const divisorBits = 48

// divisor divides by a constant through a multiply and a shift
// (Granlund and Montgomery). For every n < 2^48:
//
//	div(n) == n / d
type divisor struct {
	d     uint64
	m     uint64
	shift uint
}

func newDivisor(d uint64) divisor {
	if d == 0 || d >= 1<<divisorBits {
		panic(fmt.Sprintf("blur: divisor %d out of range", d))
	}
	l := uint(bits.Len64(d - 1)) // ceil(log2 d)
	shift := divisorBits + l
	var m uint64
	if shift < 64 {
		m = (1<<shift)/d + 1
	} else {
		// 2^shift / d as a 128-bit by 64-bit division; hi < d holds
		// because d > 2^(l-1).
		m, _ = bits.Div64(1<<(shift-64), 0, d)
		m++
	}
	return divisor{d: d, m: m, shift: shift}
}

func (v divisor) div(n uint64) uint64 {
	if n >= 1<<divisorBits {
		return n / v.d
	}
	hi, lo := bits.Mul64(v.m, n)
	if v.shift >= 64 {
		return hi >> (v.shift - 64)
	}
	return hi<<(64-v.shift) | lo>>v.shift
}

// roundDiv divides rounding halves up.
func (v divisor) roundDiv(n uint64) uint64 {
	return v.div(n + v.d/2)
}

// maxTableRadius is the largest stack blur radius with a precomputed
// divisor.
const maxTableRadius = 254

// stackDivisors holds the stack blur normalizers (r+1)^2 for r in
// [0, maxTableRadius]. Built once, read-only afterwards.
var stackDivisors = func() [maxTableRadius + 1]divisor {
	var t [maxTableRadius + 1]divisor
	for r := range t {
		t[r] = newDivisor(stackWeightSum(r))
	}
	return t
}()

// stackWeightSum is the sum of the triangular stack weights of radius r,
// (r+1)^2 = r*(r+2)+1.
func stackWeightSum(r int) uint64 {
	return uint64(r+1) * uint64(r+1)
}

func stackDivisor(r int) divisor {
	if r >= 0 && r <= maxTableRadius {
		return stackDivisors[r]
	}
	return newDivisor(stackWeightSum(r))
}

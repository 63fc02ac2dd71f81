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

//go:build amd64

package hwy

import "golang.org/x/sys/cpu"

// hasF16C indicates F16C support: float16 <-> float32 conversions (Haswell+).
var hasF16C bool

func init() {
	// Check if SIMD is disabled via environment variable
	if NoSimdEnv() {
		setLevel(DispatchScalar)
		return
	}
	setLevel(detectLevel(cpu.X86.HasAVX2, cpu.X86.HasSSE41))

	// F16C detection: use FMA as a proxy (F16C is present on all FMA-capable CPUs)
	if cpu.X86.HasAVX {
		hasF16C = cpu.X86.HasFMA
	}
}

// detectLevel picks the widest level the flags allow.
func detectLevel(avx2, sse41 bool) DispatchLevel {
	switch {
	case avx2:
		return DispatchAVX2
	case sse41:
		return DispatchSSE41
	default:
		return DispatchScalar
	}
}

// HasF16C returns true if the CPU supports F16C instructions.
// F16C provides hardware-accelerated float16 <-> float32 conversions.
func HasF16C() bool {
	return hasF16C
}

// HasARMFP16 returns false on x86.
func HasARMFP16() bool {
	return false
}

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
	"strings"

	"github.com/ajroetker/go-blur/hwy/contrib/image"
	"github.com/pkg/errors"
)

// EdgeMode selects how filter taps outside the image are resolved.
type EdgeMode int

const (
	// EdgeClamp repeats the edge sample: aaa|abcd|ddd.
	EdgeClamp EdgeMode = iota
	// EdgeWrap tiles the axis: bcd|abcd|abc.
	EdgeWrap
	// EdgeReflect mirrors and repeats the edge sample: cba|abcd|dcb.
	EdgeReflect
	// EdgeReflect101 mirrors about the edge sample: dcb|abcd|cba.
	EdgeReflect101
	// EdgeConstant substitutes Options.Fill for every outside tap.
	EdgeConstant
)

var edgeNames = [...]string{
	EdgeClamp:      "clamp",
	EdgeWrap:       "wrap",
	EdgeReflect:    "reflect",
	EdgeReflect101: "reflect101",
	EdgeConstant:   "constant",
}

func (m EdgeMode) String() string {
	if m.Valid() {
		return edgeNames[m]
	}
	return fmt.Sprintf("EdgeMode(%d)", int(m))
}

// Valid reports whether m is a known edge mode.
func (m EdgeMode) Valid() bool {
	return m >= EdgeClamp && m <= EdgeConstant
}

// ParseEdgeMode parses the names returned by String, case-insensitively.
func ParseEdgeMode(s string) (EdgeMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range edgeNames {
		if s == name {
			return EdgeMode(m), nil
		}
	}
	return 0, errors.Wrapf(ErrEdgeMode, "%q", s)
}

// Resolve maps coordinate coord on an axis of dim samples to an in-bounds
// index. The bool is false only for EdgeConstant when coord is outside,
// meaning the fill value should be used instead. In-bounds coordinates map
// to themselves for every mode.
//
// Resolve panics if dim < 1 or mode is unknown.
func Resolve(coord, dim int, mode EdgeMode) (int, bool) {
	if dim < 1 {
		panic(fmt.Sprintf("blur: Resolve on axis of %d samples", dim))
	}
	if coord >= 0 && coord < dim {
		return coord, true
	}
	switch mode {
	case EdgeClamp:
		return image.Clamp(coord, dim), true
	case EdgeWrap:
		return image.Wrap(coord, dim), true
	case EdgeReflect:
		return image.Mirror(coord, dim), true
	case EdgeReflect101:
		return image.Mirror101(coord, dim), true
	case EdgeConstant:
		return 0, false
	}
	panic(fmt.Sprintf("blur: unknown edge mode %d", int(mode)))
}

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
	"github.com/ajroetker/go-blur/hwy/contrib/image"
	"github.com/pkg/errors"
)

// Layout errors reported by CheckImages. They are the image package's
// sentinels, re-exported so callers only need to import blur.
var (
	ErrBufferTooSmall = image.ErrBufferTooSmall
	ErrStride         = image.ErrStride
	ErrChannels       = image.ErrChannels
	ErrDimensions     = image.ErrDimensions
)

var (
	// ErrSizeMismatch is returned when src and dst differ in shape.
	ErrSizeMismatch = errors.New("blur: source and destination differ in shape")
	// ErrEdgeMode is returned for unknown edge modes.
	ErrEdgeMode = errors.New("blur: unknown edge mode")
	// ErrThreads is returned for negative threading policies.
	ErrThreads = errors.New("blur: invalid threading policy")
	// ErrPrecision is returned for unknown precision levels.
	ErrPrecision = errors.New("blur: unknown precision")
)

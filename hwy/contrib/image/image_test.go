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

import (
	"testing"

	"github.com/ajroetker/go-blur/hwy"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestNewImage(t *testing.T) {
	img := NewImage[float32](100, 50, RGB)

	if img.Width() != 100 {
		t.Errorf("Width: got %d, want 100", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Height: got %d, want 50", img.Height())
	}
	if img.RowLen() != 300 {
		t.Errorf("RowLen: got %d, want 300", img.RowLen())
	}

	// Stride should be >= row length and aligned to vector width
	lanes := hwy.MaxLanes[float32]()
	if img.Stride() < 300 {
		t.Errorf("Stride: got %d, want >= 300", img.Stride())
	}
	if img.Stride()%lanes != 0 {
		t.Errorf("Stride not aligned: got %d, want multiple of %d", img.Stride(), lanes)
	}
	if err := img.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNewImage_ZeroDimensions(t *testing.T) {
	img := NewImage[uint8](0, 0, Plane)
	if !img.Empty() {
		t.Errorf("Zero dimensions: got %dx%d, want empty", img.Width(), img.Height())
	}
	if err := img.Validate(); err != nil {
		t.Errorf("Validate on empty image: %v", err)
	}

	img = NewImage[uint8](-1, 10, Plane)
	if img.Width() != 0 || img.Height() != 0 {
		t.Errorf("Negative width: got %dx%d, want 0x0", img.Width(), img.Height())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		img  *Image[uint8]
		want error
	}{
		{"ok", FromSlice(make([]uint8, 12), 4, 3, 4, Plane), nil},
		{"unpadded last row", FromSlice(make([]uint8, 2*8+4), 4, 3, 8, Plane), nil},
		{"negative", FromSlice[uint8](nil, -1, 3, 4, Plane), ErrDimensions},
		{"channels", FromSlice(make([]uint8, 24), 4, 3, 8, Channels(2)), ErrChannels},
		{"stride", FromSlice(make([]uint8, 36), 4, 3, 11, RGB), ErrStride},
		{"short", FromSlice(make([]uint8, 11), 4, 3, 4, Plane), ErrBufferTooSmall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate: got %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestImage_Row(t *testing.T) {
	img := NewImage[float32](10, 5, Plane)

	row0 := img.Row(0)
	for i := range 10 {
		row0[i] = float32(i)
	}
	for i := range 10 {
		if row0[i] != float32(i) {
			t.Errorf("Row[0][%d]: got %v, want %v", i, row0[i], float32(i))
		}
	}

	// Different row should be independent
	row1 := img.Row(1)
	row1[0] = 999
	if row0[0] == 999 {
		t.Error("Rows should be independent")
	}

	if img.Row(-1) != nil {
		t.Error("Row(-1) should return nil")
	}
	if img.Row(5) != nil {
		t.Error("Row(5) should return nil")
	}
}

func TestImage_RowSlice(t *testing.T) {
	img := NewImage[uint16](10, 5, RGBA)

	if got := len(img.RowSlice(0)); got != 40 {
		t.Errorf("RowSlice length: got %d, want 40", got)
	}
	if got := len(img.Row(0)); got != img.Stride() {
		t.Errorf("Row length: got %d, want %d", got, img.Stride())
	}
}

func TestImage_RowsDisjoint(t *testing.T) {
	pix := make([]uint8, 6*10)
	img := FromSlice(pix, 4, 6, 10, Plane)

	a := img.Rows(0, 2)
	b := img.Rows(2, 6)
	if len(a) != 10+4 {
		t.Errorf("len(Rows(0,2)): got %d, want 14", len(a))
	}
	if cap(a) != len(a) {
		t.Errorf("cap(Rows(0,2)): got %d, want %d", cap(a), len(a))
	}
	if &b[0] != &pix[20] {
		t.Error("Rows(2,6) should start at row 2")
	}
	// Writing everything in a must leave b untouched.
	for i := range a {
		a[i] = 1
	}
	for i, v := range b {
		if v != 0 {
			t.Fatalf("Rows(2,6)[%d] = %d after writing Rows(0,2)", i, v)
		}
	}

	if img.Rows(3, 3) != nil || img.Rows(-1, 2) != nil || img.Rows(0, 7) != nil {
		t.Error("invalid row ranges should return nil")
	}
}

func TestImage_AtSet(t *testing.T) {
	img := NewImage[float32](10, 10, RGB)

	img.Set(5, 7, 2, 42.0)
	if got := img.At(5, 7, 2); got != 42.0 {
		t.Errorf("At(5,7,2): got %v, want 42.0", got)
	}
	if got := img.RowSlice(7)[5*3+2]; got != 42.0 {
		t.Errorf("interleaved offset: got %v, want 42.0", got)
	}

	if got := img.At(-1, 0, 0); got != 0 {
		t.Errorf("At(-1,0,0): got %v, want 0", got)
	}
	if got := img.At(0, 0, 3); got != 0 {
		t.Errorf("At(0,0,3): got %v, want 0", got)
	}

	// Set out of bounds should be no-op
	img.Set(-1, 0, 0, 999)
	img.Set(10, 0, 0, 999)
}

func TestImage_Clone(t *testing.T) {
	img := NewImage[float32](10, 10, Plane)
	img.Set(5, 5, 0, 42.0)

	clone := img.Clone()
	if !Equal(img, clone) {
		t.Error("Clone should equal the original")
	}

	clone.Set(5, 5, 0, 100.0)
	if img.At(5, 5, 0) != 42.0 {
		t.Error("Modifying clone affected original")
	}
}

func TestImage_FillKeepsPadding(t *testing.T) {
	pix := make([]uint8, 3*8)
	img := FromSlice(pix, 2, 3, 8, RGB)
	img.Fill(7)

	for y := range 3 {
		for i := range 8 {
			want := uint8(0)
			if i < 6 {
				want = 7
			}
			if got := pix[y*8+i]; got != want {
				t.Errorf("pix[%d][%d]: got %d, want %d", y, i, got, want)
			}
		}
	}
}

func TestImage_DigestIgnoresPadding(t *testing.T) {
	a := FromSlice(make([]uint16, 2*4), 3, 2, 4, Plane)
	b := FromSlice(make([]uint16, 2*8), 3, 2, 8, Plane)
	for y := range 2 {
		for x := range 3 {
			a.Set(x, y, 0, uint16(x+10*y))
			b.Set(x, y, 0, uint16(x+10*y))
		}
	}
	b.Row(0)[7] = 12345

	if a.Digest() != b.Digest() {
		t.Error("Digest should not depend on stride or padding")
	}
	b.Set(2, 1, 0, 0)
	if a.Digest() == b.Digest() {
		t.Error("Digest should change with pixel content")
	}
}

func TestChannels(t *testing.T) {
	for _, c := range []Channels{Plane, RGB, RGBA} {
		if !c.Valid() {
			t.Errorf("%v should be valid", c)
		}
	}
	for _, c := range []Channels{0, 2, 5} {
		if c.Valid() {
			t.Errorf("%v should be invalid", c)
		}
	}
	if RGB.String() != "rgb" {
		t.Errorf("RGB.String(): got %q", RGB.String())
	}
}

func TestConvert(t *testing.T) {
	src := NewImage[uint8](4, 1, Plane)
	copy(src.RowSlice(0), []uint8{0, 1, 128, 255})

	f := Convert[float32](src)
	if diff := cmp.Diff([]float32{0, 1, 128, 255}, f.RowSlice(0)); diff != "" {
		t.Errorf("Convert[float32] mismatch (-want +got):\n%s", diff)
	}

	h := Convert[hwy.Float16](src)
	back := Convert[uint8](h)
	if !Equal(src, back) {
		t.Errorf("uint8 -> Float16 -> uint8: got %v, want %v", back.RowSlice(0), src.RowSlice(0))
	}

	f.RowSlice(0)[0] = -3
	f.RowSlice(0)[1] = 300
	f.RowSlice(0)[2] = 1.5
	u := Convert[uint8](f)
	if diff := cmp.Diff([]uint8{0, 255, 2, 255}, u.RowSlice(0)); diff != "" {
		t.Errorf("saturated Convert[uint8] mismatch (-want +got):\n%s", diff)
	}
}

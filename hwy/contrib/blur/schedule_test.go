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
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/ajroetker/go-blur/hwy/contrib/workerpool"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionCoversExactly(t *testing.T) {
	for dim := 0; dim <= 40; dim++ {
		for threads := 1; threads <= 12; threads++ {
			bands := Partition(dim, threads)
			next := 0
			for _, b := range bands {
				require.Equal(t, next, b.Y0, "dim=%d threads=%d", dim, threads)
				require.Positive(t, b.Len(), "dim=%d threads=%d", dim, threads)
				next = b.Y1
			}
			require.Equal(t, dim, next, "dim=%d threads=%d", dim, threads)
			require.LessOrEqual(t, len(bands), threads)
		}
	}
}

func TestPartitionBands(t *testing.T) {
	assert.Equal(t, []Band{{0, 3}, {3, 6}, {6, 10}}, Partition(10, 3))
	assert.Equal(t, []Band{{0, 1}, {1, 2}}, Partition(2, 5))
	assert.Equal(t, []Band{{0, 7}}, Partition(7, 0))
	assert.Empty(t, Partition(0, 4))
}

func TestThreadingPolicy(t *testing.T) {
	assert.Equal(t, 1, Single.Threads(4096, 4096))
	assert.Equal(t, 6, ThreadingPolicy(6).Threads(1, 1))
	assert.Equal(t, 1, Adaptive.Threads(100, 100))
	assert.Equal(t, min(4, runtime.GOMAXPROCS(0)), Adaptive.Threads(512, 512))
	assert.LessOrEqual(t, Adaptive.Threads(1<<15, 1<<15), runtime.GOMAXPROCS(0))

	assert.NoError(t, Adaptive.Validate())
	err := ThreadingPolicy(-2).Validate()
	assert.True(t, errors.Is(err, ErrThreads))
	assert.Panics(t, func() { ThreadingPolicy(-1).Threads(10, 10) })

	assert.Equal(t, "adaptive", Adaptive.String())
	assert.Equal(t, "single", Single.String())
	assert.Equal(t, "threads(8)", ThreadingPolicy(8).String())
}

func TestSchedulerStateMachine(t *testing.T) {
	s := newScheduler(2, nil)
	assert.Equal(t, stateIdle, s.state)

	// The vertical wave cannot run first.
	assert.Panics(t, func() { s.vertical(nil) })

	var order []string
	s = newScheduler(1, nil)
	s.horizontal([]func(){func() { order = append(order, "h") }})
	assert.Equal(t, stateHorizontalDone, s.state)
	assert.Panics(t, func() { s.horizontal(nil) })

	s.vertical([]func(){func() { order = append(order, "v") }})
	assert.Equal(t, stateDone, s.state)
	assert.Equal(t, []string{"h", "v"}, order)
	assert.Panics(t, func() { s.vertical(nil) })
	assert.Equal(t, "VerticalRunning", stateVerticalRunning.String())
}

func TestSchedulerJoinsWaves(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	for _, p := range []*workerpool.Pool{nil, pool} {
		var done, early atomic.Int32
		tasks := make([]func(), 8)
		for i := range tasks {
			tasks[i] = func() { done.Add(1) }
		}
		check := make([]func(), 8)
		for i := range check {
			check[i] = func() {
				if done.Load() != 8 {
					early.Add(1)
				}
			}
		}
		s := newScheduler(4, p)
		s.horizontal(tasks)
		s.vertical(check)
		assert.Zero(t, early.Load(), "vertical task started before the horizontal wave joined")
	}
}

func TestSchedulerPropagatesPanics(t *testing.T) {
	pool := workerpool.New(3)
	defer pool.Close()

	backends := map[string]*scheduler{
		"inline":   newScheduler(1, nil),
		"errgroup": newScheduler(4, nil),
		"pool":     newScheduler(4, pool),
	}
	for name, s := range backends {
		var ran atomic.Int32
		tasks := make([]func(), 6)
		for i := range tasks {
			tasks[i] = func() {
				ran.Add(1)
				if i == 2 {
					panic("band failed")
				}
			}
		}
		assert.PanicsWithValue(t, "band failed", func() { s.horizontal(tasks) }, name)
		if name != "inline" {
			assert.Equal(t, int32(6), ran.Load(), "%s: the wave must join before re-panicking", name)
		}
	}

	// The pool is still usable afterwards.
	var n atomic.Int32
	pool.Run(5, func(int) { n.Add(1) })
	assert.Equal(t, int32(5), n.Load())
}

func TestErrgroupWaveKeepsPanicValue(t *testing.T) {
	s := newScheduler(3, nil)
	cause := errors.Wrap(ErrThreads, "band 4")
	var ran atomic.Int32
	tasks := make([]func(), 5)
	for i := range tasks {
		tasks[i] = func() {
			ran.Add(1)
			if i%2 == 0 {
				panic(cause)
			}
		}
	}

	var got any
	func() {
		defer func() { got = recover() }()
		s.horizontal(tasks)
	}()
	assert.Equal(t, int32(5), ran.Load())
	err, ok := got.(error)
	require.True(t, ok, "recovered %T", got)
	assert.Same(t, cause, err)
	assert.True(t, errors.Is(err, ErrThreads))
	assert.Equal(t, stateHorizontalRunning, s.state)
}

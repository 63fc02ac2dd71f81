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
	"runtime"

	"github.com/ajroetker/go-blur/hwy/contrib/workerpool"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Band is the half-open row range [Y0, Y1) one task owns.
type Band struct {
	Y0, Y1 int
}

// Len returns the number of rows in the band.
func (b Band) Len() int { return b.Y1 - b.Y0 }

// Partition splits [0, dim) into threads contiguous bands
// [t*dim/threads, (t+1)*dim/threads). The bands cover every row exactly
// once; empty bands, which appear when threads > dim, are dropped.
func Partition(dim, threads int) []Band {
	if dim <= 0 {
		return nil
	}
	threads = max(threads, 1)
	bands := make([]Band, 0, min(threads, dim))
	for t := range threads {
		b := Band{Y0: t * dim / threads, Y1: (t + 1) * dim / threads}
		if b.Len() > 0 {
			bands = append(bands, b)
		}
	}
	return bands
}

// ThreadingPolicy selects how many tasks a blur call fans out to.
//
// Adaptive picks one thread per 256x256 pixels, up to GOMAXPROCS. Single
// runs everything on the calling goroutine. Any value n > 1 uses exactly n
// bands per wave.
type ThreadingPolicy int

const (
	Adaptive ThreadingPolicy = 0
	Single   ThreadingPolicy = 1
)

// adaptivePixels is the image area handled per thread by Adaptive.
const adaptivePixels = 256 * 256

// Validate rejects negative policies.
func (p ThreadingPolicy) Validate() error {
	if p < 0 {
		return errors.Wrapf(ErrThreads, "threading policy %d", int(p))
	}
	return nil
}

// Threads resolves the policy for a width x height image.
func (p ThreadingPolicy) Threads(width, height int) int {
	switch {
	case p == Adaptive:
		return lo.Clamp(width*height/adaptivePixels, 1, runtime.GOMAXPROCS(0))
	case p < Single:
		panic(fmt.Sprintf("blur: threading policy %d", int(p)))
	default:
		return int(p)
	}
}

func (p ThreadingPolicy) String() string {
	switch p {
	case Adaptive:
		return "adaptive"
	case Single:
		return "single"
	}
	return fmt.Sprintf("threads(%d)", int(p))
}

// schedState is the progress of one blur call through its two waves.
type schedState int

const (
	stateIdle schedState = iota
	stateHorizontalRunning
	stateHorizontalDone
	stateVerticalRunning
	stateDone
)

var stateNames = [...]string{
	stateIdle:              "Idle",
	stateHorizontalRunning: "HorizontalRunning",
	stateHorizontalDone:    "HorizontalDone",
	stateVerticalRunning:   "VerticalRunning",
	stateDone:              "Done",
}

func (s schedState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("schedState(%d)", int(s))
	}
	return stateNames[s]
}

// scheduler runs the horizontal wave, joins it, then runs the vertical
// wave. Tasks of one wave write disjoint bands, and no vertical task starts
// before every horizontal task has returned.
type scheduler struct {
	state   schedState
	threads int
	pool    *workerpool.Pool
}

func newScheduler(threads int, pool *workerpool.Pool) *scheduler {
	return &scheduler{threads: max(threads, 1), pool: pool}
}

func (s *scheduler) transition(from, to schedState) {
	if s.state != from {
		panic(fmt.Sprintf("blur: scheduler in state %v, cannot move from %v to %v", s.state, from, to))
	}
	s.state = to
}

// horizontal runs the first wave. It panics unless the scheduler is idle.
func (s *scheduler) horizontal(tasks []func()) {
	s.transition(stateIdle, stateHorizontalRunning)
	s.wave(tasks)
	s.transition(stateHorizontalRunning, stateHorizontalDone)
}

// vertical runs the second wave. It panics unless the first wave is done.
func (s *scheduler) vertical(tasks []func()) {
	s.transition(stateHorizontalDone, stateVerticalRunning)
	s.wave(tasks)
	s.transition(stateVerticalRunning, stateDone)
}

// wave runs every task and returns after all of them did. A panic in any
// task is re-raised here once the wave has joined; the state is left at
// the running state in that case.
func (s *scheduler) wave(tasks []func()) {
	switch {
	case len(tasks) == 0:
	case len(tasks) == 1 || s.threads == 1:
		for _, task := range tasks {
			task()
		}
	case s.pool != nil:
		s.pool.Run(len(tasks), func(i int) { tasks[i]() })
	default:
		var g errgroup.Group
		g.SetLimit(s.threads)
		for _, task := range tasks {
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = taskPanic{value: r}
					}
				}()
				task()
				return nil
			})
		}
		// Tasks only fail by panicking; Wait returns the first one.
		if err := g.Wait(); err != nil {
			var tp taskPanic
			if errors.As(err, &tp) {
				panic(tp.value)
			}
			panic(err)
		}
	}
}

// taskPanic carries a value recovered from a wave task through the errgroup.
type taskPanic struct {
	value any
}

func (p taskPanic) Error() string {
	return fmt.Sprintf("blur: wave task panicked: %v", p.value)
}

package sqlite

import (
	"sync"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// errStack is the engine's single error stack. Frames are grouped in
// context levels; Begin pushes a level and End pops it.
type errStack struct {
	mu     sync.Mutex
	levels [][]types.Frame
}

func newErrStack() *errStack {
	return &errStack{}
}

// Begin opens a new context level.
func (s *errStack) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels = append(s.levels, nil)
}

// Pending returns the status of the oldest frame in the current level, or
// StatusOK when the level is empty.
func (s *errStack) Pending() types.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.levels) == 0 {
		return types.StatusOK
	}
	lvl := s.levels[len(s.levels)-1]
	if len(lvl) == 0 {
		return types.StatusOK
	}
	return lvl[0].Status
}

// Load removes and returns the oldest frame of the current level.
func (s *errStack) Load() (types.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.levels) == 0 {
		return types.Frame{}, false
	}
	top := len(s.levels) - 1
	if len(s.levels[top]) == 0 {
		return types.Frame{}, false
	}
	f := s.levels[top][0]
	s.levels[top] = s.levels[top][1:]
	return f, true
}

// End closes the current level and discards any frames left in it.
func (s *errStack) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.levels) > 0 {
		s.levels = s.levels[:len(s.levels)-1]
	}
}

// push records a frame in the current level. Frames reported outside any
// level open an implicit one so nothing is lost.
func (s *errStack) push(f types.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.levels) == 0 {
		s.levels = append(s.levels, nil)
	}
	top := len(s.levels) - 1
	s.levels[top] = append(s.levels[top], f)
}

// depth returns the number of open levels.
func (s *errStack) depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.levels)
}

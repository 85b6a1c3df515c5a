package gls

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// Slot holds one value per goroutine.
type Slot struct {
	mu     sync.RWMutex
	values map[uint64][]any
}

// NewSlot creates an empty slot.
func NewSlot() *Slot {
	return &Slot{values: make(map[uint64][]any)}
}

// Push installs value for the calling goroutine and returns a restore
// function that reinstates the previous value. Callers must invoke the
// restore function on the same goroutine, normally via defer.
func (s *Slot) Push(value any) (restore func()) {
	id := goroutineID()
	s.mu.Lock()
	s.values[id] = append(s.values[id], value)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		stack := s.values[id]
		if len(stack) == 0 {
			return
		}
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			delete(s.values, id)
		} else {
			s.values[id] = stack
		}
	}
}

// Get returns the value most recently pushed on the calling goroutine.
func (s *Slot) Get() (any, bool) {
	id := goroutineID()
	s.mu.RLock()
	defer s.mu.RUnlock()
	stack := s.values[id]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}

// Depth returns how many values the calling goroutine has pushed.
func (s *Slot) Depth() int {
	id := goroutineID()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values[id])
}

var goroutinePrefix = []byte("goroutine ")

// goroutineID parses the goroutine id from the first line of a stack
// trace ("goroutine 18 [running]:"). The buffer is small on purpose: only
// the header line is needed.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, goroutinePrefix)
	if i := bytes.IndexByte(buf, ' '); i > 0 {
		buf = buf[:i]
	}
	id, _ := strconv.ParseUint(string(buf), 10, 64)
	return id
}

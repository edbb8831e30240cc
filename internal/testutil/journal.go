package testutil

import (
	"errors"
	"sync"

	"mvx/internal/mvx"
)

// MemoryJournal keeps recorded moves in memory.
type MemoryJournal struct {
	mu    sync.Mutex
	moves []*mvx.MovedFile
	// Fail makes every RecordMove return an error.
	Fail bool
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) RecordMove(moved *mvx.MovedFile) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Fail {
		return errors.New("journal unavailable")
	}
	j.moves = append(j.moves, moved)
	return nil
}

// Moves returns the recorded moves in order.
func (j *MemoryJournal) Moves() []*mvx.MovedFile {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]*mvx.MovedFile(nil), j.moves...)
}

// Compile-time check
var _ mvx.Journal = (*MemoryJournal)(nil)

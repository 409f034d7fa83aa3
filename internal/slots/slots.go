// Package slots keeps up to NumSlots saved reactor networks so a user can
// rerun one without typing every parameter again.
package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/reactorsim/internal/reactor"
)

// NumSlots is the number of save slots, addressed 1..NumSlots.
const NumSlots = 5

var (
	ErrSlotRange = errors.New("slots: slot index out of range")
	ErrEmptySlot = errors.New("slots: slot is empty")
	ErrCorrupt   = errors.New("slots: save data is corrupt")
)

type Slot struct {
	Index   int
	Filled  bool
	SavedAt time.Time
	Params  reactor.Params
}

// Repository loads and stores networks by slot index.
type Repository interface {
	List(ctx context.Context) ([]Slot, error)
	Load(ctx context.Context, index int) (reactor.Params, error)
	Store(ctx context.Context, index int, p reactor.Params) error
	Close() error
}

// Open returns the repository for backend ("file" or "sqlite") rooted at
// path.
func Open(backend, path string) (Repository, error) {
	switch backend {
	case "file", "":
		return NewFileRepository(path), nil
	case "sqlite":
		return NewSQLRepository(path)
	}
	return nil, fmt.Errorf("unknown slot backend: %s", backend)
}

func checkIndex(index int) error {
	if index < 1 || index > NumSlots {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrSlotRange, index, NumSlots)
	}
	return nil
}

// checkStore guards both backends: only runnable networks are saved.
func checkStore(index int, p reactor.Params) error {
	if err := checkIndex(index); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("refusing to save slot %d: %w", index, err)
	}
	return nil
}

func emptySlots() []Slot {
	out := make([]Slot, NumSlots)
	for i := range out {
		out[i].Index = i + 1
	}
	return out
}

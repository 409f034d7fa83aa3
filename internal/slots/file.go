package slots

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/san-kum/reactorsim/internal/reactor"
)

// record is the fixed-size on-disk layout of one slot.
type record struct {
	Filled  uint32
	SavedAt int64
	Values  [16]float64
}

// RecordSize is the encoded size of one slot in bytes.
var RecordSize = binary.Size(record{})

// FileRepository keeps all slots in a single file of NumSlots little-endian
// records. A missing file reads as all slots empty.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository uses the save file at path. Nothing is read or created
// until the first call.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string { return r.path }

func (r *FileRepository) List(ctx context.Context) ([]Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.read()
	if err != nil {
		return nil, err
	}
	out := emptySlots()
	for i, rec := range recs {
		if rec.Filled == 0 {
			continue
		}
		out[i].Filled = true
		out[i].SavedAt = time.Unix(0, rec.SavedAt)
		out[i].Params = fromValues(rec.Values)
	}
	return out, nil
}

func (r *FileRepository) Load(ctx context.Context, index int) (reactor.Params, error) {
	if err := checkIndex(index); err != nil {
		return reactor.Params{}, err
	}
	if err := ctx.Err(); err != nil {
		return reactor.Params{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.read()
	if err != nil {
		return reactor.Params{}, err
	}
	rec := recs[index-1]
	if rec.Filled == 0 {
		return reactor.Params{}, fmt.Errorf("%w: %d", ErrEmptySlot, index)
	}
	return fromValues(rec.Values), nil
}

func (r *FileRepository) Store(ctx context.Context, index int, p reactor.Params) error {
	if err := checkStore(index, p); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.read()
	if err != nil {
		return err
	}
	recs[index-1] = record{Filled: 1, SavedAt: time.Now().UnixNano(), Values: toValues(p)}
	return r.write(recs)
}

func (r *FileRepository) Close() error { return nil }

func (r *FileRepository) read() ([NumSlots]record, error) {
	var recs [NumSlots]record

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return recs, nil
		}
		return recs, err
	}
	defer f.Close()

	if err := binary.Read(f, binary.LittleEndian, &recs); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return recs, fmt.Errorf("%w: %s is shorter than %d bytes", ErrCorrupt, r.path, NumSlots*RecordSize)
		}
		return recs, err
	}
	return recs, nil
}

// write replaces the file atomically so a crash never leaves half a save.
func (r *FileRepository) write(recs [NumSlots]record) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := binary.Write(tmp, binary.LittleEndian, &recs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

func toValues(p reactor.Params) [16]float64 {
	return [16]float64{
		p.Volumes.V1, p.Volumes.V2, p.Volumes.V3,
		p.Flows.Q01, p.Flows.Q03, p.Flows.Q12, p.Flows.Q23, p.Flows.Q31, p.Flows.Q33,
		p.Inputs.Put1, p.Inputs.Put2,
		p.Initial.C1, p.Initial.C2, p.Initial.C3,
		p.DeltaT, p.TFinal,
	}
}

func fromValues(v [16]float64) reactor.Params {
	return reactor.Params{
		Volumes: reactor.Volumes{V1: v[0], V2: v[1], V3: v[2]},
		Flows:   reactor.Flows{Q01: v[3], Q03: v[4], Q12: v[5], Q23: v[6], Q31: v[7], Q33: v[8]},
		Inputs:  reactor.Inputs{Put1: v[9], Put2: v[10]},
		Initial: reactor.Initial{C1: v[11], C2: v[12], C3: v[13]},
		DeltaT:  v[14],
		TFinal:  v[15],
	}
}

package reorder

import (
	"math"

	apperrors "ordertrack/internal/errors"
)

// Sequence is the ordered collection rows are moved within.
type Sequence interface {
	IndexOf(id string) (int, error)
	Len() int
	Move(id string, to int) error
}

// Sorter previews the drop index from the vertical drag offset and commits
// it to the sequence on drop.
type Sorter struct {
	seq       Sequence
	rowHeight float64

	active  bool
	id      string
	from    int
	preview int
}

func NewSorter(seq Sequence, rowHeight float64) *Sorter {
	if rowHeight <= 0 {
		rowHeight = 48
	}
	return &Sorter{seq: seq, rowHeight: rowHeight}
}

func (s *Sorter) BeginDrag(id string) error {
	i, err := s.seq.IndexOf(id)
	if err != nil {
		return err
	}
	s.active = true
	s.id = id
	s.from = i
	s.preview = i
	return nil
}

func (s *Sorter) DragTo(offsetY float64) int {
	if !s.active {
		return -1
	}

	to := s.from + int(math.Round(offsetY/s.rowHeight))
	if to < 0 {
		to = 0
	}
	if last := s.seq.Len() - 1; to > last {
		to = last
	}
	s.preview = to
	return to
}

func (s *Sorter) Drop() error {
	if !s.active {
		return apperrors.NewConflictError("no row is being dragged")
	}
	id, to := s.id, s.preview
	s.Abort()
	return s.seq.Move(id, to)
}

func (s *Sorter) Abort() {
	s.active = false
	s.id = ""
	s.from = 0
	s.preview = 0
}

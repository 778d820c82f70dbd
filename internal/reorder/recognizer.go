// Package reorder gates drag-to-reorder of grid rows behind a long-press
// gesture, so a plain touch drag still scrolls.
package reorder

import (
	"math"
	"time"

	"go.uber.org/zap"

	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/schedule"
)

type Phase string

const (
	Idle     Phase = "idle"
	Pressing Phase = "pressing"
	Dragging Phase = "dragging"
)

type PointerKind string

const (
	Mouse PointerKind = "mouse"
	Touch PointerKind = "touch"
	Pen   PointerKind = "pen"
)

func ParsePointerKind(s string) (PointerKind, bool) {
	switch PointerKind(s) {
	case Mouse, Touch, Pen:
		return PointerKind(s), true
	}
	return "", false
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sortable receives the drag lifecycle. BeginDrag is called when the gesture
// enters Dragging, DragTo on every move, Drop on pointer up and Abort when the
// gesture is cancelled.
type Sortable interface {
	BeginDrag(id string) error
	DragTo(offsetY float64) int
	Drop() error
	Abort()
}

type Config struct {
	Threshold time.Duration
	Tolerance float64
}

func DefaultConfig() Config {
	return Config{
		Threshold: 200 * time.Millisecond,
		Tolerance: 10,
	}
}

type State struct {
	Phase        Phase  `json:"phase"`
	OrderID      string `json:"orderId,omitempty"`
	PreviewIndex int    `json:"previewIndex"`
	HapticPulses int    `json:"hapticPulses"`
}

// Recognizer is not safe for concurrent use. Timer callbacks must be
// delivered on the same goroutine as pointer events.
type Recognizer struct {
	cfg      Config
	sched    schedule.Scheduler
	sortable Sortable
	haptic   func()
	logger   *zap.Logger

	phase   Phase
	orderID string
	origin  Point
	timer   schedule.Timer
	gen     uint64
	preview int
	pulses  int
}

type Option func(*Recognizer)

// WithHaptic installs the pulse fired when a long press turns into a drag.
func WithHaptic(fn func()) Option {
	return func(r *Recognizer) { r.haptic = fn }
}

func NewRecognizer(cfg Config, sched schedule.Scheduler, sortable Sortable, logger *zap.Logger, opts ...Option) *Recognizer {
	r := &Recognizer{
		cfg:      cfg,
		sched:    sched,
		sortable: sortable,
		haptic:   func() {},
		logger:   logger.With(zap.String("component", "row_reorder")),
		phase:    Idle,
		preview:  -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recognizer) State() State {
	return State{
		Phase:        r.phase,
		OrderID:      r.orderID,
		PreviewIndex: r.preview,
		HapticPulses: r.pulses,
	}
}

// PointerDown starts a gesture on a row. A primary mouse button drags
// immediately; other pointers wait out the long-press threshold.
func (r *Recognizer) PointerDown(id string, kind PointerKind, button int, p Point) (State, error) {
	if r.phase != Idle {
		return r.State(), apperrors.NewConflictError("a row gesture is already in progress")
	}

	r.orderID = id
	r.origin = p
	r.pulses = 0
	r.preview = -1

	if kind == Mouse {
		if button != 0 {
			r.reset()
			return r.State(), nil
		}
		if err := r.sortable.BeginDrag(id); err != nil {
			r.reset()
			return r.State(), err
		}
		r.phase = Dragging
		return r.State(), nil
	}

	r.phase = Pressing
	r.gen++
	gen := r.gen
	r.timer = r.sched.AfterFunc(r.cfg.Threshold, func() { r.longPress(gen) })
	return r.State(), nil
}

func (r *Recognizer) PointerMove(p Point) State {
	switch r.phase {
	case Pressing:
		if math.Hypot(p.X-r.origin.X, p.Y-r.origin.Y) > r.cfg.Tolerance {
			r.logger.Debug("long press cancelled by movement", zap.String("orderId", r.orderID))
			r.stopTimer()
			r.reset()
		}
	case Dragging:
		r.preview = r.sortable.DragTo(p.Y - r.origin.Y)
	}
	return r.State()
}

// PointerUp commits a drag into the store sequence. Releasing while still
// pressing counts as a tap.
func (r *Recognizer) PointerUp(p Point) (State, error) {
	switch r.phase {
	case Pressing:
		r.stopTimer()
		r.reset()
	case Dragging:
		r.sortable.DragTo(p.Y - r.origin.Y)
		err := r.sortable.Drop()
		r.reset()
		return r.State(), err
	}
	return r.State(), nil
}

func (r *Recognizer) PointerCancel() State {
	switch r.phase {
	case Pressing:
		r.stopTimer()
	case Dragging:
		r.sortable.Abort()
	}
	r.reset()
	return r.State()
}

// Close abandons any gesture and stops the long-press timer.
func (r *Recognizer) Close() {
	r.PointerCancel()
}

func (r *Recognizer) longPress(gen uint64) {
	if r.phase != Pressing || gen != r.gen {
		return
	}
	r.timer = nil

	if err := r.sortable.BeginDrag(r.orderID); err != nil {
		r.logger.Warn("could not start row drag", zap.String("orderId", r.orderID), zap.Error(err))
		r.reset()
		return
	}

	r.phase = Dragging
	r.pulses++
	r.haptic()
}

func (r *Recognizer) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Recognizer) reset() {
	r.phase = Idle
	r.orderID = ""
	r.preview = -1
}

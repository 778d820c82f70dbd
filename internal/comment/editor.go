// Package comment implements inline editing of order comments with
// debounced autosave and the faster priority commit path.
package comment

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"ordertrack/internal/domain"
	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/priority"
	"ordertrack/internal/schedule"
)

type Mode string

const (
	Viewing Mode = "viewing"
	Editing Mode = "editing"
)

// Repository is the subset of the order store the editor reads and commits to.
type Repository interface {
	Get(id string) (domain.Order, error)
	UpdateComment(id, text string) (domain.Order, error)
}

type Config struct {
	Debounce      time.Duration
	PriorityDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		Debounce:      1000 * time.Millisecond,
		PriorityDelay: 150 * time.Millisecond,
	}
}

type State struct {
	Mode      Mode     `json:"mode"`
	OrderID   string   `json:"orderId,omitempty"`
	Buffer    string   `json:"buffer"`
	Priority  *int     `json:"priority,omitempty"`
	Remainder string   `json:"remainder"`
	Pending   []string `json:"pending"`
}

type pendingCommit struct {
	timer schedule.Timer
	gen   uint64
	text  string
}

// Editor is not safe for concurrent use. It expects to run on the session
// loop, with a scheduler whose callbacks are delivered back to that loop.
type Editor struct {
	repo   Repository
	sched  schedule.Scheduler
	cfg    Config
	logger *zap.Logger

	editingID string
	buffer    string
	pending   map[string]*pendingCommit
	gen       uint64
}

func NewEditor(repo Repository, sched schedule.Scheduler, cfg Config, logger *zap.Logger) *Editor {
	return &Editor{
		repo:    repo,
		sched:   sched,
		cfg:     cfg,
		logger:  logger.With(zap.String("component", "comment_editor")),
		pending: make(map[string]*pendingCommit),
	}
}

func (e *Editor) IsEditing() bool {
	return e.editingID != ""
}

func (e *Editor) EditingID() string {
	return e.editingID
}

func (e *Editor) State() State {
	s := State{Mode: Viewing, Pending: make([]string, 0, len(e.pending))}
	for id := range e.pending {
		s.Pending = append(s.Pending, id)
	}
	sort.Strings(s.Pending)

	if e.editingID == "" {
		return s
	}

	s.Mode = Editing
	s.OrderID = e.editingID
	s.Buffer = e.buffer
	s.Remainder = e.buffer
	if p, ok, rest := priority.Decode(e.buffer); ok {
		s.Priority = &p
		s.Remainder = rest
	}
	return s
}

// Begin puts the order's comment cell into edit mode, seeded with the stored
// text. Another row being edited is blur-committed first.
func (e *Editor) Begin(id string) error {
	if e.editingID == id {
		return nil
	}

	order, err := e.repo.Get(id)
	if err != nil {
		return err
	}

	if e.editingID != "" {
		if _, err := e.finish(false); err != nil {
			e.logger.Warn("blur commit failed while switching rows", zap.Error(err))
		}
	}

	e.editingID = id
	e.buffer = order.Comment
	return nil
}

// Change replaces the buffer and restarts the debounce timer.
func (e *Editor) Change(text string) error {
	if e.editingID == "" {
		return apperrors.NewConflictError("no comment is being edited")
	}

	e.buffer = text
	e.schedule(e.editingID, text, e.cfg.Debounce)
	return nil
}

// TogglePriority toggles p on the buffer and schedules the priority commit,
// which replaces any pending text commit for the row.
func (e *Editor) TogglePriority(p int) error {
	if err := validatePriority(p); err != nil {
		return err
	}
	if e.editingID == "" {
		return apperrors.NewConflictError("no comment is being edited")
	}

	e.buffer = priority.Toggle(p, e.buffer)
	e.schedule(e.editingID, e.buffer, e.cfg.PriorityDelay)
	return nil
}

func (e *Editor) Save() (domain.Order, error) {
	if e.editingID == "" {
		return domain.Order{}, apperrors.NewConflictError("no comment is being edited")
	}
	return e.finish(true)
}

func (e *Editor) Blur() (domain.Order, error) {
	if e.editingID == "" {
		return domain.Order{}, apperrors.NewConflictError("no comment is being edited")
	}
	return e.finish(false)
}

// Cancel leaves edit mode without committing. It is a no-op while viewing.
func (e *Editor) Cancel() {
	if e.editingID == "" {
		return
	}
	e.cancel(e.editingID)
	e.editingID = ""
	e.buffer = ""
}

// SetPriority toggles p on the stored comment of a row that is not being
// edited and commits at once.
func (e *Editor) SetPriority(id string, p int) (domain.Order, error) {
	if err := validatePriority(p); err != nil {
		return domain.Order{}, err
	}
	if e.editingID == id {
		return domain.Order{}, apperrors.NewConflictError("order " + id + " is being edited")
	}

	order, err := e.repo.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	e.cancel(id)
	return e.commit(id, priority.Toggle(p, order.Comment))
}

// Close stops every pending timer without committing and leaves edit mode.
func (e *Editor) Close() {
	for id := range e.pending {
		e.cancel(id)
	}
	e.editingID = ""
	e.buffer = ""
}

func (e *Editor) finish(explicit bool) (domain.Order, error) {
	id, text := e.editingID, e.buffer
	e.cancel(id)
	e.editingID = ""
	e.buffer = ""

	if explicit {
		e.logger.Debug("saving comment", zap.String("orderId", id))
	} else {
		e.logger.Debug("committing comment on blur", zap.String("orderId", id))
	}
	return e.commit(id, text)
}

func (e *Editor) schedule(id, text string, d time.Duration) {
	e.cancel(id)

	e.gen++
	gen := e.gen
	timer := e.sched.AfterFunc(d, func() { e.fire(id, gen) })
	e.pending[id] = &pendingCommit{timer: timer, gen: gen, text: text}
}

func (e *Editor) fire(id string, gen uint64) {
	p, ok := e.pending[id]
	if !ok || p.gen != gen {
		return
	}
	delete(e.pending, id)

	_, _ = e.commit(id, p.text)
}

func (e *Editor) cancel(id string) {
	if p, ok := e.pending[id]; ok {
		p.timer.Stop()
		delete(e.pending, id)
	}
}

func (e *Editor) commit(id, text string) (domain.Order, error) {
	order, err := e.repo.UpdateComment(id, text)
	if err != nil {
		e.logger.Warn("comment commit failed", zap.String("orderId", id), zap.Error(err))
		return domain.Order{}, err
	}
	return order, nil
}

func validatePriority(p int) error {
	if priority.Valid(p) {
		return nil
	}
	return apperrors.NewValidationError("invalid priority", apperrors.ValidationDetail{
		Field:   "priority",
		Message: "priority must be between 1 and 7",
	})
}

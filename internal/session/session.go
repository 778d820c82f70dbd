// Package session holds the dashboard's application state. Everything it owns
// is touched only from the session loop.
package session

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordertrack/internal/comment"
	"ordertrack/internal/config"
	"ordertrack/internal/domain"
	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/order/service"
	"ordertrack/internal/order/store"
	"ordertrack/internal/reorder"
	"ordertrack/internal/scan"
	"ordertrack/internal/schedule"
	"ordertrack/internal/viewport"
)

// Components is the state handed to every task run on the loop. It must not
// escape the task.
type Components struct {
	Store      *store.Store
	Editor     *comment.Editor
	Page       *viewport.Controller
	Table      *viewport.Controller
	Recognizer *reorder.Recognizer
	Matcher    *scan.Matcher
	Status     *service.StatusService

	Commission decimal.Decimal
	Resizing   bool
}

// Viewport looks up a viewport by name.
func (c *Components) Viewport(name string) (*viewport.Controller, error) {
	switch name {
	case c.Page.Name():
		return c.Page, nil
	case c.Table.Name():
		return c.Table, nil
	}
	return nil, apperrors.NewNotFoundError("viewport " + name + " not found")
}

// ClearAll empties the store after abandoning any edit or drag in progress.
// The commission is kept.
func (c *Components) ClearAll() {
	c.Editor.Close()
	c.Recognizer.PointerCancel()
	c.Store.Clear()
}

type options struct {
	base       schedule.Scheduler
	listener   store.ChangeListener
	orders     []domain.Order
	commission decimal.Decimal
	storeOpts  []store.Option
}

type Option func(*options)

// WithScheduler replaces the wall-clock timers.
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *options) { o.base = s }
}

// WithListener mirrors every store mutation.
func WithListener(l store.ChangeListener) Option {
	return func(o *options) { o.listener = l }
}

// WithOrders preloads the store without notifying the listener.
func WithOrders(orders []domain.Order) Option {
	return func(o *options) { o.orders = orders }
}

func WithCommission(c decimal.Decimal) Option {
	return func(o *options) { o.commission = c }
}

func WithStoreOptions(opts ...store.Option) Option {
	return func(o *options) { o.storeOpts = append(o.storeOpts, opts...) }
}

type Session struct {
	loop   *Loop
	sched  schedule.Scheduler
	c      *Components
	logger *zap.Logger
}

func New(cfg config.GridConfig, logger *zap.Logger, opts ...Option) *Session {
	o := options{base: schedule.System()}
	for _, opt := range opts {
		opt(&o)
	}

	loop := NewLoop(logger)
	s := &Session{
		loop:   loop,
		sched:  schedule.Serialized(o.base, loop.Post),
		logger: logger.With(zap.String("component", "session")),
	}

	storeOpts := o.storeOpts
	if o.listener != nil {
		storeOpts = append(storeOpts, store.WithListener(o.listener))
	}
	st := store.New(storeOpts...)
	if len(o.orders) > 0 {
		st.Load(o.orders)
	}

	c := &Components{
		Store:      st,
		Commission: o.commission,
	}
	c.Editor = comment.NewEditor(st, s.sched, editorConfig(cfg), logger)

	guard := func() (bool, string) {
		if c.Editor.IsEditing() {
			return true, "comment editing"
		}
		if c.Resizing {
			return true, "column resize"
		}
		return false, ""
	}
	c.Page = viewport.New(viewportConfig(viewport.PageConfig(), cfg.PageViewport, cfg), guard)
	c.Table = viewport.New(viewportConfig(viewport.TableConfig(), cfg.TableViewport, cfg), guard)

	rowHeight := cfg.RowHeight
	if rowHeight <= 0 {
		rowHeight = 48
	}
	c.Recognizer = reorder.NewRecognizer(recognizerConfig(cfg), s.sched, reorder.NewSorter(st, rowHeight), logger)

	scanStatus, _ := domain.ParseStatus(cfg.ScanStatus)
	c.Matcher = scan.NewMatcher(st, scanStatus, logger)
	c.Status = service.NewStatusService(st, logger)

	s.c = c
	s.logger.Info("session started", zap.Int("orders", st.Len()))
	return s
}

// Do runs fn on the loop and waits for it.
func (s *Session) Do(ctx context.Context, fn func(c *Components) error) error {
	return s.loop.Do(ctx, func() error {
		return fn(s.c)
	})
}

// Scheduler returns the scheduler whose callbacks re-enter the loop.
func (s *Session) Scheduler() schedule.Scheduler {
	return s.sched
}

// Scan decodes frame off the loop, then matches the code on it. A frame with
// no readable code yields ok=false and no result.
func (s *Session) Scan(ctx context.Context, d scan.Decoder, frame []byte) (scan.Result, bool, error) {
	code, ok, err := scan.Decode(ctx, d, frame)
	if err != nil || !ok {
		return scan.Result{}, false, err
	}

	var res scan.Result
	err = s.Do(ctx, func(c *Components) error {
		var err error
		res, err = c.Matcher.OnScanResult(code)
		return err
	})
	return res, err == nil, err
}

// Close stops every pending timer, then drains and stops the loop. Pending
// comment commits are dropped. Calling Close twice is safe.
func (s *Session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.Do(ctx, func(c *Components) error {
		c.Editor.Close()
		c.Recognizer.Close()
		return nil
	})
	if err != nil && err != ErrLoopClosed {
		s.logger.Warn("stopping timers failed", zap.Error(err))
	}
	s.loop.Close()
	s.logger.Info("session closed")
}

func editorConfig(cfg config.GridConfig) comment.Config {
	out := comment.DefaultConfig()
	if cfg.CommentDebounce > 0 {
		out.Debounce = cfg.CommentDebounce
	}
	if cfg.PriorityDelay > 0 {
		out.PriorityDelay = cfg.PriorityDelay
	}
	return out
}

func recognizerConfig(cfg config.GridConfig) reorder.Config {
	out := reorder.DefaultConfig()
	if cfg.LongPressThreshold > 0 {
		out.Threshold = cfg.LongPressThreshold
	}
	if cfg.LongPressTolerance > 0 {
		out.Tolerance = cfg.LongPressTolerance
	}
	return out
}

func viewportConfig(base viewport.Config, vc config.ViewportConfig, grid config.GridConfig) viewport.Config {
	if vc.MinScale > 0 && vc.MaxScale >= vc.MinScale {
		base.MinScale = vc.MinScale
		base.MaxScale = vc.MaxScale
		base.PanAllowedBelowOne = vc.PanAllowedBelowOne
	}
	if grid.FitMargin > 0 {
		base.FitMargin = grid.FitMargin
	}
	if grid.FitMaxScale > 0 {
		base.FitMaxScale = grid.FitMaxScale
	}
	if grid.WheelSensitivity > 0 {
		base.WheelSensitivity = grid.WheelSensitivity
	}
	return base
}

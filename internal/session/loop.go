package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	apperrors "ordertrack/internal/errors"
)

var ErrLoopClosed = stderrors.New("session loop closed")

// Loop runs closures one at a time, strictly in the order they were queued.
// All session state is touched only from inside the loop.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
	logger  *zap.Logger
}

func NewLoop(logger *zap.Logger) *Loop {
	l := &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		logger:  logger,
	}
	go l.run()
	return l
}

// Post queues fn without waiting. It never blocks, so timer callbacks and
// tasks already running on the loop may use it.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do queues fn and waits for its result. It must not be called from a task
// running on the loop. If ctx ends first fn may still run later.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	posted := l.Post(func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = apperrors.NewInternalError("session task panicked", fmt.Errorf("%v", r))
				l.logger.Error("session task panicked", zap.Error(err))
			}
			result <- err
		}()
		err = fn()
	})
	if !posted {
		return ErrLoopClosed
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close rejects new work, runs what is already queued and waits for the
// loop goroutine to exit.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.stopped
		return
	}
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	<-l.stopped
}

func (l *Loop) run() {
	defer close(l.stopped)

	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.mu.Unlock()
			<-l.wake
			l.mu.Lock()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		task := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.exec(task)
	}
}

func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("session task panicked", zap.Error(apperrors.NewInternalError("panic", fmt.Errorf("%v", r))))
		}
	}()
	task()
}

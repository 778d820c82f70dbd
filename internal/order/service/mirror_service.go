package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"ordertrack/internal/domain"
	apperrors "ordertrack/internal/errors"
)

type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type MirrorRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	Upsert(ctx context.Context, tx *sql.Tx, order domain.Order, position int) error
	UpdatePositions(ctx context.Context, tx *sql.Tx, ids []string) error
	DeleteAll(ctx context.Context, tx *sql.Tx) error
}

type savedOrder struct {
	order    domain.Order
	position int
}

// changeSet is what has happened since the last successful flush.
type changeSet struct {
	cleared   bool
	saved     map[string]savedOrder
	positions []string
}

func (c *changeSet) empty() bool {
	return !c.cleared && len(c.saved) == 0 && c.positions == nil
}

// merge folds newer changes on top of c.
func (c *changeSet) merge(newer *changeSet) {
	if newer.cleared {
		*c = *newer
		return
	}
	for id, s := range newer.saved {
		c.saved[id] = s
	}
	if newer.positions != nil {
		c.positions = newer.positions
	}
}

func newChangeSet() *changeSet {
	return &changeSet{saved: make(map[string]savedOrder)}
}

// MirrorService flushes store mutations to the backend in the background. The
// listener methods only record the change, so the session loop never waits on
// the database.
type MirrorService struct {
	db               TransactionManager
	repo             MirrorRepository
	logger           *zap.Logger
	interval         time.Duration
	maxRetryAttempts int
	backoffs         []time.Duration

	mu      sync.Mutex
	pending *changeSet
	notify  chan struct{}
}

func NewMirrorService(
	db TransactionManager,
	repo MirrorRepository,
	logger *zap.Logger,
	interval time.Duration,
	maxRetryAttempts int,
) *MirrorService {
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &MirrorService{
		db:               db,
		repo:             repo,
		logger:           logger.With(zap.String("component", "mirror")),
		interval:         interval,
		maxRetryAttempts: maxRetryAttempts,
		backoffs:         []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond},
		pending:          newChangeSet(),
		notify:           make(chan struct{}, 1),
	}
}

// Hydrate reads the mirrored orders in sequence, for loading into the store
// at startup.
func (s *MirrorService) Hydrate(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewCapabilityUnavailableError("backend", err)
	}
	s.logger.Info("hydrated orders from backend", zap.Int("count", len(orders)))
	return orders, nil
}

func (s *MirrorService) OrderSaved(order domain.Order, position int) {
	s.mu.Lock()
	s.pending.saved[order.ID] = savedOrder{order: order, position: position}
	s.mu.Unlock()
	s.signal()
}

func (s *MirrorService) OrdersCleared() {
	s.mu.Lock()
	s.pending = newChangeSet()
	s.pending.cleared = true
	s.mu.Unlock()
	s.signal()
}

func (s *MirrorService) OrdersReordered(ids []string) {
	cp := make([]string, len(ids))
	copy(cp, ids)

	s.mu.Lock()
	s.pending.positions = cp
	s.mu.Unlock()
	s.signal()
}

// Run flushes on every notification and on every tick until ctx ends, then
// makes a last attempt with a fresh deadline.
func (s *MirrorService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			finalCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.Flush(finalCtx); err != nil {
				s.logger.Error("final flush failed", zap.Error(err))
				return err
			}
			s.logger.Info("mirror stopped")
			return nil
		case <-s.notify:
		case <-ticker.C:
		}

		if err := s.Flush(ctx); err != nil {
			s.logger.Warn("flush failed, will retry", zap.Error(err))
		}
	}
}

// Flush writes the pending changes in one transaction. On failure they are
// put back, under anything recorded meanwhile.
func (s *MirrorService) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.pending
	s.pending = newChangeSet()
	s.mu.Unlock()

	if batch.empty() {
		return nil
	}

	if err := s.flushWithRetry(ctx, batch); err != nil {
		s.mu.Lock()
		batch.merge(s.pending)
		s.pending = batch
		s.mu.Unlock()
		return err
	}

	s.logger.Debug("flushed changes",
		zap.Bool("cleared", batch.cleared),
		zap.Int("saved", len(batch.saved)),
		zap.Bool("reordered", batch.positions != nil),
	)
	return nil
}

// PendingChanges reports whether anything is waiting to be flushed.
func (s *MirrorService) PendingChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.pending.empty()
}

func (s *MirrorService) flushWithRetry(ctx context.Context, batch *changeSet) error {
	for attempt := 1; attempt <= s.maxRetryAttempts; attempt++ {
		err := s.db.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
			return s.apply(ctx, tx, batch)
		})
		if err == nil {
			return nil
		}

		if !isDeadlockError(err) {
			return apperrors.NewCapabilityUnavailableError("backend", err)
		}
		if attempt == s.maxRetryAttempts {
			break
		}

		s.logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", s.maxRetryAttempts))
		if err := sleep(ctx, s.backoff(attempt)); err != nil {
			return err
		}
	}

	return apperrors.NewCapabilityUnavailableError("backend", errors.New("max retries exceeded"))
}

func (s *MirrorService) apply(ctx context.Context, tx *sql.Tx, batch *changeSet) error {
	if batch.cleared {
		if err := s.repo.DeleteAll(ctx, tx); err != nil {
			return err
		}
	}

	saved := make([]savedOrder, 0, len(batch.saved))
	for _, so := range batch.saved {
		saved = append(saved, so)
	}
	// id order in every flush (anti-deadlock)
	sort.Slice(saved, func(i, j int) bool { return saved[i].order.ID < saved[j].order.ID })

	for _, so := range saved {
		if err := s.repo.Upsert(ctx, tx, so.order, so.position); err != nil {
			return err
		}
	}

	if batch.positions != nil {
		if err := s.repo.UpdatePositions(ctx, tx, batch.positions); err != nil {
			return err
		}
	}
	return nil
}

// backoff adds up to 20% jitter either way around the base interval.
func (s *MirrorService) backoff(attempt int) time.Duration {
	i := attempt - 1
	if i >= len(s.backoffs) {
		i = len(s.backoffs) - 1
	}
	base := s.backoffs[i]
	jitter := time.Duration(float64(base) * (rand.Float64()*0.4 - 0.2))
	return base + jitter
}

func (s *MirrorService) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}

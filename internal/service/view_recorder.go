package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"realestate/internal/repository"
)

const (
	viewQueueSize  = 256
	viewBatchSize  = 50
	viewFlushLimit = 5 * time.Second
)

// ViewCounter records property detail renders.
type ViewCounter interface {
	Record(propertyID uint)
}

// ViewRecorder increments view counters off the request path. Increments
// are batched per property and flushed when the batch fills up or on every
// tick. Failures are logged and dropped.
type ViewRecorder struct {
	repo     repository.PropertyRepository
	logger   *zap.Logger
	interval time.Duration

	mu     sync.RWMutex
	closed bool
	views  chan uint
	done   chan struct{}
}

var _ ViewCounter = (*ViewRecorder)(nil)

// NewViewRecorder starts the background worker. Call Close to flush and stop it.
func NewViewRecorder(repo repository.PropertyRepository, interval time.Duration, logger *zap.Logger) *ViewRecorder {
	if interval <= 0 {
		interval = time.Second
	}
	r := &ViewRecorder{
		repo:     repo,
		logger:   logger,
		interval: interval,
		views:    make(chan uint, viewQueueSize),
		done:     make(chan struct{}),
	}
	go r.worker()
	return r
}

// Record queues one view. When the queue is full the increment is written synchronously.
func (r *ViewRecorder) Record(propertyID uint) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.flush(map[uint]int64{propertyID: 1})
		return
	}

	select {
	case r.views <- propertyID:
	default:
		r.flush(map[uint]int64{propertyID: 1})
	}
}

// Close stops the worker after flushing queued views.
func (r *ViewRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.views)
	r.mu.Unlock()
	<-r.done
}

func (r *ViewRecorder) worker() {
	defer close(r.done)

	batch := make(map[uint]int64)
	pending := 0
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case id, ok := <-r.views:
			if !ok {
				r.flush(batch)
				return
			}
			batch[id]++
			pending++
			if pending >= viewBatchSize {
				r.flush(batch)
				batch = make(map[uint]int64)
				pending = 0
			}
		case <-ticker.C:
			if pending > 0 {
				r.flush(batch)
				batch = make(map[uint]int64)
				pending = 0
			}
		}
	}
}

func (r *ViewRecorder) flush(batch map[uint]int64) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), viewFlushLimit)
	defer cancel()

	for id, n := range batch {
		if err := r.repo.IncrementViews(ctx, id, n); err != nil {
			r.logger.Warn("increment property views",
				zap.Uint("property_id", id),
				zap.Int64("views", n),
				zap.Error(err))
		}
	}
}

package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
)

const (
	defaultQueueSize       = 256
	defaultDeliveryTimeout = 5 * time.Second
)

var (
	errQueueFull   = errors.New("audit queue is full")
	errQueueClosed = errors.New("audit queue is closed")
)

type queuedRecord struct {
	ctx    context.Context
	record domain.AuditRecord
}

// AsyncSink hands records to a single background worker so delivery never
// holds up the request that produced them. Records arriving while the queue
// is full, or after Close, are logged and dropped.
type AsyncSink struct {
	next    portssvc.AuditSink
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan queuedRecord
	done   chan struct{}
}

var _ portssvc.AuditSink = (*AsyncSink)(nil)

// AsyncOption configures an AsyncSink.
type AsyncOption func(*AsyncSink)

// WithDeliveryTimeout bounds each delivery to the wrapped sink.
func WithDeliveryTimeout(d time.Duration) AsyncOption {
	return func(s *AsyncSink) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewAsyncSink starts the worker. A non-positive queueSize uses the default.
func NewAsyncSink(next portssvc.AuditSink, queueSize int, options ...AsyncOption) *AsyncSink {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	s := &AsyncSink{
		next:    next,
		timeout: defaultDeliveryTimeout,
		queue:   make(chan queuedRecord, queueSize),
		done:    make(chan struct{}),
	}
	for _, option := range options {
		option(s)
	}
	go s.run()
	return s
}

// Record implements portssvc.AuditSink. It never blocks.
func (s *AsyncSink) Record(ctx context.Context, record domain.AuditRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		logDropped(ctx, "queue", record, errQueueClosed)
		return
	}
	// The request context is cancelled once the response is written; keep
	// its values (request logger) but not its deadline.
	select {
	case s.queue <- queuedRecord{ctx: context.WithoutCancel(ctx), record: record}:
	default:
		logDropped(ctx, "queue", record, errQueueFull)
	}
}

func (s *AsyncSink) run() {
	defer close(s.done)
	for q := range s.queue {
		ctx, cancel := context.WithTimeout(q.ctx, s.timeout)
		s.next.Record(ctx, q.record)
		cancel()
	}
}

// Close stops accepting records and waits for the queue to drain or for ctx
// to end, whichever comes first.
func (s *AsyncSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

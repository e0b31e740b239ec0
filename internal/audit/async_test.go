package audit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/audit"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedSink blocks every delivery until the gate is closed.
type gatedSink struct {
	mu       sync.Mutex
	gate     chan struct{}
	started  chan struct{}
	received []string
	ctxErrs  []error
}

func newGatedSink() *gatedSink {
	return &gatedSink{gate: make(chan struct{}), started: make(chan struct{}, 16)}
}

func (g *gatedSink) Record(ctx context.Context, record domain.AuditRecord) {
	g.started <- struct{}{}
	<-g.gate
	g.mu.Lock()
	defer g.mu.Unlock()
	g.received = append(g.received, record.AuditID)
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
}

func (g *gatedSink) ids() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.received...)
}

func recordWithID(id string) domain.AuditRecord {
	rec := sampleRecord()
	rec.AuditID = id
	return rec
}

func TestAsyncSink_RecordDoesNotWaitForDelivery(t *testing.T) {
	inner := newGatedSink()
	sink := audit.NewAsyncSink(inner, 4)

	done := make(chan struct{})
	go func() {
		sink.Record(context.Background(), recordWithID("a"))
		sink.Record(context.Background(), recordWithID("b"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a slow sink")
	}

	close(inner.gate)
	require.NoError(t, sink.Close(context.Background()))
	assert.Equal(t, []string{"a", "b"}, inner.ids())
}

func TestAsyncSink_DropsWhenQueueFull(t *testing.T) {
	inner := newGatedSink()
	sink := audit.NewAsyncSink(inner, 1)

	sink.Record(context.Background(), recordWithID("first"))
	<-inner.started // worker holds "first", queue is empty again
	sink.Record(context.Background(), recordWithID("queued"))
	sink.Record(context.Background(), recordWithID("dropped"))

	close(inner.gate)
	require.NoError(t, sink.Close(context.Background()))
	assert.Equal(t, []string{"first", "queued"}, inner.ids())
}

func TestAsyncSink_DeliveryOutlivesRequestContext(t *testing.T) {
	inner := newGatedSink()
	sink := audit.NewAsyncSink(inner, 4)

	ctx, cancel := context.WithCancel(context.Background())
	sink.Record(ctx, recordWithID("a"))
	cancel()

	close(inner.gate)
	require.NoError(t, sink.Close(context.Background()))
	require.Len(t, inner.ctxErrs, 1)
	assert.NoError(t, inner.ctxErrs[0])
}

func TestAsyncSink_RecordAfterCloseIsDropped(t *testing.T) {
	inner := &countingSink{}
	sink := audit.NewAsyncSink(inner, 4)
	require.NoError(t, sink.Close(context.Background()))

	assert.NotPanics(t, func() {
		sink.Record(context.Background(), sampleRecord())
	})
	assert.Equal(t, 0, inner.n)
	assert.NoError(t, sink.Close(context.Background()), "closing twice is allowed")
}

func TestAsyncSink_CloseGivesUpAtDeadline(t *testing.T) {
	inner := newGatedSink()
	sink := audit.NewAsyncSink(inner, 4, audit.WithDeliveryTimeout(time.Second))
	sink.Record(context.Background(), recordWithID("stuck"))
	<-inner.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, sink.Close(ctx), context.DeadlineExceeded)

	close(inner.gate)
}

package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/audit"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleRecord() domain.AuditRecord {
	return domain.AuditRecord{
		AuditID:    "01JAUDIT000000000000000001",
		EntityType: domain.EntityInvoice,
		EntityID:   "inv-1",
		Action:     domain.AuditCreate,
		ActorID:    "user-1",
		Payload:    map[string]any{"total": "300.00"},
		OccurredAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type fakePutter struct {
	inputs []*dynamodb.PutItemInput
	err    error
}

func (f *fakePutter) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.PutItemOutput{}, nil
}

type fakeEnqueuer struct {
	distinctID string
	event      string
	props      map[string]any
	calls      int
}

func (f *fakeEnqueuer) IsInitialized() bool { return true }

func (f *fakeEnqueuer) Enqueue(distinctID string, event string, properties map[string]any) {
	f.calls++
	f.distinctID = distinctID
	f.event = event
	f.props = properties
}

type countingSink struct{ n int }

func (c *countingSink) Record(context.Context, domain.AuditRecord) { c.n++ }

func TestRepositorySink_SwallowsErrors(t *testing.T) {
	repo := new(MockAuditRepository)
	rec := sampleRecord()
	repo.On("SaveAuditRecord", mock.Anything, rec).Return(errors.New("db down")).Once()

	sink := audit.NewRepositorySink(repo)
	assert.NotPanics(t, func() { sink.Record(context.Background(), rec) })
	repo.AssertExpectations(t)
}

func TestDynamoDBSink_WritesEntityPartition(t *testing.T) {
	putter := &fakePutter{}
	sink := audit.NewDynamoDBSink(putter, "erp-audit")

	sink.Record(context.Background(), sampleRecord())

	require.Len(t, putter.inputs, 1)
	in := putter.inputs[0]
	assert.Equal(t, "erp-audit", *in.TableName)
	assert.Equal(t, "attribute_not_exists(PK)", *in.ConditionExpression)

	var item map[string]string
	require.NoError(t, attributevalue.UnmarshalMap(in.Item, &item))
	assert.Equal(t, "AUDIT#invoice#inv-1", item["PK"])
	assert.Equal(t, "01JAUDIT000000000000000001", item["SK"])
	assert.Equal(t, "CREATE", item["action"])
	assert.JSONEq(t, `{"total":"300.00"}`, item["payload"])
	assert.Equal(t, "2025-03-01T10:00:00Z", item["occurredAt"])
}

func TestDynamoDBSink_SwallowsPutErrors(t *testing.T) {
	putter := &fakePutter{err: &types.ConditionalCheckFailedException{}}
	sink := audit.NewDynamoDBSink(putter, "erp-audit")

	assert.NotPanics(t, func() { sink.Record(context.Background(), sampleRecord()) })
	assert.Len(t, putter.inputs, 1)
}

func TestPosthogSink_EventName(t *testing.T) {
	client := &fakeEnqueuer{}
	sink := audit.NewPosthogSink(client)

	sink.Record(context.Background(), sampleRecord())

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "user-1", client.distinctID)
	assert.Equal(t, "invoice_create", client.event)
	assert.Equal(t, "300.00", client.props["total"])
	assert.Equal(t, "inv-1", client.props["entity_id"])
}

func TestMultiSink_FansOutAndSkipsNil(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	sink := audit.NewMultiSink(a, nil, b)

	sink.Record(context.Background(), sampleRecord())
	sink.Record(context.Background(), sampleRecord())

	assert.Equal(t, 2, sink.Len())
	assert.Equal(t, 2, a.n)
	assert.Equal(t, 2, b.n)
}

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoDBPutter is the subset of the DynamoDB client the sink uses.
type DynamoDBPutter interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// auditItem is the DynamoDB layout: one partition per entity, sorted by ULID.
type auditItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"entityType"`
	EntityID   string `dynamodbav:"entityID"`
	Action     string `dynamodbav:"action"`
	ActorID    string `dynamodbav:"actorID"`
	Payload    string `dynamodbav:"payload"`
	OccurredAt string `dynamodbav:"occurredAt"`
}

// DynamoDBSink mirrors audit records into a DynamoDB table.
type DynamoDBSink struct {
	client DynamoDBPutter
	table  string
}

var _ portssvc.AuditSink = (*DynamoDBSink)(nil)

func NewDynamoDBSink(client DynamoDBPutter, table string) *DynamoDBSink {
	return &DynamoDBSink{client: client, table: table}
}

// NewDynamoDBSinkFromEnv loads the default AWS configuration for region.
func NewDynamoDBSinkFromEnv(ctx context.Context, region, table string) (*DynamoDBSink, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return NewDynamoDBSink(dynamodb.NewFromConfig(awsCfg), table), nil
}

func toAuditItem(record domain.AuditRecord) (auditItem, error) {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return auditItem{}, fmt.Errorf("marshal audit payload: %w", err)
	}
	return auditItem{
		PK:         "AUDIT#" + record.EntityType + "#" + record.EntityID,
		SK:         record.AuditID,
		EntityType: record.EntityType,
		EntityID:   record.EntityID,
		Action:     string(record.Action),
		ActorID:    record.ActorID,
		Payload:    string(payload),
		OccurredAt: record.OccurredAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

// Record implements portssvc.AuditSink.
func (s *DynamoDBSink) Record(ctx context.Context, record domain.AuditRecord) {
	item, err := toAuditItem(record)
	if err != nil {
		logDropped(ctx, "dynamodb", record, err)
		return
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		logDropped(ctx, "dynamodb", record, fmt.Errorf("marshal audit item: %w", err))
		return
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		logDropped(ctx, "dynamodb", record, err)
	}
}

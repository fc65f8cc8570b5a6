// Where: internal/store/store.go
// What: DynamoDB-backed record store (lookup, write, scan).
// Why: Keep SDK request shapes out of the pipeline and read API.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/poruru/ami-catalog/internal/apperr"
	"github.com/poruru/ami-catalog/internal/docvalue"
	"github.com/poruru/ami-catalog/internal/record"
)

// DynamoDBAPI is the subset of the DynamoDB client used for records.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// PutOptions controls a single write.
type PutOptions struct {
	// IfAbsent skips the write when a record with the same id exists and
	// reports apperr.ErrDuplicateWrite instead.
	IfAbsent bool
}

// Store reads and writes AMI records in one table keyed by "id".
type Store struct {
	client DynamoDBAPI
	table  string
}

// New returns a store for table.
func New(client DynamoDBAPI, table string) *Store {
	return &Store{client: client, table: table}
}

// Table returns the table name.
func (s *Store) Table() string {
	return s.table
}

func (s *Store) check() error {
	if s == nil || s.client == nil {
		return errors.New("dynamodb client is nil")
	}
	if s.table == "" {
		return errors.New("table name is required")
	}
	return nil
}

func keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		record.AttrID: &types.AttributeValueMemberS{Value: id},
	}
}

// Get returns the stored document for id.
func (s *Store) Get(ctx context.Context, id string) (docvalue.Mapping, bool, error) {
	if err := s.check(); err != nil {
		return nil, false, err
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            keyOf(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, apperr.Upstream("dynamodb GetItem", err)
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}
	return docvalue.FromItem(out.Item), true, nil
}

// Exists reports whether a record keyed by id is stored.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	_, ok, err := s.Get(ctx, id)
	return ok, err
}

// Put writes item, replacing any record with the same id unless opts.IfAbsent is set.
func (s *Store) Put(ctx context.Context, item map[string]types.AttributeValue, opts PutOptions) error {
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := item[record.AttrID].(*types.AttributeValueMemberS); !ok {
		return apperr.Malformed("item has no string %q attribute", record.AttrID)
	}
	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}
	if opts.IfAbsent {
		input.ConditionExpression = aws.String("attribute_not_exists(#id)")
		input.ExpressionAttributeNames = map[string]string{"#id": record.AttrID}
	}
	if _, err := s.client.PutItem(ctx, input); err != nil {
		var conflict *types.ConditionalCheckFailedException
		if errors.As(err, &conflict) {
			id := item[record.AttrID].(*types.AttributeValueMemberS).Value
			return fmt.Errorf("%w: %s", apperr.ErrDuplicateWrite, id)
		}
		return apperr.Upstream("dynamodb PutItem", err)
	}
	return nil
}

// Scan returns every item in the table, following pagination.
// Ordering is whatever DynamoDB returns.
func (s *Store) Scan(ctx context.Context) ([]map[string]types.AttributeValue, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})
	var items []map[string]types.AttributeValue
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperr.Upstream("dynamodb Scan", err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

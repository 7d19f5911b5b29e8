package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/jaekwang-park/todo-lists/internal/model"
)

// DynamoAPI is the subset of *dynamodb.Client used by DynamoStore.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// DynamoTables names the two tables backing the store.
type DynamoTables struct {
	Lists string
	Items string
}

// batchWriteLimit is the DynamoDB cap on requests per BatchWriteItem call.
const batchWriteLimit = 25

// maxBatchAttempts bounds resubmission of unprocessed batch items.
const maxBatchAttempts = 5

// DynamoStore keeps lists and items as documents in two DynamoDB tables.
// Lists are keyed by id; items by (listId, id) so a list's items share a
// partition.
type DynamoStore struct {
	client DynamoAPI
	tables DynamoTables
	newID  func() string
}

func NewDynamoStore(client DynamoAPI, tables DynamoTables) *DynamoStore {
	return &DynamoStore{
		client: client,
		tables: tables,
		newID:  uuid.NewString,
	}
}

// --- lists ---

func (s *DynamoStore) ListLists(ctx context.Context, page model.Page) ([]model.TodoList, error) {
	c := newCollector[model.TodoList](page)
	p := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:      aws.String(s.tables.Lists),
		ConsistentRead: aws.Bool(true),
	})
	for p.HasMorePages() && !c.done() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, storeError("scan lists", err)
		}
		if err := c.add(out.Items); err != nil {
			return nil, err
		}
	}
	return c.result(), nil
}

func (s *DynamoStore) GetList(ctx context.Context, listID string) (model.TodoList, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tables.Lists),
		Key:            listKey(listID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return model.TodoList{}, storeError("get list", err)
	}
	if out.Item == nil {
		return model.TodoList{}, ErrNotFound
	}

	var list model.TodoList
	if err := unmarshalDoc(out.Item, &list); err != nil {
		return model.TodoList{}, err
	}
	return list, nil
}

func (s *DynamoStore) CreateList(ctx context.Context, list model.TodoList) (model.TodoList, error) {
	list.ID = s.newID()
	if err := s.put(ctx, s.tables.Lists, list, "attribute_not_exists(#id)"); err != nil {
		return model.TodoList{}, storeError("create list", err)
	}
	return list, nil
}

func (s *DynamoStore) UpdateList(ctx context.Context, list model.TodoList) (model.TodoList, error) {
	if err := s.put(ctx, s.tables.Lists, list, "attribute_exists(#id)"); err != nil {
		if isConditionFailed(err) {
			return model.TodoList{}, ErrNotFound
		}
		return model.TodoList{}, storeError("update list", err)
	}
	return list, nil
}

func (s *DynamoStore) DeleteList(ctx context.Context, listID string) error {
	return s.delete(ctx, "delete list", s.tables.Lists, listKey(listID))
}

// --- items ---

func (s *DynamoStore) ListItems(ctx context.Context, listID string, page model.Page) ([]model.TodoItem, error) {
	return s.queryItems(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tables.Items),
		KeyConditionExpression: aws.String("#listId = :listId"),
		ExpressionAttributeNames: map[string]string{
			"#listId": "listId",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":listId": &types.AttributeValueMemberS{Value: listID},
		},
		ConsistentRead: aws.Bool(true),
	}, page)
}

func (s *DynamoStore) ListItemsByState(ctx context.Context, listID, state string, page model.Page) ([]model.TodoItem, error) {
	// "state" is a DynamoDB reserved word, hence the name placeholder.
	return s.queryItems(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tables.Items),
		KeyConditionExpression: aws.String("#listId = :listId"),
		FilterExpression:       aws.String("#state = :state"),
		ExpressionAttributeNames: map[string]string{
			"#listId": "listId",
			"#state":  "state",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":listId": &types.AttributeValueMemberS{Value: listID},
			":state":  &types.AttributeValueMemberS{Value: state},
		},
		ConsistentRead: aws.Bool(true),
	}, page)
}

func (s *DynamoStore) queryItems(ctx context.Context, input *dynamodb.QueryInput, page model.Page) ([]model.TodoItem, error) {
	c := newCollector[model.TodoItem](page)
	p := dynamodb.NewQueryPaginator(s.client, input)
	for p.HasMorePages() && !c.done() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, storeError("query items", err)
		}
		if err := c.add(out.Items); err != nil {
			return nil, err
		}
	}
	return c.result(), nil
}

func (s *DynamoStore) GetItem(ctx context.Context, listID, itemID string) (model.TodoItem, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tables.Items),
		Key:            itemKey(listID, itemID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return model.TodoItem{}, storeError("get item", err)
	}
	if out.Item == nil {
		return model.TodoItem{}, ErrNotFound
	}

	var item model.TodoItem
	if err := unmarshalDoc(out.Item, &item); err != nil {
		return model.TodoItem{}, err
	}
	return item, nil
}

// CreateItem writes the item in the same transaction as a condition check on
// the owning list, so a concurrently deleted list cannot gain new items.
func (s *DynamoStore) CreateItem(ctx context.Context, item model.TodoItem) (model.TodoItem, error) {
	item.ID = s.newID()
	doc, err := marshalDoc(item)
	if err != nil {
		return model.TodoItem{}, err
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				ConditionCheck: &types.ConditionCheck{
					TableName:                aws.String(s.tables.Lists),
					Key:                      listKey(item.ListID),
					ConditionExpression:      aws.String("attribute_exists(#id)"),
					ExpressionAttributeNames: map[string]string{"#id": "id"},
				},
			},
			{
				Put: &types.Put{
					TableName:                aws.String(s.tables.Items),
					Item:                     doc,
					ConditionExpression:      aws.String("attribute_not_exists(#id)"),
					ExpressionAttributeNames: map[string]string{"#id": "id"},
				},
			},
		},
	})
	if err != nil {
		var txErr *types.TransactionCanceledException
		if errors.As(err, &txErr) && len(txErr.CancellationReasons) > 0 {
			reason := txErr.CancellationReasons[0]
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return model.TodoItem{}, ErrParentNotFound
			}
		}
		return model.TodoItem{}, storeError("create item", err)
	}
	return item, nil
}

func (s *DynamoStore) UpdateItem(ctx context.Context, item model.TodoItem) (model.TodoItem, error) {
	if err := s.put(ctx, s.tables.Items, item, "attribute_exists(#id)"); err != nil {
		if isConditionFailed(err) {
			return model.TodoItem{}, ErrNotFound
		}
		return model.TodoItem{}, storeError("update item", err)
	}
	return item, nil
}

func (s *DynamoStore) DeleteItem(ctx context.Context, listID, itemID string) error {
	return s.delete(ctx, "delete item", s.tables.Items, itemKey(listID, itemID))
}

func (s *DynamoStore) DeleteItemsByList(ctx context.Context, listID string) (int, error) {
	var keys []map[string]types.AttributeValue
	p := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:              aws.String(s.tables.Items),
		KeyConditionExpression: aws.String("#listId = :listId"),
		ProjectionExpression:   aws.String("#listId, #id"),
		ExpressionAttributeNames: map[string]string{
			"#listId": "listId",
			"#id":     "id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":listId": &types.AttributeValueMemberS{Value: listID},
		},
		ConsistentRead: aws.Bool(true),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return 0, storeError("query item keys", err)
		}
		keys = append(keys, out.Items...)
	}

	for start := 0; start < len(keys); start += batchWriteLimit {
		end := min(start+batchWriteLimit, len(keys))
		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}
		if err := s.batchWrite(ctx, map[string][]types.WriteRequest{s.tables.Items: requests}); err != nil {
			return start, err
		}
	}
	return len(keys), nil
}

// batchWrite submits a batch and resubmits whatever DynamoDB reports as
// unprocessed, up to maxBatchAttempts calls.
func (s *DynamoStore) batchWrite(ctx context.Context, requests map[string][]types.WriteRequest) error {
	for attempt := 0; attempt < maxBatchAttempts; attempt++ {
		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: requests,
		})
		if err != nil {
			return storeError("batch delete items", err)
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		requests = out.UnprocessedItems
	}
	return fmt.Errorf("failed to batch delete items: unprocessed items remain after %d attempts", maxBatchAttempts)
}

// --- shared helpers ---

func (s *DynamoStore) put(ctx context.Context, table string, v any, condition string) error {
	doc, err := marshalDoc(v)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(table),
		Item:                     doc,
		ConditionExpression:      aws.String(condition),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	return err
}

func (s *DynamoStore) delete(ctx context.Context, op, table string, key map[string]types.AttributeValue) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(table),
		Key:                      key,
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		return storeError(op, err)
	}
	return nil
}

func listKey(listID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: listID},
	}
}

func itemKey(listID, itemID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"listId": &types.AttributeValueMemberS{Value: listID},
		"id":     &types.AttributeValueMemberS{Value: itemID},
	}
}

// Documents reuse the JSON field names so the stored shape matches the API.
func marshalDoc(v any) (map[string]types.AttributeValue, error) {
	doc, err := attributevalue.MarshalMapWithOptions(v, func(o *attributevalue.EncoderOptions) {
		o.TagKey = "json"
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return doc, nil
}

func unmarshalDoc(raw map[string]types.AttributeValue, out any) error {
	err := attributevalue.UnmarshalMapWithOptions(raw, out, func(o *attributevalue.DecoderOptions) {
		o.TagKey = "json"
	})
	if err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return nil
}

func isConditionFailed(err error) bool {
	var condErr *types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}

// storeError wraps a DynamoDB failure, surfacing the service error code when
// there is one.
func storeError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("failed to %s (%s): %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// collector applies a skip/batchSize window over pages of raw documents.
type collector[T any] struct {
	page    model.Page
	skipped int
	out     []T
}

func newCollector[T any](page model.Page) *collector[T] {
	return &collector[T]{page: page, out: []T{}}
}

func (c *collector[T]) add(raw []map[string]types.AttributeValue) error {
	for _, doc := range raw {
		if c.skipped < c.page.Offset() {
			c.skipped++
			continue
		}
		if c.done() {
			return nil
		}
		var v T
		if err := unmarshalDoc(doc, &v); err != nil {
			return err
		}
		c.out = append(c.out, v)
	}
	return nil
}

func (c *collector[T]) done() bool {
	return c.page.Full(len(c.out))
}

func (c *collector[T]) result() []T {
	return c.out
}

var (
	_ ListRepository = (*DynamoStore)(nil)
	_ ItemRepository = (*DynamoStore)(nil)
)

package webcache

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore backs the web cache with a DynamoDB table keyed by cache_key.
// Useful when several API replicas should share one cache.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

type dynamoCacheItem struct {
	CacheKey string `dynamodbav:"cache_key"`
	Payload  string `dynamodbav:"payload"`
	CachedAt string `dynamodbav:"cached_at"`
}

func NewDynamoStore(client *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

func (s *DynamoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"cache_key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("get cache item: %w", err)
	}
	if result.Item == nil {
		return nil, false, nil
	}

	var item dynamoCacheItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, false, fmt.Errorf("unmarshal cache item: %w", err)
	}
	return []byte(item.Payload), true, nil
}

func (s *DynamoStore) Put(ctx context.Context, key string, payload []byte) error {
	item := dynamoCacheItem{
		CacheKey: key,
		Payload:  string(payload),
		CachedAt: time.Now().Format(time.RFC3339Nano),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal cache item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put cache item: %w", err)
	}
	return nil
}

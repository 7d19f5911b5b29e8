package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoClientOptions configures the DynamoDB client. Endpoint and static
// credentials are only needed for DynamoDB Local; otherwise the default AWS
// credential chain is used.
type DynamoClientOptions struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// NewDynamoClient builds a DynamoDB client from the default AWS config.
func NewDynamoClient(ctx context.Context, opts DynamoClientOptions) (*dynamodb.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

// tableWaitTimeout bounds how long EnsureTables waits for a new table.
const tableWaitTimeout = 2 * time.Minute

// EnsureTables creates the lists and items tables when they are missing.
// Intended for local development against DynamoDB Local.
func (s *DynamoStore) EnsureTables(ctx context.Context) error {
	specs := []struct {
		name string
		keys []types.KeySchemaElement
	}{
		{
			name: s.tables.Lists,
			keys: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
		},
		{
			name: s.tables.Items,
			keys: []types.KeySchemaElement{
				{AttributeName: aws.String("listId"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeRange},
			},
		},
	}

	for _, spec := range specs {
		exists, err := s.tableExists(ctx, spec.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		attrs := make([]types.AttributeDefinition, 0, len(spec.keys))
		for _, k := range spec.keys {
			attrs = append(attrs, types.AttributeDefinition{
				AttributeName: k.AttributeName,
				AttributeType: types.ScalarAttributeTypeS,
			})
		}

		_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName:            aws.String(spec.name),
			KeySchema:            spec.keys,
			AttributeDefinitions: attrs,
			BillingMode:          types.BillingModePayPerRequest,
		})
		if err != nil {
			return storeError("create table "+spec.name, err)
		}

		waiter := dynamodb.NewTableExistsWaiter(s.client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(spec.name)}, tableWaitTimeout); err != nil {
			return fmt.Errorf("failed waiting for table %s: %w", spec.name, err)
		}
	}
	return nil
}

func (s *DynamoStore) tableExists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, storeError("describe table "+name, err)
}

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client the slot uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type slotItem struct {
	Key       string `dynamodbav:"key"`
	Value     string `dynamodbav:"value"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// DynamoSlot stores the value as one item of a DynamoDB table keyed by "key".
type DynamoSlot struct {
	api   DynamoAPI
	table string
	key   string
}

// DynamoOptions configures the client. An empty Endpoint uses AWS itself;
// a local endpoint gets static placeholder credentials when none are set.
type DynamoOptions struct {
	Region   string
	Endpoint string
	Table    string
	Key      string
}

// OpenDynamo builds a DynamoDB client from the default AWS config chain.
func OpenDynamo(ctx context.Context, opts DynamoOptions) (*DynamoSlot, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	if opts.Endpoint != "" {
		// Local DynamoDB does not check credentials but the SDK requires some.
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return NewDynamoSlot(client, opts.Table, opts.Key), nil
}

// NewDynamoSlot wraps an existing client.
func NewDynamoSlot(api DynamoAPI, table, key string) *DynamoSlot {
	return &DynamoSlot{api: api, table: table, key: key}
}

func (d *DynamoSlot) Load(ctx context.Context) ([]byte, error) {
	out, err := d.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: d.key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", d.key, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrSlotEmpty
	}

	var it slotItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("load slot %s: %w", d.key, err)
	}
	if it.Value == "" {
		return nil, ErrSlotEmpty
	}
	return []byte(it.Value), nil
}

func (d *DynamoSlot) Save(ctx context.Context, data []byte) error {
	av, err := attributevalue.MarshalMap(slotItem{
		Key:       d.key,
		Value:     string(data),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("save slot %s: %w", d.key, err)
	}

	_, err = d.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("save slot %s: %w", d.key, err)
	}
	return nil
}

func (d *DynamoSlot) Close() error { return nil }

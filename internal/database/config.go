package database

import (
	"context"
	"fmt"
	"log"

	appConfig "github.com/CourageAllien/studioportal/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Config holds the DynamoDB configuration
type Config struct {
	WorkspacesTableName string
	RequestsTableName   string
	Region              string
}

// Client wraps the DynamoDB client
type Client struct {
	DynamoDB *dynamodb.Client
}

// NewConfig creates a new database configuration from the application config
func NewConfig(appCfg *appConfig.Config) *Config {
	return &Config{
		WorkspacesTableName: appCfg.WorkspacesTableName,
		RequestsTableName:   appCfg.RequestsTableName,
		Region:              appCfg.AWSRegion,
	}
}

// NewClient creates a new DynamoDB client
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	// Load AWS SDK config
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg)

	// Verify the tables exist
	for _, table := range []string{cfg.WorkspacesTableName, cfg.RequestsTableName} {
		if err := ensureTableExists(ctx, dynamoClient, table); err != nil {
			log.Printf("Warning: Could not verify table existence: %v", err)
		}
	}

	return &Client{
		DynamoDB: dynamoClient,
	}, nil
}

// ensureTableExists checks if the DynamoDB table exists
func ensureTableExists(ctx context.Context, client *dynamodb.Client, tableName string) error {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})

	if err != nil {
		return fmt.Errorf("table %s does not exist or cannot be accessed: %w", tableName, err)
	}

	log.Printf("DynamoDB table '%s' verified successfully", tableName)
	return nil
}

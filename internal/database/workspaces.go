package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CourageAllien/studioportal/internal/logger"
	"github.com/CourageAllien/studioportal/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// WorkspaceOperations handles all DynamoDB operations for workspaces
type WorkspaceOperations struct {
	client    *Client
	tableName string
}

// NewWorkspaceOperations creates a new WorkspaceOperations instance
func NewWorkspaceOperations(client *Client, tableName string) *WorkspaceOperations {
	return &WorkspaceOperations{
		client:    client,
		tableName: tableName,
	}
}

// CreateWorkspace creates a new workspace in DynamoDB
func (wo *WorkspaceOperations) CreateWorkspace(ctx context.Context, workspace *models.Workspace) error {
	av, err := attributevalue.MarshalMap(map[string]interface{}{
		"Id":          workspace.Id,
		"CompanyName": workspace.CompanyName,
		"ClientName":  workspace.ClientName,
		"ClientEmail": workspace.ClientEmail,
		"AccessCode":  workspace.AccessCode,
		"Active":      workspace.Active,
		"CreatedAt":   workspace.CreatedAt.Unix(),
		"UpdatedAt":   workspace.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal workspace: %w", err)
	}

	_, err = wo.client.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(wo.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(Id)"),
	})

	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrAlreadyExists
		}
		logger.WithFields(map[string]interface{}{
			"workspace_id": workspace.Id,
			"error":        err.Error(),
		}).Error("Failed to create workspace in DynamoDB")
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"workspace_id": workspace.Id,
		"company":      workspace.CompanyName,
	}).Info("Workspace created successfully in DynamoDB")

	return nil
}

// GetWorkspace retrieves a workspace by ID from DynamoDB
func (wo *WorkspaceOperations) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	logger.WithField("workspace_id", id).Debug("Retrieving workspace from DynamoDB")

	result, err := wo.client.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(wo.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	if result.Item == nil {
		logger.WithField("workspace_id", id).Warn("Workspace not found in DynamoDB")
		return nil, ErrNotFound
	}

	return wo.unmarshalWorkspace(result.Item)
}

// GetWorkspaceByAccessCode retrieves a workspace by its client access code
func (wo *WorkspaceOperations) GetWorkspaceByAccessCode(ctx context.Context, code string) (*models.Workspace, error) {
	result, err := wo.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(wo.tableName),
		FilterExpression: aws.String("AccessCode = :code"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: code},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan workspaces by access code: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, ErrNotFound
	}

	return wo.unmarshalWorkspace(result.Items[0])
}

// GetAllWorkspaces retrieves all workspaces from DynamoDB
func (wo *WorkspaceOperations) GetAllWorkspaces(ctx context.Context) ([]*models.Workspace, error) {
	result, err := wo.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(wo.tableName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan workspaces: %w", err)
	}

	workspaces := make([]*models.Workspace, 0, len(result.Items))
	for _, item := range result.Items {
		workspace, err := wo.unmarshalWorkspace(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal workspace: %w", err)
		}
		workspaces = append(workspaces, workspace)
	}

	return workspaces, nil
}

// UpdateWorkspace overwrites a workspace record with all fields
func (wo *WorkspaceOperations) UpdateWorkspace(ctx context.Context, workspace *models.Workspace) error {
	_, err := wo.client.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(wo.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: workspace.Id},
		},
		UpdateExpression: aws.String("SET CompanyName = :company, ClientName = :client, ClientEmail = :email, Active = :active, UpdatedAt = :updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":company":    &types.AttributeValueMemberS{Value: workspace.CompanyName},
			":client":     &types.AttributeValueMemberS{Value: workspace.ClientName},
			":email":      &types.AttributeValueMemberS{Value: workspace.ClientEmail},
			":active":     &types.AttributeValueMemberBOOL{Value: workspace.Active},
			":updated_at": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())},
		},
		ConditionExpression: aws.String("attribute_exists(Id)"),
	})

	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update workspace: %w", err)
	}

	return nil
}

// DeleteWorkspace deletes a workspace by ID. The caller is responsible for
// cascading the delete to the workspace's requests first.
func (wo *WorkspaceOperations) DeleteWorkspace(ctx context.Context, id string) error {
	_, err := wo.client.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(wo.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	logger.WithField("workspace_id", id).Info("Workspace deleted from DynamoDB")
	return nil
}

// unmarshalWorkspace is a helper function to unmarshal DynamoDB item to Workspace domain model
func (wo *WorkspaceOperations) unmarshalWorkspace(item map[string]types.AttributeValue) (*models.Workspace, error) {
	var temp struct {
		Id          string `dynamodbav:"Id"`
		CompanyName string `dynamodbav:"CompanyName"`
		ClientName  string `dynamodbav:"ClientName"`
		ClientEmail string `dynamodbav:"ClientEmail"`
		AccessCode  string `dynamodbav:"AccessCode"`
		Active      bool   `dynamodbav:"Active"`
		CreatedAt   int64  `dynamodbav:"CreatedAt"`
		UpdatedAt   int64  `dynamodbav:"UpdatedAt"`
	}

	if err := attributevalue.UnmarshalMap(item, &temp); err != nil {
		return nil, err
	}

	return &models.Workspace{
		Id:          temp.Id,
		CompanyName: temp.CompanyName,
		ClientName:  temp.ClientName,
		ClientEmail: temp.ClientEmail,
		AccessCode:  temp.AccessCode,
		Active:      temp.Active,
		CreatedAt:   time.Unix(temp.CreatedAt, 0),
		UpdatedAt:   time.Unix(temp.UpdatedAt, 0),
	}, nil
}

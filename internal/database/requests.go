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

// RequestOperations handles all DynamoDB operations for build requests
type RequestOperations struct {
	client    *Client
	tableName string
}

// NewRequestOperations creates a new RequestOperations instance
func NewRequestOperations(client *Client, tableName string) *RequestOperations {
	return &RequestOperations{
		client:    client,
		tableName: tableName,
	}
}

// CreateRequest creates a new build request in DynamoDB
func (ro *RequestOperations) CreateRequest(ctx context.Context, request *models.BuildRequest) error {
	logger.WithFields(map[string]interface{}{
		"request_id":   request.Id,
		"workspace_id": request.WorkspaceId,
	}).Debug("Creating build request in DynamoDB")

	av, err := ro.marshalRequest(request)
	if err != nil {
		return fmt.Errorf("failed to marshal build request: %w", err)
	}

	_, err = ro.client.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(ro.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(Id)"),
	})

	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrAlreadyExists
		}
		logger.WithFields(map[string]interface{}{
			"request_id": request.Id,
			"error":      err.Error(),
		}).Error("Failed to create build request in DynamoDB")
		return fmt.Errorf("failed to create build request: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"request_id":   request.Id,
		"workspace_id": request.WorkspaceId,
	}).Info("Build request created successfully in DynamoDB")

	return nil
}

// GetRequest retrieves a build request by ID from DynamoDB
func (ro *RequestOperations) GetRequest(ctx context.Context, id string) (*models.BuildRequest, error) {
	result, err := ro.client.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(ro.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get build request: %w", err)
	}

	if result.Item == nil {
		logger.WithField("request_id", id).Warn("Build request not found in DynamoDB")
		return nil, ErrNotFound
	}

	return ro.unmarshalRequest(result.Item)
}

// GetRequestsByWorkspaceId retrieves all build requests owned by a workspace
func (ro *RequestOperations) GetRequestsByWorkspaceId(ctx context.Context, workspaceId string) ([]*models.BuildRequest, error) {
	result, err := ro.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(ro.tableName),
		FilterExpression: aws.String("WorkspaceId = :workspaceId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":workspaceId": &types.AttributeValueMemberS{Value: workspaceId},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan build requests by workspace_id: %w", err)
	}

	requests := make([]*models.BuildRequest, 0, len(result.Items))
	for _, item := range result.Items {
		request, err := ro.unmarshalRequest(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal build request: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, nil
}

// GetAllRequests retrieves all build requests from DynamoDB
func (ro *RequestOperations) GetAllRequests(ctx context.Context) ([]*models.BuildRequest, error) {
	result, err := ro.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(ro.tableName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan build requests: %w", err)
	}

	requests := make([]*models.BuildRequest, 0, len(result.Items))
	for _, item := range result.Items {
		request, err := ro.unmarshalRequest(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal build request: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, nil
}

// UpdateRequest overwrites a build request record with all fields including
// the activity log, deliverables and revisions
func (ro *RequestOperations) UpdateRequest(ctx context.Context, request *models.BuildRequest) error {
	logger.WithFields(map[string]interface{}{
		"request_id": request.Id,
		"status":     request.Status,
	}).Debug("Updating build request in DynamoDB")

	av, err := ro.marshalRequest(request)
	if err != nil {
		return fmt.Errorf("failed to marshal build request: %w", err)
	}

	_, err = ro.client.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(ro.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(Id)"),
	})

	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			logger.WithField("request_id", request.Id).Warn("Build request not found during update")
			return ErrNotFound
		}
		return fmt.Errorf("failed to update build request: %w", err)
	}

	return nil
}

// DeleteRequest deletes a build request by ID
func (ro *RequestOperations) DeleteRequest(ctx context.Context, id string) error {
	_, err := ro.client.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(ro.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete build request: %w", err)
	}
	return nil
}

// DeleteRequestsByWorkspaceId deletes all build requests owned by a
// workspace. Used by the cascade step of workspace deletion.
func (ro *RequestOperations) DeleteRequestsByWorkspaceId(ctx context.Context, workspaceId string) error {
	requests, err := ro.GetRequestsByWorkspaceId(ctx, workspaceId)
	if err != nil {
		return err
	}

	for _, request := range requests {
		if err := ro.DeleteRequest(ctx, request.Id); err != nil {
			return fmt.Errorf("failed to cascade delete request %s: %w", request.Id, err)
		}
	}

	logger.WithFields(map[string]interface{}{
		"workspace_id": workspaceId,
		"count":        len(requests),
	}).Info("Cascade deleted workspace requests from DynamoDB")

	return nil
}

// requestRecord is the DynamoDB persistence shape of a build request.
// Optional timestamps are stored as nullable Unix seconds.
type requestRecord struct {
	Id                    string                 `dynamodbav:"Id"`
	WorkspaceId           string                 `dynamodbav:"WorkspaceId"`
	Description           string                 `dynamodbav:"Description"`
	Goals                 string                 `dynamodbav:"Goals"`
	Complexity            string                 `dynamodbav:"Complexity"`
	Status                string                 `dynamodbav:"Status"`
	ProgressPercent       int                    `dynamodbav:"ProgressPercent"`
	CurrentPhase          string                 `dynamodbav:"CurrentPhase"`
	PreviewURL            string                 `dynamodbav:"PreviewURL"`
	ActivityLog           []models.ActivityEntry `dynamodbav:"ActivityLog"`
	Deliverables          []models.Deliverable   `dynamodbav:"Deliverables"`
	Revisions             []models.Revision      `dynamodbav:"Revisions"`
	RevisionCount         int                    `dynamodbav:"RevisionCount"`
	CreatedAt             int64                  `dynamodbav:"CreatedAt"`
	StartedAt             *int64                 `dynamodbav:"StartedAt,omitempty"`
	EstimatedCompletionAt *int64                 `dynamodbav:"EstimatedCompletionAt,omitempty"`
	CompletedAt           *int64                 `dynamodbav:"CompletedAt,omitempty"`
	UpdatedAt             int64                  `dynamodbav:"UpdatedAt"`
}

func (ro *RequestOperations) marshalRequest(request *models.BuildRequest) (map[string]types.AttributeValue, error) {
	record := requestRecord{
		Id:                    request.Id,
		WorkspaceId:           request.WorkspaceId,
		Description:           request.Description,
		Goals:                 request.Goals,
		Complexity:            string(request.Complexity),
		Status:                string(request.Status),
		ProgressPercent:       request.ProgressPercent,
		CurrentPhase:          request.CurrentPhase,
		PreviewURL:            request.PreviewURL,
		ActivityLog:           request.ActivityLog,
		Deliverables:          request.Deliverables,
		Revisions:             request.Revisions,
		RevisionCount:         request.RevisionCount,
		CreatedAt:             request.CreatedAt.Unix(),
		StartedAt:             unixOrNil(request.StartedAt),
		EstimatedCompletionAt: unixOrNil(request.EstimatedCompletionAt),
		CompletedAt:           unixOrNil(request.CompletedAt),
		UpdatedAt:             request.UpdatedAt.Unix(),
	}
	return attributevalue.MarshalMap(record)
}

func (ro *RequestOperations) unmarshalRequest(item map[string]types.AttributeValue) (*models.BuildRequest, error) {
	var record requestRecord
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, err
	}

	return &models.BuildRequest{
		Id:                    record.Id,
		WorkspaceId:           record.WorkspaceId,
		Description:           record.Description,
		Goals:                 record.Goals,
		Complexity:            models.Complexity(record.Complexity),
		Status:                models.Status(record.Status),
		ProgressPercent:       record.ProgressPercent,
		CurrentPhase:          record.CurrentPhase,
		PreviewURL:            record.PreviewURL,
		ActivityLog:           record.ActivityLog,
		Deliverables:          record.Deliverables,
		Revisions:             record.Revisions,
		RevisionCount:         record.RevisionCount,
		CreatedAt:             time.Unix(record.CreatedAt, 0),
		StartedAt:             timeOrNil(record.StartedAt),
		EstimatedCompletionAt: timeOrNil(record.EstimatedCompletionAt),
		CompletedAt:           timeOrNil(record.CompletedAt),
		UpdatedAt:             time.Unix(record.UpdatedAt, 0),
	}, nil
}

func unixOrNil(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}

func timeOrNil(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := time.Unix(*v, 0)
	return &t
}

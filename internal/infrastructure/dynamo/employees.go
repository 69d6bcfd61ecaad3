package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// EmployeeRepo provides typed DynamoDB operations for the employees table.
type EmployeeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewEmployeeRepo(client *dynamodb.Client, tableName string) *EmployeeRepo {
	return &EmployeeRepo{client: client, tableName: tableName}
}

func (r *EmployeeRepo) Put(ctx context.Context, e *domain.Employee) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal employee: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return storageErr("put employee", err)
	}
	return nil
}

func (r *EmployeeRepo) Get(ctx context.Context, employeeID string) (*domain.Employee, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("employee_id", employeeID),
	})
	if err != nil {
		return nil, storageErr("get employee", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("employee not found: %w", domain.ErrNotFound)
	}
	var e domain.Employee
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-index"),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": "email"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, storageErr("query employee by email", err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("employee not found: %w", domain.ErrNotFound)
	}
	var e domain.Employee
	if err := attributevalue.UnmarshalMap(out.Items[0], &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, employeeID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("employee_id", employeeID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(employee_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("employee not found: %w", domain.ErrNotFound)
		}
		return storageErr("update employee", err)
	}
	return nil
}

package dynamo

import (
	"context"
	"fmt"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// AdminRepo provides typed DynamoDB operations for the admins table.
// Administrators keep a deliberately simpler record than employees: identity
// plus hash, no rotation flags, no OTP machinery.
type AdminRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAdminRepo(client *dynamodb.Client, tableName string) *AdminRepo {
	return &AdminRepo{client: client, tableName: tableName}
}

func (r *AdminRepo) Put(ctx context.Context, a *domain.Admin) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal admin: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return storageErr("put admin", err)
	}
	return nil
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-index"),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": "email"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, storageErr("query admin by email", err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("admin not found: %w", domain.ErrNotFound)
	}
	var a domain.Admin
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}

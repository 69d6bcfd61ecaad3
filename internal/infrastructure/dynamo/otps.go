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

// OTPRepo manages one-time-code records, keyed by identity (email).
//
// The write paths lean on DynamoDB's per-item atomicity: Put replaces any
// prior record for the identity in one shot, MarkVerified and DeleteVerified
// use condition expressions so racing callers resolve to exactly one winner.
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOTPRepo(client *dynamodb.Client, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

// Put upserts the OTP record for its identity, superseding any prior code.
func (r *OTPRepo) Put(ctx context.Context, v *domain.OTPRecord) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return storageErr("put otp record", err)
	}
	return nil
}

func (r *OTPRepo) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("email", email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, storageErr("get otp record", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	var v domain.OTPRecord
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// MarkVerified flips the record to verified and opens the reset window, in a
// single conditional update: the record must still exist, still hold the
// submitted code, and not be verified yet. A concurrent verify that loses the
// race gets domain.ErrConflict and should re-read.
func (r *OTPRepo) MarkVerified(ctx context.Context, email, code string, verifiedAt time.Time, resetWindowExpiresAt int64) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("email", email),
		UpdateExpression: aws.String("SET verified = :t, verified_at = :va, reset_window_expires_at = :rw"),
		ConditionExpression: aws.String(
			"attribute_exists(email) AND verified = :f AND code = :c",
		),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":  &types.AttributeValueMemberBOOL{Value: true},
			":f":  &types.AttributeValueMemberBOOL{Value: false},
			":c":  &types.AttributeValueMemberS{Value: code},
			":va": &types.AttributeValueMemberS{Value: verifiedAt.UTC().Format(time.RFC3339)},
			":rw": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", resetWindowExpiresAt)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("otp record changed underneath verify: %w", domain.ErrConflict)
		}
		return storageErr("mark otp verified", err)
	}
	return nil
}

// DeleteVerified consumes a verified OTP. The delete is conditional on the
// record still being in the verified state, so of two racing resets only one
// wins; the loser gets domain.ErrAlreadyUsed.
func (r *OTPRepo) DeleteVerified(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("email", email),
		ConditionExpression: aws.String("attribute_exists(email) AND verified = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("otp already consumed: %w", domain.ErrAlreadyUsed)
		}
		return storageErr("delete otp record", err)
	}
	return nil
}

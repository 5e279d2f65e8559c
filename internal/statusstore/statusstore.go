// Package statusstore records fulfilled payments in DynamoDB.
//
// The table uses payment_key as partition key and plate as sort key. A record
// is a write-once completion marker: it is created only after a report has
// been generated and it is never updated or deleted here. The conditional
// insert is the only cross-process coordination primitive in the pipeline.
package statusstore

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

// DB defines the client methods used by the store
type DB interface {
	GetItem(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	PutItem(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	Query(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
}

// Record marks a payment as fulfilled
type Record struct {
	PaymentKey  string `dynamodbav:"payment_key"`
	Plate       string `dynamodbav:"plate"`
	ArtifactURL string `dynamodbav:"artifact_url"`
	CreatedAt   string `dynamodbav:"created_at"`
}

// Store is a fulfillment record store
type Store struct {
	ddb   DB
	table string
	now   func() time.Time
}

// New returns a new Store
func New(ddb DB, table string) *Store {
	return &Store{ddb: ddb, table: table, now: time.Now}
}

// Exists reports whether a fulfillment record exists for the exact
// (paymentKey, plate) pair.
func (s *Store) Exists(paymentKey, plate string) (bool, error) {

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]*dynamodb.AttributeValue{
			"payment_key": {S: aws.String(paymentKey)},
			"plate":       {S: aws.String(plate)},
		},
	}

	resp, err := s.ddb.GetItem(input)
	if err != nil {
		return false, fmt.Errorf("could not get fulfillment record: %v", err)
	}
	return resp.Item != nil, nil
}

// TryInsert writes a fulfillment record if none exists for the pair. The
// uniqueness check and the write are a single conditional PutItem, so a
// concurrent duplicate cannot slip between a read and a write. Returns false
// without error when a record already exists.
func (s *Store) TryInsert(paymentKey, plate, artifactURL string) (bool, error) {

	rec := Record{
		PaymentKey:  paymentKey,
		Plate:       plate,
		ArtifactURL: artifactURL,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}

	item, err := dynamodbattribute.MarshalMap(rec)
	if err != nil {
		return false, fmt.Errorf("could not marshal fulfillment record: %v", err)
	}

	input := &dynamodb.PutItemInput{
		Item:                item,
		TableName:           aws.String(s.table),
		ConditionExpression: aws.String("attribute_not_exists(payment_key) AND attribute_not_exists(plate)"),
	}

	if _, err := s.ddb.PutItem(input); err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
			return false, nil
		}
		return false, fmt.Errorf("could not put fulfillment record: %v", err)
	}
	return true, nil
}

// Find returns the first fulfillment record for a payment key, or nil if none
// exists. The status-check endpoint looks up by payment key alone, so this
// queries the partition key without a plate.
func (s *Store) Find(paymentKey string) (*Record, error) {

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("payment_key = :pk"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":pk": {S: aws.String(paymentKey)},
		},
	}

	resp, err := s.ddb.Query(input)
	if err != nil {
		return nil, fmt.Errorf("could not query fulfillment records: %v", err)
	}

	if len(resp.Items) == 0 {
		return nil, nil
	}

	var rec Record
	if err := dynamodbattribute.UnmarshalMap(resp.Items[0], &rec); err != nil {
		return nil, fmt.Errorf("could not unmarshal fulfillment record: %v", err)
	}
	return &rec, nil
}

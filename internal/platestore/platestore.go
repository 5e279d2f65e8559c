// Package platestore reads and writes vehicle registry records in DynamoDB.
package platestore

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

// DB defines the client methods used by the store
type DB interface {
	GetItem(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	PutItem(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
}

// Record is a vehicle registry record. Doc holds the raw registry JSON
// document; callers pick the fields they need out of it.
type Record struct {
	Plate string `dynamodbav:"plate"`
	Doc   string `dynamodbav:"doc"`
}

// Store is a vehicle record store
type Store struct {
	ddb   DB
	table string
}

// New returns a new Store
func New(ddb DB, table string) *Store {
	return &Store{ddb: ddb, table: table}
}

// Get returns the record for a plate, or nil if none exists.
func (s *Store) Get(plate string) (*Record, error) {

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]*dynamodb.AttributeValue{
			"plate": {S: aws.String(plate)},
		},
	}

	resp, err := s.ddb.GetItem(input)
	if err != nil {
		return nil, fmt.Errorf("could not get plate record: %v", err)
	}

	if resp.Item == nil {
		return nil, nil
	}

	var rec Record
	if err := dynamodbattribute.UnmarshalMap(resp.Item, &rec); err != nil {
		return nil, fmt.Errorf("could not unmarshal plate record: %v", err)
	}
	return &rec, nil
}

// Put writes a record, replacing any existing one for the same plate.
func (s *Store) Put(rec *Record) error {

	item, err := dynamodbattribute.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("could not marshal plate record: %v", err)
	}

	input := &dynamodb.PutItemInput{
		Item:      item,
		TableName: aws.String(s.table),
	}

	if _, err := s.ddb.PutItem(input); err != nil {
		return fmt.Errorf("could not put plate record: %v", err)
	}
	return nil
}

package statusstore

import (
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/google/go-cmp/cmp"
)

type mockDB struct {
	dynamodbiface.DynamoDBAPI
	item   map[string]*dynamodb.AttributeValue
	items  []map[string]*dynamodb.AttributeValue
	put    *dynamodb.PutItemInput
	putErr error
}

func (m *mockDB) GetItem(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: m.item}, nil
}

func (m *mockDB) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.put = in
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDB) Query(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
	return &dynamodb.QueryOutput{Items: m.items, Count: aws.Int64(int64(len(m.items)))}, nil
}

func TestExists(t *testing.T) {

	tt := []struct {
		name string
		item map[string]*dynamodb.AttributeValue
		want bool
	}{
		{
			name: "found",
			item: map[string]*dynamodb.AttributeValue{
				"payment_key": {S: aws.String("br-123")},
				"plate":       {S: aws.String("ABC1234")},
			},
			want: true,
		},
		{name: "not found", item: nil, want: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			s := New(&mockDB{item: tc.item}, "payments")
			got, err := s.Exists("br-123", "ABC1234")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTryInsert(t *testing.T) {

	m := &mockDB{}
	s := New(m, "payments")
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	inserted, err := s.TryInsert("br-123", "ABC1234", "https://bucket/report.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inserted {
		t.Error("expected insert to succeed")
	}

	if got := aws.StringValue(m.put.ConditionExpression); got != "attribute_not_exists(payment_key) AND attribute_not_exists(plate)" {
		t.Errorf("unexpected condition expression: %q", got)
	}
	if got := aws.StringValue(m.put.Item["created_at"].S); got != "2024-05-01T12:00:00Z" {
		t.Errorf("unexpected created_at: %q", got)
	}
}

func TestTryInsertConflict(t *testing.T) {

	m := &mockDB{putErr: awserr.New(dynamodb.ErrCodeConditionalCheckFailedException, "conditional check failed", nil)}
	s := New(m, "payments")

	inserted, err := s.TryInsert("br-123", "ABC1234", "https://bucket/report.pdf")
	if err != nil {
		t.Fatalf("conflict should not surface an error, got: %v", err)
	}
	if inserted {
		t.Error("expected insert to report an existing record")
	}
}

func TestTryInsertError(t *testing.T) {

	m := &mockDB{putErr: errors.New("throttled")}
	s := New(m, "payments")

	if _, err := s.TryInsert("br-123", "ABC1234", "url"); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestFind(t *testing.T) {

	items := []map[string]*dynamodb.AttributeValue{
		{
			"payment_key":  {S: aws.String("br-123")},
			"plate":        {S: aws.String("ABC1234")},
			"artifact_url": {S: aws.String("https://bucket/report.pdf")},
			"created_at":   {S: aws.String("2024-05-01T12:00:00Z")},
		},
	}

	s := New(&mockDB{items: items}, "payments")
	got, err := s.Find("br-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Record{
		PaymentKey:  "br-123",
		Plate:       "ABC1234",
		ArtifactURL: "https://bucket/report.pdf",
		CreatedAt:   "2024-05-01T12:00:00Z",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	s = New(&mockDB{}, "payments")
	got, err = s.Find("br-999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown payment key, got %+v", got)
	}
}

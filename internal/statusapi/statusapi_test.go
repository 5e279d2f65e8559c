package statusapi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/CarlosDanielS3/despachazap-lambdas/internal/fulfillment"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/statusstore"
)

type fakeFinder struct {
	rec *statusstore.Record
	err error
}

func (f *fakeFinder) Find(paymentKey string) (*statusstore.Record, error) {
	return f.rec, f.err
}

type fakeFulfiller struct {
	out fulfillment.Outcome
	err error
	ev  *fulfillment.Event
}

func (f *fakeFulfiller) Fulfill(ev *fulfillment.Event) (fulfillment.Outcome, error) {
	f.ev = ev
	return f.out, f.err
}

func TestHandleCheck(t *testing.T) {

	tt := []struct {
		name       string
		params     map[string]string
		rec        *statusstore.Record
		err        error
		wantStatus int
		wantPaid   string
	}{
		{
			name:       "paid",
			params:     map[string]string{"brCode": "br-123"},
			rec:        &statusstore.Record{PaymentKey: "br-123", Plate: "ABC1234", ArtifactURL: "https://bucket/r.pdf"},
			wantStatus: http.StatusOK,
			wantPaid:   "true",
		},
		{
			name:       "unpaid",
			params:     map[string]string{"brCode": "br-123"},
			wantStatus: http.StatusOK,
			wantPaid:   "false",
		},
		{
			name:       "missing brCode",
			params:     map[string]string{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store error",
			params:     map[string]string{"brCode": "br-123"},
			err:        errors.New("throttled"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			a := New(&fakeFinder{rec: tc.rec, err: tc.err}, &fakeFulfiller{}, zap.NewNop())
			res, err := a.Handle(&events.APIGatewayProxyRequest{
				HTTPMethod:            http.MethodGet,
				QueryStringParameters: tc.params,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.StatusCode != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, res.StatusCode, res.Body)
			}
			if tc.wantPaid != "" {
				if got := gjson.Get(res.Body, "paid").String(); got != tc.wantPaid {
					t.Errorf("expected paid=%s, got %q in %s", tc.wantPaid, got, res.Body)
				}
			}
		})
	}
}

func TestHandleFulfill(t *testing.T) {

	ful := &fakeFulfiller{out: fulfillment.Outcome{
		Status:      fulfillment.Fulfilled,
		ArtifactURL: "https://bucket/r.pdf",
	}}
	a := New(&fakeFinder{}, ful, zap.NewNop())

	res, err := a.Handle(&events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"id":"br-123","plate":"abc1234"}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.StatusCode, res.Body)
	}

	// request/response intake has no subscriber, so no delivery is attempted
	if ful.ev.SubscriberID != "" {
		t.Errorf("expected no subscriber id, got %q", ful.ev.SubscriberID)
	}
	if ful.ev.Plate != "ABC1234" {
		t.Errorf("expected normalized plate, got %q", ful.ev.Plate)
	}
	if got := gjson.Get(res.Body, "pdfUrl").String(); got != "https://bucket/r.pdf" {
		t.Errorf("expected pdfUrl in response, got %s", res.Body)
	}
}

func TestHandleFulfillAlreadyPaid(t *testing.T) {

	ful := &fakeFulfiller{out: fulfillment.Outcome{Status: fulfillment.AlreadyFulfilled}}
	a := New(&fakeFinder{}, ful, zap.NewNop())

	res, err := a.Handle(&events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"id":"br-123","plate":"ABC1234"}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := gjson.Get(res.Body, "message").String(); got != "Payment already marked as paid" {
		t.Errorf("unexpected message: %s", res.Body)
	}
}

func TestHandleFulfillErrors(t *testing.T) {

	tt := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "missing id", body: `{"plate":"ABC1234"}`, wantStatus: http.StatusBadRequest},
		{name: "missing plate", body: `{"id":"br-123"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown plate", body: `{"id":"br-123","plate":"ZZZ9999"}`, err: fulfillment.ErrRecordNotFound, wantStatus: http.StatusNotFound},
		{name: "generation failure", body: `{"id":"br-123","plate":"ABC1234"}`, err: fulfillment.ErrGenerationFailed, wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			a := New(&fakeFinder{}, &fakeFulfiller{err: tc.err}, zap.NewNop())
			res, err := a.Handle(&events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: tc.body})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.StatusCode != tc.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tc.wantStatus, res.StatusCode, res.Body)
			}
		})
	}
}

func TestHandleMethodNotAllowed(t *testing.T) {

	a := New(&fakeFinder{}, &fakeFulfiller{}, zap.NewNop())
	res, err := a.Handle(&events.APIGatewayProxyRequest{HTTPMethod: http.MethodDelete})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", res.StatusCode)
	}
}

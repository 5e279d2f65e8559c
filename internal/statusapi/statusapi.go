// Package statusapi handles the payment status endpoint.
package statusapi

import (
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/CarlosDanielS3/despachazap-lambdas/internal/fulfillment"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/plates"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/response"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/statusstore"
)

// Finder looks up fulfillment records by payment key
type Finder interface {
	Find(paymentKey string) (*statusstore.Record, error)
}

// Fulfiller runs the fulfillment pipeline
type Fulfiller interface {
	Fulfill(ev *fulfillment.Event) (fulfillment.Outcome, error)
}

// API serves payment status requests
type API struct {
	finder Finder
	ful    Fulfiller
	log    *zap.Logger
}

// New returns a new API
func New(finder Finder, ful Fulfiller, log *zap.Logger) *API {
	return &API{finder: finder, ful: ful, log: log}
}

// Handle routes a payment status request by method.
func (a *API) Handle(request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {

	switch request.HTTPMethod {
	case http.MethodGet:
		return a.handleCheck(request)
	case http.MethodPost:
		return a.handleFulfill(request)
	default:
		return response.Error(http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCheck reports whether a payment has been fulfilled. Lookup is by
// payment key alone; the plate comes back on the record.
func (a *API) handleCheck(request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {

	brCode := request.QueryStringParameters["brCode"]
	if brCode == "" {
		return response.Error(http.StatusBadRequest, "brCode is required")
	}

	rec, err := a.finder.Find(brCode)
	if err != nil {
		a.log.Error("could not check payment status", zap.String("payment_key", brCode), zap.Error(err))
		return response.Error(http.StatusInternalServerError, "failed to check payment status")
	}

	result := struct {
		BrCode string `json:"brCode"`
		Paid   bool   `json:"paid"`
		PdfURL string `json:"pdfUrl,omitempty"`
	}{BrCode: brCode, Paid: rec != nil}
	if rec != nil {
		result.PdfURL = rec.ArtifactURL
	}
	return response.Success(result)
}

// handleFulfill runs the pipeline for a request/response caller. There is no
// subscriber in this intake, so the notification stage is skipped.
func (a *API) handleFulfill(request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {

	id := gjson.Get(request.Body, "id").String()
	if id == "" {
		return response.Error(http.StatusBadRequest, "payment id is required")
	}

	plate := plates.Normalize(gjson.Get(request.Body, "plate").String())
	if plate == "" {
		return response.Error(http.StatusBadRequest, "plate is required")
	}

	out, err := a.ful.Fulfill(&fulfillment.Event{PaymentKey: id, Plate: plate})
	if err != nil {
		a.log.Error("could not fulfill payment", zap.String("payment_key", id), zap.Error(err))
		switch {
		case errors.Is(err, fulfillment.ErrRecordNotFound):
			return response.Error(http.StatusNotFound, "no vehicle record for plate: "+plate)
		case errors.Is(err, fulfillment.ErrMalformedEvent):
			return response.Error(http.StatusBadRequest, "invalid payment request")
		default:
			return response.Error(http.StatusInternalServerError, "failed to process payment status")
		}
	}

	result := struct {
		PaymentID string `json:"paymentId"`
		Paid      bool   `json:"paid"`
		Plate     string `json:"plate"`
		PdfURL    string `json:"pdfUrl,omitempty"`
		Message   string `json:"message"`
	}{PaymentID: id, Paid: true, Plate: plate}

	if out.Status == fulfillment.AlreadyFulfilled {
		result.Message = "Payment already marked as paid"
	} else {
		result.PdfURL = out.ArtifactURL
		result.Message = "Payment marked as paid and PDF generated successfully"
	}
	return response.Success(result)
}

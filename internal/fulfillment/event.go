package fulfillment

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/CarlosDanielS3/despachazap-lambdas/internal/plates"
)

// Event is a parsed payment confirmation.
type Event struct {
	// PaymentKey correlates the payment to its fulfillment record.
	PaymentKey string
	// Plate is the normalized plate the report was bought for.
	Plate string
	// SubscriberID identifies the chat subscriber to deliver to. Empty for
	// request/response intake, which skips delivery.
	SubscriberID string
}

// ParseEvent extracts a payment confirmation from a provider webhook payload.
// The plate travels in the charge's additional info tags.
func ParseEvent(body string) (*Event, error) {

	if !gjson.Valid(body) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", ErrMalformedEvent)
	}

	key := gjson.Get(body, "charge.brCode").String()
	if key == "" {
		return nil, fmt.Errorf("%w: no payment key in payload", ErrMalformedEvent)
	}

	plate := gjson.Get(body, `charge.additionalInfo.#(key=="plate").value`).String()
	if plate == "" {
		return nil, fmt.Errorf("%w: no plate tag in payload", ErrMalformedEvent)
	}

	return &Event{
		PaymentKey:   key,
		Plate:        plates.Normalize(plate),
		SubscriberID: gjson.Get(body, "charge.customer.correlationID").String(),
	}, nil
}

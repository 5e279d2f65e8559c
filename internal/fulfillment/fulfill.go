// Package fulfillment turns confirmed payments into generated and delivered
// reports, at most once per (paymentKey, plate) pair.
package fulfillment

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/CarlosDanielS3/despachazap-lambdas/internal/platestore"
)

// Failure taxonomy. MalformedEvent and RecordNotFound are terminal for an
// event; GenerationFailed and DeliveryFailed are safe to redeliver because a
// retry short-circuits on the fulfillment record.
var (
	ErrMalformedEvent   = errors.New("malformed event")
	ErrRecordNotFound   = errors.New("no vehicle record for plate")
	ErrGenerationFailed = errors.New("report generation failed")
	ErrDeliveryFailed   = errors.New("notification delivery failed")
)

// Status is the result kind of a fulfillment attempt
type Status int

const (
	// Fulfilled means a report was generated and recorded by this attempt.
	Fulfilled Status = iota
	// AlreadyFulfilled means a record for the pair existed; nothing was done.
	AlreadyFulfilled
)

// Outcome is the result of a fulfillment attempt
type Outcome struct {
	Status      Status
	ArtifactURL string
}

// StatusStore records which payments have been fulfilled
type StatusStore interface {
	Exists(paymentKey, plate string) (bool, error)
	TryInsert(paymentKey, plate, artifactURL string) (bool, error)
}

// PlateStore reads vehicle records
type PlateStore interface {
	Get(plate string) (*platestore.Record, error)
}

// Generator produces the report artifact
type Generator interface {
	Generate(rec *platestore.Record) (string, error)
}

// Notifier delivers messages to a chat subscriber
type Notifier interface {
	SendText(subscriberID, text string) error
	SendFile(subscriberID, fileURL string) error
}

const (
	confirmationMessage = "Seu pagamento foi confirmado com sucesso! ✅\n\nEstamos gerando o relatório do veículo. Por favor, aguarde alguns instantes..."
	closingMessage      = "📄 Relatório da placa *%s* enviado com sucesso!\n\nSe precisar de mais alguma informação, estou à disposição! 🚗"
)

// Fulfiller runs the payment fulfillment pipeline
type Fulfiller struct {
	status StatusStore
	plates PlateStore
	gen    Generator
	notif  Notifier
	log    *zap.Logger
}

// New returns a new Fulfiller
func New(status StatusStore, plates PlateStore, gen Generator, notif Notifier, log *zap.Logger) *Fulfiller {
	return &Fulfiller{status: status, plates: plates, gen: gen, notif: notif, log: log}
}

// Fulfill ensures a report exists and is delivered for one payment event.
//
// The fulfillment record is written strictly after generation succeeds and
// strictly before delivery. A duplicate event short-circuits on the record,
// so redelivering a failed event is always safe; the flip side is that a
// delivery failure after the record is written is not retried through this
// channel.
func (f *Fulfiller) Fulfill(ev *Event) (Outcome, error) {

	if ev.PaymentKey == "" || ev.Plate == "" {
		return Outcome{}, fmt.Errorf("%w: missing payment key or plate", ErrMalformedEvent)
	}

	// The store is the source of truth, not an in-memory check: the same
	// event may be in flight concurrently across retries.
	exists, err := f.status.Exists(ev.PaymentKey, ev.Plate)
	if err != nil {
		return Outcome{}, fmt.Errorf("could not check fulfillment record: %v", err)
	}
	if exists {
		f.log.Info("payment already fulfilled",
			zap.String("payment_key", ev.PaymentKey),
			zap.String("plate", ev.Plate))
		return Outcome{Status: AlreadyFulfilled}, nil
	}

	rec, err := f.plates.Get(ev.Plate)
	if err != nil {
		return Outcome{}, fmt.Errorf("could not read plate record: %v", err)
	}
	if rec == nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrRecordNotFound, ev.Plate)
	}

	artifactURL, err := f.gen.Generate(rec)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	inserted, err := f.status.TryInsert(ev.PaymentKey, ev.Plate, artifactURL)
	if err != nil {
		return Outcome{}, fmt.Errorf("could not record fulfillment: %v", err)
	}
	if !inserted {
		// a concurrent duplicate won the race; it owns delivery
		f.log.Info("lost fulfillment race to a duplicate event",
			zap.String("payment_key", ev.PaymentKey),
			zap.String("plate", ev.Plate))
		return Outcome{Status: AlreadyFulfilled}, nil
	}

	f.log.Info("fulfillment recorded",
		zap.String("payment_key", ev.PaymentKey),
		zap.String("plate", ev.Plate),
		zap.String("artifact_url", artifactURL))

	if ev.SubscriberID != "" {
		if err := f.deliver(ev, artifactURL); err != nil {
			return Outcome{}, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
	}

	return Outcome{Status: Fulfilled, ArtifactURL: artifactURL}, nil
}

func (f *Fulfiller) deliver(ev *Event, artifactURL string) error {

	if err := f.notif.SendText(ev.SubscriberID, confirmationMessage); err != nil {
		return fmt.Errorf("could not send confirmation: %v", err)
	}

	if err := f.notif.SendFile(ev.SubscriberID, artifactURL); err != nil {
		return fmt.Errorf("could not send report: %v", err)
	}

	if err := f.notif.SendText(ev.SubscriberID, fmt.Sprintf(closingMessage, ev.Plate)); err != nil {
		return fmt.Errorf("could not send closing message: %v", err)
	}

	f.log.Info("report delivered", zap.String("subscriber_id", ev.SubscriberID))
	return nil
}

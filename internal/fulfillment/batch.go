package fulfillment

import (
	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// ProcessBatch runs the pipeline over a queue delivery batch. Each message is
// handled independently: a failure of any kind marks that message for
// redelivery and the loop moves on. The batch itself never fails.
func (f *Fulfiller) ProcessBatch(event *events.SQSEvent) (events.SQSEventResponse, error) {

	var failures []events.SQSBatchItemFailure

	for _, msg := range event.Records {
		f.log.Info("processing message", zap.String("message_id", msg.MessageId))

		ev, err := ParseEvent(msg.Body)
		if err != nil {
			f.log.Error("could not parse message",
				zap.String("message_id", msg.MessageId),
				zap.Error(err))
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: msg.MessageId})
			continue
		}

		if _, err := f.Fulfill(ev); err != nil {
			f.log.Error("could not fulfill payment",
				zap.String("message_id", msg.MessageId),
				zap.String("payment_key", ev.PaymentKey),
				zap.Error(err))
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: msg.MessageId})
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

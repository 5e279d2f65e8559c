package main

import (
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/CarlosDanielS3/despachazap-lambdas/internal/config"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/fulfillment"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/logging"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/platestore"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/report"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/statusapi"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/statusstore"
)

var api *statusapi.API

// The POST path runs the same pipeline as the queue intake, minus delivery,
// so it needs the generator wiring too.
func init() {
	cfg := config.Load()
	log := logging.New()

	if err := config.Require(map[string]string{
		"STATUS_TABLE":  cfg.StatusTable,
		"PLATE_TABLE":   cfg.PlateTable,
		"REPORT_BUCKET": cfg.ReportBucket,
	}); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))
	ddb := dynamodb.New(sess, &aws.Config{Region: aws.String(cfg.Region)})
	s3c := s3.New(sess, &aws.Config{Region: aws.String(cfg.Region)})

	status := statusstore.New(ddb, cfg.StatusTable)
	ful := fulfillment.New(
		status,
		platestore.New(ddb, cfg.PlateTable),
		report.New(s3c, cfg.ReportBucket, cfg.Region),
		nopNotifier{},
		log,
	)

	api = statusapi.New(status, ful, log)
}

// nopNotifier satisfies the pipeline's notifier dependency; the
// request/response intake never has a subscriber to deliver to.
type nopNotifier struct{}

func (nopNotifier) SendText(subscriberID, text string) error    { return nil }
func (nopNotifier) SendFile(subscriberID, fileURL string) error { return nil }

func handler(request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return api.Handle(request)
}

func main() {
	lambda.Start(handler)
}

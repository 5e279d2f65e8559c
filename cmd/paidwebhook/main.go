package main

import (
	"net/url"

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
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/notifier"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/platestore"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/report"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/statusstore"
)

var ful *fulfillment.Fulfiller

func init() {
	cfg := config.Load()
	log := logging.New()

	if err := config.Require(map[string]string{
		"STATUS_TABLE":   cfg.StatusTable,
		"PLATE_TABLE":    cfg.PlateTable,
		"REPORT_BUCKET":  cfg.ReportBucket,
		"CHAT_API_TOKEN": cfg.ChatToken,
	}); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	chatURL, err := url.Parse(cfg.ChatURL)
	if err != nil {
		log.Fatal("invalid chat API URL", zap.Error(err))
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))
	ddb := dynamodb.New(sess, &aws.Config{Region: aws.String(cfg.Region)})
	s3c := s3.New(sess, &aws.Config{Region: aws.String(cfg.Region)})

	ful = fulfillment.New(
		statusstore.New(ddb, cfg.StatusTable),
		platestore.New(ddb, cfg.PlateTable),
		report.New(s3c, cfg.ReportBucket, cfg.Region),
		notifier.New(chatURL, cfg.ChatToken),
		log,
	)
}

func handler(sqsEvent *events.SQSEvent) (events.SQSEventResponse, error) {
	return ful.ProcessBatch(sqsEvent)
}

func main() {
	lambda.Start(handler)
}

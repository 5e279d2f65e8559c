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
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/logging"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/plateapi"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/platestore"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/report"
)

var pdf *plateapi.PDF

func init() {
	cfg := config.Load()
	log := logging.New()

	if err := config.Require(map[string]string{
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

	pdf = plateapi.NewPDF(
		platestore.New(ddb, cfg.PlateTable),
		report.New(s3c, cfg.ReportBucket, cfg.Region),
		log,
	)
}

func handler(request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return pdf.HandleGenerate(request)
}

func main() {
	lambda.Start(handler)
}

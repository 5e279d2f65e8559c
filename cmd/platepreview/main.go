package main

import (
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"go.uber.org/zap"

	"github.com/CarlosDanielS3/despachazap-lambdas/internal/config"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/logging"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/plateapi"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/platestore"
)

var preview *plateapi.Preview

func init() {
	cfg := config.Load()
	log := logging.New()

	if err := config.Require(map[string]string{
		"PLATE_TABLE": cfg.PlateTable,
	}); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))
	ddb := dynamodb.New(sess, &aws.Config{Region: aws.String(cfg.Region)})

	preview = plateapi.NewPreview(platestore.New(ddb, cfg.PlateTable), log)
}

func handler(request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return preview.HandlePreview(request)
}

func main() {
	lambda.Start(handler)
}

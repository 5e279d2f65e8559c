package main

import (
	"net/url"

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
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/registry"
)

var api *plateapi.API

func init() {
	cfg := config.Load()
	log := logging.New()

	if err := config.Require(map[string]string{
		"PLATE_TABLE":     cfg.PlateTable,
		"PLATE_API_TOKEN": cfg.RegistryToken,
	}); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	registryURL, err := url.Parse(cfg.RegistryURL)
	if err != nil {
		log.Fatal("invalid plate API URL", zap.Error(err))
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))
	ddb := dynamodb.New(sess, &aws.Config{Region: aws.String(cfg.Region)})

	api = plateapi.New(
		platestore.New(ddb, cfg.PlateTable),
		registry.New(registryURL, cfg.RegistryToken),
		log,
	)
}

func handler(request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return api.HandleRetrieve(request)
}

func main() {
	lambda.Start(handler)
}

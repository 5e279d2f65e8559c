package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/CarlosDanielS3/despachazap-lambdas/internal/plateapi"
)

func main() {
	lambda.Start(plateapi.HandleValidate)
}

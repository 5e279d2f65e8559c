// Package response builds API Gateway proxy responses.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
	"Access-Control-Allow-Methods": "OPTIONS,POST",
}

// Success returns a 200 response with a JSON body.
func Success(data interface{}) (events.APIGatewayProxyResponse, error) {

	body, err := json.Marshal(data)
	if err != nil {
		return Error(http.StatusInternalServerError, "failed to marshal response")
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders,
		Body:       string(body),
	}, nil
}

// Error returns an error response with a JSON error message.
func Error(status int, message string) (events.APIGatewayProxyResponse, error) {

	body, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: message})

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(body),
	}, nil
}

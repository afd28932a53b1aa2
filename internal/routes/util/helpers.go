package util

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/subscriptions/internal/exceptions"
	"philcali.me/subscriptions/internal/routes"
)

type Message struct {
	Message string `json:"message"`
}

func RequestParam(ctx context.Context, name string) string {
	return routes.Params(ctx)[name]
}

// DecodeObject reads the request body as a JSON object. Numbers are kept
// as json.Number so prices are not rounded before validation.
func DecodeObject(event events.APIGatewayV2HTTPRequest) (map[string]any, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, exceptions.InvalidInput("Request body is not valid base64")
		}
		body = decoded
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var object map[string]any
	if err := decoder.Decode(&object); err != nil {
		return nil, exceptions.InvalidInput("Request body must be a JSON object: " + err.Error())
	}
	if decoder.More() {
		return nil, exceptions.InvalidInput("Request body must contain a single JSON object")
	}
	return object, nil
}

func SerializeResponse[T interface{}, R interface{}](delayed func(T) R, thing T, err error, statusCode int) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	body, err := json.Marshal(delayed(thing))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

func SerializeResponseOK[T interface{}, R interface{}](delayed func(T) R, thing T, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(delayed, thing, err, 200)
}

func SerializeMessage(message string, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponseOK(func(m string) Message {
		return Message{Message: m}
	}, message, err)
}

func MapList[D interface{}, R interface{}](items []D, thunk func(D) R) []R {
	results := make([]R, len(items))
	for i, item := range items {
		results[i] = thunk(item)
	}
	return results
}

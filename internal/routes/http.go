package routes

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// NewEvent converts a plain HTTP request into the API Gateway v2 event the
// router dispatches on.
func NewEvent(req *http.Request) (events.APIGatewayV2HTTPRequest, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
		if err != nil {
			return events.APIGatewayV2HTTPRequest{}, err
		}
	}
	headers := make(map[string]string, len(req.Header))
	for name, values := range req.Header {
		headers[strings.ToLower(name)] = strings.Join(values, ",")
	}
	query := req.URL.Query()
	params := make(map[string]string, len(query))
	for name := range query {
		params[name] = query.Get(name)
	}
	now := time.Now()
	event := events.APIGatewayV2HTTPRequest{
		Version:               "2.0",
		RouteKey:              "$default",
		RawPath:               req.URL.Path,
		RawQueryString:        req.URL.RawQuery,
		Headers:               headers,
		QueryStringParameters: params,
		Body:                  string(body),
	}
	event.RequestContext.RequestID = uuid.NewString()
	event.RequestContext.Time = now.Format("02/Jan/2006:15:04:05 -0700")
	event.RequestContext.TimeEpoch = now.UnixMilli()
	event.RequestContext.HTTP.Method = req.Method
	event.RequestContext.HTTP.Path = req.URL.Path
	event.RequestContext.HTTP.Protocol = req.Proto
	event.RequestContext.HTTP.SourceIP = req.RemoteAddr
	event.RequestContext.HTTP.UserAgent = req.UserAgent()
	return event, nil
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	event, err := NewEvent(req)
	if err != nil {
		r.Logger.Warn("failed to read request", "method", req.Method, "path", req.URL.Path, "error", err)
		http.Error(w, `{"message": "Failed to read request"}`, http.StatusBadRequest)
		return
	}
	response := r.Invoke(event, req.Context())
	for name, value := range response.Headers {
		w.Header().Set(name, value)
	}
	for name, values := range response.MultiValueHeaders {
		for _, value := range values {
			w.Header().Add(name, value)
		}
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	w.WriteHeader(statusCode)
	if response.Body != "" {
		if _, err := io.WriteString(w, response.Body); err != nil {
			r.Logger.Warn("failed to write response", "path", req.URL.Path, "error", err)
		}
	}
}

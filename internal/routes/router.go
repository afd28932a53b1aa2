package routes

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/subscriptions/internal/exceptions"
	"philcali.me/subscriptions/internal/routes/filters"
)

type Route func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error)

type Service interface {
	GetRoutes() map[string]Route
}

type contextKey string

const paramsKey contextKey = "Params"

// Params returns the path parameters captured for the matched route.
func Params(ctx context.Context) map[string]string {
	if params, ok := ctx.Value(paramsKey).(map[string]string); ok {
		return params
	}
	return map[string]string{}
}

type CachedMatcher struct {
	Matcher    *regexp.Regexp
	ParamNames []string
	Mutex      *sync.Mutex
}

type CachedRoute struct {
	Method  string
	Path    string
	Route   Route
	Matcher *CachedMatcher
}

func (cr *CachedMatcher) Refresh(path string) (*regexp.Regexp, []string) {
	cr.Mutex.Lock()
	defer cr.Mutex.Unlock()
	if cr.Matcher == nil {
		namex := regexp.MustCompile(":[^/]+")
		regexPath := namex.ReplaceAllStringFunc(path, func(found string) string {
			cr.ParamNames = append(cr.ParamNames, found[1:])
			return "([^/]+)"
		})
		cr.Matcher = regexp.MustCompile("^" + regexPath + "$")
	}
	return cr.Matcher, cr.ParamNames
}

func (cr *CachedRoute) MatchEvent(event events.APIGatewayV2HTTPRequest) (map[string]string, bool) {
	if event.RequestContext.HTTP.Method != cr.Method {
		return nil, false
	}
	if event.RawPath == cr.Path {
		return map[string]string{}, true
	}
	matcher, names := cr.Matcher.Refresh(cr.Path)
	values := matcher.FindStringSubmatch(event.RawPath)
	if values == nil {
		return nil, false
	}
	params := make(map[string]string, len(names))
	for i, p := range names {
		params[p] = values[i+1]
	}
	return params, true
}

type Router struct {
	Filters []filters.RequestFilter
	Routes  []CachedRoute
	Logger  *slog.Logger
}

func NewRouter(logger *slog.Logger, services ...Service) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	var routes []CachedRoute
	var fltrs []filters.RequestFilter
	for _, service := range services {
		for composite, route := range service.GetRoutes() {
			parts := strings.SplitN(composite, ":", 2)
			cachedRoute := CachedRoute{
				Method: parts[0],
				Path:   parts[1],
				Route:  route,
				Matcher: &CachedMatcher{
					Mutex: &sync.Mutex{},
				},
			}
			routes = append(routes, cachedRoute)
		}
	}
	fltrs = append(fltrs, filters.DefaultCorsFilter())
	return &Router{
		Routes:  routes,
		Filters: fltrs,
		Logger:  logger,
	}
}

type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (r *Router) translateError(event events.APIGatewayV2HTTPRequest, err error) events.APIGatewayV2HTTPResponse {
	var fields map[string]string
	var re exceptions.RequestError
	if !errors.As(err, &re) {
		re = exceptions.InternalServer("Unexpected internal error")
	}
	statusCode := re.ToServiceError().StatusCode
	message := re.Error()
	var nfe *exceptions.NotFoundError
	if errors.As(err, &nfe) {
		message = nfe.Message()
	}
	var ve *exceptions.ValidationError
	if errors.As(err, &ve) {
		fields = ve.Fields
	}
	if statusCode >= 500 {
		attrs := []any{
			"method", event.RequestContext.HTTP.Method,
			"path", event.RawPath,
			"status", statusCode,
			"error", err,
		}
		if cause := errors.Unwrap(err); cause != nil {
			attrs = append(attrs, "cause", cause)
		}
		r.Logger.Error("request failed", attrs...)
	}
	body, _ := json.Marshal(errorBody{Message: message, Errors: fields})
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    headers,
	}
}

func (r *Router) dispatch(event events.APIGatewayV2HTTPRequest, ctx context.Context) events.APIGatewayV2HTTPResponse {
	filterContext := filters.DefaultFilterContext(event, ctx)
	for _, filter := range r.Filters {
		updatedContext, broken := filter.Filter(filterContext)
		if broken {
			return *updatedContext.Response
		}
		filterContext = updatedContext
	}
	response := r.route(event, filterContext)
	for _, filter := range r.Filters {
		if decorator, ok := filter.(filters.ResponseFilter); ok {
			decorator.Decorate(filterContext, &response)
		}
	}
	return response
}

func (r *Router) route(event events.APIGatewayV2HTTPRequest, filterContext *filters.FilterContext) events.APIGatewayV2HTTPResponse {
	for _, route := range r.Routes {
		if params, ok := route.MatchEvent(*filterContext.Request); ok {
			resp, err := route.Route(event, context.WithValue(*filterContext.Context, paramsKey, params))
			if err != nil {
				return r.translateError(event, err)
			}
			return resp
		}
	}
	return r.translateError(event, exceptions.NotFound("route", event.RawPath))
}

func (r *Router) Invoke(event events.APIGatewayV2HTTPRequest, ctx context.Context) events.APIGatewayV2HTTPResponse {
	start := time.Now()
	response := r.dispatch(event, ctx)
	r.Logger.Info("handled request",
		"method", event.RequestContext.HTTP.Method,
		"path", event.RawPath,
		"status", response.StatusCode,
		"duration", time.Since(start),
		"requestId", event.RequestContext.RequestID,
	)
	return response
}

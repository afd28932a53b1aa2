package root

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/subscriptions/internal/routes"
	"philcali.me/subscriptions/internal/routes/util"
)

type RootService struct {
	Banner string
}

func NewRoute() routes.Service {
	return &RootService{
		Banner: "Digital Subscription Manager API",
	}
}

func (rs *RootService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/": rs.Describe,
	}
}

func (rs *RootService) Describe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeMessage(rs.Banner, nil)
}

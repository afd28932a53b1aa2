// Package app opens the process-wide store connection and assembles the
// router on top of it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"philcali.me/subscriptions/internal/config"
	"philcali.me/subscriptions/internal/data"
	dynamoData "philcali.me/subscriptions/internal/dynamodb/subscriptions"
	memoryData "philcali.me/subscriptions/internal/memory/subscriptions"
	mongoData "philcali.me/subscriptions/internal/mongodb/subscriptions"
	"philcali.me/subscriptions/internal/notifications"
	"philcali.me/subscriptions/internal/routes"
	"philcali.me/subscriptions/internal/routes/root"
	"philcali.me/subscriptions/internal/routes/subscriptions"
	"philcali.me/subscriptions/internal/sns/services"
)

type App struct {
	Router  *routes.Router
	Store   data.SubscriptionDataService
	closers []func(context.Context) error
	logger  *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}
	store, err := app.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	notifier, err := app.openNotifications(ctx, cfg)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.Store = store
	app.Router = routes.NewRouter(
		logger,
		root.NewRoute(),
		subscriptions.NewRoute(store, notifier, logger),
	)
	return app, nil
}

func (a *App) loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	var opts []func(*awsConfig.LoadOptions) error
	if cfg.DynamoDBEndpoint != "" {
		endpoint := cfg.DynamoDBEndpoint
		opts = append(opts, awsConfig.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				if service == dynamodb.ServiceID {
					return aws.Endpoint{URL: endpoint}, nil
				}
				return aws.Endpoint{}, &aws.EndpointNotFoundError{}
			})))
	}
	return awsConfig.LoadDefaultConfig(ctx, opts...)
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (data.SubscriptionDataService, error) {
	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		awsCfg, err := a.loadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		a.logger.Info("using dynamodb store", "table", cfg.TableName)
		return dynamoData.NewSubscriptionService(cfg.TableName, dynamodb.NewFromConfig(awsCfg), cfg.StoreTimeout), nil
	case config.BackendMongoDB:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)
		pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		a.logger.Info("using mongodb store", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)
		collection := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		return mongoData.NewSubscriptionService(collection, cfg.StoreTimeout), nil
	case config.BackendMemory:
		a.logger.Warn("using in-memory store, records are lost on exit")
		return memoryData.NewSubscriptionService(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func (a *App) openNotifications(ctx context.Context, cfg *config.Config) (notifications.NotificationService, error) {
	if cfg.TopicArn == "" {
		return notifications.NoopNotificationService{}, nil
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	a.logger.Info("publishing subscription changes", "topicArn", cfg.TopicArn)
	return &services.NotificationSNSService{
		Sns:      sns.NewFromConfig(awsCfg),
		TopicArn: cfg.TopicArn,
	}, nil
}

// Close releases the store connection. It is safe to call more than once.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

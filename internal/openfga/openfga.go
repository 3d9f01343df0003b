// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package openfga

import (
	"context"
	"fmt"
	"reflect"

	fga "github.com/openfga/go-sdk"
	"github.com/openfga/go-sdk/client"
	"github.com/openfga/go-sdk/credentials"

	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring"
	"github.com/canonical/explorer-service/internal/tracing"
)

const readPageSize = int32(50)

type Config struct {
	ApiScheme   string
	ApiHost     string
	StoreID     string
	ApiToken    string
	AuthModelID string
	Debug       bool

	Tracer  tracing.TracingInterface
	Monitor monitoring.MonitorInterface
	Logger  logging.LoggerInterface
}

func NewConfig(apiScheme, apiHost, storeID, apiToken, authModelID string, debug bool, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Config {
	c := new(Config)

	c.ApiScheme = apiScheme
	c.ApiHost = apiHost
	c.StoreID = storeID
	c.ApiToken = apiToken
	c.AuthModelID = authModelID
	c.Debug = debug

	c.Tracer = tracer
	c.Monitor = monitor
	c.Logger = logger

	return c
}

type Client struct {
	c *client.OpenFgaClient

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (c *Client) Check(ctx context.Context, user, relation, object string, contextualTuples ...Tuple) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.Check")
	defer span.End()

	body := client.ClientCheckRequest{
		User:     user,
		Relation: relation,
		Object:   object,
	}

	if len(contextualTuples) > 0 {
		body.ContextualTuples = contextualTupleKeys(contextualTuples)
	}

	r, err := c.c.Check(ctx).Body(body).Execute()
	if err != nil {
		return false, fmt.Errorf("failed to perform check: %w", err)
	}

	return r.GetAllowed(), nil
}

func (c *Client) WriteTuple(ctx context.Context, user, relation, object string) error {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.WriteTuple")
	defer span.End()

	_, err := c.c.WriteTuples(ctx).
		Body(
			[]client.ClientTupleKey{
				{User: user, Relation: relation, Object: object},
			},
		).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to write tuple: %w", err)
	}

	return nil
}

func (c *Client) DeleteTuple(ctx context.Context, user, relation, object string) error {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.DeleteTuple")
	defer span.End()

	return c.DeleteTuples(ctx, *NewTuple(user, relation, object))
}

func (c *Client) DeleteTuples(ctx context.Context, tuples ...Tuple) error {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.DeleteTuples")
	defer span.End()

	keys := make([]client.ClientTupleKeyWithoutCondition, 0, len(tuples))
	for _, t := range tuples {
		keys = append(
			keys,
			client.ClientTupleKeyWithoutCondition{User: t.User, Relation: t.Relation, Object: t.Object},
		)
	}

	_, err := c.c.DeleteTuples(ctx).Body(keys).Execute()
	if err != nil {
		return fmt.Errorf("failed to delete tuples: %w", err)
	}

	return nil
}

// ReadTuples pages through tuples matching the filter, empty fields act as
// wildcards. Pass the previous response's continuation token to fetch the
// next page.
func (c *Client) ReadTuples(ctx context.Context, user, relation, object, continuationToken string) (*client.ClientReadResponse, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.ReadTuples")
	defer span.End()

	body := client.ClientReadRequest{}
	if user != "" {
		body.User = &user
	}
	if relation != "" {
		body.Relation = &relation
	}
	if object != "" {
		body.Object = &object
	}

	options := client.ClientReadOptions{
		PageSize: fga.PtrInt32(readPageSize),
	}
	if continuationToken != "" {
		options.ContinuationToken = &continuationToken
	}

	r, err := c.c.Read(ctx).Body(body).Options(options).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to read tuples: %w", err)
	}

	return r, nil
}

func (c *Client) ReadModel(ctx context.Context) (*fga.AuthorizationModel, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.ReadModel")
	defer span.End()

	r, err := c.c.ReadAuthorizationModel(ctx).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to read authorization model: %w", err)
	}

	return r.AuthorizationModel, nil
}

func (c *Client) CompareModel(ctx context.Context, model fga.AuthorizationModel) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.CompareModel")
	defer span.End()

	authModel, err := c.ReadModel(ctx)
	if err != nil {
		return false, err
	}

	if authModel.SchemaVersion != model.SchemaVersion {
		return false, nil
	}

	if !reflect.DeepEqual(authModel.TypeDefinitions, model.TypeDefinitions) {
		return false, nil
	}

	return true, nil
}

func (c *Client) WriteModel(ctx context.Context, model *client.ClientWriteAuthorizationModelRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.WriteModel")
	defer span.End()

	r, err := c.c.WriteAuthorizationModel(ctx).Body(*model).Execute()
	if err != nil {
		return "", fmt.Errorf("failed to write authorization model: %w", err)
	}

	return r.GetAuthorizationModelId(), nil
}

func (c *Client) CreateStore(ctx context.Context, name string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.CreateStore")
	defer span.End()

	r, err := c.c.CreateStore(ctx).
		Body(client.ClientCreateStoreRequest{Name: name}).
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to create store: %w", err)
	}

	return r.GetId(), nil
}

func (c *Client) SetStoreID(ctx context.Context, storeID string) {
	_, span := c.tracer.Start(ctx, "openfga.Client.SetStoreID")
	defer span.End()

	c.c.SetStoreId(storeID)
}

func NewClient(cfg *Config) *Client {
	c := new(Client)

	clientConfig := &client.ClientConfiguration{
		ApiUrl:               fmt.Sprintf("%s://%s", cfg.ApiScheme, cfg.ApiHost),
		StoreId:              cfg.StoreID,
		AuthorizationModelId: cfg.AuthModelID,
		Debug:                cfg.Debug,
	}

	if cfg.ApiToken != "" {
		clientConfig.Credentials = &credentials.Credentials{
			Method: credentials.CredentialsMethodApiToken,
			Config: &credentials.Config{ApiToken: cfg.ApiToken},
		}
	}

	fgaClient, err := client.NewSdkClient(clientConfig)
	if err != nil {
		panic(fmt.Sprintf("issues setting up OpenFGA client: %s", err))
	}

	c.c = fgaClient

	c.tracer = cfg.Tracer
	c.monitor = cfg.Monitor
	c.logger = cfg.Logger

	return c
}

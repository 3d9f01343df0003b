// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/explorer-service/internal/logging"
	"github.com/canonical/explorer-service/internal/monitoring"
	"github.com/canonical/explorer-service/internal/tracing"
	"github.com/canonical/explorer-service/internal/types"
)

const sendTimeout = 5 * time.Second

type Client struct {
	endpoint string
	client   *http.Client

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Publish delivers the event in the background. Delivery failures are logged
// and dropped.
func (c *Client) Publish(ctx context.Context, event *types.AnalyticsEvent) {
	_, span := c.tracer.Start(ctx, "analytics.Client.Publish")
	defer span.End()

	go c.send(event)
}

// send runs detached from the originating request so that cancellation of the
// request does not cancel delivery.
func (c *Client) send(event *types.AnalyticsEvent) {
	b, err := json.Marshal(event)
	if err != nil {
		c.logger.Errorf("failed to encode analytics event %s: %s", event.Name, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		c.logger.Errorf("failed to build analytics request: %s", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debugf("failed to deliver analytics event %s: %s", event.Name, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Debugf("analytics endpoint returned %d for event %s", resp.StatusCode, event.Name)
	}
}

func NewClient(endpoint string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	c := new(Client)

	c.endpoint = endpoint
	c.client = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   sendTimeout,
	}

	c.tracer = tracer
	c.monitor = monitor
	c.logger = logger

	return c
}

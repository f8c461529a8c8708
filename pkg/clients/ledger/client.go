// Package ledger talks to the external settlement service that confirms
// supply-chain transitions. Production deployments point it at a real
// endpoint; dev mode falls back to the simulated client.
package ledger

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/agritrace/agritrace/internal/config"
)

// Client exposes the confirmation call the verification workflow awaits.
type Client interface {
	Confirm(ctx context.Context, req ConfirmRequest) (*Confirmation, error)
}

// ConfirmRequest describes the transition being settled.
type ConfirmRequest struct {
	BatchID string `json:"batchId"`
	Action  string `json:"action"`
}

// Confirmation carries the settlement transaction id.
type Confirmation struct {
	TxID string `json:"txId"`
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a ledger API client from configuration.
func NewClient(cfg config.LedgerConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.ConfirmTimeout)

	return &APIClient{httpClient: restyClient}
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Confirm posts the transition to the settlement endpoint and returns its
// transaction id. The call respects both the context and the configured
// client timeout.
func (c *APIClient) Confirm(ctx context.Context, req ConfirmRequest) (*Confirmation, error) {
	result := new(Confirmation)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(result).
		SetError(apiErr).
		Post("/confirm")
	if err != nil {
		return nil, fmt.Errorf("confirm transition: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error.Message
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return nil, fmt.Errorf("ledger api error: code=%d, message=%s", code, message)
	}

	return result, nil
}

// ensure interface compliance
var _ Client = (*APIClient)(nil)
var _ Client = (*SimulatedClient)(nil)

// SimulatedClient settles transitions locally after a fixed delay, standing
// in for the external service when no endpoint is configured.
type SimulatedClient struct {
	delay time.Duration
	txID  func() string
}

// NewSimulatedClient creates a simulated ledger with the given settlement
// delay.
func NewSimulatedClient(delay time.Duration, txID func() string) *SimulatedClient {
	return &SimulatedClient{delay: delay, txID: txID}
}

// Confirm waits out the settlement delay, honoring context cancellation.
func (c *SimulatedClient) Confirm(ctx context.Context, req ConfirmRequest) (*Confirmation, error) {
	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return &Confirmation{TxID: c.txID()}, nil
}

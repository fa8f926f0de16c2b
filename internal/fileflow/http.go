package fileflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
)

// doGetJSON performs a GET request and decodes the envelope's result into T.
// Transport failures and 5xx answers are retried with exponential backoff.
// The endpoint should be the path after the base API URL (e.g., "projects?limit=10").
func doGetJSON[T any](ctx context.Context, c *Client, endpoint string) (*Envelope[T], error) {
	var env *Envelope[T]
	operation := func() error {
		var err error
		env, err = doRequestJSON[T](ctx, c, http.MethodGet, endpoint, nil, http.StatusOK)
		if err == nil {
			return nil
		}
		if retryable(ctx, err) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = constants.BackendRetryInitialInterval
	policy.MaxInterval = constants.BackendRetryMaxInterval
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, constants.BackendMaxRetries), ctx)

	notify := func(err error, wait time.Duration) {
		logging.Debug().Err(err).Str("endpoint", endpoint).Dur("wait", wait).Msg("retrying backend request")
	}
	if err := backoff.RetryNotify(operation, retry, notify); err != nil {
		return nil, err
	}
	return env, nil
}

// doPostJSON performs a POST request with a JSON body.
func doPostJSON[T any](ctx context.Context, c *Client, endpoint string, requestBody any) (*Envelope[T], error) {
	return doRequestJSON[T](ctx, c, http.MethodPost, endpoint, requestBody, http.StatusOK, http.StatusCreated)
}

// doPutJSON performs a PUT request with a JSON body.
func doPutJSON[T any](ctx context.Context, c *Client, endpoint string, requestBody any) (*Envelope[T], error) {
	return doRequestJSON[T](ctx, c, http.MethodPut, endpoint, requestBody, http.StatusOK)
}

// doRequestJSON performs one request and decodes the response envelope.
// It accepts one or more valid status codes. A failed envelope is returned as
// *APIError and an undecodable non-success answer as *StatusError.
func doRequestJSON[T any](ctx context.Context, c *Client, method, endpoint string, requestBody any, expectedStatuses ...int) (*Envelope[T], error) {
	target := c.resolveURL(endpoint)

	var bodyReader io.Reader
	if requestBody != nil {
		jsonBody, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.requestID != "" {
		req.Header.Set("X-Request-ID", c.requestID)
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req) //nolint:gosec // URL constructed from validated parsedURL via resolveURL
	if err != nil {
		observeRequest(method, endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()
	observeRequest(method, endpoint, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	c.captureResponse(endpoint, body)

	var env Envelope[T]
	decodeErr := json.Unmarshal(body, &env)

	if !slices.Contains(expectedStatuses, resp.StatusCode) {
		if decodeErr == nil && env.Error != nil {
			apiErr := *env.Error
			if apiErr.Code == 0 {
				apiErr.Code = resp.StatusCode
			}
			return nil, &apiErr
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", decodeErr)
	}
	if !env.Success {
		if env.Error != nil {
			return nil, env.Error
		}
		return nil, &APIError{Code: resp.StatusCode, Message: "request was not successful"}
	}

	return &env, nil
}

// retryable reports whether a failed request may succeed when repeated.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return StatusCode(err) >= http.StatusInternalServerError
}

// truncateBody limits the size of error bodies kept in errors.
func truncateBody(body []byte) string {
	const maxErrorBodyLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodyLen {
		return s[:maxErrorBodyLen] + "..."
	}
	return s
}

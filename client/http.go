package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"saythenumber/failure"
	"saythenumber/shared/types"
)

// maxBodyBytes caps how much of a response body is read
const maxBodyBytes = 1 << 20

// doJSONRequest performs a request against the conversion service and decodes the envelope.
// Errors are failure package variants, or wrap failure.ErrMalformedEnvelope for an
// undecodable 2xx body.
func (c *ConversionClient) doJSONRequest(ctx context.Context, method, path string, query url.Values, payload interface{}) (*types.Envelope, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, &failure.InternalError{Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &failure.InternalError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &failure.InternalError{Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	c.logger.Debug("Sending conversion request", zap.String("method", method), zap.String("url", target))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &failure.NoResponseError{Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &failure.NoResponseError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env types.Envelope
		// A non-JSON error body still yields a ResponseError, just without a message.
		_ = json.Unmarshal(bodyBytes, &env)
		c.logger.Debug("Conversion service rejected request",
			zap.Int("status", resp.StatusCode), zap.String("message", env.Message))
		return nil, &failure.ResponseError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	var env types.Envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w: %v", failure.ErrMalformedEnvelope, err)
	}
	return &env, nil
}

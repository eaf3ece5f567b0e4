package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apierrors "academy/internal/errors"
)

const maxErrorBody = 64 << 10

// fetch calls the API and decodes the answer into a fresh T. Any failure other
// than context cancellation is answered by fallback, which marks the client
// degraded. A nil fallback returns the error.
func fetch[T any](ctx context.Context, c *Client, method, path string, body interface{}, fallback func() (T, error)) (T, error) {
	var out T
	err := c.do(ctx, method, path, body, &out)
	if err == nil {
		c.markLive()
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		var zero T
		return zero, ctxErr
	}
	if fallback == nil {
		var zero T
		return zero, err
	}
	c.markDegraded(method+" "+path, err)
	return fallback()
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if state, ok := c.session.Load(); ok {
		req.Header.Set("Authorization", "Bearer "+state.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var payload apierrors.ErrorResponse
		if json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&payload) == nil {
			statusErr.Message = payload.Error
			statusErr.Code = payload.Code
		}
		if statusErr.IsAuthError() {
			c.clearSession()
		}
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

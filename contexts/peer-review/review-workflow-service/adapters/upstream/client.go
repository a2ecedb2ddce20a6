package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
)

const DefaultTimeout = 10 * time.Second

// Config describes one collaborator service.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type client struct {
	service    string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func newClient(service string, cfg Config) client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return client{
		service:    service,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

// statusError is a non-2xx answer from a collaborator.
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// do sends one bearer-authenticated JSON request. A 404 is reported through
// the returned status code with a nil error so callers can map absence.
func (c client) do(
	ctx context.Context,
	method string,
	path string,
	authToken string,
	query url.Values,
	body any,
	out any,
) (int, error) {
	if c.baseURL == "" {
		return 0, domainerrors.Upstream(c.service, fmt.Errorf("base url is not configured"))
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, endpoint, reader)
	if err != nil {
		return 0, domainerrors.Upstream(c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := strings.TrimSpace(authToken); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed",
			"event", "review_workflow_upstream_request_failed",
			"module", "peer-review/review-workflow-service",
			"layer", "adapter",
			"service", c.service,
			"method", method,
			"path", path,
			"error", err.Error(),
		)
		return 0, domainerrors.Upstream(c.service, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream request completed",
		"event", "review_workflow_upstream_request_completed",
		"module", "peer-review/review-workflow-service",
		"layer", "adapter",
		"service", c.service,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, domainerrors.Upstream(c.service, &statusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		})
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, domainerrors.Upstream(c.service, fmt.Errorf("decode response: %w", err))
	}
	return resp.StatusCode, nil
}

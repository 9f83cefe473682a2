package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elmanelman/judge-submit/config"
	"go.uber.org/zap"
)

// Client talks to the judging service. It never retries.
type Client struct {
	logger *zap.Logger
	client *http.Client

	baseURL      string
	judgePath    string
	registerPath string
}

func NewClient(cfg config.JudgeConfig, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	return &Client{
		logger:       logger,
		client:       &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Millisecond},
		baseURL:      cfg.BaseURL,
		judgePath:    cfg.JudgePath,
		registerPath: cfg.RegisterPath,
	}, nil
}

// JudgeURL is the fixed endpoint submissions are posted to.
func (c *Client) JudgeURL() string {
	return joinURL(c.baseURL, c.judgePath)
}

// Judge posts one submission and returns the parsed verdict. Failures are
// *TransportError or *MalformedResponseError.
func (c *Client) Judge(ctx context.Context, req SubmissionRequest) (*JudgeResult, error) {
	body, status, err := c.postJSON(ctx, c.judgePath, req)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Status  *string `json:"status"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &MalformedResponseError{StatusCode: status, Err: err}
	}
	if parsed.Status == nil {
		return nil, &MalformedResponseError{StatusCode: status, Err: errors.New("missing status field")}
	}

	result := &JudgeResult{Status: *parsed.Status}
	if parsed.Message != nil {
		result.Message = *parsed.Message
	}
	return result, nil
}

func (c *Client) Register(ctx context.Context, req RegistrationRequest) (*Visitor, error) {
	body, status, err := c.postJSON(ctx, c.registerPath, req)
	if err != nil {
		return nil, err
	}

	var visitor Visitor
	if err := json.Unmarshal(body, &visitor); err != nil {
		return nil, &MalformedResponseError{StatusCode: status, Err: err}
	}
	return &visitor, nil
}

// Ping calls the service root and returns its welcome message.
func (c *Client) Ping(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(c.baseURL, "/"), nil)
	if err != nil {
		return "", fmt.Errorf("build ping request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	body, status, err := c.do(httpReq)
	if err != nil {
		return "", err
	}

	var parsed welcomeBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &MalformedResponseError{StatusCode: status, Err: err}
	}
	return parsed.Message, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(c.baseURL, path), bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	return c.do(httpReq)
}

func (c *Client) do(httpReq *http.Request) ([]byte, int, error) {
	started := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn(
			"judge request failed",
			zap.String("url", httpReq.URL.String()),
			zap.Error(err),
		)
		return nil, 0, &TransportError{Detail: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if !successStatus(resp.StatusCode) {
			return nil, resp.StatusCode, &TransportError{
				StatusCode: resp.StatusCode,
				Detail:     unknownErrorDetail,
				Err:        err,
			}
		}
		return nil, resp.StatusCode, &TransportError{Detail: err.Error(), Err: err}
	}

	c.logger.Debug(
		"judge response received",
		zap.String("url", httpReq.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if !successStatus(resp.StatusCode) {
		return nil, resp.StatusCode, &TransportError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(body),
		}
	}
	return body, resp.StatusCode, nil
}

func successStatus(code int) bool {
	return code >= 200 && code <= 299
}

package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-ID"

type BaseClient struct {
	baseURL string
	client  *http.Client
	headers map[string]string
	metrics MetricsCollector
}

func NewBaseClient(baseURL string) *BaseClient {
	return &BaseClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: make(map[string]string),
		metrics: &NoOpMetricsCollector{},
	}
}

func (c *BaseClient) BaseURL() string {
	return c.baseURL
}

func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *BaseClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetHTTPClient swaps the transport, mostly for tests.
func (c *BaseClient) SetHTTPClient(client *http.Client) {
	c.client = client
}

func (c *BaseClient) SetMetrics(metrics MetricsCollector) {
	if metrics == nil {
		metrics = &NoOpMetricsCollector{}
	}
	c.metrics = metrics
}

// MakeRequest sends the request and returns the raw body of a 2xx response.
// Any other status is returned as *APIError. route is a path template whose
// %s verbs are filled with the path-escaped params; metrics are labelled by
// the template so ids never become series.
func (c *BaseClient) MakeRequest(ctx context.Context, method, route string, params []string, body io.Reader, contentType string) ([]byte, error) {
	endpoint := resolveRoute(route, params)
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordRequest(method, route, 0, time.Since(start))
		log.Debug().Err(err).Str("request_id", requestID).Str("method", method).Str("endpoint", endpoint).Msg("backend request failed")
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.RecordRequest(method, route, resp.StatusCode, time.Since(start))

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, responseBody)
	}

	return responseBody, nil
}

func (c *BaseClient) Get(ctx context.Context, route string, params ...string) ([]byte, error) {
	return c.MakeRequest(ctx, http.MethodGet, route, params, nil, "")
}

func (c *BaseClient) Post(ctx context.Context, route string, body io.Reader, contentType string) ([]byte, error) {
	return c.MakeRequest(ctx, http.MethodPost, route, nil, body, contentType)
}

func resolveRoute(route string, params []string) string {
	if len(params) == 0 {
		return route
	}
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = url.PathEscape(p)
	}
	return fmt.Sprintf(route, args...)
}

// PostJSON marshals payload and posts it as application/json.
func (c *BaseClient) PostJSON(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.Post(ctx, endpoint, bytes.NewReader(data), "application/json")
}

// FormField is one text part of a multipart body. Order is preserved.
type FormField struct {
	Name  string
	Value string
}

// FormFile is one binary part of a multipart body.
type FormFile struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
}

// PostMultipart posts text fields followed by optional files as multipart/form-data.
func (c *BaseClient) PostMultipart(ctx context.Context, endpoint string, fields []FormField, files ...FormFile) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, field := range fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", field.Name, err)
		}
	}

	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.FieldName, file.FileName))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file %s: %w", file.FieldName, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, fmt.Errorf("failed to write form file %s: %w", file.FieldName, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return c.Post(ctx, endpoint, &buf, writer.FormDataContentType())
}

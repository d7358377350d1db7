// Package eventapi is the client for the remote ticketing API: it reads the
// visible intake form fields of an event and uploads label images through
// presigned URLs.
package eventapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ticketing-console/labeldesigner/internal/config"
	"github.com/ticketing-console/labeldesigner/internal/layout"
)

// Client defines the remote API operations used by the designer.
type Client interface {
	// VisibleFields fetches the dynamic fields an event exposes for labels.
	VisibleFields(ctx context.Context, eventID string) ([]layout.VisibleField, error)

	// Upload stores a file through the presigned-URL flow and returns its final URL.
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// APIError is a failed call to the remote API: either a non-2xx response
// or, with Status 0, a transport failure carried in Err.
type APIError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	if e.Status == 0 && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPClient creates a client for the configured ticketing API.
func NewHTTPClient(cfg *config.Config, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.EventAPIURL, "/"),
		token:   cfg.EventAPIToken,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

type visibleFieldsResponse struct {
	Data []layout.VisibleField `json:"data"`
}

// VisibleFields fetches the visible fields of an event.
func (c *HTTPClient) VisibleFields(ctx context.Context, eventID string) ([]layout.VisibleField, error) {
	endpoint := c.baseURL + "/events/" + url.PathEscape(eventID) + "/visible-fields"

	var out visibleFieldsResponse
	if err := c.doJSON(ctx, "visible fields", http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []layout.VisibleField{}
	}

	c.logger.Debug("Fetched visible fields",
		zap.String("event_id", eventID),
		zap.Int("count", len(out.Data)),
	)
	return out.Data, nil
}

type presignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type presignResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
}

// Upload requests a presigned URL, PUTs the raw bytes to it and returns
// the final asset URL.
func (c *HTTPClient) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	var presign presignResponse
	err := c.doJSON(ctx, "presign upload", http.MethodPost, c.baseURL+"/uploads/presign",
		presignRequest{Filename: filename, ContentType: contentType}, &presign)
	if err != nil {
		return "", err
	}
	if presign.UploadURL == "" || presign.FileURL == "" {
		return "", fmt.Errorf("presign upload: response is missing upload or file URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presign.UploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to upload file", zap.String("filename", filename), zap.Error(err))
		return "", &APIError{Op: "upload file", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", readAPIError("upload file", resp)
	}

	c.logger.Info("Uploaded file",
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
		zap.String("url", presign.FileURL),
	)
	return presign.FileURL, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, op, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Remote API request failed", zap.String("op", op), zap.Error(err))
		return &APIError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readAPIError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

// readAPIError builds an APIError, keeping the backend's detail field when present.
func readAPIError(op string, resp *http.Response) error {
	apiErr := &APIError{Op: op, Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		apiErr.Detail = body.Detail
		if apiErr.Detail == "" {
			apiErr.Detail = body.Message
		}
	}
	return apiErr
}

// Package apiclient calls the EasyVents REST backend.
//
// Every call returns a Result. Transport failures are folded into the Result
// instead of being returned as errors, so form controllers only ever inspect
// one value.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultPostFailureMessage is shown when a POST cannot reach the backend.
	DefaultPostFailureMessage = "שגיאה בתקשורת עם השרת. אנא נסה שוב."
	// DefaultGetFailureMessage is shown when a GET cannot reach the backend.
	DefaultGetFailureMessage = "שגיאה בתקשורת עם השרת"

	tracerName = "github.com/louisbranch/easyvents/internal/auth/apiclient"
)

// Result is the uniform response shape for every backend call.
type Result struct {
	Success  bool
	Message  string
	User     json.RawMessage
	Redirect string
	// Status is the HTTP status code; zero when the request never completed.
	Status int
	// Error carries a diagnostic for transport failures.
	Error string
	// Fields holds every top-level key of the decoded body.
	Fields map[string]json.RawMessage
}

// Config configures a Client.
type Config struct {
	// BaseURL is the backend origin plus its API prefix, e.g. http://localhost:5000/api.
	BaseURL string
	// HTTPClient defaults to a client without a timeout.
	HTTPClient         *http.Client
	PostFailureMessage string
	GetFailureMessage  string
}

// Client issues single-attempt JSON calls against a fixed base URL.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	postFailure string
	getFailure  string
	tracer      trace.Tracer
}

// New builds a Client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	postFailure := strings.TrimSpace(cfg.PostFailureMessage)
	if postFailure == "" {
		postFailure = DefaultPostFailureMessage
	}
	getFailure := strings.TrimSpace(cfg.GetFailureMessage)
	if getFailure == "" {
		getFailure = DefaultGetFailureMessage
	}
	return &Client{
		baseURL:     baseURL,
		httpClient:  httpClient,
		postFailure: postFailure,
		getFailure:  getFailure,
		tracer:      otel.Tracer(tracerName),
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// Post sends body as JSON to endpoint.
func (c *Client) Post(ctx context.Context, endpoint string, body any) Result {
	payload, err := json.Marshal(body)
	if err != nil {
		return c.failure(http.MethodPost, endpoint, fmt.Errorf("encode request body: %w", err))
	}
	return c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
}

// Get fetches endpoint.
func (c *Client) Get(ctx context.Context, endpoint string) Result {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method string, endpoint string, body io.Reader) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := c.tracer.Start(ctx, "apiclient."+method+" "+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return c.spanFailure(span, method, endpoint, fmt.Errorf("build request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.spanFailure(span, method, endpoint, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.spanFailure(span, method, endpoint, fmt.Errorf("read response body: %w", err))
	}
	result, err := decodeResult(raw)
	if err != nil {
		return c.spanFailure(span, method, endpoint, err)
	}
	result.Status = resp.StatusCode
	if !result.Success {
		span.SetStatus(codes.Error, "backend reported failure")
	}
	return result
}

func (c *Client) spanFailure(span trace.Span, method string, endpoint string, err error) Result {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return c.failure(method, endpoint, err)
}

func (c *Client) failure(method string, endpoint string, err error) Result {
	log.Printf("api error method=%s endpoint=%s err=%v", method, endpoint, err)
	message := c.postFailure
	if method == http.MethodGet {
		message = c.getFailure
	}
	return Result{
		Success: false,
		Message: message,
		Error:   err.Error(),
	}
}

// decodeResult parses a JSON object body into a Result. Non-object bodies are
// treated as malformed.
func decodeResult(raw []byte) (Result, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Result{}, fmt.Errorf("decode response body: %w", err)
	}
	if fields == nil {
		return Result{}, errors.New("decode response body: expected a JSON object")
	}

	result := Result{Fields: fields}
	if value, ok := fields["success"]; ok {
		var success bool
		if err := json.Unmarshal(value, &success); err == nil {
			result.Success = success
		}
	}
	result.Message = stringField(fields, "message")
	result.Redirect = stringField(fields, "redirect")
	if value, ok := fields["user"]; ok && !isJSONNull(value) {
		result.User = value
	}
	return result, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	value, ok := fields[key]
	if !ok {
		return ""
	}
	var out string
	if err := json.Unmarshal(value, &out); err != nil {
		return ""
	}
	return out
}

func isJSONNull(value json.RawMessage) bool {
	return strings.TrimSpace(string(value)) == "null"
}

// internal/common/http/client.go
package http

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
	"strings"
	"time"

	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/logger"
	"ats-console/internal/common/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxErrorBody = 64 * 1024

// Client sends JSON and multipart requests to one REST backend and turns failures
// into StandardErrors.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Logger
	tracer     trace.Tracer
	// forwardCookies sends the browser's cookies, taken from the context, with
	// every backend call.
	forwardCookies bool
}

type Option func(*Client)

// WithCredentials makes the client forward the cookies stored in the request
// context by WithCookies.
func WithCredentials(enabled bool) Option {
	return func(c *Client) { c.forwardCookies = enabled }
}

type cookieKey struct{}

// WithCookies stores the browser's Cookie header for the backend calls made with
// ctx.
func WithCookies(ctx context.Context, header string) context.Context {
	if header == "" {
		return ctx
	}
	return context.WithValue(ctx, cookieKey{}, header)
}

func cookiesFrom(ctx context.Context) string {
	h, _ := ctx.Value(cookieKey{}).(string)
	return h
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.NewNoOpLogger(),
		tracer:     otel.Tracer("ats-console/backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Request describes one backend call. Name is a low-cardinality label used for
// metrics and spans; Path is appended to the base URL.
type Request struct {
	Name   string
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// File is one part of a multipart upload.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// Multipart is the form body of a multipart request.
type Multipart struct {
	Fields map[string][]string
	Files  []File
}

// DoJSON sends req with a JSON body (when Body is set) and decodes the response into
// out (when out is non-nil).
func (c *Client) DoJSON(ctx context.Context, req Request, out interface{}) error {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return apperrors.NewInternalError("failed to encode request", err)
		}
		body = bytes.NewReader(payload)
	}
	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	return c.do(ctx, req, body, contentType, out)
}

// DoMultipart sends form as multipart/form-data.
func (c *Client) DoMultipart(ctx context.Context, req Request, form Multipart, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, values := range form.Fields {
		for _, v := range values {
			if err := w.WriteField(name, v); err != nil {
				return apperrors.NewInternalError("failed to encode form field", err)
			}
		}
	}
	for _, f := range form.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.Field), escapeQuotes(f.Filename)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return apperrors.NewInternalError("failed to encode file", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return apperrors.NewInternalError("failed to encode file", err)
		}
	}
	if err := w.Close(); err != nil {
		return apperrors.NewInternalError("failed to encode form", err)
	}
	return c.do(ctx, req, &buf, w.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, req Request, body io.Reader, contentType string, out interface{}) error {
	endpoint := req.Method + " " + req.Path
	ctx, span := c.tracer.Start(ctx, "backend."+req.Name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.route", req.Path),
	)

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return apperrors.NewInternalError("failed to build request", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.forwardCookies {
		if cookies := cookiesFrom(ctx); cookies != "" {
			httpReq.Header.Set("Cookie", cookies)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	metrics.BackendRequestDuration.WithLabelValues(req.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequests.WithLabelValues(req.Name, metrics.OutcomeUnavailable).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "unavailable")
		c.logger.Warn("Backend request failed", map[string]interface{}{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		return apperrors.NewBackendUnavailableError(endpoint, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.BackendRequests.WithLabelValues(req.Name, metrics.OutcomeBackendErr).Inc()
		span.SetStatus(codes.Error, resp.Status)
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := ExtractMessage(raw)
		c.logger.Warn("Backend answered with error", map[string]interface{}{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
			"message":  msg,
		})
		if resp.StatusCode == http.StatusNotFound {
			return apperrors.NewNotFoundError(req.Name, msg)
		}
		return apperrors.NewBackendError(endpoint, resp.StatusCode, msg)
	}

	metrics.BackendRequests.WithLabelValues(req.Name, metrics.OutcomeOK).Inc()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewBackendUnavailableError(endpoint, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		span.RecordError(err)
		return apperrors.NewBackendError(endpoint, resp.StatusCode, "").WithMetadata("decode", err.Error())
	}
	return nil
}

// ExtractMessage pulls the human-readable message out of an error body shaped like
// {"message": "..."} or {"error": "..."}. Anything else yields "".
func ExtractMessage(raw []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, field := range []json.RawMessage{body.Message, body.Error} {
		var s string
		if len(field) > 0 && json.Unmarshal(field, &s) == nil && strings.TrimSpace(s) != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if len(field) > 0 && json.Unmarshal(field, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return ""
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

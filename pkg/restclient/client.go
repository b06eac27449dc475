// Package restclient talks to the JSON backend that the crud screens are
// bound to.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/crudkit/pkg/httpapi"
)

// APIError is a non-2xx response that carried an error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Meta    map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Code, e.Status)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL         *url.URL
	httpClient      *http.Client
	requestIDHeader string
	log             logrus.FieldLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRequestIDHeader sends a fresh uuid in header with every request.
func WithRequestIDHeader(header string) Option {
	return func(c *Client) { c.requestIDHeader = header }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, errors.Wrapf(err, "parse base url %q", baseURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid base url: %q", baseURL)
	}
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	c := &Client{
		baseURL:         u,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		requestIDHeader: "X-Request-ID",
		log:             l,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do sends body as JSON and decodes the data member of the response into out.
// Error responses become *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "json marshal request")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return errors.Wrap(err, "http request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	if c.requestIDHeader != "" {
		req.Header.Set(c.requestIDHeader, requestID)
	}

	log := c.log.WithFields(logrus.Fields{"method": method, "path": u.Path, "request-id": requestID})
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, u.Path)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "http read")
	}
	log.WithFields(logrus.Fields{"status": resp.StatusCode, "duration": time.Since(start)}).Debug("api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env httpapi.ErrorEnvelope
		if err := json.Unmarshal(raw, &env); err == nil && strings.TrimSpace(env.Code) != "" {
			return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message, Meta: env.Meta}
		}
		return errors.Errorf("http status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return errors.Wrap(err, "json unmarshal response")
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(envelope.Data, out), "json unmarshal data")
}

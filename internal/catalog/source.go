package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"finitefield.org/hanko-menu/internal/platform/observability"
)

const (
	defaultFetchTimeout = 8 * time.Second
	maxPayloadBytes     = 8 << 20
)

var (
	// ErrSourceUnavailable indicates the catalog endpoint could not be reached or answered with an error status.
	ErrSourceUnavailable = errors.New("catalog: source unavailable")
	// ErrMalformedPayload indicates the endpoint answered with a body that is not a catalog payload.
	ErrMalformedPayload = errors.New("catalog: malformed payload")
)

//go:embed demo/initial_data.json
var demoPayload []byte

// Payload is the body returned by the catalog endpoint.
type Payload struct {
	Products []Product `json:"products"`
	AddOns   []AddOn   `json:"addons"`
}

// Source fetches the raw catalog payload.
type Source interface {
	Fetch(ctx context.Context) (Payload, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (Payload, error)

// Fetch implements Source.
func (fn SourceFunc) Fetch(ctx context.Context) (Payload, error) {
	return fn(ctx)
}

// HTTPClient matches the subset of http.Client used by HTTPSource.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPSource fetches the catalog with a single GET request.
type HTTPSource struct {
	endpoint *url.URL
	client   HTTPClient
}

// NewHTTPSource constructs a Source for the given endpoint URL.
func NewHTTPSource(endpoint string, client HTTPClient) (*HTTPSource, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("catalog: endpoint is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("catalog: unsupported endpoint scheme %q", parsed.Scheme)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &HTTPSource{endpoint: parsed, client: client}, nil
}

// NewSource returns an HTTPSource for endpoint, or the embedded demo catalog when endpoint is empty.
func NewSource(endpoint string, timeout time.Duration) (Source, error) {
	if strings.TrimSpace(endpoint) == "" {
		return DemoSource(), nil
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return NewHTTPSource(endpoint, &http.Client{Timeout: timeout})
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) (payload Payload, err error) {
	ctx, finish := observability.StartClientSpan(ctx, "catalog.fetch",
		attribute.String("http.request.method", http.MethodGet),
		attribute.String("url.full", s.endpoint.String()),
	)
	defer func() { finish(err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint.String(), nil)
	if err != nil {
		return Payload{}, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Payload{}, fmt.Errorf("%w: status %d: %s", ErrSourceUnavailable, resp.StatusCode, drainError(resp.Body))
	}
	return DecodePayload(io.LimitReader(resp.Body, maxPayloadBytes))
}

// DecodePayload parses a catalog payload. A body without a products array is malformed;
// a missing addons array decodes as empty.
func DecodePayload(r io.Reader) (Payload, error) {
	var raw struct {
		Products *[]Product `json:"products"`
		AddOns   []AddOn    `json:"addons"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if raw.Products == nil {
		return Payload{}, fmt.Errorf("%w: products missing", ErrMalformedPayload)
	}
	addOns := raw.AddOns
	if addOns == nil {
		addOns = []AddOn{}
	}
	return Payload{Products: *raw.Products, AddOns: addOns}, nil
}

// DemoSource serves the embedded demo catalog.
func DemoSource() Source {
	return SourceFunc(func(ctx context.Context) (Payload, error) {
		if err := ctx.Err(); err != nil {
			return Payload{}, err
		}
		return DecodePayload(strings.NewReader(string(demoPayload)))
	})
}

// DemoPayload returns the raw embedded demo catalog body.
func DemoPayload() []byte {
	out := make([]byte, len(demoPayload))
	copy(out, demoPayload)
	return out
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/five82/kart/internal/logging"
)

// Fetcher defines the read operations kart needs from the catalog.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchProductDetail(ctx context.Context, id int) (ProductDetail, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the catalog's JSON endpoints.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	log       *logrus.Entry
}

const (
	// DefaultBaseURL is the catalog the app was built against.
	DefaultBaseURL = "https://meijer-maui-test-default-rtdb.firebaseio.com/"

	defaultUserAgent = "kart/0.1"
	requestTimeout   = 10 * time.Second
	maxBodyBytes     = 8 << 20
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger attaches a logger; requests are logged at debug level.
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Client) {
		if entry != nil {
			c.log = entry
		}
	}
}

// NewClient builds a Client rooted at baseURL. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("component", "catalog")
	return c, nil
}

// BaseURL returns the resolved catalog root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchProducts retrieves the full product list.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, unexpectedError(fmt.Errorf("client is nil"))
	}
	// The realtime database serialises sparse integer-keyed lists with null
	// holes, so decode through pointers and drop the gaps.
	var payload []*Product
	if err := c.get(ctx, "products.json", &payload); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(payload))
	for _, p := range payload {
		if p != nil {
			products = append(products, *p)
		}
	}
	return products, nil
}

// FetchProductDetail retrieves a single product. Ids without a resource fail
// with a KindStatus error whose code is 404.
func (c *Client) FetchProductDetail(ctx context.Context, id int) (ProductDetail, error) {
	if c == nil {
		return ProductDetail{}, unexpectedError(fmt.Errorf("client is nil"))
	}
	var payload *ProductDetail
	if err := c.get(ctx, "product-details/"+strconv.Itoa(id)+".json", &payload); err != nil {
		return ProductDetail{}, err
	}
	// A missing key is answered with 200 and a literal null.
	if payload == nil {
		return ProductDetail{}, statusError(http.StatusNotFound)
	}
	return *payload, nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	requestID := uuid.NewString()
	entry := c.log.WithFields(logrus.Fields{"url": reqURL.String(), "request_id": requestID})

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportError(fmt.Errorf("rate limit wait: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return unexpectedError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		entry.WithError(err).Warn("catalog request failed")
		return transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	entry = entry.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start).String()})
	if resp.StatusCode >= 400 {
		entry.Warn("catalog returned error status")
		return statusError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		entry.WithError(err).Warn("catalog response truncated")
		return transportError(err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		entry.WithError(err).Warn("catalog response undecodable")
		return unexpectedError(fmt.Errorf("decode response: %w", err))
	}
	entry.Debug("catalog request complete")
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	// Resources resolve relative to the base, so it must end in a slash.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"saythenumber/shared/types"
)

// Default endpoint paths of the conversion service
const (
	DefaultNowPath   = "/num_to_english"
	DefaultDelayPath = "/num_to_english"
)

// Options tunes a ConversionClient. Zero values pick the defaults.
type Options struct {
	NowPath   string
	DelayPath string
	// Timeout bounds a whole request; 0 disables it.
	Timeout time.Duration
	// RatePerMinute paces outgoing calls; 0 disables pacing.
	RatePerMinute int
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// ConversionClient talks to the remote number-to-words service
type ConversionClient struct {
	baseURL    string
	nowPath    string
	delayPath  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewConversionClient creates a client for the service rooted at baseURL
func NewConversionClient(baseURL string, opts Options) *ConversionClient {
	c := &ConversionClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		nowPath:    opts.NowPath,
		delayPath:  opts.DelayPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
	if c.nowPath == "" {
		c.nowPath = DefaultNowPath
	}
	if c.delayPath == "" {
		c.delayPath = DefaultDelayPath
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: opts.Timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if opts.RatePerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), 1)
	}
	return c
}

// ConvertNow asks for the word form with GET ?number=<literal>
func (c *ConversionClient) ConvertNow(ctx context.Context, literal string) (*types.Envelope, error) {
	query := url.Values{"number": []string{literal}}
	return c.doJSONRequest(ctx, http.MethodGet, c.nowPath, query, nil)
}

// ConvertWithDelay asks for the word form with POST {"number": literal} on the slow path
func (c *ConversionClient) ConvertWithDelay(ctx context.Context, literal string) (*types.Envelope, error) {
	payload := map[string]string{"number": literal}
	return c.doJSONRequest(ctx, http.MethodPost, c.delayPath, nil, payload)
}

// BaseURL returns the service root the client was built with
func (c *ConversionClient) BaseURL() string {
	return c.baseURL
}

package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// DefaultEndpoint is the public GeoNames web service.
const DefaultEndpoint = "http://api.geonames.org"

// DefaultTimeout bounds each web service request.
const DefaultTimeout = 5 * time.Second

// Client queries the GeoNames web service. A Client without a username
// never issues requests.
type Client struct {
	endpoint   string
	username   string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint overrides the service root, e.g. for tests.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) { c.endpoint = strings.TrimRight(endpoint, "/") }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithClientLogger sets the logger used for debug diagnostics.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a GeoNames client for the given account.
func NewClient(username string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		username:   username,
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Source = (*Client)(nil)

// lexical accepts a JSON string or number and keeps its text.
type lexical string

func (l *lexical) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	tok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	switch tok.Kind() {
	case '"', '0':
		*l = lexical(tok.String())
	case 'n':
		*l = ""
	default:
		return fmt.Errorf("unexpected JSON %v for a lexical value", tok.Kind())
	}
	return nil
}

type feature struct {
	GeonameID int64   `json:"geonameId"`
	Name      string  `json:"name"`
	Lat       lexical `json:"lat"`
	Lng       lexical `json:"lng"`
	FCL       string  `json:"fcl"`
	FCode     string  `json:"fcode"`
	Status    *struct {
		Message string `json:"message"`
		Value   int    `json:"value"`
	} `json:"status"`
}

type searchResponse struct {
	Geonames []feature `json:"geonames"`
	Status   *struct {
		Message string `json:"message"`
		Value   int    `json:"value"`
	} `json:"status"`
}

// Search returns the id of the first searchJSON hit for label.
func (c *Client) Search(ctx context.Context, label string) (int64, bool) {
	if c.username == "" {
		return 0, false
	}
	params := url.Values{
		"q":        {label},
		"maxRows":  {"1"},
		"username": {c.username},
		"style":    {"FULL"},
	}
	var resp searchResponse
	if err := c.get(ctx, "searchJSON", params, &resp); err != nil {
		c.logger.Debug("geonames search failed", "label", label, "error", err)
		return 0, false
	}
	if resp.Status != nil {
		c.logger.Debug("geonames search rejected", "label", label, "status", resp.Status.Message)
		return 0, false
	}
	if len(resp.Geonames) == 0 || resp.Geonames[0].GeonameID == 0 {
		return 0, false
	}
	return resp.Geonames[0].GeonameID, true
}

// Details fetches coordinates and feature codes with getJSON.
func (c *Client) Details(ctx context.Context, id int64) (Place, bool) {
	if c.username == "" {
		return Place{}, false
	}
	params := url.Values{
		"geonameId": {strconv.FormatInt(id, 10)},
		"username":  {c.username},
	}
	var f feature
	if err := c.get(ctx, "getJSON", params, &f); err != nil {
		c.logger.Debug("geonames details failed", "geoname_id", id, "error", err)
		return Place{}, false
	}
	if f.Status != nil {
		c.logger.Debug("geonames details rejected", "geoname_id", id, "status", f.Status.Message)
		return Place{}, false
	}
	return Place{
		GeonameID:    id,
		Name:         f.Name,
		Latitude:     string(f.Lat),
		Longitude:    string(f.Lng),
		FeatureClass: f.FCL,
		FeatureCode:  f.FCode,
	}, true
}

func (c *Client) get(ctx context.Context, method string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+method+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.UnmarshalRead(resp.Body, out, json.RejectUnknownMembers(false)); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

package prestashop

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnauthorized  = errors.New("unauthorized: check your API key")
	ErrNoStockRecord = errors.New("no stock record found for this product")
)

const DefaultTimeout = 15 * time.Second

// Credentials identify one shop webservice account.
type Credentials struct {
	ShopURL string
	APIKey  string
}

// Client talks to a PrestaShop webservice. All methods are safe for
// concurrent use.
type Client struct {
	apiBase  string
	shopBase string
	auth     string
	httpc    *http.Client
}

func NewClient(creds Credentials) *Client {
	return NewClientWithHTTP(creds, &http.Client{Timeout: DefaultTimeout})
}

func NewClientWithHTTP(creds Credentials, httpc *http.Client) *Client {
	apiBase := normalizeAPIBase(creds.ShopURL)
	return &Client{
		apiBase:  apiBase,
		shopBase: strings.TrimSuffix(apiBase, "/api"),
		auth:     "Basic " + base64.StdEncoding.EncodeToString([]byte(creds.APIKey+":")),
		httpc:    httpc,
	}
}

// normalizeAPIBase accepts a shop URL with or without the /api suffix and
// returns the webservice root.
func normalizeAPIBase(shopURL string) string {
	base := strings.TrimSuffix(strings.TrimSpace(shopURL), "/")
	if strings.HasSuffix(base, "/api") {
		return base
	}
	if i := strings.LastIndex(base, "/api/"); i >= 0 {
		return base[:i+len("/api")]
	}
	return base + "/api"
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.auth)
	return c.httpc.Do(req)
}

func authFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// ValidateCredentials probes the webservice root. It distinguishes bad
// credentials from an unreachable shop; any non-auth response means the key
// was accepted.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	resp, err := c.get(ctx, c.apiBase+"?output_format=JSON")
	if err != nil {
		return fmt.Errorf("reach shop: %w", err)
	}
	defer resp.Body.Close()
	if authFailure(resp.StatusCode) {
		return ErrUnauthorized
	}
	return nil
}

// ImageURL builds the digit-path product image URL PrestaShop serves
// directly, such as /img/p/1/3/0/5/1305.jpg for image 1305. Returns empty
// for a zero image id.
func (c *Client) ImageURL(imageID int64) string {
	if imageID <= 0 {
		return ""
	}
	digits := strconv.FormatInt(imageID, 10)
	var b strings.Builder
	b.WriteString(c.shopBase)
	b.WriteString("/img/p")
	for _, d := range digits {
		b.WriteByte('/')
		b.WriteRune(d)
	}
	b.WriteByte('/')
	b.WriteString(digits)
	b.WriteString(".jpg")
	return b.String()
}

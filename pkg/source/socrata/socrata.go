// Package socrata is a minimal client for SODA-style open-data resources:
// flat tabular datasets queried with a filter expression, field projection
// and limit/offset pagination. It is the only place that speaks the
// upstream provider's query language; adapters above it deal in domain
// records.
package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client issues read-only queries against one SODA host.
type Client struct {
	baseURL  string
	appToken string
	http     *http.Client
}

// NewClientParams contains configuration for creating a Client.
type NewClientParams struct {
	BaseURL  string
	AppToken string
	Timeout  time.Duration
}

// NewClient creates a client for the given host, e.g. "https://data.cityofnewyork.us".
func NewClient(params NewClientParams) *Client {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:  params.BaseURL,
		appToken: params.AppToken,
		http:     &http.Client{Timeout: timeout},
	}
}

// Query describes one request against a dataset resource.
type Query struct {
	Where  string
	Select string
	Order  string
	Limit  int
	Offset int
}

// Get fetches rows from the resource identified by dataset (a resource ID
// like "64uk-42ks") and decodes the JSON array response into dst, which
// must be a pointer to a slice of row structs.
func (c *Client) Get(ctx context.Context, dataset string, q Query, dst any) error {
	values := url.Values{}
	if q.Where != "" {
		values.Set("$where", q.Where)
	}
	if q.Select != "" {
		values.Set("$select", q.Select)
	}
	if q.Order != "" {
		values.Set("$order", q.Order)
	}
	if q.Limit > 0 {
		values.Set("$limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		values.Set("$offset", strconv.Itoa(q.Offset))
	}

	endpoint := fmt.Sprintf("%s/resource/%s.json?%s", c.baseURL, dataset, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch dataset %s: %w", dataset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("dataset %s returned status %d: %s", dataset, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode dataset %s response: %w", dataset, err)
	}
	return nil
}

// Number is a SODA numeric field. The API serves numbers as JSON strings
// ("units_res": "48"), occasionally as bare numbers, and sometimes with a
// decimal point on integer columns.
type Number string

// Int returns the value truncated to an int, or 0 when absent or unparseable.
func (n Number) Int() int {
	if n == "" {
		return 0
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// Int64 returns the value truncated to an int64, or 0 when absent or unparseable.
func (n Number) Int64() int64 {
	if n == "" {
		return 0
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

// UnmarshalJSON accepts both string-encoded and bare JSON numbers.
func (n *Number) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	if string(data) == "null" {
		*n = ""
		return nil
	}
	*n = Number(data)
	return nil
}

// Package registry fetches vehicle records from the external plate API.
package registry

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/CarlosDanielS3/despachazap-lambdas/internal/platestore"
)

// Client is a plate API client
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	token      string
}

// New returns a new Client
func New(base *url.URL, token string) *Client {
	return &Client{
		BaseURL:    base,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		token:      token,
	}
}

// Lookup fetches the registry document for a plate. The document is kept as
// raw JSON; the report layout picks fields out of it later.
func (c *Client) Lookup(plate string) (*platestore.Record, error) {

	p, err := url.Parse(fmt.Sprintf("/consulta/%s/%s", url.PathEscape(plate), url.PathEscape(c.token)))
	if err != nil {
		return nil, fmt.Errorf("could not form lookup URL: %v", err)
	}
	u := c.BaseURL.ResolveReference(p)

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not make request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not call plate API: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("plate API returned status %v", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read plate API response: %v", err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("plate API returned invalid JSON")
	}

	return &platestore.Record{Plate: plate, Doc: string(body)}, nil
}

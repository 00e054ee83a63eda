// Package weather talks to the external weather oracle. Lookups are
// best-effort: callers are expected to swallow any error and serve their
// response without the annotation.
package weather

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client posts coordinates to the oracle and reads back a temperature code.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates an oracle client. The timeout bounds the whole exchange
// (connect + read) so a stalled oracle cannot hold up a listing request.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type coordinates struct {
	XMLName   xml.Name `xml:"coordinates"`
	Latitude  float64  `xml:"latitude"`
	Longitude float64  `xml:"longitude"`
}

type report struct {
	XMLName     xml.Name `xml:"weather"`
	Temperature int      `xml:"temperature"`
}

// Lookup fetches the current temperature code for a coordinate pair. Any
// transport, status, or schema deviation comes back as an error.
func (c *Client) Lookup(ctx context.Context, latitude, longitude float64) (int, error) {
	body, err := xml.Marshal(coordinates{Latitude: latitude, Longitude: longitude})
	if err != nil {
		return 0, fmt.Errorf("encode coordinates: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("weather oracle: status %d: %s", resp.StatusCode, b)
	}

	var rep report
	if err := xml.NewDecoder(resp.Body).Decode(&rep); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	return rep.Temperature, nil
}

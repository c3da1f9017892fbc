package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ansel1/merry"
	"github.com/powerman/structlog"
	"github.com/temoto/robotstxt"
)

// Client issues blocking requests against the BLS servers with a fixed header set.
type Client struct {
	http      *http.Client
	userAgent string
	headers   map[string]string
	log       *structlog.Logger

	robotsMu sync.Mutex
	robots   map[string]*robotstxt.RobotsData
}

type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

func NewClient(c ClientConfig) *Client {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: c.Timeout},
		userAgent: c.UserAgent,
		headers:   c.Headers,
		log:       structlog.New(),
		robots:    make(map[string]*robotstxt.RobotsData),
	}
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, merry.Prepend(err, "create request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, merry.Wrap(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, merry.Prepend(err, "read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, merry.Errorf("%s %s: unexpected status %s", req.Method, req.URL, resp.Status).
			WithHTTPCode(resp.StatusCode)
	}
	return data, nil
}

// Get downloads u and returns the body.
func (c *Client) Get(ctx context.Context, u string) ([]byte, error) {
	c.log.Debug("download", "url", u)

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// PostJSON sends body as JSON to u and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, u string, body, out interface{}) error {
	js, err := json.Marshal(body)
	if err != nil {
		return merry.Prepend(err, "encode request")
	}

	c.log.Debug("post", "url", u)

	req, err := c.newRequest(ctx, http.MethodPost, u, bytes.NewReader(js))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return merry.Prepend(err, "decode response")
	}
	return nil
}

// Allowed reports whether robots.txt of the host permits fetching u. A missing
// or unreadable robots.txt allows everything.
func (c *Client) Allowed(ctx context.Context, u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	robotsURL := parsed.Scheme + "://" + parsed.Host + "/robots.txt"

	c.robotsMu.Lock()
	robots, ok := c.robots[robotsURL]
	c.robotsMu.Unlock()

	if !ok {
		robots = c.fetchRobots(ctx, robotsURL)
		c.robotsMu.Lock()
		c.robots[robotsURL] = robots
		c.robotsMu.Unlock()
	}
	if robots == nil {
		return true
	}
	return robots.TestAgent(parsed.Path, c.userAgent)
}

func (c *Client) fetchRobots(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := c.newRequest(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return robots
}

// Pause sleeps for d so we don't hammer the stats site. It returns early with
// the context error if ctx is done.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Package eksi is the HTTP client for the remote discussion site.
package eksi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eksi-rss/internal/model"
)

const defaultUserAgent = "eksi-rss/1.0 (+feed republisher)"

type Client struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

// NewClient creates a client for the site at baseURL. timeout bounds every
// fetch so a hung remote page cannot stall feed assembly.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://eksisozluk.com"
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// FetchPage retrieves one page, following redirects. It returns the raw body
// and the final URL after redirects.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (body, finalURL string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("eksi: %s status %d", pageURL, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	return string(b), resp.Request.URL.String(), nil
}

// ResourceURL is the landing URL for a subscription before pagination.
func (c *Client) ResourceURL(sub model.Subscription) string {
	switch sub.Kind {
	case model.KindSearchTerm:
		return c.baseURL + "/?q=" + url.QueryEscape(sub.Value)
	case model.KindTopicURL:
		if strings.HasPrefix(sub.Value, "http://") || strings.HasPrefix(sub.Value, "https://") {
			return sub.Value
		}
		return c.baseURL + "/" + sub.Value
	default:
		return c.baseURL + "/baslik/" + sub.TopicID
	}
}

// PageURL applies the current-day filter and page number to a topic URL.
func PageURL(topicURL string, day time.Time, page int) string {
	sep := "?"
	if strings.Contains(topicURL, "?") {
		sep = "&"
	}
	u := topicURL + sep + "day=" + day.Format("2006-01-02")
	if page > 1 {
		u += fmt.Sprintf("&p=%d", page)
	}
	return u
}

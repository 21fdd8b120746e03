package httpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client downloads documents over HTTP(S).
type Client struct {
	http *resty.Client
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	c := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Accept", "application/x-tmx+xml, application/xml, text/xml, */*")
	return &Client{http: c}
}

func (c *Client) Fetch(ctx context.Context, location string) ([]byte, error) {
	r, err := c.http.R().SetContext(ctx).Get(location)
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, fmt.Errorf("fetch %s: %s", location, r.Status())
	}
	return r.Body(), nil
}

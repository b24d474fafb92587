// Package whois provides WHOIS lookup functionality for the domain monitor application
package whois

import (
	"context"
	"fmt"
	"time"

	"github.com/likexian/whois"
	"github.com/sirupsen/logrus"
)

// Lookup is the interface consumed by the evaluation and web layers.
type Lookup interface {
	Lookup(ctx context.Context, domain string) (*Record, error)
}

// Client performs WHOIS queries against the registry servers.
type Client struct {
	timeout time.Duration
	log     *logrus.Logger
}

// NewClient creates a WHOIS client with a per-lookup timeout.
func NewClient(timeout time.Duration, log *logrus.Logger) *Client {
	return &Client{timeout: timeout, log: log}
}

// Lookup queries WHOIS for a domain and folds the response into a Record.
// A transport failure is terminal for the calling refresh cycle, so no
// retries are attempted here.
func (c *Client) Lookup(ctx context.Context, domain string) (*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	wc := whois.NewClient()
	wc.SetTimeout(c.timeout)

	type result struct {
		raw string
		err error
	}
	ch := make(chan result, 1)
	go func() {
		raw, err := wc.Whois(domain)
		ch <- result{raw, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("whois lookup for %s: %w", domain, ctx.Err())
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("whois lookup for %s: %w", domain, res.err)
		}
		rec := Parse(res.raw)
		c.log.Debugf("WHOIS response for %s contained %d fields", domain, rec.Len())
		return rec, nil
	}
}

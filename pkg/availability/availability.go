// Package availability checks whether a domain is registered at all
package availability

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

// Checker answers whether a domain appears unregistered, using a DNS SOA
// query as a cheap probe before any WHOIS traffic.
type Checker struct {
	timeout time.Duration
	log     *logrus.Logger
}

// New creates a DNS availability checker.
func New(timeout time.Duration, log *logrus.Logger) *Checker {
	return &Checker{timeout: timeout, log: log}
}

// IsAvailable does a DNS SOA lookup with a context timeout.
// Returns true if the domain is available (no SOA record found).
func (c *Checker) IsAvailable(ctx context.Context, domain string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return false, fmt.Errorf("failed to read DNS config: %w", err)
	}
	if len(conf.Servers) == 0 {
		return false, fmt.Errorf("no nameservers configured")
	}

	client := dns.Client{}
	msg := dns.Msg{}
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeSOA)

	resp, rtt, err := client.ExchangeContext(ctx, &msg, net.JoinHostPort(conf.Servers[0], conf.Port))
	if err != nil {
		return false, fmt.Errorf("DNS query failed: %w", err)
	}
	c.log.Debugf("SOA query for %s answered in %s", domain, rtt)

	// Domain is available if there's no SOA record
	return len(resp.Answer) == 0, nil
}

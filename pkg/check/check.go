// Package check evaluates a single domain into a status record
package check

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mallocator/domain-monitor/pkg/extract"
	"github.com/mallocator/domain-monitor/pkg/status"
	"github.com/mallocator/domain-monitor/pkg/whois"
)

// ErrNoExpirationDate is the per-domain error recorded when the WHOIS
// lookup succeeded but no recognized field yielded a parseable date.
const ErrNoExpirationDate = "Could not find expiration date in WHOIS data"

// Checker turns a fresh WHOIS lookup into a DomainStatus.
type Checker struct {
	whois whois.Lookup
	log   *logrus.Logger
	now   func() time.Time
}

// New creates a checker backed by the given WHOIS lookup.
func New(lookup whois.Lookup, log *logrus.Logger) *Checker {
	return &Checker{
		whois: lookup,
		log:   log,
		now:   time.Now,
	}
}

// CheckDomain queries WHOIS for a domain and computes its status. Lookup
// and extraction failures are terminal for this cycle and produce an error
// record rather than propagating; the caller continues with other domains.
func (c *Checker) CheckDomain(ctx context.Context, domain string, warningDays int) status.DomainStatus {
	rec, err := c.whois.Lookup(ctx, domain)
	if err != nil {
		c.log.Warnf("WHOIS lookup failed for %s: %v", domain, err)
		return status.DomainStatus{Domain: domain, Error: err.Error()}
	}

	exp, ok := extract.Expiration(rec)
	if !ok {
		c.log.Warnf("No expiration date found for %s in %d WHOIS fields", domain, rec.Len())
		return status.DomainStatus{Domain: domain, Error: ErrNoExpirationDate}
	}

	days := status.DaysUntil(exp, c.now())
	return status.DomainStatus{
		Domain:              domain,
		ExpirationDate:      &exp,
		DaysUntilExpiration: days,
		NeedsWarning:        days <= warningDays,
	}
}

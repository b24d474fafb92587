// Package status defines the per-domain status record and its cache store
package status

import (
	"math"
	"time"
)

// DomainStatus is the persisted result of evaluating one domain. A record
// carries either the successful expiration triple or an error message,
// never both.
type DomainStatus struct {
	// The domain name
	Domain string `json:"domain"`

	// Description copied from the current configuration at evaluation time
	Description string `json:"description,omitempty"`

	// When the domain expires; nil on failed evaluations
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`

	// Days until expiration, recomputed on every evaluation
	DaysUntilExpiration int `json:"daysUntilExpiration,omitempty"`

	// Whether the domain is inside the warning window
	NeedsWarning bool `json:"needsWarning,omitempty"`

	// Error message when the lookup or extraction failed
	Error string `json:"error,omitempty"`
}

// Failed reports whether this record represents a failed evaluation.
func (s *DomainStatus) Failed() bool {
	return s.Error != ""
}

// HasExpiration reports whether an expiration date is known.
func (s *DomainStatus) HasExpiration() bool {
	return s.ExpirationDate != nil
}

// DaysUntil returns the number of days from now until exp, rounded up so a
// domain expiring later today still counts as one day out.
func DaysUntil(exp, now time.Time) int {
	return int(math.Ceil(exp.Sub(now).Hours() / 24))
}

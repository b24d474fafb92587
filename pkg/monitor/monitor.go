// Package monitor drives domain-status refresh cycles. It decides per
// domain whether cached expiration data can be trusted or a fresh WHOIS
// lookup is needed, recomputes day-counts, and fires expiry notifications.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mallocator/domain-monitor/pkg/config"
	"github.com/mallocator/domain-monitor/pkg/status"
)

// Evaluator performs a fresh WHOIS evaluation of one domain.
type Evaluator interface {
	CheckDomain(ctx context.Context, domain string, warningDays int) status.DomainStatus
}

// Notifier delivers expiry warnings.
type Notifier interface {
	WarnExpiry(st status.DomainStatus)
}

// Cache persists the full status set between cycles.
type Cache interface {
	Load() []status.DomainStatus
	Save(statuses []status.DomainStatus)
}

// Monitor coordinates refresh and recalculation cycles. The mutex keeps at
// most one cycle in flight, since the cache write at the end of a cycle is
// a full replacement and overlapping cycles would lose updates.
type Monitor struct {
	checker  Evaluator
	cache    Cache
	notifier Notifier
	log      *logrus.Logger
	mu       sync.Mutex
	now      func() time.Time
}

// New creates a monitor over the given collaborators.
func New(checker Evaluator, cache Cache, notifier Notifier, log *logrus.Logger) *Monitor {
	return &Monitor{
		checker:  checker,
		cache:    cache,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Refresh runs a full refresh cycle over the configured domains. Domains
// are processed sequentially to avoid WHOIS rate-limit bursts; one domain's
// failure never prevents evaluation of the others. The resulting set is
// written back to the cache wholesale, one record per configured domain in
// configuration order.
func (m *Monitor) Refresh(ctx context.Context, cfg *config.AppConfig, specs []config.DomainSpec) []status.DomainStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Infof("Starting domain check for %d domains", len(specs))
	prior := byDomain(m.cache.Load())

	results := make([]status.DomainStatus, 0, len(specs))
	for _, spec := range specs {
		st := m.refreshDomain(ctx, cfg, spec, prior[spec.Domain])
		if st.Failed() {
			m.log.Warnf("Error checking %s: %s", st.Domain, st.Error)
		} else {
			m.log.Infof("%s: %d days until expiration", st.Domain, st.DaysUntilExpiration)
		}
		results = append(results, st)
	}

	m.cache.Save(results)
	return results
}

// refreshDomain applies the cache-trust policy for one domain. The cache is
// only trusted when it holds a successful record whose recomputed day-count
// leaves the domain well clear of the warning window (more than twice the
// configured threshold); anything closer gets a fresh lookup, since WHOIS
// drift starts to matter as expiry approaches.
func (m *Monitor) refreshDomain(ctx context.Context, cfg *config.AppConfig, spec config.DomainSpec, prior *status.DomainStatus) status.DomainStatus {
	if cfg.UseCache && prior != nil && !prior.Failed() && prior.HasExpiration() {
		days := status.DaysUntil(*prior.ExpirationDate, m.now())
		if days > 2*cfg.WarningDays {
			m.log.Debugf("Trusting cached expiration for %s, %d days out", spec.Domain, days)
			st := status.DomainStatus{
				Domain:              spec.Domain,
				Description:         spec.Description,
				ExpirationDate:      prior.ExpirationDate,
				DaysUntilExpiration: days,
				NeedsWarning:        days <= cfg.WarningDays,
			}
			m.notifyOnTransition(st, prior)
			return st
		}
		m.log.Debugf("Cached expiration for %s too close to rely on (%d days), re-querying", spec.Domain, days)
	}

	st := m.checker.CheckDomain(ctx, spec.Domain, cfg.WarningDays)
	st.Description = spec.Description
	m.notifyFresh(st)
	return st
}

// Recalculate recomputes day-counts and warning flags for the entire cached
// set using only wall-clock time, so counts stay accurate between full WHOIS
// refreshes. Records with an existing error pass through unchanged; the
// description is refreshed from the current configuration.
func (m *Monitor) Recalculate(cfg *config.AppConfig, specs []config.DomainSpec) []status.DomainStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Infof("Recalculating day counts from cached status")

	descriptions := make(map[string]string, len(specs))
	for _, spec := range specs {
		descriptions[spec.Domain] = spec.Description
	}

	cached := m.cache.Load()
	results := make([]status.DomainStatus, 0, len(cached))
	for _, prior := range cached {
		if prior.Failed() || !prior.HasExpiration() {
			results = append(results, prior)
			continue
		}

		st := prior
		if desc, ok := descriptions[prior.Domain]; ok {
			st.Description = desc
		}
		st.DaysUntilExpiration = status.DaysUntil(*prior.ExpirationDate, m.now())
		st.NeedsWarning = st.DaysUntilExpiration <= cfg.WarningDays

		m.notifyOnTransition(st, &prior)
		results = append(results, st)
	}

	m.cache.Save(results)
	return results
}

// notifyFresh is the gate for the full-lookup path: warn whenever the
// domain is inside the warning window.
func (m *Monitor) notifyFresh(st status.DomainStatus) {
	if st.Failed() || !st.NeedsWarning {
		return
	}
	m.notifier.WarnExpiry(st)
}

// notifyOnTransition is the gate for the recalculation paths: warn only
// when the domain newly enters the warning window, so a domain that sits
// under the threshold does not re-alert every cycle until it is re-queried.
func (m *Monitor) notifyOnTransition(st status.DomainStatus, prior *status.DomainStatus) {
	if st.Failed() || !st.NeedsWarning {
		return
	}
	if prior == nil || !prior.NeedsWarning {
		m.notifier.WarnExpiry(st)
	}
}

// byDomain indexes a status set by domain name.
func byDomain(statuses []status.DomainStatus) map[string]*status.DomainStatus {
	m := make(map[string]*status.DomainStatus, len(statuses))
	for i := range statuses {
		m[statuses[i].Domain] = &statuses[i]
	}
	return m
}

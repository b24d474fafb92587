package check

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mallocator/domain-monitor/pkg/logger"
	"github.com/mallocator/domain-monitor/pkg/whois"
)

// fakeLookup returns a canned record or error instead of querying WHOIS
type fakeLookup struct {
	rec *whois.Record
	err error
}

func (f *fakeLookup) Lookup(ctx context.Context, domain string) (*whois.Record, error) {
	return f.rec, f.err
}

func newChecker(lookup whois.Lookup, now time.Time) *Checker {
	c := New(lookup, logger.New())
	c.now = func() time.Time { return now }
	return c
}

func TestCheckDomainSuccess(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := whois.NewRecord()
	rec.Set("registryExpiryDate", "2026-03-01T00:00:00Z")

	checker := newChecker(&fakeLookup{rec: rec}, now)
	st := checker.CheckDomain(context.Background(), "example.com", 30)

	if st.Failed() {
		t.Fatalf("CheckDomain returned error %q, want success", st.Error)
	}
	if st.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", st.Domain)
	}
	wantExp := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if st.ExpirationDate == nil || !st.ExpirationDate.Equal(wantExp) {
		t.Errorf("ExpirationDate = %v, want %s", st.ExpirationDate, wantExp)
	}
	if st.DaysUntilExpiration != 59 {
		t.Errorf("DaysUntilExpiration = %d, want 59", st.DaysUntilExpiration)
	}
	if st.NeedsWarning {
		t.Errorf("NeedsWarning = true, want false at 59 days with threshold 30")
	}
}

func TestCheckDomainWarningThreshold(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := whois.NewRecord()
	rec.Set("expirationDate", "2026-01-21")

	checker := newChecker(&fakeLookup{rec: rec}, now)

	// 20 days out: inside a 30-day window, outside a 10-day window
	st := checker.CheckDomain(context.Background(), "example.com", 30)
	if !st.NeedsWarning {
		t.Errorf("NeedsWarning = false at 20 days with threshold 30, want true")
	}

	st = checker.CheckDomain(context.Background(), "example.com", 10)
	if st.NeedsWarning {
		t.Errorf("NeedsWarning = true at 20 days with threshold 10, want false")
	}

	// The boundary itself counts as warning
	st = checker.CheckDomain(context.Background(), "example.com", 20)
	if !st.NeedsWarning {
		t.Errorf("NeedsWarning = false at exactly the threshold, want true")
	}
}

func TestCheckDomainLookupError(t *testing.T) {
	checker := newChecker(&fakeLookup{err: errors.New("connection refused")}, time.Now())
	st := checker.CheckDomain(context.Background(), "b.com", 30)

	if !st.Failed() {
		t.Fatalf("CheckDomain returned success, want error record")
	}
	if st.Domain != "b.com" {
		t.Errorf("Domain = %q, want b.com", st.Domain)
	}
	if st.Error != "connection refused" {
		t.Errorf("Error = %q, want connection refused", st.Error)
	}
	if st.HasExpiration() {
		t.Errorf("Error record carries an expiration date, want none")
	}
	if st.NeedsWarning {
		t.Errorf("Error record has NeedsWarning set, want false")
	}
}

func TestCheckDomainNoExpirationDate(t *testing.T) {
	rec := whois.NewRecord()
	rec.Set("domainName", "example.com")

	checker := newChecker(&fakeLookup{rec: rec}, time.Now())
	st := checker.CheckDomain(context.Background(), "example.com", 30)

	if !st.Failed() {
		t.Fatalf("CheckDomain returned success, want error record")
	}
	if st.Error != ErrNoExpirationDate {
		t.Errorf("Error = %q, want %q", st.Error, ErrNoExpirationDate)
	}
	if st.HasExpiration() {
		t.Errorf("Error record carries an expiration date, want none")
	}
}

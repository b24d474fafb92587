// Package extract locates domain expiration dates in heterogeneous WHOIS data
package extract

import (
	"regexp"
	"strings"
	"time"

	whoisparser "github.com/likexian/whois-parser"

	"github.com/mallocator/domain-monitor/pkg/whois"
)

// directFields is the priority-ordered list of well-known expiration field
// names. The first present field with a parseable value wins.
var directFields = []string{
	"expiresOn",
	"expirationDate",
	"registryExpiryDate",
	"registrarRegistrationExpirationDate",
	"expires",
	"paid-till",
	"expiry",
}

// expiryName matches field names that look expiration-related.
var expiryName = regexp.MustCompile(`(?i)(expir|renew|registr.*expir|expir.*date|valid.*until)`)

// dateLike matches ISO-style dates (2026-03-01, 2026/3/1) and
// month-name dates (Mar 1 2026) embedded in longer field values.
var dateLike = regexp.MustCompile(`\d{4}[-/]\d{1,2}[-/]\d{1,2}|[A-Za-z]{3} \d{1,2} \d{4}`)

// strategy is one way of finding an expiration date in a record.
type strategy func(*whois.Record) (time.Time, bool)

var strategies = []strategy{
	matchDirectField,
	matchFieldName,
	scanFieldValue,
	parseStructured,
}

// Expiration searches a WHOIS record for the domain's expiration date.
// Strategies run in strict priority order and the first hit wins; a field
// whose value fails date parsing is skipped, not treated as an error.
// The second return is false when no strategy yields a parseable date,
// which callers must treat as a terminal per-domain outcome.
func Expiration(rec *whois.Record) (time.Time, bool) {
	for _, s := range strategies {
		if t, ok := s(rec); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// matchDirectField probes the fixed list of known expiration field names.
func matchDirectField(rec *whois.Record) (time.Time, bool) {
	for _, field := range directFields {
		if v, ok := rec.Get(field); ok {
			if t, ok := parseDate(v); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// matchFieldName scans all field names for an expiration-looking name.
func matchFieldName(rec *whois.Record) (time.Time, bool) {
	for _, key := range rec.Keys() {
		if !expiryName.MatchString(key) {
			continue
		}
		if v, ok := rec.Get(key); ok {
			if t, ok := parseDate(v); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// scanFieldValue looks for a date-like substring inside values of fields
// whose name mentions expiration or renewal. Last-ditch hardening for
// registrars that bury the date in prose.
func scanFieldValue(rec *whois.Record) (time.Time, bool) {
	for _, key := range rec.Keys() {
		lower := strings.ToLower(key)
		if !strings.Contains(lower, "expir") && !strings.Contains(lower, "renew") {
			continue
		}
		v, ok := rec.Get(key)
		if !ok {
			continue
		}
		if m := dateLike.FindString(v); m != "" {
			if t, ok := parseDate(m); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// parseStructured runs the raw response through whois-parser, which knows
// many registrar-specific layouts the line folding misses.
func parseStructured(rec *whois.Record) (time.Time, bool) {
	raw := rec.Raw()
	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		return time.Time{}, false
	}
	return parseDate(parsed.Domain.ExpirationDate)
}

// dateFormats covers the date shapes seen across registries.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02 15:04:05",
	"2006.01.02",
	"02-Jan-2006",
	"Jan 2 2006",
	"Jan 02 2006",
}

// parseDate tries each known format against a trimmed value.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

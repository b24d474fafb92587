package extract

import (
	"testing"
	"time"

	"github.com/mallocator/domain-monitor/pkg/whois"
)

func record(pairs ...string) *whois.Record {
	rec := whois.NewRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Set(pairs[i], pairs[i+1])
	}
	return rec
}

func TestExpirationDirectField(t *testing.T) {
	rec := record("registryExpiryDate", "2026-03-01T00:00:00Z")

	got, ok := Expiration(rec)
	if !ok {
		t.Fatalf("Expiration returned not found, want a date")
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expiration = %s, want %s", got, want)
	}
}

// A direct-list field must win over any other expiration-looking field,
// regardless of where it appears in the record.
func TestExpirationDirectFieldHasPriority(t *testing.T) {
	rec := record(
		"renewalDate", "2030-01-01",
		"registryExpiryDate", "2026-03-01T00:00:00Z",
	)

	got, ok := Expiration(rec)
	if !ok {
		t.Fatalf("Expiration returned not found, want a date")
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expiration = %s, want the direct-match date %s", got, want)
	}
}

func TestExpirationDirectFieldOrder(t *testing.T) {
	// expiresOn outranks expiry within the direct list
	rec := record(
		"expiry", "2031-01-01",
		"expiresOn", "2026-06-15",
	)

	got, ok := Expiration(rec)
	if !ok {
		t.Fatalf("Expiration returned not found, want a date")
	}
	want := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expiration = %s, want %s from expiresOn", got, want)
	}
}

func TestExpirationFieldNameRegex(t *testing.T) {
	tests := []struct {
		field string
		value string
	}{
		{"renewalDate", "2027-08-01"},
		{"validUntil", "2027-08-01"},
		{"domainExpireDate", "2027-08-01"},
	}
	for _, tc := range tests {
		rec := record("registrar", "Example Inc.", tc.field, tc.value)
		got, ok := Expiration(rec)
		if !ok {
			t.Errorf("Expiration(%s) returned not found, want a date", tc.field)
			continue
		}
		want := time.Date(2027, 8, 1, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("Expiration(%s) = %s, want %s", tc.field, got, want)
		}
	}
}

func TestExpirationSubstringScan(t *testing.T) {
	rec := record("expirationNotice", "This registration expires 2026-11-05 unless renewed.")

	got, ok := Expiration(rec)
	if !ok {
		t.Fatalf("Expiration returned not found, want a date")
	}
	want := time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expiration = %s, want %s", got, want)
	}
}

// An unparseable value in a higher-priority field is skipped, not an
// error; the search continues down the chain.
func TestExpirationSkipsUnparseableValues(t *testing.T) {
	rec := record(
		"expirationDate", "pending renewal",
		"registryExpiryDate", "2026-03-01T00:00:00Z",
	)

	got, ok := Expiration(rec)
	if !ok {
		t.Fatalf("Expiration returned not found, want a date")
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expiration = %s, want %s", got, want)
	}
}

func TestExpirationNotFound(t *testing.T) {
	tests := []struct {
		name string
		rec  *whois.Record
	}{
		{"empty record", record()},
		{"no expiry-like fields", record("domainName", "example.com", "registrar", "Example Inc.")},
		{"expiry field with no parseable date", record("expires", "never")},
	}
	for _, tc := range tests {
		if _, ok := Expiration(tc.rec); ok {
			t.Errorf("Expiration(%s) found a date, want not found", tc.name)
		}
	}
}

func TestParseDateFormats(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2026-03-01T00:00:00Z", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2026-03-01 12:30:00", time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)},
		{"2026-03-01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2026/03/01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2026.03.01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"01-Mar-2026", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"Mar 1 2026", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		got, ok := parseDate(tc.value)
		if !ok {
			t.Errorf("parseDate(%q) returned not ok", tc.value)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("parseDate(%q) = %s, want %s", tc.value, got, tc.want)
		}
	}

	if _, ok := parseDate("not a date"); ok {
		t.Errorf("parseDate(not a date) = ok, want failure")
	}
}

package status

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mallocator/domain-monitor/pkg/logger"
)

func TestStoreLoadSave(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "status_test")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.Errorf("failed to remove temp directory: %v", err)
		}
	}()

	store := NewStore(filepath.Join(tmpDir, "cache", "domain-status.json"), logger.New())

	exp := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	in := []DomainStatus{
		{Domain: "a.com", Description: "main site", ExpirationDate: &exp, DaysUntilExpiration: 100},
		{Domain: "b.com", Error: "lookup failed"},
	}
	store.Save(in)

	out := store.Load()
	if len(out) != 2 {
		t.Fatalf("Load returned %d records, want 2", len(out))
	}
	if out[0].Domain != "a.com" || out[1].Domain != "b.com" {
		t.Errorf("Load order = %s, %s, want a.com, b.com", out[0].Domain, out[1].Domain)
	}
	if out[0].ExpirationDate == nil || !out[0].ExpirationDate.Equal(exp) {
		t.Errorf("Load ExpirationDate = %v, want %s", out[0].ExpirationDate, exp)
	}
	if out[1].Error != "lookup failed" {
		t.Errorf("Load Error = %q, want lookup failed", out[1].Error)
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"), logger.New())

	if got := store.Load(); len(got) != 0 {
		t.Errorf("Load of missing cache returned %d records, want empty", len(got))
	}
}

func TestStoreLoadCorruptFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "domain-status.json")
	if err := os.WriteFile(path, []byte(`{"this is not valid JSON`), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path, logger.New())
	if got := store.Load(); len(got) != 0 {
		t.Errorf("Load of corrupt cache returned %d records, want empty", len(got))
	}
}

func TestStoreSaveReplacesWholeSet(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "domain-status.json"), logger.New())

	store.Save([]DomainStatus{{Domain: "a.com"}, {Domain: "b.com"}})
	store.Save([]DomainStatus{{Domain: "c.com"}})

	out := store.Load()
	if len(out) != 1 || out[0].Domain != "c.com" {
		t.Errorf("Load after second save = %v, want just c.com", out)
	}
}

package status

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Store persists the full status set as a single JSON file. Writes always
// replace the whole file, never patch individual records.
type Store struct {
	path string
	log  *logrus.Logger
}

// NewStore creates a status cache store backed by the file at path.
func NewStore(path string, log *logrus.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load reads the cached status set. A missing or corrupt cache degrades to
// an empty set, which makes the next refresh re-query every domain.
func (s *Store) Load() []DomainStatus {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnf("Could not read status cache %s: %v", s.path, err)
		}
		return nil
	}

	var statuses []DomainStatus
	if err := json.Unmarshal(data, &statuses); err != nil {
		s.log.Warnf("Discarding corrupt status cache %s: %v", s.path, err)
		return nil
	}
	return statuses
}

// Save replaces the cached status set. A write failure is logged and
// swallowed; the next cycle recomputes from the stale persisted state.
func (s *Store) Save(statuses []DomainStatus) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.log.Errorf("Could not create cache directory for %s: %v", s.path, err)
		return
	}

	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		s.log.Errorf("Could not marshal status cache: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.log.Warnf("Could not write status cache %s: %v", s.path, err)
	}
}

// Package sched owns the cron schedules for refresh and recalculation runs
package sched

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Manager holds the currently installed cron entries by name. Replacing an
// entry always cancels the previous one first, so two periodic timers for
// the same duty never run simultaneously.
type Manager struct {
	cron    *cron.Cron
	log     *logrus.Logger
	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// New creates a started scheduler manager.
func New(log *logrus.Logger) *Manager {
	m := &Manager{
		cron:    cron.New(),
		log:     log,
		entries: make(map[string]cron.EntryID),
	}
	m.cron.Start()
	return m
}

// Reschedule cancels any entry installed under name and installs fn on the
// given cron expression. An empty expression just cancels.
func (m *Manager) Reschedule(name, spec string, fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.entries[name]; ok {
		m.cron.Remove(id)
		delete(m.entries, name)
	}
	if spec == "" {
		m.log.Infof("Schedule %q cleared", name)
		return nil
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("failed to parse cron expression %q for %q: %w", spec, name, err)
	}
	id, err := m.cron.AddFunc(spec, fn)
	if err != nil {
		return fmt.Errorf("failed to schedule %q on %q: %w", name, spec, err)
	}
	m.entries[name] = id

	m.log.Infof("Schedule %q installed: %s, next run %s",
		name, spec, schedule.Next(time.Now()).Format("2006-01-02 15:04:05"))
	return nil
}

// Stop cancels all schedules and stops the underlying cron runner. Jobs
// already running are allowed to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, id := range m.entries {
		m.cron.Remove(id)
		delete(m.entries, name)
	}
	<-m.cron.Stop().Done()
}

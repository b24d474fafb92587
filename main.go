// Package main runs the domain monitor: a small service that watches
// domain registration expiry via WHOIS, warns over ntfy.sh when domains
// approach their expiration date, and serves a web UI for configuration
// and status.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/mallocator/domain-monitor/pkg/availability"
	"github.com/mallocator/domain-monitor/pkg/check"
	"github.com/mallocator/domain-monitor/pkg/config"
	"github.com/mallocator/domain-monitor/pkg/logger"
	"github.com/mallocator/domain-monitor/pkg/monitor"
	"github.com/mallocator/domain-monitor/pkg/notify"
	"github.com/mallocator/domain-monitor/pkg/sched"
	"github.com/mallocator/domain-monitor/pkg/status"
	"github.com/mallocator/domain-monitor/pkg/web"
	"github.com/mallocator/domain-monitor/pkg/whois"
)

const portAttempts = 10

func main() {
	log := logger.New()

	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "."
	}
	store := config.NewStore(configDir, log)

	cachePath := os.Getenv("CACHE_FILE")
	if cachePath == "" {
		cachePath = filepath.Join(configDir, "cache", "domain-status.json")
	}
	cache := status.NewStore(cachePath, log)

	bootCfg, _, err := store.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	scheduler := sched.New(log)

	// Refresh and recalculation cycles share one mutex so at most one run
	// is ever writing the cache, whether triggered by cron or a config save.
	var runMu sync.Mutex

	// Config is reloaded at the start of every cycle so UI edits take
	// effect without a restart.
	newMonitor := func(cfg *config.AppConfig) *monitor.Monitor {
		client := whois.NewClient(cfg.WhoisTimeout(), log)
		return monitor.New(check.New(client, log), cache, notify.New(cfg.Ntfy, log), log)
	}

	checkDomains := func() {
		runMu.Lock()
		defer runMu.Unlock()

		cfg, specs, err := store.Load()
		if err != nil {
			log.Errorf("Cannot load configuration, skipping refresh: %v", err)
			return
		}
		newMonitor(cfg).Refresh(context.Background(), cfg, specs)
	}

	recalculate := func() {
		runMu.Lock()
		defer runMu.Unlock()

		cfg, specs, err := store.Load()
		if err != nil {
			log.Errorf("Cannot load configuration, skipping recalculation: %v", err)
			return
		}
		newMonitor(cfg).Recalculate(cfg, specs)
	}

	// updateSchedule rebinds both cron entries to the current config and
	// kicks off an immediate run. With recalculateAfterSave set, the
	// immediate run is the cheap cache recalculation instead of a full
	// WHOIS sweep.
	updateSchedule := func() error {
		cfg, _, err := store.Load()
		if err != nil {
			return err
		}
		if err := scheduler.Reschedule("refresh", cfg.CheckInterval, checkDomains); err != nil {
			return err
		}
		if err := scheduler.Reschedule("recalculate", cfg.RecalculateInterval, recalculate); err != nil {
			return err
		}

		if cfg.RecalculateAfterSave {
			go recalculate()
		} else {
			go checkDomains()
		}
		return nil
	}

	whoisClient := whois.NewClient(bootCfg.WhoisTimeout(), log)
	availChecker := availability.New(bootCfg.WhoisTimeout(), log)
	server := web.New(store, cache, whoisClient, availChecker, updateSchedule, log)

	if _, err := server.Start(bootCfg.Port, portAttempts); err != nil {
		log.Fatalf("Failed to start web interface: %v", err)
	}

	if err := updateSchedule(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Infof("Shutting down")
	scheduler.Stop()
	if err := server.Shutdown(); err != nil {
		log.Warnf("Web server shutdown: %v", err)
	}
}

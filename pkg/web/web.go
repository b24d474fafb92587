// Package web provides the configuration and status web interface for the
// domain monitor application
package web

import (
	"context"
	"fmt"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/mallocator/domain-monitor/pkg/config"
	"github.com/mallocator/domain-monitor/pkg/monitor"
	"github.com/mallocator/domain-monitor/pkg/notify"
	"github.com/mallocator/domain-monitor/pkg/status"
	"github.com/mallocator/domain-monitor/pkg/whois"
)

// Availability answers whether a domain appears unregistered.
type Availability interface {
	IsAvailable(ctx context.Context, domain string) (bool, error)
}

// Server exposes the JSON API and static UI.
type Server struct {
	app      *fiber.App
	store    *config.Store
	cache    monitor.Cache
	whois    whois.Lookup
	avail    Availability
	onUpdate func() error
	log      *logrus.Logger
}

// New creates the web server. onUpdate runs after every successful config
// save and is expected to reschedule and trigger a new cycle.
func New(store *config.Store, cache monitor.Cache, lookup whois.Lookup, avail Availability, onUpdate func() error, log *logrus.Logger) *Server {
	s := &Server{
		app:      fiber.New(fiber.Config{DisableStartupMessage: true}),
		store:    store,
		cache:    cache,
		whois:    lookup,
		avail:    avail,
		onUpdate: onUpdate,
		log:      log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Static("/", "./public")

	api := s.app.Group("/api")
	api.Get("/config", s.getConfig)
	api.Post("/config", s.postConfig)
	api.Get("/domains/status", s.getStatus)
	api.Get("/domains/:domain/whois", s.getWhois)
	api.Get("/domains/:domain/availability", s.getAvailability)
	api.Post("/test-notification", s.postTestNotification)
}

// getConfig returns the current application config and domain list.
func (s *Server) getConfig(c *fiber.Ctx) error {
	cfg, domains, err := s.store.Load()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"config":  cfg,
		"domains": config.DomainsConfig{Domains: domains},
	})
}

// postConfig saves the posted config pair and triggers a reschedule.
func (s *Server) postConfig(c *fiber.Ctx) error {
	var input struct {
		Config  *config.AppConfig    `json:"config"`
		Domains config.DomainsConfig `json:"domains"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if input.Config == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing config"})
	}

	if err := s.store.Save(input.Config, input.Domains.Domains); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if s.onUpdate != nil {
		if err := s.onUpdate(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

// getStatus serves the cached status set. No WHOIS queries happen here;
// the dashboard always reads what the last cycle produced.
func (s *Server) getStatus(c *fiber.Ctx) error {
	statuses := s.cache.Load()
	if statuses == nil {
		statuses = []status.DomainStatus{}
	}
	return c.JSON(statuses)
}

// getWhois does an on-demand lookup for the detail view, bypassing the cache.
func (s *Server) getWhois(c *fiber.Ctx) error {
	domain := c.Params("domain")
	rec, err := s.whois.Lookup(c.Context(), domain)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rec)
}

// getAvailability checks whether a domain looks unregistered.
func (s *Server) getAvailability(c *fiber.Ctx) error {
	domain := c.Params("domain")
	available, err := s.avail.IsAvailable(c.Context(), domain)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"domain": domain, "available": available})
}

// postTestNotification sends a test push with the settings posted from the
// form, so users can verify their topic before saving.
func (s *Server) postTestNotification(c *fiber.Ctx) error {
	var ntfy config.NtfyConfig
	if err := c.BodyParser(&ntfy); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if ntfy.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing ntfy url"})
	}

	n := notify.New(ntfy, s.log)
	if err := n.Send("Domain Monitor Test", "Test notification from domain monitor"); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

// Start listens on the first free port from initialPort, trying up to
// maxAttempts successive ports. Returns the bound port.
func (s *Server) Start(initialPort, maxAttempts int) (int, error) {
	for port := initialPort; port < initialPort+maxAttempts; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			s.log.Infof("Port %d is in use, trying next port", port)
			continue
		}

		go func() {
			if err := s.app.Listener(ln); err != nil {
				s.log.Errorf("Web server stopped: %v", err)
			}
		}()
		s.log.Infof("Web interface running at http://localhost:%d", port)
		return port, nil
	}
	return 0, fmt.Errorf("failed to find an available port in %d-%d", initialPort, initialPort+maxAttempts-1)
}

// Shutdown stops the web server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

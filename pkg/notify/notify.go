// Package notify provides push notification delivery for the domain monitor application
package notify

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mallocator/domain-monitor/pkg/config"
	"github.com/mallocator/domain-monitor/pkg/status"
)

// Notifier delivers warnings through an ntfy.sh topic.
type Notifier struct {
	cfg    config.NtfyConfig
	client *http.Client
	log    *logrus.Logger
}

// New creates a notifier for the configured ntfy topic.
func New(cfg config.NtfyConfig, log *logrus.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// WarnExpiry sends an expiration warning for a domain. Delivery failure
// must never abort the refresh cycle, so errors are logged and swallowed.
func (n *Notifier) WarnExpiry(st status.DomainStatus) {
	message := fmt.Sprintf("Domain %s will expire in %d days", st.Domain, st.DaysUntilExpiration)
	if st.ExpirationDate != nil {
		message = fmt.Sprintf("%s (%s)", message, st.ExpirationDate.Format("2006-01-02"))
	}
	if err := n.Send("Domain Expiration Warning", message); err != nil {
		n.log.Errorf("Failed to send notification for %s: %v", st.Domain, err)
	}
}

// Send posts a message to the ntfy topic, or just logs it if no topic is
// configured.
func (n *Notifier) Send(title, message string) error {
	n.log.Infof("Notification: %s", message)

	if n.cfg.URL == "" {
		n.log.Infof("ntfy not configured, skipping push send")
		return nil
	}

	req, err := http.NewRequest(http.MethodPost, n.cfg.URL, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Title", title)
	if n.cfg.Priority != "" {
		req.Header.Set("Priority", n.cfg.Priority)
	}
	if n.cfg.Username != "" {
		req.SetBasicAuth(n.cfg.Username, n.cfg.Password)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			n.log.Warnf("Failed to close notification response: %v", err)
		}
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected with status %s", resp.Status)
	}
	n.log.Debugf("Notification delivered with status %s", resp.Status)
	return nil
}

// Package notify delivers audit findings to Telegram, Microsoft Teams, and
// generic webhooks, with a state file that mutes repeated alerts for a day.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/fabriziosalmi/domainmate/internal/audit"
	"github.com/fabriziosalmi/domainmate/internal/config"
)

// telegramAPI is the Telegram Bot API base; var for tests.
var telegramAPI = "https://api.telegram.org"

// ErrNoChannels is returned by Test when no delivery channel is configured.
var ErrNoChannels = errors.New("no notification channels configured")

// Service dispatches audit findings over the configured channels.
type Service struct {
	client *req.Client
	cfg    config.NotifyConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a notification service. Channels without configuration
// are skipped at dispatch time.
func NewService(client *req.Client, cfg config.NotifyConfig, logger *slog.Logger) *Service {
	return &Service{client: client, cfg: cfg, logger: logger, now: time.Now}
}

// Dispatch sends the report's actionable findings to every configured
// channel. Findings notified within the last day are muted; findings that
// have resolved are cleared from the state so they can alert again. Channel
// failures are collected, not fatal to other channels.
func (s *Service) Dispatch(ctx context.Context, report *audit.Report) error {
	state, err := LoadState(s.cfg.StateFile)
	if err != nil {
		return err
	}

	now := s.now()
	active := make(map[string]bool)
	var due []audit.Finding
	for _, f := range report.Actionable() {
		key := f.Key()
		active[key] = true
		if state.ShouldNotify(key, now) {
			due = append(due, f)
		}
	}
	state.Prune(active)

	if len(due) == 0 {
		s.logger.Debug("no findings due for notification")
		return state.Save()
	}

	message := formatMessage(due)
	var errs []error
	for _, ch := range s.channels() {
		if err := ch.send(ctx, message, due); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.name, err))
			s.logger.Error("notification failed", "channel", ch.name, "error", err)
			continue
		}
		s.logger.Info("notification sent", "channel", ch.name, "findings", len(due))
	}

	// only mark findings sent when at least one channel accepted them
	if len(errs) < len(s.channels()) {
		for _, f := range due {
			state.MarkSent(f.Key(), now)
		}
	}
	if err := state.Save(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Test sends an arbitrary message through every configured channel, bypassing
// the dedup state. It errors when no channel is configured so a misconfigured
// setup is visible instead of silently succeeding.
func (s *Service) Test(ctx context.Context, title, message string) error {
	chs := s.channels()
	if len(chs) == 0 {
		return ErrNoChannels
	}
	text := title + "\n" + message
	var errs []error
	for _, ch := range chs {
		if err := ch.send(ctx, text, nil); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.name, err))
			continue
		}
		s.logger.Info("test notification sent", "channel", ch.name)
	}
	return errors.Join(errs...)
}

type channel struct {
	name string
	send func(ctx context.Context, message string, findings []audit.Finding) error
}

// channels returns the configured delivery channels.
func (s *Service) channels() []channel {
	var out []channel
	if s.cfg.TelegramToken != "" && s.cfg.TelegramChatID != "" {
		out = append(out, channel{name: "telegram", send: s.sendTelegram})
	}
	if s.cfg.TeamsWebhook != "" {
		out = append(out, channel{name: "teams", send: s.sendTeams})
	}
	if s.cfg.WebhookURL != "" {
		out = append(out, channel{name: "webhook", send: s.sendWebhook})
	}
	return out
}

// formatMessage renders findings as a text digest grouped by domain.
func formatMessage(findings []audit.Finding) string {
	var b strings.Builder
	b.WriteString("Domain health alerts\n")
	current := ""
	for _, f := range findings {
		if f.Domain != current {
			current = f.Domain
			fmt.Fprintf(&b, "\n%s\n", f.Domain)
		}
		fmt.Fprintf(&b, "  [%s] %s: %s\n", strings.ToUpper(string(f.Status)), f.Monitor, f.Summary)
	}
	return b.String()
}

func (s *Service) sendTelegram(ctx context.Context, message string, _ []audit.Finding) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBodyJsonMarshal(map[string]string{
			"chat_id": s.cfg.TelegramChatID,
			"text":    message,
		}).
		Post(telegramAPI + "/bot" + s.cfg.TelegramToken + "/sendMessage")
	if err != nil {
		return err
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("telegram API returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func (s *Service) sendTeams(ctx context.Context, message string, _ []audit.Finding) error {
	card := map[string]any{
		"@type":      "MessageCard",
		"@context":   "https://schema.org/extensions",
		"themeColor": "C62828",
		"summary":    "Domain health alerts",
		"sections": []map[string]string{
			{"activityTitle": "Domain health alerts", "text": message},
		},
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetBodyJsonMarshal(card).
		Post(s.cfg.TeamsWebhook)
	if err != nil {
		return err
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("teams webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func (s *Service) sendWebhook(ctx context.Context, message string, findings []audit.Finding) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBodyJsonMarshal(map[string]any{
			"source":   "domainmate",
			"message":  message,
			"findings": findings,
		}).
		Post(s.cfg.WebhookURL)
	if err != nil {
		return err
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// Heartbeat pings a liveness URL so an external scheduler can detect silent
// failures of the audit job. A missing URL is a no-op.
func Heartbeat(ctx context.Context, client *req.Client, url string, logger *slog.Logger) error {
	if url == "" {
		return nil
	}
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("heartbeat ping: %w", err)
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("heartbeat endpoint returned HTTP %d", resp.StatusCode)
	}
	logger.Debug("heartbeat sent", "url", url)
	return nil
}

package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ibeckermayer/lunchbot/internal/config"
	"github.com/ibeckermayer/lunchbot/internal/notifier/providers"
)

// Notifier delivers announcements to every configured sender
type Notifier struct {
	senders []Sender
	logger  *slog.Logger
}

// Sender delivers one message to one destination
type Sender interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// New creates a notifier over the given senders
func New(logger *slog.Logger, senders ...Sender) *Notifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{senders: senders, logger: logger}
}

// NewFromConfig creates the senders enabled in configuration. A dry run
// replaces them all with a console sender writing to out.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, dryRun bool, out io.Writer) (*Notifier, error) {
	if dryRun {
		return New(logger, providers.NewConsoleSender(out)), nil
	}

	var senders []Sender
	if cfg.Slack.Token != "" {
		senders = append(senders, providers.NewSlackSender(providers.SlackOptions{
			Token:         cfg.Slack.Token,
			Channels:      cfg.Slack.Channels,
			Username:      cfg.Slack.Username,
			IconEmoji:     cfg.Slack.IconEmoji,
			RatePerSecond: cfg.Slack.RatePerSecond,
		}))
	}
	if cfg.Email.Enabled {
		senders = append(senders, providers.NewSMTPSender(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPass,
			cfg.Email.FromAddr,
			cfg.Email.ToAddr,
		))
	}
	if len(senders) == 0 {
		return nil, fmt.Errorf("no announcement destination configured")
	}

	return New(logger, senders...), nil
}

// Announce sends messages in order. Each message goes out to all senders
// concurrently; a failing sender does not stop the others or the messages
// after it.
func (n *Notifier) Announce(ctx context.Context, messages []string) error {
	var errs []error
	for _, msg := range messages {
		var g errgroup.Group
		for _, s := range n.senders {
			g.Go(func() error {
				if err := s.Send(ctx, msg); err != nil {
					n.logger.Error("failed to send announcement", "sender", s.Name(), "error", err)
					return fmt.Errorf("%s: %w", s.Name(), err)
				}
				n.logger.Debug("announcement sent", "sender", s.Name())
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

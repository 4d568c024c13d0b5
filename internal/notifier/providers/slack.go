package providers

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

// SlackOptions configures a SlackSender
type SlackOptions struct {
	Token         string
	Channels      []string
	Username      string
	IconEmoji     string
	RatePerSecond float64
	// APIURL overrides the Slack Web API endpoint. It must end in a slash.
	APIURL string
}

// SlackSender posts announcements to one or more Slack channels
type SlackSender struct {
	client   *slack.Client
	channels []string
	username string
	icon     string
	limiter  *rate.Limiter
}

// NewSlackSender creates a Slack sender
func NewSlackSender(opts SlackOptions) *SlackSender {
	var clientOpts []slack.Option
	if opts.APIURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(opts.APIURL))
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	return &SlackSender{
		client:   slack.New(opts.Token, clientOpts...),
		channels: opts.Channels,
		username: opts.Username,
		icon:     opts.IconEmoji,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

func (s *SlackSender) Name() string { return "slack" }

// Send posts text to every channel, as the bot user rather than the token owner
func (s *SlackSender) Send(ctx context.Context, text string) error {
	for _, ch := range s.channels {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		_, _, err := s.client.PostMessageContext(ctx, ch,
			slack.MsgOptionText(text, false),
			slack.MsgOptionAsUser(false),
			slack.MsgOptionUsername(s.username),
			slack.MsgOptionIconEmoji(s.icon),
		)
		if err != nil {
			return fmt.Errorf("failed to post to #%s: %w", ch, err)
		}
	}
	return nil
}

package notifier

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/lunchbot/internal/config"
)

type recordingSender struct {
	name string
	fail bool

	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) Name() string { return r.name }

func (r *recordingSender) Send(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("boom")
	}
	r.sent = append(r.sent, text)
	return nil
}

func TestAnnounce_FansOutInOrder(t *testing.T) {
	a := &recordingSender{name: "a"}
	b := &recordingSender{name: "b"}
	n := New(nil, a, b)

	require.NoError(t, n.Announce(context.Background(), []string{"one", "two", "three"}))
	assert.Equal(t, []string{"one", "two", "three"}, a.sent)
	assert.Equal(t, []string{"one", "two", "three"}, b.sent)
}

func TestAnnounce_FailingSenderDoesNotStopOthers(t *testing.T) {
	ok := &recordingSender{name: "ok"}
	broken := &recordingSender{name: "broken", fail: true}
	n := New(nil, broken, ok)

	err := n.Announce(context.Background(), []string{"one", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: boom")
	assert.Equal(t, []string{"one", "two"}, ok.sent)
}

func TestAnnounce_NothingToSay(t *testing.T) {
	a := &recordingSender{name: "a"}
	require.NoError(t, New(nil, a).Announce(context.Background(), nil))
	assert.Empty(t, a.sent)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()

	_, err := NewFromConfig(cfg, nil, false, nil)
	assert.Error(t, err, "no destination without a Slack token or email")

	cfg.Slack.Token = "xoxb-1"
	cfg.Email.Enabled = true
	n, err := NewFromConfig(cfg, nil, false, nil)
	require.NoError(t, err)
	require.Len(t, n.senders, 2)
	assert.Equal(t, "slack", n.senders[0].Name())
	assert.Equal(t, "smtp", n.senders[1].Name())

	var buf bytes.Buffer
	n, err = NewFromConfig(cfg, nil, true, &buf)
	require.NoError(t, err)
	require.NoError(t, n.Announce(context.Background(), []string{"*Menu:*\nPasta"}))
	assert.Equal(t, "*Menu:*\nPasta\n\n", buf.String())
}

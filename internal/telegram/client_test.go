package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBot records every Chattable and replays queued errors.
type fakeBot struct {
	sent     []tgbotapi.Chattable
	errs     []error
	nextID   int
	response *tgbotapi.APIResponse
}

func (f *fakeBot) pop() error {
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if err := f.pop(); err != nil {
		return tgbotapi.Message{}, err
	}
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.sent = append(f.sent, c)
	if err := f.pop(); err != nil {
		return nil, err
	}
	if f.response != nil {
		return f.response, nil
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func newTestClient(bot *fakeBot, channel string) (*Client, *[]time.Duration) {
	c := newClient(bot, channel)
	c.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	var waits []time.Duration
	c.wait = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return c, &waits
}

func TestChannelParsing(t *testing.T) {
	tests := []struct {
		channel  string
		wantID   int64
		wantName string
	}{
		{"@mychannel", 0, "@mychannel"},
		{"mychannel", 0, "@mychannel"},
		{"-1001234567890", -1001234567890, ""},
	}
	for _, tt := range tests {
		c := newClient(&fakeBot{}, tt.channel)
		if c.chatID != tt.wantID || c.channel != tt.wantName {
			t.Errorf("newClient(%q) = (%d, %q), want (%d, %q)", tt.channel, c.chatID, c.channel, tt.wantID, tt.wantName)
		}
	}
}

func TestSendMessage(t *testing.T) {
	bot := &fakeBot{}
	c, _ := newTestClient(bot, "@ch")

	msg, err := c.SendMessage(context.Background(), "<b>hi</b>")
	require.NoError(t, err)
	assert.Equal(t, 1, msg.MessageID)

	require.Len(t, bot.sent, 1)
	cfg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "@ch", cfg.ChannelUsername)
	assert.Equal(t, "<b>hi</b>", cfg.Text)
	assert.Equal(t, tgbotapi.ModeHTML, cfg.ParseMode)
}

func TestEditMessage(t *testing.T) {
	bot := &fakeBot{}
	c, _ := newTestClient(bot, "-100")

	_, err := c.EditMessage(context.Background(), 42, "new")
	require.NoError(t, err)

	cfg, ok := bot.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100), cfg.ChatID)
	assert.Equal(t, 42, cfg.MessageID)
	assert.Equal(t, "new", cfg.Text)
}

func TestRetryAfter(t *testing.T) {
	limited := &tgbotapi.Error{Code: 429, Message: "Too Many Requests", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 3}}
	bot := &fakeBot{errs: []error{limited}}
	c, waits := newTestClient(bot, "@ch")

	msg, err := c.SendMessage(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 1, msg.MessageID)
	assert.Len(t, bot.sent, 2)
	assert.Equal(t, []time.Duration{3 * time.Second}, *waits)
}

func TestRetryAfterOnlyOnce(t *testing.T) {
	limited := &tgbotapi.Error{Code: 429, ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 1}}
	bot := &fakeBot{errs: []error{limited, limited}}
	c, _ := newTestClient(bot, "@ch")

	_, err := c.SendMessage(context.Background(), "x")
	var apiErr *tgbotapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Len(t, bot.sent, 2)
}

func TestOtherErrorsNotRetried(t *testing.T) {
	bot := &fakeBot{errs: []error{errors.New("Bad Request: can't parse entities")}}
	c, waits := newTestClient(bot, "@ch")

	_, err := c.SendMessage(context.Background(), "<b>")
	assert.Error(t, err)
	assert.Len(t, bot.sent, 1)
	assert.Empty(t, *waits)
}

func TestSendPhoto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpg"), 0o644))

	bot := &fakeBot{}
	c, _ := newTestClient(bot, "@ch")

	_, err := c.SendPhoto(context.Background(), path, "<i>cap</i>")
	require.NoError(t, err)
	_, err = c.SendPhoto(context.Background(), "https://e.com/p.png", "")
	require.NoError(t, err)

	local := bot.sent[0].(tgbotapi.PhotoConfig)
	assert.Equal(t, tgbotapi.FilePath(path), local.File)
	assert.Equal(t, "<i>cap</i>", local.Caption)
	assert.Equal(t, tgbotapi.ModeHTML, local.ParseMode)

	remote := bot.sent[1].(tgbotapi.PhotoConfig)
	assert.Equal(t, tgbotapi.FileURL("https://e.com/p.png"), remote.File)
	assert.Empty(t, remote.ParseMode)
}

func TestSendPhotoMissingFile(t *testing.T) {
	bot := &fakeBot{}
	c, _ := newTestClient(bot, "@ch")

	_, err := c.SendPhoto(context.Background(), filepath.Join(t.TempDir(), "none.jpg"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, bot.sent)
}

func TestEditCaption(t *testing.T) {
	bot := &fakeBot{}
	c, _ := newTestClient(bot, "@ch")

	_, err := c.EditCaption(context.Background(), 7, "")
	require.NoError(t, err)

	cfg := bot.sent[0].(tgbotapi.EditMessageCaptionConfig)
	assert.Equal(t, 7, cfg.MessageID)
	assert.Empty(t, cfg.Caption)
}

func TestDeleteMessage(t *testing.T) {
	bot := &fakeBot{}
	c, _ := newTestClient(bot, "@ch")
	require.NoError(t, c.DeleteMessage(context.Background(), 9))

	cfg := bot.sent[0].(tgbotapi.DeleteMessageConfig)
	assert.Equal(t, 9, cfg.MessageID)
	assert.Equal(t, "@ch", cfg.ChannelUsername)

	bot = &fakeBot{response: &tgbotapi.APIResponse{Ok: false, Description: "message to delete not found"}}
	c, _ = newTestClient(bot, "@ch")
	assert.ErrorContains(t, c.DeleteMessage(context.Background(), 9), "message to delete not found")
}

func TestCancelledContext(t *testing.T) {
	bot := &fakeBot{}
	c, _ := newTestClient(bot, "@ch")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SendMessage(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, bot.sent)
}

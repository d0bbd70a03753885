package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/canned-chat/config"
	"github.com/iamvkosarev/canned-chat/pkg/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	mu         sync.Mutex
	sent       []string
	requests   []api.Chattable
	updates    chan api.Update
	stopped    bool
	requestErr error
}

func newFakeBot() *fakeBot {
	return &fakeBot{updates: make(chan api.Update)}
}

func (b *fakeBot) Send(c api.Chattable) (api.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg, ok := c.(api.MessageConfig); ok {
		b.sent = append(b.sent, msg.Text)
	}
	return api.Message{}, nil
}

func (b *fakeBot) Request(c api.Chattable) (*api.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	if b.requestErr != nil {
		return nil, b.requestErr
	}
	return &api.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(api.UpdateConfig) api.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) StopReceivingUpdates() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
}

func (b *fakeBot) sentTexts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.sent...)
}

func testTelegramConfig() config.Telegram {
	return config.Telegram{
		PollTimeout:  1,
		SendInterval: time.Millisecond,
		SendBurst:    10,
	}
}

func newTestTelegramUsecase(t *testing.T, bot *fakeBot) *TelegramUsecase {
	t.Helper()
	chat := NewChatUsecase(ChatUsecaseDeps{StatsStorage: newFakeStatsStorage()}, config.Responder{})
	telegram, err := NewTelegramUsecase(testTelegramConfig(), TelegramUsecaseDeps{Bot: bot, Chat: chat})
	require.NoError(t, err)
	return telegram
}

func TestNewTelegramUsecase_SetsCommands(t *testing.T) {
	bot := newFakeBot()
	newTestTelegramUsecase(t, bot)
	require.Len(t, bot.requests, 1)
	_, ok := bot.requests[0].(api.SetMyCommandsConfig)
	assert.True(t, ok)
}

func TestNewTelegramUsecase_RequestError(t *testing.T) {
	bot := newFakeBot()
	bot.requestErr = errors.New("unauthorized")
	_, err := NewTelegramUsecase(testTelegramConfig(), TelegramUsecaseDeps{Bot: bot})
	assert.ErrorContains(t, err, "unauthorized")
}

func TestTelegramUsecase_HandleCommand(t *testing.T) {
	tests := []struct {
		command  string
		language local.Language
		want     string
	}{
		{command: CommandStart, language: local.Eng, want: MessageCommandStart.Default},
		{command: CommandStart, language: local.Rus, want: MessageCommandStart.Text(local.Rus)},
		{command: CommandHelp, language: local.Eng, want: MessageCommandHelp.Default},
		{command: "weather", language: local.Eng, want: MessageCommandUnknown.Default},
	}
	for _, tt := range tests {
		t.Run(tt.command+"_"+string(tt.language), func(t *testing.T) {
			bot := newFakeBot()
			telegram := newTestTelegramUsecase(t, bot)

			require.NoError(t, telegram.handleCommand(context.Background(), 42, tt.command, tt.language))
			assert.Equal(t, []string{tt.want}, bot.sentTexts())
		})
	}
}

func TestTelegramUsecase_HandleText(t *testing.T) {
	bot := newFakeBot()
	telegram := newTestTelegramUsecase(t, bot)

	require.NoError(t, telegram.handleText(context.Background(), 42, "show me some code", local.Eng))

	sent := bot.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "```")

	var typing bool
	for _, request := range bot.requests {
		if _, ok := request.(api.ChatActionConfig); ok {
			typing = true
		}
	}
	assert.True(t, typing)
}

func TestTelegramUsecase_HandleBlankText(t *testing.T) {
	bot := newFakeBot()
	telegram := newTestTelegramUsecase(t, bot)

	require.NoError(t, telegram.handleText(context.Background(), 42, "   ", local.Eng))
	assert.Empty(t, bot.sentTexts())
}

func TestTelegramUsecase_RunStopsOnCancel(t *testing.T) {
	bot := newFakeBot()
	telegram := newTestTelegramUsecase(t, bot)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- telegram.Run(ctx) }()

	bot.updates <- api.Update{}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	bot.mu.Lock()
	defer bot.mu.Unlock()
	assert.True(t, bot.stopped)
}

func TestTelegramUsecase_RunStopsOnClosedUpdates(t *testing.T) {
	bot := newFakeBot()
	telegram := newTestTelegramUsecase(t, bot)

	close(bot.updates)
	assert.NoError(t, telegram.Run(context.Background()))
}

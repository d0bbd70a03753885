package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/canned-chat/config"
	"github.com/iamvkosarev/canned-chat/internal/logger"
	"github.com/iamvkosarev/canned-chat/internal/model"
	"github.com/iamvkosarev/canned-chat/pkg/local"
	"github.com/sourcegraph/conc"
	"golang.org/x/time/rate"
)

const (
	CommandStart = "start"
	CommandHelp  = "help"
)

var (
	MessageCommandStart = local.NewSet(
		"Welcome! Write something and I will answer. Every message is answered on its own, nothing is remembered.",
		local.NewTrans(
			local.Rus, "Добро пожаловать! Напишите что-нибудь, и я отвечу. Каждое сообщение обрабатывается отдельно, ничего не запоминается.",
		),
	)
	MessageCommandHelp = local.NewSet(
		"Just write a message. Ask about code, ask how or why, or ask me to explain something.",
		local.NewTrans(
			local.Rus, "Просто напишите сообщение. Спросите про код, спросите как или почему, или попросите что-нибудь объяснить.",
		),
	)
	MessageCommandUnknown = local.NewSet(
		"I don't know that command",
		local.NewTrans(local.Rus, "Я не знаю такой команды"),
	)
	MessageServerError = local.NewSet(
		"Something wrong with me. Try later",
		local.NewTrans(local.Rus, "Что-то пошло не так. Попробуйте позже"),
	)
)

// TelegramBot is the part of *api.BotAPI the front end uses.
type TelegramBot interface {
	Send(c api.Chattable) (api.Message, error)
	Request(c api.Chattable) (*api.APIResponse, error)
	GetUpdatesChan(config api.UpdateConfig) api.UpdatesChannel
	StopReceivingUpdates()
}

type TelegramUsecaseDeps struct {
	Bot    TelegramBot
	Chat   *ChatUsecase
	Logger logger.Logger
}

// TelegramUsecase answers every text message with a canned reply.
// Each message is a one-message history; nothing is kept between updates.
type TelegramUsecase struct {
	TelegramUsecaseDeps
	cfg     config.Telegram
	limiter *rate.Limiter
}

func NewTelegramUsecase(cfg config.Telegram, deps TelegramUsecaseDeps) (*TelegramUsecase, error) {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	_, err := deps.Bot.Request(
		api.NewSetMyCommands(
			[]api.BotCommand{
				{
					Command:     CommandStart,
					Description: "Start a conversation",
				},
				{
					Command:     CommandHelp,
					Description: "Get help",
				},
			}...,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set bot commands: %w", err)
	}

	return &TelegramUsecase{
		TelegramUsecaseDeps: deps,
		cfg:                 cfg,
		limiter:             rate.NewLimiter(rate.Every(cfg.SendInterval), cfg.SendBurst),
	}, nil
}

// Run polls updates until ctx is done or the update channel closes.
func (t *TelegramUsecase) Run(ctx context.Context) error {
	u := api.NewUpdate(0)
	u.Timeout = t.cfg.PollTimeout

	updates := t.Bot.GetUpdatesChan(u)

	wg := conc.NewWaitGroup()
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			t.Bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			wg.Go(
				func() {
					if err := t.handleMessage(ctx, update.Message); err != nil {
						t.Logger.Error("error handling message", "error", err)
					}
				},
			)
		}
	}
}

func (t *TelegramUsecase) handleMessage(ctx context.Context, message *api.Message) error {
	chatID := message.Chat.ID
	language := local.Eng
	if message.From != nil {
		language = local.ParseLanguage(message.From.LanguageCode)
	}

	if message.IsCommand() {
		return t.handleCommand(ctx, chatID, message.Command(), language)
	}
	return t.handleText(ctx, chatID, message.Text, language)
}

func (t *TelegramUsecase) handleCommand(ctx context.Context, chatID int64, command string, language local.Language) error {
	var answerText string
	switch command {
	case CommandStart:
		answerText = MessageCommandStart.Text(language)
	case CommandHelp:
		answerText = MessageCommandHelp.Text(language)
	default:
		answerText = MessageCommandUnknown.Text(language)
	}
	_, err := t.sendMessage(ctx, chatID, answerText)
	return err
}

func (t *TelegramUsecase) handleText(ctx context.Context, chatID int64, text string, language local.Language) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if _, err := t.Bot.Request(api.NewChatAction(chatID, api.ChatTyping)); err != nil {
		t.Logger.Warn("failed to send chat action", "chat_id", chatID, "error", err)
	}

	reply, err := t.Chat.Reply(ctx, model.History{{Role: model.RoleUser, Content: text}})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		t.sendMessageAndHandleErr(ctx, chatID, MessageServerError.Text(language))
		return fmt.Errorf("failed to reply to chat %d: %w", chatID, err)
	}

	if _, err = t.sendMessage(ctx, chatID, reply.Text); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

func (t *TelegramUsecase) sendMessageAndHandleErr(ctx context.Context, chatID int64, message string) api.Message {
	msg, err := t.sendMessage(ctx, chatID, message)
	if err != nil {
		t.Logger.Error("failed to send new message to bot", "chat_id", chatID, "error", err)
	}
	return msg
}

func (t *TelegramUsecase) sendMessage(ctx context.Context, chatID int64, message string) (api.Message, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return api.Message{}, fmt.Errorf("failed to wait for send limiter: %w", err)
	}
	return t.Bot.Send(api.NewMessage(chatID, message))
}

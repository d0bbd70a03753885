package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/canned-chat/internal/logger"
	"github.com/iamvkosarev/canned-chat/internal/model"
	openai_tools "github.com/iamvkosarev/canned-chat/pkg/openai-tools"
	"github.com/sashabaranov/go-openai"
)

const (
	DefaultCompletionModel = "canned-chat"
	completionObject       = "chat.completion"
)

var (
	ErrStreamingUnsupported = errors.New("streaming is not supported")
)

type TokenCounter interface {
	CountTokens(messages []openai.ChatCompletionMessage, model string) (int, error)
}

type CompletionUsecaseDeps struct {
	Chat   *ChatUsecase
	Tokens TokenCounter
	Logger logger.Logger
}

// CompletionUsecase answers OpenAI chat-completion requests with canned replies.
type CompletionUsecase struct {
	CompletionUsecaseDeps
	now func() time.Time
}

func NewCompletionUsecase(deps CompletionUsecaseDeps) *CompletionUsecase {
	if deps.Tokens == nil {
		deps.Tokens = openai_tools.Counter{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	return &CompletionUsecase{
		CompletionUsecaseDeps: deps,
		now:                   time.Now,
	}
}

func (c *CompletionUsecase) Complete(
	ctx context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	if req.Stream {
		return openai.ChatCompletionResponse{}, ErrStreamingUnsupported
	}

	history := make(model.History, 0, len(req.Messages))
	for _, message := range req.Messages {
		history = append(
			history, model.Message{
				Role:    model.ParseRole(message.Role),
				Content: message.Content,
			},
		)
	}

	reply, err := c.Chat.Reply(ctx, history)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	modelName := req.Model
	if modelName == "" {
		modelName = DefaultCompletionModel
	}
	answer := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: reply.Text,
	}

	promptTokens := c.countTokens(req.Messages, modelName)
	completionTokens := c.countTokens([]openai.ChatCompletionMessage{answer}, modelName)

	return openai.ChatCompletionResponse{
		ID:      fmt.Sprintf("chatcmpl-%s", uuid.NewString()),
		Object:  completionObject,
		Created: c.now().Unix(),
		Model:   modelName,
		Choices: []openai.ChatCompletionChoice{
			{
				Index:        0,
				Message:      answer,
				FinishReason: openai.FinishReasonStop,
			},
		},
		Usage: openai.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

func (c *CompletionUsecase) countTokens(messages []openai.ChatCompletionMessage, modelName string) int {
	count, err := c.Tokens.CountTokens(messages, modelName)
	if err != nil {
		c.Logger.Warn("count token error, using estimate", "model", modelName, "error", err)
		return openai_tools.EstimateToken(messages)
	}
	return count
}

package openai_tools

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"
)

const fallbackEncoding = "cl100k_base"

// Per-message overhead of the chat format, as counted for gpt-3.5/gpt-4 models.
const (
	tokensPerMessage = 3
	tokensPerName    = 1
	tokensPerReply   = 3
)

// CountToken counts prompt tokens the way OpenAI bills chat messages.
// Unknown models fall back to the cl100k_base encoding.
func CountToken(messages []openai.ChatCompletionMessage, model string) (int, error) {
	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tkm, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return 0, fmt.Errorf("failed to get encoding %s: %w", fallbackEncoding, err)
		}
	}

	numTokens := 0
	for _, message := range messages {
		numTokens += tokensPerMessage
		numTokens += len(tkm.Encode(message.Content, nil, nil))
		numTokens += len(tkm.Encode(message.Role, nil, nil))
		if message.Name != "" {
			numTokens += tokensPerName
			numTokens += len(tkm.Encode(message.Name, nil, nil))
		}
	}
	numTokens += tokensPerReply
	return numTokens, nil
}

// EstimateToken approximates CountToken without an encoding: one token per
// whitespace-separated word plus the same per-message overhead.
func EstimateToken(messages []openai.ChatCompletionMessage) int {
	numTokens := 0
	for _, message := range messages {
		numTokens += tokensPerMessage + 1
		numTokens += len(strings.Fields(message.Content))
		if message.Name != "" {
			numTokens += tokensPerName + 1
		}
	}
	return numTokens + tokensPerReply
}

// Counter adapts CountToken to an interface.
type Counter struct{}

func (Counter) CountTokens(messages []openai.ChatCompletionMessage, model string) (int, error) {
	return CountToken(messages, model)
}

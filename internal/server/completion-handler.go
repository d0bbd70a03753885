package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iamvkosarev/canned-chat/internal/model"
	"github.com/iamvkosarev/canned-chat/internal/usecase"
	"github.com/sashabaranov/go-openai"
)

const (
	openAIErrorInvalidRequest = "invalid_request_error"
	openAIErrorServer         = "server_error"
)

func (s *Server) handleChatCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := s.Logger.With("request_id", RequestIDFromContext(ctx))

	var req openai.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOpenAIError(w, http.StatusBadRequest, openAIErrorInvalidRequest, "could not parse request body")
		return
	}

	resp, err := s.Completion.Complete(ctx, req)
	if err != nil {
		switch {
		case isClientGone(ctx, err):
			log.Debug("client went away before completion", "error", err)
		case errors.Is(err, model.ErrEmptyHistory):
			writeOpenAIError(w, http.StatusBadRequest, openAIErrorInvalidRequest, "messages must not be empty")
		case errors.Is(err, usecase.ErrStreamingUnsupported):
			writeOpenAIError(w, http.StatusBadRequest, openAIErrorInvalidRequest, "stream is not supported")
		default:
			log.Error("error in chat completions api", "error", err)
			writeOpenAIError(w, http.StatusInternalServerError, openAIErrorServer, MessageInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeOpenAIError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(
		w, status, openai.ErrorResponse{
			Error: &openai.APIError{
				Message: message,
				Type:    errType,
			},
		},
	)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/iamvkosarev/canned-chat/internal/model"
	"github.com/iamvkosarev/canned-chat/internal/validation"
)

const (
	MessageInvalidMessagesFormat = "Invalid messages format"
	MessageInternalServerError   = "Internal server error"
	MessageRequestTooLarge       = "Request body too large"
)

const messagesKey = "messages"

type historyRequest struct {
	Messages model.History `validate:"required,min=1,dive"`
}

type chatResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := s.Logger.With("request_id", RequestIDFromContext(ctx))

	history, err := decodeHistory(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, model.ErrInvalidMessages):
			writeError(w, http.StatusBadRequest, MessageInvalidMessagesFormat)
		case errors.As(err, &maxBytesErr):
			writeError(w, http.StatusRequestEntityTooLarge, MessageRequestTooLarge)
		default:
			log.Error("error in chat api", "error", err)
			writeError(w, http.StatusInternalServerError, MessageInternalServerError)
		}
		return
	}

	reply, err := s.Chat.Reply(ctx, history)
	if err != nil {
		switch {
		case isClientGone(ctx, err):
			log.Debug("client went away before reply", "error", err)
		case errors.Is(err, model.ErrEmptyHistory):
			writeError(w, http.StatusBadRequest, MessageInvalidMessagesFormat)
		default:
			log.Error("error in chat api", "error", err)
			writeError(w, http.StatusInternalServerError, MessageInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Message: reply.Text})
}

// decodeHistory returns model.ErrInvalidMessages for any well-formed body
// without a non-empty messages array of message objects. Malformed JSON is
// returned as a plain decode error. The messages key is matched exactly.
func decodeHistory(body io.Reader) (model.History, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat request: %w", err)
	}
	var req map[string]json.RawMessage
	if err = json.Unmarshal(raw, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, model.ErrInvalidMessages
		}
		return nil, fmt.Errorf("failed to decode chat request: %w", err)
	}
	messages, ok := req[messagesKey]
	if !ok {
		return nil, model.ErrInvalidMessages
	}

	var history historyRequest
	if err = json.Unmarshal(messages, &history.Messages); err != nil {
		return nil, model.ErrInvalidMessages
	}
	if err = validation.Validate(&history); err != nil {
		return nil, model.ErrInvalidMessages
	}
	return history.Messages, nil
}

func isClientGone(ctx context.Context, err error) bool {
	return ctx.Err() != nil &&
		(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

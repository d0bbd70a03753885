package model

import "errors"

var (
	ErrEmptyHistory    = errors.New("history is empty")
	ErrInvalidMessages = errors.New("invalid messages format")
)

type Role string

const (
	RoleUser      = Role("user")
	RoleAssistant = Role("assistant")
)

func ParseRole(s string) Role {
	switch s {
	case "assistant":
		return RoleAssistant
	default:
		return RoleUser
	}
}

type Message struct {
	Role    Role   `json:"role" validate:"omitempty,oneof=user assistant"`
	Content string `json:"content"`
}

// History is ordered oldest first.
type History []Message

func (h History) Last() (Message, bool) {
	if len(h) == 0 {
		return Message{}, false
	}
	return h[len(h)-1], true
}

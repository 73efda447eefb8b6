package usecase

import (
	"context"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/pkg/utils"
)

// ActionHandler defines the interface for button action handlers
type ActionHandler interface {
	// CanHandle determines if this handler can process the given action token
	CanHandle(action string) bool

	// Handle runs the action for a conversation and returns the reply
	Handle(ctx context.Context, conversationID string, action string, locale utils.Locale) (entity.Reply, error)
}

// ActionRouter routes action tokens to the appropriate handler
type ActionRouter interface {
	// Register registers a handler for a family of action tokens
	Register(handler ActionHandler)

	// GetHandler returns the handler for a token, or nil
	GetHandler(action string) ActionHandler
}

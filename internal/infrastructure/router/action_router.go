package router

import (
	"sync"

	"flightstatus-service/internal/usecase"
	"flightstatus-service/pkg/logger"
)

// ActionRouter routes button action tokens to the first handler that claims
// them, in registration order.
type ActionRouter struct {
	mu       sync.RWMutex
	handlers []usecase.ActionHandler
	logger   logger.Logger
}

// NewActionRouter creates a new action router
func NewActionRouter(logger logger.Logger) *ActionRouter {
	return &ActionRouter{
		handlers: make([]usecase.ActionHandler, 0),
		logger:   logger,
	}
}

// Register registers a handler for a family of action tokens
func (r *ActionRouter) Register(handler usecase.ActionHandler) {
	r.mu.Lock()
	r.handlers = append(r.handlers, handler)
	r.mu.Unlock()
	r.logger.Info("Registered action handler", "handler", handler)
}

// GetHandler returns the appropriate handler for a given action token
func (r *ActionRouter) GetHandler(action string) usecase.ActionHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, handler := range r.handlers {
		if handler.CanHandle(action) {
			return handler
		}
	}
	return nil
}

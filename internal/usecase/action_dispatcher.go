package usecase

import (
	"context"
	"fmt"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/pkg/logger"
	"flightstatus-service/pkg/metrics"
	"flightstatus-service/pkg/utils"
)

// ActionDispatcher runs button actions through the registered handlers
type ActionDispatcher struct {
	router  ActionRouter
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewActionDispatcher creates a new action dispatcher; m may be nil
func NewActionDispatcher(router ActionRouter, m *metrics.Metrics, logger logger.Logger) *ActionDispatcher {
	return &ActionDispatcher{
		router:  router,
		metrics: m,
		logger:  logger,
	}
}

// HandleAction processes one action token. Unknown or malformed tokens get
// a fixed reply offering a new search.
func (d *ActionDispatcher) HandleAction(ctx context.Context, conversationID string, action string, locale utils.Locale) entity.Reply {
	if d.metrics != nil {
		d.metrics.MessagesHandled.WithLabelValues("action").Inc()
	}

	handler := d.router.GetHandler(action)
	if handler == nil {
		d.logger.Debug("No handler found for action",
			"conversationId", conversationID,
			"action", action)
		return unknownActionReply(locale)
	}

	handlerType := fmt.Sprintf("%v", handler)
	d.logger.Info("Processing action with handler",
		"conversationId", conversationID,
		"handler", handlerType,
		"action", action)

	reply, err := handler.Handle(ctx, conversationID, action, locale)
	if err != nil {
		d.logger.Warn("Handler rejected action",
			"conversationId", conversationID,
			"handler", handlerType,
			"action", action,
			"error", err)
		return unknownActionReply(locale)
	}

	return reply
}

func unknownActionReply(locale utils.Locale) entity.Reply {
	return entity.Reply{
		Text:    utils.Message(locale, utils.MSG_UNKNOWN_ACTION),
		Buttons: [][]entity.Button{dateButtons(locale)},
	}
}

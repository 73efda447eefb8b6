package usecase

import (
	"context"
	"fmt"
	"strconv"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/pkg/utils"
)

type actionFunc func(ctx context.Context, conversationID string, args []string, locale utils.Locale) (entity.Reply, error)

// ConversationActionHandler adapts one Conversation operation to ActionHandler
type ConversationActionHandler struct {
	name   string
	handle actionFunc
}

// CanHandle checks the token name
func (h *ConversationActionHandler) CanHandle(action string) bool {
	name, _ := SplitActionToken(action)
	return name == h.name
}

// Handle splits the token and runs the operation
func (h *ConversationActionHandler) Handle(ctx context.Context, conversationID string, action string, locale utils.Locale) (entity.Reply, error) {
	_, args := SplitActionToken(action)
	return h.handle(ctx, conversationID, args, locale)
}

func (h *ConversationActionHandler) String() string {
	return h.name
}

// NewDateActionHandler handles "date|<keyword>"
func NewDateActionHandler(c *Conversation) *ConversationActionHandler {
	return &ConversationActionHandler{
		name: ActionTokenDate,
		handle: func(ctx context.Context, conversationID string, args []string, locale utils.Locale) (entity.Reply, error) {
			if len(args) != 1 {
				return entity.Reply{}, fmt.Errorf("date action expects 1 argument, got %d", len(args))
			}
			return c.SelectDate(ctx, conversationID, args[0], locale)
		},
	}
}

// NewSearchActionHandler handles "new_search"
func NewSearchActionHandler(c *Conversation) *ConversationActionHandler {
	return &ConversationActionHandler{
		name: ActionTokenNewSearch,
		handle: func(ctx context.Context, conversationID string, _ []string, locale utils.Locale) (entity.Reply, error) {
			return c.NewSearch(ctx, conversationID, locale, utils.MSG_SESSION_RESET), nil
		},
	}
}

// NewChangeActionHandler handles "change|date|<CODE>" and "change|code|<YYYY-MM-DD>"
func NewChangeActionHandler(c *Conversation) *ConversationActionHandler {
	return &ConversationActionHandler{
		name: ActionTokenChange,
		handle: func(ctx context.Context, conversationID string, args []string, locale utils.Locale) (entity.Reply, error) {
			if len(args) != 2 {
				return entity.Reply{}, fmt.Errorf("change action expects 2 arguments, got %d", len(args))
			}
			switch args[0] {
			case changeDate:
				return c.ChangeDate(ctx, conversationID, args[1], locale)
			case changeFlightCode:
				date, err := entity.ParseISODate(args[1])
				if err != nil {
					return entity.Reply{}, err
				}
				return c.ChangeFlightCode(ctx, conversationID, date, locale), nil
			}
			return entity.Reply{}, fmt.Errorf("unknown change target %q", args[0])
		},
	}
}

// NewRefreshActionHandler handles "refresh|<CODE>|<YYYY-MM-DD>"
func NewRefreshActionHandler(c *Conversation) *ConversationActionHandler {
	return &ConversationActionHandler{
		name: ActionTokenRefresh,
		handle: func(ctx context.Context, conversationID string, args []string, locale utils.Locale) (entity.Reply, error) {
			if len(args) != 2 {
				return entity.Reply{}, fmt.Errorf("refresh action expects 2 arguments, got %d", len(args))
			}
			code, date, err := parseLookupArgs(args[0], args[1])
			if err != nil {
				return entity.Reply{}, err
			}
			return c.Refresh(ctx, conversationID, code, date, locale), nil
		},
	}
}

// NewSelectActionHandler handles "select|<CODE>|<YYYY-MM-DD>|<index>"
func NewSelectActionHandler(c *Conversation) *ConversationActionHandler {
	return &ConversationActionHandler{
		name: ActionTokenSelect,
		handle: func(ctx context.Context, conversationID string, args []string, locale utils.Locale) (entity.Reply, error) {
			if len(args) != 3 {
				return entity.Reply{}, fmt.Errorf("select action expects 3 arguments, got %d", len(args))
			}
			code, date, err := parseLookupArgs(args[0], args[1])
			if err != nil {
				return entity.Reply{}, err
			}
			index, err := strconv.Atoi(args[2])
			if err != nil || index < 0 {
				return entity.Reply{}, fmt.Errorf("invalid flight index %q", args[2])
			}
			return c.Select(ctx, conversationID, code, date, index, locale), nil
		},
	}
}

// NewSubscribeActionHandler handles "subscribe|<CODE>|<YYYY-MM-DD>"
func NewSubscribeActionHandler(c *Conversation) *ConversationActionHandler {
	return &ConversationActionHandler{
		name: ActionTokenSubscribe,
		handle: func(ctx context.Context, conversationID string, args []string, locale utils.Locale) (entity.Reply, error) {
			if len(args) != 2 {
				return entity.Reply{}, fmt.Errorf("subscribe action expects 2 arguments, got %d", len(args))
			}
			code, date, err := parseLookupArgs(args[0], args[1])
			if err != nil {
				return entity.Reply{}, err
			}
			return c.Subscribe(ctx, conversationID, code, date, locale)
		},
	}
}

// NewUnsubscribeActionHandler handles "unsubscribe|<CODE>|<YYYY-MM-DD>"
func NewUnsubscribeActionHandler(c *Conversation) *ConversationActionHandler {
	return &ConversationActionHandler{
		name: ActionTokenUnsubscribe,
		handle: func(ctx context.Context, conversationID string, args []string, locale utils.Locale) (entity.Reply, error) {
			if len(args) != 2 {
				return entity.Reply{}, fmt.Errorf("unsubscribe action expects 2 arguments, got %d", len(args))
			}
			code, date, err := parseLookupArgs(args[0], args[1])
			if err != nil {
				return entity.Reply{}, err
			}
			return c.Unsubscribe(ctx, conversationID, code, date, locale)
		},
	}
}

// NewMyFlightsActionHandler handles "my_flights"
func NewMyFlightsActionHandler(c *Conversation) *ConversationActionHandler {
	return &ConversationActionHandler{
		name: ActionTokenMyFlights,
		handle: func(ctx context.Context, conversationID string, _ []string, locale utils.Locale) (entity.Reply, error) {
			return c.MyFlights(ctx, conversationID, locale)
		},
	}
}

// ConversationActionHandlers returns every handler backed by c
func ConversationActionHandlers(c *Conversation) []ActionHandler {
	return []ActionHandler{
		NewDateActionHandler(c),
		NewSearchActionHandler(c),
		NewChangeActionHandler(c),
		NewRefreshActionHandler(c),
		NewSelectActionHandler(c),
		NewSubscribeActionHandler(c),
		NewUnsubscribeActionHandler(c),
		NewMyFlightsActionHandler(c),
	}
}

func parseLookupArgs(rawCode, rawDate string) (string, entity.Date, error) {
	code, ok := utils.NormalizeFlightCode(rawCode)
	if !ok {
		return "", entity.Date{}, fmt.Errorf("invalid flight code %q", rawCode)
	}
	date, err := entity.ParseISODate(rawDate)
	if err != nil {
		return "", entity.Date{}, err
	}
	return code, date, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/pkg/utils"
)

// maxListedSubscriptions caps the "my flights" list
const maxListedSubscriptions = 10

var errSubscriptionsDisabled = errors.New("subscriptions are not configured")

// Subscribe follows a flight so that status pushes for it reach this conversation
func (c *Conversation) Subscribe(ctx context.Context, conversationID string, flightCode string, date entity.Date, locale utils.Locale) (entity.Reply, error) {
	if c.subscriptionRepo == nil {
		return entity.Reply{}, errSubscriptionsDisabled
	}

	subscription := &entity.FlightSubscription{
		SubscriptionKey: entity.SubscriptionKey(conversationID, flightCode, date),
		ConversationID:  conversationID,
		FlightNumber:    flightCode,
		FlightDate:      date.String(),
		Locale:          string(locale),
	}
	if err := c.subscriptionRepo.Upsert(ctx, subscription); err != nil {
		return c.subscriptionFailure(conversationID, err, locale), nil
	}

	c.logger.Info("Flight subscribed",
		"conversationId", conversationID,
		"flightNumber", flightCode,
		"date", date.String())

	return entity.Reply{
		Text:    utils.Message(locale, utils.MSG_SUBSCRIBED, flightCode, date.Format(utils.DISPLAY_DATE_LAYOUT)),
		Buttons: c.reportButtons(ctx, conversationID, flightCode, date, RefreshAction(flightCode, date), locale),
	}, nil
}

// Unsubscribe stops following a flight. Unsubscribing twice is not an error.
func (c *Conversation) Unsubscribe(ctx context.Context, conversationID string, flightCode string, date entity.Date, locale utils.Locale) (entity.Reply, error) {
	if c.subscriptionRepo == nil {
		return entity.Reply{}, errSubscriptionsDisabled
	}

	removed, err := c.subscriptionRepo.Delete(ctx, entity.SubscriptionKey(conversationID, flightCode, date))
	if err != nil {
		return c.subscriptionFailure(conversationID, err, locale), nil
	}

	c.logger.Info("Flight unsubscribed",
		"conversationId", conversationID,
		"flightNumber", flightCode,
		"date", date.String(),
		"removed", removed)

	return entity.Reply{
		Text:    utils.Message(locale, utils.MSG_UNSUBSCRIBED, flightCode, date.Format(utils.DISPLAY_DATE_LAYOUT)),
		Buttons: c.reportButtons(ctx, conversationID, flightCode, date, RefreshAction(flightCode, date), locale),
	}, nil
}

// MyFlights lists the conversation's subscriptions, each as a refresh button
func (c *Conversation) MyFlights(ctx context.Context, conversationID string, locale utils.Locale) (entity.Reply, error) {
	if c.subscriptionRepo == nil {
		return entity.Reply{}, errSubscriptionsDisabled
	}

	subscriptions, err := c.subscriptionRepo.FindByConversation(ctx, conversationID, maxListedSubscriptions)
	if err != nil {
		return c.subscriptionFailure(conversationID, err, locale), nil
	}

	if len(subscriptions) == 0 {
		return entity.Reply{
			Text:    utils.Message(locale, utils.MSG_NO_SUBSCRIPTIONS),
			Buttons: [][]entity.Button{newSearchRow(locale)},
		}, nil
	}

	rows := make([][]entity.Button, 0, len(subscriptions)+1)
	for _, s := range subscriptions {
		date, err := s.Date()
		if err != nil {
			c.logger.Warn("Skipping subscription with bad date", "subscriptionKey", s.SubscriptionKey, "error", err)
			continue
		}
		rows = append(rows, []entity.Button{{
			Label:  fmt.Sprintf("✈️ %s %s", s.FlightNumber, date.Format(utils.DISPLAY_DATE_LAYOUT)),
			Action: RefreshAction(s.FlightNumber, date),
		}})
	}
	rows = append(rows, newSearchRow(locale))

	return entity.Reply{
		Text:    utils.Message(locale, utils.MSG_MY_FLIGHTS),
		Buttons: rows,
	}, nil
}

// Subscribers returns the conversations following the flight a pushed
// status record describes. Records without a number or date match nobody.
func (c *Conversation) Subscribers(ctx context.Context, record *entity.FlightRecord) ([]string, error) {
	if c.subscriptionRepo == nil || record == nil {
		return nil, nil
	}
	code, ok := utils.NormalizeFlightCode(record.Number)
	if !ok {
		return nil, nil
	}
	date, ok := record.DepartureDate()
	if !ok {
		return nil, nil
	}

	subscriptions, err := c.subscriptionRepo.FindByFlight(ctx, code, date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to find subscribers: %w", err)
	}

	ids := make([]string, 0, len(subscriptions))
	for _, s := range subscriptions {
		ids = append(ids, s.ConversationID)
	}
	return ids, nil
}

// reportButtons is the keyboard under a flight report: refresh plus a
// subscribe toggle, then new search and my flights
func (c *Conversation) reportButtons(ctx context.Context, conversationID string, flightCode string, date entity.Date, refresh string, locale utils.Locale) [][]entity.Button {
	refreshButton := entity.Button{Label: utils.Message(locale, utils.BTN_REFRESH), Action: refresh}
	if c.subscriptionRepo == nil {
		return [][]entity.Button{{refreshButton}, newSearchRow(locale)}
	}

	toggle := entity.Button{Label: utils.Message(locale, utils.BTN_SUBSCRIBE), Action: SubscribeAction(flightCode, date)}
	subscribed, err := c.subscriptionRepo.Exists(ctx, entity.SubscriptionKey(conversationID, flightCode, date))
	if err != nil {
		c.logger.Warn("Failed to check subscription", "conversationId", conversationID, "error", err)
	} else if subscribed {
		toggle = entity.Button{Label: utils.Message(locale, utils.BTN_UNSUBSCRIBE), Action: UnsubscribeAction(flightCode, date)}
	}

	return [][]entity.Button{
		{refreshButton, toggle},
		append(newSearchRow(locale), entity.Button{Label: utils.Message(locale, utils.BTN_MY_FLIGHTS), Action: ActionTokenMyFlights}),
	}
}

func (c *Conversation) subscriptionFailure(conversationID string, err error, locale utils.Locale) entity.Reply {
	c.logger.Error("Subscription storage failed", "conversationId", conversationID, "error", err)
	return entity.Reply{
		Text:    utils.Message(locale, utils.MSG_TRANSIENT_ERROR),
		Buttons: [][]entity.Button{newSearchRow(locale)},
	}
}
